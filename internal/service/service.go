package service

import (
	"go.uber.org/zap"

	"rigops/backend/config"
	"rigops/backend/internal/repository"
	"rigops/backend/pkg/jwt"
	"rigops/backend/pkg/redis"
)

// Service 聚合全部业务服务，供 Handler 层统一注入
type Service struct {
	Auth   AuthService
	Shift  ShiftService
	Alert  AlertService
	Report ReportService
	Export ExportService
}

// NewService 创建服务聚合实例
func NewService(repo *repository.Repository, jwtMgr *jwt.Manager, redisC *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	alertSvc := NewAlertService(repo, &cfg.Alert, logger)
	shiftSvc := NewShiftService(repo, alertSvc, logger)

	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, redisC, &cfg.Auth, logger),
		Shift:  shiftSvc,
		Alert:  alertSvc,
		Report: NewReportService(repo, shiftSvc, logger),
		Export: NewExportService(repo, shiftSvc, logger),
	}
}
