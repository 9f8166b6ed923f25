package handler

import "rigops/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Shift  *ShiftHandler
	Alert  *AlertHandler
	Report *ReportHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Shift:  NewShiftHandler(svc.Shift),
		Alert:  NewAlertHandler(svc.Alert),
		Report: NewReportHandler(svc.Report),
		Export: NewExportHandler(svc.Export),
	}
}
