package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rigops/backend/config"
	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	pkgerrors "rigops/backend/pkg/errors"
)

// 预警模块错误
var (
	ErrAlertNotFound = errors.New("预警不存在")
)

// AlertService 预警服务接口
type AlertService interface {
	// Evaluate 对已审批班报执行全部预警规则
	// 幂等：同一班报同一类型已存在活跃预警时不重复创建；各规则相互独立
	Evaluate(ctx context.Context, shiftID string) error
	Acknowledge(ctx context.Context, actor *model.User, alertID string) (*model.Alert, error)
	List(ctx context.Context, actor *model.User, query *dto.ListAlertsQuery) ([]model.Alert, int64, error)
	ListByShift(ctx context.Context, shiftID string) ([]model.Alert, error)
}

// alertService AlertService 实现
type alertService struct {
	repo   *repository.Repository
	cfg    *config.AlertConfig
	logger *zap.Logger
}

// NewAlertService 创建预警服务实例
func NewAlertService(repo *repository.Repository, cfg *config.AlertConfig, logger *zap.Logger) AlertService {
	return &alertService{repo: repo, cfg: cfg, logger: logger}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ────────────────────── Evaluate ──────────────────────

func (s *alertService) Evaluate(ctx context.Context, shiftID string) error {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}

	var errs []error
	for _, rule := range []struct {
		name string
		fn   func(context.Context, *model.DrillShift) error
	}{
		{model.AlertRecovery, s.evaluateRecovery},
		{model.AlertROPDrop, s.evaluateROPDrop},
		{model.AlertDowntime, s.evaluateDowntime},
		{model.AlertBitFailure, s.evaluateBitFailure},
	} {
		if err := rule.fn(ctx, shift); err != nil {
			s.logger.Warn("预警规则执行失败",
				zap.String("shift_id", shift.ShiftID),
				zap.String("rule", rule.name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", rule.name, err))
		}
	}
	return errors.Join(errs...)
}

// createIfAbsent 幂等创建：同班报同类型已有活跃预警时跳过
func (s *alertService) createIfAbsent(ctx context.Context, alert *model.Alert) error {
	exists, err := s.repo.Alert.HasActive(ctx, alert.ShiftID, alert.AlertType)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.repo.Alert.Create(ctx, alert); err != nil {
		return err
	}
	s.logger.Info("已创建预警",
		zap.String("shift_id", alert.ShiftID),
		zap.String("alert_type", alert.AlertType),
		zap.String("severity", alert.Severity))
	return nil
}

// evaluateRecovery 平均岩芯回收率低于阈值
func (s *alertService) evaluateRecovery(ctx context.Context, shift *model.DrillShift) error {
	avg, ok := avgRecovery(shift.Progress)
	if !ok || avg >= s.cfg.RecoveryThreshold {
		return nil
	}

	severity := model.SeverityMedium
	if avg < 80 {
		severity = model.SeverityHigh
	}
	value := round2(avg)
	threshold := s.cfg.RecoveryThreshold
	return s.createIfAbsent(ctx, &model.Alert{
		ShiftID:   shift.ShiftID,
		AlertType: model.AlertRecovery,
		Severity:  severity,
		Title:     "Low core recovery",
		Description: fmt.Sprintf("Average core recovery %.2f%% is below the %.0f%% threshold for rig %s on %s.",
			value, threshold, shift.Rig, shift.Date.Format("2006-01-02")),
		Value:     &value,
		Threshold: &threshold,
	})
}

// evaluateROPDrop 相对同钻机上一已审批班次的 ROP 大幅下降
func (s *alertService) evaluateROPDrop(ctx context.Context, shift *model.DrillShift) error {
	prev, err := s.repo.Shift.GetPreviousApproved(ctx, shift.Rig, shift.Date, shift.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	prevAvg := avgPenetration(prev.Progress)
	if prevAvg <= 0 {
		return nil
	}
	curAvg := avgPenetration(shift.Progress)
	if curAvg >= 0.7*prevAvg {
		return nil
	}

	drop := round2(100 * (prevAvg - curAvg) / prevAvg)
	severity := model.SeverityMedium
	if drop > 40 {
		severity = model.SeverityHigh
	}
	threshold := s.cfg.ROPDropThreshold
	return s.createIfAbsent(ctx, &model.Alert{
		ShiftID:   shift.ShiftID,
		AlertType: model.AlertROPDrop,
		Severity:  severity,
		Title:     "Penetration rate drop",
		Description: fmt.Sprintf("Average ROP fell %.2f%% versus the previous approved shift on rig %s (%.2f → %.2f m/hr).",
			drop, shift.Rig, prevAvg, curAvg),
		Value:     &drop,
		Threshold: &threshold,
	})
}

// evaluateDowntime 非钻进活动总时长超阈值
func (s *alertService) evaluateDowntime(ctx context.Context, shift *model.DrillShift) error {
	var minutes int
	for i := range shift.Activities {
		if shift.Activities[i].ActivityType != model.ActivityDrilling {
			minutes += shift.Activities[i].DurationMinutes
		}
	}
	hours := round2(float64(minutes) / 60)
	if hours <= s.cfg.DowntimeThreshold {
		return nil
	}

	severity := model.SeverityMedium
	if hours > 6 {
		severity = model.SeverityHigh
	}
	threshold := s.cfg.DowntimeThreshold
	return s.createIfAbsent(ctx, &model.Alert{
		ShiftID:   shift.ShiftID,
		AlertType: model.AlertDowntime,
		Severity:  severity,
		Title:     "Excessive downtime",
		Description: fmt.Sprintf("Non-drilling activities total %.2f hours, exceeding the %.0f hour threshold.",
			hours, threshold),
		Value:     &hours,
		Threshold: &threshold,
	})
}

// evaluateBitFailure 个别回次穿透率远低于班次均值的钻头失效征兆
func (s *alertService) evaluateBitFailure(ctx context.Context, shift *model.DrillShift) error {
	avg := avgPenetration(shift.Progress)
	cutoff := math.Max(0.5, 0.3*avg)

	lowest := math.Inf(1)
	flagged := 0
	for i := range shift.Progress {
		rate := shift.Progress[i].PenetrationRate
		if rate == nil || *rate >= cutoff {
			continue
		}
		flagged++
		if *rate < lowest {
			lowest = *rate
		}
	}
	if flagged == 0 {
		return nil
	}

	severity := model.SeverityHigh
	if lowest > 0.3 {
		severity = model.SeverityMedium
	}
	value := round2(lowest)
	alert := &model.Alert{
		ShiftID:   shift.ShiftID,
		AlertType: model.AlertBitFailure,
		Severity:  severity,
		Title:     "Possible bit failure",
		Description: fmt.Sprintf("%d progress interval(s) drilled below %.2f m/hr against a shift average of %.2f m/hr.",
			flagged, cutoff, avg),
		Value: &value,
	}
	if avg > 0 {
		threshold := round2(0.3 * avg)
		alert.Threshold = &threshold
	}
	return s.createIfAbsent(ctx, alert)
}

// ────────────────────── Acknowledge ──────────────────────

func (s *alertService) Acknowledge(ctx context.Context, actor *model.User, alertID string) (*model.Alert, error) {
	if actor.Role != model.RoleManager && !actor.IsSuperuser {
		return nil, pkgerrors.ErrForbidden
	}

	alert, err := s.repo.Alert.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if !alert.IsAcknowledged {
		now := time.Now()
		alert.IsAcknowledged = true
		alert.AcknowledgedByID = &actor.UserID
		alert.AcknowledgedAt = &now
		if err := s.repo.Alert.Update(ctx, alert); err != nil {
			return nil, err
		}
		s.logger.Info("预警已确认",
			zap.String("alert_id", alert.AlertID),
			zap.String("user_id", actor.UserID))
	}
	return alert, nil
}

// ────────────────────── List ──────────────────────

func (s *alertService) List(ctx context.Context, actor *model.User, query *dto.ListAlertsQuery) ([]model.Alert, int64, error) {
	if actor.Role != model.RoleManager && !actor.IsSuperuser {
		return nil, 0, pkgerrors.ErrForbidden
	}
	filters := &repository.AlertListFilters{
		AlertType:    query.AlertType,
		Severity:     query.Severity,
		ActiveOnly:   query.ActiveOnly,
		Acknowledged: query.Acknowledged,
	}
	return s.repo.Alert.List(ctx, filters, query.Offset(), query.Limit())
}

func (s *alertService) ListByShift(ctx context.Context, shiftID string) ([]model.Alert, error) {
	return s.repo.Alert.ListByShift(ctx, shiftID)
}
