package repository

import (
	"context"

	"gorm.io/gorm"

	"rigops/backend/internal/model"
)

// AlertListFilters 预警列表查询条件
type AlertListFilters struct {
	AlertType    string
	Severity     string
	ActiveOnly   bool
	Acknowledged *bool
}

// AlertRepository 预警数据访问接口
type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	GetByID(ctx context.Context, id string) (*model.Alert, error)
	Update(ctx context.Context, alert *model.Alert) error
	// HasActive 判断该班报是否已存在指定类型的活跃预警（幂等性检查）
	HasActive(ctx context.Context, shiftID, alertType string) (bool, error)
	// DeactivateByType 将该班报指定类型的活跃预警全部置为非活跃（被新预警取代时）
	DeactivateByType(ctx context.Context, shiftID, alertType string) error
	ListByShift(ctx context.Context, shiftID string) ([]model.Alert, error)
	List(ctx context.Context, filters *AlertListFilters, offset, limit int) ([]model.Alert, int64, error)
}

// alertRepo AlertRepository 的 GORM 实现
type alertRepo struct {
	db *gorm.DB
}

// NewAlertRepo 创建 AlertRepository 实例
func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepo) GetByID(ctx context.Context, id string) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("alert_id = ?", id).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) Update(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *alertRepo) HasActive(ctx context.Context, shiftID, alertType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("shift_id = ? AND alert_type = ? AND is_active = ?", shiftID, alertType, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *alertRepo) DeactivateByType(ctx context.Context, shiftID, alertType string) error {
	return r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("shift_id = ? AND alert_type = ? AND is_active = ?", shiftID, alertType, true).
		Update("is_active", false).Error
}

func (r *alertRepo) ListByShift(ctx context.Context, shiftID string) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) List(ctx context.Context, filters *AlertListFilters, offset, limit int) ([]model.Alert, int64, error) {
	var alerts []model.Alert
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Alert{})
	if filters != nil {
		if filters.AlertType != "" {
			db = db.Where("alert_type = ?", filters.AlertType)
		}
		if filters.Severity != "" {
			db = db.Where("severity = ?", filters.Severity)
		}
		if filters.ActiveOnly {
			db = db.Where("is_active = ?", true)
		}
		if filters.Acknowledged != nil {
			db = db.Where("is_acknowledged = ?", *filters.Acknowledged)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("Shift").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}
