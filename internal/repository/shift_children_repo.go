package repository

import (
	"context"

	"gorm.io/gorm"

	"rigops/backend/internal/model"
)

// 班报子记录（进尺/活动/物料/测斜/套管）共用的访问模式：
// 批量写入、按班报查询、更新时整组替换（DeleteByShift + BatchCreate）。

// ProgressRepository 钻进进尺数据访问接口
type ProgressRepository interface {
	BatchCreate(ctx context.Context, records []model.DrillingProgress) error
	ListByShift(ctx context.Context, shiftID string) ([]model.DrillingProgress, error)
	ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.DrillingProgress, error)
	DeleteByShift(ctx context.Context, shiftID string) error
	ListHoleNumbers(ctx context.Context) ([]string, error)
}

// ActivityRepository 活动记录数据访问接口
type ActivityRepository interface {
	BatchCreate(ctx context.Context, records []model.ActivityLog) error
	ListByShift(ctx context.Context, shiftID string) ([]model.ActivityLog, error)
	ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.ActivityLog, error)
	DeleteByShift(ctx context.Context, shiftID string) error
}

// MaterialRepository 物料消耗数据访问接口
type MaterialRepository interface {
	BatchCreate(ctx context.Context, records []model.MaterialUsed) error
	ListByShift(ctx context.Context, shiftID string) ([]model.MaterialUsed, error)
	ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.MaterialUsed, error)
	DeleteByShift(ctx context.Context, shiftID string) error
}

// SurveyRepository 测斜记录数据访问接口
type SurveyRepository interface {
	BatchCreate(ctx context.Context, records []model.Survey) error
	ListByShift(ctx context.Context, shiftID string) ([]model.Survey, error)
	DeleteByShift(ctx context.Context, shiftID string) error
}

// CasingRepository 套管记录数据访问接口
type CasingRepository interface {
	BatchCreate(ctx context.Context, records []model.Casing) error
	ListByShift(ctx context.Context, shiftID string) ([]model.Casing, error)
	DeleteByShift(ctx context.Context, shiftID string) error
}

// ── Progress Repository 实现 ──

type progressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) BatchCreate(ctx context.Context, records []model.DrillingProgress) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *progressRepo) ListByShift(ctx context.Context, shiftID string) ([]model.DrillingProgress, error) {
	var records []model.DrillingProgress
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("start_depth ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *progressRepo) ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.DrillingProgress, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	var records []model.DrillingProgress
	err := r.db.WithContext(ctx).
		Where("shift_id IN ?", shiftIDs).
		Order("start_depth ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *progressRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.DrillingProgress{}).Error
}

func (r *progressRepo) ListHoleNumbers(ctx context.Context) ([]string, error) {
	var holes []string
	err := r.db.WithContext(ctx).
		Model(&model.DrillingProgress{}).
		Distinct("hole_number").
		Where("hole_number != ''").
		Order("hole_number ASC").
		Pluck("hole_number", &holes).Error
	if err != nil {
		return nil, err
	}
	return holes, nil
}

// ── Activity Repository 实现 ──

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) BatchCreate(ctx context.Context, records []model.ActivityLog) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *activityRepo) ListByShift(ctx context.Context, shiftID string) ([]model.ActivityLog, error) {
	var records []model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *activityRepo) ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.ActivityLog, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	var records []model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("shift_id IN ?", shiftIDs).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *activityRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.ActivityLog{}).Error
}

// ── Material Repository 实现 ──

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db: db}
}

func (r *materialRepo) BatchCreate(ctx context.Context, records []model.MaterialUsed) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *materialRepo) ListByShift(ctx context.Context, shiftID string) ([]model.MaterialUsed, error) {
	var records []model.MaterialUsed
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("material_name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *materialRepo) ListByShiftIDs(ctx context.Context, shiftIDs []string) ([]model.MaterialUsed, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	var records []model.MaterialUsed
	err := r.db.WithContext(ctx).
		Where("shift_id IN ?", shiftIDs).
		Order("material_name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *materialRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.MaterialUsed{}).Error
}

// ── Survey Repository 实现 ──

type surveyRepo struct {
	db *gorm.DB
}

func NewSurveyRepo(db *gorm.DB) SurveyRepository {
	return &surveyRepo{db: db}
}

func (r *surveyRepo) BatchCreate(ctx context.Context, records []model.Survey) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *surveyRepo) ListByShift(ctx context.Context, shiftID string) ([]model.Survey, error) {
	var records []model.Survey
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("depth ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *surveyRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.Survey{}).Error
}

// ── Casing Repository 实现 ──

type casingRepo struct {
	db *gorm.DB
}

func NewCasingRepo(db *gorm.DB) CasingRepository {
	return &casingRepo{db: db}
}

func (r *casingRepo) BatchCreate(ctx context.Context, records []model.Casing) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *casingRepo) ListByShift(ctx context.Context, shiftID string) ([]model.Casing, error) {
	var records []model.Casing
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("start_depth ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *casingRepo) DeleteByShift(ctx context.Context, shiftID string) error {
	return r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Delete(&model.Casing{}).Error
}
