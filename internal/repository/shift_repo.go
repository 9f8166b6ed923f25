package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rigops/backend/internal/model"
)

// VisibilityScope 角色可见范围（由 Service 层根据操作者角色构建）
//
//   - All:          超级管理员，全部可见
//   - Statuses:     限定可见的工作流状态集合
//   - OwnerID:      额外放行该用户创建的班报（班组长可见自己的草稿）
//   - ClientID:     限定归属该客户的班报（客户账号）
type VisibilityScope struct {
	All      bool
	Statuses []string
	OwnerID  string
	ClientID string
}

// ShiftListFilters 班报列表查询条件
type ShiftListFilters struct {
	Status       string
	ClientStatus string
	Rig          string
	ProjectCode  string
	HoleNumber   string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// ShiftRepository 班报数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.DrillShift) error
	GetByID(ctx context.Context, id string) (*model.DrillShift, error)
	// GetForUpdate 以行锁读取班报，用于工作流状态变更的事务串行化
	GetForUpdate(ctx context.Context, id string) (*model.DrillShift, error)
	Update(ctx context.Context, shift *model.DrillShift) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope *VisibilityScope, filters *ShiftListFilters, offset, limit int) ([]model.DrillShift, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.DrillShift, error)
	ListByDateRange(ctx context.Context, scope *VisibilityScope, from, to time.Time) ([]model.DrillShift, error)
	// GetPreviousApproved 查找同一钻机上日期早于 before 的最近一条已审批班报（排除自身）
	GetPreviousApproved(ctx context.Context, rig string, before time.Time, excludeID string) (*model.DrillShift, error)
	CountByStatus(ctx context.Context, scope *VisibilityScope) (map[string]int64, error)
	CountByClientStatus(ctx context.Context, clientID string) (map[string]int64, error)
}

// shiftRepo ShiftRepository 的 GORM 实现
type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.DrillShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, id string) (*model.DrillShift, error) {
	var shift model.DrillShift
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Client").
		Preload("Progress", func(db *gorm.DB) *gorm.DB { return db.Order("start_depth ASC") }).
		Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp DESC") }).
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("material_name ASC") }).
		Preload("Surveys", func(db *gorm.DB) *gorm.DB { return db.Order("depth ASC") }).
		Preload("Casings", func(db *gorm.DB) *gorm.DB { return db.Order("start_depth ASC") }).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp DESC") }).
		Preload("Approvals.Approver").
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) GetForUpdate(ctx context.Context, id string) (*model.DrillShift, error) {
	var shift model.DrillShift
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.DrillShift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *shiftRepo) Delete(ctx context.Context, id string) error {
	// 子记录由外键 ON DELETE CASCADE 级联删除
	return r.db.WithContext(ctx).
		Where("shift_id = ?", id).
		Delete(&model.DrillShift{}).Error
}

// applyScope 应用角色可见范围
func applyScope(db *gorm.DB, scope *VisibilityScope) *gorm.DB {
	if scope == nil || scope.All {
		return db
	}
	if scope.ClientID != "" {
		return db.Where("client_id = ? AND status = ?", scope.ClientID, model.StatusApproved)
	}
	if scope.OwnerID != "" {
		return db.Where("created_by_id = ? OR status IN ?", scope.OwnerID, scope.Statuses)
	}
	return db.Where("status IN ?", scope.Statuses)
}

// applyFilters 应用查询条件
func applyFilters(db *gorm.DB, filters *ShiftListFilters) *gorm.DB {
	if filters == nil {
		return db
	}
	if filters.Status != "" {
		db = db.Where("status = ?", filters.Status)
	}
	if filters.ClientStatus != "" {
		db = db.Where("client_status = ?", filters.ClientStatus)
	}
	if filters.Rig != "" {
		db = db.Where("rig = ?", filters.Rig)
	}
	if filters.ProjectCode != "" {
		db = db.Where("project_code = ?", filters.ProjectCode)
	}
	if filters.HoleNumber != "" {
		db = db.Where(
			"shift_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&model.DrillingProgress{}).
				Select("shift_id").
				Where("hole_number = ?", filters.HoleNumber),
		)
	}
	if filters.DateFrom != nil {
		db = db.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		db = db.Where("date <= ?", *filters.DateTo)
	}
	return db
}

func (r *shiftRepo) List(ctx context.Context, scope *VisibilityScope, filters *ShiftListFilters, offset, limit int) ([]model.DrillShift, int64, error) {
	var shifts []model.DrillShift
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DrillShift{})
	db = applyScope(db, scope)
	db = applyFilters(db, filters)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.
		Preload("CreatedBy").
		Preload("Client").
		Preload("Progress").
		Preload("Activities").
		Offset(offset).Limit(limit).
		Order("date DESC, created_at DESC").
		Find(&shifts).Error; err != nil {
		return nil, 0, err
	}

	return shifts, total, nil
}

func (r *shiftRepo) ListByIDs(ctx context.Context, ids []string) ([]model.DrillShift, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shifts []model.DrillShift
	err := r.db.WithContext(ctx).
		Preload("Progress").
		Where("shift_id IN ?", ids).
		Order("date ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) ListByDateRange(ctx context.Context, scope *VisibilityScope, from, to time.Time) ([]model.DrillShift, error) {
	var shifts []model.DrillShift
	db := r.db.WithContext(ctx).Model(&model.DrillShift{})
	db = applyScope(db, scope)
	err := db.
		Preload("Client").
		Preload("Progress").
		Preload("Activities").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) GetPreviousApproved(ctx context.Context, rig string, before time.Time, excludeID string) (*model.DrillShift, error) {
	var shift model.DrillShift
	err := r.db.WithContext(ctx).
		Preload("Progress").
		Where("rig = ? AND status = ? AND date < ? AND shift_id != ?",
			rig, model.StatusApproved, before, excludeID).
		Order("date DESC, created_at DESC").
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) CountByStatus(ctx context.Context, scope *VisibilityScope) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	db := r.db.WithContext(ctx).Model(&model.DrillShift{})
	db = applyScope(db, scope)
	if err := db.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *shiftRepo) CountByClientStatus(ctx context.Context, clientID string) (map[string]int64, error) {
	type row struct {
		ClientStatus *string
		Count        int64
	}
	var rows []row

	if err := r.db.WithContext(ctx).Model(&model.DrillShift{}).
		Select("client_status, COUNT(*) AS count").
		Where("client_id = ? AND status = ?", clientID, model.StatusApproved).
		Group("client_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	// 未进入客户流程的班报对客户展示为待处理
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		key := model.ClientPending
		if rw.ClientStatus != nil {
			key = *rw.ClientStatus
		}
		counts[key] += rw.Count
	}
	return counts, nil
}
