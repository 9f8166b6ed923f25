package repository

import (
	"context"

	"gorm.io/gorm"

	"rigops/backend/internal/model"
)

// ApprovalRepository 审批历史数据访问接口
// 审批历史仅追加：接口不提供更新或删除方法
type ApprovalRepository interface {
	Create(ctx context.Context, entry *model.ApprovalHistory) error
	ListByShift(ctx context.Context, shiftID string) ([]model.ApprovalHistory, error)
	// ListDecisionsByShiftIDs 按时间升序返回指定班报的某一决定类型的全部历史记录
	ListDecisionsByShiftIDs(ctx context.Context, shiftIDs []string, decision string) ([]model.ApprovalHistory, error)
}

// approvalRepo ApprovalRepository 的 GORM 实现
type approvalRepo struct {
	db *gorm.DB
}

// NewApprovalRepo 创建 ApprovalRepository 实例
func NewApprovalRepo(db *gorm.DB) ApprovalRepository {
	return &approvalRepo{db: db}
}

func (r *approvalRepo) Create(ctx context.Context, entry *model.ApprovalHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *approvalRepo) ListByShift(ctx context.Context, shiftID string) ([]model.ApprovalHistory, error) {
	var entries []model.ApprovalHistory
	err := r.db.WithContext(ctx).
		Preload("Approver").
		Where("shift_id = ?", shiftID).
		Order("timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *approvalRepo) ListDecisionsByShiftIDs(ctx context.Context, shiftIDs []string, decision string) ([]model.ApprovalHistory, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	var entries []model.ApprovalHistory
	err := r.db.WithContext(ctx).
		Where("shift_id IN ? AND decision = ?", shiftIDs, decision).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
