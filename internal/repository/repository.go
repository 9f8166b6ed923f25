package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User     UserRepository
	Client   ClientRepository
	Shift    ShiftRepository
	Progress ProgressRepository
	Activity ActivityRepository
	Material MaterialRepository
	Survey   SurveyRepository
	Casing   CasingRepository
	Approval ApprovalRepository
	Alert    AlertRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepo(db),
		Client:   NewClientRepo(db),
		Shift:    NewShiftRepo(db),
		Progress: NewProgressRepo(db),
		Activity: NewActivityRepo(db),
		Material: NewMaterialRepo(db),
		Survey:   NewSurveyRepo(db),
		Casing:   NewCasingRepo(db),
		Approval: NewApprovalRepo(db),
		Alert:    NewAlertRepo(db),
	}
}

// Transact 在单个数据库事务中执行 fn，fn 返回错误时整体回滚
// 工作流状态变更与审批历史追加必须通过同一事务提交
// 未绑定底层连接的聚合（以接口桩直接构造）退化为直接执行
func (r *Repository) Transact(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
