package repository

import (
	"context"

	"gorm.io/gorm"

	"rigops/backend/internal/model"
)

// ClientRepository 客户公司数据访问接口
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	GetByUserID(ctx context.Context, userID string) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	List(ctx context.Context, includeInactive bool) ([]model.Client, error)
}

// clientRepo ClientRepository 的 GORM 实现
type clientRepo struct {
	db *gorm.DB
}

// NewClientRepo 创建 ClientRepository 实例
func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).
		Where("client_id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByUserID 按关联登录账号查找客户公司（客户签认工作流的身份入口）
func (r *clientRepo) GetByUserID(ctx context.Context, userID string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepo) List(ctx context.Context, includeInactive bool) ([]model.Client, error) {
	var clients []model.Client
	db := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
