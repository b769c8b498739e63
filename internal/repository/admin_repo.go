package repository

import (
	"context"
	"time"

	"frozenshop/internal/model"

	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) error
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	FindByRememberHash(ctx context.Context, hash string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Update(ctx context.Context, a *model.Admin) error
	SetRememberHash(ctx context.Context, id uint, hash *string) error
	TouchLogin(ctx context.Context, id uint, at time.Time) error
}

type adminRepo struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) AdminRepository { return &adminRepo{db: db} }

func (r *adminRepo) Create(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adminRepo) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("username = ? AND is_active = ?", username, true).First(&a).Error
	return &a, err
}

func (r *adminRepo) FindByRememberHash(ctx context.Context, hash string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("remember_token_hash = ? AND is_active = ?", hash, true).First(&a).Error
	return &a, err
}

func (r *adminRepo) List(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	err := r.db.WithContext(ctx).Order("username ASC").Find(&admins).Error
	return admins, err
}

func (r *adminRepo) Update(ctx context.Context, a *model.Admin) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *adminRepo) SetRememberHash(ctx context.Context, id uint, hash *string) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("remember_token_hash", hash).Error
}

func (r *adminRepo) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("last_login_at", at).Error
}
