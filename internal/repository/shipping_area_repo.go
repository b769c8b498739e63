package repository

import (
	"context"
	"strings"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"gorm.io/gorm"
)

type ShippingAreaRepository interface {
	Create(ctx context.Context, a *model.ShippingArea) error
	FindByID(ctx context.Context, id uint) (*model.ShippingArea, error)
	ListActive(ctx context.Context) ([]model.ShippingArea, error)
	List(ctx context.Context, filter dto.AdminFilter) ([]model.ShippingArea, int64, error)
	Update(ctx context.Context, a *model.ShippingArea) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	IsReferencedByOrders(ctx context.Context, id uint) (bool, error)
}

type shippingAreaRepo struct{ db *gorm.DB }

func NewShippingAreaRepository(db *gorm.DB) ShippingAreaRepository {
	return &shippingAreaRepo{db: db}
}

func (r *shippingAreaRepo) Create(ctx context.Context, a *model.ShippingArea) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *shippingAreaRepo) FindByID(ctx context.Context, id uint) (*model.ShippingArea, error) {
	var a model.ShippingArea
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *shippingAreaRepo) ListActive(ctx context.Context) ([]model.ShippingArea, error) {
	var areas []model.ShippingArea
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("shipping_cost ASC, area_name ASC").
		Find(&areas).Error
	return areas, err
}

func (r *shippingAreaRepo) List(ctx context.Context, filter dto.AdminFilter) ([]model.ShippingArea, int64, error) {
	var areas []model.ShippingArea
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ShippingArea{})
	switch filter.Active {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		q = q.Where("LOWER(area_name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("area_name ASC").
		Limit(filter.Limit).Offset(filter.Offset()).
		Find(&areas).Error
	return areas, total, err
}

func (r *shippingAreaRepo) Update(ctx context.Context, a *model.ShippingArea) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *shippingAreaRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.ShippingArea{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shippingAreaRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ShippingArea{}, id).Error
}

func (r *shippingAreaRepo) IsReferencedByOrders(ctx context.Context, id uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Order{}).Where("shipping_area_id = ?", id))
}
