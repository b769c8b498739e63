package repository

import (
	"context"
	"strings"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	ListActive(ctx context.Context) ([]model.Category, error)
	List(ctx context.Context, filter dto.AdminFilter) ([]model.Category, int64, error)
	Update(ctx context.Context, c *model.Category) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	HasProducts(ctx context.Context, id uint) (bool, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *categoryRepo) ListActive(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&cats).Error
	return cats, err
}

func (r *categoryRepo) List(ctx context.Context, filter dto.AdminFilter) ([]model.Category, int64, error) {
	var cats []model.Category
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Category{})
	switch filter.Active {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("sort_order ASC, name ASC").
		Limit(filter.Limit).Offset(filter.Offset()).
		Find(&cats).Error
	return cats, total, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

func (r *categoryRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Category{}).Where("slug = ? AND id <> ?", slug, excludeID))
}

func (r *categoryRepo) HasProducts(ctx context.Context, id uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id))
}
