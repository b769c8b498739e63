package repository

import (
	"context"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	FindByID(ctx context.Context, id uint) (*model.ContactMessage, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]model.ContactMessage, int64, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	CountUnread(ctx context.Context) (int64, error)
}

type contactRepo struct{ db *gorm.DB }

func NewContactRepository(db *gorm.DB) ContactRepository { return &contactRepo{db: db} }

func (r *contactRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *contactRepo) FindByID(ctx context.Context, id uint) (*model.ContactMessage, error) {
	var m model.ContactMessage
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *contactRepo) List(ctx context.Context, filter dto.ContactFilter) ([]model.ContactMessage, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ContactMessage{})
	if filter.Unread {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []model.ContactMessage
	err := q.Order("created_at DESC, id DESC").
		Limit(filter.Limit).Offset(filter.Offset()).
		Find(&msgs).Error
	return msgs, total, err
}

func (r *contactRepo) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.ContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}
