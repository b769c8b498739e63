package repository

import (
	"context"

	"frozenshop/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List(ctx context.Context, publicOnly bool) ([]model.AppSetting, error)
	FindByKeys(ctx context.Context, keys []string) ([]model.AppSetting, error)
	UpdateValuesTx(tx *gorm.DB, values map[string]string) error
	// SeedDefaults inserts the missing default settings, leaving existing values alone.
	SeedDefaults(ctx context.Context) error
	DB() *gorm.DB
}

type settingRepo struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) SettingRepository { return &settingRepo{db: db} }

func (r *settingRepo) DB() *gorm.DB { return r.db }

func (r *settingRepo) List(ctx context.Context, publicOnly bool) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	q := r.db.WithContext(ctx)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	err := q.Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) FindByKeys(ctx context.Context, keys []string) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	err := r.db.WithContext(ctx).Where("setting_key IN ?", keys).Find(&settings).Error
	return settings, err
}

func (r *settingRepo) UpdateValuesTx(tx *gorm.DB, values map[string]string) error {
	for key, value := range values {
		res := tx.Model(&model.AppSetting{}).Where("setting_key = ?", key).Update("setting_value", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *settingRepo) SeedDefaults(ctx context.Context) error {
	defaults := model.DefaultSettings()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "setting_key"}}, DoNothing: true}).
		Create(&defaults).Error
}
