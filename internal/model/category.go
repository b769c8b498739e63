package model

import "time"

// Category groups products. Products keep a weak reference (nullable
// category_id); deleting a category that still has products is refused.
type Category struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;not null"`
	Slug        string  `gorm:"size:120;uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
	SortOrder   int     `gorm:"not null"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
