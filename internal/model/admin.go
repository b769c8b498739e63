package model

import "time"

// Admin is a back-office account.
// Role: "super_admin" | "admin" | "staff"
type Admin struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"size:50;uniqueIndex;not null"`
	FullName     string  `gorm:"size:100;not null"`
	Email        *string `gorm:"size:150"`
	PasswordHash string  `gorm:"size:255;not null"`
	Role         string  `gorm:"type:varchar(20);not null"`
	IsActive     bool    `gorm:"not null"`
	// RememberTokenHash is the SHA-256 of the long-lived "remember me" cookie.
	RememberTokenHash *string `gorm:"size:64;index"`
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
