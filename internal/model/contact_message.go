package model

import "time"

// ContactMessage is submitted from the public contact form.
type ContactMessage struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100;not null"`
	Email     string  `gorm:"size:150;not null"`
	Phone     *string `gorm:"size:20"`
	Subject   string  `gorm:"size:200;not null"`
	Message   string  `gorm:"type:text;not null"`
	IsRead    bool    `gorm:"not null;index"`
	CreatedAt time.Time
}
