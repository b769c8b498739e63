package model

import "time"

// Setting value types.
const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
)

// Known setting keys.
const (
	SettingSiteName        = "site_name"
	SettingSitePhone       = "site_phone"
	SettingWhatsAppNumber  = "whatsapp_number"
	SettingMinOrderAmount  = "min_order_amount"
	SettingFreeShippingMin = "free_shipping_min"
	SettingStoreOpen       = "store_open"
)

// AppSetting is a named, typed application setting. Value is always stored
// as text and interpreted according to Type.
type AppSetting struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"column:setting_key;size:100;uniqueIndex;not null"`
	Value       string `gorm:"column:setting_value;type:text;not null"`
	Type        string `gorm:"column:setting_type;type:varchar(20);not null"`
	Description string `gorm:"size:255"`
	IsPublic    bool   `gorm:"not null"`
	UpdatedAt   time.Time
}

// DefaultSettings are inserted when missing.
func DefaultSettings() []AppSetting {
	return []AppSetting{
		{Key: SettingSiteName, Value: "Frozen Shop", Type: SettingString, Description: "Store name", IsPublic: true},
		{Key: SettingSitePhone, Value: "", Type: SettingString, Description: "Store phone number", IsPublic: true},
		{Key: SettingWhatsAppNumber, Value: "", Type: SettingString, Description: "WhatsApp number for order chat", IsPublic: true},
		{Key: SettingMinOrderAmount, Value: "0", Type: SettingNumber, Description: "Minimum order subtotal", IsPublic: true},
		{Key: SettingFreeShippingMin, Value: "0", Type: SettingNumber, Description: "Subtotal from which shipping is free (0 = never)", IsPublic: true},
		{Key: SettingStoreOpen, Value: "true", Type: SettingBoolean, Description: "Accept new orders", IsPublic: true},
	}
}
