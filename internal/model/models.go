package model

// All lists every persisted model, parents first, for GORM AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Category{},
		&Product{},
		&ProductImage{},
		&ShippingArea{},
		&Order{},
		&OrderItem{},
		&StockMovement{},
		&ContactMessage{},
		&AppSetting{},
	}
}
