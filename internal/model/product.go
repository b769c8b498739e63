package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. StockQuantity is the live running quantity;
// every change to it is mirrored by a StockMovement row.
type Product struct {
	ID            uint             `gorm:"primaryKey"`
	CategoryID    *uint            `gorm:"index"`
	SKU           string           `gorm:"column:sku;size:50;uniqueIndex;not null"`
	Name          string           `gorm:"size:200;index;not null"`
	Slug          string           `gorm:"size:220;uniqueIndex;not null"`
	Description   *string          `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	StockQuantity int              `gorm:"not null"`
	MinStock      int              `gorm:"not null"`
	// Weight in grams, used only for display.
	Weight     *int
	IsActive   bool `gorm:"not null;index"`
	IsFeatured bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category     `gorm:"foreignKey:CategoryID"`
	Images   []ProductImage `gorm:"foreignKey:ProductID"`
}

// EffectivePrice is the price a customer pays: the discount price when it is
// set, positive and strictly below the regular price, otherwise the price.
// Listing, detail, cart summary and checkout all go through this method.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.HasDiscount() {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether DiscountPrice applies.
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil &&
		p.DiscountPrice.IsPositive() &&
		p.DiscountPrice.LessThan(p.Price)
}

// DiscountPercent is the rounded percentage saved, 0 without discount.
func (p *Product) DiscountPercent() int {
	if !p.HasDiscount() || !p.Price.IsPositive() {
		return 0
	}
	saved := p.Price.Sub(*p.DiscountPrice)
	return int(saved.Div(p.Price).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// IsLowStock reports whether the product reached its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// PrimaryImage returns the image flagged primary, else the one with the
// lowest sort order, else nil.
func (p *Product) PrimaryImage() *ProductImage {
	var best *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		if img.IsPrimary {
			return img
		}
		if best == nil || img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best
}

// ProductImage stores the path of an uploaded product picture.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index;not null"`
	Path      string `gorm:"size:255;not null"`
	IsPrimary bool   `gorm:"not null"`
	SortOrder int    `gorm:"not null"`
	CreatedAt time.Time
}
