package repository

import (
	"context"
	"strings"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// effectivePriceSQL mirrors model.Product.EffectivePrice so listings can
// filter and sort on the price the customer actually pays.
const effectivePriceSQL = "CASE WHEN products.discount_price IS NOT NULL AND products.discount_price > 0 " +
	"AND products.discount_price < products.price THEN products.discount_price ELSE products.price END"

// ProductQuery is the storefront listing query after the service resolved
// the raw filter strings.
type ProductQuery struct {
	CategorySlug string
	Search       string
	Featured     *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
	Page         int
	Limit        int
}

// ProductRepository defines the data access contract for products and their images.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Product, error)
	ListActive(ctx context.Context, q ProductQuery) ([]model.Product, int64, error)
	ListAdmin(ctx context.Context, filter dto.AdminProductFilter) ([]model.Product, int64, error)
	Related(ctx context.Context, categoryID uint, excludeID uint, limit int) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SetFlag(ctx context.Context, id uint, column string, value bool) error
	Delete(ctx context.Context, id uint) error

	SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	IsReferencedByOrders(ctx context.Context, id uint) (bool, error)
	LowStock(ctx context.Context) ([]model.Product, error)
	CountLowStock(ctx context.Context) (int64, error)
	ActiveCountsByCategory(ctx context.Context) (map[uint]int64, error)

	// Images
	AddImage(ctx context.Context, img *model.ProductImage) error
	FindImage(ctx context.Context, productID, imageID uint) (*model.ProductImage, error)
	SetPrimaryImageTx(tx *gorm.DB, productID, imageID uint) error
	DeleteImage(ctx context.Context, productID, imageID uint) error

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	UpdateTx(tx *gorm.DB, p *model.Product) error
	// FindByIDForUpdateTx locks the product row until the transaction ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error)
	UpdateStockTx(tx *gorm.DB, id uint, quantity int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.CreateTx(r.db.WithContext(ctx), p)
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&p).Error
	return &p, err
}

func (r *productRepo) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListActive(ctx context.Context, pq ProductQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("products.is_active = ?", true)

	if pq.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ? AND categories.is_active = ?", pq.CategorySlug, true)
	}
	if term := strings.TrimSpace(pq.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(products.name) LIKE ? OR LOWER(products.sku) LIKE ?)", like, like)
	}
	if pq.Featured != nil {
		q = q.Where("products.is_featured = ?", *pq.Featured)
	}
	if pq.MinPrice != nil {
		q = q.Where(effectivePriceSQL+" >= ?", *pq.MinPrice)
	}
	if pq.MaxPrice != nil {
		q = q.Where(effectivePriceSQL+" <= ?", *pq.MaxPrice)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (pq.Page - 1) * pq.Limit
	err := q.Preload("Category").Preload("Images").
		Order(productOrder(pq.Sort)).
		Limit(pq.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func productOrder(sort string) string {
	switch sort {
	case "price_asc":
		return effectivePriceSQL + " ASC, products.id ASC"
	case "price_desc":
		return effectivePriceSQL + " DESC, products.id DESC"
	case "name":
		return "products.name ASC, products.id ASC"
	default:
		return "products.created_at DESC, products.id DESC"
	}
}

func (r *productRepo) ListAdmin(ctx context.Context, filter dto.AdminProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "true" = activos, "false" = inactivos, anything else = todos
	switch filter.Active {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.LowStock {
		q = q.Where("stock_quantity <= min_stock")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").Preload("Images").
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).Offset(filter.Offset()).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Related(ctx context.Context, categoryID uint, excludeID uint, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("is_featured DESC, created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.UpdateTx(r.db.WithContext(ctx), p)
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

// SetFlag updates a single boolean column (is_active, is_featured).
func (r *productRepo) SetFlag(ctx context.Context, id uint, column string, value bool) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		// The ledger of a product that was never ordered goes with it.
		if err := tx.Where("product_id = ?", id).Delete(&model.StockMovement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

func (r *productRepo) SKUExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ? AND id <> ?", sku, excludeID))
}

func (r *productRepo) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Product{}).Where("slug = ? AND id <> ?", slug, excludeID))
}

func (r *productRepo) IsReferencedByOrders(ctx context.Context, id uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.OrderItem{}).Where("product_id = ?", id))
}

func (r *productRepo) LowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Order("stock_quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ? AND stock_quantity <= min_stock", true).
		Count(&n).Error
	return n, err
}

func (r *productRepo) ActiveCountsByCategory(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		N          int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category_id, COUNT(*) AS n").
		Where("is_active = ? AND category_id IS NOT NULL", true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}
	return counts, nil
}

func (r *productRepo) AddImage(ctx context.Context, img *model.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(img).Error; err != nil {
			return err
		}
		if !img.IsPrimary {
			return nil
		}
		return r.SetPrimaryImageTx(tx, img.ProductID, img.ID)
	})
}

func (r *productRepo) FindImage(ctx context.Context, productID, imageID uint) (*model.ProductImage, error) {
	var img model.ProductImage
	err := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", imageID, productID).First(&img).Error
	return &img, err
}

// SetPrimaryImageTx clears the primary flag on every other image of the product.
func (r *productRepo) SetPrimaryImageTx(tx *gorm.DB, productID, imageID uint) error {
	if err := tx.Model(&model.ProductImage{}).
		Where("product_id = ? AND id <> ?", productID, imageID).
		Update("is_primary", false).Error; err != nil {
		return err
	}
	return tx.Model(&model.ProductImage{}).
		Where("product_id = ? AND id = ?", productID, imageID).
		Update("is_primary", true).Error
}

func (r *productRepo) DeleteImage(ctx context.Context, productID, imageID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", imageID, productID).Delete(&model.ProductImage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

func (r *productRepo) UpdateStockTx(tx *gorm.DB, id uint, quantity int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("stock_quantity", quantity).Error
}

// exists reports whether q matches at least one row.
func exists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
