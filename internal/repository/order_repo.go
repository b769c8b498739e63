package repository

import (
	"context"
	"strings"
	"time"

	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderQuery is the admin order list query with dates already parsed.
// To is exclusive.
type OrderQuery struct {
	Status        model.OrderStatus
	PaymentStatus model.PaymentStatus
	Search        string
	From          *time.Time
	To            *time.Time
	Page          int
	Limit         int
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	List(ctx context.Context, q OrderQuery) ([]model.Order, int64, error)
	Recent(ctx context.Context, limit int) ([]model.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error
	UpdateAdminNotes(ctx context.Context, id uint, notes *string) error

	CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	// RevenueSince sums total_amount of non-cancelled orders created at or after since.
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, o *model.Order) error
	OrderNumberExistsTx(tx *gorm.DB, orderNumber string) (bool, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Order, error)
	UpdateTx(tx *gorm.DB, o *model.Order) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func withOrderDetail(db *gorm.DB) *gorm.DB {
	return db.Preload("ShippingArea").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	err := withOrderDetail(r.db.WithContext(ctx)).First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var o model.Order
	err := withOrderDetail(r.db.WithContext(ctx)).
		Where("order_number = ?", orderNumber).
		First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, oq OrderQuery) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if oq.Status != "" {
		q = q.Where("order_status = ?", oq.Status)
	}
	if oq.PaymentStatus != "" {
		q = q.Where("payment_status = ?", oq.PaymentStatus)
	}
	if term := strings.TrimSpace(oq.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?)", like, like, like)
	}
	if oq.From != nil {
		q = q.Where("created_at >= ?", *oq.From)
	}
	if oq.To != nil {
		q = q.Where("created_at < ?", *oq.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (oq.Page - 1) * oq.Limit
	err := q.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(oq.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdatePaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *orderRepo) UpdateAdminNotes(ctx context.Context, id uint, notes *string) error {
	return r.updateColumn(ctx, id, "admin_notes", notes)
}

func (r *orderRepo) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		OrderStatus model.OrderStatus
		N           int64
	}
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("order_status, COUNT(*) AS n").
		Group("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.OrderStatus] = row.N
	}
	return counts, nil
}

func (r *orderRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *orderRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	row := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(total_amount)").
		Where("created_at >= ? AND order_status <> ?", since, model.OrderCancelled).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CreateTx inserts the order and its items in the caller's transaction.
func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit("ShippingArea").Create(o).Error
}

func (r *orderRepo) OrderNumberExistsTx(tx *gorm.DB, orderNumber string) (bool, error) {
	return exists(tx.Model(&model.Order{}).Where("order_number = ?", orderNumber))
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.Order, error) {
	var o model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if err != nil {
		return &o, err
	}
	err = tx.Where("order_id = ?", id).Order("id ASC").Find(&o.Items).Error
	return &o, err
}

// UpdateTx saves the order row only; items are immutable.
func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit(clause.Associations).Save(o).Error
}
