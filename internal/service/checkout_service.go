package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/cart"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/phone"
	"frozenshop/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberSuffix   = 6
	orderNumberAttempts = 5
)

var errOrderNumberExhausted = errors.New("could not allocate a unique order number")

var fieldValidator = validator.New()

// CheckoutService turns a client cart into an order.
type CheckoutService interface {
	SubmitOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	products    repository.ProductRepository
	orders      repository.OrderRepository
	areas       repository.ShippingAreaRepository
	inventory   InventoryService
	settings    SettingsService
	dispatcher  JobDispatcher
	publisher   EventPublisher
	cache       ProductCache
	countryCode string
	now         func() time.Time
}

func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	areas repository.ShippingAreaRepository,
	inventory InventoryService,
	settings SettingsService,
	dispatcher JobDispatcher,
	publisher EventPublisher,
	cache ProductCache,
	countryCode string,
) CheckoutService {
	return &checkoutService{
		products:    products,
		orders:      orders,
		areas:       areas,
		inventory:   inventory,
		settings:    settings,
		dispatcher:  dispatcher,
		publisher:   publisher,
		cache:       cache,
		countryCode: countryCode,
		now:         time.Now,
	}
}

// ── SubmitOrder ───────────────────────────────────────────────────────────────
//   1. Merge the cart, re-price it against live active products and clamp to stock
//   2. Validate customer fields and the shipping area
//   3. Enforce the minimum order amount
//   4. BEGIN TX: lock product rows (id order), re-price on the locked rows,
//      insert order + items, decrement stock with one "out" movement per line
//   5. COMMIT
//   6. (async) confirmation job, order event, WhatsApp link

func (s *checkoutService) SubmitOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	c := mergeCart(req.Items)
	if len(c.Items) == 0 {
		return nil, apierror.ErrEmptyCart
	}

	store, err := s.settings.Store(ctx)
	if err != nil {
		return nil, err
	}
	if !store.StoreOpen {
		verr := apierror.NewValidationError()
		verr.Add("store", "the store is not accepting orders right now")
		return nil, verr
	}

	// 1. Pre-flight pricing, outside TX
	products, err := s.products.FindActiveByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	pc := priceCart(c, products)
	if len(pc.lines) == 0 {
		return nil, apierror.ErrEmptyCart
	}

	// 2. Customer fields
	area, err := s.validateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Minimum order
	if !meetsMinimum(pc.subtotal, store.MinOrderAmount) {
		return nil, &apierror.BelowMinimumOrderError{Minimum: store.MinOrderAmount, Subtotal: pc.subtotal}
	}

	// 4. ACID transaction
	var order model.Order
	var final pricedCart
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		locked, err := s.lockProducts(tx, c)
		if err != nil {
			return err
		}
		final = priceCart(c, locked)
		if len(final.lines) == 0 {
			return apierror.ErrEmptyCart
		}
		if !meetsMinimum(final.subtotal, store.MinOrderAmount) {
			return &apierror.BelowMinimumOrderError{Minimum: store.MinOrderAmount, Subtotal: final.subtotal}
		}

		number, err := s.allocateOrderNumber(tx)
		if err != nil {
			return err
		}

		shipping := shippingCost(final.subtotal, store.FreeShippingMin, area.ShippingCost)
		order = model.Order{
			OrderNumber:     number,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerPhone:   phone.Normalize(req.CustomerPhone, s.countryCode),
			CustomerEmail:   strPtr(strings.TrimSpace(req.CustomerEmail)),
			ShippingAreaID:  area.ID,
			ShippingAddress: strings.TrimSpace(req.ShippingAddress),
			Notes:           strPtr(strings.TrimSpace(req.Notes)),
			Subtotal:        final.subtotal,
			ShippingCost:    shipping,
			TotalAmount:     final.subtotal.Add(shipping),
			PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
			PaymentStatus:   model.PaymentPending,
			OrderStatus:     model.OrderPending,
		}
		for _, l := range final.lines {
			pid := l.product.ID
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   &pid,
				ProductName: l.product.Name,
				ProductSKU:  l.product.SKU,
				Price:       l.price,
				Quantity:    l.quantity,
				Subtotal:    l.subtotal,
			})
		}
		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}

		for _, l := range final.lines {
			orderID := order.ID
			_, err := s.inventory.ApplyChangeTx(tx, authz.System, StockChange{
				ProductID:     l.product.ID,
				Delta:         -l.quantity,
				ReferenceType: model.RefOrder,
				ReferenceID:   &orderID,
				Notes:         "Order " + order.OrderNumber,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		var minErr *apierror.BelowMinimumOrderError
		if errors.Is(txErr, apierror.ErrEmptyCart) || errors.As(txErr, &minErr) {
			return nil, txErr
		}
		log.Error().Err(txErr).
			Uint("shipping_area_id", req.ShippingAreaID).
			Int("lines", len(req.Items)).
			Msg("checkout: order transaction rolled back")
		return nil, fmt.Errorf("create order: %w", txErr)
	}
	order.ShippingArea = area

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("total", order.TotalAmount.String()).
		Int("lines", len(order.Items)).
		Msg("checkout: order created")

	// 6. Post-commit side effects (best-effort)
	s.afterCommit(ctx, &order)

	resp := &dto.CheckoutResponse{
		Order:         orderToResponse(&order),
		AdjustedItems: final.adjusted(),
	}
	if store.WhatsAppNumber != "" {
		resp.WhatsAppURL = WhatsAppURL(store.WhatsAppNumber, s.countryCode, orderWhatsAppMessage(store.SiteName, &order))
	}
	return resp, nil
}

// validateCustomer checks the customer fields and returns the active
// shipping area.
func (s *checkoutService) validateCustomer(ctx context.Context, req dto.CheckoutRequest) (*model.ShippingArea, error) {
	verr := apierror.NewValidationError()

	name := strings.TrimSpace(req.CustomerName)
	switch {
	case name == "":
		verr.Add("customer_name", "is required")
	case len(name) > 100:
		verr.Add("customer_name", "must be at most 100 characters")
	}

	switch {
	case strings.TrimSpace(req.CustomerPhone) == "":
		verr.Add("customer_phone", "is required")
	case !phone.Valid(req.CustomerPhone):
		verr.Add("customer_phone", "is not a valid mobile number")
	}

	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		if err := fieldValidator.Var(email, "email,max=150"); err != nil {
			verr.Add("customer_email", "is not a valid e-mail address")
		}
	}

	switch address := strings.TrimSpace(req.ShippingAddress); {
	case address == "":
		verr.Add("shipping_address", "is required")
	case len(address) > 500:
		verr.Add("shipping_address", "must be at most 500 characters")
	}
	if len(strings.TrimSpace(req.Notes)) > 1000 {
		verr.Add("notes", "must be at most 1000 characters")
	}

	if !model.PaymentMethod(req.PaymentMethod).Valid() {
		verr.Add("payment_method", "must be cod or transfer")
	}

	var area *model.ShippingArea
	if req.ShippingAreaID == 0 {
		verr.Add("shipping_area_id", "is required")
	} else {
		a, err := s.areas.FindByID(ctx, req.ShippingAreaID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("shipping_area_id", "is not available")
		case err != nil:
			return nil, err
		case !a.IsActive:
			verr.Add("shipping_area_id", "is not available")
		default:
			area = a
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return area, nil
}

// lockProducts takes row locks on every product in c, in ascending id order
// so concurrent checkouts cannot deadlock. Missing products are skipped.
func (s *checkoutService) lockProducts(tx *gorm.DB, c cart.Cart) ([]model.Product, error) {
	ids := c.ProductIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.FindByIDForUpdateTx(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		locked = append(locked, *p)
	}
	return locked, nil
}

// allocateOrderNumber draws ORD-YYYYMMDD-XXXXXX numbers until one is free.
func (s *checkoutService) allocateOrderNumber(tx *gorm.DB) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := newOrderNumber(s.now())
		taken, err := s.orders.OrderNumberExistsTx(tx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", errOrderNumberExhausted
}

func newOrderNumber(now time.Time) string {
	suffix := make([]byte, orderNumberSuffix)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return "ORD-" + now.Format("20060102") + "-" + string(suffix)
}

func (s *checkoutService) afterCommit(ctx context.Context, order *model.Order) {
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx)
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueOrderConfirmation(ctx, order.ID); err != nil {
			log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("checkout: confirmation job not enqueued")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(ctx, EventOrderCreated, order); err != nil {
			log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("checkout: order event not published")
		}
	}
}
