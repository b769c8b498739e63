package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderService is the back-office order management.
type OrderService interface {
	List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Get(ctx context.Context, id uint) (*dto.OrderResponse, error)
	// UpdateStatus stamps the matching <status>_at column and, on
	// cancellation, puts the ordered quantities back in stock. Totals are
	// never recomputed.
	UpdateStatus(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error)
	UpdatePaymentStatus(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error)
	UpdateAdminNotes(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdateAdminNotesRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	orders     repository.OrderRepository
	inventory  InventoryService
	dispatcher JobDispatcher
	publisher  EventPublisher
	cache      ProductCache
	now        func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	inventory InventoryService,
	dispatcher JobDispatcher,
	publisher EventPublisher,
	cache ProductCache,
) OrderService {
	return &orderService{
		orders:     orders,
		inventory:  inventory,
		dispatcher: dispatcher,
		publisher:  publisher,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	filter.Normalize()
	q := repository.OrderQuery{
		Status:        model.OrderStatus(filter.Status),
		PaymentStatus: model.PaymentStatus(filter.PaymentStatus),
		Search:        filter.Search,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}

	verr := apierror.NewValidationError()
	if filter.DateFrom != "" {
		from, err := time.ParseInLocation("2006-01-02", filter.DateFrom, time.Local)
		if err != nil {
			verr.Add("date_from", "must be a YYYY-MM-DD date")
		} else {
			q.From = &from
		}
	}
	if filter.DateTo != "" {
		to, err := time.ParseInLocation("2006-01-02", filter.DateTo, time.Local)
		if err != nil {
			verr.Add("date_to", "must be a YYYY-MM-DD date")
		} else {
			end := to.AddDate(0, 0, 1)
			q.To = &end
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	orders, total, err := s.orders.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderSummaryResponse, 0, len(orders))
	for i := range orders {
		data = append(data, orderToSummary(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *orderService) Get(ctx context.Context, id uint) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	resp := orderToResponse(o)
	return &resp, nil
}

// ── UpdateStatus ──────────────────────────────────────────────────────────────

func (s *orderService) UpdateStatus(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	next := model.OrderStatus(req.Status)
	if !next.Valid() {
		verr := apierror.NewValidationError()
		verr.Add("status", "unknown order status")
		return nil, verr
	}

	var changed bool
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if o.OrderStatus == next {
			return nil
		}
		if o.OrderStatus.Terminal() {
			return fmt.Errorf("order is %s: %w", o.OrderStatus, apierror.ErrInvalidTransition)
		}
		if next != model.OrderCancelled && next.Step() < o.OrderStatus.Step() {
			return fmt.Errorf("order cannot move back from %s to %s: %w", o.OrderStatus, next, apierror.ErrInvalidTransition)
		}

		if next == model.OrderCancelled {
			if err := s.restockTx(tx, auth, o); err != nil {
				return err
			}
		}

		o.OrderStatus = next
		o.StampStatus(next, s.now())
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			o.AdminNotes = appendNote(o.AdminNotes, notes)
		}
		changed = true
		return s.orders.UpdateTx(tx, o)
	})
	if txErr != nil {
		return nil, txErr
	}

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if changed {
		log.Info().Str("order_number", o.OrderNumber).Str("status", string(next)).Uint("admin_id", auth.AdminID).
			Msg("order status updated")
		s.afterStatusChange(ctx, o, next)
	}
	resp := orderToResponse(o)
	return &resp, nil
}

// restockTx returns every item of o to stock with an "in" movement.
// Items whose product was deleted are skipped.
func (s *orderService) restockTx(tx *gorm.DB, auth authz.AuthContext, o *model.Order) error {
	for _, it := range o.Items {
		if it.ProductID == nil {
			continue
		}
		orderID := o.ID
		_, err := s.inventory.ApplyChangeTx(tx, auth, StockChange{
			ProductID:     *it.ProductID,
			Delta:         it.Quantity,
			ReferenceType: model.RefOrderCancel,
			ReferenceID:   &orderID,
			Notes:         "Cancelled order " + o.OrderNumber,
		})
		if errors.Is(err, apierror.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *orderService) afterStatusChange(ctx context.Context, o *model.Order, next model.OrderStatus) {
	if next == model.OrderCancelled && s.cache != nil {
		s.cache.InvalidateProducts(ctx)
	}
	if s.dispatcher != nil && o.CustomerEmail != nil {
		if err := s.dispatcher.EnqueueOrderStatusMail(ctx, o.ID); err != nil {
			log.Warn().Err(err).Str("order_number", o.OrderNumber).Msg("order: status mail not enqueued")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(ctx, EventOrderStatusChanged, o); err != nil {
			log.Warn().Err(err).Str("order_number", o.OrderNumber).Msg("order: status event not published")
		}
	}
}

func appendNote(existing *string, note string) *string {
	if existing == nil || *existing == "" {
		return &note
	}
	joined := *existing + "\n" + note
	return &joined
}

// ── Payment & notes ───────────────────────────────────────────────────────────

func (s *orderService) UpdatePaymentStatus(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error) {
	status := model.PaymentStatus(req.Status)
	if !status.Valid() {
		verr := apierror.NewValidationError()
		verr.Add("status", "unknown payment status")
		return nil, verr
	}
	if err := s.orders.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "order")
	}
	log.Info().Uint("order_id", id).Str("payment_status", string(status)).Uint("admin_id", auth.AdminID).
		Msg("order payment status updated")
	return s.Get(ctx, id)
}

func (s *orderService) UpdateAdminNotes(ctx context.Context, _ authz.AuthContext, id uint, req dto.UpdateAdminNotesRequest) (*dto.OrderResponse, error) {
	if err := s.orders.UpdateAdminNotes(ctx, id, strPtr(strings.TrimSpace(req.AdminNotes))); err != nil {
		return nil, notFound(err, "order")
	}
	return s.Get(ctx, id)
}
