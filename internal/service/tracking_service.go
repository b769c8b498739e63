package service

import (
	"context"
	"strings"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
)

// ReceiptRenderer renders an order receipt as a PDF document.
type ReceiptRenderer interface {
	RenderReceipt(o *model.Order, shopName, shopPhone string) ([]byte, error)
}

// TrackingService is the public, read-only order lookup.
type TrackingService interface {
	Track(ctx context.Context, orderNumber string) (*dto.TrackingResponse, error)
	Receipt(ctx context.Context, orderNumber string) ([]byte, error)
}

type trackingService struct {
	orders   repository.OrderRepository
	settings SettingsService
	receipts ReceiptRenderer
}

func NewTrackingService(orders repository.OrderRepository, settings SettingsService, receipts ReceiptRenderer) TrackingService {
	return &trackingService{orders: orders, settings: settings, receipts: receipts}
}

func (s *trackingService) Track(ctx context.Context, orderNumber string) (*dto.TrackingResponse, error) {
	o, err := s.find(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := &dto.TrackingResponse{
		Order:    orderToResponse(o),
		Timeline: buildTimeline(o),
	}
	if o.OrderStatus == model.OrderCancelled {
		resp.Cancelled = true
		resp.CancelledAt = o.CancelledAt
	}
	return resp, nil
}

func (s *trackingService) Receipt(ctx context.Context, orderNumber string) ([]byte, error) {
	o, err := s.find(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	store, err := s.settings.Store(ctx)
	if err != nil {
		return nil, err
	}
	return s.receipts.RenderReceipt(o, store.SiteName, store.SitePhone)
}

func (s *trackingService) find(ctx context.Context, orderNumber string) (*model.Order, error) {
	o, err := s.orders.FindByNumber(ctx, strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

// buildTimeline walks the happy-path statuses and marks each relative to the
// order's current status. Cancelled orders get no timeline.
func buildTimeline(o *model.Order) []dto.TimelineStep {
	if o.OrderStatus == model.OrderCancelled {
		return []dto.TimelineStep{}
	}
	current := o.OrderStatus.Step()
	steps := make([]dto.TimelineStep, 0, len(model.OrderTimeline))
	for i, st := range model.OrderTimeline {
		step := dto.TimelineStep{Status: st, Meta: st.Meta(), State: dto.StepFuture}
		switch {
		case i < current:
			step.State = dto.StepCompleted
		case i == current:
			step.State = dto.StepCurrent
		}
		if i <= current {
			step.ReachedAt = o.StatusTime(st)
		}
		steps = append(steps, step)
	}
	return steps
}
