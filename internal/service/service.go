package service

import (
	"context"
	"errors"

	"frozenshop/internal/apierror"
	"frozenshop/internal/model"

	"gorm.io/gorm"
)

// JobDispatcher enqueues background work after a transaction commits.
// A nil dispatcher disables background jobs.
type JobDispatcher interface {
	EnqueueOrderConfirmation(ctx context.Context, orderID uint) error
	EnqueueOrderStatusMail(ctx context.Context, orderID uint) error
}

// Order event names published to EventPublisher.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher emits order events to external consumers. A nil publisher
// disables events.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event string, o *model.Order) error
}

// runTx executes fn inside a GORM transaction bound to ctx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// notFound converts gorm.ErrRecordNotFound into apierror.ErrNotFound for entity.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(entity)
	}
	return err
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
