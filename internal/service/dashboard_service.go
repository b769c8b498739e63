package service

import (
	"context"
	"time"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
)

const dashboardRecentOrders = 5

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	contacts repository.ContactRepository
	now      func() time.Time
}

func NewDashboardService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	contacts repository.ContactRepository,
) DashboardService {
	return &dashboardService{orders: orders, products: products, contacts: contacts, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.DashboardResponse{OrdersByStatus: make(map[string]int64, len(byStatus))}
	for _, st := range append(append([]model.OrderStatus{}, model.OrderTimeline...), model.OrderCancelled) {
		resp.OrdersByStatus[string(st)] = byStatus[st]
		resp.TotalOrders += byStatus[st]
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if resp.TodayOrders, err = s.orders.CountSince(ctx, today); err != nil {
		return nil, err
	}
	if resp.TodayRevenue, err = s.orders.RevenueSince(ctx, today); err != nil {
		return nil, err
	}
	if resp.LowStockCount, err = s.products.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if resp.UnreadMessages, err = s.contacts.CountUnread(ctx); err != nil {
		return nil, err
	}

	recent, err := s.orders.Recent(ctx, dashboardRecentOrders)
	if err != nil {
		return nil, err
	}
	resp.RecentOrders = make([]dto.OrderSummaryResponse, 0, len(recent))
	for i := range recent {
		resp.RecentOrders = append(resp.RecentOrders, orderToSummary(&recent[i]))
	}
	return resp, nil
}
