package service

import (
	"context"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
)

type ShippingAreaService interface {
	List(ctx context.Context, filter dto.AdminFilter) (*dto.ShippingAreaListResponse, error)
	Create(ctx context.Context, auth authz.AuthContext, req dto.ShippingAreaRequest) (*dto.ShippingAreaResponse, error)
	Update(ctx context.Context, auth authz.AuthContext, id uint, req dto.ShippingAreaRequest) (*dto.ShippingAreaResponse, error)
	SetActive(ctx context.Context, auth authz.AuthContext, id uint, active bool) error
	// Delete refuses areas referenced by orders.
	Delete(ctx context.Context, auth authz.AuthContext, id uint) error
}

type shippingAreaService struct {
	repo repository.ShippingAreaRepository
}

func NewShippingAreaService(repo repository.ShippingAreaRepository) ShippingAreaService {
	return &shippingAreaService{repo: repo}
}

func (s *shippingAreaService) List(ctx context.Context, filter dto.AdminFilter) (*dto.ShippingAreaListResponse, error) {
	filter.Normalize()
	areas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ShippingAreaResponse, 0, len(areas))
	for i := range areas {
		data = append(data, shippingAreaToResponse(&areas[i]))
	}
	return &dto.ShippingAreaListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *shippingAreaService) Create(ctx context.Context, _ authz.AuthContext, req dto.ShippingAreaRequest) (*dto.ShippingAreaResponse, error) {
	if err := validateShippingArea(req); err != nil {
		return nil, err
	}
	a := &model.ShippingArea{
		AreaName:          strings.TrimSpace(req.AreaName),
		ShippingCost:      req.ShippingCost,
		EstimatedDelivery: strings.TrimSpace(req.EstimatedDelivery),
		IsActive:          boolOr(req.IsActive, true),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	resp := shippingAreaToResponse(a)
	return &resp, nil
}

func (s *shippingAreaService) Update(ctx context.Context, _ authz.AuthContext, id uint, req dto.ShippingAreaRequest) (*dto.ShippingAreaResponse, error) {
	if err := validateShippingArea(req); err != nil {
		return nil, err
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "shipping area")
	}
	a.AreaName = strings.TrimSpace(req.AreaName)
	a.ShippingCost = req.ShippingCost
	a.EstimatedDelivery = strings.TrimSpace(req.EstimatedDelivery)
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	resp := shippingAreaToResponse(a)
	return &resp, nil
}

func validateShippingArea(req dto.ShippingAreaRequest) error {
	verr := apierror.NewValidationError()
	if strings.TrimSpace(req.AreaName) == "" {
		verr.Add("area_name", "is required")
	}
	if req.ShippingCost.IsNegative() {
		verr.Add("shipping_cost", "must not be negative")
	}
	return verr.OrNil()
}

func (s *shippingAreaService) SetActive(ctx context.Context, _ authz.AuthContext, id uint, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return notFound(err, "shipping area")
	}
	return nil
}

func (s *shippingAreaService) Delete(ctx context.Context, _ authz.AuthContext, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "shipping area")
	}
	used, err := s.repo.IsReferencedByOrders(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apierror.Conflict("shipping area is used by existing orders; deactivate it instead")
	}
	return s.repo.Delete(ctx, id)
}
