package service

import (
	"context"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
	"frozenshop/internal/slug"
)

type CategoryService interface {
	List(ctx context.Context, filter dto.AdminFilter) (*dto.CategoryListResponse, error)
	Create(ctx context.Context, auth authz.AuthContext, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, auth authz.AuthContext, id uint, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	SetActive(ctx context.Context, auth authz.AuthContext, id uint, active bool) error
	// Delete refuses categories that still have products.
	Delete(ctx context.Context, auth authz.AuthContext, id uint) error
}

type categoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	cache    ProductCache
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository, cache ProductCache) CategoryService {
	return &categoryService{repo: repo, products: products, cache: cache}
}

func (s *categoryService) List(ctx context.Context, filter dto.AdminFilter) (*dto.CategoryListResponse, error) {
	filter.Normalize()
	cats, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.products.ActiveCountsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		data = append(data, categoryToResponse(&cats[i], counts[cats[i].ID]))
	}
	return &dto.CategoryListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *categoryService) Create(ctx context.Context, _ authz.AuthContext, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	catSlug, err := s.uniqueSlug(ctx, 0, req.Name)
	if err != nil {
		return nil, err
	}
	c := &model.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        catSlug,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, _ authz.AuthContext, id uint, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	name := strings.TrimSpace(req.Name)
	if name != c.Name {
		if c.Slug, err = s.uniqueSlug(ctx, id, name); err != nil {
			return nil, err
		}
	}
	c.Name = name
	c.Description = req.Description
	c.SortOrder = req.SortOrder
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) SetActive(ctx context.Context, _ authz.AuthContext, id uint, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return notFound(err, "category")
	}
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, _ authz.AuthContext, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "category")
	}
	used, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apierror.Conflict("category still has products")
	}
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) uniqueSlug(ctx context.Context, id uint, name string) (string, error) {
	return slug.Unique(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, id)
	})
}

func (s *categoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx)
	}
}
