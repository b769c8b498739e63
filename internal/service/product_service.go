package service

import (
	"context"
	"errors"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
	"frozenshop/internal/slug"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService is the back-office product management.
type ProductService interface {
	List(ctx context.Context, filter dto.AdminProductFilter) (*dto.AdminProductListResponse, error)
	Get(ctx context.Context, id uint) (*dto.AdminProductResponse, error)
	// Create records a non-zero initial stock as an "in" movement.
	Create(ctx context.Context, auth authz.AuthContext, req dto.ProductRequest) (*dto.AdminProductResponse, error)
	// Update routes a stock change through the set-absolute ledger path.
	Update(ctx context.Context, auth authz.AuthContext, id uint, req dto.ProductRequest) (*dto.AdminProductResponse, error)
	SetActive(ctx context.Context, auth authz.AuthContext, id uint, active bool) error
	SetFeatured(ctx context.Context, auth authz.AuthContext, id uint, featured bool) error
	// Delete refuses products referenced by any order item.
	Delete(ctx context.Context, auth authz.AuthContext, id uint) error

	AddImage(ctx context.Context, auth authz.AuthContext, productID uint, req dto.ProductImageRequest) (*dto.AdminProductResponse, error)
	SetPrimaryImage(ctx context.Context, auth authz.AuthContext, productID, imageID uint) (*dto.AdminProductResponse, error)
	DeleteImage(ctx context.Context, auth authz.AuthContext, productID, imageID uint) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	inventory  InventoryService
	cache      ProductCache
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	inventory InventoryService,
	cache ProductCache,
) ProductService {
	return &productService{repo: repo, categories: categories, inventory: inventory, cache: cache}
}

func (s *productService) List(ctx context.Context, filter dto.AdminProductFilter) (*dto.AdminProductListResponse, error) {
	filter.Normalize()
	products, total, err := s.repo.ListAdmin(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AdminProductResponse, 0, len(products))
	for i := range products {
		data = append(data, adminProductToResponse(&products[i]))
	}
	return &dto.AdminProductListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.AdminProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	resp := adminProductToResponse(p)
	return &resp, nil
}

// ── Create ────────────────────────────────────────────────────────────────────

func (s *productService) Create(ctx context.Context, auth authz.AuthContext, req dto.ProductRequest) (*dto.AdminProductResponse, error) {
	productSlug, err := s.validate(ctx, 0, req)
	if err != nil {
		return nil, err
	}

	initial := 0
	if req.StockQuantity != nil {
		initial = *req.StockQuantity
	}
	p := &model.Product{IsActive: boolOr(req.IsActive, true)}
	applyProductFields(p, req, productSlug)

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		if initial == 0 {
			return nil
		}
		productID := p.ID
		_, err := s.inventory.ApplyChangeTx(tx, auth, StockChange{
			ProductID:     p.ID,
			Delta:         initial,
			ReferenceType: model.RefInitial,
			ReferenceID:   &productID,
			Notes:         "Initial stock",
		})
		return err
	})
	if err != nil {
		return nil, uniqueViolation(err)
	}
	log.Info().Str("sku", p.SKU).Uint("admin_id", auth.AdminID).Msg("product created")
	s.invalidate(ctx)
	return s.Get(ctx, p.ID)
}

// ── Update ────────────────────────────────────────────────────────────────────

func (s *productService) Update(ctx context.Context, auth authz.AuthContext, id uint, req dto.ProductRequest) (*dto.AdminProductResponse, error) {
	productSlug, err := s.validate(ctx, id, req)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return notFound(err, "product")
		}
		applyProductFields(p, req, productSlug)
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if req.StockQuantity == nil {
			return nil
		}
		_, err = s.inventory.SetStockAbsoluteTx(tx, auth, id, *req.StockQuantity, "Product edit")
		return err
	})
	if err != nil {
		return nil, uniqueViolation(err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// validate checks the rules the DTO tags cannot express and resolves the
// slug: the requested one, or one derived from the name with a numeric
// suffix on collision.
func (s *productService) validate(ctx context.Context, id uint, req dto.ProductRequest) (string, error) {
	verr := apierror.NewValidationError()

	if !req.Price.IsPositive() {
		verr.Add("price", "must be greater than zero")
	}
	if req.DiscountPrice != nil {
		switch {
		case req.DiscountPrice.IsNegative():
			verr.Add("discount_price", "must not be negative")
		case req.DiscountPrice.IsPositive() && !req.DiscountPrice.LessThan(req.Price):
			verr.Add("discount_price", "must be lower than price")
		}
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		verr.Add("stock_quantity", "must not be negative")
	}
	if req.MinStock < 0 {
		verr.Add("min_stock", "must not be negative")
	}

	sku := strings.TrimSpace(req.SKU)
	if taken, err := s.repo.SKUExists(ctx, sku, id); err != nil {
		return "", err
	} else if taken {
		verr.Add("sku", "is already used by another product")
	}

	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return "", err
			}
			verr.Add("category_id", "does not exist")
		}
	}

	productSlug := ""
	if requested := strings.TrimSpace(req.Slug); requested != "" {
		productSlug = slug.Make(requested)
		if taken, err := s.repo.SlugExists(ctx, productSlug, id); err != nil {
			return "", err
		} else if taken {
			verr.Add("slug", "is already used by another product")
		}
	} else {
		var err error
		productSlug, err = slug.Unique(ctx, req.Name, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.SlugExists(ctx, candidate, id)
		})
		if err != nil {
			return "", err
		}
	}

	if err := verr.OrNil(); err != nil {
		return "", err
	}
	return productSlug, nil
}

func applyProductFields(p *model.Product, req dto.ProductRequest, productSlug string) {
	p.SKU = strings.TrimSpace(req.SKU)
	p.Name = strings.TrimSpace(req.Name)
	p.Slug = productSlug
	p.Description = req.Description
	p.CategoryID = req.CategoryID
	p.Price = req.Price
	p.DiscountPrice = req.DiscountPrice
	if p.DiscountPrice != nil && p.DiscountPrice.IsZero() {
		p.DiscountPrice = nil
	}
	p.MinStock = req.MinStock
	p.Weight = req.Weight
	p.IsFeatured = req.IsFeatured
}

// ── Flags & delete ────────────────────────────────────────────────────────────

func (s *productService) SetActive(ctx context.Context, _ authz.AuthContext, id uint, active bool) error {
	if err := s.repo.SetFlag(ctx, id, "is_active", active); err != nil {
		return notFound(err, "product")
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) SetFeatured(ctx context.Context, _ authz.AuthContext, id uint, featured bool) error {
	if err := s.repo.SetFlag(ctx, id, "is_featured", featured); err != nil {
		return notFound(err, "product")
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) Delete(ctx context.Context, auth authz.AuthContext, id uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}
	used, err := s.repo.IsReferencedByOrders(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apierror.Conflict("product " + p.SKU + " appears in existing orders; deactivate it instead")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("sku", p.SKU).Uint("admin_id", auth.AdminID).Msg("product deleted")
	s.invalidate(ctx)
	return nil
}

// ── Images ────────────────────────────────────────────────────────────────────

func (s *productService) AddImage(ctx context.Context, _ authz.AuthContext, productID uint, req dto.ProductImageRequest) (*dto.AdminProductResponse, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	img := &model.ProductImage{
		ProductID: productID,
		Path:      strings.TrimSpace(req.Path),
		IsPrimary: req.IsPrimary || len(p.Images) == 0,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, productID)
}

func (s *productService) SetPrimaryImage(ctx context.Context, _ authz.AuthContext, productID, imageID uint) (*dto.AdminProductResponse, error) {
	if _, err := s.repo.FindImage(ctx, productID, imageID); err != nil {
		return nil, notFound(err, "image")
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SetPrimaryImageTx(tx, productID, imageID)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.Get(ctx, productID)
}

func (s *productService) DeleteImage(ctx context.Context, _ authz.AuthContext, productID, imageID uint) error {
	if err := s.repo.DeleteImage(ctx, productID, imageID); err != nil {
		return notFound(err, "image")
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx)
	}
}

// uniqueViolation turns a unique-index race (two admins saving the same sku
// or slug) into a validation error.
func uniqueViolation(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		verr := apierror.NewValidationError()
		verr.Add("sku", "sku or slug is already used by another product")
		return verr
	}
	return err
}
