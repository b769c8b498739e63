package service

import (
	"context"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/dto"
	"frozenshop/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const relatedProductsLimit = 4

// ProductCache caches product detail responses by slug. Implementations are
// best effort: a miss or a backend error only costs a database read.
type ProductCache interface {
	GetProduct(ctx context.Context, slug string) (*dto.ProductDetailResponse, bool)
	SetProduct(ctx context.Context, slug string, p *dto.ProductDetailResponse)
	// InvalidateProducts drops every cached product.
	InvalidateProducts(ctx context.Context)
}

// CatalogService serves the public storefront reads.
type CatalogService interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	GetProduct(ctx context.Context, slug string) (*dto.ProductDetailResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListShippingAreas(ctx context.Context) ([]dto.ShippingAreaResponse, error)
	// CartSummary re-prices a client cart with live prices and stock. It
	// reserves nothing.
	CartSummary(ctx context.Context, req dto.CartSummaryRequest) (*dto.CartSummaryResponse, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	areas      repository.ShippingAreaRepository
	settings   SettingsService
	cache      ProductCache
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	areas repository.ShippingAreaRepository,
	settings SettingsService,
	cache ProductCache,
) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		areas:      areas,
		settings:   settings,
		cache:      cache,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	filter.Normalize()
	q := repository.ProductQuery{
		CategorySlug: strings.TrimSpace(filter.Category),
		Search:       filter.Search,
		Featured:     filter.Featured,
		Sort:         filter.Sort,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}

	verr := apierror.NewValidationError()
	q.MinPrice = parsePriceBound(filter.MinPrice, "min_price", verr)
	q.MaxPrice = parsePriceBound(filter.MaxPrice, "max_price", verr)
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		verr.Add("max_price", "must not be below min_price")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	products, total, err := s.products.ListActive(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func parsePriceBound(raw, field string, verr *apierror.ValidationError) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		verr.Add(field, "must be a non-negative number")
		return nil
	}
	return &d
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*dto.ProductDetailResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetProduct(ctx, slug); ok {
			return cached, nil
		}
	}

	p, err := s.products.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "product")
	}

	resp := &dto.ProductDetailResponse{
		ProductResponse: productToResponse(p),
		Images:          imagesToResponse(p.Images),
		Related:         []dto.ProductResponse{},
	}
	if p.CategoryID != nil {
		related, err := s.products.Related(ctx, *p.CategoryID, p.ID, relatedProductsLimit)
		if err != nil {
			log.Warn().Err(err).Uint("product_id", p.ID).Msg("catalog: related products lookup failed")
		}
		for i := range related {
			resp.Related = append(resp.Related, productToResponse(&related[i]))
		}
	}

	if s.cache != nil {
		s.cache.SetProduct(ctx, slug, resp)
	}
	return resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.products.ActiveCountsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, categoryToResponse(&cats[i], counts[cats[i].ID]))
	}
	return out, nil
}

func (s *catalogService) ListShippingAreas(ctx context.Context) ([]dto.ShippingAreaResponse, error) {
	areas, err := s.areas.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShippingAreaResponse, 0, len(areas))
	for i := range areas {
		out = append(out, shippingAreaToResponse(&areas[i]))
	}
	return out, nil
}

func (s *catalogService) CartSummary(ctx context.Context, req dto.CartSummaryRequest) (*dto.CartSummaryResponse, error) {
	c := mergeCart(req.Items)
	if len(c.Items) == 0 {
		return nil, apierror.ErrEmptyCart
	}
	products, err := s.products.FindActiveByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	store, err := s.settings.Store(ctx)
	if err != nil {
		return nil, err
	}

	pc := priceCart(c, products)
	resp := &dto.CartSummaryResponse{
		Items:           make([]dto.CartLineResponse, 0, len(pc.lines)),
		Unavailable:     pc.dropped,
		ItemCount:       pc.units,
		Subtotal:        pc.subtotal,
		MinOrderAmount:  store.MinOrderAmount,
		FreeShippingMin: store.FreeShippingMin,
		MeetsMinimum:    meetsMinimum(pc.subtotal, store.MinOrderAmount),
		FreeShipping:    qualifiesForFreeShipping(pc.subtotal, store.FreeShippingMin),
	}
	if resp.Unavailable == nil {
		resp.Unavailable = []uint{}
	}
	for _, l := range pc.lines {
		resp.Items = append(resp.Items, dto.CartLineResponse{
			ProductID:       l.product.ID,
			Name:            l.product.Name,
			Slug:            l.product.Slug,
			Price:           l.price,
			Quantity:        l.quantity,
			Available:       l.product.StockQuantity,
			Subtotal:        l.subtotal,
			QuantityClamped: l.clamped(),
		})
	}
	return resp, nil
}
