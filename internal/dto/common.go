package dto

// PageMeta is embedded in every paginated response.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPageMeta computes TotalPages from total and limit.
func NewPageMeta(total int64, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// Pagination is bound from ?page=&limit= on list endpoints.
type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// Normalize clamps page and limit into usable bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset is the row offset for the current page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// ActiveRequest toggles an entity's is_active flag.
type ActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// FeaturedRequest toggles a product's is_featured flag.
type FeaturedRequest struct {
	IsFeatured *bool `json:"is_featured" validate:"required"`
}
