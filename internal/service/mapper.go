package service

import (
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
)

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		DiscountPrice:   p.DiscountPrice,
		EffectivePrice:  p.EffectivePrice(),
		HasDiscount:     p.HasDiscount(),
		DiscountPercent: p.DiscountPercent(),
		StockQuantity:   p.StockQuantity,
		InStock:         p.StockQuantity > 0,
		Weight:          p.Weight,
		IsFeatured:      p.IsFeatured,
	}
	if p.Category != nil {
		resp.Category = &dto.CategoryRef{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	if img := p.PrimaryImage(); img != nil {
		path := img.Path
		resp.PrimaryImage = &path
	}
	return resp
}

func imagesToResponse(images []model.ProductImage) []dto.ProductImageResponse {
	out := make([]dto.ProductImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, dto.ProductImageResponse{
			ID:        img.ID,
			Path:      img.Path,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return out
}

func adminProductToResponse(p *model.Product) dto.AdminProductResponse {
	return dto.AdminProductResponse{
		ProductResponse: productToResponse(p),
		CategoryID:      p.CategoryID,
		MinStock:        p.MinStock,
		IsActive:        p.IsActive,
		IsLowStock:      p.IsLowStock(),
		Images:          imagesToResponse(p.Images),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func categoryToResponse(c *model.Category, productCount int64) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		ProductCount: productCount,
	}
}

func shippingAreaToResponse(a *model.ShippingArea) dto.ShippingAreaResponse {
	return dto.ShippingAreaResponse{
		ID:                a.ID,
		AreaName:          a.AreaName,
		ShippingCost:      a.ShippingCost,
		EstimatedDelivery: a.EstimatedDelivery,
		IsActive:          a.IsActive,
	}
}

func orderToResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		CustomerEmail:     o.CustomerEmail,
		ShippingAddress:   o.ShippingAddress,
		Notes:             o.Notes,
		Subtotal:          o.Subtotal,
		ShippingCost:      o.ShippingCost,
		TotalAmount:       o.TotalAmount,
		PaymentMethod:     o.PaymentMethod,
		PaymentMethodMeta: o.PaymentMethod.Meta(),
		PaymentStatus:     o.PaymentStatus,
		PaymentStatusMeta: o.PaymentStatus.Meta(),
		OrderStatus:       o.OrderStatus,
		OrderStatusMeta:   o.OrderStatus.Meta(),
		AdminNotes:        o.AdminNotes,
		CreatedAt:         o.CreatedAt,
		ConfirmedAt:       o.ConfirmedAt,
		ProcessingAt:      o.ProcessingAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
	}
	if o.ShippingArea != nil {
		area := shippingAreaToResponse(o.ShippingArea)
		resp.ShippingArea = &area
	}
	resp.Items = make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}

func orderToSummary(o *model.Order) dto.OrderSummaryResponse {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return dto.OrderSummaryResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		TotalAmount:     o.TotalAmount,
		PaymentStatus:   o.PaymentStatus,
		PaymentMeta:     o.PaymentStatus.Meta(),
		OrderStatus:     o.OrderStatus,
		OrderStatusMeta: o.OrderStatus.Meta(),
		ItemCount:       count,
		CreatedAt:       o.CreatedAt,
	}
}

func movementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	resp := dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		CurrentStock:  m.CurrentStock,
		MovementType:  m.MovementType,
		TypeMeta:      m.MovementType.Meta(),
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		AdminID:       m.AdminID,
		CreatedAt:     m.CreatedAt,
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.Admin != nil {
		resp.AdminName = m.Admin.FullName
	}
	return resp
}

func adminToResponse(a *model.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:          a.ID,
		Username:    a.Username,
		FullName:    a.FullName,
		Email:       a.Email,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
	}
}

func contactToResponse(m *model.ContactMessage) dto.ContactMessageResponse {
	return dto.ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
