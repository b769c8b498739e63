package handler

import (
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/middleware"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load orders")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load order")
		return
	}
	respond(c, http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Move an order through its lifecycle
// @Description  Cancelling restores the stock of every line.
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                           true  "Order ID"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "New status"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  apierror.Response
// @Router       /api/admin/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update order")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *OrdersHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePaymentStatus(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update payment")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *OrdersHandler) UpdateNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdminNotesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateAdminNotes(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update order")
		return
	}
	respond(c, http.StatusOK, resp)
}
