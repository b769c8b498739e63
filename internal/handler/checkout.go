package handler

import (
	"fmt"
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	tracking service.TrackingService
}

func NewCheckoutHandler(checkout service.CheckoutService, tracking service.TrackingService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, tracking: tracking}
}

// Submit godoc
// @Summary      Place an order
// @Description  Validates the customer, prices the cart, decrements stock and
// @Description  stores the order in a single transaction.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Checkout payload"
// @Success      201  {object}  dto.CheckoutResponse
// @Failure      400  {object}  apierror.Response
// @Failure      409  {object}  apierror.Response
// @Failure      422  {object}  apierror.Response
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.SubmitOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Could not place order")
		return
	}
	respond(c, http.StatusCreated, resp)
}

// Track godoc
// @Summary      Track an order by its public number
// @Tags         tracking
// @Produce      json
// @Param        number  path  string  true  "Order number"
// @Success      200  {object}  dto.TrackingResponse
// @Failure      404  {object}  apierror.Response
// @Router       /api/orders/{number} [get]
func (h *CheckoutHandler) Track(c *gin.Context) {
	resp, err := h.tracking.Track(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Could not load order")
		return
	}
	respond(c, http.StatusOK, resp)
}

// Receipt streams the order receipt PDF.
func (h *CheckoutHandler) Receipt(c *gin.Context) {
	number := c.Param("number")
	pdf, err := h.tracking.Receipt(c.Request.Context(), number)
	if err != nil {
		respondError(c, err, "Could not render receipt")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt_%s.pdf"`, number))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
