package handler

import (
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	svc service.ContactService
}

func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Could not send message")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ContactHandler) List(c *gin.Context) {
	var filter dto.ContactFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load messages")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load message")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not update message")
		return
	}
	respondMessage(c, "Message marked as read")
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete message")
		return
	}
	respondMessage(c, "Message deleted")
}
