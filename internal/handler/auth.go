package handler

import (
	"net/http"

	"frozenshop/internal/apierror"
	"frozenshop/internal/dto"
	"frozenshop/internal/middleware"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieOptions control the remember-me cookie written on login.
type CookieOptions struct {
	MaxAgeDays int
	Secure     bool
}

type AuthHandler struct {
	svc    service.AuthService
	cookie CookieOptions
}

func NewAuthHandler(svc service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

// Login godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200  {object}  dto.LoginResponse
// @Failure      401  {object}  apierror.Response
// @Router       /api/admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Could not log in")
		return
	}
	if resp.RememberToken != "" {
		h.setRememberCookie(c, resp.RememberToken, h.cookie.MaxAgeDays*24*60*60)
	}
	respond(c, http.StatusOK, resp)
}

// Remember exchanges the remember-me cookie for a fresh access token.
func (h *AuthHandler) Remember(c *gin.Context) {
	token, err := c.Cookie(middleware.RememberCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return
	}
	resp, err := h.svc.LoginWithRememberToken(c.Request.Context(), token)
	if err != nil {
		h.setRememberCookie(c, "", -1)
		respondError(c, err, "Could not log in")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetAuth(c)); err != nil {
		respondError(c, err, "Could not log out")
		return
	}
	h.setRememberCookie(c, "", -1)
	respondMessage(c, "Logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.GetAuth(c))
	if err != nil {
		respondError(c, err, "Could not load profile")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AuthHandler) setRememberCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.RememberCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}

// ── Admins Handler ───────────────────────────────────────────────────────────

type AdminsHandler struct{ svc service.AuthService }

func NewAdminsHandler(svc service.AuthService) *AdminsHandler {
	return &AdminsHandler{svc: svc}
}

func (h *AdminsHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAdmin(c.Request.Context(), middleware.GetAuth(c), req)
	if err != nil {
		respondError(c, err, "Could not create admin")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *AdminsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not load admins")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AdminsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateAdmin(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update admin")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *AdminsHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetAdminActive(c.Request.Context(), middleware.GetAuth(c), id, *req.IsActive); err != nil {
		respondError(c, err, "Could not update admin")
		return
	}
	respondMessage(c, "Admin updated")
}
