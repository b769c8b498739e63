package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/config"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// AdminClaims are the custom claims embedded in every access token.
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// LoginWithRememberToken exchanges a remember-me cookie value for a new access token.
	LoginWithRememberToken(ctx context.Context, token string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, auth authz.AuthContext) error
	ParseToken(tokenStr string) (authz.AuthContext, error)
	AuthenticateRememberToken(ctx context.Context, token string) (authz.AuthContext, error)
	Me(ctx context.Context, auth authz.AuthContext) (*dto.AdminResponse, error)

	// Admin accounts
	CreateAdmin(ctx context.Context, auth authz.AuthContext, req dto.CreateAdminRequest) (*dto.AdminResponse, error)
	ListAdmins(ctx context.Context) ([]dto.AdminResponse, error)
	UpdateAdmin(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdateAdminRequest) (*dto.AdminResponse, error)
	SetAdminActive(ctx context.Context, auth authz.AuthContext, id uint, active bool) error
}

type authService struct {
	repo repository.AdminRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo repository.AdminRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.ErrInvalidCredentials
	}

	resp, err := s.issue(ctx, admin)
	if err != nil {
		return nil, err
	}
	if req.Remember {
		token, hash := newRememberToken()
		if err := s.repo.SetRememberHash(ctx, admin.ID, &hash); err != nil {
			return nil, err
		}
		resp.RememberToken = token
	}
	log.Info().Str("username", admin.Username).Bool("remember", req.Remember).Msg("admin logged in")
	return resp, nil
}

func (s *authService) LoginWithRememberToken(ctx context.Context, token string) (*dto.LoginResponse, error) {
	admin, err := s.findByRememberToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, admin)
}

func (s *authService) Logout(ctx context.Context, auth authz.AuthContext) error {
	if auth.IsSystem() {
		return nil
	}
	return s.repo.SetRememberHash(ctx, auth.AdminID, nil)
}

func (s *authService) ParseToken(tokenStr string) (authz.AuthContext, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.AdminID == 0 {
		return authz.AuthContext{}, apierror.ErrUnauthorized
	}
	return authz.AuthContext{AdminID: claims.AdminID, Username: claims.Username, Role: claims.Role}, nil
}

func (s *authService) AuthenticateRememberToken(ctx context.Context, token string) (authz.AuthContext, error) {
	admin, err := s.findByRememberToken(ctx, token)
	if err != nil {
		return authz.AuthContext{}, err
	}
	return authz.AuthContext{AdminID: admin.ID, Username: admin.Username, Role: admin.Role}, nil
}

func (s *authService) Me(ctx context.Context, auth authz.AuthContext) (*dto.AdminResponse, error) {
	admin, err := s.repo.FindByID(ctx, auth.AdminID)
	if err != nil {
		return nil, notFound(err, "admin")
	}
	resp := adminToResponse(admin)
	return &resp, nil
}

func (s *authService) findByRememberToken(ctx context.Context, token string) (*model.Admin, error) {
	if token == "" {
		return nil, apierror.ErrUnauthorized
	}
	admin, err := s.repo.FindByRememberHash(ctx, hashRememberToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrUnauthorized
		}
		return nil, err
	}
	return admin, nil
}

func (s *authService) issue(ctx context.Context, admin *model.Admin) (*dto.LoginResponse, error) {
	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	accessToken, err := s.generateToken(admin, ttl)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.TouchLogin(ctx, admin.ID, now); err != nil {
		log.Warn().Err(err).Uint("admin_id", admin.ID).Msg("auth: last login not recorded")
	}
	admin.LastLoginAt = &now
	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Admin:       adminToResponse(admin),
	}, nil
}

func (s *authService) generateToken(admin *model.Admin, ttl time.Duration) (string, error) {
	now := s.now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// newRememberToken returns a random cookie value and the hash stored for it.
func newRememberToken() (token, hash string) {
	token = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return token, hashRememberToken(token)
}

func hashRememberToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ── Admin accounts ────────────────────────────────────────────────────────────

func (s *authService) CreateAdmin(ctx context.Context, auth authz.AuthContext, req dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	if !authz.ValidRole(req.Role) {
		verr := apierror.NewValidationError()
		verr.Add("role", "unknown role")
		return nil, verr
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Username:     strings.TrimSpace(req.Username),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verr := apierror.NewValidationError()
			verr.Add("username", "is already taken")
			return nil, verr
		}
		return nil, err
	}
	log.Info().Str("username", admin.Username).Str("role", admin.Role).Uint("by", auth.AdminID).Msg("admin account created")
	resp := adminToResponse(admin)
	return &resp, nil
}

func (s *authService) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AdminResponse, len(admins))
	for i := range admins {
		resp[i] = adminToResponse(&admins[i])
	}
	return resp, nil
}

func (s *authService) UpdateAdmin(ctx context.Context, auth authz.AuthContext, id uint, req dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "admin")
	}
	if req.FullName != "" {
		admin.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Email != nil {
		admin.Email = req.Email
	}
	if req.Role != "" && req.Role != admin.Role {
		if admin.ID == auth.AdminID {
			return nil, fmt.Errorf("cannot change your own role: %w", apierror.ErrForbidden)
		}
		admin.Role = req.Role
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
		admin.RememberTokenHash = nil
	}
	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	resp := adminToResponse(admin)
	return &resp, nil
}

func (s *authService) SetAdminActive(ctx context.Context, auth authz.AuthContext, id uint, active bool) error {
	if id == auth.AdminID && !active {
		return fmt.Errorf("cannot deactivate your own account: %w", apierror.ErrForbidden)
	}
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "admin")
	}
	admin.IsActive = active
	if !active {
		admin.RememberTokenHash = nil
	}
	return s.repo.Update(ctx, admin)
}

// HashPassword returns the bcrypt hash used for admin passwords.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
