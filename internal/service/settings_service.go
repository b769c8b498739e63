package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreSettings are the typed business settings read by checkout and the
// storefront.
type StoreSettings struct {
	SiteName        string
	SitePhone       string
	WhatsAppNumber  string
	MinOrderAmount  decimal.Decimal
	FreeShippingMin decimal.Decimal
	StoreOpen       bool
}

type SettingsService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	// Public returns the typed values of settings flagged public, keyed by name.
	Public(ctx context.Context) (map[string]interface{}, error)
	Store(ctx context.Context) (*StoreSettings, error)
	Update(ctx context.Context, auth authz.AuthContext, req dto.UpdateSettingsRequest) ([]dto.SettingResponse, error)
}

type settingsService struct {
	repo repository.SettingRepository
}

func NewSettingsService(repo repository.SettingRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	settings, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(settings))
	for _, st := range settings {
		out = append(out, settingToResponse(st))
	}
	return out, nil
}

func (s *settingsService) Public(ctx context.Context) (map[string]interface{}, error) {
	settings, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(settings))
	for _, st := range settings {
		out[st.Key] = typedValue(st)
	}
	return out, nil
}

// Store reads the business settings. Missing or unparsable values fall back
// to the defaults: no minimum order, no free shipping, store open.
func (s *settingsService) Store(ctx context.Context) (*StoreSettings, error) {
	settings, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	ss := &StoreSettings{
		MinOrderAmount:  decimal.Zero,
		FreeShippingMin: decimal.Zero,
		StoreOpen:       true,
	}
	for _, st := range settings {
		switch st.Key {
		case model.SettingSiteName:
			ss.SiteName = st.Value
		case model.SettingSitePhone:
			ss.SitePhone = st.Value
		case model.SettingWhatsAppNumber:
			ss.WhatsAppNumber = st.Value
		case model.SettingMinOrderAmount:
			if d, err := decimal.NewFromString(strings.TrimSpace(st.Value)); err == nil {
				ss.MinOrderAmount = d
			}
		case model.SettingFreeShippingMin:
			if d, err := decimal.NewFromString(strings.TrimSpace(st.Value)); err == nil {
				ss.FreeShippingMin = d
			}
		case model.SettingStoreOpen:
			if b, err := strconv.ParseBool(strings.TrimSpace(st.Value)); err == nil {
				ss.StoreOpen = b
			}
		}
	}
	return ss, nil
}

// Update validates every value against its declared type and writes them in
// one transaction. Unknown keys are rejected.
func (s *settingsService) Update(ctx context.Context, auth authz.AuthContext, req dto.UpdateSettingsRequest) ([]dto.SettingResponse, error) {
	keys := make([]string, 0, len(req.Settings))
	for k := range req.Settings {
		keys = append(keys, k)
	}
	existing, err := s.repo.FindByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]model.AppSetting, len(existing))
	for _, st := range existing {
		byKey[st.Key] = st
	}

	verr := apierror.NewValidationError()
	values := make(map[string]string, len(req.Settings))
	for key, raw := range req.Settings {
		st, ok := byKey[key]
		if !ok {
			verr.Add(key, "unknown setting")
			continue
		}
		normalized, err := normalizeSettingValue(st.Type, raw)
		if err != nil {
			verr.Add(key, err.Error())
			continue
		}
		values[key] = normalized
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateValuesTx(tx, values)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("setting")
		}
		return nil, err
	}
	log.Info().Uint("admin_id", auth.AdminID).Strs("keys", keys).Msg("settings updated")
	return s.List(ctx)
}

func normalizeSettingValue(typ, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch typ {
	case model.SettingNumber:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return "", errors.New("must be a number")
		}
		if d.IsNegative() {
			return "", errors.New("must not be negative")
		}
		return d.String(), nil
	case model.SettingBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", errors.New("must be true or false")
		}
		return strconv.FormatBool(b), nil
	default:
		return raw, nil
	}
}

// typedValue converts the stored text to the setting's declared type,
// returning the raw text when it does not parse.
func typedValue(st model.AppSetting) interface{} {
	switch st.Type {
	case model.SettingNumber:
		if d, err := decimal.NewFromString(strings.TrimSpace(st.Value)); err == nil {
			return d
		}
	case model.SettingBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(st.Value)); err == nil {
			return b
		}
	}
	return st.Value
}

func settingToResponse(st model.AppSetting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:         st.Key,
		Value:       typedValue(st),
		Type:        st.Type,
		Description: st.Description,
		IsPublic:    st.IsPublic,
		UpdatedAt:   st.UpdatedAt,
	}
}
