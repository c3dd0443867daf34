package fees

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/pricing"
)

// Handler exposes administrative fee configuration endpoints together with
// the singleton platform settings record.
type Handler struct {
	Q dbgen.Querier
}

type feeConfigPayload struct {
	Name             string           `json:"name"`
	FeeType          string           `json:"feeType"`
	FeePercentage    *decimal.Decimal `json:"feePercentage"`
	FeeFixedAmount   *decimal.Decimal `json:"feeFixedAmount"`
	MinBookingAmount *decimal.Decimal `json:"minBookingAmount"`
	MaxFeeAmount     *decimal.Decimal `json:"maxFeeAmount"`
	IsActive         *bool            `json:"isActive"`
}

type platformSettingsPayload struct {
	DefaultTaxRatePercent *decimal.Decimal `json:"defaultTaxRatePercent"`
	DefaultFeeType        *string          `json:"defaultFeeType"`
	DefaultFeePercentage  *decimal.Decimal `json:"defaultFeePercentage"`
	DefaultFeeFixedAmount *decimal.Decimal `json:"defaultFeeFixedAmount"`
	Currency              string           `json:"currency"`
}

// Create inserts a new fee configuration.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	var payload feeConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	params, err := buildFeeParams(payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	cfg, err := h.Q.CreateFeeConfig(r.Context(), params)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create fee config", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": cfg})
}

// Update replaces an existing fee configuration.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid fee config id", nil)
		return
	}
	var payload feeConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	params, err := buildFeeParams(payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	cfg, err := h.Q.UpdateFeeConfig(r.Context(), dbgen.UpdateFeeConfigParams{
		ID:               id,
		Name:             params.Name,
		FeeType:          params.FeeType,
		FeePercentage:    params.FeePercentage,
		FeeFixedAmount:   params.FeeFixedAmount,
		MinBookingAmount: params.MinBookingAmount,
		MaxFeeAmount:     params.MaxFeeAmount,
		IsActive:         params.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "fee config not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update fee config", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cfg})
}

// Get returns a single fee configuration.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid fee config id", nil)
		return
	}
	cfg, err := h.Q.GetFeeConfigByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "fee config not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load fee config", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cfg})
}

// List returns every fee configuration. The table stays small so there is
// no pagination here.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	rows, err := h.Q.ListFeeConfigs(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list fee configs", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// PlatformSettings returns the platform fallback fee and tax configuration.
func (h *Handler) PlatformSettings(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	settings, err := h.Q.GetPlatformSettings(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "platform settings not configured", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load platform settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": settings})
}

// UpsertPlatformSettings writes the singleton platform settings row.
func (h *Handler) UpsertPlatformSettings(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "fee queries not configured", nil)
		return
	}
	var payload platformSettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	params, err := buildPlatformParams(payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	settings, err := h.Q.UpsertPlatformSettings(r.Context(), params)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to save platform settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": settings})
}

func buildFeeParams(payload feeConfigPayload) (dbgen.CreateFeeConfigParams, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return dbgen.CreateFeeConfigParams{}, errors.New("name is required")
	}
	feeType := strings.TrimSpace(payload.FeeType)
	switch feeType {
	case pricing.FeePercentage:
		if payload.FeePercentage == nil {
			return dbgen.CreateFeeConfigParams{}, errors.New("feePercentage is required for percentage fees")
		}
		if err := validatePercent(*payload.FeePercentage, "feePercentage"); err != nil {
			return dbgen.CreateFeeConfigParams{}, err
		}
	case pricing.FeeFixedAmount:
		if payload.FeeFixedAmount == nil {
			return dbgen.CreateFeeConfigParams{}, errors.New("feeFixedAmount is required for fixed fees")
		}
		if payload.FeeFixedAmount.IsNegative() {
			return dbgen.CreateFeeConfigParams{}, errors.New("feeFixedAmount must not be negative")
		}
	default:
		return dbgen.CreateFeeConfigParams{}, errors.New("feeType must be percentage or fixed_amount")
	}
	if payload.MinBookingAmount != nil && payload.MinBookingAmount.IsNegative() {
		return dbgen.CreateFeeConfigParams{}, errors.New("minBookingAmount must not be negative")
	}
	if payload.MaxFeeAmount != nil && !payload.MaxFeeAmount.IsPositive() {
		return dbgen.CreateFeeConfigParams{}, errors.New("maxFeeAmount must be positive")
	}
	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}
	return dbgen.CreateFeeConfigParams{
		Name:             name,
		FeeType:          feeType,
		FeePercentage:    common.NumericFromDecimalPtr(payload.FeePercentage),
		FeeFixedAmount:   common.NumericFromDecimalPtr(payload.FeeFixedAmount),
		MinBookingAmount: common.NumericFromDecimalPtr(payload.MinBookingAmount),
		MaxFeeAmount:     common.NumericFromDecimalPtr(payload.MaxFeeAmount),
		IsActive:         isActive,
	}, nil
}

func buildPlatformParams(payload platformSettingsPayload) (dbgen.UpsertPlatformSettingsParams, error) {
	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if currency == "" {
		currency = "IDR"
	}
	if len(currency) != 3 {
		return dbgen.UpsertPlatformSettingsParams{}, errors.New("currency must be a 3-letter code")
	}
	if payload.DefaultTaxRatePercent != nil {
		if err := validatePercent(*payload.DefaultTaxRatePercent, "defaultTaxRatePercent"); err != nil {
			return dbgen.UpsertPlatformSettingsParams{}, err
		}
	}
	feeType := pgtype.Text{}
	if payload.DefaultFeeType != nil && strings.TrimSpace(*payload.DefaultFeeType) != "" {
		ft := strings.TrimSpace(*payload.DefaultFeeType)
		switch ft {
		case pricing.FeePercentage:
			if payload.DefaultFeePercentage == nil {
				return dbgen.UpsertPlatformSettingsParams{}, errors.New("defaultFeePercentage is required for percentage fees")
			}
			if err := validatePercent(*payload.DefaultFeePercentage, "defaultFeePercentage"); err != nil {
				return dbgen.UpsertPlatformSettingsParams{}, err
			}
		case pricing.FeeFixedAmount:
			if payload.DefaultFeeFixedAmount == nil {
				return dbgen.UpsertPlatformSettingsParams{}, errors.New("defaultFeeFixedAmount is required for fixed fees")
			}
			if payload.DefaultFeeFixedAmount.IsNegative() {
				return dbgen.UpsertPlatformSettingsParams{}, errors.New("defaultFeeFixedAmount must not be negative")
			}
		default:
			return dbgen.UpsertPlatformSettingsParams{}, errors.New("defaultFeeType must be percentage or fixed_amount")
		}
		feeType = pgtype.Text{String: ft, Valid: true}
	}
	return dbgen.UpsertPlatformSettingsParams{
		DefaultTaxRatePercent: common.NumericFromDecimalPtr(payload.DefaultTaxRatePercent),
		DefaultFeeType:        feeType,
		DefaultFeePercentage:  common.NumericFromDecimalPtr(payload.DefaultFeePercentage),
		DefaultFeeFixedAmount: common.NumericFromDecimalPtr(payload.DefaultFeeFixedAmount),
		Currency:              currency,
	}, nil
}

func validatePercent(v decimal.Decimal, field string) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New(field + " must be between 0 and 100")
	}
	return nil
}

func parseIDParam(r *http.Request) (pgtype.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
