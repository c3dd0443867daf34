package promo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/pricing"
)

// Handler exposes administrative promotion management plus the customer
// preview endpoint.
type Handler struct {
	Q   dbgen.Querier
	Svc *Service
}

type promotionPayload struct {
	Code              string           `json:"code"`
	Description       *string          `json:"description"`
	PromoType         string           `json:"promoType"`
	Value             decimal.Decimal  `json:"value"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount"`
	ValidFrom         *time.Time       `json:"validFrom"`
	ValidUntil        *time.Time       `json:"validUntil"`
	UsageLimit        *int32           `json:"usageLimit"`
	IsActive          *bool            `json:"isActive"`
	LocationID        *string          `json:"locationId"`
}

type previewRequest struct {
	Code         string          `json:"code"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	LocationType string          `json:"locationType"`
	LocationID   *string         `json:"locationId"`
}

// Create inserts a new promotion.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion queries not configured", nil)
		return
	}
	var payload promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	params, err := buildCreateParams(payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	promotion, err := h.Q.CreatePromotion(r.Context(), params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "promotion code already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create promotion", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": promotion})
}

// Update replaces the mutable fields of an existing promotion. Code and type
// stay fixed for the life of a promotion so receipts keep their meaning.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid promotion id", nil)
		return
	}
	var payload promotionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	params, err := buildUpdateParams(id, payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	promotion, err := h.Q.UpdatePromotion(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": promotion})
}

// SetActive toggles a promotion on or off without touching its rule.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid promotion id", nil)
		return
	}
	var payload struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IsActive == nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "isActive is required", nil)
		return
	}
	promotion, err := h.Q.SetPromotionActive(r.Context(), dbgen.SetPromotionActiveParams{
		ID:       id,
		IsActive: *payload.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": promotion})
}

// Get returns a single promotion by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid promotion id", nil)
		return
	}
	promotion, err := h.Q.GetPromotionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "promotion not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": promotion})
}

// List returns promotions newest first with pagination metadata.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion queries not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	limit, offset := common.LimitOffset(page, perPage)
	rows, err := h.Q.ListPromotions(r.Context(), dbgen.ListPromotionsParams{Limit: limit, Offset: offset})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list promotions", nil)
		return
	}
	total, err := h.Q.CountPromotions(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count promotions", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       rows,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// Preview simulates a promotion against a booking shape without consuming
// usage. Ineligible codes come back 200 with a reason so clients can show
// why a code did not apply.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promotion service not configured", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if req.Subtotal.IsNegative() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "subtotal must not be negative", nil)
		return
	}
	locType, locationID, err := parseLocation(req.LocationType, req.LocationID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result, err := h.Svc.Preview(r.Context(), req.Code, req.Subtotal, locType, locationID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to evaluate promotion", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}

func buildCreateParams(payload promotionPayload) (dbgen.CreatePromotionParams, error) {
	code := pricing.NormalizeCode(payload.Code)
	if code == "" {
		return dbgen.CreatePromotionParams{}, errors.New("code is required")
	}
	promoType := strings.TrimSpace(payload.PromoType)
	if promoType == "" {
		promoType = pricing.PromotionFixed
	}
	switch promoType {
	case pricing.PromotionPercentage, pricing.PromotionFixed:
	default:
		return dbgen.CreatePromotionParams{}, errors.New("promoType must be percentage or fixed")
	}
	if err := validateRule(promoType, payload); err != nil {
		return dbgen.CreatePromotionParams{}, err
	}
	locationID, err := toNullableUUID(payload.LocationID)
	if err != nil {
		return dbgen.CreatePromotionParams{}, errors.New("invalid locationId")
	}
	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}
	return dbgen.CreatePromotionParams{
		Code:              code,
		Description:       toNullableText(payload.Description),
		PromoType:         promoType,
		Value:             common.NumericFromDecimal(payload.Value),
		MinPurchaseAmount: common.NumericFromDecimalPtr(payload.MinPurchaseAmount),
		MaxDiscountAmount: common.NumericFromDecimalPtr(payload.MaxDiscountAmount),
		ValidFrom:         timeToNullable(payload.ValidFrom),
		ValidUntil:        timeToNullable(payload.ValidUntil),
		UsageLimit:        toNullableInt4(payload.UsageLimit),
		IsActive:          isActive,
		LocationID:        locationID,
	}, nil
}

func buildUpdateParams(id pgtype.UUID, payload promotionPayload) (dbgen.UpdatePromotionParams, error) {
	promoType := strings.TrimSpace(payload.PromoType)
	if promoType == "" {
		promoType = pricing.PromotionFixed
	}
	if err := validateRule(promoType, payload); err != nil {
		return dbgen.UpdatePromotionParams{}, err
	}
	locationID, err := toNullableUUID(payload.LocationID)
	if err != nil {
		return dbgen.UpdatePromotionParams{}, errors.New("invalid locationId")
	}
	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}
	return dbgen.UpdatePromotionParams{
		ID:                id,
		Description:       toNullableText(payload.Description),
		Value:             common.NumericFromDecimal(payload.Value),
		MinPurchaseAmount: common.NumericFromDecimalPtr(payload.MinPurchaseAmount),
		MaxDiscountAmount: common.NumericFromDecimalPtr(payload.MaxDiscountAmount),
		ValidFrom:         timeToNullable(payload.ValidFrom),
		ValidUntil:        timeToNullable(payload.ValidUntil),
		UsageLimit:        toNullableInt4(payload.UsageLimit),
		IsActive:          isActive,
		LocationID:        locationID,
	}, nil
}

func validateRule(promoType string, payload promotionPayload) error {
	if !payload.Value.IsPositive() {
		return errors.New("value must be positive")
	}
	if promoType == pricing.PromotionPercentage && payload.Value.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage value must not exceed 100")
	}
	if payload.MinPurchaseAmount != nil && payload.MinPurchaseAmount.IsNegative() {
		return errors.New("minPurchaseAmount must not be negative")
	}
	if payload.MaxDiscountAmount != nil && payload.MaxDiscountAmount.IsNegative() {
		return errors.New("maxDiscountAmount must not be negative")
	}
	if payload.ValidFrom != nil && payload.ValidUntil != nil && payload.ValidFrom.After(*payload.ValidUntil) {
		return errors.New("validFrom must not be after validUntil")
	}
	if payload.UsageLimit != nil && *payload.UsageLimit <= 0 {
		return errors.New("usageLimit must be positive")
	}
	return nil
}

func parseLocation(locType string, rawID *string) (pricing.LocationType, *uuid.UUID, error) {
	lt := pricing.LocationType(strings.TrimSpace(strings.ToLower(locType)))
	if lt == "" {
		lt = pricing.AtSalon
	}
	switch lt {
	case pricing.AtSalon, pricing.AtHome:
	default:
		return "", nil, errors.New("locationType must be at_salon or at_home")
	}
	if rawID == nil || strings.TrimSpace(*rawID) == "" {
		return lt, nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*rawID))
	if err != nil {
		return "", nil, errors.New("invalid locationId")
	}
	return lt, &parsed, nil
}

func parseIDParam(r *http.Request) (pgtype.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func toNullableUUID(raw *string) (pgtype.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return pgtype.UUID{}, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func toNullableText(v *string) pgtype.Text {
	if v == nil || strings.TrimSpace(*v) == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: strings.TrimSpace(*v), Valid: true}
}

func toNullableInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}

func timeToNullable(v *time.Time) pgtype.Timestamptz {
	if v == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *v, Valid: true}
}
