package provider

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Handler exposes provider profiles, pricing settings and salon locations.
type Handler struct {
	Q dbgen.Querier
}

type profilePayload struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	IsActive    *bool   `json:"isActive"`
}

type settingsPayload struct {
	TaxRatePercent *decimal.Decimal `json:"taxRatePercent"`
	TipsEnabled    *bool            `json:"tipsEnabled"`
	FeeConfigID    *string          `json:"feeConfigId"`
}

type locationPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Register creates the provider profile for the authenticated subject.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok || actor.Subject == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	displayName := ""
	if payload.DisplayName != nil {
		displayName = strings.TrimSpace(*payload.DisplayName)
	}
	if displayName == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "displayName is required", nil)
		return
	}
	created, err := h.Q.CreateProvider(r.Context(), dbgen.CreateProviderParams{
		Subject:     actor.Subject,
		DisplayName: displayName,
		Bio:         toNullableText(payload.Bio),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "provider already registered", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to register provider", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Get returns a provider profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	row, err := h.Q.GetProviderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "provider not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load provider", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": row})
}

// List returns provider profiles newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	limit, offset := common.LimitOffset(page, perPage)
	rows, err := h.Q.ListProviders(r.Context(), dbgen.ListProvidersParams{Limit: limit, Offset: offset})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list providers", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       rows,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(rows)},
	})
}

// Update edits a provider profile. Owners may change their name and bio;
// only admins may flip is_active.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	current, actor, ok := h.authorize(w, r, id)
	if !ok {
		return
	}
	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	displayName := current.DisplayName
	if payload.DisplayName != nil && strings.TrimSpace(*payload.DisplayName) != "" {
		displayName = strings.TrimSpace(*payload.DisplayName)
	}
	bio := current.Bio
	if payload.Bio != nil {
		bio = toNullableText(payload.Bio)
	}
	isActive := current.IsActive
	if payload.IsActive != nil {
		if actor.Role != common.RoleAdmin {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "only admins may change provider status", nil)
			return
		}
		isActive = *payload.IsActive
	}
	updated, err := h.Q.UpdateProvider(r.Context(), dbgen.UpdateProviderParams{
		ID:          id,
		DisplayName: displayName,
		Bio:         bio,
		IsActive:    isActive,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update provider", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Settings returns the pricing settings for a provider. Owner or admin only.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	if _, _, ok := h.authorize(w, r, id); !ok {
		return
	}
	settings, err := h.Q.GetProviderSettings(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No explicit settings yet. Report the defaults the pricing
			// engine would apply.
			common.JSON(w, http.StatusOK, map[string]any{"data": dbgen.ProviderSetting{
				ProviderID:  id,
				TipsEnabled: true,
			}})
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load provider settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": settings})
}

// UpsertSettings writes the pricing settings for a provider. Owner or admin
// only.
func (h *Handler) UpsertSettings(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	if _, _, ok := h.authorize(w, r, id); !ok {
		return
	}
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.TaxRatePercent != nil {
		rate := *payload.TaxRatePercent
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "taxRatePercent must be between 0 and 100", nil)
			return
		}
	}
	feeConfigID, err := toNullableUUID(payload.FeeConfigID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid feeConfigId", nil)
		return
	}
	tipsEnabled := true
	if payload.TipsEnabled != nil {
		tipsEnabled = *payload.TipsEnabled
	}
	settings, err := h.Q.UpsertProviderSettings(r.Context(), dbgen.UpsertProviderSettingsParams{
		ProviderID:     id,
		TaxRatePercent: common.NumericFromDecimalPtr(payload.TaxRatePercent),
		TipsEnabled:    tipsEnabled,
		FeeConfigID:    feeConfigID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown fee config", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to save provider settings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": settings})
}

// CreateLocation registers a salon location for a provider. Owner or admin
// only.
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	if _, _, ok := h.authorize(w, r, id); !ok {
		return
	}
	var payload locationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	name := strings.TrimSpace(payload.Name)
	address := strings.TrimSpace(payload.Address)
	city := strings.TrimSpace(payload.City)
	if name == "" || address == "" || city == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name, address and city are required", nil)
		return
	}
	location, err := h.Q.CreateLocation(r.Context(), dbgen.CreateLocationParams{
		ProviderID: id,
		Name:       name,
		Address:    address,
		City:       city,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create location", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": location})
}

// Locations lists the salon locations of a provider. Public.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "provider queries not configured", nil)
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	rows, err := h.Q.ListLocationsByProvider(r.Context(), id)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list locations", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// authorize loads the provider and checks the caller is its owner or an
// admin. It writes the error response itself and reports success through ok.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, id pgtype.UUID) (dbgen.Provider, common.Actor, bool) {
	row, err := h.Q.GetProviderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "provider not found", nil)
			return dbgen.Provider{}, common.Actor{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load provider", nil)
		return dbgen.Provider{}, common.Actor{}, false
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok || actor.Subject == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return dbgen.Provider{}, common.Actor{}, false
	}
	if actor.Role != common.RoleAdmin && actor.Subject != row.Subject {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "not your provider profile", nil)
		return dbgen.Provider{}, common.Actor{}, false
	}
	return row, actor, true
}

func parseIDParam(r *http.Request) (pgtype.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	parsed, err := uuid.Parse(raw)
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
