package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Handler exposes the public service listing plus provider-facing CRUD.
type Handler struct {
	Q   dbgen.Querier
	Svc *Service
}

// List handles GET /api/v1/services.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	result, err := h.Svc.ListActive(r.Context(), page, perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list services", nil)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: int(result.Total)},
	})
}

// Detail handles GET /api/v1/services/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid service id", nil)
		return
	}
	summary, err := h.Svc.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "service not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load service", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// ByProvider handles GET /api/v1/providers/{id}/services. Owners and admins
// also see inactive offerings.
func (h *Handler) ByProvider(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	providerID, err := parseIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	row, err := h.Q.GetProviderByID(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "provider not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load provider", nil)
		return
	}
	includeInactive := false
	if actor, ok := common.ActorFrom(r.Context()); ok {
		includeInactive = actor.Role == common.RoleAdmin || actor.Subject == row.Subject
	}
	items, err := h.Svc.ByProvider(r.Context(), providerID, includeInactive)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list services", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Create handles POST /api/v1/providers/{id}/services. Owner or admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	providerID, err := parseIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid provider id", nil)
		return
	}
	if !h.authorizeProvider(w, r, providerID) {
		return
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	summary, err := h.Svc.Create(r.Context(), providerID, input)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": summary})
}

// Update handles PUT /api/v1/services/{id}. Owner or admin only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid service id", nil)
		return
	}
	current, err := h.Q.GetServiceByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "service not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load service", nil)
		return
	}
	if !h.authorizeProvider(w, r, current.ProviderID) {
		return
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	summary, err := h.Svc.Update(r.Context(), current, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "service not found", nil)
			return
		}
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// authorizeProvider checks the caller owns the provider or is an admin. It
// writes the error response itself and reports success.
func (h *Handler) authorizeProvider(w http.ResponseWriter, r *http.Request, providerID pgtype.UUID) bool {
	row, err := h.Q.GetProviderByID(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "provider not found", nil)
			return false
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load provider", nil)
		return false
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok || actor.Subject == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return false
	}
	if actor.Role != common.RoleAdmin && actor.Subject != row.Subject {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "not your provider profile", nil)
		return false
	}
	return true
}

func parseIDParam(r *http.Request, name string) (pgtype.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
