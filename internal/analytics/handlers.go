package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Handler exposes the provider dashboard and admin analytics endpoints.
type Handler struct {
	Svc *Service
	Q   dbgen.Querier
}

// Stats returns the caller's revenue rollup for the requested window.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	providerID, since, until, ok := h.scope(w, r)
	if !ok {
		return
	}
	stats, err := h.Svc.Stats(r.Context(), providerID, since, until)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_ERROR", "failed to load provider stats", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stats})
}

// RevenueByDay returns the caller's per-day revenue series.
func (h *Handler) RevenueByDay(w http.ResponseWriter, r *http.Request) {
	providerID, since, until, ok := h.scope(w, r)
	if !ok {
		return
	}
	series, err := h.Svc.RevenueByDay(r.Context(), providerID, since, until)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_ERROR", "failed to load revenue series", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": series})
}

// PromotionUsage returns the platform-wide promotion rollup. Admin only; the
// route guard enforces the role.
func (h *Handler) PromotionUsage(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_NOT_CONFIGURED", "analytics service not configured", nil)
		return
	}
	rows, err := h.Svc.PromotionUsage(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_ERROR", "failed to load promotion usage", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// Export streams the caller's bookings for the window as a CSV download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	providerID, since, until, ok := h.scope(w, r)
	if !ok {
		return
	}
	filename := fmt.Sprintf("bookings-%s-%s.csv", since.Format("20060102"), until.Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	// headers are out after the first write; a failed export truncates the body
	_ = h.Svc.ExportCSV(r.Context(), w, providerID, since, until)
}

// scope resolves the caller's provider plus the requested time window. Admins
// may inspect any provider via the providerId query parameter.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, time.Time, bool) {
	var zeroID uuid.UUID
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_NOT_CONFIGURED", "analytics service not configured", nil)
		return zeroID, time.Time{}, time.Time{}, false
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return zeroID, time.Time{}, time.Time{}, false
	}

	var providerID uuid.UUID
	switch actor.Role {
	case common.RoleAdmin:
		parsed, err := uuid.Parse(r.URL.Query().Get("providerId"))
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "providerId query parameter is required", nil)
			return zeroID, time.Time{}, time.Time{}, false
		}
		providerID = parsed
	case common.RoleProvider:
		provider, err := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
		if err != nil {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "provider profile not found", nil)
			return zeroID, time.Time{}, time.Time{}, false
		}
		providerID = uuid.UUID(provider.ID.Bytes)
	default:
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "provider or admin role required", nil)
		return zeroID, time.Time{}, time.Time{}, false
	}

	since, until, ok := parseWindow(w, r)
	if !ok {
		return zeroID, time.Time{}, time.Time{}, false
	}
	s, u := h.Svc.Window(since, until)
	return providerID, s, u, true
}

func parseWindow(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	query := r.URL.Query()
	var since, until *time.Time
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid from date", nil)
			return nil, nil, false
		}
		since = &parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid to date", nil)
			return nil, nil, false
		}
		until = &parsed
	}
	return since, until, true
}
