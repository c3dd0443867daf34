package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

// Handler exposes booking creation and lifecycle endpoints.
type Handler struct {
	Svc *Service
	Q   dbgen.Querier
}

// Create prices and creates a booking for the authenticated customer.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "booking service not configured", nil)
		return
	}
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Create(r.Context(), customerID, in)
	if err != nil {
		renderError(w, err, "failed to create booking")
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

// Get returns one booking visible to the caller.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "booking queries not configured", nil)
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid booking id", nil)
		return
	}
	booking, err := h.Q.GetBookingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load booking", nil)
		return
	}
	if !h.canView(r, booking) {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "not your booking", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": booking})
}

// List returns the caller's bookings, customer or provider scoped.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "booking queries not configured", nil)
		return
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	limit, offset := common.LimitOffset(page, perPage)

	var (
		rows  []dbgen.Booking
		total int64
		err   error
	)
	switch actor.Role {
	case common.RoleProvider:
		provider, perr := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
		if perr != nil {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "provider profile not found", nil)
			return
		}
		rows, err = h.Q.ListBookingsByProvider(r.Context(), dbgen.ListBookingsByProviderParams{
			ProviderID: provider.ID,
			Limit:      limit,
			Offset:     offset,
		})
		if err == nil {
			total, err = h.Q.CountBookingsByProvider(r.Context(), provider.ID)
		}
	default:
		subject, serr := parseUUIDString(actor.Subject)
		if serr != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject", nil)
			return
		}
		rows, err = h.Q.ListBookingsByCustomer(r.Context(), dbgen.ListBookingsByCustomerParams{
			CustomerID: subject,
			Limit:      limit,
			Offset:     offset,
		})
		if err == nil {
			total, err = h.Q.CountBookingsByCustomer(r.Context(), subject)
		}
	}
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list bookings", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": rows,
		"meta": map[string]any{"page": page, "perPage": perPage, "total": total},
	})
}

// Cancel cancels a pending booking owned by the caller.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "booking service not configured", nil)
		return
	}
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid booking id", nil)
		return
	}
	updated, err := h.Svc.Cancel(r.Context(), customerID, uuid.UUID(id.Bytes))
	if err != nil {
		renderError(w, err, "failed to cancel booking")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return uuid.UUID{}, false
	}
	parsed, err := uuid.Parse(actor.Subject)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject", nil)
		return uuid.UUID{}, false
	}
	return parsed, true
}

func (h *Handler) canView(r *http.Request, booking dbgen.Booking) bool {
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		return false
	}
	switch actor.Role {
	case common.RoleAdmin:
		return true
	case common.RoleProvider:
		provider, err := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
		return err == nil && provider.ID == booking.ProviderID
	default:
		return actor.Subject == uuidString(booking.CustomerID)
	}
}

// renderError maps service errors onto the JSON envelope.
func renderError(w http.ResponseWriter, err error, fallback string) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", fallback, nil)
}

func parseUUIDParam(r *http.Request, name string) (pgtype.UUID, error) {
	return parseUUIDString(chi.URLParam(r, name))
}

func parseUUIDString(raw string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
