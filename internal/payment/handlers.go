package payment

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

// Handler exposes intent creation and payment status for booking owners.
type Handler struct {
	Svc *Service
	Q   *dbgen.Queries
}

// Intent opens (or returns the pending) payment intent for a booking.
func (h *Handler) Intent(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payment service not configured", nil)
		return
	}
	var payload struct {
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	bookingID, err := parseUUIDParamString(payload.BookingID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid booking id", nil)
		return
	}
	booking, ok := h.loadOwnedBooking(w, r, bookingID)
	if !ok {
		return
	}
	if booking.Status != "pending_payment" {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "booking is not awaiting payment", nil)
		return
	}
	payment, err := h.Svc.CreateIntent(r.Context(), h.Q, booking)
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			common.JSONError(w, http.StatusConflict, "ALREADY_PAID", "booking already paid", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create payment intent", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": payment})
}

// Status reports the payment state of a booking.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payment service not configured", nil)
		return
	}
	bookingID, err := parseUUIDParam(r, "bookingId")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid booking id", nil)
		return
	}
	if _, ok := h.loadOwnedBooking(w, r, bookingID); !ok {
		return
	}
	status, err := h.Svc.Status(r.Context(), h.Q, bookingID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load payment status", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"status": status}})
}

// loadOwnedBooking fetches the booking and enforces that the caller is the
// booking's customer or an admin. It writes the error response itself.
func (h *Handler) loadOwnedBooking(w http.ResponseWriter, r *http.Request, bookingID pgtype.UUID) (dbgen.Booking, bool) {
	booking, err := h.Q.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "booking not found", nil)
			return dbgen.Booking{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load booking", nil)
		return dbgen.Booking{}, false
	}
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return dbgen.Booking{}, false
	}
	if actor.Role != common.RoleAdmin && actor.Subject != uuidString(booking.CustomerID) {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "not your booking", nil)
		return dbgen.Booking{}, false
	}
	return booking, true
}

func parseUUIDParamString(raw string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func parseUUIDParam(r *http.Request, name string) (pgtype.UUID, error) {
	return parseUUIDParamString(chi.URLParam(r, name))
}
