package offer

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

// Handler exposes the custom-offer negotiation endpoints.
type Handler struct {
	Svc *Service
	Q   dbgen.Querier
}

// Create lets a provider extend a custom offer to a customer.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer service not configured", nil)
		return
	}
	provider, ok := h.providerID(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	created, err := h.Svc.Create(r.Context(), provider, in)
	if err != nil {
		renderError(w, err, "failed to create offer")
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Get returns one offer visible to the caller.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	current, err := h.Q.GetOfferByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "offer not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load offer", nil)
		return
	}
	if !h.canView(r, current) {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "not your offer", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": current})
}

// List returns the caller's offers, customer or provider scoped.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer queries not configured", nil)
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
		rows []dbgen.Offer
		err  error
	)
	switch actor.Role {
	case common.RoleProvider:
		provider, perr := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
		if perr != nil {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "provider profile not found", nil)
			return
		}
		rows, err = h.Q.ListOffersByProvider(r.Context(), dbgen.ListOffersByProviderParams{
			ProviderID: provider.ID,
			Limit:      limit,
			Offset:     offset,
		})
	default:
		subject, serr := parseUUIDString(actor.Subject)
		if serr != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid subject", nil)
			return
		}
		rows, err = h.Q.ListOffersByCustomer(r.Context(), dbgen.ListOffersByCustomerParams{
			CustomerID: subject,
			Limit:      limit,
			Offset:     offset,
		})
	}
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list offers", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": rows,
		"meta": map[string]any{"page": page, "perPage": perPage},
	})
}

// Accept converts the offer into a priced booking for the customer.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer service not configured", nil)
		return
	}
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	var in AcceptInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Accept(r.Context(), customerID, uuid.UUID(id.Bytes), in)
	if err != nil {
		renderError(w, err, "failed to accept offer")
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

// Decline marks the offer declined by its customer.
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer service not configured", nil)
		return
	}
	customerID, ok := h.customerID(w, r)
	if !ok {
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	updated, err := h.Svc.Decline(r.Context(), customerID, uuid.UUID(id.Bytes))
	if err != nil {
		renderError(w, err, "failed to decline offer")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Withdraw retracts the offer by its provider.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "offer service not configured", nil)
		return
	}
	provider, ok := h.providerID(w, r)
	if !ok {
		return
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid offer id", nil)
		return
	}
	updated, err := h.Svc.Withdraw(r.Context(), provider, uuid.UUID(id.Bytes))
	if err != nil {
		renderError(w, err, "failed to withdraw offer")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) providerID(w http.ResponseWriter, r *http.Request) (pgtype.UUID, bool) {
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return pgtype.UUID{}, false
	}
	provider, err := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
	if err != nil {
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "provider profile not found", nil)
		return pgtype.UUID{}, false
	}
	return provider.ID, true
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

func (h *Handler) canView(r *http.Request, o dbgen.Offer) bool {
	actor, ok := common.ActorFrom(r.Context())
	if !ok {
		return false
	}
	switch actor.Role {
	case common.RoleAdmin:
		return true
	case common.RoleProvider:
		provider, err := h.Q.GetProviderBySubject(r.Context(), actor.Subject)
		return err == nil && provider.ID == o.ProviderID
	default:
		return actor.Subject == uuidString(o.CustomerID)
	}
}

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
