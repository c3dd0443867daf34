package booking_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-glam/internal/booking"
	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
)

type fakeQueries struct {
	dbgen.Querier

	bookings  map[uuid.UUID]dbgen.Booking
	providers map[string]dbgen.Provider
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		bookings:  map[uuid.UUID]dbgen.Booking{},
		providers: map[string]dbgen.Provider{},
	}
}

func (f *fakeQueries) GetBookingByID(ctx context.Context, id pgtype.UUID) (dbgen.Booking, error) {
	b, ok := f.bookings[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Booking{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeQueries) GetProviderBySubject(ctx context.Context, subject string) (dbgen.Provider, error) {
	p, ok := f.providers[subject]
	if !ok {
		return dbgen.Provider{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) ListBookingsByCustomer(ctx context.Context, arg dbgen.ListBookingsByCustomerParams) ([]dbgen.Booking, error) {
	var out []dbgen.Booking
	for _, b := range f.bookings {
		if b.CustomerID == arg.CustomerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeQueries) CountBookingsByCustomer(ctx context.Context, customerID pgtype.UUID) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeQueries) ListBookingsByProvider(ctx context.Context, arg dbgen.ListBookingsByProviderParams) ([]dbgen.Booking, error) {
	var out []dbgen.Booking
	for _, b := range f.bookings {
		if b.ProviderID == arg.ProviderID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeQueries) CountBookingsByProvider(ctx context.Context, providerID pgtype.UUID) (int64, error) {
	var n int64
	for _, b := range f.bookings {
		if b.ProviderID == providerID {
			n++
		}
	}
	return n, nil
}

func asActor(r *http.Request, subject, role string) *http.Request {
	ctx := common.WithActor(r.Context(), common.Actor{Subject: subject, Role: role})
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetBookingOwner(t *testing.T) {
	q := newFakeQueries()
	customerID := uuid.New()
	bookingID := uuid.New()
	q.bookings[bookingID] = dbgen.Booking{
		ID:         pgtype.UUID{Bytes: bookingID, Valid: true},
		CustomerID: pgtype.UUID{Bytes: customerID, Valid: true},
		ProviderID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Status:     "pending_payment",
	}
	h := &booking.Handler{Q: q, Svc: &booking.Service{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+bookingID.String(), nil)
	req = withURLParam(asActor(req, customerID.String(), common.RoleCustomer), "id", bookingID.String())
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBookingForbiddenForStranger(t *testing.T) {
	q := newFakeQueries()
	bookingID := uuid.New()
	q.bookings[bookingID] = dbgen.Booking{
		ID:         pgtype.UUID{Bytes: bookingID, Valid: true},
		CustomerID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		ProviderID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
	}
	h := &booking.Handler{Q: q, Svc: &booking.Service{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+bookingID.String(), nil)
	req = withURLParam(asActor(req, uuid.NewString(), common.RoleCustomer), "id", bookingID.String())
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetBookingVisibleToItsProvider(t *testing.T) {
	q := newFakeQueries()
	bookingID := uuid.New()
	providerID := uuid.New()
	q.providers["prov-subject"] = dbgen.Provider{ID: pgtype.UUID{Bytes: providerID, Valid: true}}
	q.bookings[bookingID] = dbgen.Booking{
		ID:         pgtype.UUID{Bytes: bookingID, Valid: true},
		CustomerID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		ProviderID: pgtype.UUID{Bytes: providerID, Valid: true},
	}
	h := &booking.Handler{Q: q, Svc: &booking.Service{}}

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+bookingID.String(), nil)
	req = withURLParam(asActor(req, "prov-subject", common.RoleProvider), "id", bookingID.String())
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBookingNotFound(t *testing.T) {
	h := &booking.Handler{Q: newFakeQueries(), Svc: &booking.Service{}}
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+uuid.NewString(), nil)
	req = withURLParam(asActor(req, uuid.NewString(), common.RoleCustomer), "id", uuid.NewString())
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookingsRequiresAuth(t *testing.T) {
	h := &booking.Handler{Q: newFakeQueries(), Svc: &booking.Service{}}
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListBookingsCustomerScoped(t *testing.T) {
	q := newFakeQueries()
	customerID := uuid.New()
	mine := uuid.New()
	q.bookings[mine] = dbgen.Booking{
		ID:         pgtype.UUID{Bytes: mine, Valid: true},
		CustomerID: pgtype.UUID{Bytes: customerID, Valid: true},
	}
	other := uuid.New()
	q.bookings[other] = dbgen.Booking{
		ID:         pgtype.UUID{Bytes: other, Valid: true},
		CustomerID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
	}
	h := &booking.Handler{Q: q, Svc: &booking.Service{}}

	req := asActor(httptest.NewRequest(http.MethodGet, "/v1/bookings", nil), customerID.String(), common.RoleCustomer)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), mine.String())
	require.NotContains(t, rec.Body.String(), other.String())
}

func TestCreateBookingRejectsBadPayload(t *testing.T) {
	h := &booking.Handler{Q: newFakeQueries(), Svc: &booking.Service{}}
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req = asActor(req, uuid.NewString(), common.RoleCustomer)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
