package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/provider"
)

type fakeQueries struct {
	dbgen.Querier

	providers map[uuid.UUID]dbgen.Provider
	settings  map[uuid.UUID]dbgen.ProviderSetting
	locations map[uuid.UUID][]dbgen.Location
	feeIDs    map[uuid.UUID]bool
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		providers: map[uuid.UUID]dbgen.Provider{},
		settings:  map[uuid.UUID]dbgen.ProviderSetting{},
		locations: map[uuid.UUID][]dbgen.Location{},
		feeIDs:    map[uuid.UUID]bool{},
	}
}

func (f *fakeQueries) CreateProvider(ctx context.Context, arg dbgen.CreateProviderParams) (dbgen.Provider, error) {
	for _, p := range f.providers {
		if p.Subject == arg.Subject {
			return dbgen.Provider{}, &pgconn.PgError{Code: "23505"}
		}
	}
	p := dbgen.Provider{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Subject:     arg.Subject,
		DisplayName: arg.DisplayName,
		Bio:         arg.Bio,
		IsActive:    true,
	}
	f.providers[uuid.UUID(p.ID.Bytes)] = p
	return p, nil
}

func (f *fakeQueries) GetProviderByID(ctx context.Context, id pgtype.UUID) (dbgen.Provider, error) {
	p, ok := f.providers[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Provider{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) ListProviders(ctx context.Context, arg dbgen.ListProvidersParams) ([]dbgen.Provider, error) {
	out := make([]dbgen.Provider, 0, len(f.providers))
	for _, p := range f.providers {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeQueries) UpdateProvider(ctx context.Context, arg dbgen.UpdateProviderParams) (dbgen.Provider, error) {
	p, ok := f.providers[uuid.UUID(arg.ID.Bytes)]
	if !ok {
		return dbgen.Provider{}, pgx.ErrNoRows
	}
	p.DisplayName = arg.DisplayName
	p.Bio = arg.Bio
	p.IsActive = arg.IsActive
	f.providers[uuid.UUID(arg.ID.Bytes)] = p
	return p, nil
}

func (f *fakeQueries) GetProviderSettings(ctx context.Context, providerID pgtype.UUID) (dbgen.ProviderSetting, error) {
	s, ok := f.settings[uuid.UUID(providerID.Bytes)]
	if !ok {
		return dbgen.ProviderSetting{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeQueries) UpsertProviderSettings(ctx context.Context, arg dbgen.UpsertProviderSettingsParams) (dbgen.ProviderSetting, error) {
	if arg.FeeConfigID.Valid && !f.feeIDs[uuid.UUID(arg.FeeConfigID.Bytes)] {
		return dbgen.ProviderSetting{}, &pgconn.PgError{Code: "23503"}
	}
	s := dbgen.ProviderSetting{
		ProviderID:     arg.ProviderID,
		TaxRatePercent: arg.TaxRatePercent,
		TipsEnabled:    arg.TipsEnabled,
		FeeConfigID:    arg.FeeConfigID,
	}
	f.settings[uuid.UUID(arg.ProviderID.Bytes)] = s
	return s, nil
}

func (f *fakeQueries) CreateLocation(ctx context.Context, arg dbgen.CreateLocationParams) (dbgen.Location, error) {
	loc := dbgen.Location{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		ProviderID: arg.ProviderID,
		Name:       arg.Name,
		Address:    arg.Address,
		City:       arg.City,
		IsActive:   true,
	}
	key := uuid.UUID(arg.ProviderID.Bytes)
	f.locations[key] = append(f.locations[key], loc)
	return loc, nil
}

func (f *fakeQueries) ListLocationsByProvider(ctx context.Context, providerID pgtype.UUID) ([]dbgen.Location, error) {
	return f.locations[uuid.UUID(providerID.Bytes)], nil
}

func newRouter(h *provider.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/providers", h.Register)
	r.Get("/api/v1/providers", h.List)
	r.Get("/api/v1/providers/{id}", h.Get)
	r.Put("/api/v1/providers/{id}", h.Update)
	r.Get("/api/v1/providers/{id}/settings", h.Settings)
	r.Put("/api/v1/providers/{id}/settings", h.UpsertSettings)
	r.Post("/api/v1/providers/{id}/locations", h.CreateLocation)
	r.Get("/api/v1/providers/{id}/locations", h.Locations)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any, actor *common.Actor) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(common.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedProvider(t *testing.T, fake *fakeQueries, subject string) uuid.UUID {
	t.Helper()
	p, err := fake.CreateProvider(context.Background(), dbgen.CreateProviderParams{
		Subject:     subject,
		DisplayName: "Salon Cantik",
	})
	require.NoError(t, err)
	return uuid.UUID(p.ID.Bytes)
}

func TestRegisterRequiresAuth(t *testing.T) {
	router := newRouter(&provider.Handler{Q: newFakeQueries()})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/providers", map[string]any{"displayName": "Salon"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndConflict(t *testing.T) {
	fake := newFakeQueries()
	router := newRouter(&provider.Handler{Q: fake})
	actor := &common.Actor{Subject: "prov-1", Role: common.RoleProvider}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/providers", map[string]any{"displayName": "Salon Cantik"}, actor)
	require.Equal(t, http.StatusCreated, rec.Code)

	dup := doJSON(t, router, http.MethodPost, "/api/v1/providers", map[string]any{"displayName": "Salon Lain"}, actor)
	require.Equal(t, http.StatusConflict, dup.Code)
}

func TestUpdateOwnership(t *testing.T) {
	fake := newFakeQueries()
	id := seedProvider(t, fake, "prov-1")
	router := newRouter(&provider.Handler{Q: fake})

	owner := &common.Actor{Subject: "prov-1", Role: common.RoleProvider}
	rec := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String(), map[string]any{"displayName": "Salon Baru"}, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	stranger := &common.Actor{Subject: "prov-2", Role: common.RoleProvider}
	forbidden := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String(), map[string]any{"displayName": "Milik Saya"}, stranger)
	require.Equal(t, http.StatusForbidden, forbidden.Code)

	deactivate := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String(), map[string]any{"isActive": false}, owner)
	require.Equal(t, http.StatusForbidden, deactivate.Code)

	admin := &common.Actor{Subject: "admin-1", Role: common.RoleAdmin}
	adminOff := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String(), map[string]any{"isActive": false}, admin)
	require.Equal(t, http.StatusOK, adminOff.Code)
	var env struct {
		Data struct{ IsActive bool } `json:"data"`
	}
	require.NoError(t, json.Unmarshal(adminOff.Body.Bytes(), &env))
	require.False(t, env.Data.IsActive)
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	fake := newFakeQueries()
	id := seedProvider(t, fake, "prov-1")
	router := newRouter(&provider.Handler{Q: fake})
	owner := &common.Actor{Subject: "prov-1", Role: common.RoleProvider}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/providers/"+id.String()+"/settings", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data struct{ TipsEnabled bool } `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Data.TipsEnabled, "defaults should enable tips")

	put := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String()+"/settings", map[string]any{
		"taxRatePercent": 11,
		"tipsEnabled":    false,
	}, owner)
	require.Equal(t, http.StatusOK, put.Code)

	got := doJSON(t, router, http.MethodGet, "/api/v1/providers/"+id.String()+"/settings", nil, owner)
	require.Equal(t, http.StatusOK, got.Code)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &env))
	require.False(t, env.Data.TipsEnabled)
}

func TestSettingsValidation(t *testing.T) {
	fake := newFakeQueries()
	id := seedProvider(t, fake, "prov-1")
	router := newRouter(&provider.Handler{Q: fake})
	owner := &common.Actor{Subject: "prov-1", Role: common.RoleProvider}

	bad := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String()+"/settings", map[string]any{
		"taxRatePercent": 101,
	}, owner)
	require.Equal(t, http.StatusBadRequest, bad.Code)

	unknownFee := doJSON(t, router, http.MethodPut, "/api/v1/providers/"+id.String()+"/settings", map[string]any{
		"feeConfigId": uuid.NewString(),
	}, owner)
	require.Equal(t, http.StatusBadRequest, unknownFee.Code)
}

func TestLocations(t *testing.T) {
	fake := newFakeQueries()
	id := seedProvider(t, fake, "prov-1")
	router := newRouter(&provider.Handler{Q: fake})
	owner := &common.Actor{Subject: "prov-1", Role: common.RoleProvider}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/providers/"+id.String()+"/locations", map[string]any{
		"name":    "Cabang Senayan",
		"address": "Jl. Asia Afrika No. 8",
		"city":    "Jakarta",
	}, owner)
	require.Equal(t, http.StatusCreated, rec.Code)

	incomplete := doJSON(t, router, http.MethodPost, "/api/v1/providers/"+id.String()+"/locations", map[string]any{
		"name": "Tanpa Alamat",
	}, owner)
	require.Equal(t, http.StatusBadRequest, incomplete.Code)

	list := doJSON(t, router, http.MethodGet, "/api/v1/providers/"+id.String()+"/locations", nil, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var env struct {
		Data []struct{ Name string } `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	require.Equal(t, "Cabang Senayan", env.Data[0].Name)
}
