package promo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-glam/internal/common"
	dbgen "github.com/noah-isme/backend-glam/internal/db/gen"
	"github.com/noah-isme/backend-glam/internal/promo"
)

type fakeQueries struct {
	dbgen.Querier

	byCode map[string]dbgen.Promotion
	byID   map[uuid.UUID]dbgen.Promotion
	order  []uuid.UUID
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		byCode: map[string]dbgen.Promotion{},
		byID:   map[uuid.UUID]dbgen.Promotion{},
	}
}

func (f *fakeQueries) put(p dbgen.Promotion) {
	id := uuid.UUID(p.ID.Bytes)
	if _, ok := f.byID[id]; !ok {
		f.order = append(f.order, id)
	}
	f.byID[id] = p
	f.byCode[p.Code] = p
}

func (f *fakeQueries) CreatePromotion(ctx context.Context, arg dbgen.CreatePromotionParams) (dbgen.Promotion, error) {
	if _, ok := f.byCode[arg.Code]; ok {
		return dbgen.Promotion{}, &pgconn.PgError{Code: "23505"}
	}
	p := dbgen.Promotion{
		ID:                pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Code:              arg.Code,
		Description:       arg.Description,
		PromoType:         arg.PromoType,
		Value:             arg.Value,
		MinPurchaseAmount: arg.MinPurchaseAmount,
		MaxDiscountAmount: arg.MaxDiscountAmount,
		ValidFrom:         arg.ValidFrom,
		ValidUntil:        arg.ValidUntil,
		UsageLimit:        arg.UsageLimit,
		IsActive:          arg.IsActive,
		LocationID:        arg.LocationID,
	}
	f.put(p)
	return p, nil
}

func (f *fakeQueries) UpdatePromotion(ctx context.Context, arg dbgen.UpdatePromotionParams) (dbgen.Promotion, error) {
	p, ok := f.byID[uuid.UUID(arg.ID.Bytes)]
	if !ok {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	p.Description = arg.Description
	p.Value = arg.Value
	p.MinPurchaseAmount = arg.MinPurchaseAmount
	p.MaxDiscountAmount = arg.MaxDiscountAmount
	p.ValidFrom = arg.ValidFrom
	p.ValidUntil = arg.ValidUntil
	p.UsageLimit = arg.UsageLimit
	p.IsActive = arg.IsActive
	p.LocationID = arg.LocationID
	f.put(p)
	return p, nil
}

func (f *fakeQueries) SetPromotionActive(ctx context.Context, arg dbgen.SetPromotionActiveParams) (dbgen.Promotion, error) {
	p, ok := f.byID[uuid.UUID(arg.ID.Bytes)]
	if !ok {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	p.IsActive = arg.IsActive
	f.put(p)
	return p, nil
}

func (f *fakeQueries) GetPromotionByID(ctx context.Context, id pgtype.UUID) (dbgen.Promotion, error) {
	p, ok := f.byID[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) GetPromotionByCode(ctx context.Context, code string) (dbgen.Promotion, error) {
	p, ok := f.byCode[code]
	if !ok {
		return dbgen.Promotion{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) ListPromotions(ctx context.Context, arg dbgen.ListPromotionsParams) ([]dbgen.Promotion, error) {
	out := make([]dbgen.Promotion, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	start := int(arg.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := start + int(arg.Limit)
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakeQueries) CountPromotions(ctx context.Context) (int64, error) {
	return int64(len(f.order)), nil
}

func newRouter(h *promo.Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/admin/promotions", h.Create)
	r.Get("/api/v1/admin/promotions", h.List)
	r.Get("/api/v1/admin/promotions/{id}", h.Get)
	r.Put("/api/v1/admin/promotions/{id}", h.Update)
	r.Patch("/api/v1/admin/promotions/{id}/active", h.SetActive)
	r.Post("/api/v1/promotions/preview", h.Preview)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type promotionEnvelope struct {
	Data struct {
		ID        pgtype.UUID
		Code      string
		PromoType string
		IsActive  bool
	} `json:"data"`
}

func TestHandlerCreate(t *testing.T) {
	fake := newFakeQueries()
	router := newRouter(&promo.Handler{Q: fake})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/admin/promotions", map[string]any{
		"code":      "  glam10 ",
		"promoType": "percentage",
		"value":     10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var env promotionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "GLAM10", env.Data.Code)
	require.Equal(t, "percentage", env.Data.PromoType)
	require.True(t, env.Data.IsActive)

	dup := doJSON(t, router, http.MethodPost, "/api/v1/admin/promotions", map[string]any{
		"code":      "GLAM10",
		"promoType": "percentage",
		"value":     15,
	})
	require.Equal(t, http.StatusConflict, dup.Code)
}

func TestHandlerCreateValidation(t *testing.T) {
	router := newRouter(&promo.Handler{Q: newFakeQueries()})

	cases := []map[string]any{
		{"promoType": "percentage", "value": 10},
		{"code": "X", "promoType": "bogus", "value": 10},
		{"code": "X", "promoType": "percentage", "value": 0},
		{"code": "X", "promoType": "percentage", "value": 120},
		{"code": "X", "promoType": "fixed", "value": 10, "usageLimit": 0},
	}
	for _, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/admin/promotions", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %v", body)
	}
}

func TestHandlerUpdate(t *testing.T) {
	fake := newFakeQueries()
	id := uuid.New()
	fake.put(dbgen.Promotion{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		Code:      "GLAM10",
		PromoType: "percentage",
		Value:     common.NumericFromDecimal(decimal.NewFromInt(10)),
		IsActive:  true,
	})
	router := newRouter(&promo.Handler{Q: fake})

	rec := doJSON(t, router, http.MethodPut, "/api/v1/admin/promotions/"+id.String(), map[string]any{
		"value":      15,
		"usageLimit": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	missing := doJSON(t, router, http.MethodPut, "/api/v1/admin/promotions/"+uuid.NewString(), map[string]any{
		"value": 15,
	})
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHandlerSetActive(t *testing.T) {
	fake := newFakeQueries()
	id := uuid.New()
	fake.put(dbgen.Promotion{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		Code:      "GLAM10",
		PromoType: "fixed",
		Value:     common.NumericFromDecimal(decimal.NewFromInt(25)),
		IsActive:  true,
	})
	router := newRouter(&promo.Handler{Q: fake})

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/admin/promotions/"+id.String()+"/active", map[string]any{
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var env promotionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Data.IsActive)

	noBody := doJSON(t, router, http.MethodPatch, "/api/v1/admin/promotions/"+id.String()+"/active", map[string]any{})
	require.Equal(t, http.StatusBadRequest, noBody.Code)
}

func TestHandlerList(t *testing.T) {
	fake := newFakeQueries()
	for _, code := range []string{"A", "B", "C"} {
		fake.put(dbgen.Promotion{
			ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
			Code:      code,
			PromoType: "fixed",
			Value:     common.NumericFromDecimal(decimal.NewFromInt(5)),
		})
	}
	router := newRouter(&promo.Handler{Q: fake})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/promotions?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data       []json.RawMessage `json:"data"`
		Pagination common.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	require.Equal(t, 1, env.Pagination.Page)
	require.Equal(t, 2, env.Pagination.PerPage)
	require.Equal(t, 3, env.Pagination.TotalItems)
}

func TestHandlerPreview(t *testing.T) {
	fake := newFakeQueries()
	fake.put(dbgen.Promotion{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Code:      "HEMAT20",
		PromoType: "percentage",
		Value:     common.NumericFromDecimal(decimal.NewFromInt(20)),
		IsActive:  true,
	})
	svc := &promo.Service{Q: fake, Now: func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }}
	router := newRouter(&promo.Handler{Q: fake, Svc: svc})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/promotions/preview", map[string]any{
		"code":     "hemat20",
		"subtotal": "150.00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data promo.PreviewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Data.Eligible)
	require.Equal(t, "HEMAT20", env.Data.Code)
	require.True(t, env.Data.Discount.Equal(decimal.NewFromInt(30)))

	miss := doJSON(t, router, http.MethodPost, "/api/v1/promotions/preview", map[string]any{
		"code":     "NOPE",
		"subtotal": "150.00",
	})
	require.Equal(t, http.StatusOK, miss.Code)
	var missEnv struct {
		Data promo.PreviewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(miss.Body.Bytes(), &missEnv))
	require.False(t, missEnv.Data.Eligible)
	require.Equal(t, "not_found", missEnv.Data.Reason)
}
