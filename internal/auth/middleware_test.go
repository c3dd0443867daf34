package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"

	"github.com/noah-isme/backend-glam/internal/common"
)

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier(time.Now())}
	called := false
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Fatal("handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthPopulatesActor(t *testing.T) {
	now := time.Now()
	mw := Middleware{Verifier: newTestVerifier(now)}
	token := mintToken(t, now, jwa.HS256, nil)

	var got common.Actor
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = common.ActorFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Subject != "cust-1" || got.Role != "customer" {
		t.Fatalf("unexpected actor: %+v", got)
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier(time.Now())}
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateContinuesAnonymously(t *testing.T) {
	mw := Middleware{Verifier: newTestVerifier(time.Now())}
	var sawActor bool
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawActor = common.ActorFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sawActor {
		t.Fatal("expected anonymous context for invalid token")
	}
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	handler := RequireRole(common.RoleAdmin, common.RoleProvider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(common.WithActor(req.Context(), common.Actor{Subject: "prov-1", Role: common.RoleProvider}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	handler := RequireRole(common.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for a customer")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(common.WithActor(req.Context(), common.Actor{Subject: "cust-1", Role: common.RoleCustomer}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	handler := RequireRole(common.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without an actor")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
