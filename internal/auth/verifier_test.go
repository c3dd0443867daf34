package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const testSecret = "super-secret-key"

func newTestVerifier(now time.Time) Verifier {
	return Verifier{
		Secret: []byte(testSecret),
		Validator: TokenValidator{
			Issuer:    "glam-identity",
			Audience:  "glam-api",
			ClockSkew: time.Second,
			Algorithm: jwa.HS256,
		},
		Now: func() time.Time { return now },
	}
}

func mintToken(t *testing.T, now time.Time, alg jwa.SignatureAlgorithm, mutate func(b *jwt.Builder)) string {
	t.Helper()
	builder := jwt.NewBuilder().
		Subject("cust-1").
		Issuer("glam-identity").
		Audience([]string{"glam-api"}).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(time.Minute)).
		Claim(RoleClaim, "customer")
	if mutate != nil {
		mutate(builder)
	}
	built, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(alg, []byte(testSecret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func TestVerifierParsesActor(t *testing.T) {
	now := time.Now()
	token := mintToken(t, now, jwa.HS256, nil)

	actor, err := newTestVerifier(now).ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if actor.Subject != "cust-1" {
		t.Fatalf("unexpected subject: %s", actor.Subject)
	}
	if actor.Role != "customer" {
		t.Fatalf("unexpected role: %s", actor.Role)
	}
}

func TestVerifierNormalizesRoleClaim(t *testing.T) {
	now := time.Now()
	token := mintToken(t, now, jwa.HS256, func(b *jwt.Builder) {
		b.Claim(RoleClaim, "  Provider ")
	})

	actor, err := newTestVerifier(now).ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if actor.Role != "provider" {
		t.Fatalf("unexpected role: %s", actor.Role)
	}
}

func TestVerifierAllowsMissingRole(t *testing.T) {
	now := time.Now()
	built, err := jwt.NewBuilder().
		Subject("cust-1").
		Issuer("glam-identity").
		Audience([]string{"glam-api"}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	actor, err := newTestVerifier(now).ParseAccessToken(string(signed))
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if actor.Role != "" {
		t.Fatalf("expected empty role, got %q", actor.Role)
	}
}

func TestVerifierRejectsMissingToken(t *testing.T) {
	if _, err := newTestVerifier(time.Now()).ParseAccessToken("   "); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestVerifierRejectsExpiredToken(t *testing.T) {
	now := time.Now()
	token := mintToken(t, now, jwa.HS256, func(b *jwt.Builder) {
		b.IssuedAt(now.Add(-2 * time.Hour))
		b.NotBefore(now.Add(-2 * time.Hour))
		b.Expiration(now.Add(-time.Minute))
	})

	if _, err := newTestVerifier(now).ParseAccessToken(token); err == nil {
		t.Fatal("expected expiration error")
	}
}

func TestVerifierRejectsIssuerMismatch(t *testing.T) {
	now := time.Now()
	token := mintToken(t, now, jwa.HS256, func(b *jwt.Builder) {
		b.Issuer("someone-else")
	})

	if _, err := newTestVerifier(now).ParseAccessToken(token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestVerifierRejectsAlgorithmMismatch(t *testing.T) {
	now := time.Now()
	token := mintToken(t, now, jwa.HS384, nil)

	if _, err := newTestVerifier(now).ParseAccessToken(token); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	built, err := jwt.NewBuilder().
		Subject("cust-1").
		Issuer("glam-identity").
		Audience([]string{"glam-api"}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte("not-the-secret")))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := newTestVerifier(now).ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestVerifierRejectsMissingSubject(t *testing.T) {
	now := time.Now()
	built, err := jwt.NewBuilder().
		Issuer("glam-identity").
		Audience([]string{"glam-api"}).
		IssuedAt(now).
		Expiration(now.Add(time.Minute)).
		Claim(RoleClaim, "customer").
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := newTestVerifier(now).ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected missing subject error")
	}
}
