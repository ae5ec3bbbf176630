package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/micronstore/storefront/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "micron", ExpirationMinutes: 30}
}

func TestMintAndParseCustomerToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintCustomerToken(cfg, now, CustomerTokenPayload{UserID: userID, Email: " shopper@example.com "})
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}

	claims, err := ParseCustomerToken(cfg, token)
	if err != nil {
		t.Fatalf("parse customer token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "shopper@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != cfg.Issuer || claims.Subject != userID.String() || claims.ID == "" {
		t.Fatalf("unexpected registered claims %+v", claims.RegisteredClaims)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.Time)
	}
}

func TestParseCustomerTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintCustomerToken(cfg, time.Now(), CustomerTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseCustomerToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseCustomerTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintCustomerToken(cfg, time.Now().Add(-time.Hour), CustomerTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	_, err = ParseCustomerToken(cfg, token)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiration error, got %v", err)
	}
}

func TestParseCustomerTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintCustomerToken(cfg, time.Now(), CustomerTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseCustomerToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParseCustomerTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := CustomerClaims{
		UserID:           uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseCustomerToken(cfg, token); err == nil {
		t.Fatal("expected HS512 token to be rejected")
	}
}

func TestMintCustomerTokenValidation(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintCustomerToken(cfg, time.Now(), CustomerTokenPayload{}); err == nil {
		t.Fatal("expected missing user id error")
	}
	cfg.Secret = ""
	if _, err := MintCustomerToken(cfg, time.Now(), CustomerTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
