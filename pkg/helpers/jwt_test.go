package helpers

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.GenerateToken("u-1", "STUDENT", "student@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("expiry too soon: %v", exp)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != "STUDENT" || claims.Email != "student@campus.local" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.GenerateToken("u-1", "STUDENT", "student@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrExpiredCredential) {
		t.Errorf("want ErrExpiredCredential, got %v", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("another-secret", time.Hour)

	token, _, err := m.GenerateToken("u-1", "STUDENT", "student@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("want ErrInvalidCredential, got %v", err)
	}
}

func TestJWTGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	if _, err := m.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("want ErrInvalidCredential, got %v", err)
	}
}
