package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/platform/pkg/helpers"
)

func gatewayRouter(jwt *helpers.JWTManager) (*gin.Engine, *http.Header) {
	gin.SetMode(gin.TestMode)
	table := NewRouteTable("/api/auth/login", "/api/auth/signup")

	var forwarded http.Header
	r := gin.New()
	r.Use(GatewayAuth(table, jwt, "s3cret"))
	r.NoRoute(func(c *gin.Context) {
		forwarded = c.Request.Header.Clone()
		c.Status(http.StatusOK)
	})
	return r, &forwarded
}

func TestGatewayAuthStripsSpoofedHeaders(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r, forwarded := gatewayRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(HeaderUserID, "spoofed-id")
	req.Header.Set(HeaderUserRole, "COLLEGE_ADMIN")
	req.Header.Set(HeaderGatewaySecret, "spoofed-secret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := forwarded.Get(HeaderUserID); got != "" {
		t.Errorf("spoofed user id survived: %q", got)
	}
	if got := forwarded.Get(HeaderUserRole); got != "" {
		t.Errorf("spoofed role survived: %q", got)
	}
	if got := forwarded.Get(HeaderGatewaySecret); got != "s3cret" {
		t.Errorf("gateway secret = %q, want the configured one", got)
	}
}

func TestGatewayAuthSecuredWithoutToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r, forwarded := gatewayRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if *forwarded != nil {
		t.Error("request reached upstream without a credential")
	}
}

func TestGatewayAuthSecuredExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("test-secret", -time.Minute)
	token, _, err := expired.GenerateToken("u-1", "STUDENT", "s@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r, _ := gatewayRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "expired credential") {
		t.Errorf("body = %q, want expiry to be distinguishable", w.Body.String())
	}
}

func TestGatewayAuthInjectsDerivedIdentity(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwt.GenerateToken("u-42", "HOD", "hod@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r, forwarded := gatewayRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	// A spoof attempt on a secured route must be replaced, not merged.
	req.Header.Set(HeaderUserID, "spoofed-id")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := forwarded.Get(HeaderUserID); got != "u-42" {
		t.Errorf("user id header = %q, want u-42", got)
	}
	if got := forwarded.Get(HeaderUserRole); got != "HOD" {
		t.Errorf("role header = %q, want HOD", got)
	}
	if got := forwarded.Get(HeaderUserEmail); got != "hod@campus.local" {
		t.Errorf("email header = %q", got)
	}
}

func TestGatewayAuthAcceptsQueryParamCredential(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwt.GenerateToken("u-7", "STUDENT", "s@campus.local")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r, forwarded := gatewayRouter(jwt)

	// Websocket upgrades cannot carry an Authorization header from browsers.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+token, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := forwarded.Get(HeaderUserID); got != "u-7" {
		t.Errorf("user id header = %q, want u-7", got)
	}
}
