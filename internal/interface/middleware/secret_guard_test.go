package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func guardedRouter(secret string) (*gin.Engine, *bool) {
	gin.SetMode(gin.TestMode)
	reached := false
	r := gin.New()
	r.Use(SecretGuard(secret, nil))
	r.GET("/ping", func(c *gin.Context) {
		reached = true
		c.String(http.StatusOK, "pong")
	})
	return r, &reached
}

func TestSecretGuardMissing(t *testing.T) {
	r, reached := guardedRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Access Denied") {
		t.Errorf("body = %q", w.Body.String())
	}
	if *reached {
		t.Error("handler ran despite missing secret")
	}
}

func TestSecretGuardWrong(t *testing.T) {
	r, reached := guardedRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderGatewaySecret, "guess")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if *reached {
		t.Error("handler ran despite wrong secret")
	}
}

func TestSecretGuardValid(t *testing.T) {
	r, reached := guardedRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderGatewaySecret, "s3cret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !*reached {
		t.Error("handler never ran")
	}
}
