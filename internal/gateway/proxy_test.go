package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// closeNotifyRecorder adds CloseNotify so ReverseProxy can serve onto a
// test recorder when the request context is not cancellable.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder()}
}

func upstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", name)
		_, _ = io.WriteString(w, name+":"+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func proxyRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := upstream(t, "auth")
	notify := upstream(t, "notify")

	p, err := New(auth.URL, notify.URL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := gin.New()
	r.NoRoute(p.Handle)
	return r
}

func TestProxyRoutesByPrefix(t *testing.T) {
	r := proxyRouter(t)

	cases := []struct {
		path string
		want string
	}{
		{"/api/auth/login", "auth"},
		{"/api/auth/internal/update-status", "auth"},
		{"/api/notifications", "notify"},
		{"/api/notifications/search", "notify"},
		{"/ws", "notify"},
	}
	for _, c := range cases {
		w := newRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, c.path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", c.path, w.Code)
			continue
		}
		if got := w.Header().Get("X-Upstream"); got != c.want {
			t.Errorf("%s routed to %q, want %q", c.path, got, c.want)
		}
	}
}

func TestProxyUnknownPath(t *testing.T) {
	r := proxyRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProxyUpstreamDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	p, err := New(url, url, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := gin.New()
	r.NoRoute(p.Handle)

	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}
