package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Proxy forwards requests to the downstream services by path prefix.
// Auth traffic goes to the auth service; notification REST and the
// websocket endpoint go to the notification service. ReverseProxy
// passes websocket upgrades through unchanged.
type Proxy struct {
	auth   *httputil.ReverseProxy
	notify *httputil.ReverseProxy
	logger *logrus.Logger
}

func New(authURL, notifyURL string, logger *logrus.Logger) (*Proxy, error) {
	authTarget, err := url.Parse(authURL)
	if err != nil {
		return nil, err
	}
	notifyTarget, err := url.Parse(notifyURL)
	if err != nil {
		return nil, err
	}
	p := &Proxy{
		auth:   httputil.NewSingleHostReverseProxy(authTarget),
		notify: httputil.NewSingleHostReverseProxy(notifyTarget),
		logger: logger,
	}
	p.auth.ErrorHandler = p.upstreamError("auth")
	p.notify.ErrorHandler = p.upstreamError("notify")
	return p, nil
}

func (p *Proxy) upstreamError(name string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		if p.logger != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"upstream": name,
				"path":     r.URL.Path,
			}).Error("upstream request failed")
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream unavailable"}`))
	}
}

// Handle routes the request to the owning service. Unmatched paths get
// a plain 404 without touching any upstream.
func (p *Proxy) Handle(c *gin.Context) {
	path := c.Request.URL.Path
	switch {
	case strings.HasPrefix(path, "/api/auth"):
		p.auth.ServeHTTP(c.Writer, c.Request)
	case strings.HasPrefix(path, "/api/notifications"), strings.HasPrefix(path, "/ws"):
		p.notify.ServeHTTP(c.Writer, c.Request)
	default:
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	}
}
