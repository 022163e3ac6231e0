package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/platform/internal/container"
	handlers "github.com/campushq/platform/internal/interface/http"
	"github.com/campushq/platform/internal/interface/middleware"
)

// NotificationModule wires the notification HTTP handlers into routes.
// Every route requires a propagated identity; records are always scoped
// to the caller's own user id.

type NotificationModule struct {
	Handler *handlers.NotificationHandler
}

func NewNotificationModule(h *handlers.NotificationHandler) *NotificationModule {
	return &NotificationModule{Handler: h}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Identity(), middleware.RequireIdentity())
	// Campus-internal clients poll aggressively; skip the limiter for them
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.GET("/notifications", m.Handler.List)
		auth.GET("/notifications/search", m.Handler.Search)
		auth.PATCH("/notifications/:id/read", m.Handler.MarkRead)
		auth.PATCH("/notifications/read-all", m.Handler.MarkAllRead)
	}
}
