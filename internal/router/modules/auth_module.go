package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/platform/internal/container"
	handlers "github.com/campushq/platform/internal/interface/http"
	"github.com/campushq/platform/internal/interface/middleware"
)

// AuthModule wires the auth HTTP handlers into routes.
// Public: send-otp, signup, login, forgot-password, reset-password
// Secured (identity propagated by the gateway): change-password
// Internal (gateway secret only, used by admin tooling): update-status, create-admin

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	otpLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/send-otp", otpLimiter, m.Handler.SendOTP)
	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", resetLimiter, m.Handler.ResetPassword)

	// Secured endpoints trust the identity headers stamped by the gateway
	auth := rg.Group("/")
	auth.Use(middleware.Identity(), middleware.RequireIdentity())
	auth.Use(middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/change-password", m.Handler.ChangePassword)
	}

	// Internal endpoints: the service-wide secret guard is the gate here,
	// only the gateway and trusted admin tooling hold the secret
	rg.PUT("/auth/internal/update-status", m.Handler.UpdateStatus)
	rg.POST("/auth/internal/create-admin", m.Handler.CreateAdmin)
}
