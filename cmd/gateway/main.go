package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/campushq/platform/config"
	"github.com/campushq/platform/internal/gateway"
	"github.com/campushq/platform/internal/interface/middleware"
	"github.com/campushq/platform/pkg/helpers"
)

// The edge gateway: terminates CORS, authenticates bearer credentials on
// secured routes, stamps the trust secret, and proxies to the services.
func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-gateway", cfg.Env)
	gin.SetMode(cfg.GinMode)

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Everything is secured unless listed here. The websocket endpoint is
	// secured too: the upgrade request must carry a valid bearer token.
	routes := middleware.NewRouteTable(
		"/api/auth/send-otp",
		"/api/auth/signup",
		"/api/auth/login",
		"/api/auth/forgot-password",
		"/api/auth/reset-password",
	)

	proxy, err := gateway.New(cfg.AuthServiceURL, cfg.NotifyServiceURL, logger)
	if err != nil {
		log.Fatalf("invalid upstream url: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestID())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.Use(middleware.GatewayAuth(routes, jwtManager, cfg.GatewaySecret))

	r.NoRoute(proxy.Handle)

	srv := &http.Server{Addr: ":" + cfg.GatewayPort, Handler: r}
	go func() {
		logger.Infof("gateway starting on :%s", cfg.GatewayPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down gateway")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("gateway forced to shutdown: %v", err)
	}
	logger.Info("gateway exited properly")
}
