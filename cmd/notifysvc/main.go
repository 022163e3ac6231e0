package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/campushq/platform/config"
	"github.com/campushq/platform/internal/container"
	"github.com/campushq/platform/internal/event"
	pginfra "github.com/campushq/platform/internal/infrastructure/postgres"
	"github.com/campushq/platform/internal/interface/middleware"
	"github.com/campushq/platform/internal/notification"
	"github.com/campushq/platform/internal/realtime"
	"github.com/campushq/platform/internal/router"
	"github.com/campushq/platform/pkg/helpers"
	"github.com/campushq/platform/pkg/mailer"
)

// The notification service: consumes the event stream, fans out to the
// email and in-app channels, serves the notification REST API and the
// real-time websocket endpoint.
func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	broker, err := helpers.NewRabbitBroker(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer broker.Close()

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.ESAddrs(),
		Username:  cfg.ElasticsearchUser,
		Password:  cfg.ElasticsearchPass,
	})
	if err != nil {
		// Search degrades gracefully; everything else keeps working.
		logger.WithError(err).Warn("elasticsearch unavailable, search disabled")
		esClient = nil
	}

	hub := realtime.NewHub(logger)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetBroker(broker)
	container.SetES(esClient)
	container.SetHub(hub)

	// Consumer pipeline
	notifRepo := pginfra.NewNotificationRepository(pool)
	indexer := notification.NewIndexer(esClient, cfg.ESNotifyIndex, logger)

	var sender notification.EmailSender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	if !cfg.MailSendEnabled || cfg.MailgunAPIKey == "" {
		sender = logOnlySender{logger}
	}
	container.SetMailgun(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender))

	emailCh := notification.NewEmailChannel(sender)
	inappCh := notification.NewInAppChannel(notifRepo, hub, indexer)
	disp := notification.NewRouter(emailCh, inappCh, logger)

	msgs, err := broker.Consume(cfg.RabbitMQQueue, event.TopicUser, event.TopicSystem)
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}
	go disp.Run(ctx, msgs)

	// HTTP surface
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestID())
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	reg.Use(middleware.SecretGuard(cfg.GatewaySecret, logger))
	router.InitNotifyModules(reg)
	reg.RegisterAll()

	// Websocket endpoint; gateway stamps the secret on the upgrade request
	r.GET("/ws/notifications", middleware.SecretGuard(cfg.GatewaySecret, logger), gin.WrapH(hub.Handler()))

	srv := &http.Server{Addr: ":" + cfg.NotifyPort, Handler: r}
	go func() {
		logger.Infof("notification service starting on :%s", cfg.NotifyPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down notification service")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("notification service forced to shutdown: %v", err)
	}
	logger.Info("notification service exited properly")
}

// logOnlySender stands in for the mail transport when sending is
// disabled or unconfigured.
type logOnlySender struct {
	logger *logrus.Logger
}

func (s logOnlySender) Send(_ context.Context, to, subject, _, _ string) error {
	s.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sending disabled, dropped")
	return nil
}
