package router

import (
	app "github.com/campushq/platform/internal/application"
	"github.com/campushq/platform/internal/container"
	pginfra "github.com/campushq/platform/internal/infrastructure/postgres"
	handlers "github.com/campushq/platform/internal/interface/http"
	"github.com/campushq/platform/internal/notification"
	"github.com/campushq/platform/internal/router/modules"
)

func buildAuthHandler() *handlers.AuthHandler {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	otp := app.NewOTPStore(container.GetRedis(), container.GetConfig().OTPTTL)

	service := app.NewService(
		repo,
		otp,
		container.GetJWT(),
		container.GetLogger(),
	)

	return handlers.NewAuthHandler(service, container.GetPublisher(), container.GetLogger())
}

func buildNotificationHandler() *handlers.NotificationHandler {
	repo := pginfra.NewNotificationRepository(container.GetPGPool())

	indexer := notification.NewIndexer(
		container.GetES(),
		container.GetConfig().ESNotifyIndex,
		container.GetLogger(),
	)

	return handlers.NewNotificationHandler(repo, indexer, container.GetLogger())
}

// InitAuthModules wires the auth service modules. Called once at startup.
func InitAuthModules(r *Registry) {
	r.Add(modules.NewAuthModule(buildAuthHandler()))
}

// InitNotifyModules wires the notification service modules. Called once at startup.
func InitNotifyModules(r *Registry) {
	r.Add(modules.NewNotificationModule(buildNotificationHandler()))
}
