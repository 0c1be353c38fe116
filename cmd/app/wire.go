//go:build wireinject
// +build wireinject

package main

import (
	"botwatch/config"
	"botwatch/internal/command"
	"botwatch/internal/cron"
	"botwatch/internal/database"
	"botwatch/internal/handler"
	"botwatch/internal/middleware"
	"botwatch/internal/router"
	"botwatch/internal/service"
	"botwatch/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			telemetry.ProviderSet,
			command.ProviderSet,
		),
	)
}
