package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subtrackhq/subtrack/internal/app/api/server"
	"github.com/subtrackhq/subtrack/internal/app/service/analytics"
	"github.com/subtrackhq/subtrack/internal/app/service/rollover"
	"github.com/subtrackhq/subtrack/internal/app/service/subscription"
	"github.com/subtrackhq/subtrack/internal/platform/cache"
	"github.com/subtrackhq/subtrack/internal/platform/clock"
	"github.com/subtrackhq/subtrack/internal/platform/db"
	"github.com/subtrackhq/subtrack/pkg/config"
	"github.com/subtrackhq/subtrack/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Module wires the API process: platform pieces plus every domain service
// and the HTTP server.
var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	clock.Module,
	server.Module,
	subscription.Module,
	rollover.Module,
	analytics.Module,
)

// WorkerModule wires the scheduled rollover process. No server, no cache:
// the worker only needs the store, the clock and the rollover service.
var WorkerModule = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	clock.Module,
	rollover.Module,
)
