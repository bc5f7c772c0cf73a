package main

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtrackhq/subtrack/internal/app"
	"github.com/subtrackhq/subtrack/internal/app/worker"
)

// The worker process runs the daily ledger rollover on a fixed-timezone
// schedule. It shares the store with the API process but serves no HTTP.
func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	a := fx.New(
		app.WorkerModule,
		worker.Module,
	)
	startCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		zap.NewExample().Sugar().Errorf("failed to start worker: %v", err)
		exitCode = 1
		return
	}

	<-a.Done()

	stopCtx, cancel2 := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer cancel2()
	if err := a.Stop(stopCtx); err != nil {
		zap.NewExample().Sugar().Errorf("failed to stop worker: %v", err)
		exitCode = 1
		return
	}
}
