package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/jobboard/internal/api"
	"github.com/AlibekovAA/jobboard/internal/common/bootstrap"
	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	srv "github.com/AlibekovAA/jobboard/internal/common/server"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start jobboard: %v\n", err)
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	writeLimiter := commonhttp.NewRateLimiter(cfg.RateLimitWriteRPS, cfg.RateLimitWriteBurst)

	handler := api.NewHandler(api.Deps{
		Log:            log,
		SignInURL:      cfg.SignInURL,
		RequestTimeout: cfg.RequestTimeout,
		Provider:       app.Provider,
		Users:          app.UserService,
		Jobs:           app.JobService,
		Applications:   app.ApplicationService,
		Dashboard:      app.DashboardService,
		WriteLimiter:   writeLimiter,
	})

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)

	shutdownHooks := []srv.ShutdownHook{
		func(context.Context) error {
			writeLimiter.Stop()
			return nil
		},
		app.Close,
	}

	if err := srv.Run(server, log, "jobboard", shutdownHooks...); err != nil {
		_ = app.Close(ctx)
		os.Exit(1)
	}
}
