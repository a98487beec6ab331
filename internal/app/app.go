package app

import (
	"context"
	"net/http"

	"ghibli-service/internal/config"
	"ghibli-service/internal/coordinator"
)

type App struct {
	httpServer  *http.Server
	coordinator *coordinator.Coordinator
	cleanup     func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, coord, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	return &App{
		httpServer:  server,
		coordinator: coord,
		cleanup:     cleanup,
	}, nil
}

func (a *App) Run() error {
	a.coordinator.Init(context.Background())
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	a.coordinator.Close()
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
