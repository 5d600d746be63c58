package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mapharvest/internal/auth"
	"github.com/mrlokans/mapharvest/internal/config"
	httpcontrollers "github.com/mrlokans/mapharvest/internal/http"
	"github.com/mrlokans/mapharvest/internal/scheduler"
	"github.com/mrlokans/mapharvest/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("Server: shutting down", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so running harvests can record their state
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("Server: exiting")
	return nil
}

// Run wires every component and serves the control API.
func Run(cfg *config.Config, version string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if n, err := app.Discover(ctx); err != nil {
		slog.Warn("Discovery: no portal reachable, starting without ETLs", "error", err)
	} else {
		slog.Info("Discovery: ETLs registered", "count", n)
	}

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}
		tasks.Configure(taskCfg)
		taskClient, err = tasks.NewClient(cfg.Tasks.DatabasePath, taskCfg)
		if err != nil {
			return err
		}
		defer taskClient.Close()

		taskClient.Register(
			tasks.NewHarvestETLQueue(app.Harvester),
			tasks.NewHarvestAllQueue(app.Harvester),
		)
		go taskClient.Start(ctx)
	}

	var harvestScheduler *scheduler.HarvestScheduler
	if cfg.Harvest.Enabled {
		harvestScheduler = scheduler.NewHarvestScheduler(cfg.Harvest.Schedule, cfg.Harvest.Force, harvestTrigger(app, taskClient))
		if err := harvestScheduler.Start(ctx); err != nil {
			return err
		}
	} else {
		slog.Info("Scheduler: disabled")
	}

	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	if cfg.Auth.AdminPasswordHash == "" {
		slog.Warn("Auth: ADMIN_PASSWORD_HASH not set, harvest triggers are unauthenticated")
	}

	routerCfg := httpcontrollers.RouterConfig{
		Database:    app.Database,
		Registry:    app.Harvester,
		States:      app.States,
		Documents:   app.Documents,
		Auth:        cfg.Auth,
		RateLimiter: limiter,
		Version:     version,
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}
	router := httpcontrollers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if harvestScheduler != nil {
			harvestScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	}

	return Serve(router, cfg, onShutdown)
}

// harvestTrigger refreshes the ETL list and queues a full harvest, or runs
// it inline when the task queue is disabled.
func harvestTrigger(app *App, taskClient *tasks.Client) scheduler.Trigger {
	return func(ctx context.Context, force bool) error {
		if _, err := app.Discover(ctx); err != nil {
			slog.Warn("Discovery: refresh failed, using known ETLs", "error", err)
		}

		if taskClient == nil {
			_, err := app.Harvester.RunAll(ctx, force)
			return err
		}

		id, err := taskClient.Enqueue(tasks.HarvestAllTask{Force: force})
		if err != nil {
			return fmt.Errorf("failed to enqueue harvest: %w", err)
		}
		slog.Info("Scheduler: harvest enqueued", "task_id", id)
		return nil
	}
}
