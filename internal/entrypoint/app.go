package entrypoint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/config"
	"github.com/mrlokans/mapharvest/internal/database"
	"github.com/mrlokans/mapharvest/internal/database/documents"
	"github.com/mrlokans/mapharvest/internal/database/harvests"
	"github.com/mrlokans/mapharvest/internal/harvester"
	"github.com/mrlokans/mapharvest/internal/sink"
)

// PortalClientFactory creates the API client of one portal.
type PortalClientFactory func(baseURL string) harvester.PortalClient

// App holds the components shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Database  *database.Database
	States    *harvests.Repository
	Documents *documents.Repository
	Harvester *harvester.Harvester
	Portals   []harvester.Portal

	newClient PortalClientFactory
}

// NewApp opens the database and builds the configured sinks. ETLs are
// registered by Discover.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	portals, err := harvester.ParsePortals(cfg.ArcGIS.Portals)
	if err != nil {
		return nil, err
	}

	dsn := cfg.Database.Path
	if cfg.Database.Driver == database.DriverPostgres {
		dsn = cfg.Database.DSN
	}
	db, err := database.NewDatabase(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Database:  db,
		States:    harvests.NewRepository(db.DB),
		Documents: documents.NewRepository(db.DB),
		Portals:   portals,
		newClient: func(baseURL string) harvester.PortalClient {
			return arcgis.NewClient(baseURL, arcgis.Options{
				Timeout:           cfg.ArcGIS.RequestTimeout,
				RequestsPerSecond: cfg.ArcGIS.RequestsPerSecond,
				UserAgent:         cfg.ArcGIS.UserAgent,
			})
		},
	}

	if n, err := app.States.FailStale(); err != nil {
		slog.Warn("Harvest: failed to check for interrupted runs", "error", err)
	} else if n > 0 {
		slog.Warn("Harvest: interrupted runs marked failed", "count", n)
	}

	out, err := BuildSink(ctx, cfg.Sinks, app.Documents)
	if err != nil {
		db.Close()
		return nil, err
	}
	app.Harvester = harvester.New(app.States, out)
	return app, nil
}

// BuildSink combines every enabled sink.
func BuildSink(ctx context.Context, cfg config.Sinks, store sink.DocumentStore) (sink.Multi, error) {
	var sinks sink.Multi

	if cfg.DatabaseEnabled {
		sinks = append(sinks, sink.NewDatabaseSink(store))
	}

	if len(cfg.OpenSearchAddresses) > 0 {
		client, err := sink.NewOpenSearchClient(cfg.OpenSearchAddresses, cfg.OpenSearchUsername, cfg.OpenSearchPassword)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink.NewOpenSearchSink(client, cfg.OpenSearchIndex))
		slog.Info("Sinks: OpenSearch enabled", "index", cfg.OpenSearchIndex)
	}

	if cfg.SQSQueueURL != "" {
		client, err := sink.NewSQSClient(ctx, sink.SQSOptions{
			Region:          cfg.SQSRegion,
			Endpoint:        cfg.SQSEndpoint,
			AccessKeyID:     cfg.SQSAccessKeyID,
			SecretAccessKey: cfg.SQSSecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink.NewSQSSink(client, cfg.SQSQueueURL))
		slog.Info("Sinks: SQS enabled", "queue", cfg.SQSQueueURL)
	}

	if len(sinks) == 0 {
		slog.Warn("Sinks: none enabled, harvested documents will be discarded")
	}
	return sinks, nil
}

// Discover registers one ETL per featured group of every portal, replacing
// the ETLs of groups the portal no longer lists. A portal that cannot be
// reached is logged and keeps its ETLs. Returns the number of ETLs registered.
func (a *App) Discover(ctx context.Context) (int, error) {
	var registered, failed int
	for _, portal := range a.Portals {
		etls, err := harvester.Discover(ctx, portal, a.newClient(portal.BaseURL))
		if err != nil {
			failed++
			slog.Error("Discovery: portal failed", "portal", portal.BaseURL, "error", err)
			continue
		}
		for _, name := range a.Harvester.ReplacePortal(portal.BaseURL, etls...) {
			slog.Info("Discovery: group no longer listed, ETL removed", "portal", portal.BaseURL, "etl", name)
		}
		registered += len(etls)
	}
	if failed == len(a.Portals) && failed > 0 {
		return 0, fmt.Errorf("failed to discover groups on all %d portals", failed)
	}
	return registered, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.Database.Close()
}
