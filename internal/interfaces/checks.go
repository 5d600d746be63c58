package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/mrlokans/mapharvest/internal/arcgis"
	"github.com/mrlokans/mapharvest/internal/database"
	"github.com/mrlokans/mapharvest/internal/database/documents"
	"github.com/mrlokans/mapharvest/internal/database/harvests"
	"github.com/mrlokans/mapharvest/internal/etl"
	"github.com/mrlokans/mapharvest/internal/harvester"
	"github.com/mrlokans/mapharvest/internal/http"
	"github.com/mrlokans/mapharvest/internal/sink"
	"github.com/mrlokans/mapharvest/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ harvester.StateStore = (*harvests.Repository)(nil)
var _ http.StateReader = (*harvests.Repository)(nil)

var _ sink.DocumentStore = (*documents.Repository)(nil)
var _ http.DocumentReader = (*documents.Repository)(nil)

var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Portal API
// =============================================================================

var _ etl.Source = (*arcgis.Client)(nil)
var _ harvester.PortalClient = (*arcgis.Client)(nil)

// =============================================================================
// Sinks
// =============================================================================

var _ sink.Sink = (*sink.DatabaseSink)(nil)
var _ sink.Sink = (*sink.OpenSearchSink)(nil)
var _ sink.Sink = (*sink.SQSSink)(nil)
var _ sink.Sink = sink.Multi(nil)
var _ sink.SQSAPI = (*sqs.Client)(nil)

// =============================================================================
// Harvest Execution
// =============================================================================

var _ tasks.Runner = (*harvester.Harvester)(nil)
var _ http.ETLRegistry = (*harvester.Harvester)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
