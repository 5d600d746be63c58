// Package interfaces documents the extension points of the harvester.
//
// # Interface Categories
//
// ## Portal Access
//
//   - etl.Source: search, user and group lookups used by one ETL (internal/etl/cursor.go)
//   - harvester.PortalClient: Source plus the portal overview used for discovery
//     (internal/harvester/discovery.go)
//
// ## Persistence
//
//   - harvester.StateStore: harvest state and last version (internal/harvester/harvester.go)
//   - sink.DocumentStore: document upserts (internal/sink/database.go)
//   - http.StateReader, http.DocumentReader: read side of the API (internal/http/stores.go)
//
// ## Delivery
//
//   - sink.Sink: receives every harvested document (internal/sink/sink.go)
//
// # Adding a New Sink
//
//  1. Implement Sink in internal/sink/
//
//     type WebhookSink struct {
//         client *resty.Client
//         url    string
//     }
//
//     func (s *WebhookSink) Put(ctx context.Context, etlName, version string, doc *datacite.Document) error
//
//  2. Add its settings to config.Sinks and build it in entrypoint.BuildSink
//
//  3. Add a compile-time check to checks.go:
//
//     var _ sink.Sink = (*sink.WebhookSink)(nil)
//
// # Adding a New Portal
//
// Portals need no code: list them in ARCGIS_PORTALS as "baseURL=suffix" pairs.
// Every featured group of the portal becomes one ETL named after the group
// title plus the suffix.
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
