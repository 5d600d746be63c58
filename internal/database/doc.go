// Package database provides the data access layer for harvest bookkeeping.
//
// The connection and migrations live here; each domain has its own
// sub-package with a Repository:
//
//	database/
//	├── database.go   # Connection setup (sqlite or postgres), migrations
//	├── harvests/     # Per-ETL harvest state and version fingerprints
//	└── documents/    # Harvested documents keyed by identifier
//
// Usage:
//
//	db, err := database.NewDatabase(database.DriverSQLite, "./mapharvest.db")
//	states := harvests.NewRepository(db.DB)
//	docs := documents.NewRepository(db.DB)
package database
