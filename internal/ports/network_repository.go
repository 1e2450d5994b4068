package ports

import (
	"context"
	"time"
	"warehouse-coverage-service/internal/domain"
)

// SnapshotSource is the read-side boundary the coverage engine pulls its
// input snapshot from. The engine never writes back through it.
type SnapshotSource interface {
	// Observations returns the full current speed-observation table.
	Observations(ctx context.Context) ([]domain.SpeedObservation, error)
	// ActiveIDs returns the ids of warehouses currently considered operational.
	ActiveIDs(ctx context.Context) (map[string]struct{}, error)
	// Sales returns per-region order volumes keyed by region code.
	Sales(ctx context.Context) (map[string]float64, error)
	// HasSpeedData reports whether any speed observations are stored.
	HasSpeedData(ctx context.Context) (bool, error)
}

// WarehouseStatus pairs a warehouse with its activation flag for listings.
type WarehouseStatus struct {
	WarehouseID   string
	WarehouseName string
	Active        bool
}

// UploadRecord is the audit row kept for every accepted file upload.
type UploadRecord struct {
	ID         string
	Kind       string
	Filename   string
	UploadedBy string
	UploadedAt time.Time
}

// NetworkRepository is the full storage boundary for the warehouse network.
type NetworkRepository interface {
	SnapshotSource

	// UpsertSpeeds inserts or refreshes regions, warehouses and their
	// delivery times from a validated upload.
	UpsertSpeeds(ctx context.Context, records []domain.SpeedObservation) error
	// ReplaceSales swaps the whole sales table for the uploaded volumes.
	ReplaceSales(ctx context.Context, volumes []domain.SalesVolume) error

	// ListWarehouses returns all known warehouses ordered by name.
	ListWarehouses(ctx context.Context) ([]WarehouseStatus, error)
	// SetActive replaces the active set with the given ids.
	SetActive(ctx context.Context, ids []string) error
	// AddActive marks one warehouse as active; a no-op if it already is.
	AddActive(ctx context.Context, id string) error
	// RemoveActive clears one warehouse's active flag.
	RemoveActive(ctx context.Context, id string) error

	// RecordUpload stores the audit entry for an accepted upload.
	RecordUpload(ctx context.Context, rec UploadRecord) error
}
