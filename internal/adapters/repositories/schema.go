package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"warehouse-coverage-service/internal/domain"
	"warehouse-coverage-service/internal/ports"
)

// Initialize the network database schema.
// The statements are portable between SQLite and Postgres, so the same
// init path serves both backends.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRegionsQuery := `
	CREATE TABLE IF NOT EXISTS regions (
		region_code TEXT PRIMARY KEY,
		region_name TEXT NOT NULL
	);
	`

	createWarehousesQuery := `
	CREATE TABLE IF NOT EXISTS warehouses (
		warehouse_id TEXT PRIMARY KEY,
		warehouse_name TEXT NOT NULL,
		aliases_json TEXT NOT NULL DEFAULT '[]'
	);
	`

	createSpeedsQuery := `
	CREATE TABLE IF NOT EXISTS speeds (
		region_code TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		time_hours REAL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (region_code, warehouse_id),
		FOREIGN KEY (region_code) REFERENCES regions(region_code),
		FOREIGN KEY (warehouse_id) REFERENCES warehouses(warehouse_id)
	);
	`

	// Sales may reference regions that have no speed data yet (volumes
	// arrive from a separate commercial export), so no foreign key here.
	createSalesQuery := `
	CREATE TABLE IF NOT EXISTS sales (
		region_code TEXT PRIMARY KEY,
		orders REAL NOT NULL
	);
	`

	createActiveQuery := `
	CREATE TABLE IF NOT EXISTS active_warehouses (
		warehouse_id TEXT PRIMARY KEY,
		FOREIGN KEY (warehouse_id) REFERENCES warehouses(warehouse_id)
	);
	`

	createUploadsQuery := `
	CREATE TABLE IF NOT EXISTS uploads (
		upload_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		filename TEXT NOT NULL,
		uploaded_by TEXT,
		uploaded_at TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_speeds_warehouse
	ON speeds(warehouse_id);
	`

	statements := []string{
		createRegionsQuery,
		createWarehousesQuery,
		createSpeedsQuery,
		createSalesQuery,
		createActiveQuery,
		createUploadsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type SpeedSeed struct {
	RegionCode    string   `json:"region_code"`
	RegionName    string   `json:"region_name"`
	WarehouseID   string   `json:"warehouse_id"`
	WarehouseName string   `json:"warehouse_name"`
	TimeHours     *float64 `json:"time_hours"`
}

type SalesSeed struct {
	RegionCode string  `json:"region_code"`
	Orders     float64 `json:"orders"`
}

type NetworkSeed struct {
	Speeds []SpeedSeed `json:"speeds"`
	Sales  []SalesSeed `json:"sales"`
	Active []string    `json:"active"`
}

// Populate the database with demo network data from a JSON file.
// Speeds are upserted and active ids added idempotently, so repeated
// startups converge instead of duplicating.
func SeedFromJSON(ctx context.Context, repo ports.NetworkRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed network: read %q: %w", jsonPath, err)
	}

	var seed NetworkSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed network: parse json: %w", err)
	}

	observations := make([]domain.SpeedObservation, 0, len(seed.Speeds))
	for i, item := range seed.Speeds {
		regionCode := strings.TrimSpace(item.RegionCode)
		if regionCode == "" {
			return fmt.Errorf("seed network: speeds item %d: region_code cannot be empty", i+1)
		}

		warehouseID := strings.TrimSpace(item.WarehouseID)
		if warehouseID == "" {
			return fmt.Errorf("seed network: speeds item %d: warehouse_id cannot be empty", i+1)
		}

		travelTime := domain.Unreachable()
		if item.TimeHours != nil {
			if *item.TimeHours <= 0 {
				return fmt.Errorf("seed network: speeds item %d: time_hours must be positive, got %v", i+1, *item.TimeHours)
			}
			travelTime = domain.TravelHours(*item.TimeHours)
		}

		observations = append(observations, domain.SpeedObservation{
			RegionCode:    regionCode,
			RegionName:    strings.TrimSpace(item.RegionName),
			WarehouseID:   warehouseID,
			WarehouseName: strings.TrimSpace(item.WarehouseName),
			Time:          travelTime,
		})
	}

	volumes := make([]domain.SalesVolume, 0, len(seed.Sales))
	for i, item := range seed.Sales {
		regionCode := strings.TrimSpace(item.RegionCode)
		if regionCode == "" {
			return fmt.Errorf("seed network: sales item %d: region_code cannot be empty", i+1)
		}
		if item.Orders < 0 {
			return fmt.Errorf("seed network: sales item %d: orders cannot be negative, got %v", i+1, item.Orders)
		}
		volumes = append(volumes, domain.SalesVolume{RegionCode: regionCode, Orders: item.Orders})
	}

	if len(observations) > 0 {
		if err := repo.UpsertSpeeds(ctx, observations); err != nil {
			return fmt.Errorf("seed network: upsert speeds: %w", err)
		}
	}

	if len(volumes) > 0 {
		if err := repo.ReplaceSales(ctx, volumes); err != nil {
			return fmt.Errorf("seed network: replace sales: %w", err)
		}
	}

	for _, id := range seed.Active {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := repo.AddActive(ctx, id); err != nil {
			return fmt.Errorf("seed network: activate warehouse %q: %w", id, err)
		}
	}

	return nil
}
