package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"warehouse-coverage-service/internal/domain"
	"warehouse-coverage-service/internal/platform/obs"
	"warehouse-coverage-service/internal/ports"
)

// Postgres-backed implementation of the NetworkRepository port.
// Semantics match the SQLite twin; only placeholders and conflict
// clauses differ.
type PostgresNetworkRepository struct{ DB *sql.DB }

func NewPostgresNetworkRepository(db *sql.DB) *PostgresNetworkRepository {
	return &PostgresNetworkRepository{DB: db}
}

func (p *PostgresNetworkRepository) Observations(ctx context.Context) (_ []domain.SpeedObservation, err error) {
	defer obs.Time(ctx, "network.store.Observations")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres network repository: DB is nil")
	}

	query := `
	SELECT
		s.region_code,
		r.region_name,
		s.warehouse_id,
		w.warehouse_name,
		s.time_hours
	FROM speeds s
	JOIN regions r ON r.region_code = s.region_code
	JOIN warehouses w ON w.warehouse_id = s.warehouse_id
	ORDER BY s.region_code, s.warehouse_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list observations: query speeds table: %w", err)
	}
	defer rows.Close()

	observations := make([]domain.SpeedObservation, 0, 256)
	for rows.Next() {
		var (
			regionCode, regionName, warehouseID, warehouseName string
			hours                                              sql.NullFloat64
		)
		if err := rows.Scan(&regionCode, &regionName, &warehouseID, &warehouseName, &hours); err != nil {
			return nil, fmt.Errorf("list observations: scan row: %w", err)
		}

		travelTime := domain.Unreachable()
		if hours.Valid {
			travelTime = domain.TravelHours(hours.Float64)
		}

		observations = append(observations, domain.SpeedObservation{
			RegionCode:    regionCode,
			RegionName:    regionName,
			WarehouseID:   warehouseID,
			WarehouseName: warehouseName,
			Time:          travelTime,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list observations: row iteration: %w", err)
	}

	return observations, nil
}

func (p *PostgresNetworkRepository) ActiveIDs(ctx context.Context) (map[string]struct{}, error) {
	if p.DB == nil {
		return nil, errors.New("postgres network repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, `SELECT warehouse_id FROM active_warehouses;`)
	if err != nil {
		return nil, fmt.Errorf("active ids: query active_warehouses table: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("active ids: scan row: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("active ids: row iteration: %w", err)
	}

	return ids, nil
}

func (p *PostgresNetworkRepository) Sales(ctx context.Context) (map[string]float64, error) {
	if p.DB == nil {
		return nil, errors.New("postgres network repository: DB is nil")
	}

	rows, err := p.DB.QueryContext(ctx, `SELECT region_code, orders FROM sales;`)
	if err != nil {
		return nil, fmt.Errorf("sales: query sales table: %w", err)
	}
	defer rows.Close()

	volumes := make(map[string]float64)
	for rows.Next() {
		var regionCode string
		var orders float64
		if err := rows.Scan(&regionCode, &orders); err != nil {
			return nil, fmt.Errorf("sales: scan row: %w", err)
		}
		volumes[regionCode] = orders
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales: row iteration: %w", err)
	}

	return volumes, nil
}

func (p *PostgresNetworkRepository) HasSpeedData(ctx context.Context) (bool, error) {
	if p.DB == nil {
		return false, errors.New("postgres network repository: DB is nil")
	}

	var count int
	if err := p.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM speeds;`).Scan(&count); err != nil {
		return false, fmt.Errorf("has speed data: count speeds: %w", err)
	}
	return count > 0, nil
}

func (p *PostgresNetworkRepository) UpsertSpeeds(ctx context.Context, records []domain.SpeedObservation) (err error) {
	defer obs.Time(ctx, "network.store.UpsertSpeeds")(&err)

	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}

	if len(records) == 0 {
		return nil
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert speeds: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	regionStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO regions (region_code, region_name)
	VALUES ($1, $2)
	ON CONFLICT (region_code) DO UPDATE SET region_name = EXCLUDED.region_name;
	`)
	if err != nil {
		return fmt.Errorf("upsert speeds: prepare regions insert: %w", err)
	}
	defer regionStmt.Close()

	warehouseStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO warehouses (warehouse_id, warehouse_name, aliases_json)
	VALUES ($1, $2, $3)
	ON CONFLICT (warehouse_id) DO UPDATE SET warehouse_name = EXCLUDED.warehouse_name;
	`)
	if err != nil {
		return fmt.Errorf("upsert speeds: prepare warehouses insert: %w", err)
	}
	defer warehouseStmt.Close()

	speedStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO speeds (region_code, warehouse_id, time_hours, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (region_code, warehouse_id) DO UPDATE
	SET time_hours = EXCLUDED.time_hours, updated_at = EXCLUDED.updated_at;
	`)
	if err != nil {
		return fmt.Errorf("upsert speeds: prepare speeds insert: %w", err)
	}
	defer speedStmt.Close()

	updatedAt := time.Now().UTC().Format(time.RFC3339)

	for _, rec := range records {
		if strings.TrimSpace(rec.RegionCode) == "" || strings.TrimSpace(rec.WarehouseID) == "" {
			return errors.New("upsert speeds: empty region code or warehouse id")
		}

		if _, err := regionStmt.ExecContext(ctx, rec.RegionCode, rec.RegionName); err != nil {
			return fmt.Errorf("upsert speeds: region %q: %w", rec.RegionCode, err)
		}

		aliases, err := json.Marshal([]string{rec.WarehouseName})
		if err != nil {
			return fmt.Errorf("upsert speeds: encode aliases for %q: %w", rec.WarehouseID, err)
		}
		if _, err := warehouseStmt.ExecContext(ctx, rec.WarehouseID, rec.WarehouseName, string(aliases)); err != nil {
			return fmt.Errorf("upsert speeds: warehouse %q: %w", rec.WarehouseID, err)
		}

		var hours sql.NullFloat64
		if h, ok := rec.Time.Hours(); ok {
			hours = sql.NullFloat64{Float64: h, Valid: true}
		}
		if _, err := speedStmt.ExecContext(ctx, rec.RegionCode, rec.WarehouseID, hours, updatedAt); err != nil {
			return fmt.Errorf("upsert speeds: speed %q/%q: %w", rec.RegionCode, rec.WarehouseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert speeds: commit tx: %w", err)
	}

	return nil
}

func (p *PostgresNetworkRepository) ReplaceSales(ctx context.Context, volumes []domain.SalesVolume) (err error) {
	defer obs.Time(ctx, "network.store.ReplaceSales")(&err)

	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace sales: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales;`); err != nil {
		return fmt.Errorf("replace sales: clear sales table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sales (region_code, orders) VALUES ($1, $2);`)
	if err != nil {
		return fmt.Errorf("replace sales: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range volumes {
		if strings.TrimSpace(v.RegionCode) == "" {
			return errors.New("replace sales: empty region code")
		}
		if _, err := stmt.ExecContext(ctx, v.RegionCode, v.Orders); err != nil {
			return fmt.Errorf("replace sales: insert region %q: %w", v.RegionCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace sales: commit tx: %w", err)
	}

	return nil
}

func (p *PostgresNetworkRepository) ListWarehouses(ctx context.Context) ([]ports.WarehouseStatus, error) {
	if p.DB == nil {
		return nil, errors.New("postgres network repository: DB is nil")
	}

	query := `
	SELECT
		w.warehouse_id,
		w.warehouse_name,
		CASE WHEN aw.warehouse_id IS NULL THEN 0 ELSE 1 END AS active
	FROM warehouses w
	LEFT JOIN active_warehouses aw ON aw.warehouse_id = w.warehouse_id
	ORDER BY w.warehouse_name, w.warehouse_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: query warehouses table: %w", err)
	}
	defer rows.Close()

	warehouses := make([]ports.WarehouseStatus, 0, 32)
	for rows.Next() {
		var status ports.WarehouseStatus
		var active int
		if err := rows.Scan(&status.WarehouseID, &status.WarehouseName, &active); err != nil {
			return nil, fmt.Errorf("list warehouses: scan row: %w", err)
		}
		status.Active = active != 0
		warehouses = append(warehouses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list warehouses: row iteration: %w", err)
	}

	return warehouses, nil
}

func (p *PostgresNetworkRepository) SetActive(ctx context.Context, ids []string) error {
	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set active: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM active_warehouses;`); err != nil {
		return fmt.Errorf("set active: clear active_warehouses table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO active_warehouses (warehouse_id)
	VALUES ($1)
	ON CONFLICT (warehouse_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("set active: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return errors.New("set active: empty warehouse id")
		}
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("set active: insert warehouse %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set active: commit tx: %w", err)
	}

	return nil
}

func (p *PostgresNetworkRepository) AddActive(ctx context.Context, id string) error {
	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("add active: empty warehouse id")
	}

	query := `
	INSERT INTO active_warehouses (warehouse_id)
	VALUES ($1)
	ON CONFLICT (warehouse_id) DO NOTHING;
	`
	if _, err := p.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("add active: insert warehouse %q: %w", id, err)
	}
	return nil
}

func (p *PostgresNetworkRepository) RemoveActive(ctx context.Context, id string) error {
	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("remove active: empty warehouse id")
	}

	if _, err := p.DB.ExecContext(ctx, `DELETE FROM active_warehouses WHERE warehouse_id = $1;`, id); err != nil {
		return fmt.Errorf("remove active: delete warehouse %q: %w", id, err)
	}
	return nil
}

func (p *PostgresNetworkRepository) RecordUpload(ctx context.Context, rec ports.UploadRecord) error {
	if p.DB == nil {
		return errors.New("postgres network repository: DB is nil")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record upload: empty upload id")
	}

	uploadedBy := sql.NullString{String: rec.UploadedBy, Valid: rec.UploadedBy != ""}

	query := `
	INSERT INTO uploads (upload_id, kind, filename, uploaded_by, uploaded_at)
	VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := p.DB.ExecContext(ctx, query, rec.ID, rec.Kind, rec.Filename, uploadedBy, rec.UploadedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record upload: insert %q: %w", rec.Filename, err)
	}
	return nil
}
