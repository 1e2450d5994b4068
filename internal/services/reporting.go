package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"warehouse-coverage-service/internal/domain"
	"warehouse-coverage-service/internal/ports"
)

// ErrNoSpeedData signals that a report was requested before any speed
// observations were uploaded.
var ErrNoSpeedData = errors.New("no speed data uploaded")

// ErrNotCandidate signals that the requested warehouse is unknown to the
// network or already active, so there is nothing to simulate.
var ErrNotCandidate = errors.New("warehouse is not an inactive candidate")

type snapshot struct {
	observations []domain.SpeedObservation
	activeIDs    map[string]struct{}
	sales        map[string]float64
}

// loadSnapshot reads one self-consistent engine input from storage.
func loadSnapshot(ctx context.Context, src ports.SnapshotSource) (*snapshot, error) {
	hasData, err := src.HasSpeedData(ctx)
	if err != nil {
		return nil, fmt.Errorf("check speed data: %w", err)
	}
	if !hasData {
		return nil, ErrNoSpeedData
	}

	observations, err := src.Observations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	activeIDs, err := src.ActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active ids: %w", err)
	}

	sales, err := src.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	return &snapshot{observations: observations, activeIDs: activeIDs, sales: sales}, nil
}

// NetworkReport builds a fresh view of the current network state.
// It returns the view plus the active warehouse ids in ascending order.
func NetworkReport(ctx context.Context, src ports.SnapshotSource) (*domain.NetworkView, []string, error) {
	snap, err := loadSnapshot(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("network report: %w", err)
	}

	active := make([]string, 0, len(snap.activeIDs))
	for id := range snap.activeIDs {
		active = append(active, id)
	}
	slices.Sort(active)

	return BuildView(snap.observations, snap.activeIDs, snap.sales), active, nil
}

// RecommendNext rebuilds the view from the current snapshot and ranks the
// top n inactive warehouses by marginal gain.
func RecommendNext(ctx context.Context, src ports.SnapshotSource, topN int) (*domain.NetworkView, []domain.Recommendation, error) {
	snap, err := loadSnapshot(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("recommend next: %w", err)
	}

	view := BuildView(snap.observations, snap.activeIDs, snap.sales)
	return view, Recommend(view, snap.activeIDs, topN), nil
}

// SimulateActivation scores activating one specific inactive warehouse.
func SimulateActivation(ctx context.Context, src ports.SnapshotSource, warehouseID string) (*domain.Recommendation, error) {
	snap, err := loadSnapshot(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("simulate activation: %w", err)
	}

	view := BuildView(snap.observations, snap.activeIDs, snap.sales)
	for _, rec := range Recommend(view, snap.activeIDs, len(view.BestByWarehouse)) {
		if rec.WarehouseID == warehouseID {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("simulate activation: warehouse %q: %w", warehouseID, ErrNotCandidate)
}
