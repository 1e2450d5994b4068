package services

import (
	"context"
	"errors"
	"testing"
	"warehouse-coverage-service/internal/domain"

	"github.com/stretchr/testify/require"
)

type stubSnapshotSource struct {
	observations []domain.SpeedObservation
	activeIDs    map[string]struct{}
	sales        map[string]float64
	hasData      bool
	err          error
}

func (s *stubSnapshotSource) Observations(ctx context.Context) ([]domain.SpeedObservation, error) {
	return s.observations, s.err
}

func (s *stubSnapshotSource) ActiveIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.activeIDs, s.err
}

func (s *stubSnapshotSource) Sales(ctx context.Context) (map[string]float64, error) {
	return s.sales, s.err
}

func (s *stubSnapshotSource) HasSpeedData(ctx context.Context) (bool, error) {
	return s.hasData, s.err
}

func TestNetworkReport(t *testing.T) {
	src := &stubSnapshotSource{
		observations: []domain.SpeedObservation{
			speedObs("msk", "wh-1", domain.TravelHours(10)),
			speedObs("spb", "wh-2", domain.TravelHours(5)),
		},
		activeIDs: activeSet("wh-2", "wh-1"),
		hasData:   true,
	}

	view, active, err := NetworkReport(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, []string{"wh-1", "wh-2"}, active)
	require.InDelta(t, 100.0, view.Coverage, 1e-9)
}

func TestNetworkReportWithoutSpeedData(t *testing.T) {
	_, _, err := NetworkReport(context.Background(), &stubSnapshotSource{hasData: false})
	require.ErrorIs(t, err, ErrNoSpeedData)
}

func TestNetworkReportPropagatesStorageErrors(t *testing.T) {
	storageErr := errors.New("connection reset")
	_, _, err := NetworkReport(context.Background(), &stubSnapshotSource{hasData: true, err: storageErr})
	require.ErrorIs(t, err, storageErr)
}

func TestRecommendNextReturnsViewAndRanking(t *testing.T) {
	src := &stubSnapshotSource{
		observations: []domain.SpeedObservation{
			speedObs("msk", "wh-1", domain.TravelHours(10)),
			speedObs("msk", "wh-2", domain.TravelHours(5)),
			speedObs("msk", "wh-3", domain.TravelHours(4)),
		},
		activeIDs: activeSet("wh-1"),
		hasData:   true,
	}

	view, recs, err := RecommendNext(context.Background(), src, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.1, view.GlobalCurrent, 1e-12)
	require.Len(t, recs, 1)
	require.Equal(t, "wh-3", recs[0].WarehouseID)
}

func TestSimulateActivation(t *testing.T) {
	src := &stubSnapshotSource{
		observations: []domain.SpeedObservation{
			speedObs("msk", "wh-1", domain.TravelHours(10)),
			speedObs("msk", "wh-2", domain.TravelHours(5)),
			speedObs("msk", "wh-3", domain.TravelHours(4)),
		},
		activeIDs: activeSet("wh-1"),
		hasData:   true,
	}

	// A mid-ranked candidate must still be addressable directly.
	rec, err := SimulateActivation(context.Background(), src, "wh-2")
	require.NoError(t, err)
	require.Equal(t, "wh-2", rec.WarehouseID)
	require.InDelta(t, 0.1, rec.MarginalAbs, 1e-12)

	_, err = SimulateActivation(context.Background(), src, "wh-1")
	require.ErrorIs(t, err, ErrNotCandidate, "active warehouses are not candidates")

	_, err = SimulateActivation(context.Background(), src, "wh-404")
	require.ErrorIs(t, err, ErrNotCandidate, "unknown warehouses are not candidates")
}
