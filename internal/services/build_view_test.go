package services

import (
	"testing"
	"warehouse-coverage-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speedObs(region, warehouse string, time domain.TravelTime) domain.SpeedObservation {
	return domain.SpeedObservation{
		RegionCode:    region,
		RegionName:    "R-" + region,
		WarehouseID:   warehouse,
		WarehouseName: "W-" + warehouse,
		Time:          time,
	}
}

func activeSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestBuildViewTwoRegionsTwoWarehouses(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("spb", "wh-1", domain.TravelHours(8)),
		speedObs("msk", "wh-2", domain.TravelHours(5)),
		speedObs("spb", "wh-2", domain.TravelHours(20)),
	}
	sales := map[string]float64{"msk": 100, "spb": 100}

	view := BuildView(observations, activeSet("wh-1"), sales)

	require.Equal(t, []string{"msk", "spb"}, view.Regions)
	require.Equal(t, "R-msk", view.RegionNames["msk"])
	require.Equal(t, "W-wh-2", view.WarehouseNames["wh-2"])

	// Equal volumes split the demand evenly.
	require.InDelta(t, 0.5, view.Weights["msk"], 1e-12)
	require.InDelta(t, 0.5, view.Weights["spb"], 1e-12)

	require.Equal(t, domain.TravelHours(5), view.BestAll["msk"])
	require.Equal(t, domain.TravelHours(8), view.BestAll["spb"])
	require.Equal(t, domain.TravelHours(10), view.BestActive["msk"])
	require.Equal(t, domain.TravelHours(8), view.BestActive["spb"])
	require.Equal(t, domain.TravelHours(20), view.BestByWarehouse["wh-2"]["spb"])

	// 0.5*(1/10) + 0.5*(1/8) = 0.1125 and 0.5*(1/5) + 0.5*(1/8) = 0.1625.
	require.InDelta(t, 0.1125, view.GlobalCurrent, 1e-12)
	require.InDelta(t, 0.1625, view.GlobalOpt, 1e-12)
	require.InDelta(t, 0.1125/0.1625*100, view.Coverage, 1e-9)

	hours, ok := view.AvgTimeCurrent.Hours()
	require.True(t, ok)
	require.InDelta(t, 9.0, hours, 1e-12) // 0.5*10 + 0.5*8
}

func TestBuildViewDuplicateObservationsKeepMinimum(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(12)),
		speedObs("msk", "wh-1", domain.TravelHours(7)),
		speedObs("msk", "wh-1", domain.TravelHours(9)),
		speedObs("msk", "wh-1", domain.Unreachable()),
	}

	view := BuildView(observations, activeSet("wh-1"), nil)

	require.Equal(t, domain.TravelHours(7), view.BestAll["msk"])
	require.Equal(t, domain.TravelHours(7), view.BestActive["msk"])
	require.Equal(t, domain.TravelHours(7), view.BestByWarehouse["wh-1"]["msk"])
}

func TestBuildViewUnreachableOnlyWarehouseIsStillKnown(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("msk", "wh-2", domain.Unreachable()),
	}

	view := BuildView(observations, activeSet("wh-1"), nil)

	// The warehouse must remain a recommendation candidate even though
	// it reaches nothing.
	require.Contains(t, view.BestByWarehouse, "wh-2")
	require.False(t, view.BestByWarehouse["wh-2"]["msk"].Reachable())
}

func TestBuildViewWeightBranches(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("spb", "wh-1", domain.TravelHours(8)),
	}

	t.Run("no sales falls back to uniform", func(t *testing.T) {
		view := BuildView(observations, activeSet("wh-1"), nil)
		require.InDelta(t, 0.5, view.Weights["msk"], 1e-12)
		require.InDelta(t, 0.5, view.Weights["spb"], 1e-12)
	})

	t.Run("all-zero sales fall back to uniform", func(t *testing.T) {
		view := BuildView(observations, activeSet("wh-1"), map[string]float64{"msk": 0, "spb": 0})
		require.InDelta(t, 0.5, view.Weights["msk"], 1e-12)
	})

	t.Run("sales mass outside observed regions falls back to uniform", func(t *testing.T) {
		view := BuildView(observations, activeSet("wh-1"), map[string]float64{"kazan": 500})
		require.InDelta(t, 0.5, view.Weights["msk"], 1e-12)
		require.InDelta(t, 0.5, view.Weights["spb"], 1e-12)
	})

	t.Run("sales branch gives unsold regions zero weight", func(t *testing.T) {
		view := BuildView(observations, activeSet("wh-1"), map[string]float64{"msk": 300})
		require.InDelta(t, 1.0, view.Weights["msk"], 1e-12)
		require.InDelta(t, 0.0, view.Weights["spb"], 1e-12)
	})

	t.Run("proportional split", func(t *testing.T) {
		view := BuildView(observations, activeSet("wh-1"), map[string]float64{"msk": 300, "spb": 100})
		require.InDelta(t, 0.75, view.Weights["msk"], 1e-12)
		require.InDelta(t, 0.25, view.Weights["spb"], 1e-12)
	})
}

func TestBuildViewWeightsSumToOne(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("spb", "wh-1", domain.TravelHours(8)),
		speedObs("kazan", "wh-2", domain.TravelHours(14)),
		speedObs("ekb", "wh-2", domain.Unreachable()),
	}

	for name, sales := range map[string]map[string]float64{
		"uniform":      nil,
		"proportional": {"msk": 120, "spb": 40, "kazan": 15},
	} {
		t.Run(name, func(t *testing.T) {
			view := BuildView(observations, activeSet("wh-1"), sales)
			sum := 0.0
			for _, r := range view.Regions {
				sum += view.Weights[r]
			}
			require.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestBuildViewActiveBestNeverBeatsOverallBest(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("msk", "wh-2", domain.TravelHours(5)),
		speedObs("spb", "wh-1", domain.TravelHours(8)),
		speedObs("kazan", "wh-2", domain.TravelHours(30)),
	}

	view := BuildView(observations, activeSet("wh-1"), nil)

	for _, r := range view.Regions {
		assert.False(t, view.BestActive[r].FasterThan(view.BestAll[r]),
			"region %s: active best must not beat overall best", r)
	}
}

func TestBuildViewUnreachableRegionPoisonsAverageButNotSpeed(t *testing.T) {
	// wh-1 serves only msk; spb has demand but no active coverage.
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("spb", "wh-2", domain.TravelHours(6)),
	}

	view := BuildView(observations, activeSet("wh-1"), nil)

	// Global speed treats the unserved region as speed 0 and stays finite.
	require.InDelta(t, 0.05, view.GlobalCurrent, 1e-12) // 0.5*(1/10) + 0.5*0
	require.Greater(t, view.GlobalCurrent, 0.0)

	// The average is meaningless while weighted demand is unserved.
	require.False(t, view.AvgTimeCurrent.Reachable())
}

func TestBuildViewSingleRegionUniformWeightIsOne(t *testing.T) {
	view := BuildView([]domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
	}, activeSet(), nil)

	require.InDelta(t, 1.0, view.Weights["msk"], 1e-12)
}

func TestBuildViewEmptyObservations(t *testing.T) {
	view := BuildView(nil, activeSet("wh-1"), map[string]float64{"msk": 10})

	require.Empty(t, view.Regions)
	require.Empty(t, view.Weights)
	require.Zero(t, view.GlobalCurrent)
	require.Zero(t, view.GlobalOpt)
	require.Zero(t, view.Coverage)

	hours, ok := view.AvgTimeCurrent.Hours()
	require.True(t, ok)
	require.Zero(t, hours)
}

func TestBuildViewIsIdempotent(t *testing.T) {
	observations := []domain.SpeedObservation{
		speedObs("msk", "wh-1", domain.TravelHours(10)),
		speedObs("spb", "wh-1", domain.TravelHours(8)),
		speedObs("msk", "wh-2", domain.TravelHours(5)),
		speedObs("kazan", "wh-3", domain.Unreachable()),
	}
	sales := map[string]float64{"msk": 70, "spb": 30}
	active := activeSet("wh-1", "wh-3")

	first := BuildView(observations, active, sales)
	second := BuildView(observations, active, sales)

	require.Equal(t, first, second)
}
