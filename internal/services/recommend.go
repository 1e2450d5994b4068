package services

import (
	"slices"
	"warehouse-coverage-service/internal/domain"
)

// Rank inactive warehouses by the marginal global-speed gain each would
// contribute if activated.
//
// Every warehouse known to the view but absent from activeIDs is scored
// by simulating its activation: each region keeps the better of its
// current active best and the candidate's own best. Candidates are
// evaluated in ascending warehouse-id order and ranked with a stable
// sort, so exact marginal-gain ties resolve to the lower id and results
// are deterministic across runs.
//
// This is a greedy single-step heuristic: it scores adding one warehouse
// at a time and does not attempt optimal multi-warehouse selection.
// With no inactive candidates the result is empty, not an error.
func Recommend(view *domain.NetworkView, activeIDs map[string]struct{}, topN int) []domain.Recommendation {
	if topN < 1 {
		topN = 1
	}

	candidates := make([]string, 0, len(view.BestByWarehouse))
	for id := range view.BestByWarehouse {
		if _, active := activeIDs[id]; active {
			continue
		}
		candidates = append(candidates, id)
	}
	slices.Sort(candidates)

	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, id := range candidates {
		recs = append(recs, scoreActivation(view, id))
	}

	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		if a.MarginalAbs > b.MarginalAbs {
			return -1
		}
		if a.MarginalAbs < b.MarginalAbs {
			return 1
		}
		return 0
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// scoreActivation computes the full Recommendation for one candidate.
func scoreActivation(view *domain.NetworkView, warehouseID string) domain.Recommendation {
	byRegion := view.BestByWarehouse[warehouseID]

	// Regions the candidate does not serve keep the current active best.
	newBest := make(map[string]domain.TravelTime, len(view.Regions))
	for _, r := range view.Regions {
		newBest[r] = view.BestActive[r].Min(byRegion[r])
	}

	newGlobal := globalSpeed(view.Regions, newBest, view.Weights)
	marginalAbs := newGlobal - view.GlobalCurrent

	var marginalPct *float64
	if view.GlobalCurrent != 0 {
		pct := marginalAbs / view.GlobalCurrent * 100
		marginalPct = &pct
	}

	coverageAfter := 0.0
	if view.GlobalOpt != 0 {
		coverageAfter = newGlobal / view.GlobalOpt * 100
	}

	avgBefore := weightedAvgTime(view.Regions, view.BestActive, view.Weights)
	avgAfter := weightedAvgTime(view.Regions, newBest, view.Weights)

	var avgDelta *float64
	if before, okBefore := avgBefore.Hours(); okBefore {
		if after, okAfter := avgAfter.Hours(); okAfter {
			delta := after - before
			avgDelta = &delta
		}
	}

	changes := make([]domain.RegionChange, 0)
	for _, r := range view.Regions {
		oldTime := view.BestActive[r]
		newTime := newBest[r]
		if newTime.FasterThan(oldTime) {
			changes = append(changes, domain.RegionChange{
				RegionCode: r,
				RegionName: view.RegionNames[r],
				Weight:     view.Weights[r],
				OldTime:    oldTime,
				NewTime:    newTime,
			})
		}
	}
	// Changes are collected in region-code order; the stable sort keeps
	// that as the tie-break for equal weights.
	slices.SortStableFunc(changes, func(a, b domain.RegionChange) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})

	return domain.Recommendation{
		WarehouseID:        warehouseID,
		WarehouseName:      view.WarehouseNames[warehouseID],
		MarginalAbs:        marginalAbs,
		MarginalPct:        marginalPct,
		CoverageAfter:      coverageAfter,
		GlobalSpeedCurrent: view.GlobalCurrent,
		AvgTimeBefore:      avgBefore,
		AvgTimeAfter:       avgAfter,
		AvgTimeDelta:       avgDelta,
		RegionChanges:      changes,
	}
}
