package services

import (
	"slices"
	"warehouse-coverage-service/internal/domain"
)

// Build a consolidated NetworkView from raw speed observations.
//
// Duplicate (region, warehouse) observations are resolved by keeping the
// fastest time; an unreachable observation never lowers a minimum. All
// metric folds iterate regions in sorted order, so every numeric field is
// bit-for-bit reproducible for identical inputs regardless of map
// iteration order. The function trusts its inputs: times are positive or
// unreachable, volumes non-negative; validation happens upstream.
func BuildView(
	observations []domain.SpeedObservation,
	activeIDs map[string]struct{},
	sales map[string]float64,
) *domain.NetworkView {
	regionNames := make(map[string]string)
	warehouseNames := make(map[string]string)
	bestAll := make(map[string]domain.TravelTime)
	bestActive := make(map[string]domain.TravelTime)
	bestByWarehouse := make(map[string]map[string]domain.TravelTime)

	for _, obs := range observations {
		regionNames[obs.RegionCode] = obs.RegionName
		warehouseNames[obs.WarehouseID] = obs.WarehouseName

		byRegion := bestByWarehouse[obs.WarehouseID]
		if byRegion == nil {
			byRegion = make(map[string]domain.TravelTime)
			bestByWarehouse[obs.WarehouseID] = byRegion
		}

		if obs.Time.FasterThan(bestAll[obs.RegionCode]) {
			bestAll[obs.RegionCode] = obs.Time
		}
		if _, active := activeIDs[obs.WarehouseID]; active && obs.Time.FasterThan(bestActive[obs.RegionCode]) {
			bestActive[obs.RegionCode] = obs.Time
		}
		if obs.Time.FasterThan(byRegion[obs.RegionCode]) {
			byRegion[obs.RegionCode] = obs.Time
		}
	}

	regions := make([]string, 0, len(regionNames))
	for r := range regionNames {
		regions = append(regions, r)
	}
	slices.Sort(regions)

	weights := deriveWeights(regions, sales)

	globalCurrent := globalSpeed(regions, bestActive, weights)
	globalOpt := globalSpeed(regions, bestAll, weights)

	coverage := 0.0
	if globalOpt != 0 {
		coverage = globalCurrent / globalOpt * 100
	}

	return &domain.NetworkView{
		Regions:         regions,
		RegionNames:     regionNames,
		WarehouseNames:  warehouseNames,
		BestAll:         bestAll,
		BestActive:      bestActive,
		BestByWarehouse: bestByWarehouse,
		Weights:         weights,
		GlobalCurrent:   globalCurrent,
		GlobalOpt:       globalOpt,
		Coverage:        coverage,
		AvgTimeCurrent:  weightedAvgTime(regions, bestActive, weights),
	}
}

// deriveWeights normalizes demand shares over the observed regions.
// This is a hard branch: either every weight comes from sales volumes, or
// (when sales are absent, all zero, or carry no mass over observed
// regions) every region gets the uniform 1/n fallback. Never a blend.
func deriveWeights(regions []string, sales map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(regions))
	if len(regions) == 0 {
		return weights
	}

	// Volumes are non-negative, so the sum is positive iff any entry is.
	salesTotal := 0.0
	for _, v := range sales {
		salesTotal += v
	}
	if len(sales) > 0 && salesTotal > 0 {
		observedTotal := 0.0
		for _, r := range regions {
			observedTotal += sales[r]
		}
		if observedTotal > 0 {
			for _, r := range regions {
				weights[r] = sales[r] / observedTotal
			}
			return weights
		}
	}

	uniform := 1 / float64(len(regions))
	for _, r := range regions {
		weights[r] = uniform
	}
	return weights
}

// globalSpeed is the weighted sum of per-region reciprocal delivery time:
// a throughput-like scalar that rewards both reachability and low latency.
// 0 for a fully unreachable network.
func globalSpeed(regions []string, times map[string]domain.TravelTime, weights map[string]float64) float64 {
	speed := 0.0
	for _, r := range regions {
		speed += weights[r] * times[r].Speed()
	}
	return speed
}

// weightedAvgTime is the demand-weighted average delivery time.
// A single unreachable region with positive weight makes the whole
// average Unreachable: "average time" means nothing while some demand is
// entirely unserved. Zero-weight regions never poison and contribute 0.
func weightedAvgTime(regions []string, times map[string]domain.TravelTime, weights map[string]float64) domain.TravelTime {
	for _, r := range regions {
		if weights[r] > 0 && !times[r].Reachable() {
			return domain.Unreachable()
		}
	}

	sum := 0.0
	for _, r := range regions {
		hours, ok := times[r].Hours()
		if !ok {
			continue
		}
		sum += weights[r] * hours
	}
	return domain.TravelHours(sum)
}
