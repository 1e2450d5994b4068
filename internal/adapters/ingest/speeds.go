package ingest

import (
	"strings"
	"warehouse-coverage-service/internal/domain"
)

// ParseSpeeds validates an uploaded delivery-speed table.
//
// Each row needs a region (a code, or a name to derive one from), a
// warehouse (id or name) and a time_hours value. A blank time means the
// warehouse cannot serve the region at all; zero and negative times are
// rejected. Row numbers in errors match what the user sees in a
// spreadsheet editor, header included.
func ParseSpeeds(filename string, data []byte) ([]domain.SpeedObservation, error) {
	header, rows, err := readTable(filename, data)
	if err != nil {
		return nil, err
	}

	cols := resolveColumns(header)

	regionCodeIdx, hasRegionCode := cols[colRegionCode]
	regionNameIdx, hasRegionName := cols[colRegionName]
	if !hasRegionCode && !hasRegionName {
		return nil, errorf("missing required column: region_code or region_name")
	}

	warehouseIDIdx, hasWarehouseID := cols[colWarehouseID]
	warehouseNameIdx, hasWarehouseName := cols[colWarehouseName]
	if !hasWarehouseID && !hasWarehouseName {
		return nil, errorf("missing required column: warehouse_id or warehouse_name")
	}

	timeIdx, hasTime := cols[colTimeHours]
	if !hasTime {
		return nil, errorf("missing required column: time_hours")
	}

	out := make([]domain.SpeedObservation, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header row
		if rowIsEmpty(row) {
			continue
		}

		var regionCode, regionName string
		if hasRegionCode {
			regionCode = strings.TrimSpace(cell(row, regionCodeIdx))
		}
		if hasRegionName {
			regionName = strings.TrimSpace(cell(row, regionNameIdx))
		}
		if regionCode == "" {
			regionCode = Slugify(regionName)
		}
		if regionName == "" {
			regionName = regionCode
		}
		if regionCode == "" {
			return nil, errorf("row %d: region is empty", rowNum)
		}

		var warehouseID, warehouseName string
		if hasWarehouseID {
			warehouseID = strings.TrimSpace(cell(row, warehouseIDIdx))
		}
		if hasWarehouseName {
			warehouseName = strings.TrimSpace(cell(row, warehouseNameIdx))
		}
		if warehouseID == "" {
			warehouseID = Slugify(warehouseName)
		}
		if warehouseName == "" {
			warehouseName = warehouseID
		}
		if warehouseID == "" {
			return nil, errorf("row %d: warehouse is empty", rowNum)
		}

		travelTime := domain.Unreachable()
		if raw := strings.TrimSpace(cell(row, timeIdx)); raw != "" {
			hours, ok := parseNumber(raw)
			if !ok {
				return nil, errorf("row %d: invalid time_hours %q", rowNum, raw)
			}
			if hours <= 0 {
				return nil, errorf("row %d: time_hours must be positive, got %v", rowNum, hours)
			}
			travelTime = domain.TravelHours(hours)
		}

		out = append(out, domain.SpeedObservation{
			RegionCode:    regionCode,
			RegionName:    regionName,
			WarehouseID:   warehouseID,
			WarehouseName: warehouseName,
			Time:          travelTime,
		})
	}

	if len(out) == 0 {
		return nil, errorf("file has no data rows")
	}
	return out, nil
}
