package ingest

import (
	"strings"
	"warehouse-coverage-service/internal/domain"
)

// ParseSales validates an uploaded per-region order-volume table. Each
// region may appear once; volumes must be non-negative numbers. Zero is
// allowed and means the region sells nothing yet still gets covered.
func ParseSales(filename string, data []byte) ([]domain.SalesVolume, error) {
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

	ordersIdx, hasOrders := cols[colOrders]
	if !hasOrders {
		return nil, errorf("missing required column: orders")
	}

	seen := make(map[string]int)
	out := make([]domain.SalesVolume, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2
		if rowIsEmpty(row) {
			continue
		}

		var regionCode string
		if hasRegionCode {
			regionCode = strings.TrimSpace(cell(row, regionCodeIdx))
		}
		if regionCode == "" && hasRegionName {
			regionCode = Slugify(cell(row, regionNameIdx))
		}
		if regionCode == "" {
			return nil, errorf("row %d: region is empty", rowNum)
		}
		if firstRow, dup := seen[regionCode]; dup {
			return nil, errorf("row %d: duplicate region %q, first seen in row %d", rowNum, regionCode, firstRow)
		}
		seen[regionCode] = rowNum

		raw := strings.TrimSpace(cell(row, ordersIdx))
		orders, ok := parseNumber(raw)
		if !ok {
			return nil, errorf("row %d: orders must be a number, got %q", rowNum, raw)
		}
		if orders < 0 {
			return nil, errorf("row %d: orders must be >= 0, got %v", rowNum, orders)
		}

		out = append(out, domain.SalesVolume{RegionCode: regionCode, Orders: orders})
	}

	if len(out) == 0 {
		return nil, errorf("file has no data rows")
	}
	return out, nil
}
