package ingest

import "strings"

// column is a canonical field name resolved from a spreadsheet header.
type column string

const (
	colRegionCode    column = "region_code"
	colRegionName    column = "region_name"
	colWarehouseID   column = "warehouse_id"
	colWarehouseName column = "warehouse_name"
	colTimeHours     column = "time_hours"
	colOrders        column = "orders"
)

// columnAliases maps lowercase header names to canonical columns. Upload
// templates drift between teams, so every spelling seen in a real file
// belongs here.
var columnAliases = map[string]column{
	// Region identity
	"region_code": colRegionCode,
	"regioncode":  colRegionCode,
	"код региона": colRegionCode,

	"region_name":      colRegionName,
	"regionname":       colRegionName,
	"region":           colRegionName,
	"регион":           colRegionName,
	"название региона": colRegionName,
	"субъект":          colRegionName, // federal-subject wording in logistics exports

	// Warehouse identity
	"warehouse_id": colWarehouseID,
	"warehouseid":  colWarehouseID,
	"код склада":   colWarehouseID,
	"id склада":    colWarehouseID,

	"warehouse_name":  colWarehouseName,
	"warehousename":   colWarehouseName,
	"warehouse":       colWarehouseName,
	"склад":           colWarehouseName,
	"название склада": colWarehouseName,

	// Delivery time
	"time_hours":     colTimeHours,
	"timehours":      colTimeHours,
	"hours":          colTimeHours,
	"время":          colTimeHours,
	"время доставки": colTimeHours,
	"часы":           colTimeHours,
	"срок, ч":        colTimeHours,

	// Order volume
	"orders":             colOrders,
	"количество заказов": colOrders,
	"кол-во заказов":     colOrders,
	"заказы":             colOrders,
	"продажи":            colOrders,
}

// containsFallbacks resolve nonstandard headers by substring when no
// exact alias matched anywhere in the row. More specific needles go
// first so "склад" cannot shadow a warehouse id header.
var containsFallbacks = []struct {
	needle string
	col    column
}{
	{"warehouse", colWarehouseName},
	{"склад", colWarehouseName},
	{"region", colRegionName},
	{"регион", colRegionName},
	{"hour", colTimeHours},
	{"час", colTimeHours},
	{"order", colOrders},
	{"заказ", colOrders},
}

// resolveColumns maps canonical columns to header indexes. The first
// header claiming a column wins.
func resolveColumns(header []string) map[column]int {
	out := make(map[column]int, len(header))
	for i, h := range header {
		if c, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, taken := out[c]; !taken {
				out[c] = i
			}
		}
	}

	for _, fb := range containsFallbacks {
		if _, ok := out[fb.col]; ok {
			continue
		}
		for i, h := range header {
			if indexTaken(out, i) {
				continue
			}
			if strings.Contains(normalizeHeader(h), fb.needle) {
				out[fb.col] = i
				break
			}
		}
	}

	return out
}

func indexTaken(resolved map[column]int, idx int) bool {
	for _, i := range resolved {
		if i == idx {
			return true
		}
	}
	return false
}

func normalizeHeader(h string) string {
	normalized := strings.ToLower(strings.TrimSpace(h))
	return strings.Trim(normalized, "\"'")
}
