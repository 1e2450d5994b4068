// Package finreport extracts headline figures from marketplace finance
// workbooks. Sellers download these as XLSX with layouts that vary by
// marketplace and report version, so extraction is keyword-driven
// rather than positional.
package finreport

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// metricKeywords maps each metric to the lowercase substrings that mark
// its column or row in a report. Russian because that is what the
// workbooks contain.
var metricKeywords = map[string][]string{
	"sales":         {"реализ", "продаж", "выручк"},
	"payout_goods":  {"к перечислению за товар", "перечислению за товар", "к перечислению"},
	"fines":         {"штраф", "неустой"},
	"storage":       {"хранени"},
	"logistics":     {"логист", "доставк", "перевоз"},
	"deductions":    {"удержан", "прочие выплаты", "прочие удержания", "компенсац"},
	"total_payment": {"итого к оплате", "к оплате", "итого к перечислению", "итого"},
	"tax":           {"налог"},
	"cost_price":    {"себестоим"},
}

var (
	datePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

var dateLayouts = []string{
	"02.01.2006",
	"02.01.2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Report is the digest of one finance workbook.
type Report struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Metrics     map[string]float64
	Notes       []string
}

// Parse reads an XLSX finance report and extracts the reporting period,
// the metrics it can recognize and a short list of findings. Metrics
// always include net_profit, derived from the others when the workbook
// does not state it.
func Parse(r io.Reader) (*Report, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	var sheets [][][]string
	for _, name := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(rows) > 0 {
			sheets = append(sheets, rows)
		}
	}

	report := &Report{}
	report.PeriodStart, report.PeriodEnd = extractPeriod(sheets)
	report.Metrics = extractMetrics(sheets)
	deriveNetProfit(report.Metrics)
	report.Notes = buildNotes(report.Metrics)
	return report, nil
}

func extractPeriod(sheets [][][]string) (*time.Time, *time.Time) {
	var dates []time.Time

	for _, rows := range sheets {
		for idx, name := range rows[0] {
			n := norm(name)
			if !strings.Contains(n, "дата") && !strings.Contains(n, "period") {
				continue
			}
			for _, row := range rows[1:] {
				if d, ok := parseDate(cellAt(row, idx)); ok {
					dates = append(dates, d)
				}
			}
		}

		// Period lines like "с 01.01.2026 по 31.01.2026" sit in the top
		// rows of the sheet rather than in a date column.
		for _, row := range rows[:min(len(rows), 10)] {
			for _, cellValue := range row {
				for _, m := range datePattern.FindAllString(cellValue, -1) {
					if d, err := time.Parse("02.01.2006", m); err == nil {
						dates = append(dates, d)
					}
				}
			}
		}
	}

	if len(dates) == 0 {
		return nil, nil
	}
	start, end := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	return &start, &end
}

func extractMetrics(sheets [][][]string) map[string]float64 {
	candidates := make(map[string][]float64)

	for _, rows := range sheets {
		// Column pass, best for detailed per-item reports: a headline
		// column is summed over all its numeric cells.
		for idx, name := range rows[0] {
			n := norm(name)
			if n == "" {
				continue
			}
			var sum float64
			found := false
			for _, row := range rows[1:] {
				if v, ok := toNumber(cellAt(row, idx)); ok {
					sum += v
					found = true
				}
			}
			if !found {
				continue
			}
			for metric, keys := range metricKeywords {
				if containsAny(n, keys) {
					candidates[metric] = append(candidates[metric], sum)
				}
			}
		}

		// Row pass, best for summary tables: a labelled row contributes
		// its largest value by magnitude.
		for _, row := range rows[1:] {
			var texts []string
			var nums []float64
			for _, cellValue := range row {
				if v, ok := toNumber(cellValue); ok {
					nums = append(nums, v)
				} else if strings.TrimSpace(cellValue) != "" {
					texts = append(texts, norm(cellValue))
				}
			}
			if len(nums) == 0 {
				continue
			}
			rowText := strings.Join(texts, " ")
			for metric, keys := range metricKeywords {
				if containsAny(rowText, keys) {
					candidates[metric] = append(candidates[metric], maxAbs(nums))
				}
			}
		}
	}

	result := make(map[string]float64, len(candidates))
	for metric, values := range candidates {
		// The same figure often repeats across sheets; keeping the
		// largest magnitude avoids double-counting it.
		result[metric] = maxAbs(values)
	}
	return result
}

func deriveNetProfit(metrics map[string]float64) {
	if _, ok := metrics["net_profit"]; ok {
		return
	}
	if total, ok := metrics["total_payment"]; ok {
		metrics["net_profit"] = total - metrics["tax"] - metrics["cost_price"]
		return
	}
	metrics["net_profit"] = metrics["payout_goods"] - metrics["fines"] - metrics["storage"] -
		metrics["logistics"] - metrics["deductions"] - metrics["tax"] - metrics["cost_price"]
}

func buildNotes(metrics map[string]float64) []string {
	var notes []string

	sales := metrics["sales"]
	fines := metrics["fines"]
	if sales != 0 && fines != 0 && math.Abs(fines)/math.Abs(sales) > 0.05 {
		notes = append(notes, "Fines exceed 5% of sales.")
	}
	if net, ok := metrics["net_profit"]; ok && net < 0 {
		notes = append(notes, "Net profit is negative: check deductions and cost price.")
	}
	if len(notes) == 0 {
		notes = append(notes, "No critical deviations found.")
	}
	return notes
}

func norm(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// toNumber reads a cell the way office exports write numbers: NBSP or
// space group separators and comma decimal marks.
func toNumber(s string) (float64, bool) {
	cleaned := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// maxAbs returns the value with the largest magnitude, preferring the
// earliest on ties.
func maxAbs(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if math.Abs(v) > math.Abs(best) {
			best = v
		}
	}
	return best
}
