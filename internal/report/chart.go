package report

import (
	"fmt"
	"sort"

	"github.com/iwvelando/fte-report/pkg/aggregate"
	"github.com/iwvelando/fte-report/pkg/constants"
	"github.com/iwvelando/fte-report/pkg/enrollment"
	"github.com/iwvelando/fte-report/pkg/format"
	"github.com/iwvelando/fte-report/pkg/output"
)

// ChartPoint is one bar of a report chart.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Chart returns the bars drawn for a report: the top sections by generated
// FTE for the FTE views, every section with an enrollment percentage for
// the enrollment view, and nothing for the dump.
func (r *Report) Chart() []ChartPoint {
	switch r.View {
	case ViewEnrollment:
		var points []ChartPoint
		for _, row := range r.Rows {
			if row.IsAggregate() {
				continue
			}
			if pct, ok := enrollment.Percent(row.Section.Headcount, row.Section.Capacity); ok {
				points = append(points, ChartPoint{Name: row.Section.SectionName, Value: pct})
			}
		}
		return points
	case ViewDump:
		return nil
	default:
		return TopSections(r.Rows, r.layout.chartSize)
	}
}

// TopSections returns up to n section rows with the highest generated FTE,
// highest first. Ties keep report order.
func TopSections(rows []aggregate.Row, n int) []ChartPoint {
	var points []ChartPoint
	for _, row := range rows {
		if row.IsAggregate() || row.Section == nil {
			continue
		}
		points = append(points, ChartPoint{Name: row.Section.SectionName, Value: row.GeneratedFTE})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if n >= 0 && len(points) > n {
		points = points[:n]
	}
	return points
}

// TopSectionsFromTable charts a rendered table. Generated FTE cells are
// parsed back from their currency text, never summed as strings. Rows with
// no section name are aggregate rows and are skipped.
func TopSectionsFromTable(t output.Table, n int) ([]ChartPoint, error) {
	nameCol, valueCol := -1, -1
	for i, col := range t.Columns {
		switch col {
		case constants.ColSecName:
			nameCol = i
		case constants.ColGeneratedFTE:
			valueCol = i
		}
	}
	if nameCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("table %q has no %s or %s column", t.Title, constants.ColSecName, constants.ColGeneratedFTE)
	}

	var points []ChartPoint
	for _, row := range t.Rows {
		if nameCol >= len(row) || valueCol >= len(row) || row[nameCol] == "" {
			continue
		}
		v, err := format.ParseCurrency(row[valueCol])
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", row[nameCol], err)
		}
		points = append(points, ChartPoint{Name: row[nameCol], Value: v})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if n >= 0 && len(points) > n {
		points = points[:n]
	}
	return points, nil
}
