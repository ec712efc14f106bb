package chart

import (
	"strings"

	"text2sql-be/pkg/sqlexec"
)

const (
	KindBar           = "bar"
	KindHorizontalBar = "horizontal_bar"
	KindLine          = "line"
	KindGroupedBar    = "grouped_bar"

	maxSeries = 3
)

// Spec describes a renderable chart. The frontend owns the actual
// rendering; this is only the shape decision.
type Spec struct {
	Kind           string   `json:"kind"`
	CategoryColumn string   `json:"category_column"`
	Series         []string `json:"series"`
}

// ShouldChart decides whether a result is worth charting at all.
func ShouldChart(res *sqlexec.TabularResult) bool {
	if res.Empty() {
		return false
	}
	if len(res.Rows) < 2 || len(res.Rows) > 100 {
		return false
	}
	if len(res.Columns) < 2 || len(res.Columns) > 5 {
		return false
	}
	return len(res.NumericColumns()) > 0
}

// Build picks a chart kind from the result shape and the SQL text.
// Returns nil instead of erroring when anything looks off.
func Build(res *sqlexec.TabularResult, sql string) *Spec {
	if !ShouldChart(res) {
		return nil
	}

	categoryCol := res.Columns[0]
	numeric := res.NumericColumns()
	if len(numeric) == 0 {
		return nil
	}
	sqlLower := strings.ToLower(sql)

	if len(numeric) == 1 {
		kind := KindBar
		switch {
		case hasAggregation(sqlLower):
			kind = KindBar
		case hasRankingSignal(sqlLower):
			kind = KindHorizontalBar
		}
		return &Spec{
			Kind:           kind,
			CategoryColumn: categoryCol,
			Series:         numeric,
		}
	}

	series := numeric
	if len(series) > maxSeries {
		series = series[:maxSeries]
	}

	if looksDateLike(categoryCol) {
		return &Spec{
			Kind:           KindLine,
			CategoryColumn: categoryCol,
			Series:         series,
		}
	}
	return &Spec{
		Kind:           KindGroupedBar,
		CategoryColumn: categoryCol,
		Series:         series,
	}
}

func hasAggregation(sqlLower string) bool {
	for _, kw := range []string{"count", "sum", "avg", "average"} {
		if strings.Contains(sqlLower, kw) {
			return true
		}
	}
	return false
}

func hasRankingSignal(sqlLower string) bool {
	if !strings.Contains(sqlLower, "order by") {
		return false
	}
	for _, word := range []string{"desc", "salary", "price", "amount"} {
		if strings.Contains(sqlLower, word) {
			return true
		}
	}
	return false
}

func looksDateLike(column string) bool {
	colLower := strings.ToLower(column)
	for _, word := range []string{"date", "time", "year", "month"} {
		if strings.Contains(colLower, word) {
			return true
		}
	}
	return false
}
