package chart

import (
	"fmt"
	"testing"

	"text2sql-be/pkg/sqlexec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResult(rows, cols int, numericCols int) *sqlexec.TabularResult {
	res := &sqlexec.TabularResult{RowCount: rows}
	for c := 0; c < cols; c++ {
		res.Columns = append(res.Columns, fmt.Sprintf("col%d", c))
	}
	for r := 0; r < rows; r++ {
		row := sqlexec.Row{}
		for c := 0; c < cols; c++ {
			if c >= cols-numericCols {
				row[res.Columns[c]] = float64(r * c)
			} else {
				row[res.Columns[c]] = fmt.Sprintf("v%d", r)
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func TestShouldChart(t *testing.T) {
	tests := []struct {
		name string
		res  *sqlexec.TabularResult
		want bool
	}{
		{"nil result", nil, false},
		{"empty result", makeResult(0, 2, 1), false},
		{"single row", makeResult(1, 2, 1), false},
		{"too many rows", makeResult(150, 2, 1), false},
		{"single column", makeResult(5, 1, 1), false},
		{"too many columns", makeResult(5, 6, 2), false},
		{"no numeric column", makeResult(5, 2, 0), false},
		{"text plus numeric", makeResult(5, 2, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldChart(tt.res))
		})
	}
}

func TestBuildKindSelection(t *testing.T) {
	t.Run("ranking signal picks horizontal bar", func(t *testing.T) {
		res := &sqlexec.TabularResult{
			Columns: []string{"name", "salary"},
			Rows: []sqlexec.Row{
				{"name": "Ali", "salary": float64(90000)},
				{"name": "Veli", "salary": float64(80000)},
			},
			RowCount: 2,
		}
		spec := Build(res, "SELECT name, salary FROM employees ORDER BY salary DESC")
		require.NotNil(t, spec)
		assert.Equal(t, KindHorizontalBar, spec.Kind)
		assert.Equal(t, "name", spec.CategoryColumn)
		assert.Equal(t, []string{"salary"}, spec.Series)
	})

	t.Run("aggregation picks bar even with order by", func(t *testing.T) {
		res := &sqlexec.TabularResult{
			Columns: []string{"department", "total"},
			Rows: []sqlexec.Row{
				{"department": "Eng", "total": int64(10)},
				{"department": "Sales", "total": int64(4)},
			},
			RowCount: 2,
		}
		spec := Build(res, "SELECT department, COUNT(*) AS total FROM employees GROUP BY department ORDER BY total DESC")
		require.NotNil(t, spec)
		assert.Equal(t, KindBar, spec.Kind)
	})

	t.Run("multi numeric with date category picks line", func(t *testing.T) {
		res := &sqlexec.TabularResult{
			Columns: []string{"order_month", "revenue", "cost"},
			Rows: []sqlexec.Row{
				{"order_month": "2026-01", "revenue": 10.0, "cost": 4.0},
				{"order_month": "2026-02", "revenue": 12.0, "cost": 5.0},
			},
			RowCount: 2,
		}
		spec := Build(res, "SELECT order_month, revenue, cost FROM monthly")
		require.NotNil(t, spec)
		assert.Equal(t, KindLine, spec.Kind)
		assert.Equal(t, []string{"revenue", "cost"}, spec.Series)
	})

	t.Run("multi numeric without date picks grouped bar capped at three series", func(t *testing.T) {
		res := &sqlexec.TabularResult{
			Columns: []string{"region", "q1", "q2", "q3", "q4"},
			Rows: []sqlexec.Row{
				{"region": "EMEA", "q1": 1.0, "q2": 2.0, "q3": 3.0, "q4": 4.0},
				{"region": "APAC", "q1": 2.0, "q2": 3.0, "q3": 4.0, "q4": 5.0},
			},
			RowCount: 2,
		}
		spec := Build(res, "SELECT region, q1, q2, q3, q4 FROM sales")
		require.NotNil(t, spec)
		assert.Equal(t, KindGroupedBar, spec.Kind)
		assert.Len(t, spec.Series, 3)
	})

	t.Run("unchartable result yields nil", func(t *testing.T) {
		assert.Nil(t, Build(makeResult(1, 2, 1), "SELECT 1"))
	})
}
