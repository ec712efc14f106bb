package sqlexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericColumns(t *testing.T) {
	res := &TabularResult{
		Columns: []string{"department", "headcount", "budget"},
		Rows: []Row{
			{"department": "Engineering", "headcount": int64(42), "budget": 1000.5},
		},
		RowCount: 1,
	}

	assert.Equal(t, []string{"headcount", "budget"}, res.NumericColumns())
}

func TestNumericColumnsSkipsLeadingNulls(t *testing.T) {
	res := &TabularResult{
		Columns: []string{"amount"},
		Rows: []Row{
			{"amount": nil},
			{"amount": float64(3.14)},
		},
		RowCount: 2,
	}

	assert.Equal(t, []string{"amount"}, res.NumericColumns())
}

func TestTruncateKeepsRowCountAndOrder(t *testing.T) {
	res := &TabularResult{
		Columns:  []string{"id"},
		RowCount: 25,
	}
	for i := 0; i < 25; i++ {
		res.Rows = append(res.Rows, Row{"id": int64(i)})
	}

	capped := res.Truncate(10)
	assert.Len(t, capped.Rows, 10)
	assert.Equal(t, 25, capped.RowCount)
	for i := 0; i < 10; i++ {
		assert.Equal(t, int64(i), capped.Rows[i]["id"])
	}

	// Below the limit the result is returned unchanged.
	small := &TabularResult{Columns: []string{"id"}, Rows: []Row{{"id": int64(1)}}, RowCount: 1}
	assert.Same(t, small, small.Truncate(10))
}
