package sqlexec

// Row is one result row keyed by column name.
type Row map[string]any

// TabularResult is the transport-neutral shape of an executed query.
// Columns preserves the select-list order; RowCount is the number of
// rows actually read, which can exceed len(Rows) after truncation.
type TabularResult struct {
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
	RowCount int      `json:"row_count"`
}

// Empty reports whether the result carries no rows.
func (r *TabularResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// NumericColumns returns the columns whose first non-nil value is a
// numeric type, in column order.
func (r *TabularResult) NumericColumns() []string {
	if r == nil {
		return nil
	}
	var numeric []string
	for _, col := range r.Columns {
		if r.columnIsNumeric(col) {
			numeric = append(numeric, col)
		}
	}
	return numeric
}

func (r *TabularResult) columnIsNumeric(col string) bool {
	for _, row := range r.Rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		default:
			return false
		}
	}
	return false
}

// Truncate returns a copy limited to the first limit rows. RowCount is
// preserved so callers can tell the client how much was cut.
func (r *TabularResult) Truncate(limit int) *TabularResult {
	if r == nil || limit <= 0 || len(r.Rows) <= limit {
		return r
	}
	return &TabularResult{
		Columns:  r.Columns,
		Rows:     r.Rows[:limit],
		RowCount: r.RowCount,
	}
}
