package sqlexec

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ExecutionError wraps a backend failure so callers can route it
// through user-facing translation while keeping the raw message.
type ExecutionError struct {
	Raw string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("sql execution failed: %s", e.Raw)
}

// Runner executes a read query against the analytics database.
type Runner interface {
	Run(ctx context.Context, sql string) (*TabularResult, error)
}

type gormRunner struct {
	db     *gorm.DB
	rowCap int
}

// NewGormRunner wraps a GORM connection. rowCap bounds how many rows a
// single query may pull into memory.
func NewGormRunner(db *gorm.DB, rowCap int) Runner {
	if rowCap <= 0 {
		rowCap = 10000
	}
	return &gormRunner{
		db:     db,
		rowCap: rowCap,
	}
}

func (r *gormRunner) Run(ctx context.Context, sql string) (*TabularResult, error) {
	rows, err := r.db.WithContext(ctx).Raw(sql).Rows()
	if err != nil {
		return nil, &ExecutionError{Raw: err.Error()}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{Raw: err.Error()}
	}

	result := &TabularResult{
		Columns: columns,
		Rows:    []Row{},
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if result.RowCount >= r.rowCap {
			break
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, &ExecutionError{Raw: err.Error()}
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++
	}

	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Raw: err.Error()}
	}

	return result, nil
}

// normalizeValue turns driver-level byte slices into strings so the
// result serializes as text instead of base64.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
