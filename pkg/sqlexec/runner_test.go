package sqlexec

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRunner(t *testing.T, rowCap int) (Runner, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: mockDb,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormRunner(gdb, rowCap), mock
}

func TestRunPreservesColumnAndRowOrder(t *testing.T) {
	runner, mock := newMockRunner(t, 0)

	query := "SELECT department, headcount FROM departments ORDER BY headcount DESC"
	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"department", "headcount"}).
			AddRow("Engineering", int64(42)).
			AddRow("Sales", int64(17)).
			AddRow("HR", int64(5)),
	)

	res, err := runner.Run(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, []string{"department", "headcount"}, res.Columns)
	assert.Equal(t, 3, res.RowCount)
	assert.Equal(t, "Engineering", res.Rows[0]["department"])
	assert.Equal(t, "Sales", res.Rows[1]["department"])
	assert.Equal(t, "HR", res.Rows[2]["department"])
}

func TestRunNormalizesByteValues(t *testing.T) {
	runner, mock := newMockRunner(t, 0)

	query := "SELECT name FROM employees"
	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow([]byte("Ayşe")),
	)

	res, err := runner.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", res.Rows[0]["name"])
}

func TestRunHonorsRowCap(t *testing.T) {
	runner, mock := newMockRunner(t, 2)

	query := "SELECT id FROM big_table"
	rows := sqlmock.NewRows([]string{"id"})
	for i := 0; i < 5; i++ {
		rows.AddRow(int64(i))
	}
	mock.ExpectQuery(query).WillReturnRows(rows)

	res, err := runner.Run(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.RowCount)
}

func TestRunWrapsBackendErrors(t *testing.T) {
	runner, mock := newMockRunner(t, 0)

	query := "SELECT gender FROM employees"
	mock.ExpectQuery(query).WillReturnError(fmt.Errorf(`column "gender" does not exist`))

	_, err := runner.Run(context.Background(), query)
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, execErr.Raw, "gender")
}
