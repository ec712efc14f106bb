package sqlguard

import (
	"errors"
	"testing"
)

func TestValidateSafety(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr bool
		keyword string
	}{
		{
			name: "plain select passes",
			sql:  "SELECT name, salary FROM employees",
		},
		{
			name:    "delete statement blocked",
			sql:     "DELETE FROM employees;",
			wantErr: true,
			keyword: "DELETE",
		},
		{
			name:    "lowercase drop blocked",
			sql:     "drop table employees",
			wantErr: true,
			keyword: "DROP",
		},
		{
			name:    "mixed case update blocked",
			sql:     "UpDaTe employees SET salary = 0",
			wantErr: true,
			keyword: "UPDATE",
		},
		{
			name: "update_date identifier is not a keyword",
			sql:  "SELECT update_date FROM employees",
		},
		{
			name: "exec_count identifier is not a keyword",
			sql:  "SELECT exec_count, grant_total FROM stats",
		},
		{
			name:    "truncate after valid select",
			sql:     "SELECT 1; TRUNCATE employees",
			wantErr: true,
			keyword: "TRUNCATE",
		},
		{
			name:    "insert inside CTE blocked",
			sql:     "WITH x AS (INSERT INTO t VALUES (1) RETURNING *) SELECT * FROM x",
			wantErr: true,
			keyword: "INSERT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSafety(tt.sql)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected validation error, got nil")
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if ve.Keyword != tt.keyword {
					t.Errorf("keyword = %q, want %q", ve.Keyword, tt.keyword)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
