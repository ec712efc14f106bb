package sqlguard

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced sql block",
			raw:  "Here is the query:\n```sql\nSELECT * FROM employees;\n```\nHope this helps.",
			want: "SELECT * FROM employees;",
		},
		{
			name: "unlabelled fenced block with select",
			raw:  "```\nSELECT id FROM t\n```",
			want: "SELECT id FROM t",
		},
		{
			name: "inline select with trailing prose",
			raw:  "Sure! SELECT name FROM employees; this lists everyone.",
			want: "SELECT name FROM employees;",
		},
		{
			name: "with clause",
			raw:  "WITH top AS (SELECT 1) SELECT * FROM top",
			want: "WITH top AS (SELECT 1) SELECT * FROM top",
		},
		{
			name: "no sql falls back to trimmed raw",
			raw:  "  Hangi departmanı kastediyorsunuz?  ",
			want: "Hangi departmanı kastediyorsunuz?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
			// Same input must always yield the same output.
			if again := Extract(tt.raw); again != got {
				t.Errorf("Extract() not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestLooksLikeSQL(t *testing.T) {
	if !LooksLikeSQL("SELECT 1") {
		t.Error("expected SELECT to look like SQL")
	}
	if !LooksLikeSQL("with t as (select 1) select * from t") {
		t.Error("expected WITH to look like SQL")
	}
	if LooksLikeSQL("Hangi tabloyu kastettiniz?") {
		t.Error("prose should not look like SQL")
	}
}
