package sqlguard

import (
	"regexp"
	"strings"
)

var (
	fencedSQLRe = regexp.MustCompile("(?is)```sql\\s*(.*?)```")
	fencedAnyRe = regexp.MustCompile("(?is)```\\s*(.*?)```")
	selectRe    = regexp.MustCompile(`(?is)\b(SELECT|WITH)\b.*`)
	leadingRe   = regexp.MustCompile(`(?is)^\s*(SELECT|WITH)\b`)
)

// Extract pulls a runnable SQL statement out of raw model output.
// Attempt order: fenced block tagged sql, any fenced block containing a
// SELECT-class keyword, the span from the first SELECT-class keyword up
// to the first statement terminator, then the trimmed raw text as-is.
// Deterministic for a given input.
func Extract(raw string) string {
	if m := fencedSQLRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(trimTerminator(m[1]))
	}

	if m := fencedAnyRe.FindStringSubmatch(raw); m != nil {
		inner := strings.TrimSpace(m[1])
		if selectRe.MatchString(inner) {
			return strings.TrimSpace(trimTerminator(inner))
		}
	}

	if m := selectRe.FindString(raw); m != "" {
		return strings.TrimSpace(trimTerminator(m))
	}

	return strings.TrimSpace(raw)
}

// LooksLikeSQL reports whether the extracted text is something we can
// hand to the execution layer. When false the model answered in prose,
// usually asking the user to clarify.
func LooksLikeSQL(sql string) bool {
	return leadingRe.MatchString(sql)
}

// trimTerminator cuts everything after the first statement terminator
// so trailing commentary never reaches the database.
func trimTerminator(sql string) string {
	if idx := strings.Index(sql, ";"); idx >= 0 {
		return sql[:idx+1]
	}
	return sql
}
