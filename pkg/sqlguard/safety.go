package sqlguard

import (
	"fmt"
	"regexp"
)

// ValidationError reports a forbidden keyword found in a SQL statement.
// It is fatal to the current attempt and is never retried.
type ValidationError struct {
	Keyword string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Güvenlik İhlali: '%s' komutu bu sistemde yasaklanmıştır.", e.Keyword)
}

var forbiddenKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "TRUNCATE", "GRANT", "REVOKE", "EXEC",
}

var forbiddenRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(forbiddenKeywords))
	for _, kw := range forbiddenKeywords {
		// Word boundaries keep identifiers like update_date from
		// triggering false positives (underscore is a word character).
		res[kw] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return res
}()

// ValidateSafety scans sql for denylisted statements. It runs before
// execution on every generated or cached statement, unconditionally.
func ValidateSafety(sql string) error {
	for _, kw := range forbiddenKeywords {
		if forbiddenRes[kw].MatchString(sql) {
			return &ValidationError{Keyword: kw}
		}
	}
	return nil
}
