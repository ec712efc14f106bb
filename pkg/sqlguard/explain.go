package sqlguard

import "strings"

// Explain builds a short Turkish one-liner describing what the
// statement does. Purely heuristic, used as the assistant explanation
// accompanying the generated SQL.
func Explain(sql string) string {
	sqlUpper := strings.ToUpper(strings.TrimSpace(sql))

	if strings.Contains(sqlUpper, "COUNT(") {
		if strings.Contains(sqlUpper, "FROM EMPLOYEES") {
			return "Toplam çalışan sayısını buluyorum."
		}
		return "Kayıt sayısını buluyorum."
	}

	if strings.HasPrefix(sqlUpper, "SELECT") {
		if strings.Contains(sqlUpper, "WHERE") {
			return "Filtrelenmiş verileri getiriyorum."
		}
		if strings.Contains(sqlUpper, "JOIN") {
			return "Birleştirilmiş verileri getiriyorum."
		}
		if strings.Contains(sqlUpper, "ORDER BY") {
			return "Sıralanmış verileri getiriyorum."
		}
		return "Verileri getiriyorum."
	}

	return "SQL sorgusu oluşturuldu."
}
