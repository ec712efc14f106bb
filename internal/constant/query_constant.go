package constant

const (
	// Prompt for turning a standalone question into a SQL statement.
	// %s = question.
	SQLGenerationPromptTemplate = `Sen bir SQL üretim asistanısın. Kullanıcının sorusunu PostgreSQL için çalıştırılabilir bir SELECT sorgusuna çevirirsin.
Kurallar:
- Sadece SQL sorgusunu döndür, açıklama ekleme.
- Sorguyu bir kod bloğu içinde ver.
- Veri değiştiren komut (INSERT, UPDATE, DELETE vb.) asla üretme.
- Soru bir SQL sorgusuna çevrilemiyorsa, kullanıcıya hangi bilginin eksik olduğunu soran kısa bir Türkçe soru yaz.

Soru: %s`

	GenerationErrorMessage = "Sorgu üretilirken bir hata oluştu. Lütfen sorunuzu farklı bir şekilde ifade etmeyi deneyin."
)
