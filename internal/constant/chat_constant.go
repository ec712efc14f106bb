package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	SessionTitleMaxLen = 50

	// Prompt for rewriting a follow-up question into a standalone one
	// using the recent conversation turns. %s = history text, %s = question.
	ContextualizePromptTemplate = `Konuşma Geçmişi:
%s

Kullanıcının Son Sorusu: %s

Görevin: Kullanıcının son sorusunu, geçmiş konuşma bağlamını kullanarak tek başına anlaşılabilir, bağımsız bir soruya dönüştürmek.
Eğer son soru zaten bağımsızsa, aynen bırak.
Soru veritabanı ile ilgili olmalı.
Sadece yeniden yazılmış soruyu döndür, açıklama ekleme.

Örnek:
Geçmiş:
user: İstanbul satışları kaç?
assistant: SELECT ...
Son Soru: Peki ya Ankara?
Çıktı: Ankara satışları kaç?`

	ContextualizeSystemMessage = "Sen bir soru netleştirme asistanısın."

	// Prompt for explaining a database error to the end user.
	// %s = question, %s = sql, %s = raw database error.
	FriendlyErrorPromptTemplate = "Kullanıcı şu soruyu sordu: '%s'. " +
		"Oluşturulan SQL: '%s'. " +
		"Ancak veritabanı şu hatayı verdi: '%s'. " +
		"Lütfen bu hatanın nedenini teknik terim kullanmadan, son kullanıcıya hitaben Türkçe olarak kısaca açıkla. " +
		"Örneğin bir sütun yoksa 'Veritabanımızda cinsiyet bilgisi bulunmamaktadır' gibi konuş. " +
		"Sadece açıklamayı döndür, başka bir şey ekleme."

	FriendlyErrorSystemMessage = "Sen bir veritabanı hatası açıklama asistanısın. " +
		"Kullanıcılara teknik olmayan, anlaşılır Türkçe açıklamalar yaparsın."

	FriendlyErrorFallbackPrefix = "Sorgu çalıştırılırken bir hata oluştu: "

	// Prompt for generating a short session title from the first message.
	// %s = first message.
	SessionTitlePromptTemplate = "Kullanıcı şu soruyu sordu: '%s'. " +
		"Bu sohbet için 3-5 kelimelik, kısa ve açıklayıcı bir başlık oluştur. " +
		"Sadece başlığı döndür, başka bir şey ekleme. " +
		"Örnek: 'Çalışan Maaş Analizi' veya 'Departman İstatistikleri'"

	SessionTitleSystemMessage = "Sen bir başlık oluşturma asistanısın. Kısa, öz ve açıklayıcı başlıklar oluşturursun."

	ClarificationMessage = "Sorunuzu biraz daha açar mısınız? Hangi tablo veya veri üzerinde çalışmak istediğinizi belirtirseniz yardımcı olabilirim."
)
