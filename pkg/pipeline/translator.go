package pipeline

import (
	"context"
	"fmt"
	"strings"

	"text2sql-be/internal/constant"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/pkg/llm"
)

const rawErrorSnippetLen = 100

// ErrorTranslator turns a raw database error into a short non-technical
// explanation for the end user. Translate never returns an error: any
// delegate failure degrades to a truncated raw message.
type ErrorTranslator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewErrorTranslator(llmProvider llm.LLMProvider, log logger.ILogger) *ErrorTranslator {
	return &ErrorTranslator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (t *ErrorTranslator) Translate(ctx context.Context, question, sql, rawError string) string {
	questionText := question
	if questionText == "" {
		questionText = "SQL sorgusu"
	}

	prompt := fmt.Sprintf(constant.FriendlyErrorPromptTemplate, questionText, sql, rawError)
	friendly, err := t.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.FriendlyErrorSystemMessage},
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		t.logger.Warn("ErrorTranslator", "Friendly error generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return t.fallback(rawError)
	}

	friendly = strings.TrimSpace(friendly)
	if friendly == "" {
		return t.fallback(rawError)
	}
	return friendly
}

func (t *ErrorTranslator) fallback(rawError string) string {
	snippet := rawError
	if len(snippet) > rawErrorSnippetLen {
		snippet = snippet[:rawErrorSnippetLen]
	}
	return constant.FriendlyErrorFallbackPrefix + snippet
}
