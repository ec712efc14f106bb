package pipeline

import (
	"context"
	"fmt"
	"strings"

	"text2sql-be/internal/constant"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/pkg/llm"
)

// Contextualizer rewrites a follow-up question into a standalone one
// using the recent history. Every failure mode falls back to the
// original question; it never blocks the pipeline.
type Contextualizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	window      int // how many trailing turns feed the rewrite prompt
}

func NewContextualizer(llmProvider llm.LLMProvider, log logger.ILogger, window int) *Contextualizer {
	if window <= 0 {
		window = 5
	}
	return &Contextualizer{
		llmProvider: llmProvider,
		logger:      log,
		window:      window,
	}
}

func (c *Contextualizer) Rewrite(ctx context.Context, question string, history []Turn) string {
	if len(history) == 0 {
		return question
	}

	recent := history
	if len(recent) > c.window {
		recent = recent[len(recent)-c.window:]
	}

	var sb strings.Builder
	for _, turn := range recent {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}

	prompt := fmt.Sprintf(constant.ContextualizePromptTemplate, sb.String(), question)
	rewritten, err := c.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ContextualizeSystemMessage},
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		c.logger.Warn("Contextualizer", "Rewrite failed, using original question", map[string]interface{}{
			"error": err.Error(),
		})
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}
	return rewritten
}
