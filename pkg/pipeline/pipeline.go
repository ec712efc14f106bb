package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"text2sql-be/internal/constant"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/pkg/chart"
	"text2sql-be/pkg/llm"
	"text2sql-be/pkg/sqlexec"
	"text2sql-be/pkg/sqlguard"

	"github.com/google/uuid"
)

// CacheHit is a semantic cache entry close enough to the question.
type CacheHit struct {
	Question string
	Sql      string
	Distance float64
}

// SemanticCache answers "have we translated a question like this
// before". Lookup fails open: any backend trouble is a miss, never an
// error.
type SemanticCache interface {
	Lookup(ctx context.Context, question string) *CacheHit
}

// Message is one transcript entry to append.
type Message struct {
	Role    string
	Content string
	Sql     *string
	Result  *sqlexec.TabularResult
	Chart   *chart.Spec
}

// Transcript appends messages to the session's ordered history.
type Transcript interface {
	Append(ctx context.Context, sessionId uuid.UUID, msg Message) error
}

type Config struct {
	GenerationTimeout time.Duration
	ResultRowLimit    int
	HistoryWindow     int
}

// Pipeline orchestrates one question through contextualization, cache
// lookup, generation, extraction, validation, execution, chart decision
// and transcript persistence. Collaborators are injected so each stage
// can be substituted in tests.
type Pipeline struct {
	llmProvider    llm.LLMProvider
	cache          SemanticCache
	runner         sqlexec.Runner
	transcript     Transcript
	contextualizer *Contextualizer
	translator     *ErrorTranslator
	logger         logger.ILogger
	cfg            Config
}

func New(
	llmProvider llm.LLMProvider,
	cache SemanticCache,
	runner sqlexec.Runner,
	transcript Transcript,
	log logger.ILogger,
	cfg Config,
) *Pipeline {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 120 * time.Second
	}
	if cfg.ResultRowLimit <= 0 {
		cfg.ResultRowLimit = 10
	}
	return &Pipeline{
		llmProvider:    llmProvider,
		cache:          cache,
		runner:         runner,
		transcript:     transcript,
		contextualizer: NewContextualizer(llmProvider, log, cfg.HistoryWindow),
		translator:     NewErrorTranslator(llmProvider, log),
		logger:         log,
		cfg:            cfg,
	}
}

// Run executes the pipeline in batched mode.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	// The user's question is persisted before any generation starts.
	if err := p.transcript.Append(ctx, req.SessionId, Message{
		Role:    constant.ChatMessageRoleUser,
		Content: req.Question,
	}); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	question := p.contextualizer.Rewrite(ctx, req.Question, req.History)

	if hit := p.cache.Lookup(ctx, question); hit != nil {
		return p.finishBatch(ctx, req, question, hit.Sql, true)
	}

	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerationTimeout)
	defer cancel()

	raw, err := p.llmProvider.Generate(genCtx, fmt.Sprintf(constant.SQLGenerationPromptTemplate, question))
	if err != nil {
		genErr := &GenerationError{Err: err}
		p.logger.Error("Pipeline", "SQL generation failed", map[string]interface{}{
			"error": genErr.Error(),
		})
		p.appendAssistantText(ctx, req.SessionId, constant.GenerationErrorMessage)
		return &Result{Type: ResultTypeError, Message: constant.GenerationErrorMessage}, nil
	}

	sql := p.extractSQL(raw)
	if !sqlguard.LooksLikeSQL(sql) {
		text := strings.TrimSpace(raw)
		if text == "" {
			text = constant.ClarificationMessage
		}
		p.appendAssistantText(ctx, req.SessionId, text)
		return &Result{Type: ResultTypeClarification, Message: text}, nil
	}

	return p.finishBatch(ctx, req, question, sql, false)
}

// finishBatch validates, persists and executes a SQL candidate, whether
// generated or served from cache.
func (p *Pipeline) finishBatch(ctx context.Context, req Request, question, sql string, fromCache bool) (*Result, error) {
	if err := sqlguard.ValidateSafety(sql); err != nil {
		p.appendAssistantText(ctx, req.SessionId, err.Error())
		return &Result{Type: ResultTypeError, Message: err.Error()}, nil
	}

	explanation := sqlguard.Explain(sql)
	p.appendAssistantSql(ctx, req.SessionId, explanation, sql)

	res, err := p.runner.Run(ctx, sql)
	if err != nil {
		friendly := p.translateExecError(ctx, question, sql, err)
		p.appendAssistantText(ctx, req.SessionId, friendly)
		return &Result{Type: ResultTypeError, Sql: sql, Message: friendly}, nil
	}

	spec := chart.Build(res, sql)
	capped := res.Truncate(p.cfg.ResultRowLimit)
	p.appendAssistantResult(ctx, req.SessionId, sql, capped, spec)

	return &Result{
		Type:        ResultTypeDf,
		Sql:         sql,
		Explanation: explanation,
		FromCache:   fromCache,
		Result:      capped,
		Chart:       spec,
	}, nil
}

// Stream executes the pipeline and delivers ordered events. The
// channel is closed after the terminal done event, or as soon as ctx is
// cancelled.
func (p *Pipeline) Stream(ctx context.Context, req Request) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		if p.stream(ctx, req, out) {
			p.send(ctx, out, Event{Type: EventDone})
		}
	}()
	return out
}

// stream runs the pipeline body, returning false only when the
// consumer went away and no terminal marker should be emitted.
func (p *Pipeline) stream(ctx context.Context, req Request, out chan<- Event) bool {
	if strings.TrimSpace(req.Question) == "" {
		return p.send(ctx, out, Event{Type: EventError, Content: "question must not be empty"})
	}

	if err := p.transcript.Append(ctx, req.SessionId, Message{
		Role:    constant.ChatMessageRoleUser,
		Content: req.Question,
	}); err != nil {
		p.logger.Error("Pipeline", "Persist user message failed", map[string]interface{}{
			"error": err.Error(),
		})
		return p.send(ctx, out, Event{Type: EventError, Content: constant.GenerationErrorMessage})
	}

	question := p.contextualizer.Rewrite(ctx, req.Question, req.History)

	if hit := p.cache.Lookup(ctx, question); hit != nil {
		// Cache hit: no generation, zero token events.
		return p.finishStream(ctx, req, question, hit.Sql, true, out)
	}

	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerationTimeout)
	defer cancel()

	chunks, err := p.llmProvider.GenerateStream(genCtx, fmt.Sprintf(constant.SQLGenerationPromptTemplate, question))
	if err != nil {
		p.logger.Error("Pipeline", "SQL generation stream failed to start", map[string]interface{}{
			"error": err.Error(),
		})
		p.appendAssistantText(ctx, req.SessionId, constant.GenerationErrorMessage)
		return p.send(ctx, out, Event{Type: EventError, Content: constant.GenerationErrorMessage})
	}

	var full strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			p.logger.Error("Pipeline", "SQL generation stream failed", map[string]interface{}{
				"error": chunk.Err.Error(),
			})
			p.appendAssistantText(ctx, req.SessionId, constant.GenerationErrorMessage)
			return p.send(ctx, out, Event{Type: EventError, Content: constant.GenerationErrorMessage})
		}
		if chunk.Content != "" {
			full.WriteString(chunk.Content)
			if !p.send(ctx, out, Event{Type: EventToken, Content: chunk.Content}) {
				return false
			}
		}
		if chunk.Done {
			break
		}
	}
	if ctx.Err() != nil {
		return false
	}

	raw := full.String()
	sql := p.extractSQL(raw)
	if !sqlguard.LooksLikeSQL(sql) {
		// The model answered in prose; the tokens already carried it.
		text := strings.TrimSpace(raw)
		if text == "" {
			text = constant.ClarificationMessage
		}
		p.appendAssistantText(ctx, req.SessionId, text)
		return true
	}

	return p.finishStream(ctx, req, question, sql, false, out)
}

func (p *Pipeline) finishStream(ctx context.Context, req Request, question, sql string, fromCache bool, out chan<- Event) bool {
	if err := sqlguard.ValidateSafety(sql); err != nil {
		p.appendAssistantText(ctx, req.SessionId, err.Error())
		return p.send(ctx, out, Event{Type: EventError, Content: err.Error()})
	}

	explanation := sqlguard.Explain(sql)
	p.appendAssistantSql(ctx, req.SessionId, explanation, sql)

	if !p.send(ctx, out, Event{
		Type:        EventMetadata,
		Sql:         sql,
		Explanation: explanation,
		FromCache:   fromCache,
	}) {
		return false
	}

	res, err := p.runner.Run(ctx, sql)
	if err != nil {
		friendly := p.translateExecError(ctx, question, sql, err)
		p.appendAssistantText(ctx, req.SessionId, friendly)
		return p.send(ctx, out, Event{Type: EventError, Content: friendly})
	}

	spec := chart.Build(res, sql)
	capped := res.Truncate(p.cfg.ResultRowLimit)
	p.appendAssistantResult(ctx, req.SessionId, sql, capped, spec)

	return p.send(ctx, out, Event{Type: EventResult, Result: capped, Chart: spec})
}

// extractSQL prefers the provider's own extraction capability when it
// has one, then falls back to the generic extractor.
func (p *Pipeline) extractSQL(raw string) string {
	if extractor, ok := p.llmProvider.(llm.SQLExtractor); ok {
		if sql := strings.TrimSpace(extractor.ExtractSQL(raw)); sql != "" {
			return sql
		}
	}
	return sqlguard.Extract(raw)
}

func (p *Pipeline) translateExecError(ctx context.Context, question, sql string, err error) string {
	raw := err.Error()
	if execErr, ok := err.(*sqlexec.ExecutionError); ok {
		raw = execErr.Raw
	}
	return p.translator.Translate(ctx, question, sql, raw)
}

// Transcript appends below are best-effort: a failed write is logged
// but does not abort an answer that is already on its way out.

func (p *Pipeline) appendAssistantText(ctx context.Context, sessionId uuid.UUID, content string) {
	p.append(ctx, sessionId, Message{
		Role:    constant.ChatMessageRoleAssistant,
		Content: content,
	})
}

func (p *Pipeline) appendAssistantSql(ctx context.Context, sessionId uuid.UUID, explanation, sql string) {
	p.append(ctx, sessionId, Message{
		Role:    constant.ChatMessageRoleAssistant,
		Content: explanation,
		Sql:     &sql,
	})
}

func (p *Pipeline) appendAssistantResult(ctx context.Context, sessionId uuid.UUID, sql string, res *sqlexec.TabularResult, spec *chart.Spec) {
	p.append(ctx, sessionId, Message{
		Role:   constant.ChatMessageRoleAssistant,
		Sql:    &sql,
		Result: res,
		Chart:  spec,
	})
}

func (p *Pipeline) append(ctx context.Context, sessionId uuid.UUID, msg Message) {
	if err := p.transcript.Append(ctx, sessionId, msg); err != nil {
		p.logger.Error("Pipeline", "Persist assistant message failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}

func (p *Pipeline) send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
