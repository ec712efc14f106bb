package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"text2sql-be/pkg/llm"
	"text2sql-be/pkg/sqlexec"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeLLM struct {
	mu            sync.Mutex
	generateResp  string
	generateErr   error
	chatResp      string
	chatErr       error
	generateCalls int
	lastPrompt    string
	endless       bool
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.chatResp, f.chatErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	f.generateCalls++
	f.lastPrompt = prompt
	f.mu.Unlock()
	return f.generateResp, f.generateErr
}

func (f *fakeLLM) GenerateStream(ctx context.Context, prompt string, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	f.mu.Lock()
	f.generateCalls++
	f.lastPrompt = prompt
	f.mu.Unlock()
	if f.generateErr != nil {
		return nil, f.generateErr
	}

	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		if f.endless {
			for {
				select {
				case out <- llm.StreamChunk{Content: "tok "}:
				case <-ctx.Done():
					return
				}
			}
		}
		resp := f.generateResp
		for len(resp) > 0 {
			n := 8
			if n > len(resp) {
				n = len(resp)
			}
			select {
			case out <- llm.StreamChunk{Content: resp[:n]}:
			case <-ctx.Done():
				return
			}
			resp = resp[n:]
		}
		select {
		case out <- llm.StreamChunk{Done: true}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateCalls
}

type fakeCache struct {
	hit     *CacheHit
	lookups int
}

func (f *fakeCache) Lookup(ctx context.Context, question string) *CacheHit {
	f.lookups++
	return f.hit
}

type fakeRunner struct {
	res   *sqlexec.TabularResult
	err   error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, sql string) (*sqlexec.TabularResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeTranscript struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (f *fakeTranscript) Append(ctx context.Context, sessionId uuid.UUID, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeTranscript) all() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.messages...)
}

func employeeResult() *sqlexec.TabularResult {
	return &sqlexec.TabularResult{
		Columns: []string{"name", "department", "salary"},
		Rows: []sqlexec.Row{
			{"name": "Ali", "department": "Engineering", "salary": float64(95000)},
			{"name": "Ayşe", "department": "Engineering", "salary": float64(91000)},
			{"name": "Mehmet", "department": "Engineering", "salary": float64(88000)},
			{"name": "Zeynep", "department": "Engineering", "salary": float64(85000)},
		},
		RowCount: 4,
	}
}

func newTestPipeline(l *fakeLLM, c *fakeCache, r *fakeRunner, tr *fakeTranscript) *Pipeline {
	return New(l, c, r, tr, nopLogger{}, Config{
		GenerationTimeout: 5 * time.Second,
		ResultRowLimit:    10,
		HistoryWindow:     5,
	})
}

// --- Batched mode ---

func TestRunSuccessPersistsFullTranscript(t *testing.T) {
	l := &fakeLLM{generateResp: "```sql\nSELECT name, department, salary FROM employees WHERE department='Engineering' ORDER BY salary DESC;\n```"}
	c := &fakeCache{}
	r := &fakeRunner{res: employeeResult()}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{
		SessionId: uuid.New(),
		Question:  "Show employees in Engineering sorted by salary",
	})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeDf, res.Type)
	assert.False(t, res.FromCache)
	assert.Contains(t, res.Sql, "ORDER BY salary DESC")
	require.NotNil(t, res.Chart)
	assert.Equal(t, "horizontal_bar", res.Chart.Kind)

	msgs := tr.all()
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Show employees in Engineering sorted by salary", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	require.NotNil(t, msgs[1].Sql)
	assert.Equal(t, "assistant", msgs[2].Role)
	require.NotNil(t, msgs[2].Result)
	assert.Equal(t, 4, msgs[2].Result.RowCount)
}

func TestRunValidationFailureSkipsExecution(t *testing.T) {
	l := &fakeLLM{generateResp: "DELETE FROM employees;"}
	c := &fakeCache{}
	r := &fakeRunner{res: employeeResult()}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "İK sorguyu sil"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeError, res.Type)
	assert.Contains(t, res.Message, "DELETE")
	assert.Zero(t, r.calls, "execution must never run on a validation failure")

	msgs := tr.all()
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[1].Result, "no result message may be persisted")
}

func TestRunCacheHitSkipsGeneration(t *testing.T) {
	l := &fakeLLM{generateResp: "should not be used"}
	c := &fakeCache{hit: &CacheHit{Question: "Kaç çalışan var?", Sql: "SELECT COUNT(*) FROM employees", Distance: 0.1}}
	r := &fakeRunner{res: &sqlexec.TabularResult{
		Columns:  []string{"count"},
		Rows:     []sqlexec.Row{{"count": int64(42)}},
		RowCount: 1,
	}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "Toplam çalışan sayısı?"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeDf, res.Type)
	assert.True(t, res.FromCache)
	assert.Zero(t, l.calls(), "cache hit must not call the generator")
	assert.Equal(t, 1, r.calls)
}

func TestRunCachedSqlIsStillValidated(t *testing.T) {
	l := &fakeLLM{}
	c := &fakeCache{hit: &CacheHit{Sql: "DROP TABLE employees", Distance: 0.05}}
	r := &fakeRunner{}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "tabloyu getir"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeError, res.Type)
	assert.Contains(t, res.Message, "DROP")
	assert.Zero(t, r.calls)
}

func TestRunExecutionErrorIsTranslated(t *testing.T) {
	l := &fakeLLM{
		generateResp: "SELECT gender FROM employees",
		chatResp:     "Veritabanımızda cinsiyet bilgisi bulunmamaktadır.",
	}
	c := &fakeCache{}
	r := &fakeRunner{err: &sqlexec.ExecutionError{Raw: `column "gender" does not exist`}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "Cinsiyete göre dağılım"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeError, res.Type)
	assert.Equal(t, "Veritabanımızda cinsiyet bilgisi bulunmamaktadır.", res.Message)

	msgs := tr.all()
	require.Len(t, msgs, 3) // user, sql message, translated error
	assert.Equal(t, res.Message, msgs[2].Content)
}

func TestRunTranslatorFailureFallsBackToTruncatedRaw(t *testing.T) {
	l := &fakeLLM{
		generateResp: "SELECT gender FROM employees",
		chatErr:      fmt.Errorf("llm unavailable"),
	}
	c := &fakeCache{}
	r := &fakeRunner{err: &sqlexec.ExecutionError{Raw: `column "gender" does not exist`}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "Cinsiyete göre dağılım"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeError, res.Type)
	assert.Contains(t, res.Message, "Sorgu çalıştırılırken bir hata oluştu")
	assert.Contains(t, res.Message, "gender")
}

func TestRunClarificationWhenNoSqlGenerated(t *testing.T) {
	l := &fakeLLM{generateResp: "Hangi departmanı kastediyorsunuz?"}
	c := &fakeCache{}
	r := &fakeRunner{}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	res, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "oradakileri göster"})
	require.NoError(t, err)

	assert.Equal(t, ResultTypeClarification, res.Type)
	assert.Equal(t, "Hangi departmanı kastediyorsunuz?", res.Message)
	assert.Zero(t, r.calls)
}

func TestRunContextualizerFailureUsesOriginalQuestion(t *testing.T) {
	l := &fakeLLM{
		generateResp: "SELECT COUNT(*) FROM employees",
		chatErr:      fmt.Errorf("rewrite backend down"),
	}
	c := &fakeCache{}
	r := &fakeRunner{res: &sqlexec.TabularResult{
		Columns:  []string{"count", "total"},
		Rows:     []sqlexec.Row{{"count": int64(1), "total": int64(2)}, {"count": int64(3), "total": int64(4)}},
		RowCount: 2,
	}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	_, err := p.Run(context.Background(), Request{
		SessionId: uuid.New(),
		Question:  "Peki ya Ankara?",
		History:   []Turn{{Role: "user", Content: "İstanbul satışları kaç?"}},
	})
	require.NoError(t, err)
	assert.Contains(t, l.lastPrompt, "Peki ya Ankara?")
}

func TestRunEmptyQuestionRejected(t *testing.T) {
	p := newTestPipeline(&fakeLLM{}, &fakeCache{}, &fakeRunner{}, &fakeTranscript{})
	_, err := p.Run(context.Background(), Request{SessionId: uuid.New(), Question: "   "})
	require.Error(t, err)
}

// --- Streaming mode ---

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestStreamMissOrdering(t *testing.T) {
	l := &fakeLLM{generateResp: "SELECT department, COUNT(*) AS total FROM employees GROUP BY department"}
	c := &fakeCache{}
	r := &fakeRunner{res: &sqlexec.TabularResult{
		Columns:  []string{"department", "total"},
		Rows:     []sqlexec.Row{{"department": "Eng", "total": int64(10)}, {"department": "Sales", "total": int64(4)}},
		RowCount: 2,
	}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	events := collectEvents(p.Stream(context.Background(), Request{SessionId: uuid.New(), Question: "Departman dağılımı"}))
	require.NotEmpty(t, events)

	lastToken, metadataAt, resultAt := -1, -1, -1
	for i, ev := range events {
		switch ev.Type {
		case EventToken:
			lastToken = i
		case EventMetadata:
			metadataAt = i
		case EventResult:
			resultAt = i
		}
	}

	require.GreaterOrEqual(t, lastToken, 0, "miss must stream tokens")
	require.Greater(t, metadataAt, lastToken, "metadata must follow the last token")
	require.Greater(t, resultAt, metadataAt, "result must follow metadata")
	assert.Equal(t, EventDone, events[len(events)-1].Type)
	assert.False(t, events[metadataAt].FromCache)
}

func TestStreamCacheHitEmitsNoTokens(t *testing.T) {
	l := &fakeLLM{}
	c := &fakeCache{hit: &CacheHit{Sql: "SELECT COUNT(*) FROM employees", Distance: 0.2}}
	r := &fakeRunner{res: &sqlexec.TabularResult{
		Columns:  []string{"count"},
		Rows:     []sqlexec.Row{{"count": int64(42)}},
		RowCount: 1,
	}}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	events := collectEvents(p.Stream(context.Background(), Request{SessionId: uuid.New(), Question: "Kaç çalışan var?"}))

	var metadataCount int
	for _, ev := range events {
		require.NotEqual(t, EventToken, ev.Type, "cache hit must not stream tokens")
		if ev.Type == EventMetadata {
			metadataCount++
			assert.True(t, ev.FromCache)
		}
	}
	assert.Equal(t, 1, metadataCount)
	assert.Zero(t, l.calls())
	assert.Equal(t, EventDone, events[len(events)-1].Type)
}

func TestStreamValidationFailureEmitsErrorWithoutResult(t *testing.T) {
	l := &fakeLLM{generateResp: "DELETE FROM employees;"}
	c := &fakeCache{}
	r := &fakeRunner{}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	events := collectEvents(p.Stream(context.Background(), Request{SessionId: uuid.New(), Question: "hepsini sil"}))

	var sawError bool
	for _, ev := range events {
		require.NotEqual(t, EventResult, ev.Type)
		require.NotEqual(t, EventMetadata, ev.Type, "validation failure short-circuits metadata")
		if ev.Type == EventError {
			sawError = true
			assert.Contains(t, ev.Content, "DELETE")
		}
	}
	assert.True(t, sawError)
	assert.Zero(t, r.calls)
	assert.Equal(t, EventDone, events[len(events)-1].Type)
}

func TestStreamCancellationStopsEmission(t *testing.T) {
	l := &fakeLLM{endless: true}
	c := &fakeCache{}
	r := &fakeRunner{}
	tr := &fakeTranscript{}
	p := newTestPipeline(l, c, r, tr)

	ctx, cancel := context.WithCancel(context.Background())
	ch := p.Stream(ctx, Request{SessionId: uuid.New(), Question: "sonsuz"})

	// Consume a couple of tokens, then walk away.
	<-ch
	<-ch
	cancel()

	var got []Event
	for ev := range ch {
		got = append(got, ev)
	}
	for _, ev := range got {
		assert.NotEqual(t, EventDone, ev.Type, "cancelled stream must not emit done")
		assert.NotEqual(t, EventResult, ev.Type)
	}
}
