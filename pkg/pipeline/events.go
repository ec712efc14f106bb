package pipeline

import (
	"text2sql-be/pkg/chart"
	"text2sql-be/pkg/sqlexec"

	"github.com/google/uuid"
)

type EventType string

const (
	EventToken    EventType = "token"
	EventMetadata EventType = "metadata"
	EventResult   EventType = "result"
	EventError    EventType = "error"
	EventDone     EventType = "done"
)

// Event is one element of the streamed answer. The zero-value fields
// are omitted on the wire so each event type stays compact.
type Event struct {
	Type        EventType              `json:"type"`
	Content     string                 `json:"content,omitempty"`
	Sql         string                 `json:"sql,omitempty"`
	Explanation string                 `json:"explanation,omitempty"`
	FromCache   bool                   `json:"from_cache,omitempty"`
	Result      *sqlexec.TabularResult `json:"result,omitempty"`
	Chart       *chart.Spec            `json:"chart,omitempty"`
}

// Turn is one prior (role, content) exchange supplied by the caller.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single pipeline invocation: one question against one
// session transcript.
type Request struct {
	SessionId uuid.UUID
	Question  string
	History   []Turn
}

const (
	ResultTypeDf            = "df"
	ResultTypeError         = "error"
	ResultTypeClarification = "clarification"
)

// Result is the batched (non-streaming) answer shape.
type Result struct {
	Type        string                 `json:"type"`
	Sql         string                 `json:"sql,omitempty"`
	Explanation string                 `json:"explanation,omitempty"`
	FromCache   bool                   `json:"from_cache,omitempty"`
	Result      *sqlexec.TabularResult `json:"result,omitempty"`
	Chart       *chart.Spec            `json:"chart,omitempty"`
	Message     string                 `json:"message,omitempty"`
}
