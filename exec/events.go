package exec

import (
	"context"
	"time"
)

// QueryEventType defines the lifecycle events emitted around statement
// execution.
type QueryEventType string

const (
	QueryStart   QueryEventType = "query:start"
	QuerySuccess QueryEventType = "query:success"
	QueryFailed  QueryEventType = "query:failed"
)

// QueryEvent describes one execution of a rendered statement.
type QueryEvent struct {
	Type        QueryEventType `json:"type"`
	StatementID string         `json:"statementId"`        // Unique ID shared by the start/success/failed events of one execution.
	SQL         string         `json:"sql"`                // The rendered SQL text.
	Params      []any          `json:"params,omitempty"`   // Bound parameter values in placeholder order.
	Timestamp   int64          `json:"timestamp"`          // Unix milliseconds when the event occurred.
	Duration    *int64         `json:"duration,omitempty"` // Execution duration in milliseconds, on success/failed.
	RowCount    *int64         `json:"rowCount,omitempty"` // Rows returned, on success.
	Error       *string        `json:"error,omitempty"`    // Error message, on failed.
}

// EventCallback is invoked for each published event of a subscribed type.
type EventCallback func(ctx context.Context, event QueryEvent) error

func newEvent(eventType QueryEventType, statementID, sql string, params []any) QueryEvent {
	return QueryEvent{
		Type:        eventType,
		StatementID: statementID,
		SQL:         sql,
		Params:      params,
		Timestamp:   time.Now().UnixMilli(),
	}
}
