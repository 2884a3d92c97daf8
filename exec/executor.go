// Package exec is the execution collaborator: it runs rendered statements
// against a database/sql connection, scans rows into generic documents,
// and emits query lifecycle events for observability. The engine itself
// never opens a connection; this package is its only I/O surface.
package exec

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asaidimu/go-requery/core/render"
	"github.com/asaidimu/go-requery/core/schema"
)

// Executor runs render.Result statements against a database handle.
type Executor struct {
	db     *sql.DB
	logger *zap.Logger
	bus    *events.TypedEventBus[QueryEvent]
}

// NewExecutor creates an executor over the given database handle. A nil
// logger disables logging.
func NewExecutor(db *sql.DB, logger *zap.Logger) (*Executor, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := events.NewTypedEventBus[QueryEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &Executor{db: db, logger: logger, bus: bus}, nil
}

// Subscribe registers a callback for a query event type and returns an
// unsubscribe function.
func (e *Executor) Subscribe(eventType QueryEventType, callback EventCallback) func() {
	return e.bus.Subscribe(string(eventType), callback)
}

// Query executes a rendered statement and scans every row into a generic
// document keyed by result column name.
func (e *Executor) Query(ctx context.Context, stmt render.Result) ([]schema.Document, error) {
	statementID := uuid.NewString()
	start := time.Now()
	e.emit(newEvent(QueryStart, statementID, stmt.SQL, stmt.Params))
	e.logger.Debug("executing query",
		zap.String("statementId", statementID),
		zap.String("sql", stmt.SQL),
		zap.Int("paramCount", len(stmt.Params)))

	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		e.emitFailed(statementID, stmt, start, err)
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	documents, err := scanRows(rows)
	if err != nil {
		e.emitFailed(statementID, stmt, start, err)
		return nil, err
	}

	e.emitSuccess(statementID, stmt, start, int64(len(documents)))
	return documents, nil
}

// Count executes a rendered statement expected to yield a single integer
// column, such as a derived count query.
func (e *Executor) Count(ctx context.Context, stmt render.Result) (int64, error) {
	statementID := uuid.NewString()
	start := time.Now()
	e.emit(newEvent(QueryStart, statementID, stmt.SQL, stmt.Params))

	var total int64
	if err := e.db.QueryRowContext(ctx, stmt.SQL, stmt.Params...).Scan(&total); err != nil {
		e.emitFailed(statementID, stmt, start, err)
		return 0, fmt.Errorf("count query failed: %w", err)
	}

	e.emitSuccess(statementID, stmt, start, 1)
	return total, nil
}

func (e *Executor) emit(event QueryEvent) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

func (e *Executor) emitSuccess(statementID string, stmt render.Result, start time.Time, rowCount int64) {
	event := newEvent(QuerySuccess, statementID, stmt.SQL, stmt.Params)
	duration := time.Since(start).Milliseconds()
	event.Duration = &duration
	event.RowCount = &rowCount
	e.emit(event)
}

func (e *Executor) emitFailed(statementID string, stmt render.Result, start time.Time, err error) {
	e.logger.Error("query failed",
		zap.String("statementId", statementID),
		zap.String("sql", stmt.SQL),
		zap.Error(err))
	event := newEvent(QueryFailed, statementID, stmt.SQL, stmt.Params)
	duration := time.Since(start).Milliseconds()
	errStr := err.Error()
	event.Duration = &duration
	event.Error = &errStr
	e.emit(event)
}
