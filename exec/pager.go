package exec

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/asaidimu/go-requery/core/query"
	"github.com/asaidimu/go-requery/core/render"
	"github.com/asaidimu/go-requery/core/schema"
	"github.com/asaidimu/go-requery/dialect"
)

// Page is the result of fetching one page of a query together with the
// total row count of its unpaged form.
type Page struct {
	Rows   []schema.Document
	Total  int64
	Limit  int
	Offset int
}

// Pager runs the full pagination pipeline for a data query: it derives
// the optimized count query, renders both statements for its dialect, and
// executes them against the executor's database handle.
type Pager struct {
	executor *Executor
	dialect  dialect.Dialect
	logger   *zap.Logger
}

// NewPager creates a pager over an executor with the given dialect.
func NewPager(executor *Executor, d dialect.Dialect, logger *zap.Logger) *Pager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{executor: executor, dialect: d, logger: logger}
}

// FetchPage executes q as one page plus a total count. The page bounds
// come from the query's own limit/offset; a query without paging fetches
// every row. The original query is left untouched and may be fetched
// again with different paging.
func (p *Pager) FetchPage(ctx context.Context, q *query.Query) (*Page, error) {
	countStmt, err := render.Count(q)
	if err != nil {
		return nil, fmt.Errorf("could not derive count query: %w", err)
	}
	total, err := p.executor.Count(ctx, countStmt)
	if err != nil {
		return nil, err
	}

	body, err := render.Data(q)
	if err != nil {
		return nil, fmt.Errorf("could not render data query: %w", err)
	}
	limit, offset, paged := q.Page()
	dataStmt := body
	if paged {
		dataStmt = p.dialect.Paginate(body, limit, offset)
	}
	p.logger.Debug("fetching page",
		zap.String("dialect", p.dialect.Name()),
		zap.Int64("total", total),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	rows, err := p.executor.Query(ctx, dataStmt)
	if err != nil {
		return nil, err
	}

	return &Page{Rows: rows, Total: total, Limit: limit, Offset: offset}, nil
}
