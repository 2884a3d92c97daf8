package query

import (
	"errors"
	"fmt"
)

// Derivation failures. All are caller-input validation errors raised
// synchronously; none is transient or retryable.
var (
	// ErrReselectNotAllowed is returned when reselecting a query that was
	// itself produced by Reselect.
	ErrReselectNotAllowed = errors.New("query is already derived and cannot be reselected")

	// ErrAggregateSelectNotReselectable is returned when the base query's
	// select clause contains an aggregate expression.
	ErrAggregateSelectNotReselectable = errors.New("query with an aggregate select cannot be reselected")

	// ErrGroupedQueryNotReselectable is returned when the base query has a
	// non-empty group-by: such a query yields one row per group, so a
	// derived row count is ill-defined.
	ErrGroupedQueryNotReselectable = errors.New("query with a group-by clause cannot be reselected")
)

// Reselect derives a new query from base with its select clause replaced
// by newSelect, order-by cleared, and paging cleared. The derived query
// shares base's root table, join registry, where, group-by, and having
// clauses. The base query is never mutated and remains usable, e.g. for
// the paged data fetch. Derivation is one-shot: a derived query cannot be
// reselected again.
func Reselect(base *Query, newSelect ...Expression) (*Query, error) {
	if base.IsDerived() {
		return nil, fmt.Errorf("cannot reselect query on %s: %w", base.meta.Name, ErrReselectNotAllowed)
	}
	for _, e := range base.Selections() {
		if IsAggregate(e) {
			return nil, fmt.Errorf("cannot reselect query on %s: %w", base.meta.Name, ErrAggregateSelectNotReselectable)
		}
	}
	if len(base.GroupBy()) > 0 {
		return nil, fmt.Errorf("cannot reselect query on %s: %w", base.meta.Name, ErrGroupedQueryNotReselectable)
	}

	base.registry.freeze()
	return &Query{
		meta:     base.meta,
		registry: base.registry,
		selects:  newSelect,
		where:    base.where,
		groupBy:  base.groupBy,
		having:   base.having,
		derived:  true,
	}, nil
}

// WithoutSortingAndPaging returns a copy of q with its order-by, limit,
// and offset cleared. Unlike Reselect it has no preconditions and does
// not mark the result as derived.
func WithoutSortingAndPaging(q *Query) *Query {
	clone := *q
	clone.orderBy = nil
	clone.limit = 0
	clone.offset = 0
	clone.paged = false
	return &clone
}

// DeriveCount derives the row-count query for q: select replaced by
// count(<root>.<id column>), no ordering, no paging. It is subject to the
// same preconditions as Reselect.
func DeriveCount(q *Query) (*Query, error) {
	return Reselect(q, Count(Col(q.Root(), q.meta.IDColumn)))
}
