package query

import (
	"github.com/asaidimu/go-requery/core/schema"
)

// SortDirection specifies the direction of an order-by term.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Ordering pairs an expression with a sort direction.
type Ordering struct {
	Expr      Expression
	Direction SortDirection
}

// Query is an immutable query tree: a root table, the join registry that
// owns every table reference created while building it, and its clause
// trees. A Query is constructed once by the Builder and never mutated;
// the only derivation step, Reselect, produces a new Query.
type Query struct {
	meta     schema.TableMeta
	registry *JoinRegistry
	selects  []Expression
	where    []Predicate
	groupBy  []Expression
	having   Predicate
	orderBy  []Ordering
	limit    int
	offset   int
	paged    bool
	derived  bool
}

// Table returns the metadata of the root table.
func (q *Query) Table() schema.TableMeta { return q.meta }

// Root returns the root table reference.
func (q *Query) Root() *TableReference { return q.registry.Root() }

// Registry returns the join registry shared by this query and any query
// derived from it.
func (q *Query) Registry() *JoinRegistry { return q.registry }

// Selections returns the select clause expressions in order.
func (q *Query) Selections() []Expression { return q.selects }

// Where returns the conjunction of where predicates, possibly empty.
func (q *Query) Where() []Predicate { return q.where }

// GroupBy returns the group-by expressions in order, possibly empty.
func (q *Query) GroupBy() []Expression { return q.groupBy }

// Having returns the having predicate, or nil.
func (q *Query) Having() Predicate { return q.having }

// OrderBy returns the order-by terms in order, possibly empty.
func (q *Query) OrderBy() []Ordering { return q.orderBy }

// Page returns the limit and offset, and whether paging was requested.
func (q *Query) Page() (limit int, offset int, ok bool) {
	return q.limit, q.offset, q.paged
}

// IsDerived reports whether this query was produced by Reselect.
func (q *Query) IsDerived() bool { return q.derived }
