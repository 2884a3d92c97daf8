package query

import (
	"fmt"

	"github.com/asaidimu/go-requery/core/schema"
)

// Builder provides a fluent API for constructing a Query. It owns the
// join registry during the construction phase and resolves association
// properties through a MetadataProvider; Build finalizes the query and
// freezes the registry.
type Builder struct {
	provider schema.MetadataProvider
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
	err      error
}

// NewBuilder creates a query builder rooted at the given table. The
// provider resolves association properties navigated via Join.
func NewBuilder(provider schema.MetadataProvider, meta schema.TableMeta) *Builder {
	return &Builder{
		provider: provider,
		meta:     meta,
		registry: NewJoinRegistry(meta),
	}
}

// Root returns the root table reference for use in expressions.
func (b *Builder) Root() *TableReference {
	return b.registry.Root()
}

// Join navigates the named association from parent, returning the
// deduplicated table reference for that path. Resolution errors are
// deferred to Build.
func (b *Builder) Join(parent *TableReference, property string, joinType JoinType) *TableReference {
	if b.err != nil {
		return parent
	}
	desc, err := b.provider.Association(parent.Table(), property)
	if err != nil {
		b.err = fmt.Errorf("cannot resolve association %s.%s: %w", parent.Table(), property, err)
		return parent
	}
	ref, err := b.registry.Join(parent, desc, joinType)
	if err != nil {
		b.err = err
		return parent
	}
	return ref
}

// Select appends expressions to the select clause.
func (b *Builder) Select(exprs ...Expression) *Builder {
	b.selects = append(b.selects, exprs...)
	return b
}

// Where appends predicates to the where conjunction.
func (b *Builder) Where(preds ...Predicate) *Builder {
	b.where = append(b.where, preds...)
	return b
}

// GroupBy appends expressions to the group-by clause.
func (b *Builder) GroupBy(exprs ...Expression) *Builder {
	b.groupBy = append(b.groupBy, exprs...)
	return b
}

// Having sets the having predicate.
func (b *Builder) Having(pred Predicate) *Builder {
	b.having = pred
	return b
}

// OrderBy appends an order-by term.
func (b *Builder) OrderBy(expr Expression, direction SortDirection) *Builder {
	b.orderBy = append(b.orderBy, Ordering{Expr: expr, Direction: direction})
	return b
}

// OrderByAsc appends an ascending order-by term.
func (b *Builder) OrderByAsc(expr Expression) *Builder {
	return b.OrderBy(expr, SortAsc)
}

// OrderByDesc appends a descending order-by term.
func (b *Builder) OrderByDesc(expr Expression) *Builder {
	return b.OrderBy(expr, SortDesc)
}

// Page sets the limit and offset. Both must be non-negative.
func (b *Builder) Page(limit, offset int) *Builder {
	if limit < 0 || offset < 0 {
		b.err = fmt.Errorf("limit and offset must be non-negative, got limit=%d offset=%d", limit, offset)
		return b
	}
	b.limit = limit
	b.offset = offset
	b.paged = true
	return b
}

// Build finalizes the query, freezing its join registry. The builder must
// not be reused afterwards.
func (b *Builder) Build() (*Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.registry.freeze()
	return &Query{
		meta:     b.meta,
		registry: b.registry,
		selects:  b.selects,
		where:    b.where,
		groupBy:  b.groupBy,
		having:   b.having,
		orderBy:  b.orderBy,
		limit:    b.limit,
		offset:   b.offset,
		paged:    b.paged,
	}, nil
}
