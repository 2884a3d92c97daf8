package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReselect_Derivation(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	store := builder.Join(builder.Root(), "store", JoinInner)
	base, err := builder.
		Select(Col(builder.Root(), "ID"), Col(builder.Root(), "NAME")).
		Where(Between(Col(builder.Root(), "PRICE"), Value(10), Value(50))).
		OrderByAsc(Col(store, "NAME")).
		Page(10, 90).
		Build()
	require.NoError(t, err)

	derived, err := Reselect(base, Count(Col(base.Root(), "ID")))
	require.NoError(t, err)

	assert.True(t, derived.IsDerived())
	assert.Len(t, derived.Selections(), 1)
	assert.Empty(t, derived.OrderBy())
	_, _, paged := derived.Page()
	assert.False(t, paged)

	// Root, registry, and where clause are shared with the base.
	assert.Same(t, base.Root(), derived.Root())
	assert.Same(t, base.Registry(), derived.Registry())
	assert.Equal(t, base.Where(), derived.Where())

	// The base is untouched and still paged.
	assert.False(t, base.IsDerived())
	assert.Len(t, base.Selections(), 2)
	assert.Len(t, base.OrderBy(), 1)
	limit, offset, paged := base.Page()
	assert.True(t, paged)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 90, offset)
}

func TestReselect_AlreadyDerived(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	base, err := builder.Select(Col(builder.Root(), "ID")).Build()
	require.NoError(t, err)

	derived, err := DeriveCount(base)
	require.NoError(t, err)

	_, err = Reselect(derived, Col(derived.Root(), "NAME"))
	assert.ErrorIs(t, err, ErrReselectNotAllowed)

	_, err = DeriveCount(derived)
	assert.ErrorIs(t, err, ErrReselectNotAllowed)
}

func TestReselect_AggregateSelect(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	base, err := builder.Select(Count(Col(builder.Root(), "ID"))).Build()
	require.NoError(t, err)

	_, err = Reselect(base, Col(base.Root(), "ID"))
	assert.ErrorIs(t, err, ErrAggregateSelectNotReselectable)
}

func TestReselect_GroupedQuery(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	base, err := builder.
		Select(Col(builder.Root(), "STORE_ID")).
		GroupBy(Col(builder.Root(), "STORE_ID")).
		Build()
	require.NoError(t, err)

	_, err = Reselect(base, Col(base.Root(), "ID"))
	assert.ErrorIs(t, err, ErrGroupedQueryNotReselectable)
}

func TestReselect_ErrorNamesQuery(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	base, err := builder.Select(Count(Col(builder.Root(), "ID"))).Build()
	require.NoError(t, err)

	_, err = Reselect(base, Col(base.Root(), "ID"))
	assert.ErrorContains(t, err, "BOOK")
}

func TestWithoutSortingAndPaging(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	q, err := builder.
		Select(Col(builder.Root(), "ID")).
		OrderByDesc(Col(builder.Root(), "PRICE")).
		Page(20, 40).
		Build()
	require.NoError(t, err)

	stripped := WithoutSortingAndPaging(q)

	assert.Empty(t, stripped.OrderBy())
	_, _, paged := stripped.Page()
	assert.False(t, paged)
	assert.False(t, stripped.IsDerived(), "stripping is not a derivation")
	assert.Equal(t, q.Selections(), stripped.Selections())

	// The original keeps its ordering and paging.
	assert.Len(t, q.OrderBy(), 1)
	_, _, paged = q.Page()
	assert.True(t, paged)
}

func TestDeriveCount_SelectsRootID(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	base, err := builder.Build()
	require.NoError(t, err)

	derived, err := DeriveCount(base)
	require.NoError(t, err)

	require.Len(t, derived.Selections(), 1)
	agg, ok := derived.Selections()[0].(*AggregateExpr)
	require.True(t, ok)
	assert.Equal(t, "count", agg.Fn)
	col, ok := agg.Arg.(*ColumnExpr)
	require.True(t, ok)
	assert.Same(t, base.Root(), col.Table)
	assert.Equal(t, "ID", col.Name)
}
