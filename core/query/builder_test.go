package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-requery/core/schema"
)

func bookProvider(t *testing.T) *schema.StaticProvider {
	t.Helper()
	provider := schema.NewStaticProvider()
	require.NoError(t, provider.RegisterTable(schema.TableMeta{Name: "BOOK", IDColumn: "ID"}))
	require.NoError(t, provider.RegisterTable(schema.TableMeta{Name: "BOOK_STORE", IDColumn: "ID"}))
	require.NoError(t, provider.RegisterAssociation("BOOK", storeAssociation()))
	return provider
}

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	q, err := builder.
		Select(Col(builder.Root(), "ID")).
		Where(Between(Col(builder.Root(), "PRICE"), Value(10), Value(50))).
		OrderByDesc(Col(builder.Root(), "NAME")).
		Page(10, 90).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "BOOK", q.Table().Name)
	assert.Len(t, q.Selections(), 1)
	assert.Len(t, q.Where(), 1)
	assert.Len(t, q.OrderBy(), 1)
	assert.False(t, q.IsDerived())

	limit, offset, paged := q.Page()
	assert.True(t, paged)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 90, offset)
}

func TestBuilder_JoinResolvesThroughProvider(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())

	store := builder.Join(builder.Root(), "store", JoinInner)
	q, err := builder.Select(Col(store, "NAME")).Build()
	require.NoError(t, err)

	require.Len(t, q.Registry().References(), 2)
	assert.Equal(t, "BOOK_STORE", store.Table())
	assert.Equal(t, "tb_2_", store.Alias())
	assert.Equal(t, "store", store.Association().Name)
}

func TestBuilder_JoinDedupAcrossClauses(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())

	forOrdering := builder.Join(builder.Root(), "store", JoinInner)
	forFiltering := builder.Join(builder.Root(), "store", JoinInner)

	assert.Same(t, forOrdering, forFiltering)

	q, err := builder.
		Where(Eq(Col(forFiltering, "NAME"), Value("MANNING"))).
		OrderByAsc(Col(forOrdering, "NAME")).
		Build()
	require.NoError(t, err)
	assert.Len(t, q.Registry().References(), 2, "repeated navigation must not add a second join")
}

func TestBuilder_UnknownAssociation(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())

	builder.Join(builder.Root(), "publisher", JoinInner)
	_, err := builder.Build()
	assert.ErrorContains(t, err, "publisher")
}

func TestBuilder_NegativePage(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		offset int
	}{
		{name: "negative limit", limit: -1, offset: 0},
		{name: "negative offset", limit: 10, offset: -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(bookProvider(t), bookMeta())
			_, err := builder.Page(tt.limit, tt.offset).Build()
			assert.Error(t, err)
		})
	}
}

func TestBuilder_BuildFreezesRegistry(t *testing.T) {
	builder := NewBuilder(bookProvider(t), bookMeta())
	q, err := builder.Build()
	require.NoError(t, err)

	_, err = q.Registry().Join(q.Root(), storeAssociation(), JoinInner)
	assert.Error(t, err)
}
