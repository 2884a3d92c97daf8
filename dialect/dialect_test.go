package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-requery/core/render"
)

func body() render.Result {
	return render.Result{
		SQL:    "select tb_1_.ID from BOOK as tb_1_ where tb_1_.PRICE between ? and ? order by tb_1_.NAME asc",
		Params: []any{10, 50},
	}
}

func TestFor(t *testing.T) {
	for _, name := range []string{NameDefault, NameMySQL, NameSQLServer, NameOracle} {
		d, err := For(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
}

func TestFor_Unsupported(t *testing.T) {
	_, err := For("postgres-xl")
	assert.ErrorIs(t, err, ErrUnsupportedDialect)
	assert.ErrorContains(t, err, "postgres-xl")
}

func TestPaginate_Suffixes(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "default offset style",
			dialect:    Default{},
			wantSQL:    body().SQL + " limit ? offset ?",
			wantParams: []any{10, 50, 10, 90},
		},
		{
			name:       "mysql comma style",
			dialect:    MySQL{},
			wantSQL:    body().SQL + " limit ?, ?",
			wantParams: []any{10, 50, 90, 10},
		},
		{
			name:       "sqlserver offset-fetch style",
			dialect:    SQLServer{},
			wantSQL:    body().SQL + " offset ? rows fetch next ? rows only",
			wantParams: []any{10, 50, 90, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.Paginate(body(), 10, 90)
			assert.Equal(t, tt.wantSQL, result.SQL)
			assert.Equal(t, tt.wantParams, result.Params)
		})
	}
}

func TestOracle_WithOffset(t *testing.T) {
	result := Oracle{}.Paginate(body(), 10, 90)

	assert.Equal(t,
		"select * from ( select core__.*, rownum rn__ from ( "+body().SQL+
			" ) core__ where rownum <= ? ) limited__ where rn__ > ?",
		result.SQL)
	// The rownum cap binds limit+offset, then the outer filter binds the
	// offset, both after the body's own parameters.
	assert.Equal(t, []any{10, 50, 100, 90}, result.Params)
}

func TestOracle_WithoutOffset(t *testing.T) {
	result := Oracle{}.Paginate(body(), 10, 0)

	assert.Equal(t,
		"select core__.* from ( "+body().SQL+" ) core__ where rownum <= ?",
		result.SQL)
	assert.Equal(t, []any{10, 50, 10}, result.Params)
}

func TestPaginate_DoesNotAliasBodyParams(t *testing.T) {
	original := body()
	paramsBefore := make([]any, len(original.Params))
	copy(paramsBefore, original.Params)

	for _, d := range []Dialect{Default{}, MySQL{}, SQLServer{}, Oracle{}} {
		paged := d.Paginate(original, 5, 15)
		assert.Equal(t, paramsBefore, original.Params, "dialect %s must not mutate the body", d.Name())
		assert.GreaterOrEqual(t, len(paged.Params), len(paramsBefore)+1)
	}
}
