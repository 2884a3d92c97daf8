// Package dialect implements database-specific pagination rendering. Each
// dialect is a strategy that wraps or suffixes the unpaginated query body
// produced by the render package; the body itself is identical across
// dialects, and the 1:1 correspondence between "?" placeholders and the
// parameter sequence is preserved through wrapping.
package dialect

import (
	"errors"
	"fmt"

	"github.com/asaidimu/go-requery/core/render"
)

// ErrUnsupportedDialect is returned when pagination is requested for a
// dialect name outside the supported set.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Dialect renders the paging clause for a query body. Implementations
// must append the limit/offset parameters in the order their placeholders
// appear in the rendered text, after the body's own parameters.
type Dialect interface {
	// Name returns the dialect's registry name.
	Name() string

	// Paginate applies limit/offset to the body. Both values are
	// non-negative; limit is the page size and offset the number of rows
	// skipped.
	Paginate(body render.Result, limit, offset int) render.Result
}

// Dialect names accepted by For.
const (
	NameDefault   = "default"
	NameMySQL     = "mysql"
	NameSQLServer = "sqlserver"
	NameOracle    = "oracle"
)

// For returns the dialect registered under the given name. The set is
// closed; unknown names fail with ErrUnsupportedDialect.
func For(name string) (Dialect, error) {
	switch name {
	case NameDefault:
		return Default{}, nil
	case NameMySQL:
		return MySQL{}, nil
	case NameSQLServer:
		return SQLServer{}, nil
	case NameOracle:
		return Oracle{}, nil
	default:
		return nil, fmt.Errorf("no pagination strategy for %q: %w", name, ErrUnsupportedDialect)
	}
}

// Default renders ANSI-style "limit ? offset ?" pagination.
type Default struct{}

// Name implements Dialect.
func (Default) Name() string { return NameDefault }

// Paginate implements Dialect.
func (Default) Paginate(body render.Result, limit, offset int) render.Result {
	return render.Result{
		SQL:    body.SQL + " limit ? offset ?",
		Params: appendParams(body.Params, limit, offset),
	}
}

// MySQL renders comma-style "limit <offset>, <limit>" pagination.
type MySQL struct{}

// Name implements Dialect.
func (MySQL) Name() string { return NameMySQL }

// Paginate implements Dialect.
func (MySQL) Paginate(body render.Result, limit, offset int) render.Result {
	return render.Result{
		SQL:    body.SQL + " limit ?, ?",
		Params: appendParams(body.Params, offset, limit),
	}
}

// SQLServer renders offset-fetch pagination.
type SQLServer struct{}

// Name implements Dialect.
func (SQLServer) Name() string { return NameSQLServer }

// Paginate implements Dialect.
func (SQLServer) Paginate(body render.Result, limit, offset int) render.Result {
	return render.Result{
		SQL:    body.SQL + " offset ? rows fetch next ? rows only",
		Params: appendParams(body.Params, offset, limit),
	}
}

// Oracle renders rownum-wrapping pagination. With no offset the body is
// wrapped once and capped at limit rows; with an offset the capped wrap
// is wrapped again to skip the first offset rows.
type Oracle struct{}

// Name implements Dialect.
func (Oracle) Name() string { return NameOracle }

// Paginate implements Dialect.
func (Oracle) Paginate(body render.Result, limit, offset int) render.Result {
	if offset == 0 {
		return render.Result{
			SQL:    "select core__.* from ( " + body.SQL + " ) core__ where rownum <= ?",
			Params: appendParams(body.Params, limit),
		}
	}
	return render.Result{
		SQL: "select * from ( select core__.*, rownum rn__ from ( " + body.SQL +
			" ) core__ where rownum <= ? ) limited__ where rn__ > ?",
		Params: appendParams(body.Params, limit+offset, offset),
	}
}

// appendParams copies the body parameters before appending the paging
// values, so pagination never aliases the body's slice.
func appendParams(body []any, values ...int) []any {
	params := make([]any, 0, len(body)+len(values))
	params = append(params, body...)
	for _, v := range values {
		params = append(params, v)
	}
	return params
}
