package render

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-requery/core/query"
)

// Data renders the unpaginated body of a data query: select, from/join,
// where, group-by, having, and order-by. Paging is left to the dialect
// layer, which wraps or suffixes this body without touching it.
func Data(q *query.Query) (Result, error) {
	return renderQuery(q, nil)
}

// Count derives the row-count query for q, prunes every join that
// provably cannot affect the row count, and renders the result.
// Derivation preconditions apply: q must not itself be derived, must not
// have an aggregate select, and must not be grouped.
func Count(q *query.Query) (Result, error) {
	derived, err := query.DeriveCount(q)
	if err != nil {
		return Result{}, err
	}
	usage := query.Analyze(q)
	retained := query.Prune(derived, usage)
	return renderQuery(derived, retained)
}

// renderQuery assembles one SQL statement. A nil retained set renders
// every registered join; otherwise only retained references contribute
// SQL text and parameters.
func renderQuery(q *query.Query, retained query.RetainedSet) (Result, error) {
	b := &SQLBuilder{}

	b.Write("select ")
	selections := q.Selections()
	if len(selections) == 0 {
		b.Write(q.Root().Alias() + ".*")
	}
	for i, e := range selections {
		if i > 0 {
			b.Write(", ")
		}
		if err := renderExpr(b, e); err != nil {
			return Result{}, err
		}
	}

	b.Write(" from " + q.Table().Name + " as " + q.Root().Alias())
	for _, ref := range q.Registry().References() {
		if ref.IsRoot() {
			continue
		}
		if retained != nil && !retained.Contains(ref) {
			continue
		}
		renderJoin(b, ref)
	}

	if preds := q.Where(); len(preds) > 0 {
		b.Write(" where ")
		for i, p := range preds {
			if i > 0 {
				b.Write(" and ")
			}
			if err := renderExpr(b, p); err != nil {
				return Result{}, err
			}
		}
	}

	if groups := q.GroupBy(); len(groups) > 0 {
		b.Write(" group by ")
		for i, e := range groups {
			if i > 0 {
				b.Write(", ")
			}
			if err := renderExpr(b, e); err != nil {
				return Result{}, err
			}
		}
	}

	if h := q.Having(); h != nil {
		b.Write(" having ")
		if err := renderExpr(b, h); err != nil {
			return Result{}, err
		}
	}

	if orders := q.OrderBy(); len(orders) > 0 {
		b.Write(" order by ")
		for i, o := range orders {
			if i > 0 {
				b.Write(", ")
			}
			if err := renderExpr(b, o.Expr); err != nil {
				return Result{}, err
			}
			b.Write(" " + string(o.Direction))
		}
	}

	return b.Result(), nil
}

// renderJoin emits one join clause. The ON condition equates the parent's
// source column with the joined table's target column, both taken from
// the association descriptor.
func renderJoin(b *SQLBuilder, ref *query.TableReference) {
	assoc := ref.Association()
	b.Write(" " + string(ref.JoinType()) + " join " + assoc.TargetTable + " as " + ref.Alias())
	b.Write(" on " + ref.Parent().Alias() + "." + assoc.SourceColumn + " = " + ref.Alias() + "." + assoc.TargetColumn)
}

func renderExpr(b *SQLBuilder, node query.Expression) error {
	switch e := node.(type) {
	case *query.ColumnExpr:
		b.Write(e.Table.Alias() + "." + e.Name)
	case *query.LiteralExpr:
		b.Param(e.Value)
	case *query.AggregateExpr:
		b.Write(e.Fn + "(")
		if e.Arg == nil {
			b.Write("*")
		} else if err := renderExpr(b, e.Arg); err != nil {
			return err
		}
		b.Write(")")
	case *query.RawExpr:
		b.Write(e.SQL)
		b.params = append(b.params, e.Args...)
	case *query.ComparisonPredicate:
		if err := renderExpr(b, e.Left); err != nil {
			return err
		}
		b.Write(" " + string(e.Op) + " ")
		return renderExpr(b, e.Right)
	case *query.BetweenPredicate:
		if err := renderExpr(b, e.Expr); err != nil {
			return err
		}
		b.Write(" between ")
		if err := renderExpr(b, e.Low); err != nil {
			return err
		}
		b.Write(" and ")
		return renderExpr(b, e.High)
	case *query.InPredicate:
		if err := renderExpr(b, e.Expr); err != nil {
			return err
		}
		if e.Not {
			b.Write(" not in (")
		} else {
			b.Write(" in (")
		}
		for i, v := range e.Values {
			if i > 0 {
				b.Write(", ")
			}
			if err := renderExpr(b, v); err != nil {
				return err
			}
		}
		b.Write(")")
	case *query.LikePredicate:
		if err := renderExpr(b, e.Expr); err != nil {
			return err
		}
		if e.Not {
			b.Write(" not like ")
		} else {
			b.Write(" like ")
		}
		return renderExpr(b, e.Pattern)
	case *query.NullPredicate:
		if err := renderExpr(b, e.Expr); err != nil {
			return err
		}
		if e.Not {
			b.Write(" is not null")
		} else {
			b.Write(" is null")
		}
	case *query.LogicalPredicate:
		if len(e.Preds) == 0 {
			return fmt.Errorf("logical predicate with operator %q has no operands", e.Op)
		}
		b.Write("(")
		for i, p := range e.Preds {
			if i > 0 {
				b.Write(" " + string(e.Op) + " ")
			}
			if err := renderExpr(b, p); err != nil {
				return err
			}
		}
		b.Write(")")
	case *query.NotPredicate:
		b.Write("not (")
		if err := renderExpr(b, e.Pred); err != nil {
			return err
		}
		b.Write(")")
	default:
		return fmt.Errorf("unsupported expression type %T", node)
	}
	return nil
}

// placeholderCount reports how many positional placeholders a SQL text
// contains. Used by tests and the dialect layer to verify that wrapping
// preserved the text/params correspondence.
func placeholderCount(sql string) int {
	return strings.Count(sql, "?")
}
