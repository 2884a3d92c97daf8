package query

// Expression is a node in a clause tree: a column, a literal, an
// aggregate, a raw SQL fragment, or a predicate combining other nodes.
type Expression interface {
	isExpression()
}

// Predicate is an Expression with boolean meaning, usable in where and
// having clauses and as a branch of logical combinators.
type Predicate interface {
	Expression
	isPredicate()
}

// ColumnExpr references a column on a specific table reference.
type ColumnExpr struct {
	Table *TableReference
	Name  string
}

// LiteralExpr is a bound value rendered as a positional placeholder.
type LiteralExpr struct {
	Value any
}

// AggregateExpr applies an aggregate function to an argument expression.
// A nil argument renders as the bare "*" argument, e.g. count(*).
type AggregateExpr struct {
	Fn  string
	Arg Expression
}

// RawExpr is an opaque, pre-rendered SQL fragment with its own positional
// parameters. The engine passes it through verbatim: it contributes no
// table references to usage analysis.
type RawExpr struct {
	SQL  string
	Args []any
}

// ComparisonOp is a binary comparison operator in SQL spelling.
type ComparisonOp string

// Supported comparison operators.
const (
	OpEq  ComparisonOp = "="
	OpNeq ComparisonOp = "<>"
	OpLt  ComparisonOp = "<"
	OpLte ComparisonOp = "<="
	OpGt  ComparisonOp = ">"
	OpGte ComparisonOp = ">="
)

// ComparisonPredicate compares two expressions with a binary operator.
type ComparisonPredicate struct {
	Left  Expression
	Op    ComparisonOp
	Right Expression
}

// BetweenPredicate tests an expression against an inclusive range.
type BetweenPredicate struct {
	Expr Expression
	Low  Expression
	High Expression
}

// InPredicate tests an expression for membership in a value list.
type InPredicate struct {
	Expr   Expression
	Values []Expression
	Not    bool
}

// LikePredicate performs a SQL pattern match.
type LikePredicate struct {
	Expr    Expression
	Pattern Expression
	Not     bool
}

// NullPredicate tests an expression for null.
type NullPredicate struct {
	Expr Expression
	Not  bool
}

// LogicalOp combines predicates.
type LogicalOp string

// Supported logical operators.
const (
	LogicalAnd LogicalOp = "and"
	LogicalOr  LogicalOp = "or"
)

// LogicalPredicate combines child predicates with a logical operator.
type LogicalPredicate struct {
	Op    LogicalOp
	Preds []Predicate
}

// NotPredicate negates a predicate.
type NotPredicate struct {
	Pred Predicate
}

func (*ColumnExpr) isExpression()    {}
func (*LiteralExpr) isExpression()   {}
func (*AggregateExpr) isExpression() {}
func (*RawExpr) isExpression()       {}

func (*ComparisonPredicate) isExpression() {}
func (*ComparisonPredicate) isPredicate()  {}
func (*BetweenPredicate) isExpression()    {}
func (*BetweenPredicate) isPredicate()     {}
func (*InPredicate) isExpression()         {}
func (*InPredicate) isPredicate()          {}
func (*LikePredicate) isExpression()       {}
func (*LikePredicate) isPredicate()        {}
func (*NullPredicate) isExpression()       {}
func (*NullPredicate) isPredicate()        {}
func (*LogicalPredicate) isExpression()    {}
func (*LogicalPredicate) isPredicate()     {}
func (*NotPredicate) isExpression()        {}
func (*NotPredicate) isPredicate()         {}
func (*RawExpr) isPredicate()              {}

// Col creates a column expression on the given table reference.
func Col(table *TableReference, name string) *ColumnExpr {
	return &ColumnExpr{Table: table, Name: name}
}

// Value creates a literal bound-parameter expression.
func Value(v any) *LiteralExpr {
	return &LiteralExpr{Value: v}
}

// Count creates a count aggregate over the given expression.
func Count(arg Expression) *AggregateExpr {
	return &AggregateExpr{Fn: "count", Arg: arg}
}

// Raw creates an opaque SQL fragment expression with its parameters.
func Raw(sql string, args ...any) *RawExpr {
	return &RawExpr{SQL: sql, Args: args}
}

// Eq creates an equality predicate.
func Eq(left, right Expression) *ComparisonPredicate {
	return &ComparisonPredicate{Left: left, Op: OpEq, Right: right}
}

// Compare creates a comparison predicate with an explicit operator.
func Compare(left Expression, op ComparisonOp, right Expression) *ComparisonPredicate {
	return &ComparisonPredicate{Left: left, Op: op, Right: right}
}

// Between creates an inclusive range predicate.
func Between(expr, low, high Expression) *BetweenPredicate {
	return &BetweenPredicate{Expr: expr, Low: low, High: high}
}

// In creates a membership predicate over literal values.
func In(expr Expression, values ...any) *InPredicate {
	exprs := make([]Expression, len(values))
	for i, v := range values {
		exprs[i] = Value(v)
	}
	return &InPredicate{Expr: expr, Values: exprs}
}

// Like creates a pattern-match predicate.
func Like(expr Expression, pattern string) *LikePredicate {
	return &LikePredicate{Expr: expr, Pattern: Value(pattern)}
}

// IsNull creates a null test predicate.
func IsNull(expr Expression) *NullPredicate {
	return &NullPredicate{Expr: expr}
}

// IsNotNull creates a not-null test predicate.
func IsNotNull(expr Expression) *NullPredicate {
	return &NullPredicate{Expr: expr, Not: true}
}

// And combines predicates conjunctively.
func And(preds ...Predicate) *LogicalPredicate {
	return &LogicalPredicate{Op: LogicalAnd, Preds: preds}
}

// Or combines predicates disjunctively.
func Or(preds ...Predicate) *LogicalPredicate {
	return &LogicalPredicate{Op: LogicalOr, Preds: preds}
}

// Not negates a predicate.
func Not(pred Predicate) *NotPredicate {
	return &NotPredicate{Pred: pred}
}

// IsAggregate reports whether the expression is, or contains, an
// aggregate function call at its top level.
func IsAggregate(e Expression) bool {
	agg := false
	walkExpressions(e, func(node Expression) {
		if _, ok := node.(*AggregateExpr); ok {
			agg = true
		}
	})
	return agg
}

// walkExpressions visits node and every expression nested inside it,
// depth-first. Raw fragments are opaque leaves.
func walkExpressions(node Expression, visit func(Expression)) {
	if node == nil {
		return
	}
	visit(node)
	switch e := node.(type) {
	case *AggregateExpr:
		walkExpressions(e.Arg, visit)
	case *ComparisonPredicate:
		walkExpressions(e.Left, visit)
		walkExpressions(e.Right, visit)
	case *BetweenPredicate:
		walkExpressions(e.Expr, visit)
		walkExpressions(e.Low, visit)
		walkExpressions(e.High, visit)
	case *InPredicate:
		walkExpressions(e.Expr, visit)
		for _, v := range e.Values {
			walkExpressions(v, visit)
		}
	case *LikePredicate:
		walkExpressions(e.Expr, visit)
		walkExpressions(e.Pattern, visit)
	case *NullPredicate:
		walkExpressions(e.Expr, visit)
	case *LogicalPredicate:
		for _, p := range e.Preds {
			walkExpressions(p, visit)
		}
	case *NotPredicate:
		walkExpressions(e.Pred, visit)
	}
}
