package query

// ClauseKind identifies which clause of a query references a table.
type ClauseKind uint8

// Clause kinds, usable as bits in a ClauseSet.
const (
	ClauseSelect ClauseKind = 1 << iota
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
)

// ClauseSet is a bit set of clause kinds.
type ClauseSet uint8

// Contains reports whether the set contains the given clause kind.
func (s ClauseSet) Contains(kind ClauseKind) bool {
	return s&ClauseSet(kind) != 0
}

// Intersects reports whether the two sets share any clause kind.
func (s ClauseSet) Intersects(other ClauseSet) bool {
	return s&other != 0
}

// SubsetOf reports whether every kind in the set is also in other.
func (s ClauseSet) SubsetOf(other ClauseSet) bool {
	return s&^other == 0
}

func (s ClauseSet) with(kind ClauseKind) ClauseSet {
	return s | ClauseSet(kind)
}

// Usage maps each table reference of a query to the set of clause kinds
// that reference it. It is ephemeral: recomputed per Analyze call, never
// stored on the query.
type Usage map[*TableReference]ClauseSet

// Of returns the clause set recorded for ref; the zero set when none.
func (u Usage) Of(ref *TableReference) ClauseSet {
	return u[ref]
}

// Analyze walks every clause tree of q and records, per table reference,
// the clauses in which it is referenced through a column expression.
// Referencing a column on a deeply joined table implicitly uses every
// reference on the path back to the root, so ancestors are recorded too.
// Analyze is pure: it never mutates the query.
func Analyze(q *Query) Usage {
	usage := make(Usage, len(q.Registry().References()))

	mark := func(kind ClauseKind) func(Expression) {
		return func(node Expression) {
			col, ok := node.(*ColumnExpr)
			if !ok {
				return
			}
			for ref := col.Table; ref != nil; ref = ref.Parent() {
				usage[ref] = usage[ref].with(kind)
			}
		}
	}

	for _, e := range q.Selections() {
		walkExpressions(e, mark(ClauseSelect))
	}
	for _, p := range q.Where() {
		walkExpressions(p, mark(ClauseWhere))
	}
	for _, e := range q.GroupBy() {
		walkExpressions(e, mark(ClauseGroupBy))
	}
	if h := q.Having(); h != nil {
		walkExpressions(h, mark(ClauseHaving))
	}
	for _, o := range q.OrderBy() {
		walkExpressions(o.Expr, mark(ClauseOrderBy))
	}

	return usage
}
