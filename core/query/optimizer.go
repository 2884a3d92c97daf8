package query

// RetainedSet is the set of table references that survive join
// elimination and must be rendered into the FROM/JOIN clause.
type RetainedSet map[*TableReference]struct{}

// Contains reports whether ref survived elimination.
func (s RetainedSet) Contains(ref *TableReference) bool {
	_, ok := s[ref]
	return ok
}

// Prune decides which joins of the derived count query may be dropped
// without changing its row count. originalUsage must be the usage of the
// original data query, so that ordering-only references are recognized.
//
// A non-root reference is eliminable on its own merits when all of:
//   - its association is a reference association (not a collection);
//   - it is used only by the top-level select and order-by, never by
//     where, group-by, or having;
//   - it is a left outer join, or an inner join over a non-nullable
//     foreign key (an inner join over a nullable key can reduce the row
//     count, so it must stay).
//
// On top of the local rule, elimination is evaluated bottom-up over the
// registry's parent tree: a reference is dropped only when every one of
// its descendants is dropped too, since a retained descendant's ON clause
// still names this reference's alias.
//
// Prune is conservative and has no error path: an ineligible join is
// always retained, never dropped speculatively.
func Prune(derived *Query, originalUsage Usage) RetainedSet {
	registry := derived.Registry()
	retained := make(RetainedSet)
	pruneSubtree(registry, registry.Root(), originalUsage, retained)
	return retained
}

// pruneSubtree reports whether ref's whole subtree was eliminated,
// adding every retained reference to the set.
func pruneSubtree(registry *JoinRegistry, ref *TableReference, usage Usage, retained RetainedSet) bool {
	subtreeEliminated := true
	for _, child := range registry.Children(ref) {
		if !pruneSubtree(registry, child, usage, retained) {
			subtreeEliminated = false
		}
	}
	if subtreeEliminated && eliminable(ref, usage) {
		return true
	}
	retained[ref] = struct{}{}
	return false
}

// eliminable applies the local elimination rule to a single reference.
func eliminable(ref *TableReference, usage Usage) bool {
	assoc := ref.Association()
	if assoc == nil {
		// The root is never a join.
		return false
	}
	if assoc.IsCollection {
		return false
	}
	used := usage.Of(ref)
	if used.Intersects(ClauseSet(ClauseWhere) | ClauseSet(ClauseGroupBy) | ClauseSet(ClauseHaving)) {
		return false
	}
	if !used.SubsetOf(ClauseSet(ClauseSelect) | ClauseSet(ClauseOrderBy)) {
		return false
	}
	switch ref.JoinType() {
	case JoinLeftOuter:
		return true
	case JoinInner:
		return assoc.IsBasedOnForeignKey && !assoc.IsNullable
	default:
		return false
	}
}
