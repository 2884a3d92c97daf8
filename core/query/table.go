// Package query defines the immutable query AST at the heart of the
// engine: table references deduplicated through a join registry, clause
// expression trees, a fluent builder, and the derivation machinery that
// turns a data query into an optimized row-count query.
package query

import (
	"fmt"

	"github.com/asaidimu/go-requery/core/schema"
)

// JoinType specifies how a table reference is joined from its parent.
type JoinType string

// Supported join types.
const (
	JoinInner     JoinType = "inner"
	JoinLeftOuter JoinType = "left"
)

// TableReference represents one table occurrence in a query: either the
// root table or the result of navigating an association from a parent
// reference. Identity is significant: two references are the same join in
// the generated SQL exactly when they are the same object.
type TableReference struct {
	alias       string
	table       string
	parent      *TableReference
	association *schema.AssociationDescriptor
	joinType    JoinType
}

// Alias returns the stable SQL alias of this reference, e.g. "tb_1_".
func (t *TableReference) Alias() string { return t.alias }

// Table returns the SQL table name this reference stands for.
func (t *TableReference) Table() string { return t.table }

// Parent returns the reference this one was joined from, or nil for the
// root reference.
func (t *TableReference) Parent() *TableReference { return t.parent }

// Association returns the descriptor of the association that produced
// this reference, or nil for the root reference.
func (t *TableReference) Association() *schema.AssociationDescriptor { return t.association }

// JoinType returns how this reference is joined from its parent. The root
// reference reports JoinInner but is never rendered as a join.
func (t *TableReference) JoinType() JoinType { return t.joinType }

// IsRoot reports whether this reference is the query's root table.
func (t *TableReference) IsRoot() bool { return t.parent == nil }

// JoinRegistry owns every TableReference of a single query under
// construction. Its core invariant: no two registered references represent
// the same (parent, association, join type) triple. Repeated navigation of
// the same path therefore yields one join in the generated SQL, not two.
type JoinRegistry struct {
	root   *TableReference
	refs   []*TableReference
	byPath map[string]*TableReference
	frozen bool
}

// NewJoinRegistry creates a registry rooted at the given table. The root
// reference is registered immediately under alias "tb_1_".
func NewJoinRegistry(meta schema.TableMeta) *JoinRegistry {
	r := &JoinRegistry{
		byPath: make(map[string]*TableReference),
	}
	r.root = &TableReference{
		alias:    r.nextAlias(),
		table:    meta.Name,
		joinType: JoinInner,
	}
	r.refs = append(r.refs, r.root)
	return r
}

// Root returns the root table reference.
func (r *JoinRegistry) Root() *TableReference { return r.root }

// References returns every registered reference in registration order,
// root first. The returned slice must not be modified.
func (r *JoinRegistry) References() []*TableReference { return r.refs }

// Join returns the reference for navigating the given association from
// parent with the given join type, creating and registering it on first
// use. A different join type for an otherwise identical path yields a
// distinct reference.
func (r *JoinRegistry) Join(parent *TableReference, assoc schema.AssociationDescriptor, joinType JoinType) (*TableReference, error) {
	if parent == nil {
		return nil, fmt.Errorf("join parent cannot be nil")
	}
	key := joinKey(parent, assoc.Name, joinType)
	if existing, ok := r.byPath[key]; ok {
		return existing, nil
	}
	if r.frozen {
		return nil, fmt.Errorf("cannot join %s.%s: query construction has ended", parent.table, assoc.Name)
	}
	descriptor := assoc
	ref := &TableReference{
		alias:       r.nextAlias(),
		table:       assoc.TargetTable,
		parent:      parent,
		association: &descriptor,
		joinType:    joinType,
	}
	r.refs = append(r.refs, ref)
	r.byPath[key] = ref
	return ref, nil
}

// Children returns the direct children of ref in registration order.
func (r *JoinRegistry) Children(ref *TableReference) []*TableReference {
	var children []*TableReference
	for _, candidate := range r.refs {
		if candidate.parent == ref {
			children = append(children, candidate)
		}
	}
	return children
}

// freeze ends the construction phase. Further Join calls for unseen paths
// fail; lookups of existing paths still succeed.
func (r *JoinRegistry) freeze() {
	r.frozen = true
}

func (r *JoinRegistry) nextAlias() string {
	return fmt.Sprintf("tb_%d_", len(r.refs)+1)
}

func joinKey(parent *TableReference, association string, joinType JoinType) string {
	return parent.alias + "/" + association + "/" + string(joinType)
}
