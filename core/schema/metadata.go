// Package schema defines the metadata value types consumed by the query
// engine. The engine never inspects entity types itself; an external
// metadata layer resolves association paths into plain, already-validated
// AssociationDescriptor values, and this package is the contract for what
// those values must carry.
package schema

import (
	"fmt"
)

// Document represents a single row of data as a generic map, keyed by
// column or field name.
type Document map[string]any

// TableMeta describes a queryable table: its SQL name and the column that
// identifies a row. The ID column is what a derived count query counts.
type TableMeta struct {
	Name     string // The SQL table name, e.g. "BOOK".
	IDColumn string // The primary identifier column, e.g. "ID".
}

// AssociationDescriptor describes one navigable association between two
// tables. The engine treats it as an opaque set of facts: it never
// re-derives nullability or foreign-key status, it only consumes them.
type AssociationDescriptor struct {
	Name                string // The property name used to navigate the association, e.g. "store".
	TargetTable         string // The SQL name of the joined table.
	TargetIDColumn      string // The identifier column of the joined table.
	SourceColumn        string // The join column on the owning (parent) table.
	TargetColumn        string // The join column on the target table.
	IsCollection        bool   // True for one-to-many / many-to-many associations.
	IsNullable          bool   // True when the owning foreign key may be null.
	IsBasedOnForeignKey bool   // True when the join is backed by a real foreign key, not computed.
}

// MetadataProvider resolves an association property on a table into its
// descriptor. Implementations are expected to be read-only and safe for
// concurrent use once populated.
type MetadataProvider interface {
	// Association looks up the association named property on the given
	// table. It returns an error when the table or property is unknown.
	Association(table string, property string) (AssociationDescriptor, error)
}

// StaticProvider is an in-memory MetadataProvider populated up front.
// Registration validates each descriptor eagerly so the engine only ever
// sees resolved, well-formed association facts.
type StaticProvider struct {
	tables       map[string]TableMeta
	associations map[string]AssociationDescriptor
}

// NewStaticProvider creates an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		tables:       make(map[string]TableMeta),
		associations: make(map[string]AssociationDescriptor),
	}
}

// RegisterTable registers a table's metadata.
func (p *StaticProvider) RegisterTable(meta TableMeta) error {
	if meta.Name == "" {
		return fmt.Errorf("table metadata must define a name")
	}
	if meta.IDColumn == "" {
		return fmt.Errorf("table %s must define an ID column", meta.Name)
	}
	p.tables[meta.Name] = meta
	return nil
}

// RegisterAssociation registers an association owned by the given table.
// The target table must already be registered.
func (p *StaticProvider) RegisterAssociation(owner string, desc AssociationDescriptor) error {
	if _, ok := p.tables[owner]; !ok {
		return fmt.Errorf("owner table %s is not registered", owner)
	}
	if desc.Name == "" {
		return fmt.Errorf("association on table %s must define a property name", owner)
	}
	if _, ok := p.tables[desc.TargetTable]; !ok {
		return fmt.Errorf("association %s.%s targets unregistered table %s", owner, desc.Name, desc.TargetTable)
	}
	if desc.SourceColumn == "" || desc.TargetColumn == "" {
		return fmt.Errorf("association %s.%s must define both join columns", owner, desc.Name)
	}
	p.associations[associationKey(owner, desc.Name)] = desc
	return nil
}

// Table looks up a registered table's metadata.
func (p *StaticProvider) Table(name string) (TableMeta, error) {
	meta, ok := p.tables[name]
	if !ok {
		return TableMeta{}, fmt.Errorf("table %s is not registered", name)
	}
	return meta, nil
}

// Association implements MetadataProvider.
func (p *StaticProvider) Association(table string, property string) (AssociationDescriptor, error) {
	desc, ok := p.associations[associationKey(table, property)]
	if !ok {
		return AssociationDescriptor{}, fmt.Errorf("association %s.%s is not registered", table, property)
	}
	return desc, nil
}

func associationKey(table, property string) string {
	return table + "." + property
}
