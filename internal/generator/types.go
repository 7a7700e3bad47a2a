package generator

// Relation describes a reference from a field to another collection.
type Relation struct {
	// Table is the referenced collection's table name.
	Table string
	// Many is true when the field holds multiple related records and the
	// rendered type is array wrapped.
	Many bool
	// ManyToMany is informational only and does not change the output shape.
	ManyToMany bool
}

// Field is a normalized collection field. A field carries either candidate
// primitive types or a relation, never both: relation typing is resolved at
// render time from the target collection.
type Field struct {
	Key      string
	Required bool
	Nullable bool
	Types    []string
	Relation *Relation
}

// Collection is a normalized collection keyed by its immutable table name.
// Key is the generated type name and is unique across all collections once
// the name resolver has run.
type Collection struct {
	Table     string
	Key       string
	Singleton bool
	Fields    []*Field
}

// Options control the rendered output.
type Options struct {
	// TypeName is the name of the aggregate registry type.
	TypeName string
	// Legacy suppresses array wrapping in the registry type and the
	// collection name union.
	Legacy bool
	// TypeOverrides extends the backend type mapping table with extra
	// backend type to TypeScript type entries.
	TypeOverrides map[string]string
}

// Result is the outcome of one generator run.
type Result struct {
	Output      string
	Collections int
	Warnings    []string
}

// model is the normalized schema handed from the normalizer to the resolver
// and renderer. order preserves first appearance in the input field list so
// generated output diffs cleanly.
type model struct {
	collections map[string]*Collection
	order       []string
	idTypes     map[string]string
}
