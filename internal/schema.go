package internal

// CollectionTranslation is a translated display name for a collection.
type CollectionTranslation struct {
	Language    string `json:"language"`
	Translation string `json:"translation"`
}

// CollectionMeta is the user-facing metadata of a collection. Collections
// without a meta block are system-internal and never generate types.
type CollectionMeta struct {
	Singleton    bool                    `json:"singleton"`
	Translations []CollectionTranslation `json:"translations,omitempty"`
}

// CollectionInfo is a collection entry as returned by the server.
type CollectionInfo struct {
	Collection string          `json:"collection"`
	Meta       *CollectionMeta `json:"meta,omitempty"`
}

// FieldChoice is one allowed value of an enumerated field.
type FieldChoice struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// NestedField describes a sub-field of a json field (repeater style
// interfaces declare the shape of their entries this way).
type NestedField struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// FieldOptions are the interface options attached to a field.
type FieldOptions struct {
	Choices []FieldChoice `json:"choices,omitempty"`
	Fields  []NestedField `json:"fields,omitempty"`
}

// FieldMeta is the field metadata block.
type FieldMeta struct {
	Required  bool          `json:"required"`
	Interface string        `json:"interface,omitempty"`
	Special   []string      `json:"special,omitempty"`
	Options   *FieldOptions `json:"options,omitempty"`
}

// FieldSchema is the storage-level schema of a field. Alias fields have no
// storage representation and carry a nil schema.
type FieldSchema struct {
	IsNullable      bool   `json:"is_nullable"`
	IsPrimaryKey    bool   `json:"is_primary_key"`
	ForeignKeyTable string `json:"foreign_key_table,omitempty"`
}

// FieldInfo is a field entry as returned by the server.
type FieldInfo struct {
	Collection string       `json:"collection"`
	Field      string       `json:"field"`
	Type       string       `json:"type"`
	Schema     *FieldSchema `json:"schema,omitempty"`
	Meta       *FieldMeta   `json:"meta,omitempty"`
}

// RelationMeta carries the many/one side names used to resolve the reverse
// direction of a relation.
type RelationMeta struct {
	OneCollection  string `json:"one_collection,omitempty"`
	OneField       string `json:"one_field,omitempty"`
	ManyCollection string `json:"many_collection,omitempty"`
	ManyField      string `json:"many_field,omitempty"`
}

// RelationInfo is a relation entry as returned by the server.
type RelationInfo struct {
	Collection        string        `json:"collection"`
	Field             string        `json:"field"`
	RelatedCollection string        `json:"related_collection,omitempty"`
	Meta              *RelationMeta `json:"meta,omitempty"`
}

// Snapshot is one consistent view of the server schema. It is the unit the
// registry fetches, caches and saves.
type Snapshot struct {
	Version     string           `json:"version,omitempty"`
	Collections []CollectionInfo `json:"collections"`
	Fields      []FieldInfo      `json:"fields"`
	Relations   []RelationInfo   `json:"relations"`
}

// SchemaRegistry is the interface for a schema source.
type SchemaRegistry interface {

	// GetSnapshot returns the schema snapshot.
	GetSnapshot() (*Snapshot, error)

	// Save the snapshot to a file.
	Save(filename string) error

	// Close the registry and release any resources.
	Close() error
}
