package generator

import (
	"strings"

	"github.com/crateworks/typegen/internal"
	"github.com/crateworks/typegen/internal/util"
)

const (
	aliasType   = "alias"
	jsonType    = "json"
	unknownType = "unknown"
)

// baseTypes maps backend field types to their TypeScript primitive. Unmapped
// types degrade to unknown with a warning.
var baseTypes = map[string]string{
	"string":     "string",
	"text":       "string",
	"uuid":       "string",
	"hash":       "string",
	"date":       "string",
	"dateTime":   "string",
	"time":       "string",
	"timestamp":  "string",
	"integer":    "number",
	"bigInteger": "number",
	"float":      "number",
	"decimal":    "number",
	"boolean":    "boolean",
	"json":       "unknown",
	"csv":        "string[]",
	"alias":      "number",
}

// special markers on alias fields that make the field multi valued.
var multipleSpecial = []string{"o2m", "m2m", "translations", "files"}

// special markers on alias fields with no storage representation at all.
var virtualSpecial = []string{"group", "no-data"}

// choiceExcluded lists field keys whose choices enumerate UI catalogs (icon
// and format pickers) and would bloat the literal union without typing any
// value data.
var choiceExcluded = []string{"icon", "format"}

// builtinRelations is the fixed override allow-list consulted after generic
// inference: backend built-ins whose relation is not expressed in the
// metadata. The avatar field on the users system collection always allows a
// file reference.
var builtinRelations = map[string]string{
	"cms_users.avatar": "cms_files",
}

// normalize builds the in-memory model from the raw snapshot: one Collection
// per user-facing table with its resolved display key and ordered field list,
// the per-table primary key backend type, and relations resolved through the
// reverse-relation index.
func (g *Generator) normalize(snapshot *internal.Snapshot) *model {
	m := &model{
		collections: make(map[string]*Collection),
		idTypes:     make(map[string]string),
	}

	metas := make(map[string]*internal.CollectionMeta, len(snapshot.Collections))
	for _, c := range snapshot.Collections {
		if c.Meta != nil {
			metas[c.Collection] = c.Meta
		}
	}

	reverse := buildReverseIndex(snapshot.Relations)

	for i := range snapshot.Fields {
		f := &snapshot.Fields[i]
		meta := metas[f.Collection]
		if meta == nil {
			// system-internal table, never generates a type
			g.logger.Trace("skipping field %s.%s: collection has no meta", f.Collection, f.Field)
			continue
		}
		var special []string
		if f.Meta != nil {
			special = f.Meta.Special
		}
		if f.Type == aliasType && intersects(special, virtualSpecial) {
			g.logger.Trace("skipping virtual field %s.%s", f.Collection, f.Field)
			continue
		}

		col := m.collections[f.Collection]
		if col == nil {
			col = &Collection{
				Table:     f.Collection,
				Key:       displayKey(f.Collection, meta),
				Singleton: meta.Singleton,
			}
			m.collections[f.Collection] = col
			m.order = append(m.order, f.Collection)
		}

		primary := f.Schema != nil && f.Schema.IsPrimaryKey
		if primary {
			m.idTypes[f.Collection] = f.Type
		}

		field := &Field{
			Key:      f.Field,
			Required: f.Meta != nil && f.Meta.Required,
			Nullable: !primary && (f.Schema == nil || f.Schema.IsNullable),
		}

		switch {
		case f.Type == aliasType && intersects(special, multipleSpecial):
			if target, ok := reverse[relationKey(f.Collection, f.Field)]; ok {
				field.Relation = &Relation{
					Table:      target,
					Many:       true,
					ManyToMany: util.SliceContains(special, "m2m"),
				}
			} else {
				// data inconsistency: the field claims a reverse relation the
				// relation list never declares
				g.warnf("no reverse relation found for %s.%s", f.Collection, f.Field)
			}
		case f.Schema != nil && f.Schema.ForeignKeyTable != "":
			field.Relation = &Relation{Table: f.Schema.ForeignKeyTable}
		default:
			field.Types = g.fieldTypes(f)
		}

		if field.Relation == nil {
			if target, ok := builtinRelations[relationKey(f.Collection, f.Field)]; ok {
				field.Types = nil
				field.Relation = &Relation{Table: target}
			}
		}

		col.Fields = append(col.Fields, field)
	}

	return m
}

// buildReverseIndex maps (one side collection, one side field) to the many
// side collection so an o2m/m2m/translations field can find its counterpart
// table.
func buildReverseIndex(relations []internal.RelationInfo) map[string]string {
	index := make(map[string]string, len(relations))
	for _, r := range relations {
		if r.Meta == nil || r.Meta.ManyCollection != r.Collection || r.Meta.OneCollection == "" {
			continue
		}
		field := r.Meta.OneField
		if field == "" {
			field = r.Meta.ManyField
		}
		if field == "" {
			continue
		}
		index[relationKey(r.Meta.OneCollection, field)] = r.Meta.ManyCollection
	}
	return index
}

// fieldTypes computes the candidate primitive type expressions for a
// non-relational field.
func (g *Generator) fieldTypes(f *internal.FieldInfo) []string {
	base, ok := g.typeMap[f.Type]
	if !ok {
		g.warnf("no type mapping for %s.%s (backend type %q), falling back to %s", f.Collection, f.Field, f.Type, unknownType)
		return []string{unknownType}
	}

	var opts *internal.FieldOptions
	if f.Meta != nil {
		opts = f.Meta.Options
	}

	if opts != nil && len(opts.Choices) > 0 && f.Type != jsonType && !util.SliceContains(choiceExcluded, f.Field) {
		numeric := base == "number"
		types := make([]string, 0, len(opts.Choices))
		for _, choice := range opts.Choices {
			if numeric {
				types = append(types, choice.Value)
			} else {
				types = append(types, "'"+choice.Value+"'")
			}
		}
		return types
	}

	types := []string{base}
	if f.Type == jsonType && opts != nil && len(opts.Fields) > 0 {
		types = append(types, g.inlineType(f, opts.Fields))
	}
	return types
}

// inlineType synthesizes an inline composite type from a json field's nested
// sub-field definitions.
func (g *Generator) inlineType(f *internal.FieldInfo, fields []internal.NestedField) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, nf := range fields {
		t, ok := g.typeMap[nf.Type]
		if !ok {
			g.warnf("no type mapping for %s.%s.%s (backend type %q), falling back to %s", f.Collection, f.Field, nf.Field, nf.Type, unknownType)
			t = unknownType
		}
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(nf.Field)
		sb.WriteString(": ")
		sb.WriteString(t)
	}
	sb.WriteString(" }")
	return sb.String()
}

// displayKey computes the initial PascalCase key for a collection: the
// English translation when present, else the table name, singularized unless
// the collection is a singleton.
func displayKey(table string, meta *internal.CollectionMeta) string {
	name := table
	for _, tr := range meta.Translations {
		if tr.Language == "en" || strings.HasPrefix(tr.Language, "en-") {
			name = tr.Translation
			break
		}
	}
	if meta.Singleton {
		return util.PascalCase(name)
	}
	return util.PascalCase(util.Singularize(name))
}

func relationKey(collection, field string) string {
	return collection + "." + field
}

func intersects(slice []string, vals []string) bool {
	for _, v := range vals {
		if util.SliceContains(slice, v) {
			return true
		}
	}
	return false
}
