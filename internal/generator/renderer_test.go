package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTypeExpressions(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(&Collection{Table: "books", Key: "Book"})
	m.idTypes["books"] = "uuid"

	tests := []struct {
		name  string
		field *Field
		want  string
	}{
		{"single", &Field{Types: []string{"string"}}, "string"},
		{"single nullable", &Field{Types: []string{"string"}, Nullable: true}, "string | null"},
		{"union", &Field{Types: []string{"'a'", "'b'"}}, "'a' | 'b'"},
		{"union nullable", &Field{Types: []string{"'a'", "'b'"}, Nullable: true}, "('a' | 'b') | null"},
		{"relation single", &Field{Relation: &Relation{Table: "books"}}, "string | Book"},
		{"relation single nullable", &Field{Relation: &Relation{Table: "books"}, Nullable: true}, "(string | Book) | null"},
		{"relation many", &Field{Relation: &Relation{Table: "books", Many: true}}, "string[] | Book[]"},
		{"relation many nullable", &Field{Relation: &Relation{Table: "books", Many: true}, Nullable: true}, "(string | Book)[]"},
		{"degraded", &Field{}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.fieldType(m, tt.field))
		})
	}
}

// Multi-valued fields get exactly one array suffix: per member without
// nullability, around the whole union with it. This pins the generator's
// long-standing output shape.
func TestRenderManyNullableQuirk(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(&Collection{Table: "books", Key: "Book"})
	m.idTypes["books"] = "uuid"

	nullable := &Field{Relation: &Relation{Table: "books", Many: true}, Nullable: true}
	assert.Equal(t, "(string | Book)[]", g.fieldType(m, nullable))
	assert.NotContains(t, g.fieldType(m, nullable), "string[]")

	notNullable := &Field{Relation: &Relation{Table: "books", Many: true}}
	assert.Equal(t, "string[] | Book[]", g.fieldType(m, notNullable))
	// never both suffixes, never a trailing null on multi-valued fields
	assert.NotContains(t, g.fieldType(m, nullable), "null")
}

func TestFieldTypeMissingRelationTarget(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel()
	got := g.fieldType(m, &Field{Relation: &Relation{Table: "ghost"}})
	assert.Equal(t, "unknown", got)
	require.Len(t, g.warnings, 2)
	assert.Contains(t, g.warnings[0], "ghost")
	assert.Contains(t, g.warnings[1], "ghost")
}

func TestFieldTypeRelationWithoutIDType(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(&Collection{Table: "books", Key: "Book"})
	got := g.fieldType(m, &Field{Relation: &Relation{Table: "books"}})
	assert.Equal(t, "Book", got)
	require.Len(t, g.warnings, 1)
}

func TestRenderOptionalMarkers(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(&Collection{Table: "articles", Key: "Article", Fields: []*Field{
		{Key: "id", Types: []string{"number"}},
		{Key: "title", Required: true, Types: []string{"string"}},
		{Key: "summary", Nullable: true, Types: []string{"string"}},
	}})
	out := g.render(m)
	assert.Contains(t, out, "  id: number;\n")
	assert.Contains(t, out, "  title: string;\n")
	assert.Contains(t, out, "  summary?: string | null;\n")
}

func TestRenderRegistry(t *testing.T) {
	g := testGenerator(Options{TypeName: "MySchema"})
	m := testModel(
		&Collection{Table: "articles", Key: "Article"},
		&Collection{Table: "global_settings", Key: "GlobalSettings", Singleton: true},
	)
	out := g.render(m)
	assert.Contains(t, out, "export type MySchema = {\n  articles: Article[];\n  global_settings: GlobalSettings;\n};\n")
	assert.Contains(t, out, "export type MySchemaName = \"articles\" | \"global_settings\";\n")
}

func TestRenderLegacy(t *testing.T) {
	g := testGenerator(Options{TypeName: "MySchema", Legacy: true})
	m := testModel(
		&Collection{Table: "articles", Key: "Article"},
		&Collection{Table: "global_settings", Key: "GlobalSettings", Singleton: true},
	)
	out := g.render(m)
	assert.Contains(t, out, "export type MySchema = {\n  articles: Article;\n  global_settings: GlobalSettings;\n};\n")
	assert.NotContains(t, out, "MySchemaName")
	assert.NotContains(t, out, "[]")
}

func TestRenderOrderFollowsFirstAppearance(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "zebras", Key: "Zebra"},
		&Collection{Table: "apples", Key: "Apple"},
	)
	out := g.render(m)
	assert.Less(t, strings.Index(out, "export type Zebra"), strings.Index(out, "export type Apple"))
}
