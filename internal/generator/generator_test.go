package generator

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/crateworks/typegen/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestSnapshot(t *testing.T) *internal.Snapshot {
	t.Helper()
	buf, err := os.ReadFile("testdata/snapshot.json")
	require.NoError(t, err)
	var snapshot internal.Snapshot
	require.NoError(t, json.Unmarshal(buf, &snapshot))
	return &snapshot
}

func TestGenerate(t *testing.T) {
	g := testGenerator(Options{})
	result, err := g.Generate(loadTestSnapshot(t))
	require.NoError(t, err)

	want, err := os.ReadFile("testdata/snapshot.d.ts")
	require.NoError(t, err)
	assert.Equal(t, string(want), result.Output)
	assert.Equal(t, 5, result.Collections)
	assert.Empty(t, result.Warnings)
}

func TestGenerateIdempotent(t *testing.T) {
	g := testGenerator(Options{})
	snapshot := loadTestSnapshot(t)

	first, err := g.Generate(snapshot)
	require.NoError(t, err)
	second, err := g.Generate(snapshot)
	require.NoError(t, err)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestGenerateAuthorScenario(t *testing.T) {
	g := testGenerator(Options{})
	result, err := g.Generate(&internal.Snapshot{
		Collections: []internal.CollectionInfo{
			{Collection: "authors", Meta: userMeta()},
			{Collection: "books", Meta: userMeta()},
		},
		Fields: []internal.FieldInfo{
			{Collection: "authors", Field: "id", Type: "uuid", Schema: &internal.FieldSchema{IsPrimaryKey: true}},
			{Collection: "authors", Field: "name", Type: "string", Meta: &internal.FieldMeta{Required: true}, Schema: &internal.FieldSchema{}},
			{Collection: "authors", Field: "books", Type: "alias", Meta: &internal.FieldMeta{Special: []string{"o2m"}, Required: true}},
			{Collection: "books", Field: "id", Type: "uuid", Schema: &internal.FieldSchema{IsPrimaryKey: true}},
		},
		Relations: []internal.RelationInfo{
			{Collection: "books", Field: "author", RelatedCollection: "authors", Meta: &internal.RelationMeta{
				OneCollection:  "authors",
				OneField:       "books",
				ManyCollection: "books",
				ManyField:      "author",
			}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Output, "export type Author = {\n  id: string;\n  name: string;\n  books: (string | Book)[];\n};\n")
}

func TestGenerateResidualCollision(t *testing.T) {
	g := testGenerator(Options{})
	_, err := g.Generate(&internal.Snapshot{
		Collections: []internal.CollectionInfo{
			{Collection: "user_card", Meta: userMeta()},
			{Collection: "user_cards", Meta: userMeta()},
		},
		Fields: []internal.FieldInfo{
			{Collection: "user_card", Field: "id", Type: "integer", Schema: &internal.FieldSchema{IsPrimaryKey: true}},
			{Collection: "user_cards", Field: "id", Type: "integer", Schema: &internal.FieldSchema{IsPrimaryKey: true}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still collides")
}

func TestGenerateCustomTypeName(t *testing.T) {
	g := testGenerator(Options{TypeName: "CustomSchema"})
	result, err := g.Generate(loadTestSnapshot(t))
	require.NoError(t, err)
	assert.Contains(t, result.Output, "export type CustomSchema = {")
	assert.Contains(t, result.Output, "export type CustomSchemaName = ")
	assert.NotContains(t, result.Output, "ApiCollections")
}
