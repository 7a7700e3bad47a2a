package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(collections ...*Collection) *model {
	m := &model{
		collections: make(map[string]*Collection),
		idTypes:     make(map[string]string),
	}
	for _, c := range collections {
		m.collections[c.Table] = c
		m.order = append(m.order, c.Table)
	}
	return m
}

func TestResolveExactMatchKeepsKey(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "user_profile", Key: "Profile"},
		&Collection{Table: "profile", Key: "Profile"},
	)
	require.NoError(t, g.resolve(m))
	assert.Equal(t, "Profile", m.collections["profile"].Key)
	assert.Equal(t, "UserProfile", m.collections["user_profile"].Key)
}

func TestResolvePrefixMatch(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "profiles", Key: "Profile"},
		&Collection{Table: "member_profiles", Key: "Profile"},
	)
	require.NoError(t, g.resolve(m))
	assert.Equal(t, "Profile", m.collections["profiles"].Key)
	assert.Equal(t, "MemberProfile", m.collections["member_profiles"].Key)
}

func TestResolveFallsBackToShortestTable(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "editorial_team", Key: "Person"},
		&Collection{Table: "crew", Key: "Person"},
	)
	require.NoError(t, g.resolve(m))
	// no exact or prefix match: the shortest table name wins the key
	assert.Equal(t, "Person", m.collections["crew"].Key)
	assert.Equal(t, "EditorialTeam", m.collections["editorial_team"].Key)
}

func TestResolveSingletonRekey(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "settings", Key: "Settings", Singleton: true},
		&Collection{Table: "site_settings", Key: "Settings", Singleton: true},
	)
	require.NoError(t, g.resolve(m))
	assert.Equal(t, "Settings", m.collections["settings"].Key)
	// singletons are rekeyed without singularizing
	assert.Equal(t, "SiteSettings", m.collections["site_settings"].Key)
}

func TestResolveKeysUnique(t *testing.T) {
	g := testGenerator(Options{})
	m := testModel(
		&Collection{Table: "events", Key: "Event"},
		&Collection{Table: "calendar_events", Key: "Event"},
		&Collection{Table: "venues", Key: "Venue"},
	)
	require.NoError(t, g.resolve(m))
	seen := make(map[string]bool)
	for _, table := range m.order {
		key := m.collections[table].Key
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestResolveResidualCollisionIsFatal(t *testing.T) {
	g := testGenerator(Options{})
	// both rekey to UserCard from their own table names
	m := testModel(
		&Collection{Table: "user_card", Key: "UserCard"},
		&Collection{Table: "user_cards", Key: "UserCard"},
	)
	err := g.resolve(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still collides")
}
