package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crateworks/typegen/internal/util"
)

// resolve deduplicates display keys: when two or more tables produce the same
// PascalCase key, the best match keeps it and every other member is rekeyed
// from its own table name. Rekeying incorporates the table name's
// distinguishing suffix so it almost always succeeds; a collision that
// survives is an internal invariant violation and aborts the run.
func (g *Generator) resolve(m *model) error {
	groups := make(map[string][]*Collection)
	for _, table := range m.order {
		c := m.collections[table]
		groups[c.Key] = append(groups[c.Key], c)
	}

	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		// shorter backend names are weaker matches, last-resort tie-break only
		sort.SliceStable(group, func(i, j int) bool {
			return len(group[i].Table) < len(group[j].Table)
		})
		best := bestMatch(key, group)
		for _, c := range group {
			if c == best {
				continue
			}
			singular := !c.Singleton
			rekeyed := util.PascalCase(c.Table)
			if singular {
				rekeyed = util.PascalCase(util.Singularize(c.Table))
			}
			g.logger.Debug("display key %q collides, renaming %s to %q", key, c.Table, rekeyed)
			c.Key = rekeyed
		}
	}

	seen := make(map[string]string, len(m.order))
	for _, table := range m.order {
		c := m.collections[table]
		if prev, ok := seen[c.Key]; ok {
			return fmt.Errorf("display key %q still collides after renaming (tables %q and %q)", c.Key, prev, table)
		}
		seen[c.Key] = table
	}
	return nil
}

// bestMatch picks the group member that keeps the collision key: an exact
// case-insensitive table name match wins, then a prefix match, then the first
// member in sorted order.
func bestMatch(key string, group []*Collection) *Collection {
	for _, c := range group {
		if strings.EqualFold(c.Table, key) {
			return c
		}
	}
	lower := strings.ToLower(key)
	for _, c := range group {
		if strings.HasPrefix(strings.ToLower(c.Table), lower) {
			return c
		}
	}
	return group[0]
}
