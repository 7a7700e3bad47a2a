package generator

import (
	"fmt"
	"strings"
)

// render converts the resolved model into the final text: one composite type
// per collection, the registry type mapping table names to collection types,
// and (non-legacy) a closed union of all table names. Collections and fields
// keep the order of first appearance in the input field list.
func (g *Generator) render(m *model) string {
	var sb strings.Builder

	for _, table := range m.order {
		c := m.collections[table]
		sb.WriteString(fmt.Sprintf("export type %s = {\n", c.Key))
		for _, f := range c.Fields {
			optional := "?"
			if f.Required || f.Key == "id" {
				optional = ""
			}
			sb.WriteString(fmt.Sprintf("  %s%s: %s;\n", f.Key, optional, g.fieldType(m, f)))
		}
		sb.WriteString("};\n\n")
	}

	sb.WriteString(fmt.Sprintf("export type %s = {\n", g.opts.TypeName))
	for _, table := range m.order {
		c := m.collections[table]
		suffix := "[]"
		if c.Singleton || g.opts.Legacy {
			suffix = ""
		}
		sb.WriteString(fmt.Sprintf("  %s: %s%s;\n", table, c.Key, suffix))
	}
	sb.WriteString("};\n")

	if !g.opts.Legacy {
		names := make([]string, 0, len(m.order))
		for _, table := range m.order {
			names = append(names, fmt.Sprintf("%q", table))
		}
		sb.WriteString(fmt.Sprintf("\nexport type %sName = %s;\n", g.opts.TypeName, strings.Join(names, " | ")))
	}

	return sb.String()
}

// fieldType renders one field's type expression. For relational fields the
// member list is the target's identifier type plus its collection key. When
// the list has more than one member it is parenthesized only when nullability
// applies, so the trailing null binds to the whole union. Multi-valued fields
// get exactly one array suffix: per member when not nullable, around the
// whole expression when nullable. The per-member/outer split mirrors the
// long-standing output of this generator; downstream code depends on the
// exact text, so it stays.
func (g *Generator) fieldType(m *model, f *Field) string {
	types := f.Types
	var many bool
	if f.Relation != nil {
		many = f.Relation.Many
		types = g.relationTypes(m, f.Relation)
	}
	if len(types) == 0 {
		// degraded field (mapping gap reported during normalization)
		types = []string{unknownType}
	}

	if many && !f.Nullable {
		members := make([]string, len(types))
		for i, t := range types {
			members[i] = t + "[]"
		}
		return strings.Join(members, " | ")
	}

	expr := strings.Join(types, " | ")
	if len(types) > 1 && f.Nullable {
		expr = "(" + expr + ")"
	}
	if many {
		return expr + "[]"
	}
	if f.Nullable {
		expr += " | null"
	}
	return expr
}

// relationTypes combines the target collection's identifier type and its
// display key. Lookup misses degrade the member list and are reported.
func (g *Generator) relationTypes(m *model, r *Relation) []string {
	var types []string
	if idType, ok := m.idTypes[r.Table]; ok {
		if mapped, ok := g.typeMap[idType]; ok {
			types = append(types, mapped)
		} else {
			g.warnf("no type mapping for the primary key of %q (backend type %q)", r.Table, idType)
			types = append(types, unknownType)
		}
	} else {
		g.warnf("no primary key type known for relation target %q", r.Table)
	}
	if c, ok := m.collections[r.Table]; ok {
		types = append(types, c.Key)
	} else {
		g.warnf("relation target collection %q not found", r.Table)
	}
	if len(types) == 0 {
		types = []string{unknownType}
	}
	return types
}
