package convert

import (
	"regexp"
	"strings"
	"unicode"

	"jsonedit/internal/jsonvalue"
)

const rootTypeName = "Root"

var tsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ToTypeScript infers TypeScript declarations describing v. Every object
// shape becomes an interface named after the path that leads to it. Two
// shapes that derive the same name are both emitted unchanged.
func ToTypeScript(v jsonvalue.Value) string {
	g := &tsGenerator{}

	switch v.Kind {
	case jsonvalue.Object:
		g.object(rootTypeName, []jsonvalue.Value{v})
	case jsonvalue.Array:
		slot := g.reserve()
		elem := g.arrayElement(rootTypeName+"Item", v.Items)
		g.decls[slot] = "type " + rootTypeName + " = " + elem + "[];\n"
	default:
		g.decls = append(g.decls, "type "+rootTypeName+" = "+v.Kind.String()+";\n")
	}

	return strings.Join(g.decls, "\n")
}

type tsGenerator struct {
	decls []string
}

// reserve keeps a position for a declaration whose body depends on
// declarations discovered while rendering it.
func (g *tsGenerator) reserve() int {
	g.decls = append(g.decls, "")
	return len(g.decls) - 1
}

// object declares an interface merging the fields of all samples in
// first-seen order and returns its name.
func (g *tsGenerator) object(name string, samples []jsonvalue.Value) string {
	slot := g.reserve()

	var keys []string
	fields := make(map[string][]jsonvalue.Value)
	for _, sample := range samples {
		for _, m := range sample.Members {
			if _, seen := fields[m.Key]; !seen {
				keys = append(keys, m.Key)
			}
			fields[m.Key] = append(fields[m.Key], m.Value)
		}
	}

	var b strings.Builder
	b.WriteString("interface ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(tsFieldName(key))
		b.WriteString(": ")
		b.WriteString(g.fieldType(name, key, fields[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}\n")

	g.decls[slot] = b.String()
	return name
}

// fieldType infers the type of key from the first value seen for it.
func (g *tsGenerator) fieldType(parent, key string, values []jsonvalue.Value) string {
	first := values[0]
	switch first.Kind {
	case jsonvalue.Object:
		return g.object(parent+typeNamePart(key), sameKind(values, jsonvalue.Object))
	case jsonvalue.Array:
		var items []jsonvalue.Value
		for _, v := range sameKind(values, jsonvalue.Array) {
			items = append(items, v.Items...)
		}
		return g.arrayElement(parent+typeNamePart(singular(key)), items) + "[]"
	default:
		return first.Kind.String()
	}
}

// arrayElement infers the element type of an array from its first item.
func (g *tsGenerator) arrayElement(name string, items []jsonvalue.Value) string {
	if len(items) == 0 {
		return "any"
	}

	first := items[0]
	switch first.Kind {
	case jsonvalue.Object:
		return g.object(name, sameKind(items, jsonvalue.Object))
	case jsonvalue.Array:
		var nested []jsonvalue.Value
		for _, v := range sameKind(items, jsonvalue.Array) {
			nested = append(nested, v.Items...)
		}
		return g.arrayElement(name, nested) + "[]"
	default:
		return first.Kind.String()
	}
}

func sameKind(values []jsonvalue.Value, kind jsonvalue.Kind) []jsonvalue.Value {
	out := make([]jsonvalue.Value, 0, len(values))
	for _, v := range values {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

func tsFieldName(key string) string {
	if tsIdentifier.MatchString(key) {
		return key
	}
	return jsonvalue.Quote(key)
}

// typeNamePart turns a property name into a PascalCase type name fragment.
// "user_name" and "user-name" both become "UserName".
func typeNamePart(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}

// singular drops one trailing "s" from plural-looking property names.
func singular(key string) string {
	if len(key) > 1 && strings.HasSuffix(key, "s") && !strings.HasSuffix(key, "ss") {
		return key[:len(key)-1]
	}
	return key
}
