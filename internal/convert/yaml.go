package convert

import (
	"strings"

	"jsonedit/internal/jsonvalue"
)

const yamlIndent = "  "

// ToYAML renders v as block-style YAML. Scalars keep their JSON spelling, so
// strings stay double-quoted.
func ToYAML(v jsonvalue.Value) string {
	var b strings.Builder
	switch {
	case v.IsNonEmptyContainer():
		writeYAMLBlock(&b, v, 0)
	default:
		b.WriteString(yamlInline(v))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeYAMLBlock(b *strings.Builder, v jsonvalue.Value, depth int) {
	prefix := strings.Repeat(yamlIndent, depth)

	switch v.Kind {
	case jsonvalue.Object:
		for _, m := range v.Members {
			b.WriteString(prefix)
			b.WriteString(m.Key)
			b.WriteByte(':')
			writeYAMLChild(b, m.Value, depth)
		}
	case jsonvalue.Array:
		for _, item := range v.Items {
			b.WriteString(prefix)
			b.WriteByte('-')
			writeYAMLChild(b, item, depth)
		}
	}
}

// writeYAMLChild finishes the line started by a key or dash. Non-empty
// containers continue on the following lines one level deeper.
func writeYAMLChild(b *strings.Builder, v jsonvalue.Value, depth int) {
	if v.IsNonEmptyContainer() {
		b.WriteByte('\n')
		writeYAMLBlock(b, v, depth+1)
		return
	}
	b.WriteByte(' ')
	b.WriteString(yamlInline(v))
	b.WriteByte('\n')
}

func yamlInline(v jsonvalue.Value) string {
	switch v.Kind {
	case jsonvalue.Array:
		return "[]"
	case jsonvalue.Object:
		return "{}"
	default:
		return v.Compact()
	}
}
