package convert

import (
	"strings"

	"jsonedit/internal/jsonvalue"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// itemTag wraps elements of arrays that have no owning key.
const itemTag = "item"

// ToXML renders v inside a <root> element preceded by an XML declaration.
// Keys become element names and array values repeat their key once per
// element. Text content is written as-is.
func ToXML(v jsonvalue.Value) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteByte('\n')
	b.WriteString("<root>")
	writeXMLContent(&b, v)
	b.WriteString("</root>")
	return b.String()
}

func writeXMLContent(b *strings.Builder, v jsonvalue.Value) {
	switch v.Kind {
	case jsonvalue.Object:
		for _, m := range v.Members {
			writeXMLField(b, m.Key, m.Value)
		}
	case jsonvalue.Array:
		for _, item := range v.Items {
			writeXMLElement(b, itemTag, item)
		}
	default:
		b.WriteString(xmlText(v))
	}
}

func writeXMLField(b *strings.Builder, key string, v jsonvalue.Value) {
	if v.Kind == jsonvalue.Array {
		for _, item := range v.Items {
			writeXMLElement(b, key, item)
		}
		return
	}
	writeXMLElement(b, key, v)
}

func writeXMLElement(b *strings.Builder, tag string, v jsonvalue.Value) {
	b.WriteByte('<')
	b.WriteString(tag)
	b.WriteByte('>')
	writeXMLContent(b, v)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func xmlText(v jsonvalue.Value) string {
	switch v.Kind {
	case jsonvalue.String, jsonvalue.Number:
		return v.Text
	case jsonvalue.Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
