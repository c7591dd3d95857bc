// Package sanitize implements the cosmetic text actions of the editor:
// comment stripping, line-break removal, escaping and unescaping, plus
// pretty-printing and minifying.
//
// The strip and escape functions work on raw characters and do not track
// JSON string boundaries. A "//" inside a string value is treated as a
// comment like any other.
package sanitize

import (
	"fmt"
	"strings"

	"jsonedit/internal/jsonvalue"
)

// Kind names a sanitizer.
type Kind string

const (
	Comments   Kind = "comments"
	LineBreaks Kind = "newlines"
	Escapes    Kind = "escapes"
	Quote      Kind = "escape"
)

// ParseKind resolves a user-supplied sanitizer name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "comments", "comment":
		return Comments, nil
	case "newlines", "linebreaks", "line-breaks":
		return LineBreaks, nil
	case "escapes", "unescape":
		return Escapes, nil
	case "escape", "quote":
		return Quote, nil
	default:
		return "", fmt.Errorf("unknown sanitizer: %s", name)
	}
}

// Apply runs the sanitizer named by kind. Unknown kinds return text unchanged.
func Apply(kind Kind, text string) string {
	switch kind {
	case Comments:
		return StripComments(text)
	case LineBreaks:
		return StripLineBreaks(text)
	case Escapes:
		return StripEscapes(text)
	case Quote:
		return Escape(text)
	default:
		return text
	}
}

// StripComments removes /* block */ and // line comments. An unterminated
// block comment runs to the end of the text. Line comments stop before the
// newline, which is kept.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] == '/' && i+1 < len(text) {
			switch text[i+1] {
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return b.String()
				}
				i += 2 + end + 2
				continue
			case '/':
				end := strings.IndexAny(text[i+2:], "\r\n")
				if end < 0 {
					return b.String()
				}
				i += 2 + end
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// StripLineBreaks removes every carriage return and newline.
func StripLineBreaks(text string) string {
	return lineBreaks.Replace(text)
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// unescapes is applied in a single left-to-right pass, so "\\n" becomes
// the two characters `\n`, not a newline.
var unescapes = strings.NewReplacer(
	`\\`, `\`,
	`\"`, `"`,
	`\'`, `'`,
	`\/`, `/`,
	`\b`, "\b",
	`\f`, "\f",
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
)

// StripEscapes replaces the common backslash escape sequences with the
// characters they stand for. Other backslashes are left in place.
func StripEscapes(text string) string {
	return unescapes.Replace(text)
}

// Escape returns text as the body of a JSON string literal, without the
// surrounding quotes.
func Escape(text string) string {
	quoted := jsonvalue.Quote(text)
	return quoted[1 : len(quoted)-1]
}

// Pretty re-indents JSON text with indent per level, keeping key order.
func Pretty(text, indent string) (string, error) {
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return "", err
	}
	return v.Indent(indent), nil
}

// Minify removes all insignificant whitespace from JSON text.
func Minify(text string) (string, error) {
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return "", err
	}
	return v.Compact(), nil
}
