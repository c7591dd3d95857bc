// Package jsonvalue parses JSON text into an order-preserving tree.
//
// encoding/json decodes objects into Go maps, which lose key order. Every
// renderer in this module (XML, YAML, TypeScript, previews, pretty printing)
// must follow the key order of the source text, so values are decoded from
// the token stream into Value instead.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the JSON type of a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrTrailingData is returned when more input follows the top-level value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. Text holds the literal of a number or the
// decoded contents of a string.
type Value struct {
	Kind    Kind
	Bool    bool
	Text    string
	Items   []Value
	Members []Member
}

// Parse decodes text as exactly one JSON value.
// Duplicate object keys keep the position of the first occurrence and the
// value of the last one.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return Value{}, err
	}

	tok, err := dec.Token()
	if err == io.EOF {
		return v, nil
	}
	if err != nil {
		return Value{}, err
	}
	return Value{}, fmt.Errorf("%w: %v", ErrTrailingData, tok)
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := nextToken(dec)
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return Value{Kind: String, Text: t}, nil
	case json.Number:
		return Value{Kind: Number, Text: normalizeNumber(t.String())}, nil
	case bool:
		return Value{Kind: Bool, Bool: t}, nil
	case nil:
		return Value{Kind: Null}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

// normalizeNumber spells a number literal the way JavaScript prints the
// parsed value: 1.50 becomes 1.5, 1e2 becomes 100, 1e-7 stays 1e-7. Plain
// integer literals are kept so values past 2^53 keep their digits, and
// literals outside float64 range are kept as written.
func normalizeNumber(lit string) string {
	if isIntegerLiteral(lit) {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return lit
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isIntegerLiteral(lit string) bool {
	digits := strings.TrimPrefix(lit, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Value{Kind: Object, Members: []Member{}}
	index := make(map[string]int)

	for dec.More() {
		tok, err := nextToken(dec)
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}

		val, err := decode(dec)
		if err != nil {
			return Value{}, err
		}

		if i, dup := index[key]; dup {
			obj.Members[i].Value = val
			continue
		}
		index[key] = len(obj.Members)
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	if _, err := nextToken(dec); err != nil {
		return Value{}, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := Value{Kind: Array, Items: []Value{}}
	for dec.More() {
		item, err := decode(dec)
		if err != nil {
			return Value{}, err
		}
		arr.Items = append(arr.Items, item)
	}

	if _, err := nextToken(dec); err != nil {
		return Value{}, err
	}
	return arr, nil
}

func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// Len returns the number of members or items of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case Object:
		return len(v.Members)
	case Array:
		return len(v.Items)
	default:
		return 0
	}
}

// IsContainer reports whether v is an object or an array.
func (v Value) IsContainer() bool {
	return v.Kind == Object || v.Kind == Array
}

// IsNonEmptyContainer reports whether v is an object or array with at least
// one element.
func (v Value) IsNonEmptyContainer() bool {
	return v.IsContainer() && v.Len() > 0
}

// Get returns the value stored under key in an object.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Compact serializes v without insignificant whitespace.
func (v Value) Compact() string {
	var b strings.Builder
	writeCompact(&b, v)
	return b.String()
}

// Indent serializes v with one element per line, each nesting level
// prefixed by indent. Empty containers stay on one line.
func (v Value) Indent(indent string) string {
	var b strings.Builder
	writeIndent(&b, v, indent, 0)
	return b.String()
}

func writeCompact(b *strings.Builder, v Value) {
	switch v.Kind {
	case Array:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCompact(b, item)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Quote(m.Key))
			b.WriteByte(':')
			writeCompact(b, m.Value)
		}
		b.WriteByte('}')
	default:
		b.WriteString(scalarText(v))
	}
}

func writeIndent(b *strings.Builder, v Value, indent string, depth int) {
	switch {
	case v.Kind == Array && len(v.Items) > 0:
		b.WriteString("[\n")
		for i, item := range v.Items {
			b.WriteString(strings.Repeat(indent, depth+1))
			writeIndent(b, item, indent, depth+1)
			if i < len(v.Items)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteByte(']')
	case v.Kind == Object && len(v.Members) > 0:
		b.WriteString("{\n")
		for i, m := range v.Members {
			b.WriteString(strings.Repeat(indent, depth+1))
			b.WriteString(Quote(m.Key))
			b.WriteString(": ")
			writeIndent(b, m.Value, indent, depth+1)
			if i < len(v.Members)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteByte('}')
	default:
		writeCompact(b, v)
	}
}

func scalarText(v Value) string {
	switch v.Kind {
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return v.Text
	case String:
		return Quote(v.Text)
	default:
		return "null"
	}
}

// Quote returns s as a JSON string literal. Unlike json.Marshal it does not
// escape <, > and &.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
