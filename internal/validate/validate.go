// Package validate reports whether text is JSON, where it first goes wrong,
// and whether it satisfies a JSON Schema.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Result describes the outcome of a syntax check. Line and Column are
// 1-based and point at the first offending character; Column counts runes.
type Result struct {
	Valid   bool
	Offset  int
	Line    int
	Column  int
	Message string
}

func (r Result) String() string {
	if r.Valid {
		return "valid JSON"
	}
	return fmt.Sprintf("line %d, column %d: %s", r.Line, r.Column, r.Message)
}

// Check parses text and locates the first syntax error.
func Check(text string) Result {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return Result{Valid: true}
	}

	var syn *json.SyntaxError
	if !errors.As(err, &syn) {
		return Result{Line: 1, Column: 1, Message: err.Error()}
	}
	// Offset counts the bytes read including the offending one.
	pos := int(syn.Offset) - 1
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	return Result{
		Offset:  pos,
		Line:    strings.Count(text[:pos], "\n") + 1,
		Column:  utf8.RuneCountInString(text[lineStart:pos]) + 1,
		Message: syn.Error(),
	}
}

// Violation is one leaf failure of schema validation. Path is dotted, with
// array indexes in brackets; the root is "$".
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// AgainstSchema validates text against the schema at schemaPath. A nil slice
// means the document conforms. Errors are reserved for unreadable schemas
// and text that is not JSON.
func AgainstSchema(text, schemaPath string) ([]Violation, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var out []Violation
	collectViolations(ve, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func collectViolations(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, Violation{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

// pointerToPath turns "/items/0/name" into "$.items[0].name".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	if ptr == "" || ptr == "/" {
		return "$"
	}
	var b strings.Builder
	b.WriteString("$")
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		b.WriteString("." + part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
