// Package convert renders parsed JSON values as XML, YAML or TypeScript
// interface declarations.
//
// The renderers are deliberately simple text generators. XML output is not
// escaped and YAML keys are written verbatim, so keys or strings containing
// markup or YAML indicators produce output that other tools may reject.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"jsonedit/internal/jsonvalue"
)

// ErrInvalidJSON is returned by ConvertText when the input does not parse.
var ErrInvalidJSON = errors.New("invalid JSON")

// Format names a conversion target.
type Format string

const (
	XML        Format = "xml"
	YAML       Format = "yaml"
	TypeScript Format = "ts"
)

// Formats lists the supported targets in display order.
func Formats() []Format {
	return []Format{XML, YAML, TypeScript}
}

// ParseFormat resolves a user-supplied target name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xml":
		return XML, nil
	case "yaml", "yml":
		return YAML, nil
	case "ts", "typescript", "interface":
		return TypeScript, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Extension returns the file extension used when saving output of f.
func (f Format) Extension() string {
	switch f {
	case XML:
		return ".xml"
	case YAML:
		return ".yaml"
	case TypeScript:
		return ".ts"
	default:
		return ".txt"
	}
}

// Convert renders v in the requested format. Unknown formats yield "".
func Convert(v jsonvalue.Value, f Format) string {
	switch f {
	case XML:
		return ToXML(v)
	case YAML:
		return ToYAML(v)
	case TypeScript:
		return ToTypeScript(v)
	default:
		return ""
	}
}

// ConvertText parses text and converts it. Nothing is rendered when text is
// not valid JSON.
func ConvertText(text string, f Format) (string, error) {
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return Convert(v, f), nil
}
