package jsonvalue

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	v, err := Parse(`{"z":1,"a":2,"m":{"y":true,"b":null}}`)
	require.NoError(t, err)
	require.Equal(t, Object, v.Kind)

	keys := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
	assert.Equal(t, `{"z":1,"a":2,"m":{"y":true,"b":null}}`, v.Compact())
}

func TestParseDuplicateKeysKeepFirstPosition(t *testing.T) {
	v, err := Parse(`{"a":1,"b":2,"a":3}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, v.Compact())
}

func TestParseNormalizesNumbers(t *testing.T) {
	v, err := Parse(`[1.50, -0, 1e10, 12345678901234567890, 1e2, -2.5E+3, 0.0, 1e21, 1.5e-7, 0.000001, 1e400]`)
	require.NoError(t, err)
	assert.Equal(t, `[1.5,0,10000000000,12345678901234567890,100,-2500,0,1e+21,1.5e-7,0.000001,1e400]`, v.Compact())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"whitespace": "   \n\t",
		"unclosed":   `{"a":1`,
		"bad key":    `{1:2}`,
		"trailing":   `{} {}`,
		"garbage":    `{}x`,
		"comment":    "{/* c */}",
		"single":     `{'a':1}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
		})
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse(`[1,2`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestParseTrailingData(t *testing.T) {
	_, err := Parse(`[] []`)
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestIsNonEmptyContainer(t *testing.T) {
	cases := map[string]bool{
		`{}`:        false,
		`[]`:        false,
		`{"a":1}`:   true,
		`[0]`:       true,
		`"text"`:    false,
		`42`:        false,
		`null`:      false,
		`[[]]`:      true,
		` { } `:     false,
		"[\n null]": true,
	}
	for text, want := range cases {
		v, err := Parse(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, v.IsNonEmptyContainer(), text)
	}
}

func TestIndent(t *testing.T) {
	v, err := Parse(`{"a":[1,{"b":"x"}],"c":{},"d":[]}`)
	require.NoError(t, err)

	want := "{\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    {\n" +
		"      \"b\": \"x\"\n" +
		"    }\n" +
		"  ],\n" +
		"  \"c\": {},\n" +
		"  \"d\": []\n" +
		"}"
	assert.Equal(t, want, v.Indent("  "))
}

func TestQuoteDoesNotEscapeHTML(t *testing.T) {
	assert.Equal(t, `"<a href=\"x\">&</a>"`, Quote(`<a href="x">&</a>`))
	assert.Equal(t, `"line\nbreak"`, Quote("line\nbreak"))
}

func TestGet(t *testing.T) {
	v, err := Parse(`{"a":{"b":2}}`)
	require.NoError(t, err)

	inner, ok := v.Get("a")
	require.True(t, ok)
	b, ok := inner.Get("b")
	require.True(t, ok)
	assert.Equal(t, "2", b.Text)

	_, ok = v.Get("missing")
	assert.False(t, ok)
}
