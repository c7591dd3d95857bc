package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"block", `{/* note */"a":1}`, `{"a":1}`},
		{"line keeps newline", "{\n  \"a\": 1 // one\n}", "{\n  \"a\": 1 \n}"},
		{"line at end", `{"a":1} // tail`, `{"a":1} `},
		{"unterminated block", `{"a":1} /* open`, `{"a":1} `},
		{"multiline block", "{/*\n x\n*/\"a\":1}", `{"a":1}`},
		{"lone slash", `{"a":"1/2"}`, `{"a":"1/2"}`},
		{"crlf", "a // c\r\nb", "a \r\nb"},
		// Not JSON-aware: URLs inside strings lose their tail.
		{"string contents", `{"u":"http://x"}`, `{"u":"http:`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripComments(tc.in))
		})
	}
}

func TestStripLineBreaks(t *testing.T) {
	assert.Equal(t, `{"a": 1,"b": 2}`, StripLineBreaks("{\"a\": 1,\r\n\"b\": 2}\n"))

	for _, in := range []string{"", "a\nb", "\r\r\n\n", "no breaks", "x\n\ny\r"} {
		once := StripLineBreaks(in)
		assert.Equal(t, once, StripLineBreaks(once), in)
		assert.NotContains(t, once, "\n")
		assert.NotContains(t, once, "\r")
	}
}

func TestStripEscapes(t *testing.T) {
	cases := map[string]string{
		`{\"a\":\"b\"}`:   `{"a":"b"}`,
		`line\nnext`:      "line\nnext",
		`tab\there`:       "tab\there",
		`back\\slash`:     `back\slash`,
		`\\n`:             `\n`,
		`it\'s`:           `it's`,
		`a\/b`:            `a/b`,
		`\b\f\r`:          "\b\f\r",
		`\u0041 stays`:    `\u0041 stays`,
		`trailing\`:       `trailing\`,
		"plain text only": "plain text only",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripEscapes(in), in)
	}
}

func TestEscapeIsInverseOfStripEscapesForPlainText(t *testing.T) {
	in := "{\"a\": \"x\ty\"}\n"
	escaped := Escape(in)
	assert.Equal(t, `{\"a\": \"x\ty\"}\n`, escaped)
	assert.Equal(t, in, StripEscapes(escaped))
}

func TestPrettyAndMinify(t *testing.T) {
	pretty, err := Pretty(`{"b":1,"a":[true,null]}`, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}", pretty)

	min, err := Minify(pretty)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null]}`, min)

	_, err = Pretty(`{"a":}`, "  ")
	assert.Error(t, err)
	_, err = Minify(`nope`)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	assert.Equal(t, "ab", Apply(LineBreaks, "a\nb"))
	assert.Equal(t, "a", Apply(Comments, "a/* x */"))
	assert.Equal(t, `"`, Apply(Escapes, `\"`))
	assert.Equal(t, `a\"b`, Apply(Quote, `a"b`))
	assert.Equal(t, "same", Apply(Kind("other"), "same"))
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"comments": Comments, "newlines": LineBreaks, "line-breaks": LineBreaks,
		"escapes": Escapes, "unescape": Escapes, "escape": Quote,
	} {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("tabs")
	assert.Error(t, err)
}
