package session

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Match is one occurrence found by Find. Line and Column are 1-based; Column
// counts runes.
type Match struct {
	Offset int
	Line   int
	Column int
	Text   string
}

// Find searches the latest text, pending edit included, for query, either
// literally or as a regular expression. Empty queries and empty regexp
// matches yield nothing.
func (s *Session) Find(query string, regex bool) ([]Match, error) {
	s.mu.Lock()
	text := s.baseLocked()
	s.mu.Unlock()
	if query == "" {
		return nil, nil
	}

	var spans [][]int
	if regex {
		re, err := regexp.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
		spans = re.FindAllStringIndex(text, -1)
	} else {
		for from := 0; ; {
			i := strings.Index(text[from:], query)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, []int{start, start + len(query)})
			from = start + len(query)
		}
	}

	var matches []Match
	for _, span := range spans {
		if span[0] == span[1] {
			continue
		}
		line := strings.Count(text[:span[0]], "\n") + 1
		lineStart := strings.LastIndexByte(text[:span[0]], '\n') + 1
		matches = append(matches, Match{
			Offset: span[0],
			Line:   line,
			Column: utf8.RuneCountInString(text[lineStart:span[0]]) + 1,
			Text:   text[span[0]:span[1]],
		})
	}
	return matches, nil
}
