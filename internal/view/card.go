package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"jsonedit/internal/format"
	"jsonedit/internal/history"
)

// renderCards draws each entry in a rounded box no wider than width.
func renderCards(entries []history.Entry, width int, p palette) []string {
	if width <= 0 {
		width = 80
	}
	padding := 2

	lines := make([]string, 0, len(entries)*8)
	for idx, e := range entries {
		if idx > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, renderCard(e, width, padding, p)...)
	}
	return lines
}

func renderCard(e history.Entry, totalWidth int, padding int, p palette) []string {
	bodyLines := format.RenderEntryLines(e, 0)

	maxContentWidth := totalWidth - padding*2 - 4
	if maxContentWidth < 8 {
		maxContentWidth = 8
	}

	headerText := fmt.Sprintf("%d · %s", e.ID, e.Timestamp)
	content := wrapLines(append([]string{headerText}, bodyLines...), maxContentWidth)

	cardWidth := contentMaxWidth(content)
	if cardWidth > maxContentWidth {
		cardWidth = maxContentWidth
	}

	if p.enabled && len(content) > 0 {
		colored := fmt.Sprintf("%s · %s", p.paint(p.id, fmt.Sprint(e.ID)), p.paint(p.timestamp, e.Timestamp))
		content[0] = strings.Replace(content[0], headerText, colored, 1)
	}

	pad := strings.Repeat(" ", padding)
	top := fmt.Sprintf("%s╭%s╮", pad, strings.Repeat("─", cardWidth+2))
	bottom := fmt.Sprintf("%s╰%s╯", pad, strings.Repeat("─", cardWidth+2))

	result := []string{top}
	for _, line := range content {
		result = append(result, renderCardLine(line, cardWidth, pad, p))
	}
	return append(result, bottom)
}

func renderCardLine(line string, cardWidth int, pad string, p palette) string {
	displayLen := visibleWidth(line)
	if displayLen > cardWidth {
		line = truncateToWidth(line, cardWidth)
		displayLen = visibleWidth(line)
	}
	border := p.paint(p.separator, "│")
	return fmt.Sprintf("%s%s %s%s %s", pad, border, line, strings.Repeat(" ", cardWidth-displayLen), border)
}

func wrapLines(lines []string, width int) []string {
	var out []string
	for _, line := range lines {
		out = append(out, wrapText(line, width)...)
	}
	return out
}

// wrapText breaks text into chunks of at most width cells.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	text = strings.TrimRight(text, " ")
	if text == "" {
		return []string{""}
	}
	var out []string
	var current strings.Builder
	currentWidth := 0

	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func contentMaxWidth(lines []string) int {
	max := 0
	for _, line := range lines {
		if w := visibleWidth(line); w > max {
			max = w
		}
	}
	return max
}

func truncateToWidth(text string, width int) string {
	if visibleWidth(text) <= width {
		return text
	}
	var b strings.Builder
	current := 0

	for i := 0; i < len(text); {
		if m := ansiPattern.FindStringIndex(text[i:]); m != nil && m[0] == 0 {
			b.WriteString(text[i : i+m[1]])
			i += m[1]
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		b.WriteRune(r)
		current += rw
		i += size
	}
	return b.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleWidth(text string) int {
	return runewidth.StringWidth(ansiPattern.ReplaceAllString(text, ""))
}
