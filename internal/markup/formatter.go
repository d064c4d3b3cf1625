// Package markup converts the small markdown dialect used in question
// cells (bold, italic, pipe tables, newlines) into an HTML fragment.
//
// Input is trusted author markup: text outside the recognised spans is
// copied through without escaping so cells may carry raw HTML or TeX.
package markup

import (
	"regexp"
	"strings"
)

var (
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern    = regexp.MustCompile(`\*(.*?)\*`)
	separatorPattern = regexp.MustCompile(`^\s*:?-+:?\s*$`)
)

// Format returns the HTML fragment for text. Empty input yields "".
func Format(text string) string {
	if text == "" {
		return ""
	}

	out := strings.ReplaceAll(text, "\r\n", "\n")
	out = boldPattern.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>$1</em>")
	out = replaceTables(out)
	return strings.ReplaceAll(out, "\n", "<br>")
}

// replaceTables swaps every qualifying block of pipe-delimited lines for
// a <table>. A block swallows the newline that terminates it.
func replaceTables(text string) string {
	lines := strings.SplitAfter(text, "\n")

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(lines); {
		if !isPipeLine(lines[i]) {
			b.WriteString(lines[i])
			i++
			continue
		}

		j := i
		for j < len(lines) && isPipeLine(lines[j]) {
			j++
		}
		block := lines[i:j]
		if html, ok := renderTable(block); ok {
			b.WriteString(html)
		} else {
			for _, l := range block {
				b.WriteString(l)
			}
		}
		i = j
	}
	return b.String()
}

// isPipeLine reports whether line starts and ends with a pipe. Only the
// line terminator is ignored; indented or space-padded lines stay text.
func isPipeLine(line string) bool {
	t := strings.TrimSuffix(line, "\n")
	return len(t) >= 2 && strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|")
}

// splitCells drops the empty cells produced by the outer pipes and trims
// the rest.
func splitCells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isSeparator(line string) bool {
	cells := splitCells(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorPattern.MatchString(c) {
			return false
		}
	}
	return true
}

func renderTable(block []string) (string, bool) {
	if len(block) < 2 {
		return "", false
	}

	var rows [][]string
	hasSeparator := false
	for _, line := range block {
		if isSeparator(line) {
			hasSeparator = true
			continue
		}
		rows = append(rows, splitCells(line))
	}
	if !hasSeparator {
		return "", false
	}

	var b strings.Builder
	b.WriteString(`<table class="content-table">`)
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<" + tag + ">" + cell + "</" + tag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String(), true
}
