// Package layout decides how the answer options of a question are drawn.
package layout

import (
	"strconv"
	"strings"

	"cetaksoal/domain/exam"
)

// Mode is one of the mutually exclusive answer renderings
type Mode string

const (
	// ModeStatementTable lists options as numbered statements with two
	// empty decision columns.
	ModeStatementTable Mode = "statement_table"
	// ModeChecklist draws a checkbox before each option.
	ModeChecklist Mode = "checklist"
	// ModeLettered is the default single-answer A/B/C list.
	ModeLettered Mode = "lettered"
)

// Row is one rendered option. Body is the raw option markup.
type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Body  string `json:"body"`
	Img   string `json:"img,omitempty"`
}

// Layout is the selected rendering for a question's options
type Layout struct {
	Mode Mode `json:"mode"`
	// Headers is set only for ModeStatementTable.
	Headers []string `json:"headers,omitempty"`
	Rows    []Row    `json:"rows"`
}

var (
	trueFalseHeaders = []string{"No", "Pernyataan", "B", "S"}
	matchHeaders     = []string{"No", "Pernyataan", "Sesuai", "Tidak"}
)

// Select picks the layout from the question type. Matching is a
// case-insensitive substring test; unknown types fall back to the
// lettered list.
func Select(q exam.Question) Layout {
	tipe := strings.ToLower(q.Tipe)

	switch {
	case strings.Contains(tipe, "benar") || strings.Contains(tipe, "sesuai"):
		headers := matchHeaders
		if strings.Contains(tipe, "benar") {
			headers = trueFalseHeaders
		}
		return Layout{
			Mode:    ModeStatementTable,
			Headers: append([]string(nil), headers...),
			Rows: rows(q, func(o exam.Option) string {
				return strconv.Itoa(o.Index + 1)
			}),
		}
	case strings.Contains(tipe, "jamak") || strings.Contains(tipe, "mcma"):
		return Layout{
			Mode: ModeChecklist,
			Rows: rows(q, func(exam.Option) string { return "" }),
		}
	default:
		return Layout{
			Mode: ModeLettered,
			Rows: rows(q, func(o exam.Option) string {
				return string(rune('A'+o.Index)) + "."
			}),
		}
	}
}

// rows keeps non-empty options, labelled by slot position so gaps are
// never re-sequenced.
func rows(q exam.Question, label func(exam.Option) string) []Row {
	out := make([]Row, 0, 5)
	for _, o := range q.Options() {
		if !o.Present() {
			continue
		}
		out = append(out, Row{Key: o.Key, Label: label(o), Body: o.Text, Img: o.Img})
	}
	return out
}
