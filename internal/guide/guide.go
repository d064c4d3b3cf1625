// Package guide renders the built-in user guide
package guide

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"cetaksoal/domain/exam"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed panduan.md
var panduan string

// fieldLabels orders the alias table the way the columns usually appear
var fieldLabels = []struct {
	field string
	label string
}{
	{"no", "Nomor"},
	{"tipe", "Tipe"},
	{"level", "Level"},
	{"materi", "Materi"},
	{"soal", "Teks soal"},
	{"img", "Gambar soal"},
	{"a", "Opsi A"},
	{"b", "Opsi B"},
	{"c", "Opsi C"},
	{"d", "Opsi D"},
	{"e", "Opsi E"},
	{"imgA", "Gambar opsi A"},
	{"imgB", "Gambar opsi B"},
	{"imgC", "Gambar opsi C"},
	{"imgD", "Gambar opsi D"},
	{"imgE", "Gambar opsi E"},
	{"kunci", "Kunci"},
	{"pembahasan", "Pembahasan"},
	{"token", "ID soal"},
}

// Markdown returns the guide source with the column table filled in from
// the headers the importer accepts
func Markdown() string {
	aliases := exam.AcceptedHeaders()

	var table strings.Builder
	table.WriteString("\n| Isi | Judul kolom yang diterima |\n| --- | --- |\n")
	for _, fl := range fieldLabels {
		quoted := make([]string, 0, len(aliases[fl.field]))
		for _, h := range aliases[fl.field] {
			quoted = append(quoted, fmt.Sprintf("`%s`", h))
		}
		fmt.Fprintf(&table, "| %s | %s |\n", fl.label, strings.Join(quoted, ", "))
	}

	const anchor = "## Jenis soal"
	return strings.Replace(panduan, anchor, table.String()+"\n"+anchor, 1)
}

// HTML renders the guide. The parser keeps state, so each call builds its own.
func HTML() template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(Markdown()), p, renderer))
}
