// Package render turns a state snapshot into the printable HTML document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"cetaksoal/internal/state"
)

//go:embed templates/*.html templates/*.css
var templateFS embed.FS

var stylesheet = mustRead("templates/document.css")

func mustRead(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Stylesheet returns the document CSS
func Stylesheet() string {
	return stylesheet
}

// Renderer executes the document templates
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	templates, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Document writes a standalone printable page for snap
func (r *Renderer) Document(w io.Writer, snap state.Snapshot) error {
	return r.execute(w, "document.html", BuildView(snap))
}

// Fragment writes only the KOP and question columns, for embedding
func (r *Renderer) Fragment(w io.Writer, snap state.Snapshot) error {
	return r.execute(w, "fragment", BuildView(snap))
}

// FragmentHTML renders the fragment into a string for another template
func (r *Renderer) FragmentHTML(snap state.Snapshot) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Fragment(&buf, snap); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// MathScript returns the client-side KaTeX pass for pages that embed fragments
func (r *Renderer) MathScript() (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "math", nil); err != nil {
		return "", fmt.Errorf("template math: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// execute renders into a buffer first so a failed template never leaves a
// half-written response behind
func (r *Renderer) execute(w io.Writer, name string, data DocumentView) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
