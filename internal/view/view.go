// Package view renders the item list page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"todo-list/internal/todo"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Renderer struct {
	index *template.Template
}

func New() (*Renderer, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{index: index}, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Index renders page to w. Nothing is written if rendering fails.
func (r *Renderer) Index(w io.Writer, page todo.Page) error {
	var buf bytes.Buffer
	if err := r.index.Execute(&buf, page); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
