// Package render turns course view models into HTML using the embedded
// templates, and provides the in-memory page the renderers write into.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var ErrUnknownTemplate = errors.New("unknown template")

// Rendered is the output of one template: markup plus optional script.
type Rendered struct {
	HTML string
	JS   string
}

// Translator supplies the strings templates display.
type Translator interface {
	T(key string, params ...string) string
	Plural(key string, n int) string
}

type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates. tr may be nil, in which case keys are
// printed as-is.
func New(tr Translator) (*Renderer, error) {
	funcs := template.FuncMap{
		"t": func(key string, params ...any) string {
			if tr == nil {
				return key
			}
			return tr.T(key, stringify(params)...)
		},
		"plural": func(key string, n int) string {
			if tr == nil {
				return strconv.Itoa(n) + " " + key
			}
			return tr.Plural(key, n)
		},
	}
	tmpl, err := template.New("mawang").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template, and "<name>.js" when it exists.
func (r *Renderer) Render(ctx context.Context, name string, data any) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}
	t := r.tmpl.Lookup(name)
	if t == nil {
		return Rendered{}, fmt.Errorf("%q: %w", name, ErrUnknownTemplate)
	}

	var html bytes.Buffer
	if err := t.Execute(&html, data); err != nil {
		return Rendered{}, fmt.Errorf("rendering %s: %w", name, err)
	}
	out := Rendered{HTML: html.String()}

	if js := r.tmpl.Lookup(name + ".js"); js != nil {
		var buf bytes.Buffer
		if err := js.Execute(&buf, data); err != nil {
			return Rendered{}, fmt.Errorf("rendering %s.js: %w", name, err)
		}
		out.JS = buf.String()
	}
	return out, nil
}

func stringify(params []any) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = fmt.Sprint(p)
	}
	return out
}
