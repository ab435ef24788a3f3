// Package templating renders site and email templates with the value adapters
// available as template functions.
//
//	{{ (num .Entry.PostDate).FormatDate "yyyy-MM-dd" }}
//	{{ (num .Count).Plus 1 }}
//	{{ handle .Title }}
package templating

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/maloquacious/goobcms/internal/handle"
	"github.com/maloquacious/goobcms/internal/templating/adapters"
)

// Funcs returns the functions every template can call.
func Funcs() map[string]any {
	return map[string]any{
		"num":    adapters.NewNum,
		"handle": handle.Generate,
	}
}

// Parse compiles a text template with Funcs.
func Parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=zero").Funcs(Funcs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}

// Render compiles and executes a text template.
func Render(name, text string, data any) (string, error) {
	t, err := Parse(name, text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// ParseHTML compiles an HTML template with Funcs.
func ParseHTML(name, text string) (*htmltemplate.Template, error) {
	t, err := htmltemplate.New(name).Funcs(htmltemplate.FuncMap(Funcs())).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}
