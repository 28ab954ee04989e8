package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed data/*.json
var files embed.FS

// DefaultLang is used when the requested language has no bundle.
const DefaultLang = "en"

// Renderer renders messages and prompts by key.
type Renderer interface {
	// Render returns the rendered template for key.
	Render(key string, data any) (string, error)
}

// Bundle holds parsed templates for a selected language.
type Bundle struct {
	lang      string
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Load loads the bundle for lang, falling back to DefaultLang.
func Load(lang string) (*Bundle, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	raw, err := files.ReadFile(bundlePath(lang))
	if err != nil {
		lang = DefaultLang
		raw, err = files.ReadFile(bundlePath(lang))
		if err != nil {
			return nil, fmt.Errorf("read templates: %w", err)
		}
	}

	var messages map[string]string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	parsed := make(map[string]*template.Template, len(messages))
	for key, value := range messages {
		tmpl, err := template.New(key).Funcs(funcs).Option("missingkey=error").Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", key, err)
		}
		parsed[key] = tmpl
	}

	return &Bundle{lang: lang, templates: parsed}, nil
}

// Lang returns the language actually loaded.
func (b *Bundle) Lang() string {
	if b == nil {
		return ""
	}
	return b.lang
}

// Render renders a template by key with the supplied data.
func (b *Bundle) Render(key string, data any) (string, error) {
	if b == nil {
		return "", fmt.Errorf("templates bundle is nil")
	}
	tmpl, ok := b.templates[key]
	if !ok {
		return "", fmt.Errorf("template not found: %s", key)
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", key, err)
	}
	return out.String(), nil
}

// RenderOr renders key and returns fallback when rendering fails.
func RenderOr(r Renderer, key string, data any, fallback string) string {
	if r == nil {
		return fallback
	}
	rendered, err := r.Render(key, data)
	if err != nil {
		return fallback
	}
	return rendered
}

func bundlePath(lang string) string {
	return fmt.Sprintf("data/%s.json", lang)
}
