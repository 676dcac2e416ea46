// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (banners, e-mails).
//
// Templates live under components/<comp>/templates/<tpl>.html relative to
// the configured root.  All templates in the same directory are parsed as
// one set so sub-templates ({{ template "row" . }}) work out-of-the-box.
//
// execName() chooses the best template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Pages that carry a form must pass CacheSkip so every render embeds a fresh
// CSRF token.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/curbsidehq/curbside-web/internal/cache"
	"github.com/curbsidehq/curbside-web/internal/form"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template set cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // reuse parsed sets
	CacheSkip                       // reparse every render (dev, CSRF pages)
)

//
// engine
//

// Engine renders component templates rooted at one directory.  Safe for
// concurrent use.
type Engine struct {
	root string

	mu  sync.Mutex
	lru *cache.LRU[string, *template.Template]
}

// NewEngine builds an Engine over root (usually cfg.Paths.Root).
func NewEngine(root string) *Engine {
	return &Engine{
		root: root,
		lru:  cache.New[string, *template.Template](256),
	}
}

// Render executes the template set and streams it to w.
func (e *Engine) Render(w http.ResponseWriter, comp, name string, data any, policy CachePolicy) error {
	t, err := e.load(comp, name, policy)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, execName(t, name), data)
}

// RenderToString executes and returns HTML.  It mirrors Render, but writes
// to a buffer instead of w.
func (e *Engine) RenderToString(comp, name string, data any) (template.HTML, error) {
	t, err := e.load(comp, name, CacheDefault)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

func (e *Engine) load(comp, name string, policy CachePolicy) (*template.Template, error) {
	key := strings.Join([]string{comp, name}, "::")

	if policy != CacheSkip {
		e.mu.Lock()
		if t, ok := e.lru.Get(key); ok {
			e.mu.Unlock()
			return t, nil
		}
		e.mu.Unlock()
	}

	base := filepath.Join(e.root, "components", comp, "templates", name+".html")
	if _, err := os.Stat(base); err != nil {
		return nil, err
	}

	// Parse all *.html in the same directory so sub-templates work.
	pattern := filepath.Join(filepath.Dir(base), "*.html")
	t, err := template.New(name).Funcs(funcMap()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	if policy != CacheSkip {
		e.mu.Lock()
		e.lru.Add(key, t)
		e.mu.Unlock()
	}
	return t, nil
}

//
// func-map builders
//

func funcMap() template.FuncMap {
	fm := template.FuncMap{
		"dict":     dict,
		"csrf":     csrfField,
		"strength": form.ClassifyPassword,
	}
	for k, v := range deviceFuncMap() {
		fm[k] = v
	}
	return fm
}

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// csrfField emits the hidden token input every form template includes.
func csrfField() template.HTML {
	tok, err := form.GenerateToken()
	if err != nil {
		return template.HTML("<!-- csrf unavailable -->")
	}
	return template.HTML(
		`<input type="hidden" name="csrf_token" value="` + tok + `">`)
}
