// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>.  cmd/web constructs
// every component with its collaborators (backend client, session store,
// view renderer), Register()s it, and mounts its Routes() under "/<name>".
// Keeping construction in main, rather than init() side effects, lets tests
// build a component with fakes and mount it on a bare chi router.

package component

import (
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() should mount BOTH page and form-POST endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/login", getLogin)
//	r.Post("/login", postLogin)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register adds c, replacing any previous component of the same name.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component in arbitrary order.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}
