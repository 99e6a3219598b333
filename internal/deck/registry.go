package deck

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// Loader resolves a slide module. Loaders may block on I/O.
type Loader func(ctx context.Context) (Module, error)

// Memoize wraps l so it runs at most once. Every call after the first
// returns the first call's module and error. Concurrent callers wait for the
// first call to finish.
func Memoize(l Loader) Loader {
	var (
		once sync.Once
		mod  Module
		err  error
	)
	return func(ctx context.Context) (Module, error) {
		once.Do(func() {
			if l == nil {
				err = fmt.Errorf("nil loader")
				return
			}
			mod, err = l(ctx)
		})
		return mod, err
	}
}

// Entry is one slide as supplied at startup.
type Entry struct {
	Loader Loader
	Props  map[string]any
}

// Descriptor is an immutable registry record.
type Descriptor struct {
	Index  int
	Loader Loader
	Props  map[string]any
}

// Registry is the fixed, ordered list of slides in a deck.
type Registry struct {
	items []Descriptor
}

// NewRegistry builds a registry from entries in order. Loaders are memoized
// and props are copied so later mutation by the caller has no effect.
func NewRegistry(entries []Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyDeck
	}
	items := make([]Descriptor, len(entries))
	for i, e := range entries {
		items[i] = Descriptor{
			Index:  i,
			Loader: Memoize(e.Loader),
			Props:  maps.Clone(e.Props),
		}
		if items[i].Props == nil {
			items[i].Props = map[string]any{}
		}
	}
	return &Registry{items: items}, nil
}

func (r *Registry) Len() int { return len(r.items) }

func (r *Registry) Get(i int) (Descriptor, error) {
	if i < 0 || i >= len(r.items) {
		return Descriptor{}, &IndexError{Index: i, Len: len(r.items)}
	}
	return r.items[i], nil
}

// Titles returns the "title" prop of every slide, "" where unset.
func (r *Registry) Titles() []string {
	out := make([]string, len(r.items))
	for i, d := range r.items {
		if s, ok := d.Props["title"].(string); ok {
			out[i] = s
		}
	}
	return out
}
