package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Future is the pending-or-resolved result of one slide load.
type Future struct {
	done chan struct{}
	mod  Module
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done is closed once the load has settled.
func (f *Future) Done() <-chan struct{} { return f.done }

// Settled reports whether the load finished, successfully or not.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the module and error. Both are nil while pending.
func (f *Future) Result() (Module, error) {
	if !f.Settled() {
		return nil, nil
	}
	return f.mod, f.err
}

// Wait blocks until the load settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (Module, error) {
	select {
	case <-f.done:
		return f.mod, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Future) resolve(mod Module, err error) {
	f.mod, f.err = mod, err
	close(f.done)
}

// Cache holds one future per slide index. Entries are never evicted; each
// index is loaded at most once for the lifetime of the deck.
type Cache struct {
	ctx   context.Context
	reg   *Registry
	log   zerolog.Logger
	mu    sync.Mutex
	slots map[int]*Future
	loads atomic.Int64
}

// NewCache returns a cache whose loads run on ctx. Cancelling ctx is the only
// way to abandon an in-flight load.
func NewCache(ctx context.Context, reg *Registry, log zerolog.Logger) *Cache {
	return &Cache{
		ctx:   ctx,
		reg:   reg,
		log:   log,
		slots: make(map[int]*Future, reg.Len()),
	}
}

// Load triggers slide i if it has not been triggered yet and returns its
// future. It never blocks on the loader.
func (c *Cache) Load(i int) (*Future, error) {
	d, err := c.reg.Get(i)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if f, ok := c.slots[i]; ok {
		c.mu.Unlock()
		return f, nil
	}
	f := newFuture()
	c.slots[i] = f
	c.mu.Unlock()

	c.loads.Add(1)
	c.log.Debug().Int("slide", i).Msg("load triggered")
	go c.run(d, f)
	return f, nil
}

func (c *Cache) run(d Descriptor, f *Future) {
	var (
		mod Module
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			mod, err = nil, fmt.Errorf("loader panic: %v", r)
		}
		if err == nil && mod == nil {
			err = errors.New("loader returned no module")
		}
		if err != nil {
			err = &LoadError{Index: d.Index, Err: err}
			c.log.Warn().Err(err).Int("slide", d.Index).Msg("slide load failed")
			mod = nil
		} else {
			c.log.Debug().Int("slide", d.Index).Msg("slide loaded")
		}
		f.resolve(mod, err)
	}()
	mod, err = d.Loader(c.ctx)
}

// Peek returns the future for i without triggering a load.
func (c *Cache) Peek(i int) (*Future, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.slots[i]
	return f, ok
}

// Triggered reports whether slide i has been loaded or is loading.
func (c *Cache) Triggered(i int) bool {
	_, ok := c.Peek(i)
	return ok
}

// Loads reports how many loaders have been started.
func (c *Cache) Loads() int { return int(c.loads.Load()) }
