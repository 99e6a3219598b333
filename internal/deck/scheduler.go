package deck

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scheduler warms the neighbourhood of the current slide.
type Scheduler struct {
	cache  *Cache
	radius int
}

// NewScheduler preloads radius slides on each side of the current one.
// A negative radius is treated as zero.
func NewScheduler(cache *Cache, radius int) *Scheduler {
	if radius < 0 {
		radius = 0
	}
	return &Scheduler{cache: cache, radius: radius}
}

func (s *Scheduler) Cache() *Cache { return s.cache }

// Schedule triggers loads for the neighbours of current that have not been
// triggered yet, without waiting on them. It returns the newly triggered
// indices, nearest first.
func (s *Scheduler) Schedule(current int) []int {
	var out []int
	n := s.cache.reg.Len()
	for d := 1; d <= s.radius; d++ {
		for _, i := range [2]int{current - d, current + d} {
			if i < 0 || i >= n || s.cache.Triggered(i) {
				continue
			}
			if _, err := s.cache.Load(i); err == nil {
				out = append(out, i)
			}
		}
	}
	return out
}

// Warm loads every slide with at most limit loads waited on at once and
// returns the per-slide failures. The returned error is non-nil only when
// ctx ends first.
func (s *Scheduler) Warm(ctx context.Context, limit int) ([]*LoadError, error) {
	if limit <= 0 {
		limit = 1
	}
	var (
		mu       sync.Mutex
		failures []*LoadError
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < s.cache.reg.Len(); i++ {
		g.Go(func() error {
			f, err := s.cache.Load(i)
			if err != nil {
				return err
			}
			_, err = f.Wait(ctx)
			var le *LoadError
			switch {
			case err == nil:
				return nil
			case errors.As(err, &le):
				mu.Lock()
				failures = append(failures, le)
				mu.Unlock()
				return nil
			default:
				return err
			}
		})
	}
	err := g.Wait()
	slices.SortFunc(failures, func(a, b *LoadError) int { return a.Index - b.Index })
	return failures, err
}
