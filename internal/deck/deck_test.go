package deck

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type textSlide string

func (s textSlide) Render(Props, int, int) string { return string(s) }

type countingLoader struct {
	mu    sync.Mutex
	calls map[int]int
	fail  map[int]error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: map[int]int{}, fail: map[int]error{}}
}

func (l *countingLoader) entry(i int) Entry {
	return Entry{
		Loader: func(context.Context) (Module, error) {
			l.mu.Lock()
			l.calls[i]++
			err := l.fail[i]
			l.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return textSlide("slide"), nil
		},
		Props: map[string]any{"title": "Slide"},
	}
}

func (l *countingLoader) failOn(i int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[i] = err
}

func (l *countingLoader) count(i int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[i]
}

type fixture struct {
	loader *countingLoader
	reg    *Registry
	cache  *Cache
	ctrl   *Controller
	now    time.Time
}

func newFixture(t *testing.T, n int, duration time.Duration, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{loader: newCountingLoader(), now: time.Unix(1_700_000_000, 0)}
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = f.loader.entry(i)
	}
	reg, err := NewRegistry(entries)
	require.NoError(t, err)
	f.reg = reg
	f.cache = NewCache(context.Background(), reg, zerolog.Nop())
	opts = append([]Option{WithClock(func() time.Time { return f.now })}, opts...)
	f.ctrl = NewController(reg, NewScheduler(f.cache, 1), NewOrchestrator(duration), opts...)
	return f
}

func (f *fixture) advance(d time.Duration) bool {
	f.now = f.now.Add(d)
	return f.ctrl.Tick(f.now)
}

func (f *fixture) waitAll(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := 0; i < f.reg.Len(); i++ {
		if fut, ok := f.cache.Peek(i); ok {
			_, _ = fut.Wait(ctx)
		}
	}
	require.NoError(t, ctx.Err())
}

func TestRegistryGet(t *testing.T) {
	l := newCountingLoader()
	reg, err := NewRegistry([]Entry{l.entry(0), l.entry(1)})
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	d, err := reg.Get(1)
	require.NoError(t, err)
	require.Equal(t, 1, d.Index)

	for _, i := range []int{-1, 2, 99} {
		_, err := reg.Get(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		var ie *IndexError
		require.ErrorAs(t, err, &ie)
		require.Equal(t, i, ie.Index)
	}
}

func TestRegistryRejectsEmptyDeck(t *testing.T) {
	_, err := NewRegistry(nil)
	require.ErrorIs(t, err, ErrEmptyDeck)
}

func TestRegistryCopiesProps(t *testing.T) {
	props := map[string]any{"title": "Intro"}
	reg, err := NewRegistry([]Entry{{Loader: func(context.Context) (Module, error) { return textSlide("x"), nil }, Props: props}})
	require.NoError(t, err)
	props["title"] = "Changed"
	require.Equal(t, []string{"Intro"}, reg.Titles())
}

func TestMemoizeRunsOnce(t *testing.T) {
	var calls atomic.Int32
	l := Memoize(func(context.Context) (Module, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l(context.Background())
			require.EqualError(t, err, "boom")
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), calls.Load())
}

func TestGoToEveryIndex(t *testing.T) {
	f := newFixture(t, 7, 0)
	for i := 0; i < 7; i++ {
		require.NoError(t, f.ctrl.GoTo(i))
		require.Equal(t, i, f.ctrl.Current())
	}
}

func TestGoToOutOfRangeLeavesState(t *testing.T) {
	f := newFixture(t, 5, 0)
	require.NoError(t, f.ctrl.GoTo(3))
	for _, i := range []int{-1, 5, 99} {
		err := f.ctrl.GoTo(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		require.Equal(t, 3, f.ctrl.Current())
	}
}

func TestBoundariesAreNoOps(t *testing.T) {
	f := newFixture(t, 3, 0)
	require.False(t, f.ctrl.Prev())
	require.False(t, f.ctrl.Prev())
	require.Equal(t, 0, f.ctrl.Current())

	require.NoError(t, f.ctrl.GoTo(2))
	require.False(t, f.ctrl.Next())
	require.False(t, f.ctrl.Next())
	require.Equal(t, 2, f.ctrl.Current())
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t, 6, 0)
	for k := 1; k < 5; k++ {
		require.NoError(t, f.ctrl.GoTo(k))
		require.True(t, f.ctrl.Prev())
		require.True(t, f.ctrl.Next())
		require.Equal(t, k, f.ctrl.Current())
	}
}

func TestFiveSlideScenario(t *testing.T) {
	f := newFixture(t, 5, 0)
	for range 4 {
		require.True(t, f.ctrl.Next())
	}
	require.Equal(t, 4, f.ctrl.Current())
	require.False(t, f.ctrl.Next())
	require.Equal(t, 4, f.ctrl.Current())

	for range 4 {
		require.True(t, f.ctrl.Prev())
	}
	require.Equal(t, 0, f.ctrl.Current())

	require.NoError(t, f.ctrl.GoTo(2))
	require.Equal(t, 2, f.ctrl.Current())
	require.ErrorIs(t, f.ctrl.GoTo(99), ErrIndexOutOfRange)
	require.Equal(t, 2, f.ctrl.Current())
}

func TestPreloadNeighboursAtMostOnce(t *testing.T) {
	f := newFixture(t, 10, 0)
	require.True(t, f.cache.Triggered(0))
	require.True(t, f.cache.Triggered(1))
	require.False(t, f.cache.Triggered(2))

	require.NoError(t, f.ctrl.GoTo(6))
	for _, i := range []int{5, 6, 7} {
		require.True(t, f.cache.Triggered(i), "slide %d", i)
	}
	require.False(t, f.cache.Triggered(4))
	require.False(t, f.cache.Triggered(8))

	f.ctrl.Prev()
	f.ctrl.Next()
	f.ctrl.Next()
	f.waitAll(t)

	for i := 0; i < 10; i++ {
		require.LessOrEqual(t, f.loader.count(i), 1, "slide %d loaded twice", i)
	}
	require.Equal(t, 1, f.loader.count(4))
	require.Equal(t, 1, f.loader.count(8))
	require.Equal(t, 0, f.loader.count(3))
}

func TestSchedulerClampsAtEdges(t *testing.T) {
	f := newFixture(t, 3, 0)
	s := NewScheduler(f.cache, 2)
	require.Equal(t, []int{2}, s.Schedule(0))
	require.Empty(t, s.Schedule(1))
}

func TestSchedulerRadius(t *testing.T) {
	l := newCountingLoader()
	entries := make([]Entry, 9)
	for i := range entries {
		entries[i] = l.entry(i)
	}
	reg, err := NewRegistry(entries)
	require.NoError(t, err)
	s := NewScheduler(NewCache(context.Background(), reg, zerolog.Nop()), 2)
	require.Equal(t, []int{3, 5, 2, 6}, s.Schedule(4))
	require.Equal(t, []int{4, 7}, s.Schedule(5))
}

func TestWarmCollectsFailures(t *testing.T) {
	l := newCountingLoader()
	l.fail[1] = errors.New("chunk 404")
	l.fail[3] = errors.New("timeout")
	entries := make([]Entry, 5)
	for i := range entries {
		entries[i] = l.entry(i)
	}
	reg, err := NewRegistry(entries)
	require.NoError(t, err)
	cache := NewCache(context.Background(), reg, zerolog.Nop())

	failures, err := NewScheduler(cache, 1).Warm(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	require.Equal(t, 1, failures[0].Index)
	require.Equal(t, 3, failures[1].Index)
	require.Equal(t, 5, cache.Loads())
}

func TestLoadFailureDoesNotBlockNavigation(t *testing.T) {
	f := newFixture(t, 4, 0)
	f.loader.failOn(2, errors.New("network down"))
	require.NoError(t, f.ctrl.GoTo(2))

	fut, ok := f.cache.Peek(2)
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := fut.Wait(ctx)
	require.ErrorIs(t, err, ErrSlideLoad)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 2, le.Index)

	require.True(t, f.ctrl.Next())
	require.Equal(t, 3, f.ctrl.Current())
}

func TestLoaderPanicBecomesLoadError(t *testing.T) {
	reg, err := NewRegistry([]Entry{{Loader: func(context.Context) (Module, error) { panic("bad slide") }}})
	require.NoError(t, err)
	cache := NewCache(context.Background(), reg, zerolog.Nop())
	fut, err := cache.Load(0)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = fut.Wait(ctx)
	require.ErrorIs(t, err, ErrSlideLoad)
}

func TestPendingFutureResult(t *testing.T) {
	release := make(chan struct{})
	reg, err := NewRegistry([]Entry{{Loader: func(context.Context) (Module, error) {
		<-release
		return textSlide("late"), nil
	}}})
	require.NoError(t, err)
	cache := NewCache(context.Background(), reg, zerolog.Nop())
	fut, err := cache.Load(0)
	require.NoError(t, err)

	mod, err := fut.Result()
	require.Nil(t, mod)
	require.NoError(t, err)
	require.False(t, fut.Settled())

	close(release)
	<-fut.Done()
	mod, err = fut.Result()
	require.NoError(t, err)
	require.Equal(t, "late", mod.Render(Props{}, 0, 0))
}

func TestCacheLoadOutOfRange(t *testing.T) {
	f := newFixture(t, 2, 0)
	_, err := f.cache.Load(5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestObserverSeesEveryChange(t *testing.T) {
	f := newFixture(t, 4, 0)
	var seen [][2]int
	f.ctrl.OnChange(func(from, to int) { seen = append(seen, [2]int{from, to}) })
	f.ctrl.Next()
	f.ctrl.GoTo(3)
	f.ctrl.GoTo(3)
	f.ctrl.Prev()
	require.Equal(t, [][2]int{{0, 1}, {1, 3}, {3, 2}}, seen)
}

func TestOnChangeUnregister(t *testing.T) {
	f := newFixture(t, 4, 0)
	var first, second int
	removeFirst := f.ctrl.OnChange(func(int, int) { first++ })
	f.ctrl.OnChange(func(int, int) { second++ })

	f.ctrl.Next()
	removeFirst()
	removeFirst()
	f.ctrl.Next()
	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
}

func TestPropsCallbacksDriveController(t *testing.T) {
	f := newFixture(t, 4, 0)
	p := f.ctrl.Props(0)
	require.Equal(t, "Slide", p.String("title"))
	p.OnNext()
	require.Equal(t, 1, f.ctrl.Current())
	p.OnPrev()
	require.Equal(t, 0, f.ctrl.Current())
	require.NoError(t, p.OnNavigate(3))
	require.Equal(t, 3, f.ctrl.Current())
	require.ErrorIs(t, p.OnNavigate(9), ErrIndexOutOfRange)
}

func TestSlideNavigationDisabled(t *testing.T) {
	f := newFixture(t, 3, 0, WithSlideNavigation(false))
	require.Nil(t, f.ctrl.Props(1).OnNavigate)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicySupersede, p)
	p, err = ParsePolicy("queue")
	require.NoError(t, err)
	require.Equal(t, PolicyQueue, p)
	_, err = ParsePolicy("wrap")
	require.Error(t, err)
}
