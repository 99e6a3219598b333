package slides

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/jask/slidedeck/internal/deck"
	"github.com/jask/slidedeck/internal/manifest"
)

// Options controls how manifest entries become loaders.
type Options struct {
	// BaseDir resolves relative markdown sources; usually the manifest's
	// directory.
	BaseDir string
	Client  *http.Client
	// MarkdownStyle is a glamour standard style name.
	MarkdownStyle string
}

// Build turns a manifest into registry entries, in order.
func Build(d manifest.Deck, opts Options) ([]deck.Entry, error) {
	titles := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		titles[i] = s.Title
		if titles[i] == "" {
			titles[i] = fmt.Sprintf("Slide %d", i+1)
		}
	}

	entries := make([]deck.Entry, 0, len(d.Slides))
	for i, s := range d.Slides {
		var l deck.Loader
		switch s.Kind {
		case manifest.KindTitle:
			l = Static(Title{})
		case manifest.KindTOC:
			l = Static(NewTOC(titles))
		case manifest.KindMarkdown:
			src := s.Source
			if !filepath.IsAbs(src) {
				src = filepath.Join(opts.BaseDir, src)
			}
			l = MarkdownFile(src, opts.MarkdownStyle)
		case manifest.KindRemote:
			l = Remote(opts.Client, s.URL, opts.MarkdownStyle)
		default:
			return nil, fmt.Errorf("slide %d: unknown kind %q", i+1, s.Kind)
		}
		entries = append(entries, deck.Entry{
			Loader: WithLatency(l, s.Latency),
			Props:  s.StaticProps(d.Theme),
		})
	}
	return entries, nil
}

// Static wraps an already-built module.
func Static(m deck.Module) deck.Loader {
	return func(context.Context) (deck.Module, error) { return m, nil }
}

// WithLatency delays l by d, giving up early if ctx ends.
func WithLatency(l deck.Loader, d time.Duration) deck.Loader {
	if d <= 0 {
		return l
	}
	return func(ctx context.Context) (deck.Module, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
		return l(ctx)
	}
}
