package slides

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jask/slidedeck/internal/deck"
)

const maxRemoteBytes = 1 << 20

// Remote fetches a markdown slide over HTTP. Any non-2xx status is a load
// failure.
func Remote(client *http.Client, url, style string) deck.Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) (deck.Module, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", url, err)
		}
		return NewMarkdown(string(body), style), nil
	}
}
