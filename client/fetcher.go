package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPFetcher loads feed snapshots from the platform API with the same
// bearer credential the socket uses.
type HTTPFetcher struct {
	base       string
	token      string
	httpClient *http.Client
}

func NewHTTPFetcher(base, token string) HTTPFetcher {
	return HTTPFetcher{
		base:       base,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f HTTPFetcher) FeedItems(ctx context.Context) ([]Item, error) {
	return f.get(ctx, "/posts")
}

func (f HTTPFetcher) UserItems(ctx context.Context, userID string) ([]Item, error) {
	return f.get(ctx, "/users/"+userID+"/posts")
}

func (f HTTPFetcher) get(ctx context.Context, path string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", path, resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return items, nil
}
