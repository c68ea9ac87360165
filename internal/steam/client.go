// Package steam talks to the two Steam upstreams: the Web API (full app
// list) and the storefront (per-app details, featured lists). Failures
// come back as typed errors so callers can pick a fallback instead of
// inspecting transport details.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultAPIBase   = "https://api.steampowered.com"
	DefaultStoreBase = "https://store.steampowered.com"
)

var (
	// ErrUnavailable covers network errors, timeouts, non-200 statuses
	// and malformed payloads from either upstream.
	ErrUnavailable = errors.New("steam upstream unavailable")

	// ErrNotFound is a definitive "no such app" from the detail source.
	ErrNotFound = errors.New("game not found")
)

// App is one raw catalog entry as the Web API returns it; also the
// snapshot file format.
type App struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// Featured holds the storefront's curated lists as app id sequences.
type Featured struct {
	Specials   []int
	TopSellers []int
}

type Client struct {
	apiBase   string
	storeBase string
	http      *http.Client
}

// NewClient builds a client with the given upstream bases (empty selects
// the production defaults) and a per-request timeout.
func NewClient(apiBase, storeBase string, timeout time.Duration) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if storeBase == "" {
		storeBase = DefaultStoreBase
	}
	return &Client{
		apiBase:   apiBase,
		storeBase: storeBase,
		http:      &http.Client{Timeout: timeout},
	}
}

// AppList fetches the complete catalog. Full replace, no pagination.
func (c *Client) AppList(ctx context.Context) ([]App, error) {
	var payload struct {
		AppList struct {
			Apps []App `json:"apps"`
		} `json:"applist"`
	}
	if err := c.getJSON(ctx, c.apiBase+"/ISteamApps/GetAppList/v2/", &payload); err != nil {
		return nil, err
	}
	return payload.AppList.Apps, nil
}

// AppDetails fetches the opaque detail payload for one app.
// A success:false response maps to ErrNotFound.
func (c *Client) AppDetails(ctx context.Context, id int) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d", c.storeBase, id)

	var payload map[string]struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	entry, ok := payload[fmt.Sprintf("%d", id)]
	if !ok || !entry.Success || len(entry.Data) == 0 {
		return nil, ErrNotFound
	}
	return entry.Data, nil
}

// FeaturedCategories fetches the storefront's curated lists.
func (c *Client) FeaturedCategories(ctx context.Context) (Featured, error) {
	var payload struct {
		Specials   featuredCategory `json:"specials"`
		TopSellers featuredCategory `json:"top_sellers"`
	}
	if err := c.getJSON(ctx, c.storeBase+"/api/featuredcategories", &payload); err != nil {
		return Featured{}, err
	}
	return Featured{
		Specials:   payload.Specials.ids(),
		TopSellers: payload.TopSellers.ids(),
	}, nil
}

type featuredCategory struct {
	Items []struct {
		ID int `json:"id"`
	} `json:"items"`
}

func (f featuredCategory) ids() []int {
	out := make([]int, 0, len(f.Items))
	for _, it := range f.Items {
		out = append(out, it.ID)
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrUnavailable, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, url, err)
	}
	return nil
}
