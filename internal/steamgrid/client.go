// Package steamgrid fetches visual assets from SteamGridDB. The lookup
// is two-step: resolve the SGDB game id from the Steam app id, then list
// assets for that game. A missing or rejected API key degrades to empty
// results rather than failing requests.
package steamgrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultBase = "https://www.steamgriddb.com/api/v2"

var (
	ErrUnavailable   = errors.New("steamgriddb unavailable")
	ErrNotFound      = errors.New("no assets for game")
	ErrMisconfigured = errors.New("steamgriddb api key missing or rejected")
)

// Asset is one logo or hero image.
type Asset struct {
	ID    int    `json:"id"`
	Style string `json:"style"`
	URL   string `json:"url"`
	Thumb string `json:"thumb"`
}

type Client struct {
	base string
	key  string
	http *http.Client
}

func NewClient(base, apiKey string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBase
	}
	return &Client{
		base: base,
		key:  apiKey,
		http: &http.Client{Timeout: timeout},
	}
}

// Logos lists logo assets for a Steam app id.
func (c *Client) Logos(ctx context.Context, appID int) ([]Asset, error) {
	return c.assets(ctx, "logos", appID)
}

// Heroes lists hero assets for a Steam app id.
func (c *Client) Heroes(ctx context.Context, appID int) ([]Asset, error) {
	return c.assets(ctx, "heroes", appID)
}

func (c *Client) assets(ctx context.Context, kind string, appID int) ([]Asset, error) {
	if c.key == "" {
		return nil, ErrMisconfigured
	}

	gameID, err := c.resolveGame(ctx, appID)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success bool    `json:"success"`
		Data    []Asset `json:"data"`
	}
	url := fmt.Sprintf("%s/%s/game/%d", c.base, kind, gameID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, ErrNotFound
	}
	return payload.Data, nil
}

// resolveGame maps a Steam app id to the SGDB game id.
func (c *Client) resolveGame(ctx context.Context, appID int) (int, error) {
	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/games/steam/%d", c.base, appID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return 0, err
	}
	if !payload.Success || payload.Data.ID == 0 {
		return 0, ErrNotFound
	}
	return payload.Data.ID, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrMisconfigured
	default:
		return fmt.Errorf("%w: %s: status %d", ErrUnavailable, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, url, err)
	}
	return nil
}
