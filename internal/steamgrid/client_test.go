package steamgrid

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(key string, handler http.HandlerFunc) (*Client, func()) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, key, 2*time.Second), srv.Close
}

func TestLogos(t *testing.T) {
	c, done := newTestClient("key-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/games/steam/570":
			fmt.Fprint(w, `{"success":true,"data":{"id":2254}}`)
		case "/logos/game/2254":
			fmt.Fprint(w, `{"success":true,"data":[{"id":9,"style":"official","url":"https://cdn.example/l.png","thumb":"https://cdn.example/t.png"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer done()

	assets, err := c.Logos(context.Background(), 570)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "official", assets[0].Style)
}

func TestHeroesUnknownGame(t *testing.T) {
	c, done := newTestClient("key-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer done()

	_, err := c.Heroes(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMissingKeySkipsNetwork(t *testing.T) {
	called := false
	c, done := newTestClient("", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer done()

	_, err := c.Logos(context.Background(), 570)
	assert.ErrorIs(t, err, ErrMisconfigured)
	assert.False(t, called)
}

func TestRejectedKey(t *testing.T) {
	c, done := newTestClient("stale-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer done()

	_, err := c.Logos(context.Background(), 570)
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestUpstreamFailure(t *testing.T) {
	c, done := newTestClient("key-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer done()

	_, err := c.Logos(context.Background(), 570)
	assert.ErrorIs(t, err, ErrUnavailable)
}
