package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pikachuJSON = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"base_experience": 112,
	"types": [{"type": {"name": "electric"}}],
	"abilities": [
		{"ability": {"name": "static"}, "is_hidden": false},
		{"ability": {"name": "lightning-rod"}, "is_hidden": true}
	],
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": "https://img.example/25.png"}
}`

// newTestServer serves pikachuJSON for /pokemon/pikachu and 404 otherwise,
// counting requests.
func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/pokemon/pikachu" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pikachuJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchByName_DecodesPokemon(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	p, err := c.FetchByName(context.Background(), "pikachu")
	require.NoError(t, err)

	assert.Equal(t, 25, p.ID)
	assert.Equal(t, "pikachu", p.Name)
	assert.Equal(t, 4, p.Height)
	assert.Equal(t, 60, p.Weight)
	assert.Equal(t, 112, p.BaseExperience)
	assert.Equal(t, []string{"electric"}, p.Types)
	assert.Equal(t, []string{"static", "lightning-rod (hidden)"}, p.Abilities)
	assert.Equal(t, []Stat{{Name: "hp", Value: 35}, {Name: "speed", Value: 90}}, p.Stats)
	assert.Equal(t, "https://img.example/25.png", p.SpriteURL)
}

func TestFetchByName_NormalizesName(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	p, err := c.FetchByName(context.Background(), "  PIKACHU ")
	require.NoError(t, err)
	assert.Equal(t, "pikachu", p.Name)
}

func TestFetchByName_NotFound(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.FetchByName(context.Background(), "missingmon")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missingmon")
}

func TestFetchByName_EmptyName(t *testing.T) {
	c := NewClient()
	_, err := c.FetchByName(context.Background(), "   ")
	require.Error(t, err)
}

func TestFetchByName_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.FetchByName(context.Background(), "pikachu")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchByName_ResponseCacheSkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.FetchByName(context.Background(), "pikachu")
	require.NoError(t, err)
	_, err = c.FetchByName(context.Background(), "pikachu")
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load(), "second fetch should be served from the response cache")
}

func TestFetchByName_CacheDisabled(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL), WithCacheTTL(0))

	for i := 0; i < 2; i++ {
		_, err := c.FetchByName(context.Background(), "pikachu")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), hits.Load(), "disabled cache should hit the network every time")
}

func TestFetchByName_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	for i := 0; i < 2; i++ {
		_, err := c.FetchByName(context.Background(), "missingmon")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int64(2), hits.Load(), "failed lookups must not populate the cache")
}

func TestFetchByName_ConcurrentCallsShareOneRequest(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pikachuJSON))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL))

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.FetchByName(context.Background(), "pikachu")
		}(i)
	}

	// Give the goroutines time to pile up on the singleflight key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "call %d", i)
	}
	assert.Equal(t, int64(1), hits.Load(), "concurrent fetches for one name should collapse into one request")
}

func TestFetchByName_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchByName(ctx, "pikachu")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pikachu", "pikachu"},
		{"  mr-mime  ", "mr-mime"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
