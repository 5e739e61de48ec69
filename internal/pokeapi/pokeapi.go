// Package pokeapi fetches Pokémon data from the PokéAPI REST service.
//
// The client is the module's only external collaborator: the rest of the
// program treats it as an injected Fetcher and never sees HTTP details.
// Concurrent fetches for the same name are collapsed with singleflight, and
// decoded results are held in a short-TTL response cache so repeated
// lookups do not re-hit the network.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public PokéAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Default response cache tuning.
const (
	defaultTTL             = 10 * time.Minute
	defaultCleanupInterval = 5 * time.Minute
)

// ErrNotFound indicates the named Pokémon does not exist.
var ErrNotFound = errors.New("pokeapi: not found")

// Pokemon is the decoded subset of a PokéAPI pokemon resource that the
// rest of the program displays.
type Pokemon struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Height         int      `json:"height"`
	Weight         int      `json:"weight"`
	BaseExperience int      `json:"base_experience"`
	Types          []string `json:"types,omitempty"`
	Abilities      []string `json:"abilities,omitempty"`
	Stats          []Stat   `json:"stats,omitempty"`
	SpriteURL      string   `json:"sprite_url,omitempty"`
}

// Stat is a single base stat, e.g. {"speed", 90}.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Fetcher retrieves a Pokémon by name. Implemented by Client; tests
// substitute fakes.
type Fetcher interface {
	FetchByName(ctx context.Context, name string) (Pokemon, error)
}

// Client fetches Pokémon over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *gocache.Cache
	group   singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithCacheTTL sets how long decoded responses are kept. Zero or negative
// disables the response cache.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(d, defaultCleanupInterval)
	}
}

// NewClient creates a Client against the public PokéAPI with a 10s timeout
// and the default response cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(defaultTTL, defaultCleanupInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize canonicalizes a user-entered name the way the API expects:
// trimmed and lowercased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FetchByName retrieves the named Pokémon. Returns ErrNotFound (wrapped)
// for unknown names; other failures are transport or decode errors.
// Concurrent calls for the same name share one request.
func (c *Client) FetchByName(ctx context.Context, name string) (Pokemon, error) {
	name = Normalize(name)
	if name == "" {
		return Pokemon{}, fmt.Errorf("pokeapi: empty name")
	}

	if c.cache != nil {
		if hit, ok := c.cache.Get(name); ok {
			if p, ok := hit.(Pokemon); ok {
				return p, nil
			}
		}
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		p, err := c.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.SetDefault(name, p)
		}
		return p, nil
	})
	if err != nil {
		return Pokemon{}, err
	}
	return v.(Pokemon), nil
}

// fetch performs the HTTP request and decodes the response.
func (c *Client) fetch(ctx context.Context, name string) (Pokemon, error) {
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Pokemon{}, fmt.Errorf("pokeapi: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Pokemon{}, fmt.Errorf("pokeapi: fetching %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return Pokemon{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Pokemon{}, fmt.Errorf("pokeapi: fetching %q: unexpected status %s", name, resp.Status)
	}

	var raw rawPokemon
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Pokemon{}, fmt.Errorf("pokeapi: decoding %q: %w", name, err)
	}
	return raw.flatten(), nil
}

// rawPokemon mirrors the nested wire shape; flatten() projects it onto the
// Pokemon type the rest of the program uses.
type rawPokemon struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Types          []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
		IsHidden bool `json:"is_hidden"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

func (r rawPokemon) flatten() Pokemon {
	p := Pokemon{
		ID:             r.ID,
		Name:           r.Name,
		Height:         r.Height,
		Weight:         r.Weight,
		BaseExperience: r.BaseExperience,
		SpriteURL:      r.Sprites.FrontDefault,
	}
	for _, t := range r.Types {
		p.Types = append(p.Types, t.Type.Name)
	}
	for _, a := range r.Abilities {
		name := a.Ability.Name
		if a.IsHidden {
			name += " (hidden)"
		}
		p.Abilities = append(p.Abilities, name)
	}
	for _, s := range r.Stats {
		p.Stats = append(p.Stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}
	return p
}
