// Command pokedex is a terminal Pokédex: look up Pokémon by name, browse a
// session cache of fetched entries, and remove entries with deterministic
// fallback selection.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/pokedex/internal/config"
	"github.com/smileynet/pokedex/internal/counter"
	"github.com/smileynet/pokedex/internal/dex"
	"github.com/smileynet/pokedex/internal/history"
	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for pokedex.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Get     GetCmd           `cmd:"" help:"Look up a single pokémon and print it."`
	Dex     DexCmd           `cmd:"" help:"Open the interactive pokédex TUI."`
	Counter CounterCmd       `cmd:"" help:"Run the counter demo TUI."`
}

// GetCmd looks up one Pokémon and prints it without the TUI.
type GetCmd struct {
	Name    string `arg:"" help:"Pokémon name to look up."`
	JSON    bool   `help:"Print the result as JSON." default:"false"`
	Verbose bool   `help:"Log cache transitions to stderr." short:"v" default:"false"`
}

// Run executes the get command.
func (c *GetCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := store.New(dex.Reduce, dex.EmptyCache())
	if c.Verbose {
		st.Subscribe(func(cache dex.Cache) {
			fmt.Fprintf(os.Stderr, "cache: [%s]\n", strings.Join(cache.Names(), ", "))
		})
	}
	ctx = store.Provide(ctx, st)

	return runGet(ctx, newClient(cfg), openHistory(cfg), os.Stdout, c.Name, c.JSON)
}

// runGet drives one lookup through the session state machine: select,
// fetch on miss, and print the resolved entry or report the rejection.
func runGet(ctx context.Context, fetcher pokeapi.Fetcher, hist *history.Store, w io.Writer, name string, jsonOut bool) error {
	st, err := store.From[*store.Store[dex.Cache, dex.Action]](ctx)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	session := dex.NewSession(st)

	fetch, gen := session.Select(name)
	if session.Phase() == dex.PhaseIdle {
		return errors.New("get: a pokémon name is required")
	}
	if fetch {
		data, err := fetcher.FetchByName(ctx, session.Selection())
		if err != nil {
			session.Reject(gen, err)
		} else if err := session.Resolve(gen, session.Selection(), data); err != nil {
			return fmt.Errorf("get: %w", err)
		}
	}

	switch session.Phase() {
	case dex.PhaseRejected:
		err := session.Err()
		if errors.Is(err, pokeapi.ErrNotFound) {
			return fmt.Errorf("get: no pokémon named %q", session.Selection())
		}
		return fmt.Errorf("get: %w", err)

	case dex.PhaseResolved:
		if hist != nil {
			hist.Record(session.Selection())
			if err := hist.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
		}
		if jsonOut {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(session.Current())
		}
		printPokemon(w, session.Current())
		return nil

	default:
		return fmt.Errorf("get: unexpected session phase %v", session.Phase())
	}
}

// printPokemon writes a plain-text rendering of a Pokémon.
func printPokemon(w io.Writer, p pokeapi.Pokemon) {
	fmt.Fprintf(w, "#%03d %s\n", p.ID, p.Name)
	if len(p.Types) > 0 {
		fmt.Fprintf(w, "  type     %s\n", strings.Join(p.Types, ", "))
	}
	fmt.Fprintf(w, "  height   %.1f m\n", float64(p.Height)/10)
	fmt.Fprintf(w, "  weight   %.1f kg\n", float64(p.Weight)/10)
	fmt.Fprintf(w, "  base xp  %d\n", p.BaseExperience)
	if len(p.Abilities) > 0 {
		fmt.Fprintf(w, "  ability  %s\n", strings.Join(p.Abilities, ", "))
	}
	for _, s := range p.Stats {
		fmt.Fprintf(w, "  %-16s %d\n", s.Name, s.Value)
	}
}

// DexCmd opens the interactive pokédex TUI.
type DexCmd struct{}

// Run executes the dex command.
func (c *DexCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("dex: %w", err)
	}
	if !stdoutIsTTY() {
		return errors.New("dex: interactive mode requires a terminal (try `pokedex get NAME`)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := store.New(dex.Reduce, dex.EmptyCache())
	ctx = store.Provide(ctx, st)

	return runDex(ctx, newClient(cfg), openHistory(cfg))
}

// runDex builds the TUI model around the provided cache store and runs it
// to completion.
func runDex(ctx context.Context, fetcher pokeapi.Fetcher, hist *history.Store) error {
	st, err := store.From[*store.Store[dex.Cache, dex.Action]](ctx)
	if err != nil {
		return fmt.Errorf("dex: %w", err)
	}
	session := dex.NewSession(st)

	var opts []dex.ModelOption
	if hist != nil {
		opts = append(opts, dex.WithRecorder(hist), dex.WithSuggestions(hist.Names()))
	}
	m := dex.NewModel(ctx, session, fetcher, opts...)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("dex: %w", err)
	}
	if fm, ok := final.(dex.Model); ok && fm.Err() != nil {
		return fmt.Errorf("dex: %w", fm.Err())
	}

	if hist != nil {
		if err := hist.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return nil
}

// CounterCmd runs the counter reducer demo.
type CounterCmd struct {
	Initial int `help:"Initial count." default:"0"`
	Step    int `help:"Step per key press (0 uses the configured default)." default:"0"`
}

// Run executes the counter command.
func (c *CounterCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("counter: %w", err)
	}
	if !stdoutIsTTY() {
		return errors.New("counter: interactive mode requires a terminal")
	}

	step := c.Step
	if step == 0 {
		step = cfg.UI.Step
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := store.New(counter.Reduce, counter.State{Count: c.Initial})
	ctx = store.Provide(ctx, st)

	return runCounter(ctx, os.Stdout, step)
}

// runCounter runs the counter TUI over the provided store and prints the
// final count on exit.
func runCounter(ctx context.Context, w io.Writer, step int) error {
	st, err := store.From[*store.Store[counter.State, counter.Action]](ctx)
	if err != nil {
		return fmt.Errorf("counter: %w", err)
	}

	m := counter.NewModel(st, step)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("counter: %w", err)
	}
	if fm, ok := final.(counter.Model); ok && fm.Err() != nil {
		return fmt.Errorf("counter: %w", fm.Err())
	}

	fmt.Fprintf(w, "final count: %d\n", st.State().Count)
	return nil
}

// loadConfig loads layered config from user and project paths with env
// overrides.
func loadConfig() (*config.Config, error) {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pokedex", "config.yaml"))
	}
	paths = append(paths, "pokedex.yaml")

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the PokéAPI client from config.
func newClient(cfg *config.Config) *pokeapi.Client {
	return pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithCacheTTL(cfg.API.CacheTTL),
	)
}

// openHistory loads the lookup history, returning nil when history is
// unavailable; the dex works fine without it.
func openHistory(cfg *config.Config) *history.Store {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return nil
		}
	}
	hist := history.NewStore(path, cfg.History.Limit)
	if err := hist.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return hist
}

// stdoutIsTTY reports whether stdout is connected to a terminal.
func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("pokedex"),
		kong.Description("A terminal Pokédex backed by the PokéAPI."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("pokedex %s (%s, built %s)", version, commit, date)},
	)
	kctx.FatalIfErrorf(kctx.Run())
}
