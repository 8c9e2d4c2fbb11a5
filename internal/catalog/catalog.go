// Package catalog loads and validates game definitions.
//
// Games come from the built-in set embedded in the binary and from an
// optional user directory of YAML files. A user game replaces a built-in
// game with the same ID.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/game"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned by Get for an unknown game ID.
var ErrNotFound = errors.New("game not found")

// SourceBuiltin marks entries loaded from the embedded catalog.
const SourceBuiltin = "builtin"

// Entry is a catalog game and where it came from.
type Entry struct {
	Definition game.Definition
	Source     string // SourceBuiltin or a file path
}

// Catalog is an in-memory index of games. It is not safe for concurrent
// mutation; load it once at startup.
type Catalog struct {
	entries map[string]Entry
	log     zerolog.Logger
}

// New returns an empty catalog.
func New(log zerolog.Logger) *Catalog {
	return &Catalog{entries: make(map[string]Entry), log: log}
}

// Open returns a catalog with the built-in games plus those in userDir.
// A missing userDir is not an error. Invalid user files are skipped and
// reported in the returned error alongside a usable catalog.
func Open(userDir string, log zerolog.Logger) (*Catalog, error) {
	c := New(log)
	if err := c.LoadBuiltin(); err != nil {
		return nil, err
	}
	if userDir == "" {
		return c, nil
	}
	return c, c.Load(userDir)
}

// LoadBuiltin adds the embedded games. Built-in files must be valid.
func (c *Catalog) LoadBuiltin() error {
	return c.loadFS(builtinFS, "builtin", SourceBuiltin, true)
}

// Load adds every *.yaml / *.yml file in dir, replacing games with the same
// ID from other sources. Two files in dir defining the same ID is an error.
func (c *Catalog) Load(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		c.log.Debug().Str("dir", dir).Msg("user catalog directory missing")
		return nil
	}
	return c.loadFS(os.DirFS(dir), ".", dir, false)
}

func (c *Catalog) loadFS(fsys fs.FS, root, source string, strict bool) error {
	names, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(root, "*.y*ml")))
	if err != nil {
		return fmt.Errorf("list %s: %w", source, err)
	}
	sort.Strings(names)

	seen := make(map[string]string)
	var errs []error
	for _, name := range names {
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := name
		if source != SourceBuiltin {
			path = filepath.Join(source, filepath.Base(name))
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		def, err := parseSource(path, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, dup := seen[def.ID]; dup {
			errs = append(errs, fmt.Errorf("game %q defined in both %s and %s", def.ID, prev, path))
			continue
		}
		seen[def.ID] = path

		entrySource := path
		if source == SourceBuiltin {
			entrySource = SourceBuiltin
		}
		if old, ok := c.entries[def.ID]; ok {
			c.log.Info().Str("game", def.ID).Str("from", old.Source).Str("to", entrySource).Msg("game overridden")
		}
		c.entries[def.ID] = Entry{Definition: def, Source: entrySource}
	}

	err = errors.Join(errs...)
	if err != nil && !strict {
		c.log.Warn().Err(err).Str("source", source).Msg("skipped invalid games")
	}
	return err
}

// Add registers def under its ID, replacing any existing entry.
func (c *Catalog) Add(def game.Definition, source string) error {
	if err := def.Validate(); err != nil {
		return err
	}
	c.entries[def.ID] = Entry{Definition: def, Source: source}
	return nil
}

// Get returns the game with the given ID.
func (c *Catalog) Get(id string) (Entry, error) {
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e, nil
}

// List returns all games sorted by title, then ID.
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := strings.ToLower(out[i].Definition.Title), strings.ToLower(out[j].Definition.Title)
		if ti != tj {
			return ti < tj
		}
		return out[i].Definition.ID < out[j].Definition.ID
	})
	return out
}

// Search returns games whose title, ID or description contains query,
// case-insensitively. An empty query returns List().
func (c *Catalog) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	all := c.List()
	if q == "" {
		return all
	}
	var out []Entry
	for _, e := range all {
		d := e.Definition
		if strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(d.ID, q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of games.
func (c *Catalog) Len() int { return len(c.entries) }
