// Package config loads papergraph.yml: the corpus directory layout,
// resolver tuning, worker count, and the ideas endpoint. Every field has a
// default so a missing file means defaults, not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jahody/papers2/internal/resolve"
)

// DefaultFile is the config file looked up at the corpus root.
const DefaultFile = "papergraph.yml"

// Config is the full papergraph run configuration.
type Config struct {
	// Root is the corpus root; every other path is relative to it.
	Root string `yaml:"root"`

	Dirs    Dirs           `yaml:"dirs"`
	Workers int            `yaml:"workers"`
	Tuning  resolve.Tuning `yaml:"resolver"`
	Ideas   Ideas          `yaml:"ideas"`
}

// Dirs is the on-disk layout under the corpus root.
type Dirs struct {
	// Pages holds one directory of per-page text files per paper.
	Pages string `yaml:"pages"`
	// Sections holds one directory of split section files per paper.
	Sections string `yaml:"sections"`
	// References holds the cleaned one-reference-per-line files.
	References string `yaml:"references"`
	// Graph holds edges.jsonl and the exported citations.json/.dot.
	Graph string `yaml:"graph"`
	// Cache holds the ephemeral SQLite database.
	Cache string `yaml:"cache"`
}

// Ideas configures the main-idea extraction endpoint.
type Ideas struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// Default returns the configuration used when no papergraph.yml exists.
func Default() Config {
	return Config{
		Root: ".",
		Dirs: Dirs{
			Pages:      "paper_pages",
			Sections:   "paper_sections",
			References: "paper_references",
			Graph:      "graph",
			Cache:      "cache",
		},
		Workers: 4,
		Tuning:  resolve.DefaultTuning(),
	}
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file yields the defaults; a malformed one is an error.
// Environment variables override the file: PAPERGRAPH_ROOT, OLLAMA_HOST,
// OLLAMA_MODEL.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		applyDefaults(&cfg)
	}

	if root := os.Getenv("PAPERGRAPH_ROOT"); root != "" {
		cfg.Root = root
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ideas.Host = host
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		cfg.Ideas.Model = model
	}

	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.Tuning.MatchThreshold <= 0 || cfg.Tuning.MatchThreshold > 1 {
		return Config{}, fmt.Errorf("resolver match_threshold must be in (0,1], got %v", cfg.Tuning.MatchThreshold)
	}
	return cfg, nil
}

// applyDefaults restores defaults for fields the file left zero-valued.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Root == "" {
		cfg.Root = def.Root
	}
	if cfg.Dirs.Pages == "" {
		cfg.Dirs.Pages = def.Dirs.Pages
	}
	if cfg.Dirs.Sections == "" {
		cfg.Dirs.Sections = def.Dirs.Sections
	}
	if cfg.Dirs.References == "" {
		cfg.Dirs.References = def.Dirs.References
	}
	if cfg.Dirs.Graph == "" {
		cfg.Dirs.Graph = def.Dirs.Graph
	}
	if cfg.Dirs.Cache == "" {
		cfg.Dirs.Cache = def.Dirs.Cache
	}
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Tuning == (resolve.Tuning{}) {
		cfg.Tuning = def.Tuning
	}
}

// PagesDir returns the per-paper page directories root.
func (c Config) PagesDir() string { return filepath.Join(c.Root, c.Dirs.Pages) }

// SectionsDir returns the per-paper section directories root.
func (c Config) SectionsDir() string { return filepath.Join(c.Root, c.Dirs.Sections) }

// ReferencesDir returns the cleaned reference-list files directory.
func (c Config) ReferencesDir() string { return filepath.Join(c.Root, c.Dirs.References) }

// GraphDir returns the graph output directory.
func (c Config) GraphDir() string { return filepath.Join(c.Root, c.Dirs.Graph) }

// CacheDir returns the cache directory.
func (c Config) CacheDir() string { return filepath.Join(c.Root, c.Dirs.Cache) }

// PapersFile returns the canonical papers.jsonl path.
func (c Config) PapersFile() string { return filepath.Join(c.Root, "papers.jsonl") }

// EdgesFile returns the canonical edges.jsonl path.
func (c Config) EdgesFile() string { return filepath.Join(c.GraphDir(), "edges.jsonl") }

// CacheDB returns the SQLite cache database path.
func (c Config) CacheDB() string { return filepath.Join(c.CacheDir(), "papergraph.db") }
