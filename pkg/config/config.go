// Package config loads dockgrid settings from a TOML file.
//
// Every setting has a default, so a missing file or a file that sets only a
// few keys is fine. Unknown keys are rejected to catch typos.
//
//	workspace = "default"
//	format = "json"
//
//	[panels]
//	default_size = 300
//	min_size = 100
//	bottom = 220
//
//	[anchor]
//	diamond_offset = 8
//
//	[store]
//	backend = "file"   # file | memory | diskv | redis | mongo | null
//	scope = ""
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/layoutio"
	"github.com/matzehuels/dockgrid/pkg/store"
)

// AppName names the config and data directories.
const AppName = "dockgrid"

// Config holds all settings.
type Config struct {
	Workspace string `toml:"workspace"`
	Format    string `toml:"format"`

	Panels Panels `toml:"panels"`
	Anchor Anchor `toml:"anchor"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
}

// Panels sets panel sizes in pixels. Per-panel sizes override DefaultSize.
type Panels struct {
	DefaultSize float64 `toml:"default_size"`
	MinSize     float64 `toml:"min_size"`
	Left        float64 `toml:"left,omitempty"`
	Right       float64 `toml:"right,omitempty"`
	Top         float64 `toml:"top,omitempty"`
	Bottom      float64 `toml:"bottom,omitempty"`
}

// Anchor configures popup placement.
type Anchor struct {
	DiamondOffset float64 `toml:"diamond_offset"`
}

// Store selects the layout persistence backend.
type Store struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir,omitempty"`
	// Scope prefixes every key, isolating tenants sharing a backend.
	Scope string `toml:"scope,omitempty"`
	Redis Redis  `toml:"redis"`
	Mongo Mongo  `toml:"mongo"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db,omitempty"`
	TTL      string `toml:"ttl,omitempty"`
}

// Mongo configures the mongo backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workspace: store.DefaultWorkspace,
		Format:    string(layoutio.JSON),
		Panels: Panels{
			DefaultSize: dock.DefaultPanelSize,
			MinSize:     dock.MinPanelSize,
		},
		Anchor: Anchor{DiamondOffset: anchor.DefaultDiamondOffset},
		Store: Store{
			Backend: store.BackendFile,
			Redis:   Redis{Addr: "localhost:6379"},
			Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: AppName, Collection: "layouts"},
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dockgrid/config.toml, falling back to
// ~/.config/dockgrid/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DataDir returns $XDG_DATA_HOME/dockgrid, falling back to
// ~/.local/share/dockgrid. It is the default store directory.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enum names.
func (c Config) Validate() error {
	if _, err := layoutio.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Panels.MinSize < 0 || c.Panels.DefaultSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "panel sizes must not be negative")
	}
	if c.Panels.DefaultSize > 0 && c.Panels.DefaultSize < c.Panels.MinSize {
		return errors.New(errors.ErrCodeInvalidInput, "panels.default_size %v is below panels.min_size %v", c.Panels.DefaultSize, c.Panels.MinSize)
	}
	if c.Anchor.DiamondOffset < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "anchor.diamond_offset must not be negative")
	}
	known := false
	for _, b := range store.Backends() {
		known = known || b == c.Store.Backend
	}
	if !known {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want one of %s)", c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if c.Store.Redis.TTL != "" {
		if _, err := time.ParseDuration(c.Store.Redis.TTL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "store.redis.ttl")
		}
	}
	return nil
}

// Write encodes the configuration to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// LayoutFormat returns the configured store encoding.
func (c Config) LayoutFormat() layoutio.Format {
	f, err := layoutio.ParseFormat(c.Format)
	if err != nil {
		return layoutio.JSON
	}
	return f
}

// Sizing converts the panel settings for the dock.
func (c Config) Sizing() dock.Sizing {
	s := dock.Sizing{DefaultSize: c.Panels.DefaultSize, MinSize: c.Panels.MinSize}
	for p, v := range map[dock.Panel]float64{
		dock.PanelLeft:   c.Panels.Left,
		dock.PanelRight:  c.Panels.Right,
		dock.PanelTop:    c.Panels.Top,
		dock.PanelBottom: c.Panels.Bottom,
	} {
		if v > 0 {
			if s.Overrides == nil {
				s.Overrides = make(map[dock.Panel]float64)
			}
			s.Overrides[p] = v
		}
	}
	return s
}

// StoreOptions converts the store settings. An empty directory resolves to
// DataDir for the file and diskv backends.
func (c Config) StoreOptions() (store.Options, error) {
	opts := store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Redis: store.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
		},
		Mongo: store.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		},
	}
	if c.Store.Redis.TTL != "" {
		ttl, err := time.ParseDuration(c.Store.Redis.TTL)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "store.redis.ttl")
		}
		opts.Redis.TTL = ttl
	}
	if opts.Dir == "" && (opts.Backend == store.BackendFile || opts.Backend == store.BackendDiskv) {
		dir, err := DataDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = filepath.Join(dir, opts.Backend)
	}
	return opts, nil
}

// LayoutKey returns the store key of the configured workspace, scoped when
// a scope is set.
func (c Config) LayoutKey() string {
	keyer := store.NewDefaultKeyer()
	if c.Store.Scope != "" {
		keyer = store.NewScopedKeyer(keyer, c.Store.Scope)
	}
	return keyer.LayoutKey(c.Workspace)
}
