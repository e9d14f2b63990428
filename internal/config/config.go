// Package config loads cricscore settings from YAML and the environment.
//
// A config file is optional. Missing fields keep their defaults, and the
// merged result is validated against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cricscore/internal/publish"
)

//go:embed schema.cue
var schemaSrc string

// DirName and FileName locate the project config: .cricscore/config.yaml.
const (
	DirName  = ".cricscore"
	FileName = "config.yaml"
)

// Environment variables that override file settings.
const (
	EnvUser      = "CRICSCORE_USER"
	EnvStoreDSN  = "CRICSCORE_STORE_DSN"
	EnvStorePath = "CRICSCORE_STORE_PATH"
	EnvRedisAddr = "CRICSCORE_REDIS_ADDR"
	EnvAPIAddr   = "CRICSCORE_API_ADDR"
)

// Config is the full set of runtime settings.
type Config struct {
	User        string        `yaml:"user" json:"user"`
	Overs       int           `yaml:"overs" json:"overs"`
	Players     int           `yaml:"players" json:"players"`
	BreakDelay  time.Duration `yaml:"break_delay" json:"break_delay"`
	ResumeDelay time.Duration `yaml:"resume_delay" json:"resume_delay"`
	Store       Store         `yaml:"store" json:"store"`
	Redis       Redis         `yaml:"redis" json:"redis"`
	API         API           `yaml:"api" json:"api"`
}

// Store selects the match store.
type Store struct {
	Driver string `yaml:"driver" json:"driver"` // "sqlite" | "postgres"
	Path   string `yaml:"path" json:"path"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Redis configures the completed-match stream. An empty Addr disables
// publishing.
type Redis struct {
	Addr   string `yaml:"addr" json:"addr"`
	Stream string `yaml:"stream" json:"stream"`
}

// API configures the history server.
type API struct {
	Addr      string  `yaml:"addr" json:"addr"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst" json:"burst"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		User:        "local",
		Overs:       20,
		Players:     11,
		BreakDelay:  2 * time.Second,
		ResumeDelay: 2 * time.Second,
		Store: Store{
			Driver: "sqlite",
			Path:   filepath.Join(DirName, "matches.db"),
		},
		Redis: Redis{
			Stream: publish.DefaultStream,
		},
		API: API{
			Addr:      ":8080",
			RateLimit: 20,
			Burst:     40,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile walks up from dir looking for .cricscore/config.yaml.
// Returns "" if none is found.
func FindConfigFile(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, DirName, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables, using lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvUser); ok && v != "" {
		c.User = v
	}
	if v, ok := lookup(EnvStoreDSN); ok && v != "" {
		c.Store.Driver = "postgres"
		c.Store.DSN = v
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		c.Redis.Addr = v
	}
	if v, ok := lookup(EnvAPIAddr); ok && v != "" {
		c.API.Addr = v
	}
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Resolve loads the config the CLI should use: the explicit path if set,
// otherwise the nearest .cricscore/config.yaml above dir. A .env file in
// dir is loaded first and environment overrides are applied last.
func Resolve(path, dir string) (Config, error) {
	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return Config{}, err
	}
	if path == "" {
		path = FindConfigFile(dir)
	} else if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file: %w", err)
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
