// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `CURBSIDE_`, where `__` maps to “.”
     (e.g., `CURBSIDE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, any string value of the form `vault:<path>#<key>` is
resolved through the Vault client, the tree is unmarshalled into
strongly-typed structs, validated, enriched with the runtime root path,
and cached in an `atomic.Pointer` for lock-free reads.  `Reload()` simply
calls `Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`,
    which lets `go run ./cmd/web` work from any sub-directory.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/curbsidehq/curbside-web/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CURBSIDE_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable heuristic for the
// production layout (binary under <root>/bin).
func rootDir() string {
	if r := os.Getenv("CURBSIDE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault references,
// validates, and caches Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: CURBSIDE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("CURBSIDE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	// Resolve vault: references in place before unmarshalling.
	if err := resolveVaultRefs(ctx, k); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"backend", cfg.Backend.BaseURL,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveVaultRefs swaps every `vault:` string in the merged tree for the
// secret it names.  The Vault client is constructed lazily so installs that
// keep secrets in env files never dial Vault at all.
func resolveVaultRefs(ctx context.Context, k *koanf.Koanf) error {
	var cli *vault.Client

	for _, key := range k.Keys() {
		s, ok := k.Get(key).(string)
		if !ok || !vault.IsRef(s) {
			continue
		}
		if cli == nil {
			var err error
			cli, err = vault.New(ctx, zap.S().Infof)
			if err != nil {
				return err
			}
		}
		val, err := cli.ResolveRef(ctx, s)
		if err != nil {
			return err
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config                       { return current.Load() }
func Reload(ctx context.Context) error   { _, err := Load(ctx); return err }
