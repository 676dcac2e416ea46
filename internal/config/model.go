// internal/config/model.go
//
// Typed configuration model for the Curbside web tier.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `CURBSIDE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Backend section
//

// Backend points at the ordering platform's REST API.  ServiceToken is the
// bearer credential used for unauthenticated-surface calls (catering
// inquiries, password resets); staff pages use the token on their session
// instead.  Typically stored as a `vault:` reference.
type Backend struct {
	BaseURL      string `koanf:"base_url"      validate:"required,url"`
	ServiceToken string `koanf:"service_token" validate:"required"`
}

//
// Sessions section
//

// Sessions configures the staff-session store: a MySQL DSN for the session
// table plus the cookie name served to browsers.  The DSN's secret portion
// normally arrives through a `vault:` reference.
type Sessions struct {
	DSN        string `koanf:"dsn"         validate:"required"`
	CookieName string `koanf:"cookie_name" validate:"required"`
}

//
// Geo section
//

// Geo locates the optional GeoLite2 database used to annotate admin
// analytics with request regions.  Empty path disables lookups.
type Geo struct {
	CityDBPath string `koanf:"city_db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or CURBSIDE_ROOT override) so later code can
// build absolute file paths for logs and templates.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Backend  Backend  `koanf:"backend"`
	Sessions Sessions `koanf:"sessions"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"`
}
