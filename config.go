package inkwell

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/inkwell/views"
)

// Config holds all configuration for an inkwell site.
type Config struct {
	Site views.SiteConfig

	Addr       string // Listen address (default ":3000")
	ContentDir string // Post directory root (default "content")
	StaticDir  string // User static assets served under /public (default "public")

	SnapshotTTL time.Duration // Post snapshot cache TTL (default 5min)

	ImageBurst  int           // OG image renders allowed per IP per window (default 30)
	ImageWindow time.Duration // OG image rate-limit window (default 1min)
}

func (c *Config) setDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = "Blog"
	}
	if c.Site.URL == "" {
		c.Site.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.SnapshotTTL == 0 {
		c.SnapshotTTL = 5 * time.Minute
	}
	if c.ImageBurst == 0 {
		c.ImageBurst = 30
	}
	if c.ImageWindow == 0 {
		c.ImageWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the zerolog logger used for request and lifecycle logging.
// The default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
