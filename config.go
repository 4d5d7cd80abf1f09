package draftsmith

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// SiteConfig holds all configuration for a draftsmith site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS
	APIToken      string // Optional bearer token accepted in place of an admin session

	ArticleCacheTTL time.Duration // Published article cache TTL (default 5min)

	// MirrorFeaturedImages downloads a saved draft's remote featured image
	// into the uploads directory and rewrites the URL to the local copy.
	MirrorFeaturedImages bool

	AI AIConfig
}

// AIConfig configures the article generation pipeline.
type AIConfig struct {
	// Env holds provider settings from the environment, keyed by setting
	// key (see credentials.Catalog). Stored settings take precedence.
	Env map[string]string

	APIFreeBaseURL      string
	OpenRouterBaseURL   string
	GeminiBaseURL       string
	ReplicateBaseURL    string
	PollinationsBaseURL string

	GenerationTimeout time.Duration // default 120s
	MockDelay         time.Duration // default 3s; negative disables
	DefaultItemCount  int           // default 10

	GenerateLimit  int           // generation requests per window per IP (default 10)
	GenerateWindow time.Duration // default 1min
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ArticleCacheTTL == 0 {
		c.ArticleCacheTTL = 5 * time.Minute
	}
	if c.AI.GenerationTimeout == 0 {
		c.AI.GenerationTimeout = 120 * time.Second
	}
	if c.AI.MockDelay == 0 {
		c.AI.MockDelay = 3 * time.Second
	}
	if c.AI.DefaultItemCount == 0 {
		c.AI.DefaultItemCount = 10
	}
	if c.AI.GenerateLimit == 0 {
		c.AI.GenerateLimit = 10
	}
	if c.AI.GenerateWindow == 0 {
		c.AI.GenerateWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithHTTPClient sets the client used for upstream AI providers and image
// downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}
