// Package draftsmith is a small blog engine built with Go, Echo, and templ,
// centred on an AI article generator. It provides article storage, an admin
// area for drafts and provider settings, generation endpoints, RSS, and a
// sitemap out of the box.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// draftsmith handles the handler logic, middleware, and database operations.
package draftsmith

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/draftsmith/credentials"
	"github.com/eringen/draftsmith/imagegen"
	"github.com/eringen/draftsmith/pipeline"
	"github.com/eringen/draftsmith/textgen"
)

var _ credentials.Reader = (*Store)(nil)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home           func(articles []Article, activeTag string, tags []string, cfg SiteConfig) templ.Component
	Article        func(a Article, related []Article, cfg SiteConfig) templ.Component
	DraftPreview   func(a Article, cfg SiteConfig) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(articles []Article, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central draftsmith application. It wires together the store,
// cache, generation pipeline, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ArticleCache
	Views    ViewFuncs
	Resolver *credentials.Resolver
	Pipeline *pipeline.Pipeline
	Log      zerolog.Logger

	loginLimiter    *RateLimiter
	generateLimiter *RateLimiter
	httpClient      *http.Client
	customRoutes    []func(*App)
	staticDir       string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Log:       zerolog.Nop(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	a.Echo.HideBanner = true

	return a
}

// Init opens the database and builds the cache and generation pipeline. It
// is called by Start; commands that do not serve HTTP call it directly.
func (a *App) Init() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("draftsmith: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewArticleCache(a.Store, a.Config.ArticleCacheTTL)

	ai := a.Config.AI
	a.Resolver = credentials.NewResolver(a.Store, ai.Env, a.Log)
	mockDelay := ai.MockDelay
	if mockDelay < 0 {
		mockDelay = 0
	}
	a.Pipeline = pipeline.New(a.Resolver, pipeline.Config{
		DefaultItemCount: ai.DefaultItemCount,
		Timeout:          ai.GenerationTimeout,
		MockDelay:        mockDelay,
		Text: textgen.Endpoints{
			APIFreeBaseURL:    ai.APIFreeBaseURL,
			OpenRouterBaseURL: ai.OpenRouterBaseURL,
			GeminiBaseURL:     ai.GeminiBaseURL,
			HTTPClient:        a.httpClient,
			SiteURL:           a.Config.URL,
			SiteName:          a.Config.Name,
		},
		Images: imagegen.Config{
			APIFreeBaseURL:      ai.APIFreeBaseURL,
			ReplicateBaseURL:    ai.ReplicateBaseURL,
			PollinationsBaseURL: ai.PollinationsBaseURL,
			HTTPClient:          a.httpClient,
		},
	}, a.Log)
	return nil
}

// Start initializes the database, cache, middleware, routes, and starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return errors.New("draftsmith: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return errors.New("draftsmith: SessionSecret is required")
	}

	if err := a.Init(); err != nil {
		return err
	}

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.generateLimiter = NewRateLimiter(a.Config.AI.GenerateLimit, a.Config.AI.GenerateWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.Log.Info().Str("addr", a.Config.Addr).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handleArticle)

	// Public JSON API
	e.GET("/api/articles", a.handleAPIArticles)
	e.GET("/api/articles/:slug", a.handleAPIArticle)
	e.GET("/api/tags", a.handleAPITags)

	// Generation
	e.POST("/api/generate/mock", a.handleGenerate(pipeline.VariantMock), a.requireAdmin)
	e.POST("/api/generate/gemini", a.handleGenerate(pipeline.VariantGemini), a.requireAdmin)
	e.POST("/api/generate/listicle", a.handleGenerate(pipeline.VariantListicle), a.requireAdmin)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/drafts/", a.handleDraftList, a.requireAdmin)
	e.POST("/admin/drafts/", a.handleDraftSave, a.requireAdmin)
	e.GET("/admin/drafts/:slug/", a.handleDraftGet, a.requireAdmin)
	e.PUT("/admin/drafts/:slug/", a.handleDraftUpdate, a.requireAdmin)
	e.GET("/admin/drafts/:slug/preview/", a.handleDraftPreview, a.requireAdmin)
	e.POST("/admin/drafts/:slug/publish/", a.handleDraftPublish, a.requireAdmin)
	e.DELETE("/admin/drafts/:slug/", a.handleDraftDelete, a.requireAdmin)
	e.GET("/admin/settings/", a.handleSettingsList, a.requireAdmin)
	e.POST("/admin/settings/", a.handleSettingsSave, a.requireAdmin)
	e.GET("/admin/images/", a.handleImageList, a.requireAdmin)
	e.POST("/admin/images/upload/", a.handleImageUpload, a.requireAdmin)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete, a.requireAdmin)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.generateLimiter != nil {
		a.generateLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
