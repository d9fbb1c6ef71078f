// Package inkwell is a markdown-file blog engine built with Go, Echo, and
// templ. Posts live on disk as <content>/<slug>/index.md with YAML front
// matter; the engine serves the home listing, post pages, RSS and Atom
// feeds, a sitemap, and per-post Open Graph preview images.
package inkwell

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/feed"
	"github.com/eringen/inkwell/ogimage"
	"github.com/eringen/inkwell/views"
)

// App is the central inkwell application. It wires together the content
// repository, snapshot cache, feed generator, image renderer, middleware,
// and routes.
type App struct {
	Config Config
	Echo   *echo.Echo
	Repo   *content.Repository
	Cache  *content.Cache
	Feed   *feed.Generator
	Log    zerolog.Logger

	ogRenderer   *ogimage.GoFontRenderer
	ogLimiter    *rateLimiter
	customRoutes []func(*App)
}

// New creates a new inkwell App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    zerolog.Nop(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the content pipeline, middleware, and routes, then
// starts the HTTP server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("content", a.Config.ContentDir).Msg("serving")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) init() error {
	a.Repo = content.NewRepository(a.Config.ContentDir)

	// A broken content tree should fail the deploy here, loudly, rather
	// than surface as a half-empty site later.
	posts, err := a.Repo.Load(context.Background())
	if err != nil {
		return fmt.Errorf("inkwell: load content: %w", err)
	}
	a.Log.Info().Int("posts", len(posts)).Msg("content loaded")

	a.Cache = content.NewCache(a.Repo, a.Config.SnapshotTTL)

	site := a.Config.Site
	gen, err := feed.New(feed.Options{
		Title:       site.Name,
		Description: site.Description,
		SiteURL:     site.URL,
		AuthorName:  site.Author,
		AuthorEmail: site.AuthorEmail,
		FeedURL:     views.BuildURL(site.URL) + "feed.xml",
	})
	if err != nil {
		return fmt.Errorf("inkwell: init feed: %w", err)
	}
	a.Feed = gen

	renderer, err := ogimage.NewRenderer()
	if err != nil {
		return fmt.Errorf("inkwell: init image renderer: %w", err)
	}
	a.ogRenderer = renderer
	a.ogLimiter = newRateLimiter(a.Config.ImageBurst, a.Config.ImageWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/atom.xml", a.handleAtom)

	e.GET("/og.png", a.handleHomeImage)
	e.GET("/:slug/og.png", a.handlePostImage)

	e.GET("/", a.handleHome)
	e.GET("/:slug/", a.handlePost)
}
