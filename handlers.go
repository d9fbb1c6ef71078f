package inkwell

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/ogimage"
	"github.com/eringen/inkwell/views"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.Config.Site, posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.Get(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site))
		}
		return err
	}
	return Render(c, views.Post(a.Config.Site, post))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	out, err := a.Feed.RSS(posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", out)
}

func (a *App) handleAtom(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	out, err := a.Feed.Atom(posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", out)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

// handleHomeImage serves the static home-page preview card.
func (a *App) handleHomeImage(c echo.Context) error {
	if !a.ogLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many image requests. Try again later.")
	}
	site := a.Config.Site
	return a.renderCard(c, ogimage.ForHome(site.Name, site.Description))
}

// handlePostImage serves the preview card for a single post, keyed by slug.
func (a *App) handlePostImage(c echo.Context) error {
	if !a.ogLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many image requests. Try again later.")
	}
	post, err := a.Cache.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderCard(c, ogimage.ForPost(post.Title, a.Config.Site.Name))
}

func (a *App) renderCard(c echo.Context, card ogimage.Card) error {
	var buf bytes.Buffer
	if err := a.ogRenderer.Render(&buf, card); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, ogimage.ContentType, buf.Bytes())
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %ssitemap.xml\n", views.BuildURL(a.Config.Site.URL))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("server error")
		_ = RenderStatus(c, code, views.ServerError(a.Config.Site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
