// Package views holds the templ components rendering the HTML pages: home
// listing, post page, and error pages. Components are plain ComponentFuncs
// writing into a buffer, so there is no template-generation step.
package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/markdown"
)

func writeHead(buf *bytes.Buffer, cfg SiteConfig, meta PageMeta) {
	buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
	buf.WriteString("<meta charset=\"utf-8\"/>")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
	buf.WriteString("<title>" + html.EscapeString(meta.Title) + "</title>")
	if meta.Description != "" {
		buf.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(meta.Description) + "\"/>")
	}
	buf.WriteString("<link rel=\"canonical\" href=\"" + html.EscapeString(meta.URL) + "\"/>")
	buf.WriteString("<meta property=\"og:title\" content=\"" + html.EscapeString(meta.Title) + "\"/>")
	if meta.Description != "" {
		buf.WriteString("<meta property=\"og:description\" content=\"" + html.EscapeString(meta.Description) + "\"/>")
	}
	buf.WriteString("<meta property=\"og:type\" content=\"" + html.EscapeString(meta.OGType) + "\"/>")
	buf.WriteString("<meta property=\"og:url\" content=\"" + html.EscapeString(meta.URL) + "\"/>")
	if meta.Image != "" {
		buf.WriteString("<meta property=\"og:image\" content=\"" + html.EscapeString(meta.Image) + "\"/>")
		buf.WriteString("<meta name=\"twitter:card\" content=\"summary_large_image\"/>")
	}
	buf.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + html.EscapeString(cfg.Name) + "\" href=\"/feed.xml\"/>")
	buf.WriteString("<link rel=\"alternate\" type=\"application/atom+xml\" title=\"" + html.EscapeString(cfg.Name) + "\" href=\"/atom.xml\"/>")
	buf.WriteString("<link rel=\"stylesheet\" href=\"/public/site.css\"/>")
	buf.WriteString("</head>")
}

func writeHeader(buf *bytes.Buffer, cfg SiteConfig) {
	buf.WriteString("<header class=\"site-header\"><a href=\"/\" class=\"site-title\">")
	buf.WriteString(html.EscapeString(cfg.Name))
	buf.WriteString("</a></header>")
}

func writeFooter(buf *bytes.Buffer, cfg SiteConfig) {
	buf.WriteString("<footer class=\"site-footer\">")
	if cfg.Author != "" {
		buf.WriteString("<span>" + html.EscapeString(cfg.Author) + "</span> · ")
	}
	buf.WriteString("<a href=\"/feed.xml\">rss</a> · <a href=\"/atom.xml\">atom</a>")
	buf.WriteString("</footer></body></html>")
}

// Home renders the blog listing page: every post with title, long-form date,
// and spoiler, most recent first, each linking to /<slug>/.
func Home(cfg SiteConfig, posts []content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHead(&buf, cfg, PageMeta{
			Title:       cfg.Name,
			Description: cfg.Description,
			URL:         BuildURL(cfg.URL),
			Image:       BuildURL(cfg.URL) + "og.png",
			OGType:      "website",
		})
		buf.WriteString("<body>")
		writeHeader(&buf, cfg)
		buf.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(cfg) + "</script>")
		buf.WriteString("<main class=\"post-list\">")
		for _, p := range posts {
			buf.WriteString("<article class=\"post-item\">")
			buf.WriteString("<h2><a href=\"/" + html.EscapeString(p.Slug) + "/\">" + html.EscapeString(p.Title) + "</a></h2>")
			buf.WriteString("<time>" + html.EscapeString(p.FormatDate()) + "</time>")
			buf.WriteString("<p>" + html.EscapeString(p.Spoiler) + "</p>")
			buf.WriteString("</article>")
		}
		buf.WriteString("</main>")
		writeFooter(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Post renders a single article page with its markdown body and, when the
// front matter carries them, passthrough youtube/bluesky links.
func Post(cfg SiteConfig, p content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		postURL := PostURL(cfg, p)
		writeHead(&buf, cfg, PageMeta{
			Title:       p.Title + " — " + cfg.Name,
			Description: p.Spoiler,
			URL:         postURL,
			Image:       postURL + "og.png",
			OGType:      "article",
		})
		buf.WriteString("<body>")
		writeHeader(&buf, cfg)
		buf.WriteString("<script type=\"application/ld+json\">" + BlogPostingJsonLD(cfg, p) + "</script>")
		buf.WriteString("<main class=\"post\"><article>")
		buf.WriteString("<h1>" + html.EscapeString(p.Title) + "</h1>")
		buf.WriteString("<time>" + html.EscapeString(p.FormatDate()) + "</time>")
		buf.WriteString("<div class=\"post-body\">")
		if err := markdown.Markdown(p.Body).Render(ctx, &buf); err != nil {
			return err
		}
		buf.WriteString("</div>")
		if yt := p.Extra["youtube"]; yt != "" {
			buf.WriteString("<p class=\"post-extra\"><a href=\"" + html.EscapeString(yt) + "\">Watch on YouTube</a></p>")
		}
		if bs := p.Extra["bluesky"]; bs != "" {
			buf.WriteString("<p class=\"post-extra\"><a href=\"" + html.EscapeString(bs) + "\">Discuss on Bluesky</a></p>")
		}
		buf.WriteString("</article></main>")
		writeFooter(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Not found", "There is no page at this address.")
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Something broke", "The server hit an error building this page.")
}

func errorPage(cfg SiteConfig, title, detail string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeHead(&buf, cfg, PageMeta{
			Title:  title + " — " + cfg.Name,
			URL:    BuildURL(cfg.URL),
			OGType: "website",
		})
		buf.WriteString("<body>")
		writeHeader(&buf, cfg)
		buf.WriteString("<main class=\"error\"><h1>" + html.EscapeString(title) + "</h1>")
		buf.WriteString("<p>" + html.EscapeString(detail) + " <a href=\"/\">Back to the front page.</a></p></main>")
		writeFooter(&buf, cfg)
		_, err := w.Write(buf.Bytes())
		return err
	})
}
