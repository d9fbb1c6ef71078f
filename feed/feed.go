// Package feed renders an ordered post collection into RSS 2.0 and Atom
// syndication documents. It never re-sorts its input and embeds no wall-clock
// timestamps, so output is byte-for-byte reproducible for a given collection.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	atom "github.com/thomas11/atomgenerator"

	"github.com/eringen/inkwell/content"
)

// Options carries the site-level metadata a feed needs. Title and SiteURL
// are required; a feed without identity is meaningless to emit.
type Options struct {
	Title       string
	Description string
	SiteURL     string
	AuthorName  string
	AuthorEmail string
	FaviconURL  string

	// FeedURL is the absolute URL of the RSS document itself, emitted as
	// the channel's atom:link rel="self". Optional.
	FeedURL string
}

func (o Options) validate() error {
	if o.Title == "" {
		return fmt.Errorf("feed: site title is required")
	}
	if o.SiteURL == "" {
		return fmt.Errorf("feed: site URL is required")
	}
	return nil
}

// Generator renders feeds for one site.
type Generator struct {
	opts Options
}

// New validates opts and returns a Generator.
func New(opts Options) (*Generator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts}, nil
}

// EntryURL returns the canonical URL of a post: <site_url><slug>/. The same
// value serves as the entry id and guid.
func (g *Generator) EntryURL(slug string) string {
	base := g.opts.SiteURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + slug + "/"
}

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	XmlnsAtom string     `xml:"xmlns:atom,attr,omitempty"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string       `xml:"title"`
	Link          string       `xml:"link"`
	Description   string       `xml:"description"`
	LastBuildDate string       `xml:"lastBuildDate,omitempty"`
	SelfLink      *rssSelfLink `xml:"atom:link,omitempty"`
	Image         *rssImage    `xml:"image,omitempty"`
	Items         []rssItem    `xml:"item"`
}

type rssSelfLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// RSS renders posts as an RSS 2.0 document. Item order follows the input
// exactly; ordering correctness is the caller's responsibility.
func (g *Generator) RSS(posts []content.Post) ([]byte, error) {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		u := g.EntryURL(p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        u,
			Description: p.Spoiler,
			GUID:        u,
		}
		if p.HasDate() {
			item.PubDate = p.Date.UTC().Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	ch := rssChannel{
		Title:       g.opts.Title,
		Link:        g.opts.SiteURL,
		Description: g.opts.Description,
		Items:       items,
	}
	// The build date comes from the newest post, not the clock, so two
	// builds of the same collection produce identical bytes.
	if newest := newestDate(posts); !newest.IsZero() {
		ch.LastBuildDate = newest.UTC().Format(time.RFC1123Z)
	}
	if g.opts.FaviconURL != "" {
		ch.Image = &rssImage{URL: g.opts.FaviconURL, Title: g.opts.Title, Link: g.opts.SiteURL}
	}

	doc := rssXML{Version: "2.0", Channel: ch}
	if g.opts.FeedURL != "" {
		doc.XmlnsAtom = "http://www.w3.org/2005/Atom"
		doc.Channel.SelfLink = &rssSelfLink{
			Href: g.opts.FeedURL,
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("feed: encode rss: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Atom renders posts as an Atom feed. The feed-level timestamp is the newest
// post date for the same reproducibility reason as RSS.
func (g *Generator) Atom(posts []content.Post) ([]byte, error) {
	f := atom.Feed{
		Title:   g.opts.Title,
		Link:    g.opts.SiteURL,
		PubDate: feedDate(posts),
	}
	if g.opts.AuthorName != "" {
		f.AddAuthor(atom.Author{
			Name:  g.opts.AuthorName,
			Email: g.opts.AuthorEmail,
		})
	}

	for _, p := range posts {
		f.AddEntry(&atom.Entry{
			Title:       p.Title,
			Description: p.Spoiler,
			Link:        g.EntryURL(p.Slug),
			PubDate:     entryDate(p),
		})
	}

	if errs := f.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("feed: invalid atom feed: %w", errs[0])
	}
	return f.GenXml()
}

func newestDate(posts []content.Post) time.Time {
	var t time.Time
	for _, p := range posts {
		if p.Date.After(t) {
			t = p.Date
		}
	}
	return t
}

// feedDate picks the feed-level updated time: the newest post date, or the
// Unix epoch for an empty or entirely undated collection.
func feedDate(posts []content.Post) time.Time {
	if t := newestDate(posts); !t.IsZero() {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// entryDate substitutes the epoch for the zero-time sentinel so the Atom
// document stays schema-valid even when a post's date did not parse.
func entryDate(p content.Post) time.Time {
	if p.HasDate() {
		return p.Date
	}
	return time.Unix(0, 0).UTC()
}
