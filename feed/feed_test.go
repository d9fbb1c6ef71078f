package feed

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/eringen/inkwell/content"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testPosts() []content.Post {
	return []content.Post{
		{Slug: "newest", Title: "Newest", Spoiler: "the newest one", Date: date("2024-06-01")},
		{Slug: "middle", Title: "Middle", Spoiler: "the middle one", Date: date("2024-03-01")},
		{Slug: "oldest", Title: "Oldest", Spoiler: "the oldest one", Date: date("2024-01-01")},
	}
}

func TestNewRequiresTitleAndURL(t *testing.T) {
	if _, err := New(Options{SiteURL: "https://example.com"}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := New(Options{Title: "Example"}); err == nil {
		t.Error("expected error for missing site URL")
	}
	if _, err := New(Options{Title: "Example", SiteURL: "https://example.com"}); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}

func TestEntryURL(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.EntryURL("hello-world"); got != "https://example.com/hello-world/" {
		t.Errorf("EntryURL = %q, want https://example.com/hello-world/", got)
	}

	g2, err := New(Options{Title: "Example", SiteURL: "https://example.com/"})
	if err != nil {
		t.Fatal(err)
	}
	if got := g2.EntryURL("hello-world"); got != "https://example.com/hello-world/" {
		t.Errorf("EntryURL with trailing slash base = %q", got)
	}
}

type parsedRSS struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			GUID        string `xml:"guid"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestRSSSingleEntry(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	posts := []content.Post{
		{Slug: "hello-world", Title: "Hello", Spoiler: "Hi", Date: date("2024-03-01")},
	}
	out, err := g.RSS(posts)
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}

	var doc parsedRSS
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not valid XML: %v\n%s", err, out)
	}
	if len(doc.Channel.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(doc.Channel.Items))
	}
	item := doc.Channel.Items[0]
	if item.Link != "https://example.com/hello-world/" {
		t.Errorf("link = %q, want https://example.com/hello-world/", item.Link)
	}
	if item.GUID != item.Link {
		t.Errorf("guid = %q, want same as link", item.GUID)
	}
	if item.Description != "Hi" {
		t.Errorf("description = %q, want Hi", item.Description)
	}
}

func TestRSSPreservesInputOrder(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	// Deliberately not date-ordered: the generator must not re-sort.
	posts := []content.Post{
		{Slug: "b", Title: "B", Spoiler: "b", Date: date("2024-01-01")},
		{Slug: "a", Title: "A", Spoiler: "a", Date: date("2024-06-01")},
	}
	out, err := g.RSS(posts)
	if err != nil {
		t.Fatalf("RSS failed: %v", err)
	}

	var doc parsedRSS
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Channel.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(doc.Channel.Items))
	}
	if doc.Channel.Items[0].Title != "B" || doc.Channel.Items[1].Title != "A" {
		t.Errorf("item order = [%s %s], want input order [B A]",
			doc.Channel.Items[0].Title, doc.Channel.Items[1].Title)
	}
}

func TestRSSEntryCountMatchesPostCount(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	posts := testPosts()
	out, err := g.RSS(posts)
	if err != nil {
		t.Fatal(err)
	}
	var doc parsedRSS
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Channel.Items) != len(posts) {
		t.Errorf("got %d items, want %d", len(doc.Channel.Items), len(posts))
	}
}

func TestRSSDeterministic(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com", Description: "d"})
	if err != nil {
		t.Fatal(err)
	}
	posts := testPosts()
	first, err := g.RSS(posts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.RSS(posts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two RSS builds of the same collection differ")
	}
}

func TestRSSSelfLink(t *testing.T) {
	g, err := New(Options{
		Title:   "Example",
		SiteURL: "https://example.com",
		FeedURL: "https://example.com/feed.xml",
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.RSS(nil)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, `xmlns:atom="http://www.w3.org/2005/Atom"`) {
		t.Errorf("missing atom namespace declaration:\n%s", s)
	}
	if !strings.Contains(s, `href="https://example.com/feed.xml"`) {
		t.Errorf("missing self link:\n%s", s)
	}
}

func TestAtomEntries(t *testing.T) {
	g, err := New(Options{
		Title:      "Example",
		SiteURL:    "https://example.com",
		AuthorName: "Someone",
	})
	if err != nil {
		t.Fatal(err)
	}
	posts := testPosts()
	out, err := g.Atom(posts)
	if err != nil {
		t.Fatalf("Atom failed: %v", err)
	}
	s := string(out)
	if got := strings.Count(s, "<entry>"); got != len(posts) {
		t.Errorf("got %d entries, want %d\n%s", got, len(posts), s)
	}
	for _, p := range posts {
		if !strings.Contains(s, "https://example.com/"+p.Slug+"/") {
			t.Errorf("missing entry link for %s", p.Slug)
		}
	}
}

func TestAtomDeterministic(t *testing.T) {
	g, err := New(Options{Title: "Example", SiteURL: "https://example.com", AuthorName: "Someone"})
	if err != nil {
		t.Fatal(err)
	}
	posts := testPosts()
	first, err := g.Atom(posts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Atom(posts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two Atom builds of the same collection differ")
	}
}
