// Package content loads blog posts from a directory tree of markdown files.
// Each immediate subdirectory of the content root is one post: the directory
// name is the slug, and the directory holds an index.md whose YAML front
// matter carries the post metadata.
package content

import (
	"sort"
	"time"
)

// Post is one article assembled from the content tree. A Post is read-only
// once loaded; a new snapshot is produced by re-reading the filesystem.
type Post struct {
	Slug    string
	Title   string
	Spoiler string

	// Date is the publication date. The zero value means the front-matter
	// date was present but did not parse; such posts order after every
	// dated post. RawDate preserves the original front-matter string.
	Date    time.Time
	RawDate string

	// Body is the markdown source after the front-matter block.
	Body string

	// Extra holds front-matter keys the pipeline does not interpret
	// (youtube, bluesky, ...). Never nil.
	Extra map[string]string
}

// HasDate reports whether the post carries a parseable publication date.
func (p Post) HasDate() bool { return !p.Date.IsZero() }

// FormatDate returns the long human-readable form used on listing and
// post pages, or the raw front-matter string when the date did not parse.
func (p Post) FormatDate() string {
	if p.Date.IsZero() {
		return p.RawDate
	}
	return p.Date.Format("January 2, 2006")
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
}

// ParseDate parses an ISO-ish calendar date from front matter. The second
// return value is false when no known layout matches.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortPosts orders posts by publication date, most recent first. The sort is
// stable, so posts sharing a date keep their relative order. Posts with the
// zero-time sentinel (unparseable date) sink to the end.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}
