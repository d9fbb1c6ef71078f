package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// PostFileName is the fixed markdown file expected inside every post directory.
const PostFileName = "index.md"

// MissingFileError reports a post directory without its markdown file.
type MissingFileError struct {
	Slug string
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("content: post %q has no %s (looked at %s)", e.Slug, PostFileName, e.Path)
}

// MissingFieldError reports front matter lacking a required field.
type MissingFieldError struct {
	Slug  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("content: post %q front matter is missing %q", e.Slug, e.Field)
}

// Repository produces the full collection of posts under a content root.
// The root is an explicit parameter so tests can point it at a temp dir.
type Repository struct {
	root string
}

// NewRepository creates a Repository reading from root.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Load scans the content root and returns a freshly allocated snapshot of
// every post, ordered most recent first. Directory reads run in parallel;
// Load joins on all of them before returning, and never exposes a partial
// collection: the first missing file, parse failure, or absent required
// field fails the whole load.
func (r *Repository) Load(ctx context.Context) ([]Post, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("content: read root %s: %w", r.root, err)
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			slugs = append(slugs, e.Name())
		}
	}

	posts := make([]Post, len(slugs))
	g, ctx := errgroup.WithContext(ctx)
	for i, slug := range slugs {
		i, slug := i, slug
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := r.loadPost(slug)
			if err != nil {
				return err
			}
			posts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortPosts(posts)
	return posts, nil
}

var requiredFields = []string{"title", "date", "spoiler"}

func (r *Repository) loadPost(slug string) (Post, error) {
	path := filepath.Join(r.root, slug, PostFileName)
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Post{}, &MissingFileError{Slug: slug, Path: path}
		}
		return Post{}, fmt.Errorf("content: read %s: %w", path, err)
	}

	meta, body, err := ParseFrontMatter(path, src)
	if err != nil {
		return Post{}, err
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(meta[field]) == "" {
			return Post{}, &MissingFieldError{Slug: slug, Field: field}
		}
	}

	p := Post{
		Slug:  slug,
		Body:  string(body),
		Extra: make(map[string]string),
	}
	for k, v := range meta {
		switch k {
		case "title":
			p.Title = v
		case "spoiler":
			p.Spoiler = v
		case "date":
			p.RawDate = v
			if t, ok := ParseDate(v); ok {
				p.Date = t
			}
		default:
			p.Extra[k] = v
		}
	}
	return p, nil
}
