package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePost(t *testing.T, root, slug, frontMatter, body string) {
	t.Helper()
	dir := filepath.Join(root, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	doc := "---\n" + frontMatter + "---\n\n" + body
	if err := os.WriteFile(filepath.Join(dir, PostFileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("write post %s: %v", slug, err)
	}
}

func TestLoadReturnsOnePostPerDirectory(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "first-post", "title: First\ndate: 2024-01-01\nspoiler: one\n", "body one")
	writePost(t, root, "second-post", "title: Second\ndate: 2024-02-01\nspoiler: two\n", "body two")
	writePost(t, root, "third-post", "title: Third\ndate: 2024-03-01\nspoiler: three\n", "body three")

	posts, err := NewRepository(root).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}

	seen := make(map[string]bool)
	for _, p := range posts {
		seen[p.Slug] = true
	}
	for _, slug := range []string{"first-post", "second-post", "third-post"} {
		if !seen[slug] {
			t.Errorf("missing slug %q in loaded posts", slug)
		}
	}
}

func TestLoadOrdersMostRecentFirst(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "january", "title: Jan\ndate: 2024-01-01\nspoiler: j\n", "")
	writePost(t, root, "june", "title: Jun\ndate: 2024-06-01\nspoiler: j\n", "")

	posts, err := NewRepository(root).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if posts[0].Slug != "june" || posts[1].Slug != "january" {
		t.Errorf("order = [%s %s], want [june january]", posts[0].Slug, posts[1].Slug)
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Date.After(posts[i-1].Date) {
			t.Errorf("posts[%d] dated after posts[%d]", i, i-1)
		}
	}
}

func TestLoadMissingFileFailsWholeRead(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "good", "title: Good\ndate: 2024-01-01\nspoiler: ok\n", "")
	if err := os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewRepository(root).Load(context.Background())
	if err == nil {
		t.Fatal("expected Load to fail when a post directory has no markdown file")
	}
	var mfe *MissingFileError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFileError, got %T: %v", err, err)
	}
	if mfe.Slug != "empty-dir" {
		t.Errorf("MissingFileError.Slug = %q, want %q", mfe.Slug, "empty-dir")
	}
}

func TestLoadMissingRequiredFieldFailsWholeRead(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "no-spoiler", "title: T\ndate: 2024-01-01\n", "")

	_, err := NewRepository(root).Load(context.Background())
	if err == nil {
		t.Fatal("expected Load to fail on missing required field")
	}
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFieldError, got %T: %v", err, err)
	}
	if mfe.Slug != "no-spoiler" || mfe.Field != "spoiler" {
		t.Errorf("got slug=%q field=%q, want no-spoiler/spoiler", mfe.Slug, mfe.Field)
	}
}

func TestLoadMalformedFrontMatterFailsWholeRead(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "---\ntitle: Broken\nno closing delimiter\n"
	if err := os.WriteFile(filepath.Join(dir, PostFileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRepository(root).Load(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestLoadIgnoresPlainFilesInRoot(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "only", "title: Only\ndate: 2024-01-01\nspoiler: s\n", "")
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("not a post"), 0o644); err != nil {
		t.Fatal(err)
	}

	posts, err := NewRepository(root).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
}

func TestLoadExtraFieldsPassThrough(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "video", "title: V\ndate: 2024-04-01\nspoiler: s\nyoutube: https://youtu.be/abc\n", "")

	posts, err := NewRepository(root).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if posts[0].Extra["youtube"] != "https://youtu.be/abc" {
		t.Errorf("Extra[youtube] = %q", posts[0].Extra["youtube"])
	}
	if posts[0].Extra["title"] != "" {
		t.Errorf("title leaked into Extra: %v", posts[0].Extra)
	}
}

func TestLoadUnparseableDateSortsLast(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "dated", "title: D\ndate: 2020-01-01\nspoiler: s\n", "")
	writePost(t, root, "undated", "title: U\ndate: someday soon\nspoiler: s\n", "")

	posts, err := NewRepository(root).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if posts[len(posts)-1].Slug != "undated" {
		t.Errorf("post with unparseable date should sort last, got order %v", []string{posts[0].Slug, posts[1].Slug})
	}
	undated := posts[len(posts)-1]
	if undated.HasDate() {
		t.Error("unparseable date should leave Date at the zero sentinel")
	}
	if undated.RawDate != "someday soon" {
		t.Errorf("RawDate = %q, want original string", undated.RawDate)
	}
}

func TestLoadSnapshotsAreIndependent(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "a-post", "title: A\ndate: 2024-01-01\nspoiler: s\n", "body")

	repo := NewRepository(root)
	first, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("snapshot lengths differ: %d vs %d", len(first), len(second))
	}
	if first[0].Slug != second[0].Slug || first[0].Title != second[0].Title {
		t.Error("snapshots are not structurally equal")
	}

	// Mutating one snapshot must not leak into the other.
	first[0].Title = "mutated"
	if second[0].Title == "mutated" {
		t.Error("snapshots share backing storage")
	}
}

func TestLoadMissingRootFails(t *testing.T) {
	_, err := NewRepository(filepath.Join(t.TempDir(), "does-not-exist")).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing content root")
	}
}

func TestSortPostsStableOnEqualDates(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []Post{
		{Slug: "one", Date: day},
		{Slug: "two", Date: day},
		{Slug: "newer", Date: day.AddDate(0, 1, 0)},
	}
	SortPosts(posts)
	if posts[0].Slug != "newer" {
		t.Errorf("posts[0] = %s, want newer", posts[0].Slug)
	}
	if posts[1].Slug != "one" || posts[2].Slug != "two" {
		t.Errorf("equal-date posts reordered: %s, %s", posts[1].Slug, posts[2].Slug)
	}
}
