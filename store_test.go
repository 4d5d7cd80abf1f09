package draftsmith

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/draftsmith/article"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	s := setupTestStore(t)

	art := Article{
		Slug:          "best-desk-lamps",
		Title:         "Best Desk Lamps",
		Date:          "2024-01-15",
		Tags:          []string{"Best", "lighting"},
		Excerpt:       "A short excerpt...",
		Content:       "<p>content</p>",
		FeaturedImage: "https://img.example/1.jpg",
		Status:        article.StatusPublished,
	}
	if err := s.SaveArticle(art); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	got, err := s.GetArticle("best-desk-lamps")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != art.Title {
		t.Errorf("Title = %q, want %q", got.Title, art.Title)
	}
	if got.Excerpt != art.Excerpt {
		t.Errorf("Excerpt = %q, want %q", got.Excerpt, art.Excerpt)
	}
	if got.FeaturedImage != art.FeaturedImage {
		t.Errorf("FeaturedImage = %q, want %q", got.FeaturedImage, art.FeaturedImage)
	}
	if got.Link != "/blog/best-desk-lamps/" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/best-desk-lamps/")
	}
	if !got.Published() {
		t.Error("article should be published")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "best" || got.Tags[1] != "lighting" {
		t.Errorf("Tags = %v, want [best lighting]", got.Tags)
	}
}

func TestSaveArticleDefaults(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveArticle(Article{Slug: "d", Title: "D"}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	got, err := s.GetArticleAny("d")
	if err != nil {
		t.Fatalf("GetArticleAny failed: %v", err)
	}
	if got.Status != article.StatusDraft {
		t.Errorf("Status = %q, want %q", got.Status, article.StatusDraft)
	}
	if got.Date == "" {
		t.Error("Date should default to today")
	}
}

func TestDraftsAreHidden(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveArticle(Article{Slug: "draft", Title: "Draft", Date: "2024-01-01", Status: article.StatusDraft}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	if _, err := s.GetArticle("draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetArticle should return ErrNotFound for drafts, got %v", err)
	}
	list, err := s.ListArticles("")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListArticles count = %d, want 0", len(list))
	}
	all, err := s.ListAllArticles()
	if err != nil {
		t.Fatalf("ListAllArticles failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListAllArticles count = %d, want 1", len(all))
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetArticleAny("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListArticlesByTag(t *testing.T) {
	s := setupTestStore(t)

	arts := []Article{
		{Slug: "a", Title: "A", Date: "2024-01-01", Tags: []string{"Go", "tutorial"}, Status: article.StatusPublished},
		{Slug: "b", Title: "B", Date: "2024-01-03", Tags: []string{"go"}, Status: article.StatusPublished},
		{Slug: "c", Title: "C", Date: "2024-01-02", Tags: []string{"rust"}, Status: article.StatusPublished},
		{Slug: "d", Title: "D", Date: "2024-01-04", Tags: []string{"go"}, Status: article.StatusDraft},
	}
	for _, a := range arts {
		if err := s.SaveArticle(a); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}

	got, err := s.ListArticles("GO")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListArticles(GO) count = %d, want 2", len(got))
	}
	if got[0].Slug != "b" {
		t.Errorf("first article = %q, want newest %q", got[0].Slug, "b")
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "rust", "tutorial"}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestSetStatusAndDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveArticle(Article{Slug: "x", Title: "X", Date: "2024-01-01"}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if err := s.SetStatus("x", article.StatusPublished); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := s.GetArticle("x"); err != nil {
		t.Errorf("published article should be visible: %v", err)
	}
	if err := s.SetStatus("missing", article.StatusPublished); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus on unknown slug = %v, want ErrNotFound", err)
	}
	if err := s.DeleteArticle("x"); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	if _, err := s.GetArticleAny("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted article still present: %v", err)
	}
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.UpsertSetting(ctx, "openrouter_api_key", "first"); err != nil {
		t.Fatalf("UpsertSetting failed: %v", err)
	}
	if err := s.UpsertSetting(ctx, "openrouter_api_key", "second"); err != nil {
		t.Fatalf("UpsertSetting update failed: %v", err)
	}
	if err := s.UpsertSetting(ctx, "gemini_model", "gemini-custom"); err != nil {
		t.Fatalf("UpsertSetting failed: %v", err)
	}

	got, err := s.GetSettings(ctx, []string{"openrouter_api_key", "replicate_api_token"})
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got["openrouter_api_key"] != "second" {
		t.Errorf("openrouter_api_key = %q, want %q", got["openrouter_api_key"], "second")
	}
	if _, ok := got["replicate_api_token"]; ok {
		t.Error("missing key should be absent from the result")
	}
	if _, ok := got["gemini_model"]; ok {
		t.Error("unrequested key should be absent from the result")
	}

	model, err := s.GetSettings(ctx, []string{"gemini_model"})
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if model["gemini_model"] != "gemini-custom" {
		t.Errorf("gemini_model = %q, want %q", model["gemini_model"], "gemini-custom")
	}

	empty, err := s.GetSettings(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetSettings(nil) = %v, %v", empty, err)
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)

	img := Image{Filename: "lamp.jpg", OriginalName: "Lamp.PNG", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	ok, err := s.ImageExists("lamp.jpg")
	if err != nil || !ok {
		t.Fatalf("ImageExists = %v, %v", ok, err)
	}
	list, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(list) != 1 || list[0].URL != "/public/uploads/lamp.jpg" {
		t.Fatalf("ListImages = %+v", list)
	}
	if err := s.DeleteImage("lamp.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if ok, _ := s.ImageExists("lamp.jpg"); ok {
		t.Error("image should be gone")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{",", 0},
		{",go,", 1},
		{",go,web,", 2},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.in); len(got) != tt.want {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.in, got, tt.want)
		}
	}
}

func TestArticleCache(t *testing.T) {
	s := setupTestStore(t)
	cache := NewArticleCache(s, time.Hour)

	if err := s.SaveArticle(Article{Slug: "a", Title: "A", Date: "2024-01-01", Tags: []string{"go"}, Status: article.StatusPublished}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	list, err := cache.ListArticles("")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListArticles = %v, %v", list, err)
	}

	if err := s.SaveArticle(Article{Slug: "b", Title: "B", Date: "2024-01-02", Tags: []string{"web"}, Status: article.StatusPublished}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	list, _ = cache.ListArticles("")
	if len(list) != 1 {
		t.Errorf("cache should still hold 1 article before invalidation, got %d", len(list))
	}

	cache.Invalidate()
	list, _ = cache.ListArticles("")
	if len(list) != 2 {
		t.Errorf("cache should reload 2 articles, got %d", len(list))
	}
	web, _ := cache.ListArticles("WEB")
	if len(web) != 1 || web[0].Slug != "b" {
		t.Errorf("ListArticles(WEB) = %v", web)
	}
	if _, err := cache.GetArticle("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetArticle(missing) = %v, want ErrNotFound", err)
	}
}
