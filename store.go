package draftsmith

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/draftsmith/article"
)

// Store wraps a SQLite database holding articles, site settings and image
// metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows concurrent readers during writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    featured_image TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft'
);
CREATE INDEX IF NOT EXISTS idx_articles_status_date ON articles (status, date);

CREATE TABLE IF NOT EXISTS site_settings (
    setting_key TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const articleColumns = `slug, title, date, tags, excerpt, content, featured_image, status`

func scanArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()
	var out []Article
	for rows.Next() {
		var a Article
		var tags string
		if err := rows.Scan(&a.Slug, &a.Title, &a.Date, &tags, &a.Excerpt, &a.Content, &a.FeaturedImage, &a.Status); err != nil {
			return nil, err
		}
		a.Tags = ParseTags(tags)
		a.Link = "/blog/" + a.Slug + "/"
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) getArticle(query string, args ...any) (Article, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return Article{}, err
	}
	list, err := scanArticles(rows)
	if err != nil {
		return Article{}, err
	}
	if len(list) == 0 {
		return Article{}, ErrNotFound
	}
	return list[0], nil
}

// ListArticles returns all published articles ordered by date descending.
// If tag is non-empty, results are filtered to articles containing that tag.
func (s *Store) ListArticles(tag string) ([]Article, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT `+articleColumns+` FROM articles WHERE status = ? ORDER BY date DESC, slug`, article.StatusPublished)
	} else {
		rows, err = s.db.Query(`SELECT `+articleColumns+` FROM articles WHERE status = ? AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC, slug`,
			article.StatusPublished, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListAllArticles returns every article (published and drafts) ordered by
// date descending.
func (s *Store) ListAllArticles() ([]Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY date DESC, slug`)
	if err != nil {
		return nil, err
	}
	return scanArticles(rows)
}

// ListTags returns a sorted, deduplicated slice of all tags from published articles.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM articles WHERE status = ?`, article.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetArticle returns a single published article by slug.
func (s *Store) GetArticle(slug string) (Article, error) {
	return s.getArticle(`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND status = ?`, slug, article.StatusPublished)
}

// GetArticleAny returns an article by slug regardless of status (for admin).
func (s *Store) GetArticleAny(slug string) (Article, error) {
	return s.getArticle(`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
}

// SaveArticle upserts an article. Tags are normalized to lowercase, an empty
// date becomes today and an empty status becomes "draft".
func (s *Store) SaveArticle(a Article) error {
	normalizedTags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if t = normalizeTag(t); t != "" {
			normalizedTags = append(normalizedTags, t)
		}
	}
	tagString := "," + strings.Join(normalizedTags, ",") + ","
	if a.Date == "" {
		a.Date = time.Now().Format("2006-01-02")
	}
	if a.Status == "" {
		a.Status = article.StatusDraft
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO articles (`+articleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Slug, a.Title, a.Date, tagString, a.Excerpt, a.Content, a.FeaturedImage, a.Status)
	return err
}

// SetStatus changes an article's status. ErrNotFound is returned for an
// unknown slug.
func (s *Store) SetStatus(slug, status string) error {
	res, err := s.db.Exec(`UPDATE articles SET status = ? WHERE slug = ?`, status, slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteArticle removes an article by slug.
func (s *Store) DeleteArticle(slug string) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE slug = ?`, slug)
	return err
}

// GetSettings returns the stored values for keys. Keys without a row are
// absent from the result.
func (s *Store) GetSettings(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	rows, err := s.db.QueryContext(ctx, `SELECT setting_key, setting_value FROM site_settings WHERE setting_key IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// UpsertSetting stores value under key.
func (s *Store) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO site_settings (setting_key, setting_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// SaveImage records image metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		img.URL = uploadURL(img.Filename)
		images = append(images, img)
	}
	return images, rows.Err()
}

// ImageExists reports whether an image with filename is recorded.
func (s *Store) ImageExists(filename string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM images WHERE filename = ?`, filename).Scan(&n)
	return n > 0, err
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
