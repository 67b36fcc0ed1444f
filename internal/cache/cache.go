// Package cache implements the offline layer: a versioned response cache
// and an http.RoundTripper that applies the serving policy.
//
// Entries are keyed by (generation, URL). One generation is active at a
// time; activating a new generation discards every entry from the others,
// so a version bump forces a full rebuild on the next install.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned when no entry exists for a request.
var ErrMiss = errors.New("cache: miss")

// Entry is one cached response.
type Entry struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// Cache is the SQLite-backed response store.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates the cache database at path, creating the parent directory
// and schema as needed.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		generation   INTEGER NOT NULL,
		url          TEXT NOT NULL,
		status_code  INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		body         BLOB NOT NULL,
		fetched_at   DATETIME NOT NULL,
		PRIMARY KEY (generation, url)
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Put stores or overwrites the entry for url under the given generation.
func (c *Cache) Put(generation int, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(`
		INSERT INTO entries (generation, url, status_code, content_type, body, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(generation, url) DO UPDATE SET
			status_code = excluded.status_code,
			content_type = excluded.content_type,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, generation, e.URL, e.StatusCode, e.ContentType, e.Body, e.FetchedAt)
	if err != nil {
		return fmt.Errorf("cache put %q: %w", e.URL, err)
	}
	return nil
}

// Get returns the entry for url in the given generation, or ErrMiss.
func (c *Cache) Get(generation int, url string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e Entry
	err := c.db.QueryRow(`
		SELECT url, status_code, content_type, body, fetched_at
		FROM entries WHERE generation = ? AND url = ?
	`, generation, url).Scan(&e.URL, &e.StatusCode, &e.ContentType, &e.Body, &e.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("cache get %q: %w", url, err)
	}
	return e, nil
}

// PurgeOthers deletes every entry whose generation differs from current.
func (c *Cache) PurgeOthers(current int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec("DELETE FROM entries WHERE generation != ?", current)
	if err != nil {
		return fmt.Errorf("purge old generations: %w", err)
	}
	return nil
}

// Generations lists the generations that still hold entries.
func (c *Cache) Generations() ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT DISTINCT generation FROM entries ORDER BY generation")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gens []int
	for rows.Next() {
		var g int
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}
