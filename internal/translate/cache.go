package translate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"teludub/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. A mismatch means the
// cache must be cleared with `teludub cache clear`.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was written by a different schema version.
var ErrSchemaMismatch = errors.New("translation cache schema version mismatch")

// Cache stores translations in SQLite keyed by backend, language pair and text.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("translation cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
		if _, err := c.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key identifies one cached translation.
type Key struct {
	Backend string
	Source  string
	Target  string
	Text    string
}

func (k Key) hash() string {
	sum := sha256.Sum256([]byte(k.Text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached translation for key and records the hit.
func (c *Cache) Get(ctx context.Context, key Key) (string, bool, error) {
	var translated string
	err := c.db.QueryRowContext(ctx,
		`SELECT translated_text FROM translations
         WHERE backend = ? AND source_lang = ? AND target_lang = ? AND text_hash = ?`,
		key.Backend, key.Source, key.Target, key.hash(),
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query translation cache: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`UPDATE translations SET hits = hits + 1, used_at = ?
         WHERE backend = ? AND source_lang = ? AND target_lang = ? AND text_hash = ?`,
		nowString(), key.Backend, key.Source, key.Target, key.hash(),
	)
	if err != nil {
		return "", false, fmt.Errorf("record cache hit: %w", err)
	}
	return translated, true, nil
}

// Put stores or replaces the translation for key.
func (c *Cache) Put(ctx context.Context, key Key, translated string) error {
	now := nowString()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO translations (
            backend, source_lang, target_lang, text_hash, source_text, translated_text, hits, created_at, used_at
        ) VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
        ON CONFLICT(backend, source_lang, target_lang, text_hash)
        DO UPDATE SET translated_text = excluded.translated_text, used_at = excluded.used_at`,
		key.Backend, key.Source, key.Target, key.hash(), key.Text, translated, now, now,
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// PairStats summarizes cached entries for one backend and language pair.
type PairStats struct {
	Backend string
	Source  string
	Target  string
	Entries int64
	Hits    int64
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int64
	Hits    int64
	Pairs   []PairStats
}

// Stats returns entry and hit counts grouped by backend and language pair.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT backend, source_lang, target_lang, COUNT(1), COALESCE(SUM(hits), 0)
         FROM translations
         GROUP BY backend, source_lang, target_lang
         ORDER BY backend, source_lang, target_lang`)
	if err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var pair PairStats
		if err := rows.Scan(&pair.Backend, &pair.Source, &pair.Target, &pair.Entries, &pair.Hits); err != nil {
			return Stats{}, fmt.Errorf("scan cache stats: %w", err)
		}
		stats.Entries += pair.Entries
		stats.Hits += pair.Hits
		stats.Pairs = append(stats.Pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate cache stats: %w", err)
	}
	return stats, nil
}

// Clear deletes cached entries. A zero olderThan deletes everything;
// otherwise only entries unused for at least olderThan are removed.
func (c *Cache) Clear(ctx context.Context, olderThan time.Duration) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if olderThan <= 0 {
		res, err = c.db.ExecContext(ctx, "DELETE FROM translations")
	} else {
		cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
		res, err = c.db.ExecContext(ctx, "DELETE FROM translations WHERE used_at < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("clear translation cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Cached wraps a Translator with a Cache.
type Cached struct {
	inner   Translator
	cache   *Cache
	backend string
	logger  *slog.Logger
}

// NewCached decorates inner. backend names the inner translator in cache keys
// so switching backends never serves another backend's output.
func NewCached(inner Translator, cache *Cache, backend string, logger *slog.Logger) *Cached {
	return &Cached{
		inner:   inner,
		cache:   cache,
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "translation-cache"),
	}
}

// Translate serves text from the cache, falling back to the inner translator.
func (c *Cached) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := Key{Backend: c.backend, Source: source, Target: target, Text: text}
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.warnReadFailed(err, 1)
	} else if ok {
		return cached, nil
	}

	translated, err := c.inner.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	c.store(ctx, key, translated)
	return translated, nil
}

// TranslateBatch serves cached texts and sends only the misses to the inner
// translator, batching when it supports it.
func (c *Cached) TranslateBatch(ctx context.Context, texts []string, source, target string) ([]string, error) {
	out := make([]string, len(texts))
	var (
		misses    []string
		positions []int
		readErr   error
		failed    int
	)
	for i, text := range texts {
		key := Key{Backend: c.backend, Source: source, Target: target, Text: text}
		cached, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			if readErr == nil {
				readErr = err
			}
			failed++
		case ok:
			out[i] = cached
			continue
		}
		misses = append(misses, text)
		positions = append(positions, i)
	}
	if readErr != nil {
		c.warnReadFailed(readErr, failed)
	}
	c.logger.Debug("translation cache lookup",
		logging.Int("requested", len(texts)),
		logging.Int("hits", len(texts)-len(misses)),
	)
	if len(misses) == 0 {
		return out, nil
	}

	translated, err := TranslateAll(ctx, c.inner, misses, source, target)
	if err != nil {
		return nil, err
	}
	for i, pos := range positions {
		out[pos] = translated[i]
		if translated[i] != "" {
			c.store(ctx, Key{Backend: c.backend, Source: source, Target: target, Text: misses[i]}, translated[i])
		}
	}
	return out, nil
}

// warnReadFailed reports cache reads that fell through to the backend. A
// batch logs once with the first error and the number of failed reads.
func (c *Cached) warnReadFailed(err error, failed int) {
	logging.WarnWithContext(c.logger, "translation cache read failed", "cache_read_failed",
		logging.Error(err),
		logging.Int("failed_reads", failed),
		logging.String(logging.FieldErrorHint, "clear the cache with `teludub cache clear`"),
		logging.String(logging.FieldImpact, "text translated without cache"),
	)
}

func (c *Cached) store(ctx context.Context, key Key, translated string) {
	if err := c.cache.Put(ctx, key, translated); err != nil {
		logging.WarnWithContext(c.logger, "translation cache write failed", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
			logging.String(logging.FieldImpact, "translation will be requested again next run"),
		)
	}
}
