// Package gallery keeps the site's image catalogue and the history of
// generated designs in SQLite.
package gallery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Collections of the catalogue.
const (
	CollectionDatabase = "1-5-1"    // generated 1-5-1 patterns, named by code
	CollectionStyles   = "styles"   // kolam styles on the gallery page
	CollectionPulli    = "pulli"    // pulli kolam photographs
	CollectionRecreate = "recreate" // sample results of the recreate tool
)

// Image is one catalogue entry.
type Image struct {
	ID          int64
	Collection  string
	Name        string
	URL         string
	Title       string
	Description string
	Link        string
}

// Design is a pattern generated in one of the designers.
type Design struct {
	ID      int64
	Variant string
	Code    string
	Created time.Time
}

// Gallery is safe for concurrent use.
type Gallery struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	collection  TEXT NOT NULL,
	name        TEXT NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	UNIQUE (collection, name)
);
CREATE TABLE IF NOT EXISTS designs (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	ts      TEXT NOT NULL,
	variant TEXT NOT NULL,
	code    TEXT NOT NULL
);`

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Gallery, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("gallery: open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("gallery: create tables: %w", err)
	}
	return &Gallery{db: db}, nil
}

// Seed inserts the built-in catalogue. Entries already present are left
// alone, so it can run on every start.
func (g *Gallery) Seed(ctx context.Context) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("gallery: seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO images
		(collection, name, url, title, description, link) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("gallery: seed: %w", err)
	}
	defer stmt.Close()

	for _, im := range seedImages() {
		if _, err := stmt.ExecContext(ctx, im.Collection, im.Name, im.URL, im.Title, im.Description, im.Link); err != nil {
			return fmt.Errorf("gallery: seed %s/%s: %w", im.Collection, im.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("gallery: seed: %w", err)
	}
	return nil
}

// List returns a collection in catalogue order.
func (g *Gallery) List(ctx context.Context, collection string) ([]Image, error) {
	return g.Search(ctx, collection, "")
}

// Search returns the images of collection whose name contains query,
// ignoring case and surrounding blanks. An empty query matches all.
func (g *Gallery) Search(ctx context.Context, collection, query string) ([]Image, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	rows, err := g.db.QueryContext(ctx, `SELECT id, collection, name, url, title, description, link
		FROM images WHERE collection = ? AND (? = '' OR instr(lower(name), ?) > 0) ORDER BY id`,
		collection, q, q)
	if err != nil {
		return nil, fmt.Errorf("gallery: search: %w", err)
	}
	defer rows.Close()

	var out []Image
	for rows.Next() {
		var im Image
		if err := rows.Scan(&im.ID, &im.Collection, &im.Name, &im.URL, &im.Title, &im.Description, &im.Link); err != nil {
			return nil, fmt.Errorf("gallery: search: %w", err)
		}
		out = append(out, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery: search: %w", err)
	}
	return out, nil
}

// RecordDesign stores a generated design.
func (g *Gallery) RecordDesign(ctx context.Context, variant, code string) error {
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO designs (ts, variant, code) VALUES (?, ?, ?)`,
		ts, variant, code,
	)
	if err != nil {
		return fmt.Errorf("gallery: record design: %w", err)
	}
	return nil
}

// RecentDesigns returns up to limit designs, newest first.
func (g *Gallery) RecentDesigns(ctx context.Context, limit int) ([]Design, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, ts, variant, code FROM designs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("gallery: recent designs: %w", err)
	}
	defer rows.Close()

	var out []Design
	for rows.Next() {
		var (
			d  Design
			ts string
		)
		if err := rows.Scan(&d.ID, &ts, &d.Variant, &d.Code); err != nil {
			return nil, fmt.Errorf("gallery: recent designs: %w", err)
		}
		d.Created, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery: recent designs: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (g *Gallery) Close() error {
	return g.db.Close()
}
