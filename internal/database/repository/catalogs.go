package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jask/packreveal/internal/catalog"
	"github.com/jask/packreveal/internal/database"
)

// CachedCatalog is a parsed catalog keyed by the hash of its raw content.
type CachedCatalog struct {
	Hash      string
	Source    string
	Headers   []string
	Rows      int
	Dropped   int
	FetchedAt time.Time
	Cards     []catalog.Card
}

// CatalogRepo caches parsed catalogs.
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Lookup returns the cached catalog for hash, or nil when there is none.
func (r *CatalogRepo) Lookup(ctx context.Context, hash string) (*CachedCatalog, error) {
	c := CachedCatalog{Hash: hash}
	var headers string
	err := r.db.QueryRowContext(ctx, `SELECT source, headers, row_count, dropped, fetched_at FROM catalogs WHERE hash = ?`, hash).
		Scan(&c.Source, &headers, &c.Rows, &c.Dropped, &c.FetchedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(headers), &c.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT card_id, front_ref, back_ref, front_original, back_original
	FROM catalog_cards WHERE catalog_hash = ? ORDER BY position`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var card catalog.Card
		if err := rows.Scan(&card.ID, &card.FrontRef, &card.BackRef, &card.FrontOriginal, &card.BackOriginal); err != nil {
			return nil, err
		}
		c.Cards = append(c.Cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save stores a catalog, replacing any earlier copy with the same hash.
func (r *CatalogRepo) Save(ctx context.Context, c CachedCatalog) error {
	headers, err := json.Marshal(c.Headers)
	if err != nil {
		return err
	}
	if c.FetchedAt.IsZero() {
		c.FetchedAt = database.Now()
	}

	return database.WithTxContext(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalogs(hash, source, headers, row_count, dropped, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
		 source=excluded.source,
		 headers=excluded.headers,
		 row_count=excluded.row_count,
		 dropped=excluded.dropped,
		 fetched_at=excluded.fetched_at;
		`, c.Hash, c.Source, string(headers), c.Rows, c.Dropped, c.FetchedAt); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_cards WHERE catalog_hash = ?`, c.Hash); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_cards(catalog_hash, position, card_id, front_ref, back_ref, front_original, back_original)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, card := range c.Cards {
			if _, err := stmt.ExecContext(ctx, c.Hash, i, card.ID, card.FrontRef, card.BackRef, card.FrontOriginal, card.BackOriginal); err != nil {
				return fmt.Errorf("insert card %s: %w", card.ID, err)
			}
		}
		return nil
	})
}

// Prune keeps the keep most recently fetched catalogs and deletes the rest.
func (r *CatalogRepo) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM catalogs WHERE hash NOT IN (
	 SELECT hash FROM catalogs ORDER BY fetched_at DESC, hash LIMIT ?
	)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of cached catalogs.
func (r *CatalogRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalogs`).Scan(&n)
	return n, err
}
