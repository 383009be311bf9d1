package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/jask/packreveal/internal/catalog"
	"github.com/jask/packreveal/internal/database/repository"
)

const defaultKeepCached = 8

// CatalogService loads the card catalog, reusing a cached parse when the
// raw content has not changed.
type CatalogService struct {
	Source   catalog.Source
	Rewriter catalog.Rewriter
	// Cache is optional. Cache failures are logged and never fail a load.
	Cache      *repository.CatalogRepo
	KeepCached int
	Logger     *slog.Logger
}

// CatalogLoad is the outcome of one Load.
type CatalogLoad struct {
	catalog.Result
	Hash   string
	Cached bool
}

// Load fetches, hashes and parses the catalog. Errors carry the catalog
// error kinds.
func (s *CatalogService) Load(ctx context.Context) (CatalogLoad, error) {
	log := s.logger().With("source", s.Source.Name())

	data, err := catalog.Fetch(ctx, s.Source)
	if err != nil {
		log.Error("catalog fetch failed", "err", err)
		return CatalogLoad{}, err
	}
	hash := s.contentHash(data)
	log.Info("catalog fetched", "bytes", len(data), "hash", hash[:12])

	if cached := s.lookup(ctx, log, hash); cached != nil {
		return *cached, nil
	}

	res, err := catalog.Parse(bytes.NewReader(data), s.Source.Name(), s.Rewriter)
	if err != nil {
		log.Error("catalog parse failed", "err", err)
		return CatalogLoad{Hash: hash}, err
	}
	log.Info("catalog parsed", "rows", res.Rows, "cards", len(res.Cards), "dropped", res.Dropped)

	s.save(ctx, log, hash, res)
	return CatalogLoad{Result: res, Hash: hash}, nil
}

// contentHash covers the rewrite settings too, since cached cards hold
// rewritten references.
func (s *CatalogService) contentHash(data []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%t\n", s.Rewriter.BucketHost, s.Rewriter.Proxied)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *CatalogService) lookup(ctx context.Context, log *slog.Logger, hash string) *CatalogLoad {
	if s.Cache == nil {
		return nil
	}
	c, err := s.Cache.Lookup(ctx, hash)
	if err != nil {
		log.Warn("catalog cache lookup failed", "err", err)
		return nil
	}
	if c == nil || len(c.Cards) == 0 {
		return nil
	}
	log.Info("catalog cache hit", "cards", len(c.Cards), "fetched_at", c.FetchedAt)
	return &CatalogLoad{
		Result: catalog.Result{
			Cards:   c.Cards,
			Headers: c.Headers,
			Rows:    c.Rows,
			Dropped: c.Dropped,
		},
		Hash:   hash,
		Cached: true,
	}
}

func (s *CatalogService) save(ctx context.Context, log *slog.Logger, hash string, res catalog.Result) {
	if s.Cache == nil {
		return
	}
	err := s.Cache.Save(ctx, repository.CachedCatalog{
		Hash:    hash,
		Source:  s.Source.Name(),
		Headers: res.Headers,
		Rows:    res.Rows,
		Dropped: res.Dropped,
		Cards:   res.Cards,
	})
	if err != nil {
		log.Warn("catalog cache save failed", "err", err)
		return
	}
	keep := s.KeepCached
	if keep <= 0 {
		keep = defaultKeepCached
	}
	if n, err := s.Cache.Prune(ctx, keep); err != nil {
		log.Warn("catalog cache prune failed", "err", err)
	} else if n > 0 {
		log.Debug("catalog cache pruned", "removed", n)
	}
}

func (s *CatalogService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
