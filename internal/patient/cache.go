package patient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	id "sigilo/pkg/domain"
)

// CachedRepository layers a short-lived Redis cache over a Repository.
// Cache keys are SHA-256 digests of the tenant, search type, and term, so
// raw identifiers and names never appear in Redis keys. Cache failures
// degrade to the underlying repository; they never fail a lookup.
type CachedRepository struct {
	inner  Repository
	rdb    *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedRepository(inner Repository, rdb *goredis.Client, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedRepository) FindCandidates(ctx context.Context, tenantID id.TenantID, searchType SearchType, term string) ([]Record, error) {
	key := cacheKey(tenantID, searchType, term)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Record
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the source.
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, goredis.Nil) {
		c.logger.WarnContext(ctx, "patient cache read failed", "error", err)
	}

	records, err := c.inner.FindCandidates(ctx, tenantID, searchType, term)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(records); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "patient cache write failed", "error", err)
		}
	}
	return records, nil
}

func cacheKey(tenantID id.TenantID, searchType SearchType, term string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", tenantID.String(), searchType, term))
	return "sigilo:patient:search:" + hex.EncodeToString(sum[:])
}
