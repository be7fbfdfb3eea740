package rates

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staylytics/revpace/internal/config"
	"go.uber.org/zap"
)

// Cache stores OTA rate-series responses in redis. A nil *Cache
// disables caching entirely.
type Cache struct {
	log *zap.Logger
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(cfg config.Config, log *zap.Logger, client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{
		log: log.Named("rates.cache"),
		rdb: client,
		ttl: cfg.OtaCacheTTL,
	}
}

func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("cache entry corrupt, ignoring", zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
}

func otaCacheKey(req OtaRequest) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%d|%d|%d|%d",
		req.From.Unix(), req.To.Unix(),
		req.Filter.ListingID, req.Filter.RatePlanID, req.Filter.ChannelID,
	)))
	return "revpace:ota:" + hex.EncodeToString(sum[:])
}
