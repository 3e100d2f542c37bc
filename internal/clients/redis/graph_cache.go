package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lumenlearn/lumen-backend/internal/platform/envutil"
	"github.com/lumenlearn/lumen-backend/internal/platform/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

const graphKeyPrefix = "kg:"

// GraphCache mirrors built knowledge graphs into Redis so multiple
// instances can warm their in-memory stores from each other's builds. It
// implements services.GraphCacheMirror.
type GraphCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewGraphCache(log *logger.Logger) (*GraphCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(envutil.Int("REDIS_GRAPH_TTL_SECONDS", 3600)) * time.Second
	return &GraphCache{
		log: log.With("service", "RedisGraphCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *GraphCache) Store(ctx context.Context, graph *types.KnowledgeGraph) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis graph cache not initialized")
	}
	if graph == nil || strings.TrimSpace(graph.Subject) == "" {
		return fmt.Errorf("graph with subject required")
	}
	raw, err := json.Marshal(graph)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, graphKeyPrefix+graph.Subject, raw, c.ttl).Err()
}

// Load returns (nil, nil) when the subject is not mirrored.
func (c *GraphCache) Load(ctx context.Context, subject string) (*types.KnowledgeGraph, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("redis graph cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, graphKeyPrefix+subject).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var graph types.KnowledgeGraph
	if err := json.Unmarshal(raw, &graph); err != nil {
		c.log.Warn("bad mirrored graph payload", "subject", subject, "error", err)
		return nil, nil
	}
	return &graph, nil
}

func (c *GraphCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
