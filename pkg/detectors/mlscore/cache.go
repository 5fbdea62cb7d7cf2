package mlscore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultCacheTTL = 5 * time.Minute

// ScoreCache memoizes scoring results per (kind, text) hash. Scores are
// deterministic for a fixed model, so caching is safe and spares a
// round-trip to the slow model backend.
type ScoreCache interface {
	Get(ctx context.Context, key string) (*Score, bool)
	Set(ctx context.Context, key string, score *Score)
}

// CacheKey hashes the kind and text so raw prompt content never appears
// in cache keys.
func CacheKey(kind, text string) string {
	sum := sha256.Sum256([]byte(kind + "\x00" + text))
	return "mlscore:" + hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	score     *Score
	expiresAt time.Time
}

// MemoryScoreCache is an in-process TTL cache used when no Redis is
// configured.
type MemoryScoreCache struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
}

func NewMemoryScoreCache(ttl time.Duration) *MemoryScoreCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryScoreCache{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
	}
}

func (m *MemoryScoreCache) Get(_ context.Context, key string) (*Score, bool) {
	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		if current, ok := m.data[key]; ok && time.Now().After(current.expiresAt) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return entry.score, true
}

func (m *MemoryScoreCache) Set(_ context.Context, key string, score *Score) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryEntry{
		score:     score,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// RedisScoreCache shares scores across gateway instances. Failures are
// treated as cache misses; the scoring path never depends on Redis being
// up.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisScoreCache{client: client, ttl: ttl}
}

func (r *RedisScoreCache) Get(ctx context.Context, key string) (*Score, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var score Score
	if err := json.Unmarshal(raw, &score); err != nil {
		return nil, false
	}
	return &score, true
}

func (r *RedisScoreCache) Set(ctx context.Context, key string, score *Score) {
	raw, err := json.Marshal(score)
	if err != nil {
		return
	}
	r.client.Set(ctx, key, raw, r.ttl)
}
