package presence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// hygieneTTL bounds how long an abandoned record can occupy Redis. It is much
// larger than LivenessWindow on purpose: expiry is storage hygiene, readers
// filter by lastSeen regardless.
const hygieneTTL = time.Hour

// RedisRepo stores presence rows as JSON under key
// "<prefix><documentID>:<userID>" so a per-document SCAN finds them all.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisRepo creates a Redis-backed presence repository. Prefix may be empty.
func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "presence:"
	}
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) key(documentID, userID string) string {
	return r.prefix + documentID + ":" + userID
}

func (r *RedisRepo) Heartbeat(ctx context.Context, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	// SET overwrites the previous row, which is exactly the upsert contract
	return r.client.Set(ctx, r.key(rec.DocumentID, rec.UserID), b, hygieneTTL).Err()
}

func (r *RedisRepo) ListActive(ctx context.Context, documentID, excludeUserID string, now time.Time) ([]*Record, error) {
	keys, err := r.scanKeys(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := []*Record{}
	for _, k := range keys {
		b, err := r.client.Get(ctx, k).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // expired between scan and get
			}
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, err
		}
		if rec.UserID == excludeUserID || !rec.Active(now) {
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (r *RedisRepo) DeleteAllForDocument(ctx context.Context, documentID string) error {
	keys, err := r.scanKeys(ctx, documentID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepo) scanKeys(ctx context.Context, documentID string) ([]string, error) {
	var keys []string
	match := r.prefix + documentID + ":*"
	iter := r.client.Scan(ctx, 0, match, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}
