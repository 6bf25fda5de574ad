package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/evalkit/core"
)

// RedisEmbeddingStore 是 Redis 实现的向量表，生产环境常用。
// 向量以 JSON 数组存放在一个 Hash 里：HSET {key} {id} [0.1,0.2,...]，
// 批量读取走 HMGET 减少网络往返。
type RedisEmbeddingStore struct {
	client *redis.Client
	key    string
	dim    int
}

// NewRedisEmbeddingStore 连接 Redis 并绑定一个 Hash key。
// key 形如 "emb:user" / "emb:item"，dim 为向量维度。
func NewRedisEmbeddingStore(addr string, db int, key string, dim int) (*RedisEmbeddingStore, error) {
	if key == "" {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "embedding: redis hash key is required")
	}
	if dim <= 0 {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("embedding: dim must be > 0, got %d", dim))
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisEmbeddingStore{client: client, key: key, dim: dim}, nil
}

func (s *RedisEmbeddingStore) Name() string { return "redis" }

func (s *RedisEmbeddingStore) Dim() int { return s.dim }

// SetVector 写入一行向量（离线训练产出物的灌库入口）。
func (s *RedisEmbeddingStore) SetVector(ctx context.Context, id int64, vector []float64) error {
	if len(vector) != s.dim {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("embedding: vector for id %d has dim %d, store dim %d", id, len(vector), s.dim))
	}
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("embedding: marshal vector %d: %w", id, err)
	}
	return s.client.HSet(ctx, s.key, strconv.FormatInt(id, 10), data).Err()
}

func (s *RedisEmbeddingStore) GetVector(ctx context.Context, id int64) ([]float64, error) {
	data, err := s.client.HGet(ctx, s.key, strconv.FormatInt(id, 10)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrVectorNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.decode(id, data)
}

func (s *RedisEmbeddingStore) BatchGetVectors(ctx context.Context, ids []int64) (map[int64][]float64, error) {
	if len(ids) == 0 {
		return make(map[int64][]float64), nil
	}

	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = strconv.FormatInt(id, 10)
	}
	vals, err := s.client.HMGet(ctx, s.key, fields...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]float64, len(ids))
	for i, raw := range vals {
		if raw == nil {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			continue
		}
		vec, err := s.decode(ids[i], []byte(str))
		if err != nil {
			return nil, err
		}
		result[ids[i]] = vec
	}
	return result, nil
}

func (s *RedisEmbeddingStore) Close() error {
	return s.client.Close()
}

// decode 反序列化并校验维度，脏数据立即报错而不是带病返回。
func (s *RedisEmbeddingStore) decode(id int64, data []byte) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("embedding: unmarshal vector %d: %w", id, err)
	}
	if len(vec) != s.dim {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("embedding: stored vector %d has dim %d, store dim %d", id, len(vec), s.dim))
	}
	return vec, nil
}

var _ core.EmbeddingStore = (*RedisEmbeddingStore)(nil)
