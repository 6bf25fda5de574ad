package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rushteam/evalkit/core"
)

// MemoryEmbeddingStore 是内存实现的向量表，用于测试/开发/原型。
// 平替 Redis / Feast 等外部存储，进程重启后数据丢失。线程安全。
type MemoryEmbeddingStore struct {
	mu      sync.RWMutex
	dim     int
	vectors map[int64][]float64
}

// NewMemoryEmbeddingStore 创建一个空的内存向量表，dim 为向量维度。
func NewMemoryEmbeddingStore(dim int) *MemoryEmbeddingStore {
	return &MemoryEmbeddingStore{
		dim:     dim,
		vectors: make(map[int64][]float64),
	}
}

// NewMemoryEmbeddingStoreFromMatrix 从稠密矩阵构造向量表：第 i 行即实体 i
// 的向量。所有行必须等宽。
func NewMemoryEmbeddingStoreFromMatrix(matrix [][]float64) (*MemoryEmbeddingStore, error) {
	if len(matrix) == 0 {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "embedding: matrix is empty")
	}
	s := NewMemoryEmbeddingStore(len(matrix[0]))
	for i, row := range matrix {
		if err := s.SetVector(int64(i), row); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryEmbeddingStore) Name() string { return "memory" }

func (s *MemoryEmbeddingStore) Dim() int { return s.dim }

// SetVector 写入/覆盖一行向量，维度不符返回 INVALID_INPUT。
func (s *MemoryEmbeddingStore) SetVector(id int64, vector []float64) error {
	if len(vector) != s.dim {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("embedding: vector for id %d has dim %d, store dim %d", id, len(vector), s.dim))
	}
	v := make([]float64, len(vector))
	copy(v, vector)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[id] = v
	return nil
}

func (s *MemoryEmbeddingStore) GetVector(_ context.Context, id int64) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vectors[id]
	if !ok {
		return nil, core.ErrVectorNotFound
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryEmbeddingStore) BatchGetVectors(_ context.Context, ids []int64) (map[int64][]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64][]float64, len(ids))
	for _, id := range ids {
		v, ok := s.vectors[id]
		if !ok {
			continue
		}
		out := make([]float64, len(v))
		copy(out, v)
		result[id] = out
	}
	return result, nil
}

func (s *MemoryEmbeddingStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = make(map[int64][]float64)
	return nil
}

var _ core.EmbeddingStore = (*MemoryEmbeddingStore)(nil)
