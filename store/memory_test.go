package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/evalkit/core"
)

func TestMemoryEmbeddingStoreGetSet(t *testing.T) {
	s := NewMemoryEmbeddingStore(3)
	ctx := context.Background()

	if err := s.SetVector(7, []float64{1, 2, 3}); err != nil {
		t.Fatalf("SetVector: %v", err)
	}

	got, err := s.GetVector(ctx, 7)
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetVector = %v, want %v", got, want)
	}

	// 返回的是副本，调用方修改不影响存储
	got[0] = 99
	again, _ := s.GetVector(ctx, 7)
	if again[0] != 1 {
		t.Errorf("stored vector mutated: %v", again)
	}

	if _, err := s.GetVector(ctx, 8); !core.IsVectorNotFound(err) {
		t.Errorf("GetVector(8) error = %v, want vector not found", err)
	}
}

func TestMemoryEmbeddingStoreDimCheck(t *testing.T) {
	s := NewMemoryEmbeddingStore(2)
	if err := s.SetVector(0, []float64{1, 2, 3}); !core.IsInvalidInput(err) {
		t.Errorf("SetVector error = %v, want INVALID_INPUT", err)
	}
	if s.Dim() != 2 {
		t.Errorf("Dim = %d, want 2", s.Dim())
	}
}

func TestMemoryEmbeddingStoreBatchGet(t *testing.T) {
	s := NewMemoryEmbeddingStore(2)
	_ = s.SetVector(0, []float64{1, 0})
	_ = s.SetVector(2, []float64{0, 1})

	got, err := s.BatchGetVectors(context.Background(), []int64{0, 1, 2})
	if err != nil {
		t.Fatalf("BatchGetVectors: %v", err)
	}
	want := map[int64][]float64{
		0: {1, 0},
		2: {0, 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BatchGetVectors = %v, want %v", got, want)
	}
}

func TestMemoryEmbeddingStoreFromMatrix(t *testing.T) {
	s, err := NewMemoryEmbeddingStoreFromMatrix([][]float64{
		{1, 2},
		{3, 4},
	})
	if err != nil {
		t.Fatalf("NewMemoryEmbeddingStoreFromMatrix: %v", err)
	}
	v, err := s.GetVector(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetVector: %v", err)
	}
	if want := []float64{3, 4}; !reflect.DeepEqual(v, want) {
		t.Errorf("GetVector(1) = %v, want %v", v, want)
	}

	if _, err := NewMemoryEmbeddingStoreFromMatrix(nil); !core.IsInvalidInput(err) {
		t.Errorf("empty matrix error = %v, want INVALID_INPUT", err)
	}
	if _, err := NewMemoryEmbeddingStoreFromMatrix([][]float64{{1, 2}, {3}}); !core.IsInvalidInput(err) {
		t.Errorf("ragged matrix error = %v, want INVALID_INPUT", err)
	}
}
