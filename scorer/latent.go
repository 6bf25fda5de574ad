package scorer

import (
	"context"
	"fmt"

	"github.com/rushteam/evalkit/core"
)

// Latent 是基于隐向量（latent factor）模型的打分器。
//
// 核心思想：用户与物品各有一行定宽向量，预测分数 = 用户向量 · 物品向量。
// 向量由离线训练产出，这里只做在线查表 + 点积，不做任何训练或修改。
//
// 工程特征：
//   - 计算复杂度：低（向量点积）
//   - 失败模式：仅 ID 缺行 / 维度不匹配，均立即报错而非返回 NaN
type Latent struct {
	// Users 是用户隐向量表
	Users core.EmbeddingStore

	// Items 是物品隐向量表
	Items core.EmbeddingStore
}

func (s *Latent) Name() string { return "scorer.latent" }

// Score 返回用户向量与每个候选物品向量的点积，与 itemIDs 一一对应。
func (s *Latent) Score(ctx context.Context, userID int64, itemIDs []int64) ([]float64, error) {
	if s.Users == nil || s.Items == nil {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput, "latent: embedding stores are required")
	}

	userVec, err := s.Users.GetVector(ctx, userID)
	if err != nil {
		if core.IsVectorNotFound(err) {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeMissingUser,
				fmt.Sprintf("latent: user %d has no embedding row", userID))
		}
		return nil, fmt.Errorf("latent: get user %d vector: %w", userID, err)
	}

	itemVecs, err := s.Items.BatchGetVectors(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("latent: batch get item vectors: %w", err)
	}

	scores := make([]float64, len(itemIDs))
	for i, itemID := range itemIDs {
		itemVec, ok := itemVecs[itemID]
		if !ok {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeNotFound,
				fmt.Sprintf("latent: item %d has no embedding row", itemID))
		}
		if len(itemVec) != len(userVec) {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput,
				fmt.Sprintf("latent: dimension mismatch for item %d: user=%d item=%d", itemID, len(userVec), len(itemVec)))
		}
		scores[i] = dot(userVec, itemVec)
	}
	return scores, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

var _ core.Scorer = (*Latent)(nil)
