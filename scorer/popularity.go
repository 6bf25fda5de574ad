package scorer

import (
	"context"
	"fmt"

	"github.com/rushteam/evalkit/core"
)

// Popularity 是非个性化的热门基线打分器：物品分数 = 训练期与其交互过的
// 用户数。与 Latent 同签名，便于和隐向量模型做同口径对比。
//
// 计数在构造时从 TrainingHistory 一次性算好，Score 只做查表，对所有用户
// 返回相同的物品排序。
type Popularity struct {
	counts []float64
}

// NewPopularity 从训练历史统计每个物品的交互用户数。
func NewPopularity(train *core.History, noItems int64) (*Popularity, error) {
	if train == nil {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput, "popularity: train history is nil")
	}
	if noItems <= 0 {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput,
			fmt.Sprintf("popularity: noItems must be > 0, got %d", noItems))
	}
	if noItems < train.NoItems() {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput,
			fmt.Sprintf("popularity: noItems %d smaller than train item space %d", noItems, train.NoItems()))
	}

	counts := make([]float64, noItems)
	for _, userID := range train.Users() {
		for _, itemID := range train.ItemsOf(userID) {
			counts[itemID]++
		}
	}
	return &Popularity{counts: counts}, nil
}

func (s *Popularity) Name() string { return "scorer.popularity" }

// Counts 返回全量物品的热度计数（[0, noItems) 顺序的副本）。
func (s *Popularity) Counts() []float64 {
	out := make([]float64, len(s.counts))
	copy(out, s.counts)
	return out
}

// Score 返回候选物品的热度计数，与 itemIDs 一一对应；忽略 userID。
func (s *Popularity) Score(_ context.Context, _ int64, itemIDs []int64) ([]float64, error) {
	scores := make([]float64, len(itemIDs))
	for i, itemID := range itemIDs {
		if itemID < 0 || itemID >= int64(len(s.counts)) {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInvalidInput,
				fmt.Sprintf("popularity: item %d out of range [0, %d)", itemID, len(s.counts)))
		}
		scores[i] = s.counts[itemID]
	}
	return scores, nil
}

var _ core.Scorer = (*Popularity)(nil)
