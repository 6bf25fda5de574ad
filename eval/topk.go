package eval

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/evalkit/core"
)

// TopK 为单个用户生成 Top-K 推荐列表。
//
// 候选集为 [0, noItems) 中排除该用户训练期已交互物品后的全部物品
// （先过滤再打分，不依赖负无穷分数哨兵值）。打分后按分数降序排序，
// 同分时按物品 ID 升序打破平局，保证结果可复现，最后截断到 k 个。
//
// 退化场景：未交互物品不足 k 个时返回 INVALID_INPUT（推荐系统不应向用户
// 推荐已消费过的物品，静默补齐会掩盖数据问题）。
func TopK(
	ctx context.Context,
	scorer core.Scorer,
	train *core.History,
	userID int64,
	noItems int64,
	k int,
) ([]int64, error) {
	if err := validateArgs(noItems, k); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput, "topk: scorer is nil")
	}

	// 先过滤：候选集 = 全量物品 - 训练期已见物品
	candidates := make([]int64, 0, noItems)
	for itemID := int64(0); itemID < noItems; itemID++ {
		if train != nil && train.Contains(userID, itemID) {
			continue
		}
		candidates = append(candidates, itemID)
	}
	if len(candidates) < k {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("topk: user %d has only %d unseen items, need k=%d", userID, len(candidates), k))
	}

	scores, err := scorer.Score(ctx, userID, candidates)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
			fmt.Sprintf("topk: scorer %s returned %d scores for %d candidates", scorer.Name(), len(scores), len(candidates)))
	}

	// 按分数降序排序；同分按物品 ID 升序，保证可复现
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return candidates[i] < candidates[j]
	})

	ranked := make([]int64, k)
	for i := 0; i < k; i++ {
		ranked[i] = candidates[order[i]]
	}
	return ranked, nil
}

// validateArgs 校验评估参数，k < 1 或 noItems <= 0 直接失败。
func validateArgs(noItems int64, k int) error {
	if k < 1 {
		return core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("eval: k must be >= 1, got %d", k))
	}
	if noItems <= 0 {
		return core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("eval: noItems must be > 0, got %d", noItems))
	}
	return nil
}
