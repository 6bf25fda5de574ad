package eval

import (
	"context"

	"github.com/rushteam/evalkit/core"
)

// UserMetric 是单个用户的一项指标值。
type UserMetric struct {
	UserID int64
	Value  float64
}

// PrecisionAtK 计算每个测试集用户的 precision@k：|top-k ∩ 留出集| / k。
//
// 用户按 ID 升序遍历（TestHistory 作为 map 没有稳定的遍历顺序，升序是
// 本实现选定的确定性顺序）。留出集为空的用户被排除（precision 对无真值
// 用户没有定义）。
func PrecisionAtK(
	ctx context.Context,
	scorer core.Scorer,
	train, test *core.History,
	noItems int64,
	k int,
) ([]UserMetric, error) {
	if err := validateMetricInputs(test, noItems, k); err != nil {
		return nil, err
	}
	out := make([]UserMetric, 0, len(test.Users()))
	for _, userID := range test.Users() {
		relevant := test.Count(userID)
		if relevant == 0 {
			continue
		}
		hits, err := topKHits(ctx, scorer, train, test, userID, noItems, k)
		if err != nil {
			return nil, err
		}
		out = append(out, UserMetric{UserID: userID, Value: float64(hits) / float64(k)})
	}
	return out, nil
}

// RecallAtK 计算每个测试集用户的 recall@k：|top-k ∩ 留出集| / |留出集|。
// 留出集为空的用户被排除（分母无定义），与 PrecisionAtK 保持一致。
func RecallAtK(
	ctx context.Context,
	scorer core.Scorer,
	train, test *core.History,
	noItems int64,
	k int,
) ([]UserMetric, error) {
	if err := validateMetricInputs(test, noItems, k); err != nil {
		return nil, err
	}
	out := make([]UserMetric, 0, len(test.Users()))
	for _, userID := range test.Users() {
		relevant := test.Count(userID)
		if relevant == 0 {
			continue
		}
		hits, err := topKHits(ctx, scorer, train, test, userID, noItems, k)
		if err != nil {
			return nil, err
		}
		out = append(out, UserMetric{UserID: userID, Value: float64(hits) / float64(relevant)})
	}
	return out, nil
}

// MAPAtK 计算每个测试集用户的 Average Precision@k。
//
// 逐位置扫描 top-k 列表：第 p 个位置命中时累加 (累计命中数 / p)，
// 最终除以 min(k, |留出集|)（长度为 k 的列表中最多可能出现的相关物品数）。
//
// 约定：留出集为空的用户贡献 AP = 0，而不是像 precision/recall 那样被排除。
// 这对应线上真实场景：系统仍然给没有留出真值的用户做了推荐尝试。该不一致
// 是刻意保留的约定（而非统一规则），调用方聚合时需知晓。
func MAPAtK(
	ctx context.Context,
	scorer core.Scorer,
	train, test *core.History,
	noItems int64,
	k int,
) ([]UserMetric, error) {
	if err := validateMetricInputs(test, noItems, k); err != nil {
		return nil, err
	}
	out := make([]UserMetric, 0, len(test.Users()))
	for _, userID := range test.Users() {
		ap, err := averagePrecision(ctx, scorer, train, test, userID, noItems, k)
		if err != nil {
			return nil, err
		}
		out = append(out, UserMetric{UserID: userID, Value: ap})
	}
	return out, nil
}

// topKHits 返回用户 top-k 列表与留出集的交集大小。
func topKHits(
	ctx context.Context,
	scorer core.Scorer,
	train, test *core.History,
	userID, noItems int64,
	k int,
) (int, error) {
	ranked, err := TopK(ctx, scorer, train, userID, noItems, k)
	if err != nil {
		return 0, err
	}
	hits := 0
	for _, itemID := range ranked {
		if test.Contains(userID, itemID) {
			hits++
		}
	}
	return hits, nil
}

// averagePrecision 计算单个用户的 AP@k；留出集为空时按约定返回 0。
func averagePrecision(
	ctx context.Context,
	scorer core.Scorer,
	train, test *core.History,
	userID, noItems int64,
	k int,
) (float64, error) {
	relevant := test.Count(userID)
	if relevant == 0 {
		return 0, nil
	}
	ranked, err := TopK(ctx, scorer, train, userID, noItems, k)
	if err != nil {
		return 0, err
	}
	hits := 0
	sum := 0.0
	for p, itemID := range ranked {
		if test.Contains(userID, itemID) {
			hits++
			sum += float64(hits) / float64(p+1)
		}
	}
	denom := k
	if relevant < denom {
		denom = relevant
	}
	return sum / float64(denom), nil
}

func validateMetricInputs(test *core.History, noItems int64, k int) error {
	if err := validateArgs(noItems, k); err != nil {
		return err
	}
	if test == nil {
		return core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput, "eval: test history is nil")
	}
	return nil
}
