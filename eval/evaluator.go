package eval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/evalkit/core"
	"github.com/rushteam/evalkit/pkg/dsl"
)

// Evaluator 把三个 ranking 指标打包成一次评估运行。
//
// 每个用户的 top-k 计算彼此独立，Evaluator 按用户并发执行并在结束后按
// 用户 ID 升序汇总，结果与串行计算完全一致（共享输入全部只读，无锁依赖）。
type Evaluator struct {
	// Scorer 是被评估的打分能力（latent / popularity / 自定义实现）
	Scorer core.Scorer

	// K 是推荐列表长度，必须 >= 1
	K int

	// MaxConcurrent 是最大并发用户数（0 表示无限制）
	MaxConcurrent int

	// Cohort 是可选的 CEL 表达式，筛选参与聚合的用户。
	// 变量绑定为 user.id / user.train_count / user.test_count。
	// 为空表示全量测试集用户。
	Cohort string
}

// perUser 是单个用户一次打分得到的全部指标。
type perUser struct {
	userID    int64
	precision float64
	recall    float64
	ap        float64
	// hasTruth 标记留出集是否非空：空真值用户只进 MAP（按约定计 0），
	// 不进 precision/recall
	hasTruth bool
}

// Evaluate 对测试集用户并发执行一次完整评估。
// train/test 在整个评估期间只读；每个用户只打分一次，三个指标共享同一个
// top-k 列表。
func (e *Evaluator) Evaluate(ctx context.Context, train, test *core.History) (*Report, error) {
	if e.Scorer == nil {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput, "evaluator: scorer is nil")
	}
	if test == nil {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput, "evaluator: test history is nil")
	}
	noItems := test.NoItems()
	if err := validateArgs(noItems, e.K); err != nil {
		return nil, err
	}

	users, err := e.cohortUsers(train, test)
	if err != nil {
		return nil, err
	}

	results := make([]perUser, len(users))
	eg, egCtx := errgroup.WithContext(ctx)
	if e.MaxConcurrent > 0 {
		eg.SetLimit(e.MaxConcurrent)
	}

	for i, userID := range users {
		i, userID := i, userID
		eg.Go(func() error {
			r, err := e.evaluateUser(egCtx, train, test, userID, noItems)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{K: e.K, Scorer: e.Scorer.Name()}
	for _, r := range results {
		report.AveragePrecision = append(report.AveragePrecision, UserMetric{UserID: r.userID, Value: r.ap})
		if !r.hasTruth {
			continue
		}
		report.Precision = append(report.Precision, UserMetric{UserID: r.userID, Value: r.precision})
		report.Recall = append(report.Recall, UserMetric{UserID: r.userID, Value: r.recall})
	}
	return report, nil
}

// evaluateUser 对单个用户打分一次，同时得出 precision/recall/AP。
func (e *Evaluator) evaluateUser(
	ctx context.Context,
	train, test *core.History,
	userID, noItems int64,
) (perUser, error) {
	r := perUser{userID: userID}

	relevant := test.Count(userID)
	if relevant == 0 {
		// 空真值用户：AP 按约定计 0，precision/recall 排除
		return r, nil
	}
	r.hasTruth = true

	ranked, err := TopK(ctx, e.Scorer, train, userID, noItems, e.K)
	if err != nil {
		return r, err
	}

	hits := 0
	apSum := 0.0
	for p, itemID := range ranked {
		if test.Contains(userID, itemID) {
			hits++
			apSum += float64(hits) / float64(p+1)
		}
	}

	denom := e.K
	if relevant < denom {
		denom = relevant
	}
	r.precision = float64(hits) / float64(e.K)
	r.recall = float64(hits) / float64(relevant)
	r.ap = apSum / float64(denom)
	return r, nil
}

// cohortUsers 返回参与评估的用户列表（升序）。
// Cohort 表达式非空时按谓词筛选，编译失败立即报错。
func (e *Evaluator) cohortUsers(train, test *core.History) ([]int64, error) {
	users := test.Users()
	if e.Cohort == "" {
		return users, nil
	}

	pred, err := dsl.Compile(e.Cohort)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
			fmt.Sprintf("evaluator: invalid cohort expression %q: %v", e.Cohort, err))
	}

	out := make([]int64, 0, len(users))
	for _, userID := range users {
		trainCount := 0
		if train != nil {
			trainCount = train.Count(userID)
		}
		keep, err := pred.Evaluate(map[string]any{
			"user": map[string]any{
				"id":          userID,
				"train_count": int64(trainCount),
				"test_count":  int64(test.Count(userID)),
			},
		})
		if err != nil {
			return nil, core.NewDomainError(core.ModuleEval, core.ErrorCodeInvalidInput,
				fmt.Sprintf("evaluator: cohort expression failed for user %d: %v", userID, err))
		}
		if keep {
			out = append(out, userID)
		}
	}
	return out, nil
}
