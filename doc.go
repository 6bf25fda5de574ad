// Package evalkit 是一个推荐系统离线评估工具包（Evaluation Kit）。
//
// 设计要点：
// - Scorer-first: 被评估的模型只需实现 core.Scorer（用户 + 候选物品 -> 分数）
// - 纯函数式: 所有评估操作都是输入的纯函数，不持有状态、不修改模型
// - 可复现: top-k 同分按物品 ID 升序打破平局，用户按 ID 升序遍历
package evalkit

import (
	"github.com/rushteam/evalkit/core"
	"github.com/rushteam/evalkit/eval"
)

// 轻量 facade：便于用户直接 import "evalkit" 使用核心抽象。
type Evaluator = eval.Evaluator
type Report = eval.Report
type Summary = eval.Summary
type UserMetric = eval.UserMetric

type Scorer = core.Scorer
type EmbeddingStore = core.EmbeddingStore
type History = core.History
type Interaction = core.Interaction
