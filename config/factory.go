package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/evalkit/core"
	"github.com/rushteam/evalkit/pkg/conv"
	"github.com/rushteam/evalkit/scorer"
)

// Deps 是打分器构建所需的外部依赖：评估数据集与可选的向量表。
// 配置文件只描述“用哪种打分器、怎么调参”，重对象由调用方注入。
type Deps struct {
	// Train 是训练历史（popularity 基线需要）
	Train *core.History

	// NoItems 是物品总量
	NoItems int64

	// UserVectors / ItemVectors 是隐向量表（latent 打分器需要）
	UserVectors core.EmbeddingStore
	ItemVectors core.EmbeddingStore
}

// ScorerBuilder 根据 config 与注入的依赖构建打分器。
type ScorerBuilder func(config map[string]any, deps *Deps) (core.Scorer, error)

var (
	defaultBuilders   = make(map[string]ScorerBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种打分器的构建逻辑，供 DefaultFactory 与配置驱动使用。
func Register(typeName string, builder ScorerBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的打分器类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ScorerFactory 用于根据配置构建打分器实例。
type ScorerFactory struct {
	builders map[string]ScorerBuilder
}

// NewScorerFactory 创建一个空工厂。
func NewScorerFactory() *ScorerFactory {
	return &ScorerFactory{
		builders: make(map[string]ScorerBuilder),
	}
}

// Register 注册打分器构建器。
func (f *ScorerFactory) Register(typeName string, builder ScorerBuilder) {
	f.builders[typeName] = builder
}

// Build 根据类型和配置构建打分器。
func (f *ScorerFactory) Build(typeName string, config map[string]any, deps *Deps) (core.Scorer, error) {
	builder, ok := f.builders[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown scorer type: %s (supported: %v)", typeName, SupportedTypes())
	}
	return builder(config, deps)
}

// DefaultFactory 返回包含所有内置打分器与通过 Register 注册的打分器的工厂。
func DefaultFactory() *ScorerFactory {
	f := NewScorerFactory()
	f.Register("popularity", buildPopularityScorer)
	f.Register("latent", buildLatentScorer)

	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for t, b := range defaultBuilders {
		f.Register(t, b)
	}
	return f
}

func buildPopularityScorer(cfg map[string]any, deps *Deps) (core.Scorer, error) {
	if deps == nil || deps.Train == nil {
		return nil, fmt.Errorf("popularity scorer requires train history")
	}
	// 物品总量：config 显式指定 > 注入的 Deps > 训练历史自带
	noItems := conv.ConfigGetInt64(cfg, "no_items", deps.NoItems)
	if noItems == 0 {
		noItems = deps.Train.NoItems()
	}
	return scorer.NewPopularity(deps.Train, noItems)
}

func buildLatentScorer(_ map[string]any, deps *Deps) (core.Scorer, error) {
	if deps == nil || deps.UserVectors == nil || deps.ItemVectors == nil {
		return nil, fmt.Errorf("latent scorer requires user and item embedding stores")
	}
	return &scorer.Latent{Users: deps.UserVectors, Items: deps.ItemVectors}, nil
}
