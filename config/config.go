package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/evalkit/eval"
)

// Config 是一次评估实验的配置结构（支持 YAML/JSON）。
//
// 示例：
//
//	experiment:
//	  name: movielens-latent-vs-pop
//	  k: 10
//	  max_concurrent: 8
//	  cohort: "user.test_count > 0"
//	  scorer:
//	    type: popularity
type Config struct {
	Experiment struct {
		Name          string       `yaml:"name" json:"name"`
		K             int          `yaml:"k" json:"k"`
		MaxConcurrent int          `yaml:"max_concurrent" json:"max_concurrent"`
		Cohort        string       `yaml:"cohort" json:"cohort"`
		Scorer        ScorerConfig `yaml:"scorer" json:"scorer"`
	} `yaml:"experiment" json:"experiment"`
}

// ScorerConfig 是打分器的配置。
type ScorerConfig struct {
	Type   string         `yaml:"type" json:"type"`     // popularity / latent 等
	Config map[string]any `yaml:"config" json:"config"` // 打分器特定配置
}

// LoadFromYAML 从 YAML 文件加载实验配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载实验配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// BuildEvaluator 根据配置构建 Evaluator（需要 ScorerFactory 注册打分器构建器）。
func (c *Config) BuildEvaluator(factory *ScorerFactory, deps *Deps) (*eval.Evaluator, error) {
	sc := c.Experiment.Scorer
	scorer, err := factory.Build(sc.Type, sc.Config, deps)
	if err != nil {
		return nil, fmt.Errorf("build scorer %s: %w", sc.Type, err)
	}

	return &eval.Evaluator{
		Scorer:        scorer,
		K:             c.Experiment.K,
		MaxConcurrent: c.Experiment.MaxConcurrent,
		Cohort:        c.Experiment.Cohort,
	}, nil
}
