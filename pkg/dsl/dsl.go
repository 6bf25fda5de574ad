// Package dsl 提供基于 CEL (Common Expression Language) 的谓词解释器，
// 用于按表达式筛选参与指标聚合的用户群（cohort）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("user", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Predicate 是编译后的 CEL 布尔表达式，编译一次可多次求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：user.train_count >= 5 / user.test_count > 0
//   - 逻辑：user.train_count >= 5 && user.test_count > 0
//   - 取模分桶：user.id % 10 == 0
//
// 示例：
//   - `user.test_count > 0` → 只统计有留出真值的用户
//   - `user.train_count >= 5` → 排除冷启动用户
type Predicate struct {
	prg cel.Program
}

// Compile 编译表达式并缓存为 Predicate。
func Compile(expr string) (*Predicate, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &Predicate{prg: prg}, nil
}

// Evaluate 以 input 为变量绑定求值表达式，返回布尔结果。
// input 的 key 对应环境中声明的变量名（目前为 "user"）。
func (p *Predicate) Evaluate(input map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression did not evaluate to bool, got %T", out.Value())
	}
	return result, nil
}
