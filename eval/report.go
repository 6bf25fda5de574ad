package eval

import (
	"fmt"
	"math"
	"strings"
)

// Report 是一次评估运行的结果：三组逐用户指标，均按用户 ID 升序。
// Precision/Recall 只包含留出集非空的用户；AveragePrecision 包含全部
// 参与评估的用户（空真值用户按约定计 0）。
type Report struct {
	Scorer string
	K      int

	Precision        []UserMetric
	Recall           []UserMetric
	AveragePrecision []UserMetric
}

// Summary 是一组逐用户指标的汇总统计。
type Summary struct {
	Mean  float64
	Std   float64
	Count int
}

// Summarize 计算均值与（总体）标准差。空切片返回零值。
func Summarize(metrics []UserMetric) Summary {
	if len(metrics) == 0 {
		return Summary{}
	}
	sum := 0.0
	for _, m := range metrics {
		sum += m.Value
	}
	mean := sum / float64(len(metrics))

	varSum := 0.0
	for _, m := range metrics {
		d := m.Value - mean
		varSum += d * d
	}
	return Summary{
		Mean:  mean,
		Std:   math.Sqrt(varSum / float64(len(metrics))),
		Count: len(metrics),
	}
}

// String 输出人类可读的汇总，便于 examples / 实验脚本直接打印。
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scorer=%s k=%d\n", r.Scorer, r.K)
	p := Summarize(r.Precision)
	fmt.Fprintf(&b, "  precision@%d: mean=%.4f std=%.4f users=%d\n", r.K, p.Mean, p.Std, p.Count)
	rec := Summarize(r.Recall)
	fmt.Fprintf(&b, "  recall@%d:    mean=%.4f std=%.4f users=%d\n", r.K, rec.Mean, rec.Std, rec.Count)
	m := Summarize(r.AveragePrecision)
	fmt.Fprintf(&b, "  map@%d:       mean=%.4f std=%.4f users=%d", r.K, m.Mean, m.Std, m.Count)
	return b.String()
}
