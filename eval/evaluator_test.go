package eval

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/evalkit/core"
)

func TestEvaluatorMatchesSerialMetrics(t *testing.T) {
	// 并发评估的结果必须与串行逐指标计算完全一致
	train := mustHistory(t, 4, 8, map[int64][]int64{
		0: {0, 1},
		1: {2},
		2: {7},
		3: {3, 4},
	})
	test := mustHistory(t, 4, 8, map[int64][]int64{
		0: {2, 3},
		1: {0, 5, 6},
		2: {1},
		3: {},
	})
	s := &stubScorer{scores: map[int64][]float64{
		0: {1, 2, 9, 8, 3, 4, 5, 6},
		1: {9, 1, 2, 3, 4, 8, 7, 6},
		2: {3, 9, 1, 2, 4, 5, 6, 7},
		3: {1, 2, 3, 4, 5, 6, 7, 8},
	}}
	ctx := context.Background()
	const k = 3

	evaluator := &Evaluator{Scorer: s, K: k, MaxConcurrent: 2}
	report, err := evaluator.Evaluate(ctx, train, test)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	wantPrecision, err := PrecisionAtK(ctx, s, train, test, 8, k)
	if err != nil {
		t.Fatalf("PrecisionAtK: %v", err)
	}
	wantRecall, err := RecallAtK(ctx, s, train, test, 8, k)
	if err != nil {
		t.Fatalf("RecallAtK: %v", err)
	}
	wantMAP, err := MAPAtK(ctx, s, train, test, 8, k)
	if err != nil {
		t.Fatalf("MAPAtK: %v", err)
	}

	if !reflect.DeepEqual(report.Precision, wantPrecision) {
		t.Errorf("Precision = %+v, want %+v", report.Precision, wantPrecision)
	}
	if !reflect.DeepEqual(report.Recall, wantRecall) {
		t.Errorf("Recall = %+v, want %+v", report.Recall, wantRecall)
	}
	if !reflect.DeepEqual(report.AveragePrecision, wantMAP) {
		t.Errorf("AveragePrecision = %+v, want %+v", report.AveragePrecision, wantMAP)
	}
}

func TestEvaluatorCohort(t *testing.T) {
	train := mustHistory(t, 3, 4, map[int64][]int64{0: {0}, 1: {0, 1}, 2: {0}})
	test := mustHistory(t, 3, 4, map[int64][]int64{0: {1}, 1: {2, 3}, 2: {2}})
	s := &stubScorer{scores: map[int64][]float64{
		0: {1, 9, 2, 3},
		1: {1, 2, 9, 8},
		2: {1, 2, 9, 3},
	}}

	tests := []struct {
		name      string
		cohort    string
		wantUsers []int64
	}{
		{name: "no cohort keeps everyone", cohort: "", wantUsers: []int64{0, 1, 2}},
		{name: "filter by test count", cohort: "user.test_count >= 2", wantUsers: []int64{1}},
		{name: "filter by train count", cohort: "user.train_count >= 2", wantUsers: []int64{1}},
		{name: "filter by id bucket", cohort: "user.id % 2 == 0", wantUsers: []int64{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := &Evaluator{Scorer: s, K: 1, Cohort: tt.cohort}
			report, err := evaluator.Evaluate(context.Background(), train, test)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			got := make([]int64, 0, len(report.AveragePrecision))
			for _, m := range report.AveragePrecision {
				got = append(got, m.UserID)
			}
			if !reflect.DeepEqual(got, tt.wantUsers) {
				t.Errorf("cohort users = %v, want %v", got, tt.wantUsers)
			}
		})
	}
}

func TestEvaluatorInvalidCohort(t *testing.T) {
	train := mustHistory(t, 1, 4, map[int64][]int64{0: {0}})
	test := mustHistory(t, 1, 4, map[int64][]int64{0: {1}})
	s := &stubScorer{scores: map[int64][]float64{0: {1, 2, 3, 4}}}

	evaluator := &Evaluator{Scorer: s, K: 1, Cohort: "user.test_count >"}
	_, err := evaluator.Evaluate(context.Background(), train, test)
	if !core.IsInvalidInput(err) {
		t.Fatalf("Evaluate error = %v, want INVALID_INPUT", err)
	}
}

func TestEvaluatorValidation(t *testing.T) {
	train := mustHistory(t, 1, 4, map[int64][]int64{0: {0}})
	test := mustHistory(t, 1, 4, map[int64][]int64{0: {1}})
	s := &stubScorer{scores: map[int64][]float64{0: {1, 2, 3, 4}}}
	ctx := context.Background()

	if _, err := (&Evaluator{Scorer: nil, K: 1}).Evaluate(ctx, train, test); !core.IsInvalidInput(err) {
		t.Errorf("nil scorer error = %v, want INVALID_INPUT", err)
	}
	if _, err := (&Evaluator{Scorer: s, K: 0}).Evaluate(ctx, train, test); !core.IsInvalidInput(err) {
		t.Errorf("k=0 error = %v, want INVALID_INPUT", err)
	}
	if _, err := (&Evaluator{Scorer: s, K: 1}).Evaluate(ctx, train, nil); !core.IsInvalidInput(err) {
		t.Errorf("nil test error = %v, want INVALID_INPUT", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		metrics   []UserMetric
		wantMean  float64
		wantStd   float64
		wantCount int
	}{
		{name: "empty", metrics: nil, wantMean: 0, wantStd: 0, wantCount: 0},
		{
			name:      "single value",
			metrics:   []UserMetric{{UserID: 0, Value: 0.5}},
			wantMean:  0.5,
			wantStd:   0,
			wantCount: 1,
		},
		{
			name: "two values",
			metrics: []UserMetric{
				{UserID: 0, Value: 0.0},
				{UserID: 1, Value: 1.0},
			},
			wantMean:  0.5,
			wantStd:   0.5,
			wantCount: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.metrics)
			if !almostEqual(got.Mean, tt.wantMean) || !almostEqual(got.Std, tt.wantStd) || got.Count != tt.wantCount {
				t.Errorf("Summarize = %+v, want mean=%v std=%v count=%d", got, tt.wantMean, tt.wantStd, tt.wantCount)
			}
		})
	}
}
