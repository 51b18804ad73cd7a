package evaluate_test

import (
	"testing"

	"github.com/everyday-items/rageval/evaluate"
)

func TestCalculateRetrievalMetrics(t *testing.T) {
	t.Run("混合排序", func(t *testing.T) {
		retrieved := []string{"docA", "docB", "docC", "docD", "docE"}
		relevant := map[string]bool{"docB": true, "docD": true}

		got := evaluate.CalculateRetrievalMetrics(retrieved, relevant, 5)

		if !floatEq(got.PrecisionAtK, 0.4) {
			t.Errorf("PrecisionAtK = %v, want 0.4", got.PrecisionAtK)
		}
		if !floatEq(got.RecallAtK, 1.0) {
			t.Errorf("RecallAtK = %v, want 1.0", got.RecallAtK)
		}
		// 首个相关结果排第 2 位
		if !floatEq(got.MRR, 0.5) {
			t.Errorf("MRR = %v, want 0.5", got.MRR)
		}
		// DCG = 1/log2(3) + 1/log2(5), IDCG = 1 + 1/log2(3)
		if !floatEq(got.NDCGAtK, 0.651) {
			t.Errorf("NDCGAtK = %v, want 0.651", got.NDCGAtK)
		}
		if got.K != 5 {
			t.Errorf("K = %d, want 5", got.K)
		}
	})

	t.Run("理想排序", func(t *testing.T) {
		retrieved := []string{"docB", "docD", "docA"}
		relevant := map[string]bool{"docB": true, "docD": true}

		got := evaluate.CalculateRetrievalMetrics(retrieved, relevant, 2)

		if !floatEq(got.PrecisionAtK, 1.0) {
			t.Errorf("PrecisionAtK = %v, want 1.0", got.PrecisionAtK)
		}
		if !floatEq(got.RecallAtK, 1.0) {
			t.Errorf("RecallAtK = %v, want 1.0", got.RecallAtK)
		}
		if !floatEq(got.MRR, 1.0) {
			t.Errorf("MRR = %v, want 1.0", got.MRR)
		}
		if !floatEq(got.NDCGAtK, 1.0) {
			t.Errorf("NDCGAtK = %v, want 1.0", got.NDCGAtK)
		}
	})

	t.Run("MRR 不受 K 截断", func(t *testing.T) {
		retrieved := []string{"docA", "docB", "docC", "docD"}
		relevant := map[string]bool{"docD": true}

		got := evaluate.CalculateRetrievalMetrics(retrieved, relevant, 2)

		// 相关结果在第 4 位，K=2 之外
		if !floatEq(got.PrecisionAtK, 0.0) {
			t.Errorf("PrecisionAtK = %v, want 0.0", got.PrecisionAtK)
		}
		if !floatEq(got.MRR, 0.25) {
			t.Errorf("MRR = %v, want 0.25", got.MRR)
		}
	})

	t.Run("K 为零", func(t *testing.T) {
		retrieved := []string{"docA", "docB"}
		relevant := map[string]bool{"docB": true}

		got := evaluate.CalculateRetrievalMetrics(retrieved, relevant, 0)

		if !floatEq(got.PrecisionAtK, 0.0) {
			t.Errorf("PrecisionAtK = %v, want 0.0", got.PrecisionAtK)
		}
		if !floatEq(got.RecallAtK, 0.0) {
			t.Errorf("RecallAtK = %v, want 0.0", got.RecallAtK)
		}
		if !floatEq(got.NDCGAtK, 0.0) {
			t.Errorf("NDCGAtK = %v, want 0.0", got.NDCGAtK)
		}
	})

	t.Run("相关集为空", func(t *testing.T) {
		got := evaluate.CalculateRetrievalMetrics([]string{"docA"}, nil, 5)

		if !floatEq(got.PrecisionAtK, 0.0) || !floatEq(got.RecallAtK, 0.0) ||
			!floatEq(got.MRR, 0.0) || !floatEq(got.NDCGAtK, 0.0) {
			t.Errorf("metrics = %+v, want all zero", got)
		}
	})

	t.Run("检索结果为空", func(t *testing.T) {
		got := evaluate.CalculateRetrievalMetrics(nil, map[string]bool{"docA": true}, 5)

		if !floatEq(got.PrecisionAtK, 0.0) || !floatEq(got.RecallAtK, 0.0) ||
			!floatEq(got.MRR, 0.0) || !floatEq(got.NDCGAtK, 0.0) {
			t.Errorf("metrics = %+v, want all zero", got)
		}
	})

	t.Run("取值范围", func(t *testing.T) {
		retrieved := []string{"a", "b", "c", "d", "e", "f"}
		relevant := map[string]bool{"a": true, "c": true, "f": true}

		got := evaluate.CalculateRetrievalMetrics(retrieved, relevant, 4)
		for name, v := range map[string]float64{
			"precision": got.PrecisionAtK,
			"recall":    got.RecallAtK,
			"mrr":       got.MRR,
			"ndcg":      got.NDCGAtK,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s = %v out of [0,1]", name, v)
			}
		}
	})
}
