package evaluate_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/everyday-items/rageval/evaluate"
)

func newFaithfulnessEvaluator() *evaluate.AnswerFaithfulnessEvaluator {
	return evaluate.NewAnswerFaithfulnessEvaluator(evaluate.DefaultParams(), nil)
}

func linkedContext(id, text string) evaluate.ResolvedContext {
	return evaluate.ResolvedContext{
		Context: evaluate.Context{ID: id, Text: text},
		Origin:  evaluate.OriginLinked,
	}
}

func TestAnswerFaithfulnessEvaluator(t *testing.T) {
	t.Run("部分支持的回答", func(t *testing.T) {
		q := evaluate.Question{
			ID:     "q1",
			Text:   "What is the capital of France?",
			Answer: "The capital of France is Paris. It has a population of 2 million.",
		}
		contexts := []evaluate.ResolvedContext{
			linkedContext("ctx1", "Paris is the capital and most populous city of France."),
		}

		got := newFaithfulnessEvaluator().Evaluate(q, contexts)

		if got.QuestionID != "q1" {
			t.Errorf("QuestionID = %q, want q1", got.QuestionID)
		}
		if !floatEq(got.FaithfulnessScore, 0.5) {
			t.Errorf("FaithfulnessScore = %v, want 0.5", got.FaithfulnessScore)
		}
		// (0.75 + 0) / 2
		if !floatEq(got.GroundednessScore, 0.375) {
			t.Errorf("GroundednessScore = %v, want 0.375", got.GroundednessScore)
		}
		if len(got.Claims) != 2 {
			t.Fatalf("len(Claims) = %d, want 2", len(got.Claims))
		}

		first := got.Claims[0]
		if !first.Supported || !floatEq(first.Score, 0.75) {
			t.Errorf("claim[0] = %+v, want supported with score 0.75", first)
		}
		if !floatEq(first.ContextScores["ctx1"], 0.75) {
			t.Errorf("claim[0] ContextScores = %v, want ctx1: 0.75", first.ContextScores)
		}

		second := got.Claims[1]
		if second.Supported || !floatEq(second.Score, 0.0) {
			t.Errorf("claim[1] = %+v, want unsupported with score 0.0", second)
		}

		want := []string{"It has a population of 2 million"}
		if !reflect.DeepEqual(got.UnsupportedClaims, want) {
			t.Errorf("UnsupportedClaims = %v, want %v", got.UnsupportedClaims, want)
		}
		if !reflect.DeepEqual(got.ContextsUsed, []string{"ctx1"}) {
			t.Errorf("ContextsUsed = %v, want [ctx1]", got.ContextsUsed)
		}
	})

	t.Run("多上下文归因", func(t *testing.T) {
		q := evaluate.Question{
			ID:     "q1",
			Text:   "What is the capital of France?",
			Answer: "The capital of France is Paris. It has a population of 2 million.",
		}
		contexts := []evaluate.ResolvedContext{
			linkedContext("ctx1", "Paris is the capital and most populous city of France."),
			linkedContext("ctx2", "Paris has a population of over 2 million residents."),
		}

		got := newFaithfulnessEvaluator().Evaluate(q, contexts)

		// 合并上下文后两条断言都被支持
		if !floatEq(got.FaithfulnessScore, 1.0) {
			t.Errorf("FaithfulnessScore = %v, want 1.0", got.FaithfulnessScore)
		}
		if len(got.UnsupportedClaims) != 0 {
			t.Errorf("UnsupportedClaims = %v, want empty", got.UnsupportedClaims)
		}

		// 人口断言归因到 ctx2
		second := got.Claims[1]
		if !second.Supported {
			t.Errorf("claim[1] = %+v, want supported", second)
		}
		if _, ok := second.ContextScores["ctx2"]; !ok {
			t.Errorf("claim[1] ContextScores = %v, want ctx2 attributed", second.ContextScores)
		}

		// 归因顺序按首次贡献排列
		if !reflect.DeepEqual(got.ContextsUsed, []string{"ctx1", "ctx2"}) {
			t.Errorf("ContextsUsed = %v, want [ctx1 ctx2]", got.ContextsUsed)
		}
	})

	t.Run("零断言的空洞通过", func(t *testing.T) {
		q := evaluate.Question{ID: "q1", Text: "anything", Answer: "Yes."}
		contexts := []evaluate.ResolvedContext{linkedContext("ctx1", "some context")}

		got := newFaithfulnessEvaluator().Evaluate(q, contexts)

		if !floatEq(got.FaithfulnessScore, 1.0) {
			t.Errorf("FaithfulnessScore = %v, want 1.0", got.FaithfulnessScore)
		}
		if !floatEq(got.GroundednessScore, 1.0) {
			t.Errorf("GroundednessScore = %v, want 1.0", got.GroundednessScore)
		}
		if len(got.Claims) != 0 {
			t.Errorf("Claims = %v, want empty", got.Claims)
		}
	})

	t.Run("超长断言截断", func(t *testing.T) {
		longClaim := strings.TrimSpace(strings.Repeat("zebra ", 20))
		q := evaluate.Question{ID: "q1", Text: "anything", Answer: longClaim + "."}
		contexts := []evaluate.ResolvedContext{linkedContext("ctx1", "unrelated context body")}

		got := newFaithfulnessEvaluator().Evaluate(q, contexts)

		if len(got.Claims) != 1 {
			t.Fatalf("len(Claims) = %d, want 1", len(got.Claims))
		}
		claim := got.Claims[0].Claim
		if !strings.HasSuffix(claim, "...") {
			t.Errorf("claim detail %q must end with ellipsis", claim)
		}
		if n := len([]rune(strings.TrimSuffix(claim, "..."))); n != 100 {
			t.Errorf("claim detail truncated to %d runes, want 100", n)
		}

		if len(got.UnsupportedClaims) != 1 {
			t.Fatalf("len(UnsupportedClaims) = %d, want 1", len(got.UnsupportedClaims))
		}
		unsupported := got.UnsupportedClaims[0]
		if strings.HasSuffix(unsupported, "...") {
			t.Errorf("unsupported entry %q must not carry an ellipsis", unsupported)
		}
		if n := len([]rune(unsupported)); n != 100 {
			t.Errorf("unsupported entry truncated to %d runes, want 100", n)
		}
	})
}
