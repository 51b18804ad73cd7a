package evaluate

import (
	"math"

	"github.com/everyday-items/rageval/lexical"
)

// ContextRelevanceEvaluator 评估单个 (问题, 上下文) 对的相关性
//
// 得分由两个独立信号加权合成：
//   - 关键词覆盖率：问题关键词被上下文关键词覆盖的比例
//   - Jaccard 重叠：双方全词集的重叠度
//
// 纯函数式：相同输入永远得到相同的 ContextEvaluation，没有副作用。
type ContextRelevanceEvaluator struct {
	params Params
	cache  *lexical.Cache
}

// NewContextRelevanceEvaluator 创建相关性评估器
//
// cache 为 nil 时自建一个私有缓存。
func NewContextRelevanceEvaluator(params Params, cache *lexical.Cache) *ContextRelevanceEvaluator {
	if cache == nil {
		cache = lexical.NewCache()
	}
	return &ContextRelevanceEvaluator{params: params, cache: cache}
}

// Evaluate 为一对 (问题, 上下文) 打分
//
// covered 与 missing 按问题关键词的顺序排列，保证报告可复现。
func (e *ContextRelevanceEvaluator) Evaluate(question, contextText, contextID string) ContextEvaluation {
	questionTerms := e.cache.KeyTerms(question, e.params.QuestionKeyTerms)
	contextTermSet := lexical.TokenSet(e.cache.KeyTerms(contextText, e.params.ContextKeyTerms))

	covered := make([]string, 0, len(questionTerms))
	missing := make([]string, 0, len(questionTerms))
	for _, term := range questionTerms {
		if contextTermSet[term] {
			covered = append(covered, term)
		} else {
			missing = append(missing, term)
		}
	}

	termCoverage := 0.0
	if len(questionTerms) > 0 {
		termCoverage = float64(len(covered)) / float64(len(questionTerms))
	}

	tokenOverlap := lexical.Jaccard(e.cache.Tokens(question), e.cache.Tokens(contextText))

	relevance := e.params.TermCoverageWeight*termCoverage + e.params.TokenOverlapWeight*tokenOverlap

	return ContextEvaluation{
		ContextID:       contextID,
		RelevanceScore:  round3(relevance),
		TokenOverlap:    round3(tokenOverlap),
		KeyTermsCovered: covered,
		MissingTerms:    missing,
	}
}

// round3 四舍五入到三位小数
//
// 所有对外的比率得分统一在记录构建时完成舍入，聚合平均基于舍入后的值。
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
