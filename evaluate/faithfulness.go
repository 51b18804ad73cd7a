package evaluate

import (
	"strings"

	"github.com/everyday-items/rageval/lexical"
)

// claimTruncateLength 断言文本在结果中的最大长度
const claimTruncateLength = 100

// AnswerFaithfulnessEvaluator 评估一条回答对其上下文的忠实度
//
// 回答先被切分为原子断言，再分两路评估：
//   - 对合并后的上下文体逐条打分，驱动 faithfulness / groundedness
//   - 对每个单独上下文打分，驱动归因（得分超过阈值的上下文记为有贡献）
type AnswerFaithfulnessEvaluator struct {
	params  Params
	checker *ClaimSupportChecker
}

// NewAnswerFaithfulnessEvaluator 创建忠实度评估器
func NewAnswerFaithfulnessEvaluator(params Params, cache *lexical.Cache) *AnswerFaithfulnessEvaluator {
	if cache == nil {
		cache = lexical.NewCache()
	}
	return &AnswerFaithfulnessEvaluator{
		params:  params,
		checker: NewClaimSupportChecker(params, cache),
	}
}

// Evaluate 评估一条回答
//
// contexts 是该问题解析后的有序上下文列表。零断言的回答得到
// faithfulness = groundedness = 1.0：这是"没有断言任何不忠实内容"的
// 空洞通过，不代表回答质量完美。
func (e *AnswerFaithfulnessEvaluator) Evaluate(q Question, contexts []ResolvedContext) AnswerEvaluation {
	claims := ExtractClaims(q.Answer, e.params.MinClaimLength)

	texts := make([]string, len(contexts))
	for i, rc := range contexts {
		texts[i] = rc.Text
	}
	combined := strings.Join(texts, " ")

	result := AnswerEvaluation{
		QuestionID:        q.ID,
		Claims:            make([]ClaimEvaluation, 0, len(claims)),
		UnsupportedClaims: []string{},
		ContextsUsed:      []string{},
	}

	supported := 0
	scoreSum := 0.0
	usedSeen := make(map[string]bool, len(contexts))

	for _, claim := range claims {
		isSupported, score := e.checker.Check(claim, combined)

		claimEval := ClaimEvaluation{
			Claim:     truncateRunes(claim, claimTruncateLength, true),
			Supported: isSupported,
			Score:     round3(score),
		}

		// 逐上下文归因
		for _, rc := range contexts {
			_, ctxScore := e.checker.Check(claim, rc.Text)
			if ctxScore > e.params.AttributionThreshold {
				if claimEval.ContextScores == nil {
					claimEval.ContextScores = make(map[string]float64)
				}
				claimEval.ContextScores[rc.ID] = round3(ctxScore)
				if !usedSeen[rc.ID] {
					usedSeen[rc.ID] = true
					result.ContextsUsed = append(result.ContextsUsed, rc.ID)
				}
			}
		}

		result.Claims = append(result.Claims, claimEval)
		scoreSum += claimEval.Score

		if isSupported {
			supported++
		} else {
			result.UnsupportedClaims = append(result.UnsupportedClaims,
				truncateRunes(claim, claimTruncateLength, false))
		}
	}

	if len(claims) == 0 {
		result.FaithfulnessScore = 1.0
		result.GroundednessScore = 1.0
		return result
	}

	result.FaithfulnessScore = round3(float64(supported) / float64(len(claims)))
	result.GroundednessScore = round3(scoreSum / float64(len(result.Claims)))
	return result
}
