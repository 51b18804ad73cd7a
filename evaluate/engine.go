package evaluate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/everyday-items/rageval/internal/pool"
	"github.com/everyday-items/rageval/internal/util"
	"github.com/everyday-items/rageval/lexical"
	"github.com/everyday-items/rageval/observe/logger"
)

// Engine 驱动整个数据集的评估并聚合为一份 EvaluationReport
//
// 每个问题的评估相互独立，可以并行执行；合并阶段始终按原始问题顺序
// 进行，保证同一输入与同一参数下报告内容完全可复现。
type Engine struct {
	params Params
	log    logger.Logger
}

// NewEngine 创建评估引擎
func NewEngine(opts ...Option) *Engine {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &Engine{
		params: p,
		log:    logger.Default(),
	}
}

// SetLogger 替换引擎使用的 Logger
func (e *Engine) SetLogger(l logger.Logger) {
	if l != nil {
		e.log = l
	}
}

// Params 返回引擎参数的副本
func (e *Engine) Params() Params {
	return e.params
}

// questionOutcome 单个问题的评估产物，仅在构建报告期间存活
type questionOutcome struct {
	questionID   string
	questionText string
	contextEvals []ContextEvaluation
	answer       *AnswerEvaluation
	labeled      *RetrievalMetrics
	hasContext   bool
	pooled       bool
}

// Evaluate 评估整个数据集
//
// 结构非法的输入返回 ErrInvalidDataset，不产出部分报告。
// 缺失字段按默认处理：无回答或无上下文的问题不是错误，其不可用的
// 指标被排除在数据集平均值之外，而不是按零计入。
func (e *Engine) Evaluate(ctx context.Context, questions []Question, contexts []Context) (*EvaluationReport, error) {
	if err := validateDataset(questions, contexts); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := util.RunID()
	log := e.log.With("run_id", runID)
	log.Info("evaluation started",
		"questions", len(questions),
		"contexts", len(contexts),
		"k", e.params.TopK)

	// 分词缓存以单次运行为作用域
	cache := lexical.NewCache()
	relevance := NewContextRelevanceEvaluator(e.params, cache)
	faithfulness := NewAnswerFaithfulnessEvaluator(e.params, cache)

	// 显式关联索引，保持输入顺序
	linked := make(map[string][]Context)
	for _, c := range contexts {
		if c.QuestionID != "" {
			linked[c.QuestionID] = append(linked[c.QuestionID], c)
		}
	}

	outcomes, err := pool.Map(ctx, questions, func(q Question) (questionOutcome, error) {
		log.Debug("evaluating question", "question_id", q.ID)
		return e.evaluateQuestion(q, linked, contexts, relevance, faithfulness), nil
	}, pool.WithMaxConcurrency(e.params.Concurrency))
	if err != nil {
		return nil, fmt.Errorf("evaluate questions: %w", err)
	}

	report := e.merge(questions, outcomes)
	report.RunID = runID
	report.StartTime = start
	report.Duration = time.Since(start)

	log.Info("evaluation finished",
		"duration", report.Duration,
		"coverage", report.Coverage,
		"issues", len(report.Issues))
	return report, nil
}

// evaluateQuestion 评估单个问题：解析上下文、相关性、忠实度、标注指标
func (e *Engine) evaluateQuestion(
	q Question,
	linked map[string][]Context,
	contextPool []Context,
	relevance *ContextRelevanceEvaluator,
	faithfulness *AnswerFaithfulnessEvaluator,
) questionOutcome {
	out := questionOutcome{
		questionID:   q.ID,
		questionText: truncateRunes(q.Text, claimTruncateLength, false),
	}

	var resolved []ResolvedContext
	if own := linked[q.ID]; len(own) > 0 {
		resolved = make([]ResolvedContext, 0, len(own))
		for _, c := range own {
			resolved = append(resolved, ResolvedContext{Context: c, Origin: OriginLinked})
		}
	} else {
		// 池化回退：未关联的简单数据集取池中前 K 条。
		// 低置信度模式，在产物上以 OriginPooled 显式标记。
		limit := e.params.TopK
		if limit > len(contextPool) {
			limit = len(contextPool)
		}
		resolved = make([]ResolvedContext, 0, limit)
		for _, c := range contextPool[:limit] {
			resolved = append(resolved, ResolvedContext{Context: c, Origin: OriginPooled})
		}
		out.pooled = len(resolved) > 0
	}

	// 无 id 的上下文按位置命名，保证报告内可引用
	for i := range resolved {
		if resolved[i].ID == "" {
			resolved[i].ID = fmt.Sprintf("ctx_%d", i)
		}
	}

	out.hasContext = len(resolved) > 0

	evalCount := len(resolved)
	if e.params.TopK > 0 && evalCount > e.params.TopK {
		evalCount = e.params.TopK
	}
	out.contextEvals = make([]ContextEvaluation, 0, evalCount)
	for _, rc := range resolved[:evalCount] {
		out.contextEvals = append(out.contextEvals, relevance.Evaluate(q.Text, rc.Text, rc.ID))
	}

	if q.Answer != "" && len(resolved) > 0 {
		ae := faithfulness.Evaluate(q, resolved)
		out.answer = &ae
	}

	// 标注模式：有相关性标注时计算真实的排序指标
	if len(q.RelevantContextIDs) > 0 && len(resolved) > 0 {
		ranked := make([]string, len(resolved))
		for i, rc := range resolved {
			ranked[i] = rc.ID
		}
		relevant := make(map[string]bool, len(q.RelevantContextIDs))
		for _, id := range q.RelevantContextIDs {
			relevant[id] = true
		}
		m := CalculateRetrievalMetrics(ranked, relevant, e.params.TopK)
		out.labeled = &m
	}

	return out
}

// merge 按原始问题顺序聚合所有评估产物
func (e *Engine) merge(questions []Question, outcomes []questionOutcome) *EvaluationReport {
	var (
		relevanceSum   float64
		relevanceCount int
		highRelevance  int
		faithSum       float64
		groundSum      float64
		answerCount    int
		withContext    int
		pooledUsed     bool
		labeledSum     RetrievalMetrics
		labeledCount   int
	)

	issues := make([]Issue, 0)
	var details []QuestionDetail

	for _, out := range outcomes {
		if out.hasContext {
			withContext++
		}
		if out.pooled {
			pooledUsed = true
		}

		for _, ce := range out.contextEvals {
			relevanceSum += ce.RelevanceScore
			relevanceCount++
			if ce.RelevanceScore > e.params.LowRelevanceThreshold {
				highRelevance++
			}
		}

		if out.answer != nil {
			faithSum += out.answer.FaithfulnessScore
			groundSum += out.answer.GroundednessScore
			answerCount++

			if len(out.answer.UnsupportedClaims) > 0 {
				claims := out.answer.UnsupportedClaims
				if len(claims) > e.params.MaxClaimsPerIssue {
					claims = claims[:e.params.MaxClaimsPerIssue]
				}
				issues = append(issues, Issue{
					Kind:       IssueUnsupportedClaim,
					QuestionID: out.questionID,
					Claims:     claims,
				})
			}
		}

		var lowIDs []string
		for _, ce := range out.contextEvals {
			if ce.RelevanceScore < e.params.LowRelevanceThreshold {
				lowIDs = append(lowIDs, ce.ContextID)
			}
		}
		if len(lowIDs) > 0 {
			issues = append(issues, Issue{
				Kind:       IssueLowRelevance,
				QuestionID: out.questionID,
				ContextIDs: lowIDs,
			})
		}

		if out.labeled != nil {
			labeledSum.PrecisionAtK += out.labeled.PrecisionAtK
			labeledSum.RecallAtK += out.labeled.RecallAtK
			labeledSum.MRR += out.labeled.MRR
			labeledSum.NDCGAtK += out.labeled.NDCGAtK
			labeledCount++
		}

		if e.params.Verbose {
			details = append(details, QuestionDetail{
				QuestionID:     out.questionID,
				Question:       out.questionText,
				ContextScores:  out.contextEvals,
				Answer:         out.answer,
				PooledFallback: out.pooled,
			})
		}
	}

	report := &EvaluationReport{
		TotalQuestions:     len(questions),
		PooledFallbackUsed: pooledUsed,
		QuestionDetails:    details,
	}

	if relevanceCount > 0 {
		report.AvgContextRelevance = round3(relevanceSum / float64(relevanceCount))
	}
	if answerCount > 0 {
		report.AvgFaithfulness = round3(faithSum / float64(answerCount))
		report.AvgGroundedness = round3(groundSum / float64(answerCount))
	}
	if len(questions) > 0 {
		report.Coverage = round3(float64(withContext) / float64(len(questions)))
	}

	// 无标注时的精度代理：相关性得分超过阈值的上下文比例。
	// 明确标记为估算值，不能替代标注的相关性评估。
	summary := RetrievalSummary{
		K:               e.params.TopK,
		Estimated:       true,
		EstimatedRecall: report.Coverage,
	}
	if relevanceCount > 0 {
		summary.PrecisionAtK = round3(float64(highRelevance) / float64(relevanceCount))
	}
	if labeledCount > 0 {
		n := float64(labeledCount)
		summary.Labeled = &RetrievalMetrics{
			PrecisionAtK: round3(labeledSum.PrecisionAtK / n),
			RecallAtK:    round3(labeledSum.RecallAtK / n),
			MRR:          round3(labeledSum.MRR / n),
			NDCGAtK:      round3(labeledSum.NDCGAtK / n),
			K:            e.params.TopK,
		}
		summary.LabeledQuestions = labeledCount
	}
	report.Retrieval = summary

	if len(issues) > e.params.MaxIssues {
		issues = issues[:e.params.MaxIssues]
	}
	report.Issues = issues

	report.Recommendations = e.recommendations(report, relevanceCount, answerCount)
	return report
}

// recommendations 基于固定阈值规则生成改进建议
//
// 某项指标没有任何样本时跳过对应规则，避免把"缺失"当成"零分"给出误导建议。
func (e *Engine) recommendations(r *EvaluationReport, relevanceSamples, answerSamples int) []string {
	t := e.params.Targets
	var recs []string

	if relevanceSamples > 0 && r.AvgContextRelevance < t.Relevance {
		recs = append(recs, fmt.Sprintf(
			"Context relevance (%.2f) is below target (%.2f). "+
				"Consider: improving chunking strategy, adding metadata filtering, or using hybrid search.",
			r.AvgContextRelevance, t.Relevance))
	}

	if answerSamples > 0 && r.AvgFaithfulness < t.Faithfulness {
		recs = append(recs, fmt.Sprintf(
			"Faithfulness (%.2f) is below target (%.2f). "+
				"Consider: adding source citations, implementing fact-checking, or adjusting temperature.",
			r.AvgFaithfulness, t.Faithfulness))
	}

	if answerSamples > 0 && r.AvgGroundedness < t.Groundedness {
		recs = append(recs, fmt.Sprintf(
			"Groundedness (%.2f) is below target (%.2f). "+
				"Consider: using more restrictive prompts, adding 'only use provided context' instructions.",
			r.AvgGroundedness, t.Groundedness))
	}

	if r.TotalQuestions > 0 && r.Coverage < t.Coverage {
		recs = append(recs, fmt.Sprintf(
			"Coverage (%.2f) indicates some questions lack relevant context. "+
				"Consider: expanding document corpus, improving embedding model, or adding fallback responses.",
			r.Coverage))
	}

	if relevanceSamples > 0 && r.Retrieval.PrecisionAtK < t.PrecisionAtK {
		recs = append(recs,
			"Retrieval precision is low. Consider: re-ranking retrieved documents, "+
				"using cross-encoder for reranking, or adjusting similarity threshold.")
	}

	if len(recs) == 0 {
		recs = append(recs, "All metrics meet targets. Consider A/B testing new improvements.")
	}

	return recs
}

// validateDataset 校验数据集的结构合法性
//
// 规则：问题 id 非空且唯一；上下文至少要有 id 或文本之一。
// 关联到未知问题 id 的上下文不是错误，它只是永远不会被解析到。
func validateDataset(questions []Question, contexts []Context) error {
	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return invalidDatasetError("question at index %d has an empty id", i)
		}
		if seen[q.ID] {
			return invalidDatasetError("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}

	for i, c := range contexts {
		if c.ID == "" && strings.TrimSpace(c.Text) == "" {
			return invalidDatasetError("context at index %d has neither id nor content", i)
		}
	}

	return nil
}
