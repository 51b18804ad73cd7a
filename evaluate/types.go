// Package evaluate 提供 RAG 流水线的量化评估引擎
//
// 引擎消费已经检索好的上下文与已经生成的回答，产出一份确定性的评估报告：
//   - ContextRelevanceEvaluator: (问题, 上下文) 的相关性评分
//   - AnswerFaithfulnessEvaluator: 断言级的忠实度与支撑度评分
//   - CalculateRetrievalMetrics: Precision@K / Recall@K / MRR / NDCG@K
//   - Engine: 驱动整个数据集的评估并聚合为 EvaluationReport
//
// 引擎本身不做检索、不做向量搜索、不调用任何生成模型；数据集的读取与
// 报告的落盘由 dataset 包和调用方负责。
//
// 使用示例：
//
//	engine := evaluate.NewEngine(evaluate.WithTopK(5))
//	report, err := engine.Evaluate(ctx, questions, contexts)
package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDataset 数据集结构非法
//
// 这是引擎唯一的硬失败：结构非法的输入直接中止，不产出部分报告。
var ErrInvalidDataset = errors.New("invalid dataset")

// Question 一条待评估的问题
type Question struct {
	// ID 问题标识，数据集内必须唯一
	ID string `json:"id"`

	// Text 问题文本
	Text string `json:"question"`

	// Answer 生成的回答（可选；缺失时跳过忠实度评估）
	Answer string `json:"answer,omitempty"`

	// GroundTruth 参考答案（可选）
	GroundTruth string `json:"ground_truth,omitempty"`

	// RelevantContextIDs 标注的相关上下文 id（可选）
	// 提供时按标注计算真实的检索排序指标
	RelevantContextIDs []string `json:"relevant_context_ids,omitempty"`
}

// Context 一段检索到的文本段落
type Context struct {
	// ID 上下文标识
	ID string `json:"id,omitempty"`

	// Text 文本内容
	Text string `json:"content"`

	// QuestionID 显式关联的问题 id；为空时进入池化回退候选
	QuestionID string `json:"question_id,omitempty"`
}

// ContextOrigin 上下文的解析来源
//
// 显式关联与池化回退是两种置信度完全不同的模式，必须在类型上区分，
// 不允许用"字段缺失"之类的隐式约定表达。
type ContextOrigin int

const (
	// OriginLinked 通过 QuestionID 显式关联
	OriginLinked ContextOrigin = iota

	// OriginPooled 未关联，按池化回退取自上下文池的前 K 条
	OriginPooled
)

// String 返回来源的稳定名称
func (o ContextOrigin) String() string {
	switch o {
	case OriginLinked:
		return "linked"
	case OriginPooled:
		return "pooled"
	default:
		return "unknown"
	}
}

// MarshalJSON 以稳定名称序列化
func (o ContextOrigin) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON 从稳定名称反序列化
func (o *ContextOrigin) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "linked":
		*o = OriginLinked
	case "pooled":
		*o = OriginPooled
	default:
		return fmt.Errorf("unknown context origin %q", name)
	}
	return nil
}

// ResolvedContext 解析后归属于某个问题的上下文
type ResolvedContext struct {
	Context

	// Origin 解析来源
	Origin ContextOrigin `json:"origin"`
}

// ContextEvaluation 单个 (问题, 上下文) 对的相关性评估
type ContextEvaluation struct {
	// ContextID 上下文标识
	ContextID string `json:"context_id"`

	// RelevanceScore 综合相关性得分 [0,1]
	RelevanceScore float64 `json:"relevance_score"`

	// TokenOverlap 全词集的 Jaccard 重叠度 [0,1]
	TokenOverlap float64 `json:"token_overlap"`

	// KeyTermsCovered 问题关键词中被上下文覆盖的部分（按问题关键词序）
	KeyTermsCovered []string `json:"key_terms_covered"`

	// MissingTerms 问题关键词中上下文缺失的部分（按问题关键词序）
	MissingTerms []string `json:"missing_terms"`
}

// ClaimEvaluation 单条断言的支持度评估
type ClaimEvaluation struct {
	// Claim 断言文本（超过 100 字符时截断）
	Claim string `json:"claim"`

	// Supported 是否被合并上下文支持
	Supported bool `json:"supported"`

	// Score 合并上下文下的支持度得分 [0,1]
	Score float64 `json:"score"`

	// ContextScores 各上下文的归因得分，仅记录超过归因阈值的条目
	ContextScores map[string]float64 `json:"context_scores,omitempty"`
}

// AnswerEvaluation 一条回答的忠实度评估
type AnswerEvaluation struct {
	// QuestionID 所属问题
	QuestionID string `json:"question_id"`

	// FaithfulnessScore 被支持断言的比例 [0,1]；零断言时为 1.0
	FaithfulnessScore float64 `json:"faithfulness_score"`

	// GroundednessScore 断言支持度的平均值 [0,1]；零断言时为 1.0
	GroundednessScore float64 `json:"groundedness_score"`

	// Claims 各断言的评估明细
	Claims []ClaimEvaluation `json:"claims"`

	// UnsupportedClaims 未被支持的断言文本（截断至 100 字符）
	UnsupportedClaims []string `json:"unsupported_claims"`

	// ContextsUsed 对任一断言有贡献的上下文 id，按首次贡献顺序排列
	ContextsUsed []string `json:"contexts_used"`
}

// RetrievalMetrics 排序检索质量指标
type RetrievalMetrics struct {
	PrecisionAtK float64 `json:"precision_at_k"`
	RecallAtK    float64 `json:"recall_at_k"`
	MRR          float64 `json:"mrr"`
	NDCGAtK      float64 `json:"ndcg_at_k"`
	K            int     `json:"k"`
}

// IssueKind 报告议题的闭合类型集合
type IssueKind int

const (
	// IssueLowRelevance 存在相关性低于阈值的上下文
	IssueLowRelevance IssueKind = iota

	// IssueUnsupportedClaim 回答中存在未被上下文支持的断言
	IssueUnsupportedClaim
)

// String 返回议题类型的稳定名称
func (k IssueKind) String() string {
	switch k {
	case IssueLowRelevance:
		return "low_relevance"
	case IssueUnsupportedClaim:
		return "unsupported_claim"
	default:
		return "unknown"
	}
}

// MarshalJSON 以稳定名称序列化
func (k IssueKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON 从稳定名称反序列化
func (k *IssueKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "low_relevance":
		*k = IssueLowRelevance
	case "unsupported_claim":
		*k = IssueUnsupportedClaim
	default:
		return fmt.Errorf("unknown issue kind %q", name)
	}
	return nil
}

// Issue 报告中的一条质量议题
type Issue struct {
	// Kind 议题类型
	Kind IssueKind `json:"type"`

	// QuestionID 涉及的问题
	QuestionID string `json:"question_id"`

	// ContextIDs 低相关性议题涉及的上下文 id
	ContextIDs []string `json:"contexts,omitempty"`

	// Claims 未支持断言议题涉及的断言文本（每个问题最多三条）
	Claims []string `json:"claims,omitempty"`
}

// RetrievalSummary 数据集级的检索指标汇总
type RetrievalSummary struct {
	// PrecisionAtK 由各上下文相关性得分估算的精度代理值
	PrecisionAtK float64 `json:"precision_at_k"`

	// EstimatedRecall 用覆盖率近似的召回估计
	EstimatedRecall float64 `json:"estimated_recall"`

	// K 截断位置
	K int `json:"k"`

	// Estimated 恒为 true：无标注时这是估算代理，不能替代标注评估
	Estimated bool `json:"estimated"`

	// Labeled 标注模式下各问题真实检索指标的平均值
	Labeled *RetrievalMetrics `json:"labeled,omitempty"`

	// LabeledQuestions 参与标注指标平均的问题数
	LabeledQuestions int `json:"labeled_questions,omitempty"`
}

// QuestionDetail 单个问题的评估明细（verbose 模式）
type QuestionDetail struct {
	// QuestionID 问题标识
	QuestionID string `json:"question_id"`

	// Question 问题文本（截断至 100 字符）
	Question string `json:"question"`

	// ContextScores 各上下文的相关性评估
	ContextScores []ContextEvaluation `json:"context_scores"`

	// Answer 回答的忠实度评估；无回答或无上下文时为空
	Answer *AnswerEvaluation `json:"answer_evaluation,omitempty"`

	// PooledFallback 本问题的上下文是否来自池化回退
	PooledFallback bool `json:"pooled_fallback,omitempty"`
}

// EvaluationReport 完整的数据集评估报告
//
// 报告一经构建即不可变；两次运行之间不共享任何可变状态。
type EvaluationReport struct {
	// RunID 本次运行的唯一标识
	RunID string `json:"run_id"`

	// TotalQuestions 评估的问题总数
	TotalQuestions int `json:"total_questions"`

	// AvgContextRelevance 所有 (问题, 上下文) 相关性得分的平均值
	AvgContextRelevance float64 `json:"avg_context_relevance"`

	// AvgFaithfulness 有回答问题的忠实度平均值；缺失的问题不计入
	AvgFaithfulness float64 `json:"avg_faithfulness"`

	// AvgGroundedness 有回答问题的支撑度平均值；缺失的问题不计入
	AvgGroundedness float64 `json:"avg_groundedness"`

	// Retrieval 检索指标汇总
	Retrieval RetrievalSummary `json:"retrieval_metrics"`

	// Coverage 至少解析到一个上下文的问题比例
	Coverage float64 `json:"coverage"`

	// PooledFallbackUsed 是否有问题经由池化回退取得上下文
	PooledFallbackUsed bool `json:"pooled_fallback_used"`

	// Issues 质量议题列表，总数上限 20
	Issues []Issue `json:"issues"`

	// Recommendations 基于阈值规则生成的改进建议
	Recommendations []string `json:"recommendations"`

	// QuestionDetails 逐问题明细（verbose 模式）
	QuestionDetails []QuestionDetail `json:"question_details,omitempty"`

	// StartTime 评估开始时间
	StartTime time.Time `json:"start_time"`

	// Duration 评估耗时
	Duration time.Duration `json:"duration"`
}

// ToJSON 序列化为带缩进的 JSON
func (r *EvaluationReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Judge 外部评判器的扩展点
//
// 引擎本身只做词法评估，不调用任何模型；需要 LLM 复核时由调用方
// 注入实现（例如包一层 ai-core 的 llm.Provider）。
type Judge interface {
	// Judge 对给定提示返回评判文本
	Judge(ctx context.Context, prompt string) (string, error)
}

// JudgeFunc 函数式 Judge
type JudgeFunc func(ctx context.Context, prompt string) (string, error)

// Judge 实现 Judge 接口
func (f JudgeFunc) Judge(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// invalidDatasetError 构造带实体定位的数据集校验错误
func invalidDatasetError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDataset, fmt.Sprintf(format, args...))
}
