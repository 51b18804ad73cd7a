package evaluate

// 默认参数
//
// 支持度阈值与两组混合权重是来自原型阶段的经验常数，尚未在标注的
// 忠实度基准上校准，因此全部作为具名可覆盖配置暴露，而不是写死的字面量。
const (
	// DefaultTopK 每个问题默认评估的上下文条数
	DefaultTopK = 5

	// DefaultQuestionKeyTerms 问题侧提取的关键词上限
	DefaultQuestionKeyTerms = 15

	// DefaultContextKeyTerms 上下文侧提取的关键词上限
	DefaultContextKeyTerms = 30

	// DefaultTermCoverageWeight 相关性得分中关键词覆盖率的权重
	// 偏向精确词汇覆盖：缺失问题的具体名词比措辞漂移是更强的相关性失败信号
	DefaultTermCoverageWeight = 0.6

	// DefaultTokenOverlapWeight 相关性得分中 Jaccard 重叠的权重
	DefaultTokenOverlapWeight = 0.4

	// DefaultSupportRatioWeight 支持度得分中词汇覆盖率的权重
	DefaultSupportRatioWeight = 0.5

	// DefaultSupportRougeWeight 支持度得分中 ROUGE-L 的权重
	// 双信号设计：纯关键词会把换述误判为不支持，纯 ROUGE 会把偶然重叠误判为支持
	DefaultSupportRougeWeight = 0.5

	// DefaultSupportThreshold 断言判定为"被支持"的得分阈值
	DefaultSupportThreshold = 0.3

	// DefaultAttributionThreshold 单个上下文计入归因的得分阈值
	DefaultAttributionThreshold = 0.3

	// DefaultMinClaimLength 断言的最小字符数，更短的片段被丢弃
	DefaultMinClaimLength = 10

	// DefaultLowRelevanceThreshold 触发 low_relevance 议题的相关性阈值
	DefaultLowRelevanceThreshold = 0.5

	// DefaultMaxIssues 报告中议题总数上限
	DefaultMaxIssues = 20

	// DefaultMaxClaimsPerIssue 单条议题记录的未支持断言上限
	DefaultMaxClaimsPerIssue = 3
)

// Targets 建议生成使用的指标目标值
type Targets struct {
	// Relevance 上下文相关性目标
	Relevance float64 `json:"relevance"`

	// Faithfulness 回答忠实度目标
	Faithfulness float64 `json:"faithfulness"`

	// Groundedness 回答支撑度目标
	Groundedness float64 `json:"groundedness"`

	// Coverage 上下文覆盖率目标
	Coverage float64 `json:"coverage"`

	// PrecisionAtK 检索精度目标
	PrecisionAtK float64 `json:"precision_at_k"`
}

// DefaultTargets 默认目标值
func DefaultTargets() Targets {
	return Targets{
		Relevance:    0.80,
		Faithfulness: 0.95,
		Groundedness: 0.85,
		Coverage:     0.90,
		PrecisionAtK: 0.70,
	}
}

// Params 评估引擎的全部可调参数
type Params struct {
	// TopK 每个问题评估的上下文条数；池化回退也取池中前 TopK 条
	TopK int

	// QuestionKeyTerms 问题侧关键词上限
	QuestionKeyTerms int

	// ContextKeyTerms 上下文侧关键词上限
	ContextKeyTerms int

	// TermCoverageWeight / TokenOverlapWeight 相关性得分的混合权重
	TermCoverageWeight float64
	TokenOverlapWeight float64

	// SupportRatioWeight / SupportRougeWeight 支持度得分的混合权重
	SupportRatioWeight float64
	SupportRougeWeight float64

	// SupportThreshold 断言支持判定阈值
	SupportThreshold float64

	// AttributionThreshold 上下文归因阈值
	AttributionThreshold float64

	// MinClaimLength 断言最小字符数
	MinClaimLength int

	// LowRelevanceThreshold low_relevance 议题阈值
	LowRelevanceThreshold float64

	// MaxIssues 议题总数上限
	MaxIssues int

	// MaxClaimsPerIssue 单条议题记录的断言上限
	MaxClaimsPerIssue int

	// Targets 建议生成的目标值
	Targets Targets

	// Verbose 是否在报告中保留逐问题明细
	Verbose bool

	// Concurrency 并发评估的 worker 数；0 表示使用 CPU 核心数。
	// 结果与串行执行完全一致：合并始终按原始问题顺序进行。
	Concurrency int
}

// DefaultParams 默认参数
func DefaultParams() Params {
	return Params{
		TopK:                  DefaultTopK,
		QuestionKeyTerms:      DefaultQuestionKeyTerms,
		ContextKeyTerms:       DefaultContextKeyTerms,
		TermCoverageWeight:    DefaultTermCoverageWeight,
		TokenOverlapWeight:    DefaultTokenOverlapWeight,
		SupportRatioWeight:    DefaultSupportRatioWeight,
		SupportRougeWeight:    DefaultSupportRougeWeight,
		SupportThreshold:      DefaultSupportThreshold,
		AttributionThreshold:  DefaultAttributionThreshold,
		MinClaimLength:        DefaultMinClaimLength,
		LowRelevanceThreshold: DefaultLowRelevanceThreshold,
		MaxIssues:             DefaultMaxIssues,
		MaxClaimsPerIssue:     DefaultMaxClaimsPerIssue,
		Targets:               DefaultTargets(),
	}
}

// Option 引擎参数选项
type Option func(*Params)

// WithTopK 设置每个问题评估的上下文条数
func WithTopK(k int) Option {
	return func(p *Params) {
		p.TopK = k
	}
}

// WithSupportThreshold 设置断言支持判定阈值
func WithSupportThreshold(threshold float64) Option {
	return func(p *Params) {
		p.SupportThreshold = threshold
	}
}

// WithAttributionThreshold 设置上下文归因阈值
func WithAttributionThreshold(threshold float64) Option {
	return func(p *Params) {
		p.AttributionThreshold = threshold
	}
}

// WithRelevanceWeights 设置相关性得分的混合权重
func WithRelevanceWeights(termCoverage, tokenOverlap float64) Option {
	return func(p *Params) {
		p.TermCoverageWeight = termCoverage
		p.TokenOverlapWeight = tokenOverlap
	}
}

// WithSupportWeights 设置支持度得分的混合权重
func WithSupportWeights(ratio, rouge float64) Option {
	return func(p *Params) {
		p.SupportRatioWeight = ratio
		p.SupportRougeWeight = rouge
	}
}

// WithTargets 设置建议生成的目标值
func WithTargets(targets Targets) Option {
	return func(p *Params) {
		p.Targets = targets
	}
}

// WithVerbose 设置是否保留逐问题明细
func WithVerbose(verbose bool) Option {
	return func(p *Params) {
		p.Verbose = verbose
	}
}

// WithConcurrency 设置并发 worker 数
func WithConcurrency(n int) Option {
	return func(p *Params) {
		p.Concurrency = n
	}
}
