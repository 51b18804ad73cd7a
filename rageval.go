// Package rageval 提供 RAG 流水线量化评估的顶层 API
//
// rageval 对已经检索好的上下文与已经生成的回答做确定性的离线评估：
//   - 检索侧：上下文相关性、Precision@K / Recall@K / MRR / NDCG@K
//   - 生成侧：断言级忠实度、支撑度与上下文归因
//   - 报告：议题定位与阈值驱动的改进建议
//
// 所有评分都是纯词法计算，不调用任何模型；同一输入与同一参数下
// 两次运行产出完全一致的报告。
//
// # 快速开始
//
// 最简单的使用方式：
//
//	report, _ := rageval.Evaluate(ctx, questions, contexts)
//	fmt.Println(report.AvgContextRelevance)
//
// 带参数的引擎：
//
//	engine := evaluate.NewEngine(
//	    evaluate.WithTopK(10),
//	    evaluate.WithVerbose(true),
//	)
//	report, _ := engine.Evaluate(ctx, questions, contexts)
package rageval

import (
	"context"

	"github.com/everyday-items/rageval/evaluate"
)

// Version information for rageval.
const (
	// Version is the current version of rageval.
	// Format: MAJOR.MINOR.PATCH[-PRERELEASE]
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// 重新导出常用类型，简化使用
type (
	// Question 一条待评估的问题
	Question = evaluate.Question

	// Context 一段检索到的文本段落
	Context = evaluate.Context

	// EvaluationReport 完整的数据集评估报告
	EvaluationReport = evaluate.EvaluationReport

	// Option 引擎参数选项
	Option = evaluate.Option
)

// 重新导出常用选项
var (
	// WithTopK 设置每个问题评估的上下文条数
	WithTopK = evaluate.WithTopK

	// WithVerbose 设置是否保留逐问题明细
	WithVerbose = evaluate.WithVerbose

	// WithConcurrency 设置并发 worker 数
	WithConcurrency = evaluate.WithConcurrency
)

// Evaluate 以默认参数评估一个数据集
//
// 等价于 evaluate.NewEngine(opts...).Evaluate(ctx, questions, contexts)。
func Evaluate(ctx context.Context, questions []Question, contexts []Context, opts ...Option) (*EvaluationReport, error) {
	return evaluate.NewEngine(opts...).Evaluate(ctx, questions, contexts)
}
