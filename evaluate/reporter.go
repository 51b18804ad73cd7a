package evaluate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedFormat 未知的报告格式
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Format 报告输出格式的闭合集合
//
// 格式选择通过枚举与接口分发完成，不做字符串标签的行为分派。
type Format int

const (
	// FormatJSON 机器可读的 JSON
	FormatJSON Format = iota

	// FormatMarkdown Markdown 文档
	FormatMarkdown

	// FormatConsole 控制台文本
	FormatConsole
)

// String 返回格式的稳定名称
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat 将外部输入的格式名解析为 Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "console", "text":
		return FormatConsole, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Reporter 报告生成器接口
type Reporter interface {
	// Generate 生成报告
	Generate(report *EvaluationReport, w io.Writer) error

	// Format 返回报告格式
	Format() Format
}

// NewReporter 按格式创建报告生成器
func NewReporter(format Format) (Reporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(true), nil
	case FormatMarkdown:
		return NewMarkdownReporter(true), nil
	case FormatConsole:
		return NewConsoleReporter(false), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// ============== JSONReporter ==============

// JSONReporter JSON 格式报告生成器
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter 创建 JSON 报告生成器
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// Generate 生成 JSON 报告
func (r *JSONReporter) Generate(report *EvaluationReport, w io.Writer) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// Format 返回报告格式
func (r *JSONReporter) Format() Format {
	return FormatJSON
}

var _ Reporter = (*JSONReporter)(nil)

// ============== MarkdownReporter ==============

// MarkdownReporter Markdown 格式报告生成器
type MarkdownReporter struct {
	includeDetails bool
}

// NewMarkdownReporter 创建 Markdown 报告生成器
func NewMarkdownReporter(includeDetails bool) *MarkdownReporter {
	return &MarkdownReporter{includeDetails: includeDetails}
}

// Generate 生成 Markdown 报告
func (r *MarkdownReporter) Generate(report *EvaluationReport, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# RAG Evaluation Report\n\n")

	// 概要
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Run**: %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("- **Questions**: %d\n", report.TotalQuestions))
	sb.WriteString(fmt.Sprintf("- **Coverage**: %.1f%%\n", report.Coverage*100))
	if report.PooledFallbackUsed {
		sb.WriteString("- **Note**: some questions used pooled-fallback contexts (lower confidence)\n")
	}
	sb.WriteString("\n")

	// 指标表格
	targets := DefaultTargets()
	sb.WriteString("## Metrics\n\n")
	sb.WriteString("| Metric | Score | Target |\n")
	sb.WriteString("|--------|-------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Context Relevance | %.3f | %.2f |\n",
		report.AvgContextRelevance, targets.Relevance))
	sb.WriteString(fmt.Sprintf("| Faithfulness | %.3f | %.2f |\n",
		report.AvgFaithfulness, targets.Faithfulness))
	sb.WriteString(fmt.Sprintf("| Groundedness | %.3f | %.2f |\n",
		report.AvgGroundedness, targets.Groundedness))
	sb.WriteString(fmt.Sprintf("| Precision@%d (estimated) | %.3f | %.2f |\n",
		report.Retrieval.K, report.Retrieval.PrecisionAtK, targets.PrecisionAtK))
	if report.Retrieval.Labeled != nil {
		l := report.Retrieval.Labeled
		sb.WriteString(fmt.Sprintf("| Precision@%d (labeled, %d questions) | %.3f | - |\n",
			l.K, report.Retrieval.LabeledQuestions, l.PrecisionAtK))
		sb.WriteString(fmt.Sprintf("| Recall@%d (labeled) | %.3f | - |\n", l.K, l.RecallAtK))
		sb.WriteString(fmt.Sprintf("| MRR (labeled) | %.3f | - |\n", l.MRR))
		sb.WriteString(fmt.Sprintf("| NDCG@%d (labeled) | %.3f | - |\n", l.K, l.NDCGAtK))
	}
	sb.WriteString("\n")

	// 问题列表
	if len(report.Issues) > 0 {
		sb.WriteString(fmt.Sprintf("## Issues (%d)\n\n", len(report.Issues)))
		for _, issue := range report.Issues {
			switch issue.Kind {
			case IssueUnsupportedClaim:
				sb.WriteString(fmt.Sprintf("- `%s` [%s]: %d unsupported claim(s)\n",
					issue.QuestionID, issue.Kind, len(issue.Claims)))
			case IssueLowRelevance:
				sb.WriteString(fmt.Sprintf("- `%s` [%s]: contexts %s\n",
					issue.QuestionID, issue.Kind, strings.Join(issue.ContextIDs, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	// 建议
	sb.WriteString("## Recommendations\n\n")
	for i, rec := range report.Recommendations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}
	sb.WriteString("\n")

	// 详细结果
	if r.includeDetails && len(report.QuestionDetails) > 0 {
		sb.WriteString("## Question Details\n\n")
		for _, detail := range report.QuestionDetails {
			sb.WriteString(fmt.Sprintf("### %s\n\n", detail.QuestionID))
			sb.WriteString(fmt.Sprintf("**Question**: %s\n\n", detail.Question))
			if detail.PooledFallback {
				sb.WriteString("_Contexts resolved by pooled fallback._\n\n")
			}
			sb.WriteString("| Context | Relevance | Overlap | Missing Terms |\n")
			sb.WriteString("|---------|-----------|---------|---------------|\n")
			for _, ce := range detail.ContextScores {
				sb.WriteString(fmt.Sprintf("| %s | %.3f | %.3f | %s |\n",
					ce.ContextID, ce.RelevanceScore, ce.TokenOverlap,
					strings.Join(ce.MissingTerms, ", ")))
			}
			sb.WriteString("\n")
			if detail.Answer != nil {
				sb.WriteString(fmt.Sprintf("**Faithfulness**: %.3f, **Groundedness**: %.3f\n\n",
					detail.Answer.FaithfulnessScore, detail.Answer.GroundednessScore))
			}
			sb.WriteString("---\n\n")
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// Format 返回报告格式
func (r *MarkdownReporter) Format() Format {
	return FormatMarkdown
}

var _ Reporter = (*MarkdownReporter)(nil)

// ============== ConsoleReporter ==============

// ConsoleReporter 控制台格式报告生成器
type ConsoleReporter struct {
	colored bool
}

// NewConsoleReporter 创建控制台报告生成器
func NewConsoleReporter(colored bool) *ConsoleReporter {
	return &ConsoleReporter{colored: colored}
}

// Generate 生成控制台报告
func (r *ConsoleReporter) Generate(report *EvaluationReport, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(r.colorize("=== RAG EVALUATION REPORT ===\n", "bold"))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Run:        %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Questions:  %d\n", report.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Coverage:   %.1f%%\n", report.Coverage*100))
	if report.PooledFallbackUsed {
		sb.WriteString("Note:       pooled-fallback contexts in use (lower confidence)\n")
	}
	sb.WriteString("\n")

	targets := DefaultTargets()
	sb.WriteString(r.colorize("--- Retrieval ---\n", "bold"))
	sb.WriteString(fmt.Sprintf("  %-22s %s (target: >%.2f)\n", "Context Relevance:",
		r.colorize(fmt.Sprintf("%.2f", report.AvgContextRelevance),
			r.scoreColor(report.AvgContextRelevance)),
		targets.Relevance))
	sb.WriteString(fmt.Sprintf("  %-22s %.2f (estimated)\n",
		fmt.Sprintf("Precision@%d:", report.Retrieval.K), report.Retrieval.PrecisionAtK))
	if report.Retrieval.Labeled != nil {
		l := report.Retrieval.Labeled
		sb.WriteString(fmt.Sprintf("  %-22s P=%.2f R=%.2f MRR=%.2f NDCG=%.2f (%d labeled)\n",
			"Labeled metrics:", l.PrecisionAtK, l.RecallAtK, l.MRR, l.NDCGAtK,
			report.Retrieval.LabeledQuestions))
	}
	sb.WriteString("\n")

	sb.WriteString(r.colorize("--- Generation ---\n", "bold"))
	sb.WriteString(fmt.Sprintf("  %-22s %s (target: >%.2f)\n", "Faithfulness:",
		r.colorize(fmt.Sprintf("%.2f", report.AvgFaithfulness),
			r.scoreColor(report.AvgFaithfulness)),
		targets.Faithfulness))
	sb.WriteString(fmt.Sprintf("  %-22s %s (target: >%.2f)\n", "Groundedness:",
		r.colorize(fmt.Sprintf("%.2f", report.AvgGroundedness),
			r.scoreColor(report.AvgGroundedness)),
		targets.Groundedness))
	sb.WriteString("\n")

	if len(report.Issues) > 0 {
		sb.WriteString(r.colorize(fmt.Sprintf("--- Issues (%d) ---\n", len(report.Issues)), "bold"))
		for _, issue := range report.Issues {
			switch issue.Kind {
			case IssueUnsupportedClaim:
				sb.WriteString(fmt.Sprintf("  %s: %d unsupported claim(s)\n",
					issue.QuestionID, len(issue.Claims)))
			case IssueLowRelevance:
				sb.WriteString(fmt.Sprintf("  %s: low relevance contexts: %s\n",
					issue.QuestionID, strings.Join(issue.ContextIDs, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(r.colorize("--- Recommendations ---\n", "bold"))
	for i, rec := range report.Recommendations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
	}
	sb.WriteString("\n")
	sb.WriteString(r.colorize("=============================\n", "bold"))

	_, err := w.Write([]byte(sb.String()))
	return err
}

func (r *ConsoleReporter) colorize(text, color string) string {
	if !r.colored {
		return text
	}

	colors := map[string]string{
		"bold":   "\033[1m",
		"red":    "\033[31m",
		"green":  "\033[32m",
		"yellow": "\033[33m",
		"reset":  "\033[0m",
	}

	if code, ok := colors[color]; ok {
		return code + text + colors["reset"]
	}
	return text
}

func (r *ConsoleReporter) scoreColor(score float64) string {
	switch {
	case score >= 0.8:
		return "green"
	case score >= 0.6:
		return "yellow"
	default:
		return "red"
	}
}

// Format 返回报告格式
func (r *ConsoleReporter) Format() Format {
	return FormatConsole
}

var _ Reporter = (*ConsoleReporter)(nil)
