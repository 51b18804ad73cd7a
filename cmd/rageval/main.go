// Package main 提供 rageval 的命令行入口
//
// 基本用法：
//
//	rageval run --questions questions.json --contexts contexts.json
//	rageval run --config eval.yaml --format markdown --output report.md
//	rageval compare baseline.json current.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/everyday-items/rageval"
	"github.com/everyday-items/rageval/config"
	"github.com/everyday-items/rageval/dataset"
	"github.com/everyday-items/rageval/evaluate"
)

func main() {
	root := &cobra.Command{
		Use:           "rageval",
		Short:         "Quantitative evaluation for RAG pipelines",
		Long:          "rageval scores retrieved contexts and generated answers against a question set\nand produces a deterministic evaluation report with issues and recommendations.",
		Version:       rageval.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newCompareCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRunCmd 构建 run 子命令：评估数据集并输出报告
func newRunCmd() *cobra.Command {
	var (
		configPath    string
		questionsPath string
		contextsPath  string
		k             int
		format        string
		output        string
		verbose       bool
		concurrency   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a question/context dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// 命令行参数覆盖配置文件
			if cmd.Flags().Changed("questions") {
				cfg.Questions = questionsPath
			}
			if cmd.Flags().Changed("contexts") {
				cfg.Contexts = contextsPath
			}
			if cmd.Flags().Changed("k") {
				cfg.K = k
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}

			if cfg.Questions == "" {
				return fmt.Errorf("questions file is required (--questions or config)")
			}
			if cfg.Contexts == "" {
				return fmt.Errorf("contexts file is required (--contexts or config)")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			questions, err := dataset.LoadQuestions(cfg.Questions)
			if err != nil {
				return err
			}
			contexts, err := dataset.LoadContexts(cfg.Contexts)
			if err != nil {
				return err
			}

			engine := evaluate.NewEngine(cfg.Options()...)
			report, err := engine.Evaluate(cmd.Context(), questions, contexts)
			if err != nil {
				return err
			}

			reportFormat, err := evaluate.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			reporter, err := evaluate.NewReporter(reportFormat)
			if err != nil {
				return err
			}

			if cfg.Output == "" {
				return reporter.Generate(report, os.Stdout)
			}

			f, err := os.Create(cfg.Output)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()

			if err := reporter.Generate(report, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", cfg.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&questionsPath, "questions", "", "path to questions JSON file")
	cmd.Flags().StringVar(&contextsPath, "contexts", "", "path to contexts JSON file")
	cmd.Flags().IntVar(&k, "k", evaluate.DefaultTopK, "number of contexts evaluated per question")
	cmd.Flags().StringVar(&format, "format", "console", "report format: json, markdown, console")
	cmd.Flags().StringVar(&output, "output", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "include per-question details in the report")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "evaluation workers (0 = number of CPUs)")

	return cmd
}

// newCompareCmd 构建 compare 子命令：对比两份 JSON 报告的核心指标
func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline.json> <current.json>",
		Short: "Compare two JSON evaluation reports",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := loadReport(args[0])
			if err != nil {
				return err
			}
			current, err := loadReport(args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Baseline: %s (%d questions)\n", baseline.RunID, baseline.TotalQuestions)
			fmt.Fprintf(w, "Current:  %s (%d questions)\n\n", current.RunID, current.TotalQuestions)

			printDelta(w, "Context Relevance", baseline.AvgContextRelevance, current.AvgContextRelevance)
			printDelta(w, "Faithfulness", baseline.AvgFaithfulness, current.AvgFaithfulness)
			printDelta(w, "Groundedness", baseline.AvgGroundedness, current.AvgGroundedness)
			printDelta(w, "Coverage", baseline.Coverage, current.Coverage)
			printDelta(w, fmt.Sprintf("Precision@%d (est.)", current.Retrieval.K),
				baseline.Retrieval.PrecisionAtK, current.Retrieval.PrecisionAtK)
			if baseline.Retrieval.Labeled != nil && current.Retrieval.Labeled != nil {
				printDelta(w, "Precision (labeled)",
					baseline.Retrieval.Labeled.PrecisionAtK, current.Retrieval.Labeled.PrecisionAtK)
				printDelta(w, "Recall (labeled)",
					baseline.Retrieval.Labeled.RecallAtK, current.Retrieval.Labeled.RecallAtK)
				printDelta(w, "MRR (labeled)",
					baseline.Retrieval.Labeled.MRR, current.Retrieval.Labeled.MRR)
				printDelta(w, "NDCG (labeled)",
					baseline.Retrieval.Labeled.NDCGAtK, current.Retrieval.Labeled.NDCGAtK)
			}
			fmt.Fprintf(w, "\nIssues: %d -> %d\n", len(baseline.Issues), len(current.Issues))
			return nil
		},
	}
	return cmd
}

// loadReport 读取一份 JSON 格式的评估报告
func loadReport(path string) (*evaluate.EvaluationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report evaluate.EvaluationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}

// printDelta 打印单项指标的前后对比
func printDelta(w io.Writer, name string, before, after float64) {
	delta := after - before
	marker := " "
	switch {
	case delta > 0:
		marker = "+"
	case delta < 0:
		marker = "-"
	}
	fmt.Fprintf(w, "  %-22s %.3f -> %.3f  (%s%.3f)\n", name+":", before, after, marker, abs(delta))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
