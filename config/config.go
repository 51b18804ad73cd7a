// Package config 提供 rageval 的评估运行配置加载能力
//
// EvalConfig 支持从 YAML 文件加载一次评估运行的全部参数：数据集路径、
// 截断位置 K、输出格式、阈值与目标值等。
//
// 特性：
//   - 支持环境变量展开：${VAR} 或 $VAR（路径字段）
//   - 配置验证：自动验证取值范围
//
// 使用示例：
//
//	cfg, err := config.Load("./eval.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := evaluate.NewEngine(cfg.Options()...)
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/everyday-items/rageval/evaluate"
)

// EvalConfig 一次评估运行的配置
type EvalConfig struct {
	// Questions 问题集文件路径
	Questions string `yaml:"questions" json:"questions"`

	// Contexts 上下文集文件路径
	Contexts string `yaml:"contexts" json:"contexts"`

	// K 每个问题评估的上下文条数
	K int `yaml:"k" json:"k"`

	// Format 报告格式: json, markdown, console
	Format string `yaml:"format" json:"format"`

	// Output 报告输出路径；为空时写到标准输出
	Output string `yaml:"output" json:"output"`

	// Verbose 是否在报告中保留逐问题明细
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Concurrency 并发评估的 worker 数；0 表示使用 CPU 核心数
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// Thresholds 判定阈值
	Thresholds ThresholdConfig `yaml:"thresholds" json:"thresholds"`

	// Weights 得分混合权重
	Weights WeightConfig `yaml:"weights" json:"weights"`

	// Targets 建议生成的目标值
	Targets TargetConfig `yaml:"targets" json:"targets"`
}

// ThresholdConfig 判定阈值配置
type ThresholdConfig struct {
	// Support 断言判定为被支持的得分阈值
	Support float64 `yaml:"support" json:"support"`

	// Attribution 单个上下文计入归因的得分阈值
	Attribution float64 `yaml:"attribution" json:"attribution"`
}

// WeightConfig 得分混合权重配置
type WeightConfig struct {
	// TermCoverage / TokenOverlap 相关性得分的两个权重
	TermCoverage float64 `yaml:"term_coverage" json:"term_coverage"`
	TokenOverlap float64 `yaml:"token_overlap" json:"token_overlap"`

	// SupportRatio / SupportRouge 支持度得分的两个权重
	SupportRatio float64 `yaml:"support_ratio" json:"support_ratio"`
	SupportRouge float64 `yaml:"support_rouge" json:"support_rouge"`
}

// TargetConfig 指标目标值配置
type TargetConfig struct {
	Relevance    float64 `yaml:"relevance" json:"relevance"`
	Faithfulness float64 `yaml:"faithfulness" json:"faithfulness"`
	Groundedness float64 `yaml:"groundedness" json:"groundedness"`
	Coverage     float64 `yaml:"coverage" json:"coverage"`
	PrecisionAtK float64 `yaml:"precision_at_k" json:"precision_at_k"`
}

// Default 返回默认配置
func Default() *EvalConfig {
	p := evaluate.DefaultParams()
	return &EvalConfig{
		K:           p.TopK,
		Format:      evaluate.FormatConsole.String(),
		Concurrency: p.Concurrency,
		Thresholds: ThresholdConfig{
			Support:     p.SupportThreshold,
			Attribution: p.AttributionThreshold,
		},
		Weights: WeightConfig{
			TermCoverage: p.TermCoverageWeight,
			TokenOverlap: p.TokenOverlapWeight,
			SupportRatio: p.SupportRatioWeight,
			SupportRouge: p.SupportRougeWeight,
		},
		Targets: TargetConfig{
			Relevance:    p.Targets.Relevance,
			Faithfulness: p.Targets.Faithfulness,
			Groundedness: p.Targets.Groundedness,
			Coverage:     p.Targets.Coverage,
			PrecisionAtK: p.Targets.PrecisionAtK,
		},
	}
}

// Load 从 YAML 文件加载配置
//
// 未出现在文件中的字段保持默认值；路径字段展开环境变量。
func Load(path string) (*EvalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// 处理环境变量
	config.Questions = expandEnv(config.Questions)
	config.Contexts = expandEnv(config.Contexts)
	config.Output = expandEnv(config.Output)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// expandEnv 展开环境变量
// 支持 ${VAR} 和 $VAR 格式
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate 验证配置取值
func (c *EvalConfig) Validate() error {
	if c.K < 0 {
		return fmt.Errorf("k must be non-negative, got %d", c.K)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative, got %d", c.Concurrency)
	}
	if _, err := evaluate.ParseFormat(c.Format); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"thresholds.support":     c.Thresholds.Support,
		"thresholds.attribution": c.Thresholds.Attribution,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	return nil
}

// Options 将配置转换为引擎选项
func (c *EvalConfig) Options() []evaluate.Option {
	return []evaluate.Option{
		evaluate.WithTopK(c.K),
		evaluate.WithSupportThreshold(c.Thresholds.Support),
		evaluate.WithAttributionThreshold(c.Thresholds.Attribution),
		evaluate.WithRelevanceWeights(c.Weights.TermCoverage, c.Weights.TokenOverlap),
		evaluate.WithSupportWeights(c.Weights.SupportRatio, c.Weights.SupportRouge),
		evaluate.WithTargets(evaluate.Targets{
			Relevance:    c.Targets.Relevance,
			Faithfulness: c.Targets.Faithfulness,
			Groundedness: c.Targets.Groundedness,
			Coverage:     c.Targets.Coverage,
			PrecisionAtK: c.Targets.PrecisionAtK,
		}),
		evaluate.WithVerbose(c.Verbose),
		evaluate.WithConcurrency(c.Concurrency),
	}
}
