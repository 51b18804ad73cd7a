package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/everyday-items/rageval/config"
	"github.com/everyday-items/rageval/evaluate"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.K != evaluate.DefaultTopK {
		t.Errorf("K = %d, want %d", cfg.K, evaluate.DefaultTopK)
	}
	if cfg.Format != "console" {
		t.Errorf("Format = %q, want console", cfg.Format)
	}
	if cfg.Thresholds.Support != evaluate.DefaultSupportThreshold {
		t.Errorf("Thresholds.Support = %v, want %v",
			cfg.Thresholds.Support, evaluate.DefaultSupportThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("完整配置", func(t *testing.T) {
		path := filepath.Join(dir, "eval.yaml")
		content := `
questions: ./data/questions.json
contexts: ./data/contexts.json
k: 10
format: markdown
verbose: true
concurrency: 4
thresholds:
  support: 0.4
  attribution: 0.35
weights:
  term_coverage: 0.7
  token_overlap: 0.3
  support_ratio: 0.6
  support_rouge: 0.4
targets:
  relevance: 0.75
  faithfulness: 0.9
  groundedness: 0.8
  coverage: 0.85
  precision_at_k: 0.65
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.K != 10 {
			t.Errorf("K = %d, want 10", cfg.K)
		}
		if cfg.Format != "markdown" {
			t.Errorf("Format = %q, want markdown", cfg.Format)
		}
		if !cfg.Verbose {
			t.Error("Verbose = false, want true")
		}
		if cfg.Thresholds.Support != 0.4 {
			t.Errorf("Thresholds.Support = %v, want 0.4", cfg.Thresholds.Support)
		}
		if cfg.Weights.TermCoverage != 0.7 {
			t.Errorf("Weights.TermCoverage = %v, want 0.7", cfg.Weights.TermCoverage)
		}
		if cfg.Targets.Faithfulness != 0.9 {
			t.Errorf("Targets.Faithfulness = %v, want 0.9", cfg.Targets.Faithfulness)
		}
	})

	t.Run("部分配置保持默认", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		if err := os.WriteFile(path, []byte("k: 3\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.K != 3 {
			t.Errorf("K = %d, want 3", cfg.K)
		}
		if cfg.Format != "console" {
			t.Errorf("Format = %q, want default console", cfg.Format)
		}
		if cfg.Thresholds.Support != evaluate.DefaultSupportThreshold {
			t.Errorf("Thresholds.Support = %v, want default", cfg.Thresholds.Support)
		}
	})

	t.Run("环境变量展开", func(t *testing.T) {
		t.Setenv("EVAL_DATA_DIR", "/srv/eval")

		path := filepath.Join(dir, "env.yaml")
		content := "questions: ${EVAL_DATA_DIR}/questions.json\ncontexts: $EVAL_DATA_DIR/contexts.json\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Questions != "/srv/eval/questions.json" {
			t.Errorf("Questions = %q, want expanded path", cfg.Questions)
		}
		if cfg.Contexts != "/srv/eval/contexts.json" {
			t.Errorf("Contexts = %q, want expanded path", cfg.Contexts)
		}
	})

	t.Run("文件不存在", func(t *testing.T) {
		if _, err := config.Load(filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("Load() error = nil, want error")
		}
	})

	t.Run("非法 YAML", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("k: [unclosed"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := config.Load(path); err == nil {
			t.Error("Load() error = nil, want error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.EvalConfig)
	}{
		{"负的 K", func(c *config.EvalConfig) { c.K = -1 }},
		{"负的并发度", func(c *config.EvalConfig) { c.Concurrency = -2 }},
		{"未知格式", func(c *config.EvalConfig) { c.Format = "xml" }},
		{"支持阈值越界", func(c *config.EvalConfig) { c.Thresholds.Support = 1.5 }},
		{"归因阈值越界", func(c *config.EvalConfig) { c.Thresholds.Attribution = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

// TestOptions 配置转换为引擎选项后参数一致
func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.K = 7
	cfg.Verbose = true
	cfg.Thresholds.Support = 0.45
	cfg.Weights.TermCoverage = 0.8
	cfg.Weights.TokenOverlap = 0.2
	cfg.Targets.Relevance = 0.7

	engine := evaluate.NewEngine(cfg.Options()...)
	params := engine.Params()

	if params.TopK != 7 {
		t.Errorf("TopK = %d, want 7", params.TopK)
	}
	if !params.Verbose {
		t.Error("Verbose = false, want true")
	}
	if params.SupportThreshold != 0.45 {
		t.Errorf("SupportThreshold = %v, want 0.45", params.SupportThreshold)
	}
	if params.TermCoverageWeight != 0.8 {
		t.Errorf("TermCoverageWeight = %v, want 0.8", params.TermCoverageWeight)
	}
	if params.Targets.Relevance != 0.7 {
		t.Errorf("Targets.Relevance = %v, want 0.7", params.Targets.Relevance)
	}
}
