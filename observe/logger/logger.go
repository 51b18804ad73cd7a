// Package logger 提供 rageval 的日志工具
//
// Logger 封装了 toolkit/util/logger，并添加了评估运行相关的上下文字段支持。
// 支持自动从 context 中提取 run_id, question_id 字段。
package logger

import (
	"context"
	"sync"

	tklogger "github.com/everyday-items/toolkit/util/logger"
)

// Logger 是 rageval 的日志接口
type Logger interface {
	// Debug 记录调试日志
	Debug(msg string, args ...any)

	// Info 记录信息日志
	Info(msg string, args ...any)

	// Warn 记录警告日志
	Warn(msg string, args ...any)

	// Error 记录错误日志
	Error(msg string, args ...any)

	// With 创建带有额外字段的子 Logger
	With(args ...any) Logger

	// WithContext 从 context 中提取运行信息创建子 Logger
	WithContext(ctx context.Context) Logger

	// SetLevel 动态设置日志级别
	SetLevel(level string)
}

// RunLogger 基于 toolkit logger 的评估运行日志实现
type RunLogger struct {
	inner *tklogger.Logger
}

// 确保实现了 Logger 接口
var _ Logger = (*RunLogger)(nil)

// Config 日志配置
type Config = tklogger.Config

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return tklogger.DefaultConfig()
}

// New 创建新的 RunLogger
func New(cfg *Config) (*RunLogger, error) {
	inner, err := tklogger.New(cfg)
	if err != nil {
		return nil, err
	}
	return &RunLogger{inner: inner}, nil
}

// NewWithLogger 从已有的 toolkit logger 创建 RunLogger
func NewWithLogger(l *tklogger.Logger) *RunLogger {
	return &RunLogger{inner: l}
}

// Debug 记录调试日志
func (l *RunLogger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, args...)
}

// Info 记录信息日志
func (l *RunLogger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

// Warn 记录警告日志
func (l *RunLogger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, args...)
}

// Error 记录错误日志
func (l *RunLogger) Error(msg string, args ...any) {
	l.inner.Error(msg, args...)
}

// With 创建带有额外字段的子 Logger
func (l *RunLogger) With(args ...any) Logger {
	return &RunLogger{inner: l.inner.With(args...)}
}

// WithContext 从 context 中提取运行信息创建子 Logger
func (l *RunLogger) WithContext(ctx context.Context) Logger {
	attrs := extractContextAttrs(ctx)
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// SetLevel 动态设置日志级别
func (l *RunLogger) SetLevel(level string) {
	l.inner.SetLevel(level)
}

// Inner 返回底层的 toolkit logger
func (l *RunLogger) Inner() *tklogger.Logger {
	return l.inner
}

// extractContextAttrs 从 context 中提取评估运行相关的属性
func extractContextAttrs(ctx context.Context) []any {
	var attrs []any

	if runID := RunIDFromContext(ctx); runID != "" {
		attrs = append(attrs, "run_id", runID)
	}

	if questionID := QuestionIDFromContext(ctx); questionID != "" {
		attrs = append(attrs, "question_id", questionID)
	}

	return attrs
}

// ============== Context keys ==============

type (
	runIDKey      struct{}
	questionIDKey struct{}
)

// ContextWithRunID 将运行 ID 添加到 context
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// ContextWithQuestionID 将问题 ID 添加到 context
func ContextWithQuestionID(ctx context.Context, questionID string) context.Context {
	return context.WithValue(ctx, questionIDKey{}, questionID)
}

// RunIDFromContext 从 context 中获取运行 ID
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// QuestionIDFromContext 从 context 中获取问题 ID
func QuestionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(questionIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ============== 全局默认 Logger ==============

var (
	defaultLogger     Logger
	defaultLoggerOnce sync.Once
)

// Default 返回默认 Logger
func Default() Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = &RunLogger{inner: tklogger.Default()}
	})
	return defaultLogger
}

// SetDefault 设置默认 Logger
func SetDefault(l Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLogger = l
}
