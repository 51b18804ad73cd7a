// Package util 提供 rageval 的内部工具函数
//
// 本包是内部实现，不对外暴露。所有 ID 生成都复用 toolkit 提供的实现。
package util

import (
	"fmt"

	"github.com/everyday-items/toolkit/util/idgen"
)

// GenerateID generates a unique ID with the given prefix.
// Format: {prefix}-{nanoid}
// Example: run-Uakgb_J5m9g
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, idgen.ShortID())
}

// RunID generates a unique evaluation run ID
func RunID() string {
	return GenerateID("run")
}

// ReportID generates a unique report ID
func ReportID() string {
	return GenerateID("report")
}
