// Package dataset 提供评估数据集的读取与归一化
//
// 数据集是两个 JSON 数组文件：问题集与上下文集。字段名允许若干常见别名
// （question/query、answer/response、ground_truth/expected、content/text、
// question_id/query_id），读取阶段统一归一化为 evaluate 包的规范结构，
// 评估引擎因此只面对单一形态的输入。
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/everyday-items/rageval/evaluate"
)

// ErrParse 数据集文件解析失败
var ErrParse = errors.New("dataset parse error")

// LoadQuestions 从文件读取并归一化问题集
func LoadQuestions(path string) ([]evaluate.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	questions, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}

// LoadContexts 从文件读取并归一化上下文集
func LoadContexts(path string) ([]evaluate.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contexts file: %w", err)
	}
	contexts, err := ParseContexts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return contexts, nil
}

// ParseQuestions 解析并归一化问题集 JSON
//
// 缺失 id 的记录按下标补为 "0"、"1" 等，保证引擎校验可过且报告可引用。
func ParseQuestions(data []byte) ([]evaluate.Question, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: questions must be a JSON array: %v", ErrParse, err)
	}

	questions := make([]evaluate.Question, 0, len(raw))
	for i, record := range raw {
		q := evaluate.Question{
			ID:          stringField(record, "id"),
			Text:        stringField(record, "question", "query"),
			Answer:      stringField(record, "answer", "response"),
			GroundTruth: stringField(record, "ground_truth", "expected"),
		}
		if q.ID == "" {
			q.ID = strconv.Itoa(i)
		}
		ids, err := stringListField(record, "relevant_context_ids")
		if err != nil {
			return nil, fmt.Errorf("%w: question %q: %v", ErrParse, q.ID, err)
		}
		q.RelevantContextIDs = ids
		questions = append(questions, q)
	}
	return questions, nil
}

// ParseContexts 解析并归一化上下文集 JSON
func ParseContexts(data []byte) ([]evaluate.Context, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: contexts must be a JSON array: %v", ErrParse, err)
	}

	contexts := make([]evaluate.Context, 0, len(raw))
	for _, record := range raw {
		contexts = append(contexts, evaluate.Context{
			ID:         stringField(record, "id"),
			Text:       stringField(record, "content", "text"),
			QuestionID: stringField(record, "question_id", "query_id"),
		})
	}
	return contexts, nil
}

// stringField 按别名顺序取第一个非空字符串字段
//
// 非字符串的值（数字 id 等）按 JSON 字面量转为字符串。
func stringField(record map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		if text := strings.TrimSpace(string(raw)); text != "" && text != "null" {
			return text
		}
	}
	return ""
}

// stringListField 取字符串数组字段，缺失返回 nil
func stringListField(record map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := record[key]
	if !ok {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("field %q must be a string array", key)
	}
	return list, nil
}
