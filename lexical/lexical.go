// Package lexical 提供 RAG 评估所依赖的词法比较工具
//
// 上层的所有指标（上下文相关性、回答忠实度、检索排序指标的估算）都建立在
// 同一份分词实现之上：两段文本只有经过完全一致的归一化，重叠度量才有意义。
//
// 主要能力：
//   - Tokenize: 小写化 + 词符切分 + 停用词过滤
//   - KeyTerms: 基于词频的关键词签名
//   - Jaccard: 词集合的 Jaccard 重叠度
//   - RougeL: 基于最长公共子序列的 ROUGE-L F1
package lexical

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength 保留词符的最小长度（单位：rune）
const minTokenLength = 3

// stopwords 固定停用词表
//
// 表内容与阈值一经发布即不可变：历史报告的分数只有在同一词表下才可比。
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true, "can": true,
	"to": true, "of": true, "in": true, "for": true, "on": true,
	"with": true, "at": true, "by": true, "from": true, "as": true,
	"into": true, "through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "up": true, "down": true, "out": true,
	"off": true, "over": true, "under": true, "again": true, "further": true,
	"then": true, "once": true, "here": true, "there": true, "when": true,
	"where": true, "why": true, "how": true, "all": true, "each": true,
	"few": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "nor": true, "not": true, "only": true,
	"own": true, "same": true, "so": true, "than": true, "too": true,
	"very": true, "just": true, "and": true, "but": true, "if": true,
	"or": true, "because": true, "until": true, "while": true, "it": true,
	"this": true, "that": true, "these": true, "those": true, "i": true,
	"you": true, "he": true, "she": true, "we": true, "they": true,
}

// Tokenize 将文本归一化为过滤后的词符序列
//
// 处理流程：小写化 -> 提取连续的字母/数字/下划线片段 -> 去除停用词 ->
// 去除长度不足 3 的词符。结果是确定性的，同一文本任何时候都得到同一序列。
func Tokenize(text string) []string {
	text = strings.ToLower(text)

	estimated := len(text) / 5
	if estimated == 0 {
		estimated = 1
	}
	tokens := make([]string, 0, estimated)

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if stopwords[tok] {
			return
		}
		if utf8.RuneCountInString(tok) < minTokenLength {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// TokenSet 将词符序列转为集合
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

// KeyTerms 返回出现频率最高的 n 个去重词符，频率相同时按首次出现顺序排列
//
// 作为文本的轻量主题签名使用。这里刻意不做语料级 TF-IDF：
// 比较永远发生在单个问题与单个文档之间，没有语料统计可用。
func KeyTerms(tokens []string, n int) []string {
	if n <= 0 || len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	distinct := make([]string, 0, len(tokens))

	for i, tok := range tokens {
		if _, ok := freq[tok]; !ok {
			firstSeen[tok] = i
			distinct = append(distinct, tok)
		}
		freq[tok]++
	}

	sort.SliceStable(distinct, func(a, b int) bool {
		if freq[distinct[a]] != freq[distinct[b]] {
			return freq[distinct[a]] > freq[distinct[b]]
		}
		return firstSeen[distinct[a]] < firstSeen[distinct[b]]
	})

	if n > len(distinct) {
		n = len(distinct)
	}
	return distinct[:n]
}

// Jaccard 计算两个词符序列的 Jaccard 重叠度
//
// 对称；任一侧为空时返回 0。
func Jaccard(a, b []string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// RougeL 计算参考序列与候选序列之间的 ROUGE-L F1
//
// precision = LCS/len(candidate)，recall = LCS/len(reference)，
// 返回二者的调和平均；任一序列为空或 precision+recall 为 0 时返回 0。
func RougeL(reference, candidate []string) float64 {
	m, n := len(reference), len(candidate)
	if m == 0 || n == 0 {
		return 0.0
	}

	lcs := longestCommonSubsequence(reference, candidate)

	precision := float64(lcs) / float64(n)
	recall := float64(lcs) / float64(m)

	if precision+recall == 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}

// longestCommonSubsequence 计算最长公共子序列长度
//
// 滚动数组实现，空间复杂度 O(min(m,n))。
func longestCommonSubsequence(seq1, seq2 []string) int {
	m, n := len(seq1), len(seq2)
	if m == 0 || n == 0 {
		return 0
	}

	// 确保 n 是较小的维度
	if m < n {
		seq1, seq2 = seq2, seq1
		m, n = n, m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if seq1[i-1] == seq2[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
