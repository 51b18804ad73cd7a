package evaluate

import (
	"strings"
	"unicode/utf8"

	"github.com/everyday-items/rageval/lexical"
)

// ExtractClaims 将回答文本切分为原子断言
//
// 以句末符号（. ! ?）切句，去除首尾空白，丢弃不超过最小长度的碎片，
// 保留原始顺序。这是一个启发式切句器：对断言级的忠实度审计足够，
// 不是完整的句法分析。
func ExtractClaims(answer string, minLength int) []string {
	parts := strings.FieldsFunc(answer, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	claims := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) > minLength {
			claims = append(claims, part)
		}
	}
	return claims
}

// ClaimSupportChecker 评估单条断言在某个上下文体中的支持度
type ClaimSupportChecker struct {
	params Params
	cache  *lexical.Cache
}

// NewClaimSupportChecker 创建断言支持度检查器
func NewClaimSupportChecker(params Params, cache *lexical.Cache) *ClaimSupportChecker {
	if cache == nil {
		cache = lexical.NewCache()
	}
	return &ClaimSupportChecker{params: params, cache: cache}
}

// Check 返回断言是否被支持及未舍入的支持度得分
//
// 断言分词后为空时视为"空洞支持"：不存在可核验的断言，得分 1.0。
// 否则得分 = ratioWeight·词汇覆盖率 + rougeWeight·ROUGE-L(上下文, 断言)，
// 支持判定为 得分 > SupportThreshold。
func (c *ClaimSupportChecker) Check(claim, contextText string) (supported bool, score float64) {
	claimTokens := c.cache.Tokens(claim)
	if len(claimTokens) == 0 {
		return true, 1.0
	}

	contextSet := c.cache.TokenSet(contextText)
	overlap := 0
	seen := make(map[string]bool, len(claimTokens))
	for _, tok := range claimTokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if contextSet[tok] {
			overlap++
		}
	}
	supportRatio := float64(overlap) / float64(len(seen))

	rouge := lexical.RougeL(c.cache.Tokens(contextText), claimTokens)

	score = c.params.SupportRatioWeight*supportRatio + c.params.SupportRougeWeight*rouge
	return score > c.params.SupportThreshold, score
}

// truncateRunes 截断文本到 maxLen 个 rune
//
// withEllipsis 控制是否附加省略号。
func truncateRunes(s string, maxLen int, withEllipsis bool) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if withEllipsis {
		return string(runes[:maxLen]) + "..."
	}
	return string(runes[:maxLen])
}
