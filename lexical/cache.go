package lexical

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache 是一次评估运行内的分词缓存
//
// 同一段上下文文本会被每条断言反复比较，缓存避免重复分词。
// 缓存显式地以单次运行为作用域：引擎为每份报告新建一个 Cache，
// 绝不做进程级共享，以保持引擎纯函数式、可独立测试。
//
// 并发安全：多个 worker 同时请求同一文本时，singleflight
// 保证该文本只被分词一次。
type Cache struct {
	group singleflight.Group

	mu     sync.RWMutex
	tokens map[string][]string
	sets   map[string]map[string]bool
}

// NewCache 创建一个空的运行级缓存
func NewCache() *Cache {
	return &Cache{
		tokens: make(map[string][]string),
		sets:   make(map[string]map[string]bool),
	}
}

// Tokens 返回文本的词符序列，结果会被缓存
//
// 返回的切片是共享的，调用方不得修改。
func (c *Cache) Tokens(text string) []string {
	c.mu.RLock()
	toks, ok := c.tokens[text]
	c.mu.RUnlock()
	if ok {
		return toks
	}

	v, _, _ := c.group.Do("t\x00"+text, func() (any, error) {
		toks := Tokenize(text)
		c.mu.Lock()
		c.tokens[text] = toks
		c.mu.Unlock()
		return toks, nil
	})
	return v.([]string)
}

// TokenSet 返回文本的词符集合，结果会被缓存
//
// 返回的 map 是共享的，调用方不得修改。
func (c *Cache) TokenSet(text string) map[string]bool {
	c.mu.RLock()
	set, ok := c.sets[text]
	c.mu.RUnlock()
	if ok {
		return set
	}

	v, _, _ := c.group.Do("s\x00"+text, func() (any, error) {
		set := TokenSet(c.Tokens(text))
		c.mu.Lock()
		c.sets[text] = set
		c.mu.Unlock()
		return set, nil
	})
	return v.(map[string]bool)
}

// KeyTerms 返回文本的前 n 个关键词
//
// 关键词提取建立在缓存的词符序列之上，本身开销很小，不单独缓存。
func (c *Cache) KeyTerms(text string, n int) []string {
	return KeyTerms(c.Tokens(text), n)
}

// Size 返回已缓存的文本条数，仅用于测试与调试
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}
