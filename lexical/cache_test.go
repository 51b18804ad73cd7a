package lexical

import (
	"reflect"
	"sync"
	"testing"
)

func TestCacheTokens(t *testing.T) {
	t.Run("结果与直接分词一致", func(t *testing.T) {
		cache := NewCache()
		text := "Paris is the capital of France"

		got := cache.Tokens(text)
		want := Tokenize(text)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tokens() = %v, want %v", got, want)
		}
	})

	t.Run("重复请求命中缓存", func(t *testing.T) {
		cache := NewCache()
		text := "water boils at 100 degrees"

		first := cache.Tokens(text)
		second := cache.Tokens(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("cached result differs: %v vs %v", first, second)
		}
		if cache.Size() != 1 {
			t.Errorf("Size() = %d, want 1", cache.Size())
		}
	})

	t.Run("不同文本分别缓存", func(t *testing.T) {
		cache := NewCache()
		cache.Tokens("alpha document")
		cache.Tokens("beta document")
		if cache.Size() != 2 {
			t.Errorf("Size() = %d, want 2", cache.Size())
		}
	})
}

func TestCacheTokenSet(t *testing.T) {
	cache := NewCache()
	text := "paris capital paris"

	set := cache.TokenSet(text)
	if !set["paris"] || !set["capital"] {
		t.Errorf("TokenSet() = %v, missing expected tokens", set)
	}
	if len(set) != 2 {
		t.Errorf("TokenSet() size = %d, want 2", len(set))
	}
}

func TestCacheKeyTerms(t *testing.T) {
	cache := NewCache()
	text := "billing billing pipeline events"

	got := cache.KeyTerms(text, 2)
	want := []string{"billing", "pipeline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyTerms() = %v, want %v", got, want)
	}
}

// TestCacheConcurrent 并发请求同一文本必须得到一致结果
func TestCacheConcurrent(t *testing.T) {
	cache := NewCache()
	text := "the billing pipeline ingests usage events hourly"
	want := Tokenize(text)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := cache.Tokens(text)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent Tokens() = %v, want %v", got, want)
			}
			cache.TokenSet(text)
		}()
	}
	wg.Wait()

	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
}
