package catalog

import "testing"

func TestContentCache(t *testing.T) {
	var cache ContentCache

	calls := 0
	derive := func() string {
		calls++
		return "content"
	}

	if got := cache.Get(derive); got != "content" {
		t.Errorf("Get = %q, want content", got)
	}
	if got := cache.Get(derive); got != "content" {
		t.Errorf("Get = %q, want content", got)
	}
	if calls != 1 {
		t.Errorf("derive called %d times, want 1 (memoized)", calls)
	}

	cache.Reset()
	if got := cache.Get(derive); got != "content" {
		t.Errorf("Get after Reset = %q, want content", got)
	}
	if calls != 2 {
		t.Errorf("derive called %d times after Reset, want 2", calls)
	}
}

func TestContentCacheEmptyDerivation(t *testing.T) {
	var cache ContentCache

	calls := 0
	derive := func() string {
		calls++
		return ""
	}

	// An empty derivation is still cached.
	cache.Get(derive)
	cache.Get(derive)
	if calls != 1 {
		t.Errorf("derive called %d times, want 1", calls)
	}
}
