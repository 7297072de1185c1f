package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrComputeCachesHit(t *testing.T) {
	c := New()

	calls := 0
	producer := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrCompute("k", []string{TagPosts}, time.Minute, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "value" {
		t.Fatalf("got %v, want value", v)
	}

	v, err = c.GetOrCompute("k", []string{TagPosts}, time.Minute, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "value" {
		t.Fatalf("got %v, want value", v)
	}
	if calls != 1 {
		t.Fatalf("producer ran %d times, want 1", calls)
	}
}

func TestGetOrComputeExpires(t *testing.T) {
	c := New()

	calls := 0
	producer := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrCompute("k", nil, 10*time.Millisecond, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	v, err := c.GetOrCompute("k", nil, 10*time.Millisecond, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 2 {
		t.Fatalf("got %v, want recomputed value 2", v)
	}
	if calls != 2 {
		t.Fatalf("producer ran %d times, want 2", calls)
	}
}

func TestInvalidateTagBypassesTTL(t *testing.T) {
	c := New()

	calls := 0
	producer := func() (any, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrCompute("k", []string{TagPosts}, time.Hour, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.InvalidateTag(TagPosts)

	v, err := c.GetOrCompute("k", []string{TagPosts}, time.Hour, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 2 {
		t.Fatalf("stale value served after invalidation: got %v", v)
	}
}

func TestInvalidateTagLeavesOtherTags(t *testing.T) {
	c := New()

	if _, err := c.GetOrCompute("posts", []string{TagPosts}, time.Hour, func() (any, error) { return 1, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetOrCompute("cats", []string{TagCategories}, time.Hour, func() (any, error) { return 1, nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.InvalidateTag(TagPosts)

	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1 (categories entry survives)", c.Size())
	}
}

func TestDistinctFiltersDistinctEntries(t *testing.T) {
	c := New()

	produced := 0
	producer := func() (any, error) {
		produced++
		return produced, nil
	}

	k1 := PostListKey("markets", "", 1, 10)
	k2 := PostListKey("crypto", "", 1, 10)
	if k1 == k2 {
		t.Fatalf("keys for distinct categories collide: %s", k1)
	}

	if _, err := c.GetOrCompute(k1, []string{TagPosts}, time.Hour, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.GetOrCompute(k2, []string{TagPosts}, time.Hour, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}

	// One tag invalidation expires both listings.
	c.InvalidateTag(TagPosts)
	if c.Size() != 0 {
		t.Fatalf("size = %d after invalidation, want 0", c.Size())
	}
}

func TestProducerErrorNotCached(t *testing.T) {
	c := New()

	boom := errors.New("store unreachable")
	calls := 0

	_, err := c.GetOrCompute("k", []string{TagPosts}, time.Hour, func() (any, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	if c.Size() != 0 {
		t.Fatalf("poisoned entry stored after producer failure")
	}

	// Next request retries from scratch and can succeed.
	v, err := c.GetOrCompute("k", []string{TagPosts}, time.Hour, func() (any, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(string) != "ok" || calls != 2 {
		t.Fatalf("retry did not recompute: v=%v calls=%d", v, calls)
	}
}

func TestKeyDeterminism(t *testing.T) {
	if PostListKey("a", "b", 1, 10) != PostListKey("a", "b", 1, 10) {
		t.Fatal("identical filters produced different keys")
	}
	if PostBySlugKey("hello") != "posts:slug:hello" {
		t.Fatalf("unexpected slug key: %s", PostBySlugKey("hello"))
	}
}
