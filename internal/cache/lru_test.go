package cache

import (
	"fmt"
	"testing"
)

func TestLRUCache_SetGet(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", "1")

	val, found := c.Get("a")
	if !found {
		t.Fatal("expected key 'a' to be present")
	}
	if val.(string) != "1" {
		t.Errorf("expected '1', got '%v'", val)
	}
}

func TestLRUCache_Miss(t *testing.T) {
	c := NewLRUCache(2)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for absent key")
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	if _, found := c.Get("a"); found {
		t.Error("expected oldest key 'a' to be evicted")
	}
	if _, found := c.Get("b"); !found {
		t.Error("expected key 'b' to survive")
	}
	if _, found := c.Get("c"); !found {
		t.Error("expected key 'c' to survive")
	}
}

func TestLRUCache_GetRefreshesRecency(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", "1")
	c.Set("b", "2")

	// touching "a" makes "b" the eviction candidate
	c.Get("a")
	c.Set("c", "3")

	if _, found := c.Get("a"); !found {
		t.Error("expected recently used key 'a' to survive")
	}
	if _, found := c.Get("b"); found {
		t.Error("expected key 'b' to be evicted")
	}
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", "1")
	c.Set("a", "2")

	val, found := c.Get("a")
	if !found {
		t.Fatal("expected key 'a' to be present")
	}
	if val.(string) != "2" {
		t.Errorf("expected updated value '2', got '%v'", val)
	}
	if c.Len() != 1 {
		t.Errorf("expected length 1, got %d", c.Len())
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache(2)

	c.Set("a", "1")
	c.Delete("a")

	if _, found := c.Get("a"); found {
		t.Error("expected key 'a' to be deleted")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	c := NewLRUCache(10)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got length %d", c.Len())
	}
}
