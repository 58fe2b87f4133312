package caching

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.Get("https://example.com/gdp"); ok {
		t.Fatal("Get() on empty cache returned a hit")
	}

	if err := c.Set("https://example.com/gdp", []byte("<html></html>")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok := c.Get("https://example.com/gdp")
	if !ok {
		t.Fatal("Get() after Set() missed")
	}
	if string(data) != "<html></html>" {
		t.Errorf("Get() = %q, want %q", data, "<html></html>")
	}

	if _, ok := c.Get("https://example.com/other"); ok {
		t.Error("Get() for a different URL returned a hit")
	}
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("https://example.com/gdp", []byte("x")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, ok := c.Get("https://example.com/gdp"); ok {
		t.Error("Get() returned an expired entry")
	}
}
