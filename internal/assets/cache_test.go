package assets

import "testing"

func TestCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a hit")
	}
	c.Set("a", []byte("x"))
	if data, ok := c.Get("a"); !ok || string(data) != "x" {
		t.Errorf("Get(a) = %q, %v", data, ok)
	}
	if h, m := c.Stats(); h != 1 || m != 1 {
		t.Errorf("Stats() = %d, %d", h, m)
	}
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("Clear left data behind")
	}
}
