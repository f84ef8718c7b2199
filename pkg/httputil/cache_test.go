package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"simple", "key1", map[string]string{"foo": "bar"}},
		{"string", "key2", "test"},
		{"nested", "key3", map[string]any{"a": map[string]int{"b": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			var result any
			switch tt.value.(type) {
			case map[string]string:
				result = &map[string]string{}
			case string:
				result = new(string)
			case map[string]any:
				result = &map[string]any{}
			}

			ok, err := c.Get(tt.key, result)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get("key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err = c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	p1 := c.keyPath("test")
	p2 := c.keyPath("test")
	if p1 != p2 {
		t.Error("path should be deterministic")
	}
	p3 := c.keyPath("other")
	if p1 == p3 {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	want := filepath.Join(home, ".cache", "popchart", "http")
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if c.TTL() != time.Hour {
		t.Errorf("got TTL = %v, want 1h", c.TTL())
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		raw := c.Namespace("raw:")
		meta := c.Namespace("meta:")

		// Set values in different namespaces
		if err := raw.Set("https://example.com/data.csv", "raw-data"); err != nil {
			t.Fatalf("raw.Set() failed: %v", err)
		}
		if err := meta.Set("https://example.com/data.csv", "meta-data"); err != nil {
			t.Fatalf("meta.Set() failed: %v", err)
		}

		// Retrieve from namespaced caches
		var rawVal, metaVal string
		ok, err := raw.Get("https://example.com/data.csv", &rawVal)
		if !ok || err != nil {
			t.Fatalf("raw.Get() = %v, %v; want true, nil", ok, err)
		}
		ok, err = meta.Get("https://example.com/data.csv", &metaVal)
		if !ok || err != nil {
			t.Fatalf("meta.Get() = %v, %v; want true, nil", ok, err)
		}

		if rawVal != "raw-data" {
			t.Errorf("got raw value %q, want %q", rawVal, "raw-data")
		}
		if metaVal != "meta-data" {
			t.Errorf("got meta value %q, want %q", metaVal, "meta-data")
		}

		// Values should not cross-contaminate
		_, _ = raw.Get("https://example.com/data.csv", &metaVal)
		if metaVal != "raw-data" {
			t.Error("namespace isolation violated")
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		v1 := c.Namespace("v1:")
		raw := v1.Namespace("raw:")

		if err := raw.Set("test", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := raw.Get("test", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		// Should not be accessible without full prefix
		found, _ := v1.Get("test", &result)
		if found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("emptyPrefix", func(t *testing.T) {
		ns := c.Namespace("")
		if err := ns.Set("key", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := ns.Get("key", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		// Should be same as parent cache
		ok, err = c.Get("key", &result)
		if !ok || err != nil || result != "value" {
			t.Error("empty namespace should behave like parent")
		}
	})

	t.Run("preservesDirAndTTL", func(t *testing.T) {
		ns := c.Namespace("test:")
		if ns.Dir() != c.Dir() {
			t.Errorf("Dir() = %s, want %s", ns.Dir(), c.Dir())
		}
		if ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}

func TestCache_Delete(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	if err := c.Set("https://example.com/a.csv", []byte("Country,Population\n")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := c.Delete("https://example.com/a.csv"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	var body []byte
	if ok, err := c.Get("https://example.com/a.csv", &body); ok || err != nil {
		t.Errorf("Get() after Delete = %v, %v; want false, nil", ok, err)
	}
	if err := c.Delete("never-stored"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}
