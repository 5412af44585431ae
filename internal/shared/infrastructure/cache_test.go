package infrastructure

import (
	"fmt"
	"testing"
	"time"
)

// ========================================
// Tests: InMemoryCache
// ========================================

// TestInMemoryCache_SetGet teste l'écriture et la lecture
func TestInMemoryCache_SetGet(t *testing.T) {
	cache := NewInMemoryCache()
	cache.Set("key1", "value1", 5*time.Minute)

	val, found := cache.Get("key1")
	if !found {
		t.Fatal("Expected key1 to be found")
	}
	if val != "value1" {
		t.Errorf("Expected value1, got %v", val)
	}

	if _, found := cache.Get("missing"); found {
		t.Error("Expected missing key to not be found")
	}
}

// TestInMemoryCache_Expiration teste qu'une entrée expirée n'est pas servie
func TestInMemoryCache_Expiration(t *testing.T) {
	cache := NewInMemoryCache()
	cache.Set("key1", "value1", -1*time.Second) // Déjà expiré

	if _, found := cache.Get("key1"); found {
		t.Error("Expected expired entry to not be served")
	}
}

// TestInMemoryCache_Delete teste la suppression d'une entrée
func TestInMemoryCache_Delete(t *testing.T) {
	cache := NewInMemoryCache()
	cache.Set("key1", "value1", 5*time.Minute)
	cache.Delete("key1")

	if _, found := cache.Get("key1"); found {
		t.Error("Expected deleted entry to not be found")
	}
}

// TestInMemoryCache_Clear teste le vidage complet
func TestInMemoryCache_Clear(t *testing.T) {
	cache := NewInMemoryCache()
	cache.Set("key1", "value1", 5*time.Minute)
	cache.Set("key2", "value2", 5*time.Minute)
	cache.Clear()

	if _, found := cache.Get("key1"); found {
		t.Error("Expected cache to be empty after Clear")
	}
	if _, found := cache.Get("key2"); found {
		t.Error("Expected cache to be empty after Clear")
	}
}

// TestInMemoryCache_Overwrite teste la mise à jour d'une clé existante
func TestInMemoryCache_Overwrite(t *testing.T) {
	cache := NewInMemoryCache()
	cache.Set("key1", "old", 5*time.Minute)
	cache.Set("key1", "new", 5*time.Minute)

	val, _ := cache.Get("key1")
	if val != "new" {
		t.Errorf("Expected new, got %v", val)
	}
}

// ========================================
// Tests: CacheKeyBuilder
// ========================================

// TestCacheKeyBuilder teste la construction de clés composées
func TestCacheKeyBuilder(t *testing.T) {
	key := NewCacheKeyBuilder().
		Add("session").
		Add("fingerprint").
		AddInt(42).
		Build()

	if key != "session:fingerprint:42" {
		t.Errorf("Expected session:fingerprint:42, got %s", key)
	}
}

// ========================================
// Benchmarks: InMemoryCache
// ========================================

// BenchmarkInMemoryCache_Get_NoContention teste Get sans contention
func BenchmarkInMemoryCache_Get_NoContention(b *testing.B) {
	cache := NewInMemoryCache()
	cache.Set("key1", "value1", 5*time.Minute)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = cache.Get("key1")
	}
}

// BenchmarkInMemoryCache_Set_NoContention teste Set sans contention
func BenchmarkInMemoryCache_Set_NoContention(b *testing.B) {
	cache := NewInMemoryCache()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cache.Set(fmt.Sprintf("key%d", i), "value", 5*time.Minute)
	}
}

// BenchmarkInMemoryCache_Get_HighContention teste Get avec haute contention
func BenchmarkInMemoryCache_Get_HighContention(b *testing.B) {
	cache := NewInMemoryCache()
	cache.Set("shared_key", "shared_value", 5*time.Minute)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = cache.Get("shared_key")
		}
	})
}

// BenchmarkCacheKeyBuilder teste la construction de clé de session
func BenchmarkCacheKeyBuilder(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = NewCacheKeyBuilder().
			Add("session").
			Add("customers:1024:1700000000;orders:4096:1700000000;").
			Build()
	}
}
