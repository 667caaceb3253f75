package cache

import (
	"fmt"
	"testing"
)

func BenchmarkCacheGet(b *testing.B) {
	c := New(Options{MaxEntries: 10000})
	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("hash%d#m()", i), fmt.Sprintf("hash%d", i), report("m()", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("hash999#m()")
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New(Options{MaxEntries: 10000})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("hash%d#m()", i), fmt.Sprintf("hash%d", i), report("m()", i))
	}
}
