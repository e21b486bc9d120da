package region

import (
	"testing"
)

// Benchmark a full column scan of the test graph, cache construction included
func BenchmarkCache_Scan(b *testing.B) {
	tg := buildTestGraph(b, 42)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg := testConfig
		cfg.StartX += (i % 8) * 16
		c, err := New(tg.g, cfg)
		if err != nil {
			b.Fatal(err)
		}
		c.Scan(func(x, y, z int) {
			c.Sample(tg.once)
			c.Sample(tg.cell)
		})
	}
}

// Benchmark scattered point queries against one cache
func BenchmarkCache_Query(b *testing.B) {
	tg := buildTestGraph(b, 42)
	c, err := New(tg.g, testConfig)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Query(tg.interp, 16+i%16, -16+(i/16)%32, -32+(i/512)%16)
	}
}
