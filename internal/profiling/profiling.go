// Package profiling accumulates wall time per named section of the
// generator. It is cheap enough to leave on in every run.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is the accumulated time and call count of one section.
type Entry struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu      sync.Mutex
	entries = make(map[string]*Entry)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("region.Scan")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := entries[name]
		if e == nil {
			e = &Entry{Name: name}
			entries[name] = e
		}
		e.Total += d
		e.Calls++
		mu.Unlock()
	}
}

// Reset clears all totals.
func Reset() {
	mu.Lock()
	clear(entries)
	mu.Unlock()
}

// Snapshot returns the current totals, longest first.
func Snapshot() []Entry {
	mu.Lock()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n longest sections.
// Example: "world.Generate:420.5ms/64, region.Scan:300.1ms/64"
func TopN(n int) string {
	list := Snapshot()
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.Name+":"+formatMs(e.Total)+"/"+strconv.Itoa(e.Calls))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops it when zero.
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
