package config

import (
	"runtime"
	"sync"
)

// RuntimeSettings holds process-wide generation knobs
type RuntimeSettings struct {
	mu        sync.RWMutex
	workers   int
	radius    int // in chunks
	dumpLevel int
}

var globalRuntimeSettings = &RuntimeSettings{
	workers:   runtime.NumCPU(),
	radius:    4,
	dumpLevel: 2, // zstd default level
}

// GetWorkers returns the number of generation workers
func GetWorkers() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.workers
}

// SetWorkers sets the number of generation workers
func SetWorkers(n int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}

	globalRuntimeSettings.workers = n
}

// GetRadius returns the generation radius in chunks around the centre
func GetRadius() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.radius
}

// SetRadius sets the generation radius in chunks
func SetRadius(radius int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if radius < 0 {
		radius = 0
	}
	if radius > 32 {
		radius = 32
	}
	globalRuntimeSettings.radius = radius
}

// GetChunkCount returns how many chunks a square of the current radius holds
func GetChunkCount() int {
	d := 2*GetRadius() + 1
	return d * d
}

// GetDumpLevel returns the zstd encoder level for sample dumps (1 fastest, 4 best)
func GetDumpLevel() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.dumpLevel
}

// SetDumpLevel sets the zstd encoder level for sample dumps
func SetDumpLevel(level int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if level < 1 {
		level = 1
	}
	if level > 4 {
		level = 4
	}
	globalRuntimeSettings.dumpLevel = level
}
