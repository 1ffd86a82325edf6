//go:build test

package suggest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/wordboost/pkg/dictionary"
	"github.com/bastiangx/wordboost/pkg/emoji"
	"github.com/bastiangx/wordboost/pkg/store"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var typingPatterns = [][]string{
	{"c", "ca", "cam", "came", "camel"},
	{"c", "ce", "cer", "ceru", "cerul", "cerule"},
	{"g", "gl", "glu", "glüh"},
	{"_", "_c", "_ca", "_cam", "_came"},
	{"t", "te", "tes", "test"},
	{"b", "ba", "bar", "barc", "barce"},
}

func memGenerator(t *testing.T) (*Generator, *dictionary.Set, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	set := dictionary.NewLoader("../dictionary/testdata").NewSet([]string{"en_US", "de_DE", "fr_FR"})
	return NewGenerator(st, emoji.Default()), set, st
}

func TestMemoryLeakBasic(t *testing.T) {
	for _, iterCount := range []int{100, 500, 1000} {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runBasicMemoryTest(t, iterCount)
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 400},
		{workers: 4, iterationsPerWorker: 100},
		{workers: 8, iterationsPerWorker: 50},
	}
	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

func runBasicMemoryTest(t *testing.T, iterations int) {
	g, set, _ := memGenerator(t)
	ctx := context.Background()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	totalOps := 0
	for i := 0; i < iterations; i++ {
		for _, pattern := range typingPatterns {
			for _, text := range pattern {
				_ = g.Generate(ctx, Query{Text: text, Dictionaries: set, Limit: 18})
				totalOps++
			}
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	memDelta := int64(final.Alloc) - int64(baseline.Alloc)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

// runConcurrentMemoryTest mixes lookups with commits the way several
// sessions sharing one store would.
func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	memFile, err := os.Create(filepath.Join(t.TempDir(), "concurrent_memory.prof"))
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer memFile.Close()

	g, set, st := memGenerator(t)
	ctx := context.Background()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < iterationsPerWorker; iter++ {
				for _, pattern := range typingPatterns {
					for _, text := range pattern {
						_ = g.Generate(ctx, Query{Text: text, Dictionaries: set, Limit: 18})
					}
					last := pattern[len(pattern)-1]
					if err := st.Record(ctx, set.Table().Key(last), last, time.Now()); err != nil {
						t.Errorf("record: %v", err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("workers=%d iter_per_worker=%d rows=%d mem_delta=%d bytes goroutine_delta=%d",
		workers, iterationsPerWorker, st.Len(), int64(final.Alloc)-int64(baseline.Alloc), goroutineDelta)

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if st.Len() != len(typingPatterns) {
		t.Errorf("expected %d rows, got %d", len(typingPatterns), st.Len())
	}
	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
