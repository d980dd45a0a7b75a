package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -2, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWorkerPool(tt.workers)
			defer p.Close()

			if p.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", p.Workers(), tt.want)
			}
			if !p.IsRunning() {
				t.Error("new pool should be running")
			}
		})
	}
}

func TestWorkerPool_ForEach(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	const n = 1000
	results := make([]int, n)
	var calls atomic.Int64

	p.ForEach(n, func(worker, i int) {
		if worker < 0 || worker >= p.Workers() {
			t.Errorf("worker id %d out of range", worker)
		}
		results[i] = i * 2
		calls.Add(1)
	})

	if calls.Load() != n {
		t.Fatalf("fn called %d times, want %d", calls.Load(), n)
	}
	for i, v := range results {
		if v != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestWorkerPool_WorkerExclusive(t *testing.T) {
	p := NewWorkerPool(3)
	defer p.Close()

	busy := make([]atomic.Bool, p.Workers())
	p.ForEach(300, func(worker, _ int) {
		if !busy[worker].CompareAndSwap(false, true) {
			t.Errorf("worker %d ran two tasks at once", worker)
			return
		}
		runtime.Gosched()
		busy[worker].Store(false)
	})
}

func TestWorkerPool_ForEachAfterClose(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close() // idempotent

	if p.IsRunning() {
		t.Error("closed pool reports running")
	}

	var mu sync.Mutex
	seen := map[int]bool{}
	p.ForEach(5, func(worker, i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		if worker != 0 {
			t.Errorf("closed pool ran on worker %d, want 0", worker)
		}
	})
	if len(seen) != 5 {
		t.Errorf("ran %d tasks after close, want 5", len(seen))
	}
}

func TestWorkerPool_ForEachEmpty(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	p.ForEach(0, func(int, int) {
		t.Error("fn called for empty range")
	})
}
