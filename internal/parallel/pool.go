// Package parallel provides the worker pool used to evaluate candidates
// concurrently.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work. worker identifies the goroutine running it, in
// [0, Workers()), so tasks can index per-worker scratch state without locking.
type Task func(worker int)

// WorkerPool is a pool of goroutines for parallel evaluation.
//
// Each worker pulls from its own queue and steals from the others when its
// queue is empty, which balances load when some tasks are slower than others.
//
// Thread safety: WorkerPool is safe for concurrent use, but two tasks never
// run on the same worker id at the same time.
type WorkerPool struct {
	workers    int
	workQueues []chan Task
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan Task, workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan Task, queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(id, myQueue)
			return

		case task := <-myQueue:
			task(id)

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen(id)
				continue
			}
			// No work available anywhere, block on own queue
			select {
			case <-p.done:
				p.drainQueue(id, myQueue)
				return
			case task := <-myQueue:
				task(id)
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *WorkerPool) drainQueue(id int, queue chan Task) {
	for {
		select {
		case task := <-queue:
			task(id)
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *WorkerPool) steal(myID int) Task {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case task := <-p.workQueues[i]:
			return task
		default:
		}
	}
	return nil
}

// ForEach runs fn(worker, i) for every i in [0, n) and waits for all calls
// to return. Indices are dealt round-robin across workers.
// If the pool is closed, ForEach runs the calls on the caller's goroutine as
// worker 0.
func (p *WorkerPool) ForEach(n int, fn func(worker, i int)) {
	if n <= 0 {
		return
	}
	if !p.running.Load() {
		for i := range n {
			fn(0, i)
		}
		return
	}

	var completion sync.WaitGroup
	completion.Add(n)

	for i := range n {
		idx := i
		task := func(worker int) {
			defer completion.Done()
			fn(worker, idx)
		}

		select {
		case p.workQueues[i%p.workers] <- task:
		case <-p.done:
			// Pool closed while submitting
			completion.Done()
		}
	}

	completion.Wait()
}

// Close gracefully shuts down the pool.
// It stops accepting new work, waits for all queued work to complete,
// and then stops all workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
