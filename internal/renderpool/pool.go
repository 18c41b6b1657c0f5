// Copyright 2026 The goslide Authors
// SPDX-License-Identifier: MIT

// Package renderpool runs prerender jobs on a small set of worker
// goroutines.
//
// The pool deliberately has no work stealing or per-worker queues: every
// job funnels into one render backend behind a mutex, so a single shared
// queue is already the bottleneck shape. What matters is that submission
// never blocks the UI thread for long and that Close drains queued jobs so
// their bookkeeping (in-flight sets) unwinds cleanly.
package renderpool

import (
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool for prerender jobs.
//
// Pool is safe for concurrent use.
type Pool struct {
	// jobs is the shared job queue.
	jobs chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// workers is the number of worker goroutines.
	workers int
}

// New creates a pool with the specified number of workers and starts them.
// If workers is 0 or negative, 2 workers are used: prerendering is a
// latency hider, not a throughput engine, and renders serialize on the
// backend anyway.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = 2
	}

	// Room for several full sweeps across a dozen slots. Queued jobs are
	// just closures; the rendered pixmaps are what cost memory.
	const queueSize = 256

	p := &Pool{
		jobs:    make(chan func(), queueSize),
		done:    make(chan struct{}),
		workers: workers,
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting so queued jobs still
			// release their in-flight bookkeeping.
			p.drain()
			return
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		}
	}
}

// drain executes all remaining queued work.
func (p *Pool) drain() {
	for {
		select {
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		default:
			return
		}
	}
}

// Submit queues a single job. It never blocks: if the pool is closed or the
// queue is full the job is dropped and false is returned. Prerendering is
// best effort, so a dropped job is simply re-requested by a later sweep.
func (p *Pool) Submit(job func()) bool {
	if job == nil || !p.running.Load() {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Close stops accepting new work, runs all queued jobs, and waits for the
// workers to exit. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}

	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Pending returns the number of jobs currently queued (not yet started).
func (p *Pool) Pending() int {
	return len(p.jobs)
}
