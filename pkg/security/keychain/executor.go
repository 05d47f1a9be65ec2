package keychain

import (
	"sync/atomic"
)

// executor is the single task queue spec.md §5 calls out as the piece
// that serializes every KeyChain state mutation: the verification loop
// never blocks a worker goroutine, it posts continuations here and a
// single goroutine drains them, mirroring the teacher's
// engine/basic.Engine main loop (taskQueue chan func()).
type executor struct {
	taskQueue chan func()
	closeCh   chan struct{}
	running   atomic.Bool
}

func newExecutor() *executor {
	return &executor{
		taskQueue: make(chan func(), 512),
		closeCh:   make(chan struct{}),
	}
}

// Start launches the draining goroutine. Calling Start twice without an
// intervening Shutdown is a no-op.
func (e *executor) Start() {
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	go func() {
		for {
			select {
			case task := <-e.taskQueue:
				task()
			case <-e.closeCh:
				return
			}
		}
	}()
}

// Shutdown stops the draining goroutine. It is idempotent, per spec.md
// §5's resource-release requirement.
func (e *executor) Shutdown() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	close(e.closeCh)
}

// Post enqueues task to run on the executor goroutine. If the queue is
// momentarily full, Post does not block the caller; it hands off to a
// short-lived goroutine instead, the same non-blocking-enqueue trick the
// teacher's engine.Engine uses for its own task queue.
func (e *executor) Post(task func()) {
	select {
	case e.taskQueue <- task:
	default:
		go func() { e.taskQueue <- task }()
	}
}
