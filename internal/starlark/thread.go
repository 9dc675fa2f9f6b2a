package starlark

import "go.starlark.net/starlark"

const defaultPoolSize = 10

// ThreadPool recycles the threads message callables run on. Diagnostics
// are rendered from several lint workers at once, and a starlark.Thread
// must not be shared between goroutines.
type ThreadPool struct {
	free chan *starlark.Thread
}

// NewThreadPool returns a pool keeping at most size idle threads.
// A size of zero or less selects the default.
func NewThreadPool(size int) *ThreadPool {
	if size <= 0 {
		size = defaultPoolSize
	}
	return &ThreadPool{free: make(chan *starlark.Thread, size)}
}

// Get hands out an idle thread, or a fresh one, labelled name in
// Starlark backtraces.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	select {
	case t := <-p.free:
		t.Name = name
		return t
	default:
		// print() inside a message callable goes nowhere.
		return &starlark.Thread{Name: name, Print: func(*starlark.Thread, string) {}}
	}
}

// Put parks t for reuse. It is dropped when the pool is full.
func (p *ThreadPool) Put(t *starlark.Thread) {
	t.Name = ""
	select {
	case p.free <- t:
	default:
	}
}

// Size reports how many idle threads are parked.
func (p *ThreadPool) Size() int {
	return len(p.free)
}
