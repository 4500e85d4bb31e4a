// Package request implements a single-flight, keyed, deferred-dispatch command queue.
//
// Playback intents issued before the active engine signals readiness are buffered
// here under a stable key per intent type, then flushed in their original order
// once the owner starts serving. Queuing the same key twice overwrites the pending
// action while preserving its queue position, so at most one action is ever
// pending per key.
package request

import (
	"container/list"
	"sync"

	"github.com/vidstack/elements/log"
)

// Action is a deferred playback intent. It may block; its error is routed to the
// queue's error handler rather than propagated.
type Action func() error

// ErrorHandler receives failures from actions executed by the queue, keyed by the
// request key they were queued under.
type ErrorHandler func(key string, err error)

// entry pairs a request key with its latest pending action.
type entry struct {
	key    string
	action Action
}

// Queue buffers keyed actions until started, then becomes a pass-through that
// executes new actions immediately. All methods are safe for concurrent use and
// remain safe no-ops after Destroy.
type Queue struct {
	mu        sync.Mutex
	order     *list.List
	index     map[string]*list.Element
	serving   bool
	destroyed bool
	flushed   chan struct{}
	released  bool
	onError   ErrorHandler
}

// NewQueue creates an empty queue in queuing mode. The handler receives errors
// from actions the queue executes; a nil handler falls back to the log.
func NewQueue(onError ErrorHandler) *Queue {
	if onError == nil {
		onError = func(key string, err error) {
			log.Warnf("request %q failed: %v", key, err)
		}
	}
	return &Queue{
		order:   list.New(),
		index:   make(map[string]*list.Element),
		flushed: make(chan struct{}),
		onError: onError,
	}
}

// Size returns the number of currently pending actions.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.order.Len()
}

// Queue inserts or overwrites the pending action for the given key. An overwrite
// keeps the entry's original position, so flush order reflects first insertion.
// In pass-through mode the action executes immediately and is never stored.
func (q *Queue) Queue(key string, action Action) {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}

	if q.serving {
		q.mu.Unlock()
		q.invoke(key, action)
		return
	}

	if el, ok := q.index[key]; ok {
		el.Value = &entry{key: key, action: action}
	} else {
		q.index[key] = q.order.PushBack(&entry{key: key, action: action})
	}
	q.mu.Unlock()
}

// Start flips the queue into pass-through mode, executes every pending action in
// insertion order, clears the queue, and releases all WaitForFlush waiters once
// the batch has completed. A failing action does not abort the batch.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.destroyed || q.serving {
		q.mu.Unlock()
		return
	}
	q.serving = true
	batch := q.drainLocked()
	q.mu.Unlock()

	for _, e := range batch {
		q.invoke(e.key, e.action)
	}

	q.mu.Lock()
	q.releaseLocked()
	q.mu.Unlock()
}

// Stop returns the queue to queuing mode without touching pending entries and
// re-arms WaitForFlush for the next flush cycle.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.destroyed {
		return
	}
	q.serving = false
	if q.released {
		q.flushed = make(chan struct{})
		q.released = false
	}
}

// Serve executes and removes the pending action for a single key, regardless of
// mode. Absent keys are a no-op.
func (q *Queue) Serve(key string) {
	q.mu.Lock()
	el, ok := q.index[key]
	if !ok {
		q.mu.Unlock()
		return
	}
	e := el.Value.(*entry)
	q.order.Remove(el)
	delete(q.index, key)
	q.mu.Unlock()

	q.invoke(e.key, e.action)
}

// Reset discards every pending action without executing it. The serving mode is
// untouched.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.drainLocked()
}

// Destroy discards pending actions, releases all waiters, and moves the queue
// into a terminal state where every operation is a safe no-op. Idempotent.
func (q *Queue) Destroy() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.destroyed {
		return
	}
	q.destroyed = true
	q.serving = false
	q.drainLocked()
	q.releaseLocked()
}

// WaitForFlush returns a channel closed the first time the queue starts serving
// or is destroyed, whichever happens first. Queues that have already flushed or
// been destroyed yield an already-closed channel.
func (q *Queue) WaitForFlush() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushed
}

// invoke runs an action outside the lock so actions may re-enter the queue.
func (q *Queue) invoke(key string, action Action) {
	if err := action(); err != nil {
		q.onError(key, err)
	}
}

// drainLocked removes all pending entries and returns them in insertion order.
func (q *Queue) drainLocked() []*entry {
	batch := make([]*entry, 0, q.order.Len())
	for el := q.order.Front(); el != nil; el = el.Next() {
		batch = append(batch, el.Value.(*entry))
	}
	q.order.Init()
	q.index = make(map[string]*list.Element)
	return batch
}

// releaseLocked closes the flush channel exactly once per cycle.
func (q *Queue) releaseLocked() {
	if !q.released {
		close(q.flushed)
		q.released = true
	}
}
