// Package dedupe maps client request ids to the job they created so a retried
// submission returns the original job instead of scheduling twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Index records which job a request id produced.
type Index interface {
	// Claim binds requestID to jobID unless it is already bound. It returns
	// the bound job id and whether the claim found an existing binding.
	Claim(ctx context.Context, requestID, jobID string) (string, bool)

	// Release forgets requestID so a rejected submission can be retried.
	Release(ctx context.Context, requestID string)

	// Size returns the number of remembered request ids.
	Size() int64
}

// node is one binding in insertion order.
type node struct {
	requestID  string
	jobID      string
	prev, next *node
}

func (n *node) reset() {
	n.requestID, n.jobID = "", ""
	n.prev, n.next = nil, nil
}

// inMemoryIndex keeps bindings in a map plus a doubly linked list ordered by
// insertion. When bounded, the oldest binding is evicted first.
type inMemoryIndex struct {
	mu       sync.Mutex
	bound    map[string]*node
	head     *node // oldest
	tail     *node // newest
	maxSize  int   // 0 or negative = unbounded
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryIndex creates an in-memory Index.
func NewInMemoryIndex(opts ...Option) Index {
	d := &inMemoryIndex{
		maxSize: 10_000,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.bound = make(map[string]*node)
	d.nodePool = sync.Pool{
		New: func() any {
			return &node{}
		},
	}

	return d
}

func (d *inMemoryIndex) Claim(_ context.Context, requestID, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.bound[requestID]; ok {
		return n.jobID, true
	}

	if d.maxSize > 0 && len(d.bound) >= d.maxSize {
		d.evictOldest()
	}

	n := d.nodePool.Get().(*node)
	n.requestID, n.jobID = requestID, jobID
	d.pushBack(n)
	d.bound[requestID] = n
	d.size.Add(1)
	return jobID, false
}

func (d *inMemoryIndex) Release(_ context.Context, requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.bound[requestID]
	if !ok {
		return
	}
	d.remove(n)
}

func (d *inMemoryIndex) Size() int64 {
	return d.size.Load()
}

// evictOldest must be called with d.mu held.
func (d *inMemoryIndex) evictOldest() {
	if d.head != nil {
		d.remove(d.head)
	}
}

func (d *inMemoryIndex) pushBack(n *node) {
	n.prev = d.tail
	if d.tail != nil {
		d.tail.next = n
	} else {
		d.head = n
	}
	d.tail = n
}

// remove unlinks n, drops it from the map and returns it to the pool.
func (d *inMemoryIndex) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		d.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		d.tail = n.prev
	}
	delete(d.bound, n.requestID)
	n.reset()
	d.nodePool.Put(n)
	d.size.Add(-1)
}
