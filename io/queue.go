package io

import (
	"context"
	"sync"
)

// Queue is an unbounded, single-producer/single-consumer FIFO channel.
type Queue struct {
	Watcher Watcher // Optional hand-off observer.

	mutex  sync.Mutex
	data   []int64
	ready  chan struct{}
	closed bool
	once   sync.Once
}

var _ Channel = (*Queue)(nil)

// NewQueue creates an empty queue.
func NewQueue(watcher Watcher) (queue *Queue) {
	queue = &Queue{
		Watcher: watcher,
	}
	queue.init()

	return
}

func (queue *Queue) init() {
	queue.once.Do(func() {
		queue.ready = make(chan struct{}, 1)
	})
}

// Send appends a value and wakes the receiver.
// Returns ErrChannelClosed if the queue has been closed.
func (queue *Queue) Send(ctx context.Context, value int64) (err error) {
	queue.init()

	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.closed {
		err = ErrChannelClosed
		return
	}

	if queue.Watcher != nil {
		queue.Watcher.Sending(ctx)
	}

	queue.data = append(queue.data, value)

	select {
	case queue.ready <- struct{}{}:
	default:
		// Receiver already has a pending wake-up.
	}

	return
}

// Receive removes the oldest value from the queue.
// An empty queue suspends the caller until a value is sent, the queue is
// closed, or ctx is done.
func (queue *Queue) Receive(ctx context.Context) (value int64, err error) {
	queue.init()

	blocked := false
	for {
		var ok bool
		value, ok, err = queue.pop(ctx, !blocked)
		if ok || err != nil {
			return
		}
		blocked = true

		select {
		case <-queue.ready:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// pop removes the head value, if any. When the queue is empty and notify is
// set, the watcher is told the receiver is about to block.
func (queue *Queue) pop(ctx context.Context, notify bool) (value int64, ok bool, err error) {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if len(queue.data) > 0 {
		value = queue.data[0]
		queue.data = queue.data[1:]
		ok = true
		return
	}

	if queue.closed {
		err = ErrChannelClosed
		return
	}

	if notify && queue.Watcher != nil {
		queue.Watcher.Blocked(ctx)
	}

	return
}

// Len returns the number of values waiting in the queue.
func (queue *Queue) Len() int {
	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	return len(queue.data)
}

// Close the queue. Values already queued may still be received; further
// sends fail, and a receiver waiting on an empty queue is released.
func (queue *Queue) Close() {
	queue.init()

	queue.mutex.Lock()
	defer queue.mutex.Unlock()

	if queue.closed {
		return
	}
	queue.closed = true
	close(queue.ready)
}
