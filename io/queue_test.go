package io

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countWatcher struct {
	mutex   sync.Mutex
	events  []string
	blocked chan struct{}
}

func (cw *countWatcher) Blocked(ctx context.Context) {
	cw.mutex.Lock()
	cw.events = append(cw.events, "blocked")
	cw.mutex.Unlock()
	if cw.blocked != nil {
		cw.blocked <- struct{}{}
	}
}

func (cw *countWatcher) Sending(ctx context.Context) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.events = append(cw.events, "sending")
}

func (cw *countWatcher) Events() []string {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	return append([]string(nil), cw.events...)
}

func TestQueue_FIFO(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	queue := NewQueue(nil)

	for n := range 100 {
		assert.NoError(queue.Send(ctx, int64(n*7-50)))
	}
	assert.Equal(100, queue.Len())

	for n := range 100 {
		value, err := queue.Receive(ctx)
		assert.NoError(err)
		assert.Equal(int64(n*7-50), value)
	}
	assert.Equal(0, queue.Len())
}

func TestQueue_ZeroValue(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	queue := &Queue{}

	assert.NoError(queue.Send(ctx, 3))
	value, err := queue.Receive(ctx)
	assert.NoError(err)
	assert.Equal(int64(3), value)
}

func TestQueue_Blocking(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	watcher := &countWatcher{blocked: make(chan struct{}, 1)}
	queue := NewQueue(watcher)

	result := make(chan int64)
	go func() {
		value, err := queue.Receive(ctx)
		assert.NoError(err)
		result <- value
	}()

	// Wait until the receiver reports it is blocked.
	<-watcher.blocked

	select {
	case <-result:
		t.Fatal("receive returned from an empty queue")
	default:
	}

	assert.NoError(queue.Send(ctx, 42))
	assert.Equal(int64(42), <-result)
	assert.Equal([]string{"blocked", "sending"}, watcher.Events())
}

func TestQueue_NoBlockWhenReady(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	watcher := &countWatcher{}
	queue := NewQueue(watcher)

	assert.NoError(queue.Send(ctx, 1))
	assert.NoError(queue.Send(ctx, 2))

	_, err := queue.Receive(ctx)
	assert.NoError(err)
	_, err = queue.Receive(ctx)
	assert.NoError(err)

	assert.Equal([]string{"sending", "sending"}, watcher.Events())
}

func TestQueue_Cancel(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	queue := NewQueue(nil)

	done := make(chan error)
	go func() {
		_, err := queue.Receive(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	assert.ErrorIs(<-done, context.Canceled)
}

func TestQueue_Close(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	queue := NewQueue(nil)

	assert.NoError(queue.Send(ctx, 5))
	queue.Close()
	queue.Close()

	assert.ErrorIs(queue.Send(ctx, 6), ErrChannelClosed)

	value, err := queue.Receive(ctx)
	assert.NoError(err)
	assert.Equal(int64(5), value)

	_, err = queue.Receive(ctx)
	assert.ErrorIs(err, ErrChannelClosed)
}

func TestQueue_CloseWakesReceiver(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	watcher := &countWatcher{blocked: make(chan struct{}, 1)}
	queue := NewQueue(watcher)

	done := make(chan error)
	go func() {
		_, err := queue.Receive(ctx)
		done <- err
	}()

	<-watcher.blocked
	queue.Close()

	assert.ErrorIs(<-done, ErrChannelClosed)
}

func TestQueue_Concurrent(t *testing.T) {
	assert := assert.New(t)

	const count = 10000

	ctx := context.Background()
	queue := NewQueue(nil)

	go func() {
		for n := range count {
			queue.Send(ctx, int64(n))
		}
	}()

	for n := range count {
		value, err := queue.Receive(ctx)
		if !assert.NoError(err) {
			return
		}
		if value != int64(n) {
			t.Fatalf("value %d out of order, expected %d", value, n)
		}
	}
}
