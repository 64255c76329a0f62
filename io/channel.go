// Package io provides the message channels that connect duet processes.
//
// A channel carries signed 64-bit values from exactly one sender to exactly
// one receiver, in order, without loss and without a capacity limit.
package io

import (
	"context"
)

// Channel defines the interface for a value channel between two processes.
type Channel interface {
	// Send appends a value to the channel. Send never blocks on capacity.
	Send(ctx context.Context, value int64) error
	// Receive removes the oldest value, suspending until one is available
	// or the context is done.
	Receive(ctx context.Context) (value int64, err error)
	// Len returns the number of values waiting in the channel.
	Len() int
}

// Watcher observes a channel's hand-off points. Callbacks run while the
// channel holds its lock, so they are ordered with respect to the
// channel's state: Blocked is only called while the channel is empty, and
// Sending is always called before the value becomes visible.
type Watcher interface {
	// Blocked is called once per Receive that finds the channel empty.
	Blocked(ctx context.Context)
	// Sending is called by Send, before the value is queued.
	Sending(ctx context.Context)
}
