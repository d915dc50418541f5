// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify carries user-facing notices from the code that detects an
// outcome to whatever renders it. The TUI turns notices into toasts; the
// plain REPL prints them.
package notify

import (
	"sync"
	"time"
)

// Kind is the severity of a notice.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Notice is one transient message for the user.
type Notice struct {
	Kind Kind
	Text string
	At   time.Time
}

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 32

// Bus fans notices out to every subscriber. Publishing never blocks: a
// subscriber whose buffer is full misses the notice.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Notice
	closed bool
	now    func() time.Time
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe returns a channel receiving every notice published from now on.
// The channel is closed by Close.
func (b *Bus) Subscribe() <-chan Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Notice, DefaultBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers n to all subscribers. A zero At is stamped with the
// current time. It reports how many subscribers received it.
func (b *Bus) Publish(n Notice) int {
	if n.At.IsZero() {
		n.At = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}

// Info publishes an info notice.
func (b *Bus) Info(text string) { b.Publish(Notice{Kind: KindInfo, Text: text}) }

// Success publishes a success notice.
func (b *Bus) Success(text string) { b.Publish(Notice{Kind: KindSuccess, Text: text}) }

// Warning publishes a warning notice.
func (b *Bus) Warning(text string) { b.Publish(Notice{Kind: KindWarning, Text: text}) }

// Error publishes an error notice.
func (b *Bus) Error(text string) { b.Publish(Notice{Kind: KindError, Text: text}) }

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
