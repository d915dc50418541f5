// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// SESSION CONTEXT
// =============================================================================

// cancelManager owns the context every request and dictation session of one
// chat session derives from. Quitting cancels it.
// It must be held by pointer so Bubble Tea's model copies share the mutex.
type cancelManager struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// newCancelManager creates a manager with a fresh root context.
func newCancelManager(parent context.Context) *cancelManager {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &cancelManager{ctx: ctx, cancel: cancel}
}

// context returns the session context.
func (cm *cancelManager) context() context.Context {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ctx
}

// stop cancels the session context. It is safe to call more than once.
func (cm *cancelManager) stop() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel != nil {
		cm.cancel()
		cm.cancel = nil
	}
}
