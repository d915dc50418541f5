// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/healthmate-tui/internal/notify"
	"github.com/jeranaias/healthmate-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// DefaultToastDuration is how long info and success toasts stay up.
const DefaultToastDuration = 3 * time.Second

// ErrorToastDuration is how long warning and error toasts stay up.
const ErrorToastDuration = 5 * time.Second

// Toast is a transient notice shown in the corner.
type Toast struct {
	ID        int
	Message   string
	Kind      notify.Kind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast builds a toast for a notice, picking the duration by kind.
func NewToast(n notify.Notice) Toast {
	created := n.At
	if created.IsZero() {
		created = time.Now()
	}
	d := DefaultToastDuration
	if n.Kind == notify.KindError || n.Kind == notify.KindWarning {
		d = ErrorToastDuration
	}
	return Toast{
		Message:   n.Text,
		Kind:      n.Kind,
		CreatedAt: created,
		Duration:  d,
	}
}

// IsExpired returns true if the toast should be dismissed.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	mutex     sync.Mutex
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		nextID:    1,
		maxToasts: 4,
	}
}

// AddToast adds a new toast to the manager and returns its ID.
func (m *ToastManager) AddToast(toast Toast) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	toast.ID = m.nextID
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// AddNotice converts a notice and adds it.
func (m *ToastManager) AddNotice(n notify.Notice) int {
	return m.AddToast(NewToast(n))
}

// AddError is a convenience method to add an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.AddNotice(notify.Notice{Kind: notify.KindError, Text: message})
}

// AddSuccess is a convenience method to add a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.AddNotice(notify.Notice{Kind: notify.KindSuccess, Text: message})
}

// AddInfo is a convenience method to add an info toast.
func (m *ToastManager) AddInfo(message string) int {
	return m.AddNotice(notify.Notice{Kind: notify.KindInfo, Text: message})
}

// TickToasts removes expired toasts and returns the remaining toasts.
func (m *ToastManager) TickToasts(now time.Time) []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	active := m.toasts[:0]
	for _, toast := range m.toasts {
		if !toast.IsExpired(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active
	return m.copyLocked()
}

// GetToasts returns a copy of the current toasts.
func (m *ToastManager) GetToasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.copyLocked()
}

func (m *ToastManager) copyLocked() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts returns true if there are any active toasts.
func (m *ToastManager) HasToasts() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

var toastIcons = map[notify.Kind]string{
	notify.KindInfo:    "[i]",
	notify.KindSuccess: "[OK]",
	notify.KindWarning: "[!]",
	notify.KindError:   "[X]",
}

// RenderToast renders a single toast.
func RenderToast(theme *styles.Theme, toast Toast, width int) string {
	maxWidth := 50
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	style := theme.ToastInfo
	switch toast.Kind {
	case notify.KindSuccess:
		style = theme.ToastSuccess
	case notify.KindWarning:
		style = theme.ToastWarning
	case notify.KindError:
		style = theme.ToastError
	}

	return style.Width(maxWidth).Render(toastIcons[toast.Kind] + " " + toast.Message)
}

// RenderToastStack renders toasts stacked vertically, right-aligned.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(theme, toast, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return strings.TrimRight(stack, "\n")
}
