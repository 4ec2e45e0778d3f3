// Package toasts implements stacked, auto-expiring notifications.
//
// A Queue collects notifications from any goroutine (collection manager,
// playback controller, advisory timers); the Model lives inside the TUI
// event loop, drains the queue on every tick and renders the still-visible
// stack.
package toasts

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mocbot/sounddash/internal/ui/styles"
)

// Level is a toast's severity.
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// Toast is one notification.
type Toast struct {
	Level       Level
	Title       string
	Description string
}

// Queue is the thread-safe intake side. It satisfies the notifier
// interfaces of the sounds and player packages.
type Queue struct {
	mu      sync.Mutex
	pending []Toast
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) push(level Level, title, description string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, Toast{Level: level, Title: title, Description: description})
}

// Success enqueues a success toast.
func (q *Queue) Success(title, description string) { q.push(LevelSuccess, title, description) }

// Info enqueues an informational toast.
func (q *Queue) Info(title, description string) { q.push(LevelInfo, title, description) }

// Warning enqueues a warning toast.
func (q *Queue) Warning(title, description string) { q.push(LevelWarning, title, description) }

// Error enqueues an error toast.
func (q *Queue) Error(title, description string) { q.push(LevelError, title, description) }

// Drain removes and returns all pending toasts.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// visibleToast is a toast with its expiry deadline.
type visibleToast struct {
	Toast
	expiresAt time.Time
}

// Model renders the visible toast stack. Not safe for concurrent use; it
// belongs to the TUI event loop.
type Model struct {
	queue   *Queue
	ttl     time.Duration
	visible []visibleToast
}

// NewModel creates a model draining queue, keeping each toast visible for ttl.
func NewModel(queue *Queue, ttl time.Duration) Model {
	return Model{queue: queue, ttl: ttl}
}

// Update drains newly queued toasts and drops expired ones. Call on every
// UI tick.
func (m Model) Update(now time.Time) Model {
	for _, t := range m.queue.Drain() {
		m.visible = append(m.visible, visibleToast{Toast: t, expiresAt: now.Add(m.ttl)})
	}

	kept := m.visible[:0]
	for _, t := range m.visible {
		if now.Before(t.expiresAt) {
			kept = append(kept, t)
		}
	}
	m.visible = kept
	return m
}

// Count returns the number of currently visible toasts.
func (m Model) Count() int {
	return len(m.visible)
}

// View renders the stack, newest last, wrapped to width.
func (m Model) View(width int) string {
	if len(m.visible) == 0 || width <= 4 {
		return ""
	}

	var out []string
	for _, t := range m.visible {
		body := t.Title
		if t.Description != "" {
			body += "\n" + t.Description
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(levelColor(t.Level)).
			Padding(0, 1).
			Render(wordwrap.String(body, width-4))
		out = append(out, box)
	}
	return strings.Join(out, "\n")
}

func levelColor(l Level) lipgloss.AdaptiveColor {
	switch l {
	case LevelSuccess:
		return styles.SuccessColor
	case LevelWarning:
		return styles.WarningColor
	case LevelError:
		return styles.ErrorColor
	default:
		return styles.AccentColor
	}
}
