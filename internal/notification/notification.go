package notification

import (
	"context"
	"sync"

	"github.com/agencypack/blog-backend/internal/domain"
	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
)

// EventKind names a notification event
type EventKind string

// EventCommentAdded fires after a comment passed intake
const EventCommentAdded EventKind = "comment_added"

// Notification is one fan-out event with its payload
type Notification struct {
	Kind    EventKind              `json:"kind"`
	Payload map[string]interface{} `json:"payload"`
}

// CommentAdded builds the comment-added notification carrying the new
// comment and its post
func CommentAdded(comment *domain.Comment, post *domain.Post) Notification {
	return Notification{
		Kind: EventCommentAdded,
		Payload: map[string]interface{}{
			"comment": comment,
			"post":    post,
		},
	}
}

// Listener receives dispatched notifications
type Listener interface {
	Handle(ctx context.Context, n Notification) error
}

// Manager fans notifications out to registered listeners. Dispatch is
// fire-and-forget: listener errors are logged, never propagated.
type Manager struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewManager creates a new notification manager
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a listener
func (m *Manager) Register(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Notify dispatches the notification to every listener
func (m *Manager) Notify(ctx context.Context, n Notification) {
	m.mu.RLock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, l := range listeners {
		if err := l.Handle(ctx, n); err != nil {
			pkglogger.GetLogger().Error().
				Err(err).
				Str("event", string(n.Kind)).
				Msg("notification listener failed")
		}
	}
}

// LogListener writes every notification to the structured log
type LogListener struct{}

// Handle implements Listener
func (LogListener) Handle(_ context.Context, n Notification) error {
	pkglogger.GetLogger().Info().
		Str("event", string(n.Kind)).
		Interface("payload", n.Payload).
		Msg("notification dispatched")
	return nil
}
