package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry хранит сессии записи в памяти процесса и удаляет простаивающие дольше TTL
type Registry struct {
	deps    SessionDeps
	metrics Metrics
	logger  Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry создает реестр; metrics может быть nil
func NewRegistry(deps SessionDeps, metrics Metrics) *Registry {
	if deps.Clock == nil {
		deps.Clock = &RealTimeProvider{}
	}
	return &Registry{
		deps:     deps,
		metrics:  metrics,
		logger:   deps.Logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create создает и инициализирует сессию пользователя owner
func (r *Registry) Create(ctx context.Context, owner uuid.UUID) (*Session, error) {
	session := NewSession(owner, r.deps)
	if err := session.Init(ctx); err != nil {
		r.logger.Error("Registry.Create: failed to init session for user=%s: %v", owner, err)
		return nil, err
	}

	r.mu.Lock()
	r.sessions[session.ID()] = session
	n := len(r.sessions)
	r.mu.Unlock()

	r.reportActive(n)
	r.logger.Info("Registry.Create: session=%s created for user=%s", session.ID(), owner)
	return session, nil
}

// Get возвращает сессию владельца и продлевает ее жизнь.
// Чужая или истекшая сессия неотличима от отсутствующей.
func (r *Registry) Get(id, owner uuid.UUID) (*Session, error) {
	now := r.deps.Clock.Now()

	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok && session.expired(now) {
		delete(r.sessions, id)
		n := len(r.sessions)
		r.mu.Unlock()
		r.reportActive(n)
		r.logger.Info("Registry.Get: session=%s expired", id)
		return nil, ErrSessionNotFound
	}
	r.mu.Unlock()

	if !ok || session.Owner() != owner {
		return nil, ErrSessionNotFound
	}

	session.touch(now)
	return session, nil
}

// Delete удаляет сессию владельца
func (r *Registry) Delete(id, owner uuid.UUID) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok || session.Owner() != owner {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	r.reportActive(n)
	r.logger.Info("Registry.Delete: session=%s deleted", id)
	return nil
}

// Cleanup удаляет истекшие сессии и возвращает их количество
func (r *Registry) Cleanup() int {
	now := r.deps.Clock.Now()

	r.mu.Lock()
	removed := 0
	for id, session := range r.sessions {
		if session.expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	r.reportActive(n)
	if removed > 0 {
		r.logger.Info("Registry.Cleanup: removed %d expired sessions, %d active", removed, n)
	}
	return removed
}

// Run периодически вызывает Cleanup до отмены ctx
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

// Len количество активных сессий
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) reportActive(n int) {
	if r.metrics != nil {
		r.metrics.SetActiveSessions(n)
	}
}
