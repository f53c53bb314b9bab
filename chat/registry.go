package chat

import (
	"sync"

	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrUnknownSession = errors.New("unknown session")

// Registry keeps the live sessions. A session exists from Open until Close;
// nothing survives a Close.
type Registry struct {
	client Client
	deps   deps.Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(client Client, deps deps.Deps) *Registry {
	return &Registry{client: client, deps: deps, sessions: make(map[string]*Session)}
}

func (registry *Registry) Open() *Session {
	session := NewSession(uuid.NewString(), registry.client, registry.deps)
	registry.mu.Lock()
	registry.sessions[session.ID()] = session
	registry.mu.Unlock()
	registry.deps.Logger.Debug("session opened", "id", session.ID())
	return session
}

func (registry *Registry) Get(id string) (*Session, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	session, ok := registry.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSession, "session %q", id)
	}
	return session, nil
}

// Close discards the session. An in-flight request still runs to completion
// but its result is no longer reachable.
func (registry *Registry) Close(id string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, ok := registry.sessions[id]; !ok {
		return errors.Wrapf(ErrUnknownSession, "session %q", id)
	}
	delete(registry.sessions, id)
	registry.deps.Logger.Debug("session closed", "id", id)
	return nil
}

func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.sessions)
}
