package rtspengine

import (
	"sync"
	"time"

	"github.com/bluenviron/rtspengine/pkg/liberrors"
)

type sessionRegistryEntry struct {
	ss      *ServerSession
	timeout time.Duration
	timer   *time.Timer
}

// SessionRegistry contains the sessions of a server.
// Sessions are removed when they are not touched for longer than their timeout.
type SessionRegistry struct {
	// called when a session is removed, with the reason of the removal (optional).
	// It is never called while the registry is locked.
	OnExpire func(ss *ServerSession, err error)

	mutex    sync.Mutex
	sessions map[string]*sessionRegistryEntry
	closed   bool
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(ss *ServerSession, timeout time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return liberrors.ErrServerTerminated{}
	}

	if r.sessions == nil {
		r.sessions = make(map[string]*sessionRegistryEntry)
	}

	if old, ok := r.sessions[ss.id]; ok {
		old.timer.Stop()
	}

	e := &sessionRegistryEntry{
		ss:      ss,
		timeout: timeout,
	}
	e.timer = time.AfterFunc(timeout, func() {
		r.expire(ss.id, e, liberrors.ErrServerSessionTimedOut{})
	})

	r.sessions[ss.id] = e
	return nil
}

// Get returns a session.
func (r *SessionRegistry) Get(id string) (*ServerSession, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.ss, true
}

// Touch postpones the expiration of a session.
// It returns false if the session doesn't exist.
func (r *SessionRegistry) Touch(id string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return false
	}

	e.timer.Reset(e.timeout)
	return true
}

// Expire removes a session immediately.
// It returns false if the session doesn't exist.
func (r *SessionRegistry) Expire(id string, err error) bool {
	r.mutex.Lock()
	e, ok := r.sessions[id]
	r.mutex.Unlock()

	if !ok {
		return false
	}

	return r.expire(id, e, err)
}

func (r *SessionRegistry) expire(id string, e *sessionRegistryEntry, err error) bool {
	r.mutex.Lock()

	// the session has been removed or replaced in the meanwhile
	if r.sessions[id] != e {
		r.mutex.Unlock()
		return false
	}

	e.timer.Stop()
	delete(r.sessions, id)
	r.mutex.Unlock()

	if r.OnExpire != nil {
		r.OnExpire(e.ss, err)
	}
	return true
}

// Len returns the number of sessions.
func (r *SessionRegistry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.sessions)
}

// Close removes all sessions. Sessions can't be registered anymore.
func (r *SessionRegistry) Close() {
	r.mutex.Lock()
	r.closed = true
	entries := r.sessions
	r.sessions = nil
	r.mutex.Unlock()

	for _, e := range entries {
		e.timer.Stop()

		if r.OnExpire != nil {
			r.OnExpire(e.ss, liberrors.ErrServerTerminated{})
		}
	}
}
