package rtspengine

import (
	"fmt"

	"github.com/bluenviron/rtspengine/pkg/base"
)

// SessionState is the state of a RTSP session.
// It is shared by client and server sessions.
type SessionState int

// session states.
const (
	SessionStateInit SessionState = iota
	SessionStateReady
	SessionStatePlaying
	SessionStateRecording
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case SessionStateInit:
		return "init"
	case SessionStateReady:
		return "ready"
	case SessionStatePlaying:
		return "playing"
	case SessionStateRecording:
		return "recording"
	}
	return "unknown"
}

type sessionTransition struct {
	allowed []SessionState
	next    SessionState
}

// methods that are not listed don't depend on nor change the state.
var sessionTransitions = map[base.Method]sessionTransition{
	base.Setup: {
		allowed: []SessionState{SessionStateInit, SessionStateReady},
		next:    SessionStateReady,
	},
	base.Play: {
		allowed: []SessionState{SessionStateReady},
		next:    SessionStatePlaying,
	},
	base.Record: {
		allowed: []SessionState{SessionStateReady},
		next:    SessionStateRecording,
	},
	base.Pause: {
		allowed: []SessionState{SessionStatePlaying, SessionStateRecording},
		next:    SessionStateReady,
	},
	base.Teardown: {
		next: SessionStateInit,
	},
}

// allowedStates returns the states in which a method can be performed.
// It returns nil if the method can be performed in any state.
func allowedStates(method base.Method) []SessionState {
	return sessionTransitions[method].allowed
}

func stringers(states []SessionState) []fmt.Stringer {
	ret := make([]fmt.Stringer, len(states))
	for i, s := range states {
		ret[i] = s
	}
	return ret
}

// canPerform returns whether a method can be performed in a state.
func (s SessionState) canPerform(method base.Method) bool {
	allowed := allowedStates(method)
	if allowed == nil {
		return true
	}

	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

// after returns the state that follows a successful request.
func (s SessionState) after(method base.Method) SessionState {
	if t, ok := sessionTransitions[method]; ok {
		return t.next
	}
	return s
}

// interleavedChannel is the destination of an interleaved channel.
type interleavedChannel struct {
	trackID int
	isRTCP  bool
}
