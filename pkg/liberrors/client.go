// Package liberrors contains errors returned by the library.
package liberrors

import (
	"fmt"

	"github.com/bluenviron/rtspengine/pkg/base"
)

// ErrClientTerminated is returned when Close() is called.
type ErrClientTerminated struct{}

// Error implements the error interface.
func (e ErrClientTerminated) Error() string {
	return "terminated"
}

// ErrClientNotStarted is returned when a request is performed before Start().
type ErrClientNotStarted struct{}

// Error implements the error interface.
func (e ErrClientNotStarted) Error() string {
	return "client is not started"
}

// ErrClientUnsupportedScheme is returned in case of an unsupported URL scheme.
type ErrClientUnsupportedScheme struct {
	Scheme string
}

// Error implements the error interface.
func (e ErrClientUnsupportedScheme) Error() string {
	return fmt.Sprintf("unsupported scheme '%s'", e.Scheme)
}

// ErrClientInvalidStateTransition is returned when a method can't be performed in the current state.
// It is returned before any request is sent.
type ErrClientInvalidStateTransition struct {
	From      fmt.Stringer
	Attempted base.Method
}

// Error implements the error interface.
func (e ErrClientInvalidStateTransition) Error() string {
	return fmt.Sprintf("can't perform %v while in state %v", e.Attempted, e.From)
}

// ErrClientSequenceMismatch is returned when the CSeq of a response
// is different from the one of the request.
type ErrClientSequenceMismatch struct {
	Expected int
	Actual   string
}

// Error implements the error interface.
func (e ErrClientSequenceMismatch) Error() string {
	return fmt.Sprintf("CSeq mismatch: expected %d, got '%s'", e.Expected, e.Actual)
}

// ErrClientSessionMismatch is returned when the Session of a response
// is different from the one of the current session.
type ErrClientSessionMismatch struct {
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e ErrClientSessionMismatch) Error() string {
	return fmt.Sprintf("session mismatch: expected '%s', got '%s'", e.Expected, e.Actual)
}

// ErrClientTimeout is returned when a response is not received in time.
type ErrClientTimeout struct{}

// Error implements the error interface.
func (e ErrClientTimeout) Error() string {
	return "timed out while waiting for a response"
}

// ErrClientBadStatusCode is returned in case of a non-2xx status code.
type ErrClientBadStatusCode struct {
	Code    base.StatusCode
	Message string
}

// Error implements the error interface.
func (e ErrClientBadStatusCode) Error() string {
	return fmt.Sprintf("bad status code: %d (%s)", e.Code, e.Message)
}

// ErrClientUnexpectedRequest is returned when a request is received instead of a response.
type ErrClientUnexpectedRequest struct {
	Method base.Method
}

// Error implements the error interface.
func (e ErrClientUnexpectedRequest) Error() string {
	return fmt.Sprintf("received unexpected %v request", e.Method)
}

// ErrClientSessionHeaderInvalid is returned in case of an invalid session header.
type ErrClientSessionHeaderInvalid struct {
	Value string
}

// Error implements the error interface.
func (e ErrClientSessionHeaderInvalid) Error() string {
	return fmt.Sprintf("invalid session header '%s'", e.Value)
}

// ErrClientTransportHeaderMissing is returned when a SETUP response doesn't contain a Transport header.
type ErrClientTransportHeaderMissing struct{}

// Error implements the error interface.
func (e ErrClientTransportHeaderMissing) Error() string {
	return "Transport header is missing"
}

// ErrClientTransportHeaderNoInterleavedIDs is returned in case the transport header doesn't contain interleaved IDs.
type ErrClientTransportHeaderNoInterleavedIDs struct{}

// Error implements the error interface.
func (e ErrClientTransportHeaderNoInterleavedIDs) Error() string {
	return "transport header does not contain interleaved IDs"
}

// ErrClientContentTypeMissing is returned in case the Content-Type header is missing.
type ErrClientContentTypeMissing struct{}

// Error implements the error interface.
func (e ErrClientContentTypeMissing) Error() string {
	return "Content-Type header is missing"
}

// ErrClientContentTypeUnsupported is returned in case the Content-Type header is unsupported.
type ErrClientContentTypeUnsupported struct {
	CT string
}

// Error implements the error interface.
func (e ErrClientContentTypeUnsupported) Error() string {
	return fmt.Sprintf("unsupported Content-Type header '%v'", e.CT)
}

// ErrClientUnknownChannel is returned when an interleaved frame is received on a channel
// that has not been setupped.
type ErrClientUnknownChannel struct {
	Channel int
}

// Error implements the error interface.
func (e ErrClientUnknownChannel) Error() string {
	return fmt.Sprintf("received interleaved frame on unknown channel %d", e.Channel)
}

// ErrClientNotRecording is returned when writing packets while the session is not recording.
type ErrClientNotRecording struct{}

// Error implements the error interface.
func (e ErrClientNotRecording) Error() string {
	return "session is not recording"
}

// ErrClientInvalidTrackID is returned when writing packets to a track that has not been setupped.
type ErrClientInvalidTrackID struct {
	TrackID int
}

// Error implements the error interface.
func (e ErrClientInvalidTrackID) Error() string {
	return fmt.Sprintf("invalid track ID: %d", e.TrackID)
}
