package headers

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSessionTimeout is the session timeout used when the Session header doesn't specify one.
const DefaultSessionTimeout = 60

// Session is a Session header.
type Session struct {
	// session id
	Session string

	// (optional) a timeout
	Timeout *uint
}

// Unmarshal decodes a Session header.
func (h *Session) Unmarshal(v string) error {
	parts := strings.Split(v, ";")

	id := strings.TrimSpace(parts[0])
	if id == "" {
		return fmt.Errorf("invalid value (%v)", v)
	}

	h.Session = id
	h.Timeout = nil

	for _, part := range parts[1:] {
		// remove leading spaces
		part = strings.TrimLeft(part, " ")

		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("invalid value (%v)", v)
		}

		// ignore non-standard keys
		if key != "timeout" {
			continue
		}

		iv, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid timeout (%v)", val)
		}
		uiv := uint(iv)
		h.Timeout = &uiv
	}

	return nil
}

// Marshal encodes a Session header.
func (h Session) Marshal() string {
	ret := h.Session

	if h.Timeout != nil {
		ret += ";timeout=" + strconv.FormatUint(uint64(*h.Timeout), 10)
	}

	return ret
}

// TimeoutOrDefault returns the timeout in seconds, or the default one.
func (h Session) TimeoutOrDefault() uint {
	if h.Timeout != nil {
		return *h.Timeout
	}
	return DefaultSessionTimeout
}
