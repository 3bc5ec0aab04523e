// Package sdp contains the SDP codec used for RTSP message bodies.
package sdp

import (
	"strings"

	psdp "github.com/pion/sdp/v3"
)

// SessionDescription is a SDP session description.
type SessionDescription psdp.SessionDescription

// normalize strips leading blank lines and makes sure that every line
// terminates with CRLF, as required by the decoder.
func normalize(byts []byte) []byte {
	str := strings.ReplaceAll(string(byts), "\r\n", "\n")
	str = strings.TrimSpace(str)

	lines := strings.Split(str, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r ")
	}

	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// Unmarshal decodes a SessionDescription.
func (s *SessionDescription) Unmarshal(byts []byte) error {
	var sd psdp.SessionDescription
	err := sd.Unmarshal(normalize(byts))
	if err != nil {
		return err
	}

	*s = SessionDescription(sd)
	return nil
}

// Marshal encodes a SessionDescription.
func (s *SessionDescription) Marshal() ([]byte, error) {
	return (*psdp.SessionDescription)(s).Marshal()
}

// String implements fmt.Stringer.
func (s *SessionDescription) String() string {
	byts, _ := s.Marshal()
	return string(byts)
}

// Attribute returns the value of a session-level attribute and if it exists.
func (s *SessionDescription) Attribute(key string) (string, bool) {
	return (*psdp.SessionDescription)(s).Attribute(key)
}

// Control returns the session-level (aggregate) control attribute.
func (s *SessionDescription) Control() (string, bool) {
	return s.Attribute("control")
}

// MediaControls returns the control attributes of every media, in order.
// Medias without a control attribute are returned as empty strings.
func (s *SessionDescription) MediaControls() []string {
	ret := make([]string, len(s.MediaDescriptions))

	for i, md := range s.MediaDescriptions {
		if v, ok := md.Attribute("control"); ok {
			ret[i] = v
		}
	}

	return ret
}
