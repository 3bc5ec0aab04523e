package base

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bluenviron/rtspengine/pkg/sdp"
)

const (
	// Version10 is the RTSP version 1.0.
	Version10 = "1.0"

	protocolRTSP = "RTSP"
	protocolHTTP = "HTTP"
)

// Message is a RTSP request or response.
type Message struct {
	// request method. Empty in responses.
	Method Method

	// request target. "*" is kept as is.
	URI string

	// response status code. Zero in requests.
	StatusCode StatusCode

	// response status message
	StatusMessage string

	// protocol of the request or status line (RTSP or HTTP).
	// It defaults to RTSP.
	Protocol string

	// protocol version. It defaults to 1.0.
	Version string

	// headers
	Header Header

	// (optional) body.
	// It is nil when the message has no body or when the body is a session description.
	Body []byte

	// (optional) session description, present when Content-Type is application/sdp.
	SDP *sdp.SessionDescription
}

// NewRequest allocates a request with the default headers of the method,
// overridden by the given ones.
func NewRequest(method Method, uri string, h Header) *Message {
	header := Defaults(method)
	header.Merge(h)

	return &Message{
		Method:   method,
		URI:      uri,
		Protocol: protocolRTSP,
		Version:  Version10,
		Header:   header,
	}
}

// NewResponse allocates a response.
// The status message is filled in with the reason phrase of the code, if known.
func NewResponse(code StatusCode, body []byte) *Message {
	msg, _ := ReasonFor(code)

	res := &Message{
		StatusCode:    code,
		StatusMessage: msg,
		Protocol:      protocolRTSP,
		Version:       Version10,
	}

	if len(body) != 0 {
		res.SetBody(body)
	}

	return res
}

// IsRequest returns whether the message is a request.
func (m Message) IsRequest() bool {
	return m.Method != ""
}

// SetBody sets a raw body. Content-Length is filled in if not present.
func (m *Message) SetBody(body []byte) {
	m.Body = body
	m.SDP = nil

	if !m.Header.Has(KeyContentLength) {
		m.Header.set(KeyContentLength, IntValue(len(body)))
	}
}

// SetSDP sets a session description as body. Content-Length is filled in if not present.
func (m *Message) SetSDP(sd *sdp.SessionDescription) error {
	byts, err := sd.Marshal()
	if err != nil {
		return err
	}

	m.Body = nil
	m.SDP = sd

	if !m.Header.Has(KeyContentLength) {
		m.Header.set(KeyContentLength, IntValue(len(byts)))
	}

	return nil
}

func (m Message) body() ([]byte, error) {
	if m.SDP != nil {
		return m.SDP.Marshal()
	}
	return m.Body, nil
}

// Marshal encodes a Message.
func (m Message) Marshal() ([]byte, error) {
	version := m.Version
	if version == "" {
		version = Version10
	}

	var sb strings.Builder

	if m.IsRequest() {
		sb.WriteString(string(m.Method) + " " + m.URI + " " + protocolRTSP + "/" + version + "\r\n")
	} else {
		protocol := m.Protocol
		if protocol == "" {
			protocol = protocolRTSP
		}

		statusMessage := m.StatusMessage
		if statusMessage == "" {
			statusMessage, _ = ReasonFor(m.StatusCode)
		}

		sb.WriteString(protocol + "/" + version + " " +
			strconv.FormatInt(int64(m.StatusCode), 10) + " " + statusMessage + "\r\n")
	}

	sb.WriteString(m.Header.marshal())

	body, err := m.body()
	if err != nil {
		return nil, err
	}
	sb.Write(body)

	return []byte(sb.String()), nil
}

// String implements fmt.Stringer.
func (m Message) String() string {
	buf, _ := m.Marshal()
	return string(buf)
}

func isVersion(s string) bool {
	major, minor, ok := strings.Cut(s, ".")
	return ok && isDigits(major) && isDigits(minor)
}

func (m *Message) unmarshalStatusLine(line string) error {
	protocol, rest, _ := strings.Cut(line, "/")

	version, rest, ok := strings.Cut(rest, " ")
	if !ok || !isVersion(version) {
		return ProtocolError{Kind: ProtocolErrorCorruptStatusLine, Value: line}
	}

	code, reason, _ := strings.Cut(rest, " ")
	if len(code) != 3 || !isDigits(code) {
		return ProtocolError{Kind: ProtocolErrorCorruptStatusLine, Value: line}
	}
	tmp, _ := strconv.ParseInt(code, 10, 64)

	m.Protocol = protocol
	m.Version = version
	m.StatusCode = StatusCode(tmp)
	m.StatusMessage = reason
	return nil
}

func (m *Message) unmarshalRequestLine(line string) error {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" ||
		!strings.HasPrefix(parts[2], protocolRTSP+"/") ||
		!isVersion(parts[2][len(protocolRTSP)+1:]) {
		return ProtocolError{Kind: ProtocolErrorCorruptStatusLine, Value: line}
	}

	method, err := ParseMethod(parts[0])
	if err != nil {
		return err
	}

	m.Method = method
	m.URI = parts[1]
	m.Protocol = protocolRTSP
	m.Version = parts[2][len(protocolRTSP)+1:]
	return nil
}

func (m *Message) unmarshalBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	if ct, ok := m.Header.ContentType(); ok && ct == "application/sdp" {
		var sd sdp.SessionDescription
		err := sd.Unmarshal([]byte(body))
		if err != nil {
			return fmt.Errorf("invalid SDP: %w", err)
		}

		m.SDP = &sd
		return nil
	}

	m.Body = []byte(body)
	return nil
}

// Unmarshal decodes a Message.
func (m *Message) Unmarshal(byts []byte) error {
	*m = Message{}

	str := strings.TrimLeft(string(byts), "\r\n")
	if str == "" {
		return ProtocolError{Kind: ProtocolErrorEmpty}
	}

	head, body, hasBody := strings.Cut(str, "\r\n\r\n")
	lines := strings.Split(head, "\r\n")

	var err error
	if strings.HasPrefix(lines[0], protocolRTSP+"/") || strings.HasPrefix(lines[0], protocolHTTP+"/") {
		err = m.unmarshalStatusLine(lines[0])
	} else {
		err = m.unmarshalRequestLine(lines[0])
	}
	if err != nil {
		return err
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}

		err = m.Header.unmarshalLine(line)
		if err != nil {
			return err
		}
	}

	if hasBody {
		err = m.unmarshalBody(body)
		if err != nil {
			return err
		}
	}

	return nil
}
