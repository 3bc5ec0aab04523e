// Package base contains the primitives of the RTSP protocol.
package base

// Method is the method of a RTSP request.
type Method string

// methods.
const (
	Announce     Method = "ANNOUNCE"
	Describe     Method = "DESCRIBE"
	GetParameter Method = "GET_PARAMETER"
	Options      Method = "OPTIONS"
	Pause        Method = "PAUSE"
	Play         Method = "PLAY"
	Record       Method = "RECORD"
	Redirect     Method = "REDIRECT"
	Setup        Method = "SETUP"
	SetParameter Method = "SET_PARAMETER"
	Teardown     Method = "TEARDOWN"
)

// Methods contains all supported methods.
var Methods = []Method{
	Options,
	Describe,
	Announce,
	Setup,
	Play,
	Pause,
	Teardown,
	GetParameter,
	SetParameter,
	Redirect,
	Record,
}

// ParseMethod parses a method.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ProtocolError{Kind: ProtocolErrorUnknownMethod, Value: s}
}
