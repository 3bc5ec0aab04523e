package base

import (
	"strconv"
	"strings"

	"github.com/bluenviron/rtspengine/pkg/headers"
)

// HeaderValueKind is the kind of a HeaderValue.
type HeaderValueKind int

// header value kinds.
const (
	HeaderValueKindString HeaderValueKind = iota
	HeaderValueKindInt
	HeaderValueKindSession
	HeaderValueKindTransport
	HeaderValueKindList
)

// HeaderItem is an entry of a list value.
type HeaderItem struct {
	// (optional) key. Items with a key are encoded as key=value.
	Key string

	Value string
}

// HeaderValue is a header value.
// It can be a string, an integer, a Session or Transport header, or a list.
type HeaderValue struct {
	kind      HeaderValueKind
	str       string
	num       int
	session   *headers.Session
	transport *headers.Transport
	items     []HeaderItem
}

// StringValue allocates a string value.
func StringValue(v string) HeaderValue {
	return HeaderValue{kind: HeaderValueKindString, str: v}
}

// IntValue allocates an integer value.
func IntValue(v int) HeaderValue {
	return HeaderValue{kind: HeaderValueKindInt, num: v}
}

// SessionValue allocates a Session value.
func SessionValue(v headers.Session) HeaderValue {
	return HeaderValue{kind: HeaderValueKindSession, session: &v}
}

// TransportValue allocates a Transport value.
func TransportValue(v headers.Transport) HeaderValue {
	return HeaderValue{kind: HeaderValueKindTransport, transport: &v}
}

// ListValue allocates a list value.
func ListValue(items ...HeaderItem) HeaderValue {
	return HeaderValue{kind: HeaderValueKindList, items: items}
}

// Kind returns the kind of the value.
func (v HeaderValue) Kind() HeaderValueKind {
	return v.kind
}

// AsString returns the value if it is a string.
func (v HeaderValue) AsString() (string, bool) {
	return v.str, v.kind == HeaderValueKindString
}

// AsInt returns the value if it is an integer.
func (v HeaderValue) AsInt() (int, bool) {
	return v.num, v.kind == HeaderValueKindInt
}

// AsSession returns the value if it is a Session header.
func (v HeaderValue) AsSession() (*headers.Session, bool) {
	return v.session, v.kind == HeaderValueKindSession
}

// AsTransport returns the value if it is a Transport header.
func (v HeaderValue) AsTransport() (*headers.Transport, bool) {
	return v.transport, v.kind == HeaderValueKindTransport
}

// Items returns the entries of a list value.
func (v HeaderValue) Items() []HeaderItem {
	return v.items
}

func (v HeaderValue) encode(separator string) string {
	switch v.kind {
	case HeaderValueKindInt:
		return strconv.FormatInt(int64(v.num), 10)

	case HeaderValueKindSession:
		return v.session.Marshal()

	case HeaderValueKindTransport:
		return v.transport.Marshal()

	case HeaderValueKindList:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			if item.Key != "" {
				parts[i] = item.Key + "=" + item.Value
			} else {
				parts[i] = item.Value
			}
		}
		return strings.Join(parts, separator)
	}

	return v.str
}

// String implements fmt.Stringer.
func (v HeaderValue) String() string {
	return v.encode(";")
}
