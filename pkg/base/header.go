package base

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bluenviron/rtspengine/pkg/headers"
)

// header keys.
const (
	KeyAccept        = "accept"
	KeyCSeq          = "cseq"
	KeyContentBase   = "content_base"
	KeyContentLength = "content_length"
	KeyContentType   = "content_type"
	KeyLocation      = "location"
	KeyPublic        = "public"
	KeyRange         = "range"
	KeySession       = "session"
	KeyTransport     = "transport"
	KeyUserAgent     = "user_agent"
)

// keys moved to the top of the header block, in this order.
var hoistedKeys = [...]string{KeyCSeq, KeyUserAgent, KeySession}

func isHoisted(key string) bool {
	for _, k := range hoistedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func isSymbolicKey(key string) bool {
	if key == "" || key[0] < 'a' || key[0] > 'z' {
		return false
	}

	for _, c := range []byte(key[1:]) {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}

	return true
}

// NormalizeKey converts a header name into its canonical key,
// lower-case with underscores (i.e. Content-Type becomes content_type).
func NormalizeKey(name string) (string, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")

	if !isSymbolicKey(key) {
		return "", HeaderError{Kind: HeaderErrorNonSymbolicKey, Key: name}
	}

	return key, nil
}

// CanonicalName converts a header key into the name used on the wire
// (i.e. content_type becomes Content-Type).
func CanonicalName(key string) string {
	key = strings.ReplaceAll(strings.ToLower(key), "-", "_")

	if key == KeyCSeq {
		return "CSeq"
	}

	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}

	return strings.Join(parts, "-")
}

// HeaderEntry is a key-value pair of a Header.
type HeaderEntry struct {
	Key   string
	Value HeaderValue
}

// Header is an ordered set of RTSP headers, present in both requests and responses.
// The zero value is an empty Header.
type Header struct {
	entries []HeaderEntry
}

// NewHeader allocates a Header.
func NewHeader(entries ...HeaderEntry) (Header, error) {
	var h Header

	for _, e := range entries {
		err := h.Set(e.Key, e.Value)
		if err != nil {
			return Header{}, err
		}
	}

	return h, nil
}

func (h Header) index(key string) int {
	for i, e := range h.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// set stores a value with an already normalized key.
func (h *Header) set(key string, v HeaderValue) {
	if i := h.index(key); i >= 0 {
		h.entries[i].Value = v
		return
	}
	h.entries = append(h.entries, HeaderEntry{Key: key, Value: v})
}

// Set sets a header value, replacing any existing one with the same key.
func (h *Header) Set(name string, v HeaderValue) error {
	key, err := NormalizeKey(name)
	if err != nil {
		return err
	}

	h.set(key, v)
	return nil
}

// Get returns a header value and if it exists.
func (h Header) Get(name string) (HeaderValue, bool) {
	key, err := NormalizeKey(name)
	if err != nil {
		return HeaderValue{}, false
	}

	i := h.index(key)
	if i < 0 {
		return HeaderValue{}, false
	}
	return h.entries[i].Value, true
}

// Has returns whether a header exists.
func (h Header) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Del removes a header.
func (h *Header) Del(name string) {
	key, err := NormalizeKey(name)
	if err != nil {
		return
	}

	if i := h.index(key); i >= 0 {
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
	}
}

// Len returns the number of headers.
func (h Header) Len() int {
	return len(h.entries)
}

// Keys returns the header keys in insertion order.
func (h Header) Keys() []string {
	ret := make([]string, len(h.entries))
	for i, e := range h.entries {
		ret[i] = e.Key
	}
	return ret
}

// Entries returns the headers in insertion order.
func (h Header) Entries() []HeaderEntry {
	return append([]HeaderEntry(nil), h.entries...)
}

// Clone clones a Header.
func (h Header) Clone() Header {
	return Header{entries: h.Entries()}
}

// Merge sets all the headers of another Header.
func (h *Header) Merge(other Header) {
	for _, e := range other.entries {
		h.set(e.Key, e.Value)
	}
}

// CSeq returns the CSeq header.
func (h Header) CSeq() (int, bool) {
	v, ok := h.Get(KeyCSeq)
	if !ok {
		return 0, false
	}

	if n, ok := v.AsInt(); ok {
		return n, true
	}

	n, err := strconv.ParseInt(v.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Session returns the Session header.
func (h Header) Session() (*headers.Session, bool) {
	v, ok := h.Get(KeySession)
	if !ok {
		return nil, false
	}

	if s, ok := v.AsSession(); ok {
		return s, true
	}

	var s headers.Session
	err := s.Unmarshal(v.String())
	if err != nil {
		return nil, false
	}
	return &s, true
}

// Transport returns the Transport header.
func (h Header) Transport() (*headers.Transport, bool) {
	v, ok := h.Get(KeyTransport)
	if !ok {
		return nil, false
	}

	if t, ok := v.AsTransport(); ok {
		return t, true
	}

	var t headers.Transport
	err := t.Unmarshal(v.String())
	if err != nil {
		return nil, false
	}
	return &t, true
}

// ContentType returns the Content-Type header, without parameters.
func (h Header) ContentType() (string, bool) {
	v, ok := h.Get(KeyContentType)
	if !ok {
		return "", false
	}

	if v.Kind() == HeaderValueKindList {
		for _, item := range v.Items() {
			if item.Key == "" {
				return strings.TrimSpace(item.Value), true
			}
		}
		return "", false
	}

	ct, _, _ := strings.Cut(v.String(), ";")
	return strings.TrimSpace(ct), true
}

// ContentLength returns the Content-Length header.
func (h Header) ContentLength() (int, bool) {
	v, ok := h.Get(KeyContentLength)
	if !ok {
		return 0, false
	}

	if n, ok := v.AsInt(); ok {
		return n, true
	}
	return 0, false
}

// ContentBase returns the Content-Base header.
func (h Header) ContentBase() (string, bool) {
	v, ok := h.Get(KeyContentBase)
	if !ok || v.String() == "" {
		return "", false
	}
	return v.String(), true
}

// Public returns the methods listed in the Public header.
// Unknown methods are skipped.
func (h Header) Public() []Method {
	v, ok := h.Get(KeyPublic)
	if !ok {
		return nil
	}

	var raw []string
	if v.Kind() == HeaderValueKindList {
		for _, item := range v.Items() {
			raw = append(raw, item.Value)
		}
	} else {
		raw = strings.Split(v.String(), ",")
	}

	var ret []Method
	for _, s := range raw {
		m, err := ParseMethod(strings.TrimSpace(s))
		if err == nil {
			ret = append(ret, m)
		}
	}
	return ret
}

// ordered returns the entries in wire order: CSeq, User-Agent and Session first,
// then the other headers in insertion order.
func (h Header) ordered() []HeaderEntry {
	ret := make([]HeaderEntry, 0, len(h.entries))

	for _, key := range hoistedKeys {
		if i := h.index(key); i >= 0 {
			ret = append(ret, h.entries[i])
		}
	}

	for _, e := range h.entries {
		if !isHoisted(e.Key) {
			ret = append(ret, e)
		}
	}

	return ret
}

func (h Header) marshal() string {
	var sb strings.Builder

	for _, e := range h.ordered() {
		name := CanonicalName(e.Key)

		separator := ";"
		if name == "Content-Type" {
			separator = ", "
		}

		sb.WriteString(name + ": " + e.Value.encode(separator) + "\r\n")
	}

	sb.WriteString("\r\n")
	return sb.String()
}

// String implements fmt.Stringer.
func (h Header) String() string {
	return h.marshal()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func unmarshalHeaderValue(key string, val string) (HeaderValue, error) {
	if val == "" {
		return StringValue(""), nil
	}

	switch key {
	case KeySession:
		var s headers.Session
		err := s.Unmarshal(val)
		if err != nil {
			return StringValue(val), nil //nolint:nilerr
		}
		return SessionValue(s), nil

	case KeyTransport:
		var t headers.Transport
		err := t.Unmarshal(val)
		if err != nil {
			return HeaderValue{}, fmt.Errorf("invalid transport header: %w", err)
		}
		return TransportValue(t), nil
	}

	if isDigits(val) {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return IntValue(int(n)), nil
		}
	}

	return StringValue(val), nil
}

func (h *Header) unmarshalLine(line string) error {
	name, val, ok := strings.Cut(line, ":")
	if !ok {
		// lines without a separator are not headers
		return nil
	}

	key, err := NormalizeKey(name)
	if err != nil {
		return err
	}

	v, err := unmarshalHeaderValue(key, strings.TrimSpace(val))
	if err != nil {
		return err
	}

	h.set(key, v)
	return nil
}
