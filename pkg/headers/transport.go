package headers

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// ErrTransportBadPrefix is returned when the protocol/profile prefix of a Transport header is invalid.
type ErrTransportBadPrefix struct {
	Value string
}

// Error implements the error interface.
func (e ErrTransportBadPrefix) Error() string {
	return fmt.Sprintf("invalid transport prefix (%v)", e.Value)
}

// BroadcastType is the broadcast type of a stream.
type BroadcastType string

// broadcast types.
const (
	BroadcastTypeUnicast   BroadcastType = "unicast"
	BroadcastTypeMulticast BroadcastType = "multicast"
)

// PortPair is a RTP/RTCP port pair.
type PortPair struct {
	RTP int

	// nil when a single port is provided
	RTCP *int
}

func (p PortPair) marshal() string {
	ret := strconv.FormatInt(int64(p.RTP), 10)
	if p.RTCP != nil {
		ret += "-" + strconv.FormatInt(int64(*p.RTCP), 10)
	}
	return ret
}

// InterleavedIDs are the channels of interleaved frames.
type InterleavedIDs struct {
	RTPChannel  int
	RTCPChannel int
}

// Transport is a Transport header.
type Transport struct {
	// streaming protocol, i.e. RTP
	StreamingProtocol string

	// profile, i.e. AVP
	Profile string

	// (optional) lower transport, i.e. TCP or UDP
	TransportProtocol string

	// (optional) broadcast type
	BroadcastType *BroadcastType

	// (optional) destination
	Destination *string

	// (optional) source
	Source *string

	// (optional) client ports
	ClientPorts *PortPair

	// (optional) server ports
	ServerPorts *PortPair

	// (optional) interleaved frame ids
	Interleaved *InterleavedIDs

	// (optional) TTL
	TTL *uint

	// (optional) SSRC
	SSRC *uint32

	// (optional) mode
	Mode *string

	// (optional) channel
	Channel *string

	// (optional) address
	Address *string

	// (optional) ports
	Ports *PortPair
}

type transportParser struct {
	s   string
	pos int
}

func (p *transportParser) eof() bool {
	return p.pos >= len(p.s)
}

func (p *transportParser) accept(c byte) bool {
	if !p.eof() && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// upper3 reads a token made of exactly three upper-case letters.
func (p *transportParser) upper3() (string, bool) {
	if p.pos+3 > len(p.s) {
		return "", false
	}

	for i := 0; i < 3; i++ {
		c := p.s[p.pos+i]
		if c < 'A' || c > 'Z' {
			return "", false
		}
	}

	tok := p.s[p.pos : p.pos+3]
	p.pos += 3
	return tok, true
}

func (p *transportParser) prefix(h *Transport) bool {
	var ok bool

	h.StreamingProtocol, ok = p.upper3()
	if !ok || !p.accept('/') {
		return false
	}

	h.Profile, ok = p.upper3()
	if !ok {
		return false
	}

	if p.accept('/') {
		h.TransportProtocol, ok = p.upper3()
		if !ok {
			return false
		}
	}

	return p.eof() || p.accept(';')
}

// clause reads a clause until the next separator that is not between quotes.
func (p *transportParser) clause() string {
	start := p.pos
	inQuotes := false

	for !p.eof() {
		c := p.s[p.pos]
		if c == '"' {
			inQuotes = !inQuotes
		} else if c == ';' && !inQuotes {
			break
		}
		p.pos++
	}

	ret := p.s[start:p.pos]
	p.accept(';')
	return strings.TrimSpace(ret)
}

func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func parsePortPair(s string) (*PortPair, bool) {
	first, second, ok := strings.Cut(s, "-")
	if !ok {
		return nil, false
	}

	rtp, ok := parseNumber(first)
	if !ok {
		return nil, false
	}

	rtcp, ok := parseNumber(second)
	if !ok {
		return nil, false
	}

	return &PortPair{RTP: rtp, RTCP: &rtcp}, true
}

func parsePorts(s string) (*PortPair, bool) {
	if strings.Contains(s, "-") {
		return parsePortPair(s)
	}

	rtp, ok := parseNumber(s)
	if !ok {
		return nil, false
	}

	return &PortPair{RTP: rtp}, true
}

func isIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

func isHostname(s string) bool {
	if s == "" {
		return false
	}

	_, err := idna.Lookup.ToASCII(s)
	return err == nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func (h *Transport) unmarshalClause(c string) {
	key, val, hasVal := strings.Cut(c, "=")

	switch key {
	case "unicast", "multicast":
		if !hasVal {
			v := BroadcastType(key)
			h.BroadcastType = &v
		}

	case "destination":
		if isIPv4(val) {
			h.Destination = &val
		}

	case "source":
		if isIPv4(val) {
			h.Source = &val
		}

	case "client_port":
		if ports, ok := parsePortPair(val); ok {
			h.ClientPorts = ports
		}

	case "server_port":
		if ports, ok := parsePortPair(val); ok {
			h.ServerPorts = ports
		}

	case "interleaved":
		if ports, ok := parsePortPair(val); ok {
			h.Interleaved = &InterleavedIDs{
				RTPChannel:  ports.RTP,
				RTCPChannel: *ports.RTCP,
			}
		}

	case "ttl":
		if v, ok := parseNumber(val); ok {
			uv := uint(v)
			h.TTL = &uv
		}

	case "ssrc":
		if len(val) > 0 && len(val) <= 8 {
			if v, err := strconv.ParseUint(val, 16, 32); err == nil {
				uv := uint32(v)
				h.SSRC = &uv
			}
		}

	case "mode":
		if v := unquote(val); v != "" {
			h.Mode = &v
		}

	case "channel":
		if val != "" {
			h.Channel = &val
		}

	case "address":
		if isIPv4(val) || isHostname(val) {
			h.Address = &val
		}

	case "port":
		if ports, ok := parsePorts(val); ok {
			h.Ports = ports
		}
	}

	// ignore non-standard and malformed clauses
}

// Unmarshal decodes a Transport header.
func (h *Transport) Unmarshal(v string) error {
	*h = Transport{}

	p := transportParser{s: strings.TrimSpace(v)}

	if !p.prefix(h) {
		*h = Transport{}
		return ErrTransportBadPrefix{Value: v}
	}

	for !p.eof() {
		c := p.clause()
		if c != "" {
			h.unmarshalClause(c)
		}
	}

	return nil
}

// Marshal encodes a Transport header.
func (h Transport) Marshal() string {
	prefix := h.StreamingProtocol + "/" + h.Profile
	if h.TransportProtocol != "" {
		prefix += "/" + h.TransportProtocol
	}

	rets := []string{prefix}

	if h.BroadcastType != nil {
		rets = append(rets, string(*h.BroadcastType))
	}

	if h.Destination != nil {
		rets = append(rets, "destination="+*h.Destination)
	}

	if h.Source != nil {
		rets = append(rets, "source="+*h.Source)
	}

	if h.ClientPorts != nil {
		rets = append(rets, "client_port="+h.ClientPorts.marshal())
	}

	if h.ServerPorts != nil {
		rets = append(rets, "server_port="+h.ServerPorts.marshal())
	}

	if h.Interleaved != nil {
		rets = append(rets, "interleaved="+strconv.FormatInt(int64(h.Interleaved.RTPChannel), 10)+
			"-"+strconv.FormatInt(int64(h.Interleaved.RTCPChannel), 10))
	}

	if h.TTL != nil {
		rets = append(rets, "ttl="+strconv.FormatUint(uint64(*h.TTL), 10))
	}

	if h.SSRC != nil {
		rets = append(rets, fmt.Sprintf("ssrc=%08X", *h.SSRC))
	}

	if h.Mode != nil {
		if strings.ContainsAny(*h.Mode, ";,") {
			rets = append(rets, "mode=\""+*h.Mode+"\"")
		} else {
			rets = append(rets, "mode="+*h.Mode)
		}
	}

	if h.Channel != nil {
		rets = append(rets, "channel="+*h.Channel)
	}

	if h.Address != nil {
		rets = append(rets, "address="+*h.Address)
	}

	if h.Ports != nil {
		rets = append(rets, "port="+h.Ports.marshal())
	}

	return strings.Join(rets, ";")
}
