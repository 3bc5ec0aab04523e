/*
Package rtspengine is a RTSP 1.0 protocol engine for the Go programming language.

It contains a client that drives the RTSP session state machine and a server
that exposes the same state machine to remote clients.
*/
package rtspengine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"

	"github.com/bluenviron/rtspengine/pkg/base"
	"github.com/bluenviron/rtspengine/pkg/conn"
	"github.com/bluenviron/rtspengine/pkg/headers"
	"github.com/bluenviron/rtspengine/pkg/liberrors"
	"github.com/bluenviron/rtspengine/pkg/sdp"
)

const (
	contentTypeSDP = "application/sdp"

	// keep-alives are sent before the session timeout expires.
	keepAliveFactor = 0.8
)

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

// ClientTransport is the transport used by a Client to exchange messages with a server.
// It is implemented by conn.Conn.
type ClientTransport interface {
	// Send writes a message.
	Send(ctx context.Context, byts []byte) error

	// Receive reads the next message.
	Receive(ctx context.Context) ([]byte, error)
}

// ClientOnPacketRTPCtx is the context of a RTP packet.
type ClientOnPacketRTPCtx struct {
	TrackID int
	Packet  *rtp.Packet
}

// ClientOnPacketRTCPCtx is the context of a RTCP packet.
type ClientOnPacketRTCPCtx struct {
	TrackID int
	Packet  rtcp.Packet
}

type clientTrack struct {
	url       string
	transport *headers.Transport
}

// Client is a RTSP client.
// Requests are serialized: only one request can be outstanding at a time.
//
// A request that times out does not advance CSeq. If its response arrives later,
// it is taken as the response of the next request; responses with a CSeq lower
// than the expected one are discarded. Callers that need strict correlation
// after a timeout should reopen the connection.
type Client struct {
	//
	// RTSP parameters (all optional)
	//
	// transport used to exchange messages.
	// It defaults to a TCP connection to the target, opened by Start().
	Transport ClientTransport
	// timeout of requests, used when the context has no deadline.
	// It defaults to 10 seconds.
	ReadTimeout time.Duration
	// user agent header.
	// It defaults to base.UserAgent.
	UserAgent string

	//
	// system functions (all optional)
	//
	// function used to initialize the TCP client.
	// It defaults to (&net.Dialer{}).DialContext.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)
	// logger of protocol violations.
	// It defaults to slog.Default().
	Logger *slog.Logger

	//
	// callbacks (all optional)
	//
	// called before every request.
	OnRequest func(*base.Message)
	// called after every response.
	OnResponse func(*base.Message)
	// called when receiving a RTP packet.
	OnPacketRTP func(*ClientOnPacketRTPCtx)
	// called when receiving a RTCP packet.
	OnPacketRTCP func(*ClientOnPacketRTCPCtx)
	// called when there's a non-fatal decoding error of RTP or RTCP packets.
	OnDecodeError func(error)

	//
	// private
	//

	mutex                 sync.Mutex
	sendMutex             sync.Mutex
	writeMutex            sync.RWMutex
	ctx                   context.Context
	ctxCancel             func()
	target                string
	nconn                 net.Conn
	started               bool
	closed                atomic.Bool
	state                 SessionState
	cseq                  int
	session               *headers.Session
	supportedMethods      []base.Method
	contentBase           string
	mediaControlTracks    []string
	aggregateControlTrack string
	tracks                []*clientTrack
	channels              map[int]interleavedChannel
	writeChannels         []int // record
}

// Start initializes the client.
// If Transport is nil, a TCP connection to the target is opened.
func (c *Client) Start(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return err
	}

	if u.Scheme != "rtsp" {
		return liberrors.ErrClientUnsupportedScheme{Scheme: u.Scheme}
	}

	// RTSP parameters
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = base.UserAgent
	}

	// system functions
	if c.DialContext == nil {
		c.DialContext = (&net.Dialer{}).DialContext
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	// callbacks
	if c.OnRequest == nil {
		c.OnRequest = func(*base.Message) {}
	}
	if c.OnResponse == nil {
		c.OnResponse = func(*base.Message) {}
	}
	if c.OnPacketRTP == nil {
		c.OnPacketRTP = func(*ClientOnPacketRTPCtx) {}
	}
	if c.OnPacketRTCP == nil {
		c.OnPacketRTCP = func(*ClientOnPacketRTCPCtx) {}
	}
	if c.OnDecodeError == nil {
		c.OnDecodeError = func(error) {}
	}

	if c.Transport == nil {
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "554")
		}

		dialCtx, dialCtxCancel := context.WithTimeout(context.Background(), c.ReadTimeout)
		defer dialCtxCancel()

		nconn, err := c.DialContext(dialCtx, "tcp", host)
		if err != nil {
			return err
		}

		c.nconn = nconn
		c.Transport = conn.NewConn(nconn)
	}

	if cn, ok := c.Transport.(*conn.Conn); ok && cn.OnInterleavedFrame == nil {
		cn.OnInterleavedFrame = c.handleInterleavedFrame
	}

	c.ctx, c.ctxCancel = context.WithCancel(context.Background())
	c.target = target
	c.state = SessionStateInit
	c.cseq = 1
	c.channels = make(map[int]interleavedChannel)
	c.started = true

	return nil
}

// Close closes the connection opened by Start(), if any.
// Pending requests and ReadPackets() are interrupted.
func (c *Client) Close() error {
	c.closed.Store(true)

	if c.ctxCancel != nil {
		c.ctxCancel()
	}

	if c.nconn != nil {
		return c.nconn.Close()
	}
	return nil
}

// State returns the session state.
func (c *Client) State() SessionState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// CSeq returns the sequence number of the next request.
func (c *Client) CSeq() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cseq
}

// Session returns the current session, or nil if no session has been established.
func (c *Client) Session() *headers.Session {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.session == nil {
		return nil
	}

	s := *c.session
	return &s
}

// SupportedMethods returns the methods advertised by the server in the last OPTIONS response.
func (c *Client) SupportedMethods() []base.Method {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]base.Method(nil), c.supportedMethods...)
}

// ContentBase returns the base URL obtained with the last DESCRIBE or ANNOUNCE.
func (c *Client) ContentBase() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.contentBase
}

// MediaControlTracks returns the absolute URLs of the medias
// obtained with the last DESCRIBE or ANNOUNCE.
func (c *Client) MediaControlTracks() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]string(nil), c.mediaControlTracks...)
}

// AggregateControlTrack returns the absolute URL of the whole stream
// obtained with the last DESCRIBE or ANNOUNCE.
func (c *Client) AggregateControlTrack() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.aggregateControlTrack
}

// KeepAlivePeriod returns the period of keep-alives, derived from the session timeout.
func (c *Client) KeepAlivePeriod() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	timeout := uint(headers.DefaultSessionTimeout)
	if c.session != nil {
		timeout = c.session.TimeoutOrDefault()
	}

	return time.Duration(float64(timeout) * keepAliveFactor * float64(time.Second))
}

func (c *Client) checkStarted() error {
	if c.closed.Load() {
		return liberrors.ErrClientTerminated{}
	}
	if !c.started {
		return liberrors.ErrClientNotStarted{}
	}
	return nil
}

func (c *Client) checkState(method base.Method) error {
	if !c.state.canPerform(method) {
		return liberrors.ErrClientInvalidStateTransition{
			From:      c.state,
			Attempted: method,
		}
	}
	return nil
}

func (c *Client) uri(trackURI string) string {
	if trackURI == "" {
		return c.target
	}
	return trackURI
}

func (c *Client) newRequest(method base.Method, uri string) *base.Message {
	var h base.Header
	h.Set(base.KeyCSeq, base.IntValue(c.cseq))              //nolint:errcheck
	h.Set(base.KeyUserAgent, base.StringValue(c.UserAgent)) //nolint:errcheck

	if c.session != nil {
		h.Set(base.KeySession, base.SessionValue(headers.Session{Session: c.session.Session})) //nolint:errcheck
	}

	return base.NewRequest(method, uri, h)
}

func (c *Client) send(ctx context.Context, byts []byte) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.Transport.Send(ctx, byts)
}

// do performs a request and validates the response.
// In case of a correlation error, the response is returned together with the error.
func (c *Client) do(ctx context.Context, req *base.Message) (*base.Message, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ReadTimeout)
		defer cancel()
	}

	ctx, cancel := c.bindContext(ctx)
	defer cancel()

	c.OnRequest(req)

	buf, err := req.Marshal()
	if err != nil {
		return nil, err
	}

	err = c.send(ctx, buf)
	if err != nil {
		return nil, c.transportError(err)
	}

	res, err := c.receiveResponse(ctx, req)
	if err != nil {
		return nil, err
	}

	c.OnResponse(res)

	if cseq, ok := res.Header.CSeq(); !ok || cseq != c.cseq {
		actual := ""
		if v, ok := res.Header.Get(base.KeyCSeq); ok {
			actual = v.String()
		}

		c.Logger.Warn("CSeq mismatch",
			"method", req.Method, "expected", c.cseq, "actual", actual)

		return res, liberrors.ErrClientSequenceMismatch{
			Expected: c.cseq,
			Actual:   actual,
		}
	}

	if c.session != nil {
		if v, ok := res.Header.Get(base.KeySession); ok {
			actual := v.String()
			if s, ok := res.Header.Session(); ok {
				actual = s.Session
			}

			if actual != c.session.Session {
				c.Logger.Warn("session mismatch",
					"method", req.Method, "expected", c.session.Session, "actual", actual)

				return res, liberrors.ErrClientSessionMismatch{
					Expected: c.session.Session,
					Actual:   actual,
				}
			}
		}
	}

	c.cseq++

	if !res.StatusCode.IsSuccess() {
		return res, liberrors.ErrClientBadStatusCode{
			Code:    res.StatusCode,
			Message: res.StatusMessage,
		}
	}

	return res, nil
}

// bindContext returns a context that is canceled when the client is closed.
func (c *Client) bindContext(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Client) transportError(err error) error {
	switch {
	case c.closed.Load():
		return liberrors.ErrClientTerminated{}
	case isTimeout(err):
		return liberrors.ErrClientTimeout{}
	default:
		return err
	}
}

// receiveResponse reads the next response,
// discarding late responses of requests that timed out.
func (c *Client) receiveResponse(ctx context.Context, req *base.Message) (*base.Message, error) {
	for {
		buf, err := c.Transport.Receive(ctx)
		if err != nil {
			return nil, c.transportError(err)
		}

		var res base.Message
		err = res.Unmarshal(buf)
		if err != nil {
			return nil, err
		}

		if res.IsRequest() {
			return nil, liberrors.ErrClientUnexpectedRequest{Method: res.Method}
		}

		if cseq, ok := res.Header.CSeq(); ok && cseq < c.cseq {
			c.Logger.Warn("discarding late response",
				"method", req.Method, "cseq", cseq, "status", res.StatusCode)
			continue
		}

		return &res, nil
	}
}

// doTransition performs a request that depends on the session state,
// and applies the state transition in case of success.
func (c *Client) doTransition(ctx context.Context, req *base.Message) (*base.Message, error) {
	err := c.checkState(req.Method)
	if err != nil {
		return nil, err
	}

	res, err := c.do(ctx, req)
	if err != nil {
		return res, err
	}

	c.setState(c.state.after(req.Method))
	return res, nil
}

func (c *Client) setState(s SessionState) {
	if s != c.state {
		c.Logger.Debug("session state changed", "from", c.state, "to", s)
	}
	c.state = s
}

// Options sends an OPTIONS request.
// The methods listed in the Public header are returned by SupportedMethods().
func (c *Client) Options(ctx context.Context) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	res, err := c.do(ctx, c.newRequest(base.Options, c.target))
	if err != nil {
		return res, err
	}

	c.supportedMethods = res.Header.Public()
	return res, nil
}

func (c *Client) setControls(contentBase string, sd *sdp.SessionDescription) error {
	var tracks []string
	for _, ctl := range sd.MediaControls() {
		u, err := base.ResolveControl(contentBase, ctl)
		if err != nil {
			return err
		}
		tracks = append(tracks, u)
	}

	ctl, _ := sd.Control()
	aggregate, err := base.ResolveControl(contentBase, ctl)
	if err != nil {
		return err
	}

	c.contentBase = contentBase
	c.mediaControlTracks = tracks
	c.aggregateControlTrack = aggregate
	return nil
}

// Describe sends a DESCRIBE request.
// The track URLs contained in the session description are returned by
// MediaControlTracks() and AggregateControlTrack().
func (c *Client) Describe(ctx context.Context) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	res, err := c.do(ctx, c.newRequest(base.Describe, c.target))
	if err != nil {
		return res, err
	}

	ct, ok := res.Header.ContentType()
	if !ok {
		return res, liberrors.ErrClientContentTypeMissing{}
	}

	if ct != contentTypeSDP || res.SDP == nil {
		return res, liberrors.ErrClientContentTypeUnsupported{CT: ct}
	}

	// use Content-Base, or the URL of the request
	contentBase, ok := res.Header.ContentBase()
	if !ok {
		contentBase = c.target
	}

	err = c.setControls(contentBase, res.SDP)
	if err != nil {
		return res, err
	}

	return res, nil
}

// Announce sends an ANNOUNCE request, containing a session description.
func (c *Client) Announce(ctx context.Context, uri string, sd *sdp.SessionDescription) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	uri = c.uri(uri)

	req := c.newRequest(base.Announce, uri)
	err = req.SetSDP(sd)
	if err != nil {
		return nil, err
	}

	res, err := c.do(ctx, req)
	if err != nil {
		return res, err
	}

	err = c.setControls(uri, sd)
	if err != nil {
		return res, err
	}

	return res, nil
}

func (c *Client) defaultTransport() *headers.Transport {
	broadcast := headers.BroadcastTypeUnicast
	return &headers.Transport{
		StreamingProtocol: "RTP",
		Profile:           "AVP",
		TransportProtocol: "TCP",
		BroadcastType:     &broadcast,
		Interleaved: &headers.InterleavedIDs{
			RTPChannel:  len(c.tracks) * 2,
			RTCPChannel: len(c.tracks)*2 + 1,
		},
	}
}

// Setup sends a SETUP request.
// If th is nil, interleaved TCP channels are requested.
func (c *Client) Setup(ctx context.Context, trackURI string, th *headers.Transport) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	err = c.checkState(base.Setup)
	if err != nil {
		return nil, err
	}

	if th == nil {
		th = c.defaultTransport()
	}

	uri := c.uri(trackURI)

	req := c.newRequest(base.Setup, uri)
	req.Header.Set(base.KeyTransport, base.TransportValue(*th)) //nolint:errcheck

	res, err := c.do(ctx, req)
	if err != nil {
		return res, err
	}

	resTransport, ok := res.Header.Transport()
	if !ok {
		return res, liberrors.ErrClientTransportHeaderMissing{}
	}

	if th.TransportProtocol == "TCP" && resTransport.Interleaved == nil {
		return res, liberrors.ErrClientTransportHeaderNoInterleavedIDs{}
	}

	if c.session == nil {
		v, ok := res.Header.Get(base.KeySession)
		if !ok {
			return res, liberrors.ErrClientSessionHeaderInvalid{}
		}

		s, ok := res.Header.Session()
		if !ok {
			return res, liberrors.ErrClientSessionHeaderInvalid{Value: v.String()}
		}

		c.session = s
	}

	trackID := len(c.tracks)
	c.tracks = append(c.tracks, &clientTrack{
		url:       uri,
		transport: resTransport,
	})

	if resTransport.Interleaved != nil {
		c.channels[resTransport.Interleaved.RTPChannel] = interleavedChannel{trackID: trackID}
		c.channels[resTransport.Interleaved.RTCPChannel] = interleavedChannel{trackID: trackID, isRTCP: true}
	}

	c.setState(c.state.after(base.Setup))
	return res, nil
}

// Play sends a PLAY request.
// It can be called only when the session is ready.
func (c *Client) Play(ctx context.Context, trackURI string) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	return c.doTransition(ctx, c.newRequest(base.Play, c.uri(trackURI)))
}

// Record sends a RECORD request.
// It can be called only when the session is ready.
func (c *Client) Record(ctx context.Context, trackURI string) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	res, err := c.doTransition(ctx, c.newRequest(base.Record, c.uri(trackURI)))
	if err != nil {
		return res, err
	}

	writeChannels := make([]int, len(c.tracks))
	for i, tr := range c.tracks {
		writeChannels[i] = -1
		if tr.transport.Interleaved != nil {
			writeChannels[i] = tr.transport.Interleaved.RTPChannel
		}
	}

	c.writeMutex.Lock()
	c.writeChannels = writeChannels
	c.writeMutex.Unlock()

	return res, nil
}

func (c *Client) stopWriting() {
	c.writeMutex.Lock()
	c.writeChannels = nil
	c.writeMutex.Unlock()
}

// Pause sends a PAUSE request.
func (c *Client) Pause(ctx context.Context, trackURI string) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	res, err := c.doTransition(ctx, c.newRequest(base.Pause, c.uri(trackURI)))
	if err != nil {
		return res, err
	}

	c.stopWriting()
	return res, nil
}

// Teardown sends a TEARDOWN request.
// The session is cleared, while the sequence number is preserved.
func (c *Client) Teardown(ctx context.Context, trackURI string) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	res, err := c.doTransition(ctx, c.newRequest(base.Teardown, c.uri(trackURI)))
	if err != nil {
		return res, err
	}

	c.stopWriting()
	c.session = nil
	c.tracks = nil
	c.channels = make(map[int]interleavedChannel)

	return res, nil
}

// GetParameter sends a GET_PARAMETER request.
func (c *Client) GetParameter(ctx context.Context, trackURI string, body []byte) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	req := c.newRequest(base.GetParameter, c.uri(trackURI))
	if len(body) != 0 {
		req.SetBody(body)
	}

	return c.do(ctx, req)
}

// SetParameter sends a SET_PARAMETER request.
func (c *Client) SetParameter(ctx context.Context, trackURI string, body []byte) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	req := c.newRequest(base.SetParameter, c.uri(trackURI))
	if len(body) != 0 {
		req.SetBody(body)
	}

	return c.do(ctx, req)
}

// KeepAlive keeps the session alive.
// It sends a GET_PARAMETER request if the server supports it, otherwise an OPTIONS request.
func (c *Client) KeepAlive(ctx context.Context) (*base.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return nil, err
	}

	uri := c.aggregateControlTrack
	if uri == "" {
		uri = c.target
	}

	method := base.Options
	for _, m := range c.supportedMethods {
		if m == base.GetParameter {
			method = base.GetParameter
			break
		}
	}

	return c.do(ctx, c.newRequest(method, uri))
}

// ReadPackets reads interleaved frames until the context is done or the client is closed,
// passing RTP and RTCP packets to OnPacketRTP and OnPacketRTCP.
func (c *Client) ReadPackets(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	err := c.checkStarted()
	if err != nil {
		return err
	}

	ctx, cancel := c.bindContext(ctx)
	defer cancel()

	for {
		buf, err := c.Transport.Receive(ctx)
		if err != nil {
			if c.closed.Load() {
				return liberrors.ErrClientTerminated{}
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg base.Message
		err = msg.Unmarshal(buf)
		if err != nil {
			return err
		}

		if msg.IsRequest() {
			return liberrors.ErrClientUnexpectedRequest{Method: msg.Method}
		}

		c.Logger.Warn("discarding unexpected response", "status", msg.StatusCode)
	}
}

func (c *Client) handleInterleavedFrame(fr *base.InterleavedFrame) {
	ch, ok := c.channels[fr.Channel]
	if !ok {
		c.OnDecodeError(liberrors.ErrClientUnknownChannel{Channel: fr.Channel})
		return
	}

	if ch.isRTCP {
		pkts, err := rtcp.Unmarshal(fr.Payload)
		if err != nil {
			c.OnDecodeError(err)
			return
		}

		for _, pkt := range pkts {
			c.OnPacketRTCP(&ClientOnPacketRTCPCtx{
				TrackID: ch.trackID,
				Packet:  pkt,
			})
		}
		return
	}

	var pkt rtp.Packet
	err := pkt.Unmarshal(fr.Payload)
	if err != nil {
		c.OnDecodeError(err)
		return
	}

	c.OnPacketRTP(&ClientOnPacketRTPCtx{
		TrackID: ch.trackID,
		Packet:  &pkt,
	})
}

func (c *Client) writeFrame(trackID int, rtcpChannel bool, payload []byte) error {
	c.writeMutex.RLock()
	defer c.writeMutex.RUnlock()

	if c.writeChannels == nil {
		return liberrors.ErrClientNotRecording{}
	}

	if trackID < 0 || trackID >= len(c.writeChannels) || c.writeChannels[trackID] < 0 {
		return liberrors.ErrClientInvalidTrackID{TrackID: trackID}
	}

	channel := c.writeChannels[trackID]
	if rtcpChannel {
		channel++
	}

	fr := base.InterleavedFrame{
		Channel: channel,
		Payload: payload,
	}

	buf, err := fr.Marshal()
	if err != nil {
		return err
	}

	return c.send(context.Background(), buf)
}

// WritePacketRTP writes a RTP packet to the server.
// It can be called only when the session is recording.
func (c *Client) WritePacketRTP(trackID int, pkt *rtp.Packet) error {
	byts, err := pkt.Marshal()
	if err != nil {
		return err
	}

	return c.writeFrame(trackID, false, byts)
}

// WritePacketRTCP writes a RTCP packet to the server.
// It can be called only when the session is recording.
func (c *Client) WritePacketRTCP(trackID int, pkt rtcp.Packet) error {
	byts, err := pkt.Marshal()
	if err != nil {
		return err
	}

	return c.writeFrame(trackID, true, byts)
}
