package rtspengine

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/rtcp"
	"github.com/pion/rtp"

	"github.com/bluenviron/rtspengine/pkg/base"
	"github.com/bluenviron/rtspengine/pkg/headers"
	"github.com/bluenviron/rtspengine/pkg/liberrors"
)

func newSessionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

type serverSessionTrack struct {
	url       string
	transport *headers.Transport
}

// ServerSessionOnPacketRTPCtx is the context of a RTP packet received by a session.
type ServerSessionOnPacketRTPCtx struct {
	TrackID int
	Packet  *rtp.Packet
}

// ServerSessionOnPacketRTCPCtx is the context of a RTCP packet received by a session.
type ServerSessionOnPacketRTCPCtx struct {
	TrackID int
	Packet  rtcp.Packet
}

// ServerSession is a server-side RTSP session.
type ServerSession struct {
	s       *Server
	id      string
	timeout uint

	mutex        sync.Mutex
	state        SessionState
	conn         *ServerConn
	tracks       []*serverSessionTrack
	channels     map[int]interleavedChannel
	userData     interface{}
	onPacketRTP  func(*ServerSessionOnPacketRTPCtx)
	onPacketRTCP func(*ServerSessionOnPacketRTCPCtx)
}

func newServerSession(s *Server, sc *ServerConn) *ServerSession {
	return &ServerSession{
		s:            s,
		id:           newSessionID(),
		timeout:      uint(s.SessionTimeout / time.Second),
		conn:         sc,
		channels:     make(map[int]interleavedChannel),
		onPacketRTP:  func(*ServerSessionOnPacketRTPCtx) {},
		onPacketRTCP: func(*ServerSessionOnPacketRTCPCtx) {},
	}
}

// ID returns the session ID.
func (ss *ServerSession) ID() string {
	return ss.id
}

// State returns the state of the session.
func (ss *ServerSession) State() SessionState {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return ss.state
}

// SetuppedTracks returns the URLs of the setupped tracks.
func (ss *ServerSession) SetuppedTracks() []string {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	ret := make([]string, len(ss.tracks))
	for i, tr := range ss.tracks {
		ret[i] = tr.url
	}
	return ret
}

// SetUserData sets some user data associated with the session.
func (ss *ServerSession) SetUserData(v interface{}) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.userData = v
}

// UserData returns some user data associated with the session.
func (ss *ServerSession) UserData() interface{} {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return ss.userData
}

// OnPacketRTP sets the callback that is called when a RTP packet is received.
func (ss *ServerSession) OnPacketRTP(cb func(*ServerSessionOnPacketRTPCtx)) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.onPacketRTP = cb
}

// OnPacketRTCP sets the callback that is called when a RTCP packet is received.
func (ss *ServerSession) OnPacketRTCP(cb func(*ServerSessionOnPacketRTCPCtx)) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.onPacketRTCP = cb
}

// Close closes the session.
func (ss *ServerSession) Close() {
	ss.s.sessions.Expire(ss.id, liberrors.ErrServerTerminated{})
}

func (ss *ServerSession) linkedConn() *ServerConn {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return ss.conn
}

func (ss *ServerSession) header() base.HeaderValue {
	timeout := ss.timeout
	return base.SessionValue(headers.Session{
		Session: ss.id,
		Timeout: &timeout,
	})
}

func (ss *ServerSession) checkState(req *base.Message) (SessionState, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	if !ss.state.canPerform(req.Method) {
		return ss.state, liberrors.ErrServerInvalidState{
			AllowedList: stringers(allowedStates(req.Method)),
			State:       ss.state,
		}
	}
	return ss.state, nil
}

func (ss *ServerSession) handleSetup(
	sc *ServerConn,
	req *base.Message,
	path string,
	query string,
	th *headers.Transport,
) (*base.Message, error) {
	_, err := ss.checkState(req)
	if err != nil {
		return sc.reject(req, base.StatusMethodNotValidInThisState, err)
	}

	ss.mutex.Lock()
	_, rtpUsed := ss.channels[th.Interleaved.RTPChannel]
	_, rtcpUsed := ss.channels[th.Interleaved.RTCPChannel]
	ss.mutex.Unlock()

	if rtpUsed || rtcpUsed {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerTransportHeaderInterleavedIDsAlreadyUsed{})
	}

	res := base.NewResponse(base.StatusOK, nil)

	if h, ok := ss.s.Handler.(ServerHandlerOnSetup); ok {
		res, err = h.OnSetup(&ServerHandlerOnSetupCtx{
			Session:   ss,
			Conn:      sc,
			Request:   req,
			Path:      path,
			Query:     query,
			Transport: th,
		})
		if err != nil || !res.StatusCode.IsSuccess() {
			return res, err
		}
	}

	ss.mutex.Lock()
	trackID := len(ss.tracks)
	ss.tracks = append(ss.tracks, &serverSessionTrack{
		url:       req.URI,
		transport: th,
	})
	ss.channels[th.Interleaved.RTPChannel] = interleavedChannel{trackID: trackID}
	ss.channels[th.Interleaved.RTCPChannel] = interleavedChannel{trackID: trackID, isRTCP: true}
	ss.state = ss.state.after(base.Setup)
	ss.mutex.Unlock()

	broadcast := headers.BroadcastTypeUnicast
	res.Header.Set(base.KeyTransport, base.TransportValue(headers.Transport{ //nolint:errcheck
		StreamingProtocol: th.StreamingProtocol,
		Profile:           th.Profile,
		TransportProtocol: th.TransportProtocol,
		BroadcastType:     &broadcast,
		Interleaved:       th.Interleaved,
	}))
	res.Header.Set(base.KeySession, ss.header()) //nolint:errcheck

	return res, nil
}

func (ss *ServerSession) handleRequest(
	sc *ServerConn,
	req *base.Message,
	path string,
	query string,
) (*base.Message, error) {
	_, err := ss.checkState(req)
	if err != nil {
		return sc.reject(req, base.StatusMethodNotValidInThisState, err)
	}

	var res *base.Message

	switch req.Method {
	case base.Play:
		h, ok := ss.s.Handler.(ServerHandlerOnPlay)
		if !ok {
			return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
		}

		res, err = h.OnPlay(&ServerHandlerOnPlayCtx{
			Session: ss,
			Conn:    sc,
			Request: req,
			Path:    path,
			Query:   query,
		})

	case base.Record:
		h, ok := ss.s.Handler.(ServerHandlerOnRecord)
		if !ok {
			return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
		}

		res, err = h.OnRecord(&ServerHandlerOnRecordCtx{
			Session: ss,
			Conn:    sc,
			Request: req,
			Path:    path,
			Query:   query,
		})

	case base.Pause:
		h, ok := ss.s.Handler.(ServerHandlerOnPause)
		if !ok {
			return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
		}

		res, err = h.OnPause(&ServerHandlerOnPauseCtx{
			Session: ss,
			Conn:    sc,
			Request: req,
			Path:    path,
			Query:   query,
		})

	case base.Teardown:
		res = base.NewResponse(base.StatusOK, nil)

	default: // GET_PARAMETER, SET_PARAMETER
		res, err = sc.handleParameter(ss, req, path, query)
	}

	if err != nil || !res.StatusCode.IsSuccess() {
		return res, err
	}

	ss.mutex.Lock()
	ss.state = ss.state.after(req.Method)
	ss.mutex.Unlock()

	res.Header.Set(base.KeySession, ss.header()) //nolint:errcheck

	return res, nil
}

func (ss *ServerSession) decodeError(err error) {
	if h, ok := ss.s.Handler.(ServerHandlerOnDecodeError); ok {
		h.OnDecodeError(&ServerHandlerOnDecodeErrorCtx{
			Session: ss,
			Error:   err,
		})
	}
}

func (ss *ServerSession) handleFrame(fr *base.InterleavedFrame) {
	ss.mutex.Lock()
	ch, ok := ss.channels[fr.Channel]
	onPacketRTP := ss.onPacketRTP
	onPacketRTCP := ss.onPacketRTCP
	ss.mutex.Unlock()

	if !ok {
		ss.decodeError(liberrors.ErrServerUnexpectedFrame{})
		return
	}

	// media flowing on the connection keeps the session alive
	ss.s.sessions.Touch(ss.id)

	if ch.isRTCP {
		pkts, err := rtcp.Unmarshal(fr.Payload)
		if err != nil {
			ss.decodeError(err)
			return
		}

		for _, pkt := range pkts {
			onPacketRTCP(&ServerSessionOnPacketRTCPCtx{
				TrackID: ch.trackID,
				Packet:  pkt,
			})
		}
		return
	}

	var pkt rtp.Packet
	err := pkt.Unmarshal(fr.Payload)
	if err != nil {
		ss.decodeError(err)
		return
	}

	onPacketRTP(&ServerSessionOnPacketRTPCtx{
		TrackID: ch.trackID,
		Packet:  &pkt,
	})
}

func (ss *ServerSession) frameDestination(trackID int, isRTCP bool) (*ServerConn, int, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	allowed := []SessionState{SessionStatePlaying}
	if isRTCP {
		allowed = append(allowed, SessionStateRecording)
	}

	stateOK := false
	for _, s := range allowed {
		if s == ss.state {
			stateOK = true
		}
	}

	if !stateOK {
		return nil, 0, liberrors.ErrServerInvalidState{
			AllowedList: stringers(allowed),
			State:       ss.state,
		}
	}

	if trackID < 0 || trackID >= len(ss.tracks) {
		return nil, 0, liberrors.ErrServerInvalidTrackID{TrackID: trackID}
	}

	if ss.conn == nil {
		return nil, 0, liberrors.ErrServerTerminated{}
	}

	if isRTCP {
		return ss.conn, ss.tracks[trackID].transport.Interleaved.RTCPChannel, nil
	}
	return ss.conn, ss.tracks[trackID].transport.Interleaved.RTPChannel, nil
}

func (ss *ServerSession) writeFrame(trackID int, isRTCP bool, payload []byte) error {
	sc, channel, err := ss.frameDestination(trackID, isRTCP)
	if err != nil {
		return err
	}

	return sc.writeInterleavedFrame(&base.InterleavedFrame{
		Channel: channel,
		Payload: payload,
	})
}

// WritePacketRTP writes a RTP packet to the session.
// It can be called only when the session is playing.
func (ss *ServerSession) WritePacketRTP(trackID int, pkt *rtp.Packet) error {
	byts, err := pkt.Marshal()
	if err != nil {
		return err
	}

	return ss.writeFrame(trackID, false, byts)
}

// WritePacketRTCP writes a RTCP packet to the session.
// It can be called only when the session is playing or recording.
func (ss *ServerSession) WritePacketRTCP(trackID int, pkt rtcp.Packet) error {
	byts, err := pkt.Marshal()
	if err != nil {
		return err
	}

	return ss.writeFrame(trackID, true, byts)
}

// onExpire is called by the registry when the session is removed.
func (ss *ServerSession) onExpire(err error) {
	ss.mutex.Lock()
	sc := ss.conn
	ss.conn = nil
	ss.state = SessionStateInit
	ss.mutex.Unlock()

	if sc != nil {
		sc.unlinkSession(ss)

		if _, ok := err.(liberrors.ErrServerSessionTimedOut); ok {
			sc.Close()
		}
	}

	if h, ok := ss.s.Handler.(ServerHandlerOnSessionClose); ok {
		h.OnSessionClose(&ServerHandlerOnSessionCloseCtx{
			Session: ss,
			Error:   err,
		})
	}
}
