package rtspengine

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bluenviron/rtspengine/pkg/base"
	"github.com/bluenviron/rtspengine/pkg/conn"
	"github.com/bluenviron/rtspengine/pkg/description"
	"github.com/bluenviron/rtspengine/pkg/liberrors"
)

func getSessionID(h base.Header) string {
	if s, ok := h.Session(); ok {
		return s.Session
	}
	if v, ok := h.Get(base.KeySession); ok {
		return v.String()
	}
	return ""
}

func getPathAndQuery(uri string) (string, string) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", ""
	}

	// remove leading slash
	return strings.TrimPrefix(u.Path, "/"), u.RawQuery
}

func prepareForDescribe(d *description.Session) *description.Session {
	out := &description.Session{
		Title:   d.Title,
		Control: d.Control,
	}

	for i, medi := range d.Medias {
		m := *medi

		// we have to use trackID=number in order to support clients
		// that need a control attribute.
		if m.Control == "" {
			m.Control = "trackID=" + strconv.FormatInt(int64(i), 10)
		}

		out.Medias = append(out.Medias, &m)
	}

	return out
}

// ServerConn is a server-side RTSP connection.
type ServerConn struct {
	s     *Server
	nconn net.Conn

	ctx        context.Context
	ctxCancel  func()
	conn       *conn.Conn
	writeMutex sync.Mutex
	propsMutex sync.RWMutex
	session    *ServerSession
	userData   interface{}

	// out
	done chan struct{}
}

func (sc *ServerConn) initialize() {
	sc.ctx, sc.ctxCancel = context.WithCancel(sc.s.ctx)
	sc.conn = conn.NewConn(sc.nconn)
	sc.done = make(chan struct{})

	// unblock reads when the connection is closed
	context.AfterFunc(sc.ctx, func() {
		sc.nconn.Close()
	})

	sc.s.wg.Add(1)
	go sc.run()
}

// Close closes the ServerConn.
func (sc *ServerConn) Close() {
	sc.ctxCancel()
}

// NetConn returns the underlying net.Conn.
func (sc *ServerConn) NetConn() net.Conn {
	return sc.nconn
}

// SetUserData sets some user data associated with the connection.
func (sc *ServerConn) SetUserData(v interface{}) {
	sc.propsMutex.Lock()
	defer sc.propsMutex.Unlock()
	sc.userData = v
}

// UserData returns some user data associated with the connection.
func (sc *ServerConn) UserData() interface{} {
	sc.propsMutex.RLock()
	defer sc.propsMutex.RUnlock()
	return sc.userData
}

// Session returns the associated session.
func (sc *ServerConn) Session() *ServerSession {
	sc.propsMutex.RLock()
	defer sc.propsMutex.RUnlock()
	return sc.session
}

func (sc *ServerConn) linkSession(ss *ServerSession) {
	sc.propsMutex.Lock()
	defer sc.propsMutex.Unlock()
	sc.session = ss
}

func (sc *ServerConn) unlinkSession(ss *ServerSession) {
	sc.propsMutex.Lock()
	defer sc.propsMutex.Unlock()

	if sc.session == ss {
		sc.session = nil
	}
}

func (sc *ServerConn) run() {
	defer sc.s.wg.Done()
	defer close(sc.done)

	if h, ok := sc.s.Handler.(ServerHandlerOnConnOpen); ok {
		h.OnConnOpen(&ServerHandlerOnConnOpenCtx{
			Conn: sc,
		})
	}

	err := sc.runInner()

	sc.ctxCancel()
	sc.nconn.Close()

	if ss := sc.Session(); ss != nil {
		sc.s.sessions.Expire(ss.id, err)
	}

	sc.s.closeConn(sc)

	if h, ok := sc.s.Handler.(ServerHandlerOnConnClose); ok {
		h.OnConnClose(&ServerHandlerOnConnCloseCtx{
			Conn:  sc,
			Error: err,
		})
	}
}

func (sc *ServerConn) runInner() error {
	for {
		// connections with a session are kept alive by the session timeout
		if sc.Session() == nil {
			sc.nconn.SetReadDeadline(time.Now().Add(sc.s.ReadTimeout)) //nolint:errcheck
		} else {
			sc.nconn.SetReadDeadline(time.Time{}) //nolint:errcheck
		}

		what, err := sc.conn.Read()
		if err != nil {
			switch {
			case sc.ctx.Err() != nil:
				return liberrors.ErrServerTerminated{}

			case errors.Is(err, os.ErrDeadlineExceeded):
				return liberrors.ErrServerNoRTSPRequestsInAWhile{}
			}
			return err
		}

		switch what := what.(type) {
		case *base.Message:
			if !what.IsRequest() {
				return liberrors.ErrServerUnexpectedResponse{}
			}

			err = sc.handleRequestOuter(what)
			if err != nil {
				return err
			}

		case *base.InterleavedFrame:
			ss := sc.Session()
			if ss == nil {
				return liberrors.ErrServerUnexpectedFrame{}
			}

			ss.handleFrame(what)
		}
	}
}

// reject builds an error response. The connection is kept open.
func (sc *ServerConn) reject(req *base.Message, code base.StatusCode, err error) (*base.Message, error) {
	sc.s.Logger.Warn("request rejected",
		"remote", sc.nconn.RemoteAddr(),
		"method", req.Method,
		"status", int(code),
		"err", err)

	return base.NewResponse(code, nil), nil
}

func (sc *ServerConn) handleRequestOuter(req *base.Message) error {
	if h, ok := sc.s.Handler.(ServerHandlerOnRequest); ok {
		h.OnRequest(sc, req)
	}

	res, err := sc.handleRequestInner(req)

	if res == nil {
		res = base.NewResponse(base.StatusInternalServerError, nil)
	}

	// add cseq
	if _, ok := err.(liberrors.ErrServerCSeqMissing); !ok {
		if v, ok := req.Header.Get(base.KeyCSeq); ok {
			res.Header.Set(base.KeyCSeq, v) //nolint:errcheck
		}
	}

	// add server
	res.Header.Set("Server", base.StringValue(base.UserAgent)) //nolint:errcheck

	if h, ok := sc.s.Handler.(ServerHandlerOnResponse); ok {
		h.OnResponse(sc, res)
	}

	err2 := sc.writeMessage(res)
	if err == nil && err2 != nil {
		err = err2
	}

	return err
}

func (sc *ServerConn) handleRequestInner(req *base.Message) (*base.Message, error) {
	if _, ok := req.Header.CSeq(); !ok {
		return base.NewResponse(base.StatusBadRequest, nil), liberrors.ErrServerCSeqMissing{}
	}

	sxID := getSessionID(req.Header)
	path, query := getPathAndQuery(req.URI)

	switch req.Method {
	case base.Options:
		if sxID != "" {
			ss, res, err := sc.findSession(req, sxID)
			if ss == nil {
				return res, err
			}
		}

		return sc.handleOptions(), nil

	case base.Describe:
		return sc.handleDescribe(req, path, query)

	case base.Announce:
		return sc.handleAnnounce(req, path, query)

	case base.Setup:
		return sc.handleSetup(req, sxID, path, query)

	case base.Play, base.Record, base.Pause, base.Teardown:
		ss, res, err := sc.findSession(req, sxID)
		if ss == nil {
			return res, err
		}

		res, err = ss.handleRequest(sc, req, path, query)

		if req.Method == base.Teardown && err == nil && res.StatusCode.IsSuccess() {
			sc.s.sessions.Expire(ss.id, liberrors.ErrServerSessionTornDown{Author: sc.nconn.RemoteAddr()})
		}

		return res, err

	case base.GetParameter, base.SetParameter:
		if sxID != "" {
			ss, res, err := sc.findSession(req, sxID)
			if ss == nil {
				return res, err
			}

			return ss.handleRequest(sc, req, path, query)
		}

		return sc.handleParameter(nil, req, path, query)
	}

	return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
}

// findSession returns the session of a request.
// If the session is not found, an error response is returned.
func (sc *ServerConn) findSession(req *base.Message, sxID string) (*ServerSession, *base.Message, error) {
	if sxID == "" {
		res, err := sc.reject(req, base.StatusSessionNotFound, liberrors.ErrServerSessionNotFound{})
		return nil, res, err
	}

	ss, ok := sc.s.sessions.Get(sxID)
	if !ok {
		res, err := sc.reject(req, base.StatusSessionNotFound, liberrors.ErrServerSessionNotFound{})
		return nil, res, err
	}

	if ss.linkedConn() != sc {
		res, err := sc.reject(req, base.StatusBadRequest, liberrors.ErrServerSessionLinkedToOtherConn{})
		return nil, res, err
	}

	sc.s.sessions.Touch(sxID)
	return ss, nil, nil
}

func (sc *ServerConn) handleOptions() *base.Message {
	var methods []string
	if _, ok := sc.s.Handler.(ServerHandlerOnDescribe); ok {
		methods = append(methods, string(base.Describe))
	}
	if _, ok := sc.s.Handler.(ServerHandlerOnAnnounce); ok {
		methods = append(methods, string(base.Announce))
	}
	methods = append(methods, string(base.Setup))
	if _, ok := sc.s.Handler.(ServerHandlerOnPlay); ok {
		methods = append(methods, string(base.Play))
	}
	if _, ok := sc.s.Handler.(ServerHandlerOnRecord); ok {
		methods = append(methods, string(base.Record))
	}
	if _, ok := sc.s.Handler.(ServerHandlerOnPause); ok {
		methods = append(methods, string(base.Pause))
	}
	methods = append(methods, string(base.GetParameter))
	if _, ok := sc.s.Handler.(ServerHandlerOnSetParameter); ok {
		methods = append(methods, string(base.SetParameter))
	}
	methods = append(methods, string(base.Teardown))

	res := base.NewResponse(base.StatusOK, nil)
	res.Header.Set(base.KeyPublic, base.StringValue(strings.Join(methods, ", "))) //nolint:errcheck
	return res
}

func (sc *ServerConn) handleDescribe(req *base.Message, path string, query string) (*base.Message, error) {
	h, ok := sc.s.Handler.(ServerHandlerOnDescribe)
	if !ok {
		return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
	}

	res, desc, err := h.OnDescribe(&ServerHandlerOnDescribeCtx{
		Conn:    sc,
		Request: req,
		Path:    path,
		Query:   query,
	})
	if err != nil || res == nil || !res.StatusCode.IsSuccess() || desc == nil {
		return res, err
	}

	res.Header.Set(base.KeyContentType, base.StringValue(contentTypeSDP)) //nolint:errcheck
	res.Header.Set(base.KeyContentBase, base.StringValue(req.URI+"/"))    //nolint:errcheck

	err = res.SetSDP(prepareForDescribe(desc).SDP(false))
	if err != nil {
		return base.NewResponse(base.StatusInternalServerError, nil), err
	}

	return res, nil
}

func (sc *ServerConn) handleAnnounce(req *base.Message, path string, query string) (*base.Message, error) {
	h, ok := sc.s.Handler.(ServerHandlerOnAnnounce)
	if !ok {
		return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
	}

	ct, ok := req.Header.ContentType()
	if !ok {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerContentTypeMissing{})
	}

	if ct != contentTypeSDP || req.SDP == nil {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerContentTypeUnsupported{CT: ct})
	}

	var desc description.Session
	err := desc.Unmarshal(req.SDP)
	if err != nil {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerSDPInvalid{Err: err})
	}

	return h.OnAnnounce(&ServerHandlerOnAnnounceCtx{
		Conn:        sc,
		Request:     req,
		Path:        path,
		Query:       query,
		Description: &desc,
	})
}

func (sc *ServerConn) handleSetup(
	req *base.Message,
	sxID string,
	path string,
	query string,
) (*base.Message, error) {
	th, ok := req.Header.Transport()
	if !ok {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerTransportHeaderMissing{})
	}

	if th.TransportProtocol != "TCP" {
		return sc.reject(req, base.StatusUnsupportedTransport,
			liberrors.ErrServerTransportHeaderUnsupported{Value: th.Marshal()})
	}

	if th.Interleaved == nil {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerTransportHeaderNoInterleavedIDs{})
	}

	if sxID != "" {
		ss, res, err := sc.findSession(req, sxID)
		if ss == nil {
			return res, err
		}

		return ss.handleSetup(sc, req, path, query, th)
	}

	if sc.Session() != nil {
		return sc.reject(req, base.StatusBadRequest, liberrors.ErrServerLinkedToOtherSession{})
	}

	ss := newServerSession(sc.s, sc)

	err := sc.s.sessions.Register(ss, sc.s.SessionTimeout)
	if err != nil {
		return base.NewResponse(base.StatusServiceUnavailable, nil), err
	}

	sc.linkSession(ss)

	if h, ok := sc.s.Handler.(ServerHandlerOnSessionOpen); ok {
		h.OnSessionOpen(&ServerHandlerOnSessionOpenCtx{
			Session: ss,
			Conn:    sc,
		})
	}

	res, err := ss.handleSetup(sc, req, path, query, th)

	// a session is created only if the first SETUP succeeds
	if err != nil || !res.StatusCode.IsSuccess() {
		sc.s.sessions.Expire(ss.id, err)
	}

	return res, err
}

func (sc *ServerConn) handleParameter(
	ss *ServerSession,
	req *base.Message,
	path string,
	query string,
) (*base.Message, error) {
	if req.Method == base.GetParameter {
		h, ok := sc.s.Handler.(ServerHandlerOnGetParameter)
		if !ok {
			// GET_PARAMETER without a handler is used as keep-alive
			return base.NewResponse(base.StatusOK, nil), nil
		}

		return h.OnGetParameter(&ServerHandlerOnGetParameterCtx{
			Session: ss,
			Conn:    sc,
			Request: req,
			Path:    path,
			Query:   query,
		})
	}

	h, ok := sc.s.Handler.(ServerHandlerOnSetParameter)
	if !ok {
		return sc.reject(req, base.StatusNotImplemented, liberrors.ErrServerNotImplemented{Method: req.Method})
	}

	return h.OnSetParameter(&ServerHandlerOnSetParameterCtx{
		Session: ss,
		Conn:    sc,
		Request: req,
		Path:    path,
		Query:   query,
	})
}

func (sc *ServerConn) writeMessage(msg *base.Message) error {
	sc.writeMutex.Lock()
	defer sc.writeMutex.Unlock()

	sc.nconn.SetWriteDeadline(time.Now().Add(sc.s.WriteTimeout)) //nolint:errcheck
	return sc.conn.WriteMessage(msg)
}

func (sc *ServerConn) writeInterleavedFrame(fr *base.InterleavedFrame) error {
	sc.writeMutex.Lock()
	defer sc.writeMutex.Unlock()

	sc.nconn.SetWriteDeadline(time.Now().Add(sc.s.WriteTimeout)) //nolint:errcheck
	return sc.conn.WriteInterleavedFrame(fr)
}
