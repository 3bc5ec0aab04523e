package rtspengine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bluenviron/rtspengine/pkg/liberrors"
)

// Server is a RTSP server.
// Media is exchanged with clients through interleaved TCP channels.
type Server struct {
	//
	// RTSP parameters (all optional except RTSPAddress)
	//
	// the RTSP address of the server, to accept connections and send and receive
	// packets with the TCP transport.
	RTSPAddress string
	// timeout of read operations.
	// It defaults to 10 seconds.
	ReadTimeout time.Duration
	// timeout of write operations.
	// It defaults to 10 seconds.
	WriteTimeout time.Duration
	// timeout of sessions, advertised in the Session header.
	// It defaults to 60 seconds.
	SessionTimeout time.Duration

	//
	// handler (optional)
	//
	// an handler to handle server events.
	// It may implement one or more of the ServerHandler* interfaces.
	Handler ServerHandler

	//
	// system functions (all optional)
	//
	// function used to initialize the TCP listener.
	// It defaults to net.Listen.
	Listen func(network string, address string) (net.Listener, error)
	// logger of rejected requests.
	// It defaults to slog.Default().
	Logger *slog.Logger

	//
	// private
	//

	ctx        context.Context
	ctxCancel  func()
	wg         sync.WaitGroup
	ln         net.Listener
	sessions   *SessionRegistry
	mutex      sync.Mutex
	conns      map[*ServerConn]struct{}
	closeError error

	// out
	done chan struct{}
}

// Start starts the server.
func (s *Server) Start() error {
	// RTSP parameters
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 10 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 10 * time.Second
	}
	if s.SessionTimeout == 0 {
		s.SessionTimeout = 60 * time.Second
	}
	if s.SessionTimeout < time.Second {
		return fmt.Errorf("session timeout must be at least 1 second")
	}

	// system functions
	if s.Listen == nil {
		s.Listen = net.Listen
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	if s.RTSPAddress == "" {
		return fmt.Errorf("RTSPAddress not provided")
	}

	s.ctx, s.ctxCancel = context.WithCancel(context.Background())
	s.conns = make(map[*ServerConn]struct{})
	s.sessions = &SessionRegistry{
		OnExpire: func(ss *ServerSession, err error) {
			ss.onExpire(err)
		},
	}
	s.done = make(chan struct{})

	var err error
	s.ln, err = s.Listen("tcp", s.RTSPAddress)
	if err != nil {
		s.ctxCancel()
		return err
	}

	s.wg.Add(1)
	go s.runAccept()

	go s.run()

	return nil
}

// Close closes all the server resources and waits for them to close.
func (s *Server) Close() {
	s.ctxCancel()
	<-s.done
}

// Wait waits until all server resources are closed.
// This can happen when a fatal error occurs or when Close() is called.
func (s *Server) Wait() error {
	<-s.done
	return s.closeError
}

// Addr returns the address of the TCP listener.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Sessions returns the session registry.
func (s *Server) Sessions() *SessionRegistry {
	return s.sessions
}

func (s *Server) run() {
	defer close(s.done)

	<-s.ctx.Done()

	s.mutex.Lock()
	if s.closeError == nil {
		s.closeError = liberrors.ErrServerTerminated{}
	}
	s.mutex.Unlock()

	s.ln.Close()

	s.mutex.Lock()
	for sc := range s.conns {
		sc.Close()
	}
	s.mutex.Unlock()

	s.wg.Wait()

	s.sessions.Close()
}

func (s *Server) runAccept() {
	defer s.wg.Done()

	for {
		nconn, err := s.ln.Accept()
		if err != nil {
			s.acceptErr(err)
			return
		}

		s.newConn(nconn)
	}
}

func (s *Server) acceptErr(err error) {
	s.mutex.Lock()
	if s.ctx.Err() == nil && s.closeError == nil {
		s.closeError = err
	}
	s.mutex.Unlock()

	s.ctxCancel()
}

func (s *Server) newConn(nconn net.Conn) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ctx.Err() != nil {
		nconn.Close()
		return
	}

	sc := &ServerConn{
		s:     s,
		nconn: nconn,
	}
	sc.initialize()
	s.conns[sc] = struct{}{}
}

func (s *Server) closeConn(sc *ServerConn) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.conns, sc)
}
