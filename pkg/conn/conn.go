// Package conn contains a RTSP connection implementation.
package conn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bluenviron/rtspengine/pkg/base"
)

const (
	readBufferSize = 4096
	maxHeaderSize  = 64 * 1024
	maxBodySize    = 128 * 1024
)

type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// Conn is a RTSP connection.
// It implements the transport used by clients to exchange messages.
type Conn struct {
	// called when an interleaved frame is received while reading a message.
	// If nil, frames are discarded.
	OnInterleavedFrame func(*base.InterleavedFrame)

	rw io.ReadWriter
	br *bufio.Reader
}

// NewConn allocates a Conn.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		rw: rw,
		br: bufio.NewReaderSize(rw, readBufferSize),
	}
}

func contentLength(head string) (int, error) {
	for _, line := range strings.Split(head, "\r\n") {
		name, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key, err := base.NormalizeKey(name)
		if err != nil || key != base.KeyContentLength {
			continue
		}

		val = strings.TrimSpace(val)
		if val == "" {
			return 0, nil
		}

		n, err := strconv.ParseUint(val, 10, 31)
		if err != nil {
			return 0, fmt.Errorf("invalid Content-Length (%v)", val)
		}

		if n > maxBodySize {
			return 0, fmt.Errorf("body size (%d) exceeds maximum (%d)", n, maxBodySize)
		}

		return int(n), nil
	}

	return 0, nil
}

func (c *Conn) skipNewlines() error {
	for {
		byt, err := c.br.Peek(1)
		if err != nil {
			return err
		}

		if byt[0] != '\r' && byt[0] != '\n' {
			return nil
		}

		c.br.Discard(1) //nolint:errcheck
	}
}

// readLineLimited reads a line, stopping as soon as more than n bytes are read without a newline.
func (c *Conn) readLineLimited(n int) (string, error) {
	var buf []byte

	for {
		chunk, err := c.br.ReadSlice('\n')
		if len(buf)+len(chunk) > n {
			return "", fmt.Errorf("header size exceeds maximum (%d)", maxHeaderSize)
		}

		buf = append(buf, chunk...)

		if err == nil {
			return string(buf), nil
		}

		if !errors.Is(err, bufio.ErrBufferFull) {
			return "", err
		}
	}
}

// readMessage reads the head and the body of a message.
func (c *Conn) readMessage() ([]byte, error) {
	var sb strings.Builder

	for {
		line, err := c.readLineLimited(maxHeaderSize - sb.Len())
		if err != nil {
			return nil, err
		}

		if line == "\r\n" || line == "\n" {
			break
		}

		sb.WriteString(strings.TrimRight(line, "\r\n") + "\r\n")
	}

	head := sb.String()

	n, err := contentLength(head)
	if err != nil {
		return nil, err
	}

	ret := make([]byte, len(head)+2+n)
	copy(ret, head)
	copy(ret[len(head):], "\r\n")

	_, err = io.ReadFull(c.br, ret[len(head)+2:])
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// ReadRaw reads the bytes of the next message.
// Interleaved frames that precede the message are passed to OnInterleavedFrame.
func (c *Conn) ReadRaw() ([]byte, error) {
	for {
		err := c.skipNewlines()
		if err != nil {
			return nil, err
		}

		byt, err := c.br.Peek(1)
		if err != nil {
			return nil, err
		}

		if byt[0] != base.InterleavedFrameMagicByte {
			return c.readMessage()
		}

		fr, err := c.ReadInterleavedFrame()
		if err != nil {
			return nil, err
		}

		if c.OnInterleavedFrame != nil {
			c.OnInterleavedFrame(fr)
		}
	}
}

// Read reads a message or an interleaved frame.
// It returns either a *base.Message or a *base.InterleavedFrame.
func (c *Conn) Read() (interface{}, error) {
	err := c.skipNewlines()
	if err != nil {
		return nil, err
	}

	byt, err := c.br.Peek(1)
	if err != nil {
		return nil, err
	}

	if byt[0] == base.InterleavedFrameMagicByte {
		return c.ReadInterleavedFrame()
	}

	buf, err := c.readMessage()
	if err != nil {
		return nil, err
	}

	var msg base.Message
	err = msg.Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// ReadRequest reads a request.
func (c *Conn) ReadRequest() (*base.Message, error) {
	buf, err := c.ReadRaw()
	if err != nil {
		return nil, err
	}

	var req base.Message
	err = req.Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	if !req.IsRequest() {
		return nil, fmt.Errorf("expected a request, got a response")
	}

	return &req, nil
}

// ReadResponse reads a response.
func (c *Conn) ReadResponse() (*base.Message, error) {
	buf, err := c.ReadRaw()
	if err != nil {
		return nil, err
	}

	var res base.Message
	err = res.Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	if res.IsRequest() {
		return nil, fmt.Errorf("expected a response, got a request")
	}

	return &res, nil
}

// ReadInterleavedFrame reads an interleaved frame.
func (c *Conn) ReadInterleavedFrame() (*base.InterleavedFrame, error) {
	var fr base.InterleavedFrame
	err := fr.Unmarshal(c.br)
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// WriteMessage writes a message.
func (c *Conn) WriteMessage(msg *base.Message) error {
	buf, err := msg.Marshal()
	if err != nil {
		return err
	}

	_, err = c.rw.Write(buf)
	return err
}

// WriteInterleavedFrame writes an interleaved frame.
func (c *Conn) WriteInterleavedFrame(fr *base.InterleavedFrame) error {
	buf, err := fr.Marshal()
	if err != nil {
		return err
	}

	_, err = c.rw.Write(buf)
	return err
}

// withContext runs fn, binding the given deadline setter to the context.
// When the context is canceled, the deadline is moved to now in order to unblock fn.
func withContext(ctx context.Context, setDeadline func(time.Time) error, fn func() error) error {
	if deadline, ok := ctx.Deadline(); ok {
		setDeadline(deadline) //nolint:errcheck
	}

	stop := context.AfterFunc(ctx, func() {
		setDeadline(time.Now()) //nolint:errcheck
	})

	err := fn()

	stop()
	setDeadline(time.Time{}) //nolint:errcheck

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Send writes raw bytes. The context deadline is applied to the write when supported by the underlying connection.
func (c *Conn) Send(ctx context.Context, byts []byte) error {
	write := func() error {
		_, err := c.rw.Write(byts)
		return err
	}

	if d, ok := c.rw.(deadliner); ok {
		return withContext(ctx, d.SetWriteDeadline, write)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return write()
}

// Receive reads the bytes of the next message.
// The context deadline is applied to the read when supported by the underlying connection.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	var buf []byte
	read := func() error {
		var err error
		buf, err = c.ReadRaw()
		return err
	}

	if d, ok := c.rw.(deadliner); ok {
		err := withContext(ctx, d.SetReadDeadline, read)
		return buf, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := read()
	return buf, err
}
