package conn

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/rtspengine/pkg/base"
)

func mustHeader(entries ...base.HeaderEntry) base.Header {
	h, err := base.NewHeader(entries...)
	if err != nil {
		panic(err)
	}
	return h
}

func TestRead(t *testing.T) {
	for _, ca := range []struct {
		name string
		enc  []byte
		dec  interface{}
	}{
		{
			"request",
			[]byte("DESCRIBE rtsp://example.com/media.mp4 RTSP/1.0\r\n" +
				"Accept: application/sdp\r\n" +
				"CSeq: 2\r\n" +
				"\r\n"),
			&base.Message{
				Method:   base.Describe,
				URI:      "rtsp://example.com/media.mp4",
				Protocol: "RTSP",
				Version:  "1.0",
				Header: mustHeader(
					base.HeaderEntry{Key: "accept", Value: base.StringValue("application/sdp")},
					base.HeaderEntry{Key: "cseq", Value: base.IntValue(2)},
				),
			},
		},
		{
			"response",
			[]byte("RTSP/1.0 200 OK\r\n" +
				"CSeq: 1\r\n" +
				"Public: DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE\r\n" +
				"\r\n"),
			&base.Message{
				StatusCode:    base.StatusOK,
				StatusMessage: "OK",
				Protocol:      "RTSP",
				Version:       "1.0",
				Header: mustHeader(
					base.HeaderEntry{Key: "cseq", Value: base.IntValue(1)},
					base.HeaderEntry{Key: "public", Value: base.StringValue("DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE")},
				),
			},
		},
		{
			"response with body",
			[]byte("RTSP/1.0 200 OK\r\n" +
				"CSeq: 3\r\n" +
				"Content-Length: 6\r\n" +
				"\r\n" +
				"jitter"),
			&base.Message{
				StatusCode:    base.StatusOK,
				StatusMessage: "OK",
				Protocol:      "RTSP",
				Version:       "1.0",
				Header: mustHeader(
					base.HeaderEntry{Key: "cseq", Value: base.IntValue(3)},
					base.HeaderEntry{Key: "content_length", Value: base.IntValue(6)},
				),
				Body: []byte("jitter"),
			},
		},
		{
			"frame",
			[]byte{0x24, 0x6, 0x0, 0x4, 0x1, 0x2, 0x3, 0x4},
			&base.InterleavedFrame{
				Channel: 6,
				Payload: []byte{0x01, 0x02, 0x03, 0x04},
			},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			conn := NewConn(bytes.NewBuffer(ca.enc))
			dec, err := conn.Read()
			require.NoError(t, err)
			require.Equal(t, ca.dec, dec)
		})
	}
}

func TestReadResponseSkipsFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x24, 0x1, 0x0, 0x2, 0xaa, 0xbb})
	buf.Write([]byte("\r\n"))
	buf.Write([]byte{0x24, 0x0, 0x0, 0x1, 0xcc})
	buf.Write([]byte("RTSP/1.0 200 OK\r\nCSeq: 4\r\n\r\n"))

	conn := NewConn(&buf)

	var frames []*base.InterleavedFrame
	conn.OnInterleavedFrame = func(fr *base.InterleavedFrame) {
		frames = append(frames, fr)
	}

	res, err := conn.ReadResponse()
	require.NoError(t, err)
	require.Equal(t, base.StatusOK, res.StatusCode)

	require.Equal(t, []*base.InterleavedFrame{
		{Channel: 1, Payload: []byte{0xaa, 0xbb}},
		{Channel: 0, Payload: []byte{0xcc}},
	}, frames)
}

func TestReadRawUnixNewlines(t *testing.T) {
	conn := NewConn(bytes.NewBuffer([]byte("RTSP/1.0 200 OK\n" +
		"CSeq: 4\n" +
		"Content-Length: 2\n" +
		"\n" +
		"ab")))

	buf, err := conn.ReadRaw()
	require.NoError(t, err)
	require.Equal(t, "RTSP/1.0 200 OK\r\n"+
		"CSeq: 4\r\n"+
		"Content-Length: 2\r\n"+
		"\r\n"+
		"ab", string(buf))
}

func TestReadErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		byts []byte
		err  string
	}{
		{
			"invalid content length",
			[]byte("RTSP/1.0 200 OK\r\nContent-Length: a\r\n\r\n"),
			"invalid Content-Length (a)",
		},
		{
			"body too big",
			[]byte("RTSP/1.0 200 OK\r\nContent-Length: 1000000\r\n\r\n"),
			"body size (1000000) exceeds maximum (131072)",
		},
		{
			"truncated body",
			[]byte("RTSP/1.0 200 OK\r\nContent-Length: 10\r\n\r\nabc"),
			"unexpected EOF",
		},
		{
			"truncated head",
			[]byte("RTSP/1.0 200 OK\r\nCSeq: 1\r\n"),
			"EOF",
		},
		{
			"corrupt status line",
			[]byte("RTSP/1.0 2000 OK\r\n\r\n"),
			"corrupt status line (RTSP/1.0 2000 OK)",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			conn := NewConn(bytes.NewBuffer(ca.byts))
			_, err := conn.Read()
			require.EqualError(t, err, ca.err)
		})
	}
}

type endlessReader struct {
	n int
}

func (r *endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'A'
	}
	r.n += len(p)
	return len(p), nil
}

func (r *endlessReader) Write(p []byte) (int, error) {
	return len(p), nil
}

func TestReadLineTooLong(t *testing.T) {
	r := &endlessReader{}
	conn := NewConn(r)

	_, err := conn.ReadRaw()
	require.EqualError(t, err, "header size exceeds maximum (65536)")
	require.LessOrEqual(t, r.n, maxHeaderSize+2*readBufferSize)
}

func TestReadRequestGotResponse(t *testing.T) {
	conn := NewConn(bytes.NewBuffer([]byte("RTSP/1.0 200 OK\r\nCSeq: 1\r\n\r\n")))
	_, err := conn.ReadRequest()
	require.EqualError(t, err, "expected a request, got a response")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	conn := NewConn(&buf)

	err := conn.WriteMessage(base.NewRequest(base.Options, "*", mustHeader(
		base.HeaderEntry{Key: "cseq", Value: base.IntValue(1)},
		base.HeaderEntry{Key: "user_agent", Value: base.StringValue("test")},
	)))
	require.NoError(t, err)

	err = conn.WriteInterleavedFrame(&base.InterleavedFrame{
		Channel: 6,
		Payload: []byte{0x01, 0x02, 0x03, 0x04},
	})
	require.NoError(t, err)

	require.Equal(t, append([]byte("OPTIONS * RTSP/1.0\r\n"+
		"CSeq: 1\r\n"+
		"User-Agent: test\r\n"+
		"\r\n"), 0x24, 0x6, 0x0, 0x4, 0x1, 0x2, 0x3, 0x4), buf.Bytes())
}

func TestSendReceive(t *testing.T) {
	nconn1, nconn2 := net.Pipe()
	defer nconn1.Close()
	defer nconn2.Close()

	conn1 := NewConn(nconn1)
	conn2 := NewConn(nconn2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := conn1.Send(context.Background(), []byte("OPTIONS * RTSP/1.0\r\nCSeq: 1\r\n\r\n"))
		require.NoError(t, err)
	}()

	buf, err := conn2.Receive(context.Background())
	require.NoError(t, err)
	require.Equal(t, "OPTIONS * RTSP/1.0\r\nCSeq: 1\r\n\r\n", string(buf))
	<-done
}

func TestReceiveTimeout(t *testing.T) {
	nconn1, nconn2 := net.Pipe()
	defer nconn1.Close()
	defer nconn2.Close()

	conn := NewConn(nconn1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := conn.Receive(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded), "got %v", err)
}

func TestReceiveCancel(t *testing.T) {
	nconn1, nconn2 := net.Pipe()
	defer nconn1.Close()
	defer nconn2.Close()

	conn := NewConn(nconn1)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := conn.Receive(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
