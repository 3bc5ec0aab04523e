package base

import (
	"bufio"
	"fmt"
	"io"
)

// InterleavedFrameMagicByte is the first byte of an interleaved frame.
const InterleavedFrameMagicByte = 0x24

// InterleavedFrame is an interleaved frame, used to transfer RTP and RTCP packets
// within RTSP/TCP connections.
type InterleavedFrame struct {
	// channel ID
	Channel int

	// payload
	Payload []byte
}

// Unmarshal decodes an interleaved frame.
func (f *InterleavedFrame) Unmarshal(br *bufio.Reader) error {
	var header [4]byte
	_, err := io.ReadFull(br, header[:])
	if err != nil {
		return err
	}

	if header[0] != InterleavedFrameMagicByte {
		return fmt.Errorf("invalid magic byte (0x%.2x)", header[0])
	}

	payloadLen := int(uint16(header[2])<<8 | uint16(header[3]))

	f.Channel = int(header[1])
	f.Payload = make([]byte, payloadLen)

	_, err = io.ReadFull(br, f.Payload)
	return err
}

// Marshal encodes an interleaved frame.
func (f InterleavedFrame) Marshal() ([]byte, error) {
	if len(f.Payload) > 0xFFFF {
		return nil, fmt.Errorf("payload size (%d) exceeds maximum", len(f.Payload))
	}

	buf := make([]byte, 4+len(f.Payload))
	buf[0] = InterleavedFrameMagicByte
	buf[1] = byte(f.Channel)
	buf[2] = byte(len(f.Payload) >> 8)
	buf[3] = byte(len(f.Payload))
	copy(buf[4:], f.Payload)

	return buf, nil
}
