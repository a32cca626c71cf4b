package stream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size of the per-frame header: an int64 pose id followed
// by a uint32 payload length, both big-endian.
const HeaderSize = 12

// MaxPayload bounds the payload accepted by ReadFrame.
const MaxPayload = 64 << 20

// PutHeader encodes a frame header into hdr.
func PutHeader(hdr []byte, frameID int64, size int) {
	binary.BigEndian.PutUint64(hdr[0:8], uint64(frameID))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(size))
}

// WriteFrame writes a header and payload to w.
func WriteFrame(w io.Writer, frameID int64, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrFrameTooLarge
	}
	var hdr [HeaderSize]byte
	PutHeader(hdr[:], frameID, len(payload))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one frame written by WriteFrame or a Streamer.
func ReadFrame(r io.Reader) (int64, []byte, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	id := int64(binary.BigEndian.Uint64(hdr[0:8]))
	size := binary.BigEndian.Uint32(hdr[8:12])
	if size > MaxPayload {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("stream: truncated frame %d: %w", id, err)
	}
	return id, payload, nil
}
