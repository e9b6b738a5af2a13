package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// MaxFrameSize is the largest frame body accepted on the wire (3-byte VarInt limit).
const MaxFrameSize = 1<<21 - 1

// ErrFrameTooLarge is returned when a frame length exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// ByteReader is what ReadFrame needs from the connection reader (bufio.Reader satisfies it).
type ByteReader interface {
	io.Reader
	io.ByteReader
}

var zlibWriters = sync.Pool{
	New: func() any {
		zw, _ := zlib.NewWriterLevel(io.Discard, zlib.DefaultCompression)
		return zw
	},
}

// Codec frames packets: VarInt length prefix, and once compression is enabled,
// a VarInt uncompressed-length followed by a zlib body for payloads at or above threshold.
// A negative threshold disables compression; frames then carry no data-length field.
// Codec is immutable and safe for concurrent use.
type Codec struct {
	threshold int
}

// NewCodec creates a codec with the given compression threshold.
func NewCodec(threshold int) *Codec {
	return &Codec{threshold: threshold}
}

// Threshold returns the compression threshold (negative = disabled).
func (c *Codec) Threshold() int {
	return c.threshold
}

// Compressed reports whether frames carry the data-length field.
func (c *Codec) Compressed() bool {
	return c.threshold >= 0
}

// AppendFrame appends one framed payload (packet id + data) to dst.
func (c *Codec) AppendFrame(dst, payload []byte) ([]byte, error) {
	if !c.Compressed() {
		return appendPrefixed(dst, nil, payload)
	}

	if len(payload) < c.threshold {
		// data length 0 = body is not compressed
		return appendPrefixed(dst, []byte{0}, payload)
	}

	var body bytes.Buffer
	zw := zlibWriters.Get().(*zlib.Writer)
	defer zlibWriters.Put(zw)
	zw.Reset(&body)
	if _, err := zw.Write(payload); err != nil {
		return dst, fmt.Errorf("compressing frame: %w", err)
	}
	if err := zw.Close(); err != nil {
		return dst, fmt.Errorf("compressing frame: %w", err)
	}

	var head [5]byte
	n := packet.PutVarInt(head[:], int32(len(payload)))
	return appendPrefixed(dst, head[:n], body.Bytes())
}

func appendPrefixed(dst, head, body []byte) ([]byte, error) {
	size := len(head) + len(body)
	if size > MaxFrameSize {
		return dst, fmt.Errorf("writing frame of %d bytes: %w", size, ErrFrameTooLarge)
	}
	var prefix [5]byte
	n := packet.PutVarInt(prefix[:], int32(size))
	dst = append(dst, prefix[:n]...)
	dst = append(dst, head...)
	return append(dst, body...), nil
}

// WriteFrame frames payload and writes it to w.
func (c *Codec) WriteFrame(w io.Writer, payload []byte) error {
	frame, err := c.AppendFrame(nil, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r and returns its payload (packet id + data).
// The returned slice is freshly allocated and owned by the caller.
func (c *Codec) ReadFrame(r ByteReader) ([]byte, error) {
	size, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("reading frame length: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid frame length: %d", size)
	}
	if size > MaxFrameSize {
		return nil, fmt.Errorf("reading frame of %d bytes: %w", size, ErrFrameTooLarge)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("reading frame body: %w", err)
	}
	if !c.Compressed() {
		return body, nil
	}

	br := packet.NewReader(body)
	dataLen, err := br.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading data length: %w", err)
	}
	rest, _ := br.ReadBytes(br.Remaining())

	if dataLen == 0 {
		return rest, nil
	}
	if dataLen < 0 || dataLen > MaxFrameSize {
		return nil, fmt.Errorf("invalid data length %d: %w", dataLen, ErrFrameTooLarge)
	}
	if int(dataLen) < c.threshold {
		return nil, fmt.Errorf("compressed frame of %d bytes below threshold %d", dataLen, c.threshold)
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("opening compressed frame: %w", err)
	}
	defer zr.Close()

	payload := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, payload); err != nil {
		return nil, fmt.Errorf("decompressing frame: %w", err)
	}
	return payload, nil
}

func readVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	for i := range 5 {
		b, err := r.ReadByte()
		if err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, fmt.Errorf("varint too long")
}
