package packet

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// MaxStringLength is the longest string (in bytes) accepted from the wire.
const MaxStringLength = 32767

// maxVarIntBytes: VarInt int32 занимает не больше 5 байт.
const maxVarIntBytes = 5

// Reader provides methods for reading packet data.
// Uses Big-Endian byte order for fixed-size values and VarInt for lengths/ids.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBool reads a boolean encoded as a single byte (0x00/0x01).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("ReadBool: %w", err)
	}
	return b != 0, nil
}

// ReadShort reads an int16 (2 bytes, BE).
func (r *Reader) ReadShort() (int16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadShort: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int16(binary.BigEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return val, nil
}

// ReadInt reads an int32 (4 bytes, BE).
func (r *Reader) ReadInt() (int32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadInt: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int32(binary.BigEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return val, nil
}

// ReadLong reads an int64 (8 bytes, BE).
func (r *Reader) ReadLong() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadLong: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := int64(binary.BigEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return val, nil
}

// ReadFloat reads a float32 (4 bytes, BE).
func (r *Reader) ReadFloat() (float32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadFloat: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// ReadDouble reads a float64 (8 bytes, BE).
func (r *Reader) ReadDouble() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadDouble: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadVarInt reads a variable-length int32 (LEB128, 7 bits per byte, at most 5 bytes).
func (r *Reader) ReadVarInt() (int32, error) {
	var result uint32
	for i := range maxVarIntBytes {
		if r.pos >= len(r.data) {
			return 0, fmt.Errorf("ReadVarInt: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
		}
		b := r.data[r.pos]
		r.pos++
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, fmt.Errorf("ReadVarInt: value too long (pos=%d)", r.pos)
}

// ReadString reads a VarInt length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return "", fmt.Errorf("ReadString: reading length: %w", err)
	}
	if n < 0 || n > MaxStringLength {
		return "", fmt.Errorf("ReadString: invalid length %d", n)
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("ReadString: invalid UTF-8")
	}
	return string(raw), nil
}

// ReadBytes reads n bytes (ZERO-COPY: returns subslice of internal data).
// IMPORTANT: Returned slice shares underlying array with Reader.data.
// Caller MUST NOT modify returned bytes. Use ReadBytesCopy() if mutation needed.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}

	bytes := r.data[r.pos : r.pos+n]
	r.pos += n
	return bytes, nil
}

// ReadBytesCopy reads n bytes and returns a MUTABLE COPY.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, fmt.Errorf("ReadBytesCopy: %w", err)
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
