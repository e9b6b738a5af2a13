package packet

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// Writer provides methods for writing packet data.
// Uses Big-Endian byte order for fixed-size values and VarInt for lengths/ids.
type Writer struct {
	buf *bytes.Buffer
}

// writerPool reduces allocations by reusing Writers.
// Get() returns a Writer with Reset() called, Put() returns it to pool.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf: bytes.NewBuffer(make([]byte, 0, 512)),
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// IMPORTANT: Do not use the Writer (or slices returned by Bytes) after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteBool writes a boolean as 0x00/0x01.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(0x01)
		return
	}
	w.buf.WriteByte(0x00)
}

// WriteShort writes an int16 (2 bytes, BE).
func (w *Writer) WriteShort(val int16) {
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val))
}

// WriteInt writes an int32 (4 bytes, BE).
func (w *Writer) WriteInt(val int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(val))
	w.buf.Write(tmp[:])
}

// WriteLong writes an int64 (8 bytes, BE).
func (w *Writer) WriteLong(val int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(val))
	w.buf.Write(tmp[:])
}

// WriteFloat writes a float32 (4 bytes, BE).
func (w *Writer) WriteFloat(val float32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], math.Float32bits(val))
	w.buf.Write(tmp[:])
}

// WriteDouble writes a float64 (8 bytes, BE).
func (w *Writer) WriteDouble(val float64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(val))
	w.buf.Write(tmp[:])
}

// WriteVarInt writes a variable-length int32.
// Negative values always take 5 bytes.
func (w *Writer) WriteVarInt(val int32) {
	var tmp [maxVarIntBytes]byte
	n := PutVarInt(tmp[:], val)
	w.buf.Write(tmp[:n])
}

// WriteString writes a VarInt length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteVarInt(int32(len(s)))
	w.buf.WriteString(s)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated packet data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the packet.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// PutVarInt encodes val into dst and returns the number of bytes written.
// dst must have room for at least 5 bytes.
func PutVarInt(dst []byte, val int32) int {
	u := uint32(val)
	n := 0
	for {
		if u&^0x7F == 0 {
			dst[n] = byte(u)
			return n + 1
		}
		dst[n] = byte(u&0x7F) | 0x80
		u >>= 7
		n++
	}
}

// VarIntSize returns the encoded length of val.
func VarIntSize(val int32) int {
	u := uint32(val)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}
