package primitives

import "encoding/binary"

// Endian picks the byte order a combinator reads with. Registry, NTFS,
// ESE, and Outlook are little-endian; Darwin's on-disk formats are
// mostly network byte order.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func order(e Endian) binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Take slices n bytes off the front of buf, returning the remainder
// and the taken slice. Never returns a slice whose backing bytes were
// not contained in buf.
func Take(buf []byte, n int) (remaining, value []byte, err error) {
	if n < 0 || n > len(buf) {
		return buf, nil, &Truncation{Wanted: n, Got: len(buf)}
	}
	return buf[n:], buf[:n], nil
}

// Unsigned1 reads one unsigned byte.
func Unsigned1(buf []byte) (remaining []byte, value uint8, err error) {
	rest, v, err := Take(buf, 1)
	if err != nil {
		return buf, 0, err
	}
	return rest, v[0], nil
}

// Unsigned2 reads a 16-bit unsigned integer.
func Unsigned2(buf []byte, endian Endian) (remaining []byte, value uint16, err error) {
	rest, v, err := Take(buf, 2)
	if err != nil {
		return buf, 0, err
	}
	return rest, order(endian).Uint16(v), nil
}

// Unsigned4 reads a 32-bit unsigned integer.
func Unsigned4(buf []byte, endian Endian) (remaining []byte, value uint32, err error) {
	rest, v, err := Take(buf, 4)
	if err != nil {
		return buf, 0, err
	}
	return rest, order(endian).Uint32(v), nil
}

// Unsigned8 reads a 64-bit unsigned integer.
func Unsigned8(buf []byte, endian Endian) (remaining []byte, value uint64, err error) {
	rest, v, err := Take(buf, 8)
	if err != nil {
		return buf, 0, err
	}
	return rest, order(endian).Uint64(v), nil
}

// Signed2, Signed4, Signed8 reinterpret the unsigned read as signed;
// NTFS data runs and OLE SAT slots both need signed 32-bit reads.
func Signed2(buf []byte, endian Endian) (remaining []byte, value int16, err error) {
	rest, v, err := Unsigned2(buf, endian)
	return rest, int16(v), err
}

func Signed4(buf []byte, endian Endian) (remaining []byte, value int32, err error) {
	rest, v, err := Unsigned4(buf, endian)
	return rest, int32(v), err
}

func Signed8(buf []byte, endian Endian) (remaining []byte, value int64, err error) {
	rest, v, err := Unsigned8(buf, endian)
	return rest, int64(v), err
}

// Peek reads without consuming, useful for signature checks before
// deciding which cell/record/page decoder to hand the buffer to.
func Peek(buf []byte, n int) ([]byte, bool) {
	if n > len(buf) {
		return nil, false
	}
	return buf[:n], true
}
