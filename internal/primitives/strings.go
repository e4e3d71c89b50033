package primitives

import (
	"bytes"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ExtractUTF8String reads bytes up to the first NUL byte. Invalid
// sequences become the Unicode replacement character rather than a
// parse error, per the string invariant in the data model.
func ExtractUTF8String(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if !utf8.Valid(buf) {
		return strings_toValidUTF8(buf)
	}
	return string(buf)
}

// ExtractUTF16String reads 2-byte little-endian code units up to the
// first 0x0000 pair.
func ExtractUTF16String(buf []byte) string {
	return extractUTF16(buf, LittleEndian)
}

// ExtractUTF16StringEndian is ExtractUTF16String with an explicit byte
// order, for the handful of Darwin formats that store UTF-16BE.
func ExtractUTF16StringEndian(buf []byte, endian Endian) string {
	return extractUTF16(buf, endian)
}

func extractUTF16(buf []byte, endian Endian) string {
	ord := order(endian)
	units := make([]uint16, 0, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		u := ord.Uint16(buf[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// ExtractAsciiUtf16String auto-detects encoding by scanning for a NUL
// byte at an odd offset, the heuristic the registry value decoder and
// several LNK/shell-item strings rely on.
func ExtractAsciiUtf16String(buf []byte) string {
	isWide := false
	for i, b := range buf {
		if b == 0 {
			if i%2 == 1 {
				isWide = true
			}
			break
		}
	}
	if isWide {
		return ExtractUTF16String(buf)
	}
	return ExtractUTF8String(buf)
}

// ReadBOMAwareText detects a 0xFEFF/0xFFFE byte-order mark and decodes
// UTF-16, otherwise treats buf as UTF-8.
func ReadBOMAwareText(buf []byte) string {
	if len(buf) >= 2 {
		if buf[0] == 0xFF && buf[1] == 0xFE {
			return extractUTF16(buf[2:], LittleEndian)
		}
		if buf[0] == 0xFE && buf[1] == 0xFF {
			return extractUTF16(buf[2:], BigEndian)
		}
	}
	return ExtractUTF8String(buf)
}

func strings_toValidUTF8(buf []byte) string {
	var b strings.Builder
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		b.WriteRune(r)
		buf = buf[size:]
	}
	return b.String()
}
