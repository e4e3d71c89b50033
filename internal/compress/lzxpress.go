package compress

import "github.com/puffycid/artemis-core/internal/primitives"

// LzxpressHuffman decompresses the DIRECT2 variant used by Prefetch
// (MAM\x04 payloads): a 256-byte prefix-code-length table describing
// 512 symbols (two 4-bit lengths per byte — symbols 0-255 are literal
// bytes, 256-511 are length/distance match codes), followed by a
// bit-oriented stream packed 16 bits at a time, MSB first.
//
// A match symbol v = sym-256 splits into a length nibble (v>>4) and a
// distance-extra-bits nibble (v&0xF): length is v>>4 + 3, extended via
// an escape byte (and a 16-bit escape beyond that) when the nibble is
// 0xF; distance is 1 when the extra-bits nibble is 0, else
// (1<<nibble) + the next `nibble` bits read from the stream.
func LzxpressHuffman(raw []byte, outputSize int) ([]byte, error) {
	if len(raw) < 256 {
		return nil, &primitives.Truncation{Artifact: "lzxpress", Wanted: 256, Got: len(raw)}
	}
	lengths := expandNibbles(raw[:256])
	tbl, err := buildHuffmanTable(lengths)
	if err != nil {
		return nil, err
	}

	br := newBitReader(raw[256:])
	out := make([]byte, 0, outputSize)

	for len(out) < outputSize {
		sym, ok := tbl.decode(br)
		if !ok {
			return out, &primitives.FormatViolation{Artifact: "lzxpress", Kind: "XpressBadPrefix"}
		}
		if sym < 256 {
			out = append(out, byte(sym))
			continue
		}

		v := sym - 256
		lengthNibble := v >> 4
		distBits := v & 0xF

		length := int(lengthNibble) + 3
		if lengthNibble == 0xF {
			b, ok := br.byteAligned()
			if !ok {
				return out, &primitives.Truncation{Artifact: "lzxpress", Wanted: 1, Got: 0}
			}
			length = int(b) + 15 + 3
			if b == 0xFF {
				ext, ok := br.literal16()
				if !ok {
					return out, &primitives.Truncation{Artifact: "lzxpress", Wanted: 2, Got: 0}
				}
				length = int(ext)
			}
		}

		var distance int
		if distBits == 0 {
			distance = 1
		} else {
			extra, ok := br.bits(int(distBits))
			if !ok {
				return out, &primitives.Truncation{Artifact: "lzxpress", Wanted: int(distBits), Got: 0}
			}
			distance = (1 << distBits) + extra
		}

		if distance <= 0 || distance > len(out) {
			return out, &primitives.FormatViolation{Artifact: "lzxpress", Kind: "XpressBadOffset"}
		}
		for k := 0; k < length && len(out) < outputSize; k++ {
			out = append(out, out[len(out)-distance])
		}
	}
	return out, nil
}

func expandNibbles(table []byte) []uint8 {
	lengths := make([]uint8, 512)
	for i, b := range table {
		lengths[2*i] = b & 0xF
		lengths[2*i+1] = b >> 4
	}
	return lengths
}

// huffmanTable is a flat decode table indexed by the next 15 bits of
// the stream; each entry records the symbol and how many of those
// bits the code actually consumed.
type huffmanTable struct {
	symbol [1 << 15]int16
	length [1 << 15]uint8
}

func buildHuffmanTable(lengths []uint8) (*huffmanTable, error) {
	const maxLen = 15
	var countPerLength [maxLen + 1]int
	for _, l := range lengths {
		if l > maxLen {
			return nil, &primitives.FormatViolation{Artifact: "lzxpress", Kind: "XpressBadPrefix"}
		}
		countPerLength[l]++
	}

	var firstCode [maxLen + 2]int
	code := 0
	prevCount := 0 // length-0 "codes" never participate in the recurrence
	for l := 1; l <= maxLen; l++ {
		code = (code + prevCount) << 1
		firstCode[l] = code
		prevCount = countPerLength[l]
	}

	tbl := &huffmanTable{}
	for i := range tbl.length {
		tbl.length[i] = 0
	}

	next := firstCode
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := next[l]
		next[l]++
		// left-justify the code into 15 bits and fill every entry whose
		// top `l` bits match it, like a standard canonical decode table.
		shift := uint(maxLen) - uint(l)
		base := c << shift
		span := 1 << shift
		for i := 0; i < span; i++ {
			idx := base + i
			tbl.symbol[idx] = int16(sym)
			tbl.length[idx] = l
		}
	}
	return tbl, nil
}

func (t *huffmanTable) decode(br *bitReader) (int, bool) {
	peek, ok := br.peek(15)
	if !ok {
		return 0, false
	}
	l := t.length[peek]
	if l == 0 {
		return 0, false
	}
	br.consume(int(l))
	return int(t.symbol[peek]), true
}

// bitReader pulls bits MSB-first out of a sequence of 16-bit
// little-endian words, the packing LZXPRESS-Huffman uses.
type bitReader struct {
	data []byte
	pos  int
	buf  uint32
	nbit uint
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (b *bitReader) fill() {
	for b.nbit <= 16 && b.pos+1 < len(b.data) {
		word := uint32(b.data[b.pos]) | uint32(b.data[b.pos+1])<<8
		b.buf |= word << (16 - b.nbit)
		b.nbit += 16
		b.pos += 2
	}
}

func (b *bitReader) peek(n int) (int, bool) {
	b.fill()
	if b.nbit < uint(n) {
		// pad with zero bits rather than fail outright; callers treat an
		// all-zero-length decode as a format violation.
		return int(b.buf >> (32 - uint(n))), b.nbit > 0
	}
	return int(b.buf >> (32 - uint(n))), true
}

func (b *bitReader) consume(n int) {
	b.buf <<= uint(n)
	if uint(n) > b.nbit {
		b.nbit = 0
	} else {
		b.nbit -= uint(n)
	}
}

func (b *bitReader) bits(n int) (int, bool) {
	v, ok := b.peek(n)
	if !ok {
		return 0, false
	}
	b.consume(n)
	return v, true
}

// byteAligned reads the next raw byte from the underlying stream,
// used for the length-extension escape which is not bit-packed.
func (b *bitReader) byteAligned() (byte, bool) {
	if b.pos >= len(b.data) {
		return 0, false
	}
	v := b.data[b.pos]
	b.pos++
	return v, true
}

func (b *bitReader) literal16() (uint16, bool) {
	hi, ok := b.byteAligned()
	if !ok {
		return 0, false
	}
	lo, ok := b.byteAligned()
	if !ok {
		return 0, false
	}
	return uint16(lo)<<8 | uint16(hi), true
}
