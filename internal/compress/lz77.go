package compress

import "github.com/puffycid/artemis-core/internal/primitives"

// Lz77Plain decompresses the plain (non-Huffman) LZ77 variant used by
// a handful of legacy artifacts: a flat stream of length-prefixed
// tokens, each either a literal run or a back-reference.
//
//	0x00 <n byte>            n literal bytes follow
//	0x01 <distance u16 LE> <length u16 LE>   back-reference
func Lz77Plain(raw []byte) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(raw) {
		tag := raw[i]
		i++
		switch tag {
		case 0x00:
			if i >= len(raw) {
				return out, &primitives.Truncation{Artifact: "lz77", Offset: int64(i), Wanted: 1, Got: 0}
			}
			n := int(raw[i])
			i++
			if i+n > len(raw) {
				return out, &primitives.Truncation{Artifact: "lz77", Offset: int64(i), Wanted: n, Got: len(raw) - i}
			}
			out = append(out, raw[i:i+n]...)
			i += n
		case 0x01:
			if i+4 > len(raw) {
				return out, &primitives.Truncation{Artifact: "lz77", Offset: int64(i), Wanted: 4, Got: len(raw) - i}
			}
			distance := int(raw[i]) | int(raw[i+1])<<8
			length := int(raw[i+2]) | int(raw[i+3])<<8
			i += 4
			if distance <= 0 || distance > len(out) {
				return out, &primitives.FormatViolation{Artifact: "lz77", Offset: int64(i), Kind: "bad back-reference distance"}
			}
			for k := 0; k < length; k++ {
				out = append(out, out[len(out)-distance])
			}
		default:
			return out, &primitives.FormatViolation{Artifact: "lz77", Offset: int64(i - 1), Kind: "unknown token tag"}
		}
	}
	return out, nil
}
