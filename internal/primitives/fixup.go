package primitives

// ApplyFixup walks buf in sectorSize chunks, replacing the last two
// bytes of each sector (the fixup signature placeholder) with the
// corresponding entry from fixupValues, in order. It reports torn =
// true the first time a sector's placeholder does not match
// fixupSignature; a torn record must be discarded by the caller, per
// the fixup integrity invariant.
//
// fixupValues holds one 2-byte replacement per sector; its length
// caps how many sectors are fixed regardless of len(buf).
func ApplyFixup(buf []byte, fixupSignature [2]byte, fixupValues [][2]byte, sectorSize int) (torn bool) {
	out := buf
	for i := 0; i < len(fixupValues); i++ {
		start := i * sectorSize
		if start+sectorSize > len(out) {
			break
		}
		trailer := start + sectorSize - 2
		if out[trailer] != fixupSignature[0] || out[trailer+1] != fixupSignature[1] {
			return true
		}
		out[trailer] = fixupValues[i][0]
		out[trailer+1] = fixupValues[i][1]
	}
	return false
}
