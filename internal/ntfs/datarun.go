package ntfs

// DataRun is one decoded run: Sparse means the run has no backing
// clusters (reads as zero), otherwise ClusterOffset is relative to the
// previous non-sparse run's starting cluster (NTFS data runs are
// delta-encoded).
type DataRun struct {
	LengthClusters int64
	ClusterOffset  int64 // delta from the previous run; 0 with Sparse=true
	Sparse         bool
}

// parseDataRuns decodes the variable-length run list terminated by a
// single 0x00 header byte, per the §4.4 "cluster offset delta / length
// pairs, sparse runs" data model.
func parseDataRuns(buf []byte) []DataRun {
	var runs []DataRun
	i := 0
	for i < len(buf) {
		header := buf[i]
		if header == 0 {
			break
		}
		lengthBytes := int(header & 0x0F)
		offsetBytes := int(header >> 4)
		i++
		if i+lengthBytes > len(buf) {
			break
		}
		length := readSignedLE(buf[i:i+lengthBytes], false)
		i += lengthBytes

		sparse := offsetBytes == 0
		var offset int64
		if !sparse {
			if i+offsetBytes > len(buf) {
				break
			}
			offset = readSignedLE(buf[i:i+offsetBytes], true)
			i += offsetBytes
		}

		runs = append(runs, DataRun{LengthClusters: length, ClusterOffset: offset, Sparse: sparse})
	}
	return runs
}

// readSignedLE decodes a little-endian integer of 0..8 bytes. When
// signExtend is true (cluster offset deltas, which may be negative)
// the result is sign-extended from the most significant byte present;
// lengths are always non-negative.
func readSignedLE(b []byte, signExtend bool) int64 {
	var v int64
	for i := len(b) - 1; i >= 0; i-- {
		v = (v << 8) | int64(b[i])
	}
	if signExtend && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		v -= 1 << (8 * uint(len(b)))
	}
	return v
}

// ResolveRuns turns a delta-encoded run list into absolute (startCluster,
// lengthClusters, sparse) triples.
func ResolveRuns(runs []DataRun) [][3]int64 {
	out := make([][3]int64, 0, len(runs))
	var cluster int64
	for _, r := range runs {
		cluster += r.ClusterOffset
		if r.Sparse {
			out = append(out, [3]int64{0, r.LengthClusters, 1})
		} else {
			out = append(out, [3]int64{cluster, r.LengthClusters, 0})
		}
	}
	return out
}
