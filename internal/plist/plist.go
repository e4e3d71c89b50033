// Package plist decodes Apple property lists in both on-disk forms:
// the binary "bplist00" format (object table + offset table + trailer)
// and the XML form. Both decode to the same generic Go value shape
// (map[string]any, []any, string, int64, float64, bool, []byte; dates
// become ISO-8601 UTC strings) so every macOS artifact parser built on top (Emond, Login
// Items, and the generic plist artifact) shares one decode path.
package plist

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"math"
	"strconv"
	"time"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Decode picks the binary or XML decoder by sniffing the leading
// bytes, per the BOM-aware/signature-aware read pattern the rest of
// the core uses.
func Decode(buf []byte) (any, error) {
	if bytes.HasPrefix(buf, []byte("bplist00")) {
		return decodeBinary(buf)
	}
	return decodeXML(buf)
}

// --- binary plist ---

type bplistReader struct {
	buf       []byte
	offsets   []uint64
	objRefLen int
	objects   map[int]any
}

func decodeBinary(buf []byte) (any, error) {
	if len(buf) < 32 {
		return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: 32, Got: len(buf)}
	}
	trailer := buf[len(buf)-32:]
	offsetIntSize := int(trailer[6])
	objRefSize := int(trailer[7])
	numObjects := int(binary.BigEndian.Uint64(trailer[8:16]))
	rootIndex := int(binary.BigEndian.Uint64(trailer[16:24]))
	offsetTableStart := int(binary.BigEndian.Uint64(trailer[24:32]))

	if offsetIntSize == 0 || objRefSize == 0 || numObjects < 0 {
		return nil, &primitives.FormatViolation{Artifact: "plist.bplist", Kind: "bad trailer"}
	}
	if offsetTableStart+numObjects*offsetIntSize > len(buf) {
		return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: offsetTableStart + numObjects*offsetIntSize, Got: len(buf)}
	}

	r := &bplistReader{buf: buf, objRefLen: objRefSize, objects: map[int]any{}}
	r.offsets = make([]uint64, numObjects)
	for i := 0; i < numObjects; i++ {
		off := offsetTableStart + i*offsetIntSize
		r.offsets[i] = readUintN(buf[off:off+offsetIntSize], offsetIntSize)
	}
	if rootIndex >= numObjects {
		return nil, &primitives.FormatViolation{Artifact: "plist.bplist", Kind: "root index out of range"}
	}
	return r.object(rootIndex)
}

func readUintN(b []byte, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func (r *bplistReader) object(index int) (any, error) {
	if v, ok := r.objects[index]; ok {
		return v, nil
	}
	if index < 0 || index >= len(r.offsets) {
		return nil, &primitives.FormatViolation{Artifact: "plist.bplist", Kind: "object index out of range"}
	}
	off := int(r.offsets[index])
	if off >= len(r.buf) {
		return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: off + 1, Got: len(r.buf)}
	}
	marker := r.buf[off]
	kind := marker >> 4
	lowNibble := int(marker & 0x0f)
	body := r.buf[off+1:]

	var val any
	var err error
	switch kind {
	case 0x0: // null/bool/fill
		switch marker {
		case 0x08:
			val = false
		case 0x09:
			val = true
		default:
			val = nil
		}
	case 0x1: // int
		n := 1 << lowNibble
		if n > len(body) {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: n, Got: len(body)}
		}
		val = int64(readUintN(body, n))
	case 0x2: // real
		n := 1 << lowNibble
		if n > len(body) {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: n, Got: len(body)}
		}
		bits := readUintN(body, n)
		if n == 4 {
			val = float64(math.Float32frombits(uint32(bits)))
		} else {
			val = math.Float64frombits(bits)
		}
	case 0x3: // date: big-endian f64 seconds since 2001-01-01
		if len(body) < 8 {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: 8, Got: len(body)}
		}
		secs := math.Float64frombits(readUintN(body, 8))
		val = primitives.CocoaToISO(secs)
	case 0x4: // data
		count, consumed := r.readCount(lowNibble, body)
		start := off + 1 + consumed
		if start+count > len(r.buf) {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: start + count, Got: len(r.buf)}
		}
		out := make([]byte, count)
		copy(out, r.buf[start:start+count])
		val = out
	case 0x5: // ASCII string
		count, consumed := r.readCount(lowNibble, body)
		start := off + 1 + consumed
		if start+count > len(r.buf) {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: start + count, Got: len(r.buf)}
		}
		val = string(r.buf[start : start+count])
	case 0x6: // UTF-16BE string
		count, consumed := r.readCount(lowNibble, body)
		start := off + 1 + consumed
		n := count * 2
		if start+n > len(r.buf) {
			return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: start + n, Got: len(r.buf)}
		}
		val = primitives.ExtractUTF16StringEndian(append(r.buf[start:start+n:start+n], 0, 0), primitives.BigEndian)
	case 0xa: // array
		count, consumed := r.readCount(lowNibble, body)
		start := off + 1 + consumed
		refs, rerr := r.readRefs(start, count)
		if rerr != nil {
			return nil, rerr
		}
		arr := make([]any, 0, count)
		for _, ref := range refs {
			child, cerr := r.object(ref)
			if cerr != nil {
				continue // one bad child does not fail the whole array
			}
			arr = append(arr, child)
		}
		val = arr
	case 0xd: // dict
		count, consumed := r.readCount(lowNibble, body)
		start := off + 1 + consumed
		keyRefs, rerr := r.readRefs(start, count)
		if rerr != nil {
			return nil, rerr
		}
		valRefs, rerr := r.readRefs(start+count*r.objRefLen, count)
		if rerr != nil {
			return nil, rerr
		}
		m := make(map[string]any, count)
		for i := 0; i < count; i++ {
			keyObj, kerr := r.object(keyRefs[i])
			if kerr != nil {
				continue
			}
			key, ok := keyObj.(string)
			if !ok {
				key = toString(keyObj)
			}
			valObj, verr := r.object(valRefs[i])
			if verr != nil {
				continue
			}
			m[key] = valObj
		}
		val = m
	default:
		val, err = nil, &primitives.FormatViolation{Artifact: "plist.bplist", Kind: "unsupported object marker"}
	}
	if err == nil {
		r.objects[index] = val
	}
	return val, err
}

// readCount handles the bplist count-encoding rule: a low nibble of
// 0xf means the real count follows as its own int object.
func (r *bplistReader) readCount(lowNibble int, body []byte) (count, consumed int) {
	if lowNibble != 0x0f {
		return lowNibble, 0
	}
	if len(body) < 1 {
		return 0, 1
	}
	intMarker := body[0]
	n := 1 << (intMarker & 0x0f)
	if 1+n > len(body) {
		return 0, 1 + n
	}
	return int(readUintN(body[1:1+n], n)), 1 + n
}

func (r *bplistReader) readRefs(start, count int) ([]int, error) {
	need := count * r.objRefLen
	if start+need > len(r.buf) {
		return nil, &primitives.Truncation{Artifact: "plist.bplist", Wanted: start + need, Got: len(r.buf)}
	}
	refs := make([]int, count)
	for i := 0; i < count; i++ {
		off := start + i*r.objRefLen
		refs[i] = int(readUintN(r.buf[off:off+r.objRefLen], r.objRefLen))
	}
	return refs, nil
}

func toString(v any) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// --- XML plist ---
//
// Decoded manually via xml.Token scanning rather than struct tags,
// since plist XML interleaves <key> and heterogeneous value elements
// with no fixed schema a static struct could describe.

func decodeXML(buf []byte) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(buf))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &primitives.FormatViolation{Artifact: "plist.xml", Kind: "no plist root element"}
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local == "plist" {
				return decodeXMLValue(dec)
			}
		}
	}
}

// decodeXMLValue reads the next value element (dict/array/string/
// integer/real/true/false/date/data) and returns its decoded form.
func decodeXMLValue(dec *xml.Decoder) (any, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "dict":
			return decodeXMLDict(dec)
		case "array":
			return decodeXMLArray(dec)
		case "string":
			return readXMLCharData(dec, se.Name.Local)
		case "integer":
			s, _ := readXMLCharData(dec, se.Name.Local)
			n, _ := strconv.ParseInt(s, 10, 64)
			return n, nil
		case "real":
			s, _ := readXMLCharData(dec, se.Name.Local)
			f, _ := strconv.ParseFloat(s, 64)
			return f, nil
		case "true":
			skipToEnd(dec, se.Name.Local)
			return true, nil
		case "false":
			skipToEnd(dec, se.Name.Local)
			return false, nil
		case "date":
			s, _ := readXMLCharData(dec, se.Name.Local)
			t, perr := time.Parse(time.RFC3339, s)
			if perr != nil {
				return primitives.Sentinel, nil
			}
			return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
		case "data":
			s, _ := readXMLCharData(dec, se.Name.Local)
			return []byte(s), nil
		default:
			skipToEnd(dec, se.Name.Local)
		}
	}
}

func decodeXMLDict(dec *xml.Decoder) (map[string]any, error) {
	m := map[string]any{}
	var pendingKey string
	haveKey := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return m, nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "key" {
				pendingKey, _ = readXMLCharData(dec, "key")
				haveKey = true
				continue
			}
			if haveKey {
				val, verr := decodeXMLValueFromStart(dec, t)
				if verr == nil {
					m[pendingKey] = val
				}
				haveKey = false
			}
		case xml.EndElement:
			if t.Name.Local == "dict" {
				return m, nil
			}
		}
	}
}

func decodeXMLArray(dec *xml.Decoder) ([]any, error) {
	var out []any
	for {
		tok, err := dec.Token()
		if err != nil {
			return out, nil
		}
		switch t := tok.(type) {
		case xml.StartElement:
			val, verr := decodeXMLValueFromStart(dec, t)
			if verr == nil {
				out = append(out, val)
			}
		case xml.EndElement:
			if t.Name.Local == "array" {
				return out, nil
			}
		}
	}
}

// decodeXMLValueFromStart handles a value element whose StartElement
// token has already been consumed by the caller's token loop.
func decodeXMLValueFromStart(dec *xml.Decoder, se xml.StartElement) (any, error) {
	switch se.Name.Local {
	case "dict":
		return decodeXMLDict(dec)
	case "array":
		return decodeXMLArray(dec)
	case "string":
		return readXMLCharData(dec, se.Name.Local)
	case "integer":
		s, _ := readXMLCharData(dec, se.Name.Local)
		n, _ := strconv.ParseInt(s, 10, 64)
		return n, nil
	case "real":
		s, _ := readXMLCharData(dec, se.Name.Local)
		f, _ := strconv.ParseFloat(s, 64)
		return f, nil
	case "true":
		skipToEnd(dec, se.Name.Local)
		return true, nil
	case "false":
		skipToEnd(dec, se.Name.Local)
		return false, nil
	case "date":
		s, _ := readXMLCharData(dec, se.Name.Local)
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return primitives.Sentinel, nil
		}
		return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
	case "data":
		s, _ := readXMLCharData(dec, se.Name.Local)
		return []byte(s), nil
	default:
		skipToEnd(dec, se.Name.Local)
		return nil, nil
	}
}

func readXMLCharData(dec *xml.Decoder, elem string) (string, error) {
	var sb bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == elem {
				return sb.String(), nil
			}
		}
	}
}

func skipToEnd(dec *xml.Decoder, elem string) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == elem {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == elem {
				if depth == 0 {
					return
				}
				depth--
			}
		}
	}
}
