// Package bits decodes the Background Intelligent Transfer Service job
// store: qmgr.db (Win10+, an ESE database) via the generic ESE reader,
// and a best-effort carver over the legacy qmgr.dat/qmgr0.dat/qmgr1.dat
// binary job-record format.
package bits

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/ese"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// Job is one decoded BITS job, from either the ESE-backed store or the
// legacy carver.
type Job struct {
	ID          string
	DisplayName string
	URL         string
	LocalFile   string
	Created     string
	Heuristic   bool
}

// jobsTable is the qmgr.db table holding one row per job.
const jobsTable = "Jobs"

// LoadESE reads the Win10+ qmgr.db job store through the generic ESE
// reader and decodes the Jobs table.
func LoadESE(data []byte) ([]Job, error) {
	db, err := ese.Open(data)
	if err != nil {
		return nil, err
	}
	rows, err := db.DumpTable(jobsTable)
	if err != nil {
		return nil, err
	}
	out := make([]Job, 0, len(rows))
	for _, row := range rows {
		out = append(out, Job{
			ID:          stringOf(row["JobId"]),
			DisplayName: stringOf(row["DisplayName"]),
			URL:         stringOf(row["RemoteName"]),
			LocalFile:   stringOf(row["LocalName"]),
		})
	}
	return out, nil
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

// CarveLegacy performs a best-effort scan over a legacy qmgr.dat (or
// qmgr0.dat/qmgr1.dat) job store image, looking for UTF-16 URL-like
// runs ("http://" / "https://" as UTF-16LE). Only the URL is
// recovered: ID, DisplayName, LocalFile and Created stay empty on
// carved jobs. This is
// explicitly heuristic: the legacy format has no catalog or table
// structure to anchor on, unlike qmgr.db.
func CarveLegacy(buf []byte) []Job {
	var out []Job
	urls := findUTF16Runs(buf, "http://")
	urls = append(urls, findUTF16Runs(buf, "https://")...)
	for _, u := range urls {
		out = append(out, Job{
			URL:       u.text,
			Heuristic: true,
		})
	}
	return out
}

type utf16Run struct {
	offset int
	text   string
}

// findUTF16Runs scans buf for UTF-16LE occurrences of prefix and reads
// forward to the next NUL-pair to recover the full string.
func findUTF16Runs(buf []byte, prefix string) []utf16Run {
	needle := make([]byte, 0, len(prefix)*2)
	for _, r := range prefix {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(r))
		needle = append(needle, b...)
	}

	var out []utf16Run
	for i := 0; i+len(needle) <= len(buf); i++ {
		if !bytesEqual(buf[i:i+len(needle)], needle) {
			continue
		}
		end := i
		for end+1 < len(buf) {
			if buf[end] == 0 && buf[end+1] == 0 {
				break
			}
			end += 2
		}
		out = append(out, utf16Run{offset: i, text: primitives.ExtractUTF16String(buf[i:end])})
		i = end
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
