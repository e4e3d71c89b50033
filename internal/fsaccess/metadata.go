package fsaccess

import "os"

// Metadata mirrors the spec's four timestamps: created, modified,
// accessed, changed, all i64 Unix epoch seconds. Changed is 0 on
// platforms without a ctime concept (plain Windows stat).
type Metadata struct {
	Created  int64
	Modified int64
	Accessed int64
	Changed  int64
	Size     int64
	IsDir    bool
}

// Stat reads path's metadata through the platform-specific backend.
func Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	m := platformMetadata(info)
	m.Size = info.Size()
	m.IsDir = info.IsDir()
	if m.Modified == 0 {
		m.Modified = info.ModTime().Unix()
	}
	return m, nil
}
