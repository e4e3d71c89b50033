//go:build linux || darwin

package fsaccess

import (
	"io/fs"
	"syscall"
)

func platformMetadata(info fs.FileInfo) Metadata {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Metadata{}
	}
	m := Metadata{
		Modified: st.Mtim.Sec,
		Accessed: st.Atim.Sec,
		Changed:  st.Ctim.Sec,
	}
	m.Created = platformBirthTime(st)
	return m
}
