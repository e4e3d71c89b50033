//go:build windows

package fsaccess

import (
	"io/fs"
	"syscall"
)

func platformMetadata(info fs.FileInfo) Metadata {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return Metadata{}
	}
	return Metadata{
		Created:  filetimeToUnix(sys.CreationTime),
		Modified: filetimeToUnix(sys.LastWriteTime),
		Accessed: filetimeToUnix(sys.LastAccessTime),
	}
}

func filetimeToUnix(ft syscall.Filetime) int64 {
	return ft.Nanoseconds() / 1e9
}
