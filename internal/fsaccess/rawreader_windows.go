//go:build windows

package fsaccess

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// OpenRawVolume opens a block device such as `\\.\C:`, aligned to
// 512-byte sectors, bypassing host file locks. This is the raw reader
// the NTFS layer sits on when targeting a live Windows host.
func OpenRawVolume(driveLetter string) (RawReader, error) {
	path := fmt.Sprintf(`\\.\%s:`, driveLetter)
	u16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(u16,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0)
	if err != nil {
		return nil, err
	}
	return &bufferedRawReader{src: &windowsVolume{handle: h}, sectorSize: 512}, nil
}

type windowsVolume struct {
	handle windows.Handle
}

func (w *windowsVolume) Close() error {
	return windows.CloseHandle(w.handle)
}

func (w *windowsVolume) readSector(sectorIndex int64, out []byte) (int, error) {
	offset := sectorIndex * int64(len(out))
	if _, err := windows.Seek(w.handle, offset, 0 /* FILE_BEGIN */); err != nil {
		return 0, err
	}
	var n uint32
	if err := windows.ReadFile(w.handle, out, &n, nil); err != nil {
		return 0, err
	}
	return int(n), nil
}
