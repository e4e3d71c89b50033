//go:build darwin

package fsaccess

import "syscall"

func platformBirthTime(st *syscall.Stat_t) int64 {
	return st.Birthtimespec.Sec
}
