//go:build darwin

package fs

import (
	iofs "io/fs"
	"syscall"
	"time"
)

func statTimes(info iofs.FileInfo) (created, accessed time.Time, ok bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec), true
}
