//go:build linux

package fs

import (
	iofs "io/fs"
	"syscall"
	"time"
)

// statTimes returns the creation and access times. Linux stat has no birth
// time, so the inode change time stands in for it.
func statTimes(info iofs.FileInfo) (created, accessed time.Time, ok bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec)), time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec)), true
}
