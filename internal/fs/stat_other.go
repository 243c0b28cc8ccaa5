//go:build !linux && !darwin && !windows

package fs

import (
	iofs "io/fs"
	"time"
)

func statTimes(iofs.FileInfo) (created, accessed time.Time, ok bool) {
	return time.Time{}, time.Time{}, false
}
