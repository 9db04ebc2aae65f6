package scanner

import (
	"os"
	"syscall"
)

// entrySize returns the byte size to record for info per the apparent vs.
// block-allocated size policy (spec.md §4.3). Falls back to info.Size()
// on platforms where the underlying stat_t isn't available.
func entrySize(info os.FileInfo, apparentSize bool) int64 {
	if apparentSize {
		return info.Size()
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return stat.Blocks * 512
	}
	return info.Size()
}

// entryDevice returns the device id backing info, used for the
// cross-mount boundary check. ok is false if unavailable.
func entryDevice(info os.FileInfo) (dev uint64, ok bool) {
	stat, isStatT := info.Sys().(*syscall.Stat_t)
	if !isStatT {
		return 0, false
	}
	return uint64(stat.Dev), true
}
