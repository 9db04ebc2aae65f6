package diskspace

import (
	"os"
	"path/filepath"
	"syscall"
)

func deviceOf(info os.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(stat.Dev), true
}

func parentDir(path string) string {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	return parent
}
