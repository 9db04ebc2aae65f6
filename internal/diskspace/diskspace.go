// Package diskspace implements the mount-point disk-space probe of
// spec.md §4.8.
package diskspace

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Info is the result of probing the mount point containing a path.
type Info struct {
	Total      uint64
	Used       uint64
	Available  uint64
	MountPoint string
}

// UsagePercent returns Used as a percentage of Total, or 0 if Total is 0.
func (i Info) UsagePercent() float64 {
	if i.Total == 0 {
		return 0
	}
	return float64(i.Used) / float64(i.Total) * 100
}

// Probe returns total/used/available bytes for the mount point
// containing path. Returns an error if path does not exist.
func Probe(path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, fmt.Errorf("diskspace: %w", err)
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Info{}, fmt.Errorf("diskspace: statfs %s: %w", path, err)
	}

	blockSize := uint64(stat.Bsize)
	total := stat.Blocks * blockSize
	available := stat.Bavail * blockSize
	used := total - available

	return Info{
		Total:      total,
		Used:       used,
		Available:  available,
		MountPoint: mountPoint(path),
	}, nil
}

// mountPoint walks up from path to the nearest ancestor whose device id
// differs from its parent's, i.e. the mount boundary. Falls back to "/"
// if it cannot be determined.
func mountPoint(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "/"
	}
	dev, ok := deviceOf(info)
	if !ok {
		return "/"
	}

	current := path
	for {
		parent := parentDir(current)
		if parent == current {
			return current
		}
		parentInfo, err := os.Stat(parent)
		if err != nil {
			return current
		}
		parentDev, ok := deviceOf(parentInfo)
		if !ok || parentDev != dev {
			return current
		}
		current = parent
	}
}
