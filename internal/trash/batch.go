package trash

import (
	"os"
)

// Failure is one path's delete attempt that did not succeed.
type Failure struct {
	Path  string
	Error string
}

// BatchResult is the completion shape of a batch delete (spec.md §6
// "delete_files").
type BatchResult struct {
	Deleted    []string
	BytesFreed int64
	Failed     []Failure
}

// dirSize sums apparent file sizes under path, used to compute
// BytesFreed for a directory deletion; a single file just reports its own
// size. Errors walking a subtree are swallowed — bytes_freed is a
// best-effort accounting figure, not a correctness-critical one.
func dirSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		total += dirSize(path + string(os.PathSeparator) + e.Name())
	}
	return total
}

// DeleteFiles attempts to remove every path in paths independently
// (spec.md §6, §1 "no transactional deletion"): one path's failure never
// aborts the batch. When toTrash is true each path is moved to the
// platform trash via MoveToTrash; otherwise directories are removed
// recursively and files are removed directly.
func DeleteFiles(paths []string, toTrash bool) BatchResult {
	result := BatchResult{}

	for _, p := range paths {
		freed := dirSize(p)

		var err error
		if toTrash {
			err = MoveToTrash(p)
		} else {
			err = deletePermanently(p)
		}

		if err != nil {
			result.Failed = append(result.Failed, Failure{Path: p, Error: err.Error()})
			continue
		}

		result.Deleted = append(result.Deleted, p)
		result.BytesFreed += freed
	}

	return result
}

func deletePermanently(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
