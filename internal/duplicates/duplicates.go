// Package duplicates implements the three-phase duplicate-file detector
// of spec.md §4.5: size bucketing, SHA-256 prefix-hash bucketing, then
// SHA-256 full-hash bucketing, with parallel hashing and a cancellable,
// phase-labeled progress stream independent of the scan progress
// channel.
package duplicates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrCancelled is returned when the detector's cancel flag is observed
// between files in any pipeline stage.
var ErrCancelled = errors.New("duplicate scan cancelled")

// File is one member of a DuplicateGroup.
type File struct {
	Path     string
	Size     int64
	Modified time.Time
}

// Group is a set of byte-identical files (spec.md §4.5 step 5).
type Group struct {
	Hash        string
	Size        int64
	Members     []File
	WastedSpace int64
}

// Result is the completion shape of a duplicate scan (spec.md §6).
type Result struct {
	Groups          []Group
	TotalDuplicates int64
	WastedSpace     int64
}

// Detector runs a single duplicate scan over Root.
type Detector struct {
	Root    string
	Config  Config
	Events  *Channel
	Cancel  *atomic.Bool
	Workers int
}

// NewDetector builds a Detector with a fresh event channel and the
// spec's default config.
func NewDetector(root string) *Detector {
	return &Detector{Root: root, Config: DefaultConfig(), Events: NewChannel(DefaultCapacity)}
}

// Find executes the full pipeline and returns the assembled result.
func (d *Detector) Find(ctx context.Context) (Result, error) {
	bySize, err := d.enumerate()
	if err != nil {
		return Result{}, err
	}
	if d.isCancelled() {
		return Result{}, ErrCancelled
	}

	bySize = pruneSingletons(bySize)

	byPrefix, err := d.hashStage(ctx, bySizeToKeyed(bySize), PhasePartialHashes, 100, partialHash)
	if err != nil {
		return Result{}, err
	}
	byPrefix = pruneSingletons(byPrefix)

	byFull, err := d.hashStage(ctx, byPrefix, PhaseFullHashes, 100, fullHash)
	if err != nil {
		return Result{}, err
	}
	byFull = pruneSingletons(byFull)

	result, err := d.buildResult(byFull)
	if err != nil {
		return Result{}, err
	}

	d.send(Event{Phase: PhaseComplete, Current: result.TotalDuplicates, Total: result.TotalDuplicates})
	return result, nil
}

// enumerate performs spec.md §4.5 step 1: walk non-following, skip
// directories/symlinks/hidden-unless-included, skip files under
// MinSize, and bucket by size.
func (d *Detector) enumerate() (map[int64][]string, error) {
	bySize := make(map[int64][]string)
	var scanned int64

	err := filepath.WalkDir(d.Root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.isCancelled() {
			return ErrCancelled
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != d.Root && !d.Config.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if !d.Config.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if info.Size() < d.Config.MinSize {
			return nil
		}

		bySize[info.Size()] = append(bySize[info.Size()], path)
		scanned++
		if scanned%1000 == 0 {
			d.send(Event{Phase: PhaseScanning, Current: scanned, CurrentPath: path})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("enumerate %s: %w", d.Root, err)
	}
	return bySize, nil
}

// pruneSingletons drops any bucket with fewer than two members (spec.md
// §4.5 step 2). Iteration order over the input map does not matter: the
// result only groups by key, and final group ordering is imposed later
// in buildResult.
func pruneSingletons[K comparable](buckets map[K][]string) map[K][]string {
	out := make(map[K][]string, len(buckets))
	for k, v := range buckets {
		if len(v) >= 2 {
			out[k] = v
		}
	}
	return out
}

// bucketKey identifies a bucket by the invariant every surviving group
// must share: equal size and equal digest. The zero hash is used for
// the size-only starting bucket.
type bucketKey struct {
	size int64
	hash string
}

// bySizeToKeyed lifts the size-only buckets of stage 1 into bucketKey
// buckets so hashStage has a uniform input/output shape across stages.
func bySizeToKeyed(bySize map[int64][]string) map[bucketKey][]string {
	out := make(map[bucketKey][]string, len(bySize))
	for size, paths := range bySize {
		out[bucketKey{size: size}] = paths
	}
	return out
}

// hashStage re-buckets every file across all incoming buckets by
// (size, hashFn(path)), parallelizing the hash computation while
// keeping the bucketing itself a sequential map-reduce (spec.md §4.5
// "Parallelism").
func (d *Detector) hashStage(ctx context.Context, buckets map[bucketKey][]string, phase Phase, throttle int64, hashFn func(string) (string, error)) (map[bucketKey][]string, error) {
	type keyed struct {
		size int64
		path string
	}
	var all []keyed
	for k, paths := range buckets {
		for _, p := range paths {
			all = append(all, keyed{size: k.size, path: p})
		}
	}

	type hashed struct {
		key  bucketKey
		path string
	}
	results := make([]hashed, len(all))

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	var processed int64
	var mu sync.Mutex
	var firstErr error

	for i, item := range all {
		i, item := i, item
		if d.isCancelled() {
			mu.Lock()
			if firstErr == nil {
				firstErr = ErrCancelled
			}
			mu.Unlock()
			break
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if d.isCancelled() {
				return nil
			}

			digest, err := hashFn(item.path)
			if err != nil {
				// Per-file I/O failures are swallowed silently (spec.md §4.5
				// "Error handling"): the file simply cannot be a duplicate
				// candidate.
				return nil
			}
			results[i] = hashed{key: bucketKey{size: item.size, hash: digest}, path: item.path}

			n := atomic.AddInt64(&processed, 1)
			if n%throttle == 0 {
				d.send(Event{Phase: phase, Current: n, Total: int64(len(all)), CurrentPath: item.path})
			}
			return nil
		})
	}
	_ = g.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if d.isCancelled() {
		return nil, ErrCancelled
	}

	out := make(map[bucketKey][]string)
	for _, r := range results {
		if r.path == "" {
			continue
		}
		out[r.key] = append(out[r.key], r.path)
	}
	return out, nil
}

// buildResult assembles groups from the surviving full-hash buckets,
// sorting members oldest-first and groups by wasted space descending
// (spec.md §4.5 step 5).
func (d *Detector) buildResult(byFull map[bucketKey][]string) (Result, error) {
	var groups []Group
	var totalDuplicates int64
	var wastedSpace int64

	for key, paths := range byFull {
		members := make([]File, 0, len(paths))
		for _, p := range paths {
			info, err := os.Lstat(p)
			if err != nil {
				continue
			}
			members = append(members, File{Path: p, Size: key.size, Modified: info.ModTime()})
		}
		if len(members) < 2 {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Modified.Before(members[j].Modified)
		})

		wasted := key.size * int64(len(members)-1)
		groups = append(groups, Group{
			Hash:        key.hash,
			Size:        key.size,
			Members:     members,
			WastedSpace: wasted,
		})
		totalDuplicates += int64(len(members) - 1)
		wastedSpace += wasted
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WastedSpace > groups[j].WastedSpace
	})

	return Result{Groups: groups, TotalDuplicates: totalDuplicates, WastedSpace: wastedSpace}, nil
}

func (d *Detector) isCancelled() bool {
	return d.Cancel != nil && d.Cancel.Load()
}

func (d *Detector) send(ev Event) {
	if d.Events != nil {
		d.Events.Send(ev)
	}
}
