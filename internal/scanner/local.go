// Package scanner implements the local (C3) and remote (C4) directory
// scanners described in spec.md §4.3–4.4: a parallel stat stage feeding
// a sequential, depth-ordered tree build, reporting progress on a
// bounded event channel.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/diskx/diskx/internal/progress"
	"github.com/diskx/diskx/internal/tree"
)

// Result is the completion shape returned by a successful scan
// (spec.md §6 "scan_directory").
type Result struct {
	Tree       *tree.Tree
	TotalFiles int64
	TotalSize  int64
	ScanTimeMs int64
}

// Scanner walks a local directory tree and emits progress events while
// building a tree.Tree.
type Scanner struct {
	Options Options
	Events  *progress.Channel
	// Cancel is checked between entries during stat and insert stages.
	// A nil Cancel means the scan is never cancelled externally.
	Cancel *atomic.Bool
	// Workers bounds stat-stage parallelism; 0 means runtime.NumCPU().
	Workers int
}

// NewScanner builds a Scanner with a fresh, owned progress channel of
// default capacity.
func NewScanner(opts Options) *Scanner {
	return &Scanner{
		Options: opts,
		Events:  progress.NewChannel(progress.DefaultCapacity),
	}
}

type walkEntry struct {
	path       string
	parentPath string
	depth      int
	info       os.FileInfo
	isSymlink  bool
}

type processedEntry struct {
	walkEntry
	node FileNodeOrErr
}

// FileNodeOrErr is the per-entry outcome of the parallel stat stage: either
// a built tree.FileNode or a non-fatal error to report and skip.
type FileNodeOrErr struct {
	Node tree.FileNode
	Err  error
}

// Scan executes the full algorithm of spec.md §4.3 and returns the
// completed, size-aggregated tree.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	start := time.Now()

	rootInfo, err := os.Lstat(s.Options.Root)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrPathNotFound, s.Options.Root)
	}
	if !rootInfo.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotADirectory, s.Options.Root)
	}

	s.send(progress.Event{Kind: progress.Started})

	entries, err := s.enumerate(rootInfo)
	if err != nil {
		return Result{}, err
	}

	processed, cancelled := s.statAll(ctx, entries)
	if cancelled {
		s.send(progress.Event{Kind: progress.Error, Path: s.Options.Root, Err: ErrInterrupted})
		return Result{}, ErrInterrupted
	}

	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].depth < processed[j].depth
	})

	tr, root := tree.NewWithRoot(s.Options.Root)
	rootNode := tree.NewFileNode(s.Options.Root, true).WithModified(rootInfo.ModTime())
	tr.Mutate(root, func(n *tree.FileNode) { *n = rootNode })

	stride := &progress.NodeStride{}
	stride.Allow() // root counts as the first discovered node
	s.send(progress.Event{Kind: progress.NodeDiscovered, Node: rootNode, ParentPath: ""})

	var totalItems int64 = int64(len(processed))
	s.send(progress.Event{Kind: progress.Building, TotalItems: totalItems})

	for _, pe := range processed {
		if s.isCancelled() {
			s.send(progress.Event{Kind: progress.Error, Path: s.Options.Root, Err: ErrInterrupted})
			return Result{}, ErrInterrupted
		}
		if pe.node.Err != nil {
			s.send(progress.Event{Kind: progress.Error, Path: pe.path, Err: pe.node.Err})
			continue
		}

		parentID, ok := tr.FindByPath(pe.parentPath)
		if !ok {
			s.send(progress.Event{Kind: progress.Error, Path: pe.path, Err: fmt.Errorf("parent not found: %s", pe.parentPath)})
			continue
		}
		id := tr.AddChild(parentID, pe.node.Node)

		if stride.Allow() {
			s.send(progress.Event{Kind: progress.NodeDiscovered, Node: pe.node.Node, ParentPath: pe.parentPath})
		}
		_ = id
	}

	tr.CalculateSizes()

	totalFiles := tr.TotalFileCount()
	totalSize := tr.TotalSize()

	s.send(progress.Event{
		Kind:       progress.Completed,
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
		Tree:       tr,
	})

	return Result{
		Tree:       tr,
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
		ScanTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// enumerate performs the non-following, boundary-respecting walk of
// spec.md §4.3 step 3, applying the exclude predicate at filter time so
// excluded subtrees are never descended into.
func (s *Scanner) enumerate(rootInfo os.FileInfo) ([]walkEntry, error) {
	excl := newExcludeMatcher(s.Options.ExcludePatterns)
	rootDepth := depthOf(s.Options.Root)
	rootDev, hasDev := entryDevice(rootInfo)

	var out []walkEntry
	err := filepath.WalkDir(s.Options.Root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.send(progress.Event{Kind: progress.Error, Path: path, Err: walkErr})
			return nil
		}
		if path == s.Options.Root {
			return nil
		}

		if excl.matches(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		depth := depthOf(path) - rootDepth
		if s.Options.MaxDepth != nil && depth > *s.Options.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			s.send(progress.Event{Kind: progress.Error, Path: path, Err: infoErr})
			return nil
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0
		if d.IsDir() && !isSymlink && hasDev && !s.Options.CrossMount {
			if dev, ok := entryDevice(info); ok && dev != rootDev {
				return filepath.SkipDir
			}
		}

		out = append(out, walkEntry{
			path:       path,
			parentPath: filepath.Dir(path),
			depth:      depth,
			info:       info,
			isSymlink:  isSymlink,
		})
		return nil
	})
	return out, err
}

func depthOf(path string) int {
	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) || clean == "." {
		return 0
	}
	n := 0
	for _, r := range clean {
		if r == filepath.Separator {
			n++
		}
	}
	return n
}

// statAll runs the data-parallel metadata stage (spec.md §4.3 step 4).
func (s *Scanner) statAll(ctx context.Context, entries []walkEntry) ([]processedEntry, bool) {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	out := make([]processedEntry, len(entries))
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	var filesFound int64
	var bytesProcessed int64
	throttle := progress.NewThrottler(100, 50*time.Millisecond)

	for i, e := range entries {
		i, e := i, e
		if s.isCancelled() {
			break
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			if s.isCancelled() {
				return nil
			}

			node := s.buildNode(e)
			out[i] = processedEntry{walkEntry: e, node: node}

			if node.Err == nil {
				atomic.AddInt64(&filesFound, 1)
				atomic.AddInt64(&bytesProcessed, node.Node.Size)
			}

			if throttle.Tick() {
				s.send(progress.Event{
					Kind:           progress.Scanning,
					Path:           e.path,
					FilesFound:     atomic.LoadInt64(&filesFound),
					EstimatedTotal: int64(len(entries)),
					BytesProcessed: atomic.LoadInt64(&bytesProcessed),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	return out, s.isCancelled()
}

// buildNode converts a walked entry into a tree.FileNode, resolving
// symlink targets but never following them.
func (s *Scanner) buildNode(e walkEntry) FileNodeOrErr {
	node := tree.NewFileNode(e.path, e.info.IsDir() && !e.isSymlink)
	node.Modified = e.info.ModTime()

	if e.isSymlink {
		target, err := os.Readlink(e.path)
		if err != nil {
			target = ""
		}
		node = node.WithSymlink(target)
		node.Size = 0
		node.FileCount = 0
		return FileNodeOrErr{Node: node}
	}

	if !e.info.IsDir() {
		node.Size = entrySize(e.info, s.Options.ApparentSize)
	}

	return FileNodeOrErr{Node: node}
}

func (s *Scanner) isCancelled() bool {
	return s.Cancel != nil && s.Cancel.Load()
}

func (s *Scanner) send(ev progress.Event) {
	if s.Events != nil {
		s.Events.Send(ev)
	}
}
