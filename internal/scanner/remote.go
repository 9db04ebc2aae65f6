package scanner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/diskx/diskx/internal/progress"
	"github.com/diskx/diskx/internal/tree"
)

// AuthMethod selects how RemoteOptions authenticates to the target host
// (spec.md §6 "auth_method").
type AuthMethod int

const (
	AuthKey AuthMethod = iota
	AuthPassword
	AuthAgent
)

// RemoteOptions configures a remote scan (C4).
type RemoteOptions struct {
	Target      SshTarget
	Auth        AuthMethod
	KeyPath     string // used when Auth == AuthKey
	Password    string // used when Auth == AuthPassword, never persisted
	TimeoutSecs int    // ConnectTimeout; 0 defaults to 10
}

func (o RemoteOptions) timeout() int {
	if o.TimeoutSecs <= 0 {
		return 10
	}
	return o.TimeoutSecs
}

// buildSSHArgs reproduces the exact flag list of
// original_source/src-tauri/src/ssh/remote_scan.rs build_ssh_args.
func buildSSHArgs(o RemoteOptions) []string {
	args := []string{"-T"}
	args = append(args, "-o", "StrictHostKeyChecking=accept-new")
	args = append(args, "-o", fmt.Sprintf("ConnectTimeout=%d", o.timeout()))
	args = append(args, "-o", "ServerAliveInterval=5")
	args = append(args, "-o", "ServerAliveCountMax=3")

	if o.Auth != AuthPassword {
		args = append(args, "-o", "BatchMode=yes")
		args = append(args, "-o", "PasswordAuthentication=no")
	}

	if o.Target.Port != 0 && o.Target.Port != 22 {
		args = append(args, "-p", strconv.Itoa(o.Target.Port))
	}

	if o.Auth == AuthKey && o.KeyPath != "" {
		args = append(args, "-i", o.KeyPath)
	}

	args = append(args, o.Target.destination())
	return args
}

// buildCommand wraps ssh with sshpass for password auth, matching
// original_source's build_ssh_command.
func buildCommand(ctx context.Context, o RemoteOptions, remoteCmd string) *exec.Cmd {
	args := buildSSHArgs(o)
	args = append(args, remoteCmd)

	if o.Auth == AuthPassword {
		full := append([]string{}, args...)
		cmdArgs := append([]string{"-p", o.Password, "ssh"}, full...)
		return exec.CommandContext(ctx, "sshpass", cmdArgs...)
	}
	return exec.CommandContext(ctx, "ssh", args...)
}

// RemoteScanner drives a remote shell to satisfy the C3 event contract
// over a subprocess (spec.md §4.4).
type RemoteScanner struct {
	Options RemoteOptions
	Events  *progress.Channel
	Cancel  *atomic.Bool
}

// NewRemoteScanner builds a RemoteScanner with a fresh progress channel.
func NewRemoteScanner(opts RemoteOptions) *RemoteScanner {
	return &RemoteScanner{Options: opts, Events: progress.NewChannel(progress.DefaultCapacity)}
}

// Scan executes the probe-and-select algorithm of spec.md §4.4.
func (s *RemoteScanner) Scan(ctx context.Context) (Result, error) {
	start := time.Now()
	s.send(progress.Event{Kind: progress.Started})

	hasDatax, err := s.probeDatax(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteSpawn, err)
	}

	var result Result
	if hasDatax {
		result, err = s.scanWithDatax(ctx)
	} else {
		result, err = s.scanWithFind(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	result.ScanTimeMs = time.Since(start).Milliseconds()
	s.send(progress.Event{
		Kind:       progress.Completed,
		TotalFiles: result.TotalFiles,
		TotalSize:  result.TotalSize,
		Tree:       result.Tree,
	})
	return result, nil
}

func (s *RemoteScanner) probeDatax(ctx context.Context) (bool, error) {
	cmd := buildCommand(ctx, s.Options, "which data-x 2>/dev/null || echo ''")
	out, err := cmd.Output()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// remoteNode mirrors the export Full wire shape (spec.md §6), with an
// optional file_count field consumers must not require.
type remoteNode struct {
	Path      string       `json:"path"`
	Name      string       `json:"name"`
	Size      int64        `json:"size"`
	IsDir     bool         `json:"is_dir"`
	FileCount int64        `json:"file_count,omitempty"`
	Children  []remoteNode `json:"children,omitempty"`
}

func (s *RemoteScanner) scanWithDatax(ctx context.Context) (Result, error) {
	remoteCmd := fmt.Sprintf("data-x --json '%s'", s.Options.Target.Path)
	cmd := buildCommand(ctx, s.Options, remoteCmd)
	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteCommand, err)
	}

	var root remoteNode
	if err := json.Unmarshal(out, &root); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteParse, err)
	}

	tr, rootID := tree.NewWithRoot(root.Path)
	tr.Mutate(rootID, func(n *tree.FileNode) {
		n.Size = root.Size
		n.FileCount = root.FileCount
	})
	s.insertRemoteChildren(tr, rootID, root.Children)

	tr.CalculateSizes()
	return Result{Tree: tr, TotalFiles: tr.TotalFileCount(), TotalSize: tr.TotalSize()}, nil
}

func (s *RemoteScanner) insertRemoteChildren(tr *tree.Tree, parent tree.NodeID, children []remoteNode) {
	for _, c := range children {
		node := tree.NewFileNode(c.Path, c.IsDir)
		node.Size = c.Size
		if c.FileCount != 0 {
			node.FileCount = c.FileCount
		}
		id := tr.AddChild(parent, node)
		s.insertRemoteChildren(tr, id, c.Children)
	}
}

// findCommand reproduces the two-branch portable shell script of
// original_source/src-tauri/src/ssh/remote_scan.rs scan_with_find,
// detecting GNU find -printf support before falling back to a portable
// stat-based shim. Depth is capped at 4 (spec.md §4.4).
func findCommand(remotePath string) string {
	const maxDepth = 4
	q := shellQuote(remotePath)
	return fmt.Sprintf(
		`if find %s -maxdepth 0 -printf '' 2>/dev/null; then
    find %s -maxdepth %d -printf '%%p|%%y|%%s\n' 2>/dev/null
else
    find %s -maxdepth %d -exec sh -c 'for f; do
        if [ -d "$f" ]; then t=d; else t=f; fi
        s=$(stat -f%%z "$f" 2>/dev/null || stat -c%%s "$f" 2>/dev/null || echo 0)
        printf "%%s|%%s|%%s\n" "$f" "$t" "$s"
    done' _ {} +
fi`, q, q, maxDepth, q, maxDepth)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (s *RemoteScanner) scanWithFind(ctx context.Context) (Result, error) {
	cmd := buildCommand(ctx, s.Options, findCommand(s.Options.Target.Path))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteSpawn, err)
	}

	tr, _, ingestErr := s.ingestListing(stdout, func() bool {
		if s.isCancelled() {
			_ = cmd.Process.Kill()
			return true
		}
		return false
	})
	waitErr := cmd.Wait()

	if ingestErr != nil {
		return Result{}, ingestErr
	}
	if tr == nil {
		if waitErr != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrRemoteCommand, waitErr)
		}
		return Result{}, fmt.Errorf("%w: %s", ErrRemoteEmpty, s.Options.Target.Path)
	}

	tr.CalculateSizes()
	return Result{Tree: tr, TotalFiles: tr.TotalFileCount(), TotalSize: tr.TotalSize()}, nil
}

// ingestListing reads the `<path>|<type>|<size>` wire format (spec.md §6)
// from r and reconstructs a flat tree, emitting throttled Scanning events
// every 100 lines. cancelled is polled before each line and, if true,
// ingestion stops and ErrInterrupted is returned. tr is nil if no root
// line was ever read.
func (s *RemoteScanner) ingestListing(r io.Reader, cancelled func() bool) (*tree.Tree, int64, error) {
	var tr *tree.Tree
	var root tree.NodeID = -1
	pathToID := make(map[string]tree.NodeID)

	var filesFound int64
	var totalSize int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if cancelled != nil && cancelled() {
			return nil, filesFound, ErrInterrupted
		}

		line := scanner.Text()
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 3 {
			continue
		}
		entryPath := parts[0]
		isDir := parts[1] == "d" || parts[1] == "Directory"
		size, _ := strconv.ParseInt(parts[2], 10, 64)

		if root == -1 {
			tr, root = tree.NewWithRoot(entryPath)
			tr.Mutate(root, func(n *tree.FileNode) { n.Size = size })
			pathToID[entryPath] = root
		} else {
			parentPath := path.Dir(entryPath)
			parentID, ok := pathToID[parentPath]
			if !ok {
				continue
			}
			node := tree.NewFileNode(entryPath, isDir)
			node.Size = size
			id := tr.AddChild(parentID, node)
			pathToID[entryPath] = id
		}

		filesFound++
		totalSize += size

		if filesFound%100 == 0 {
			s.send(progress.Event{
				Kind:           progress.Scanning,
				Path:           entryPath,
				FilesFound:     filesFound,
				BytesProcessed: totalSize,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, filesFound, fmt.Errorf("%w: %v", ErrRemoteCommand, err)
	}
	return tr, filesFound, nil
}

func (s *RemoteScanner) isCancelled() bool {
	return s.Cancel != nil && s.Cancel.Load()
}

func (s *RemoteScanner) send(ev progress.Event) {
	if s.Events != nil {
		s.Events.Send(ev)
	}
}
