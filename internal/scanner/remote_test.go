package scanner

import (
	"strings"
	"testing"
)

func TestIngestListingFourLines(t *testing.T) {
	input := strings.Join([]string{
		"/r|d|0",
		"/r/f1|f|1024",
		"/r/sub|d|0",
		"/r/sub/f2|f|2048",
	}, "\n") + "\n"

	s := &RemoteScanner{}
	tr, _, err := s.ingestListing(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr == nil {
		t.Fatalf("expected a non-nil tree")
	}

	tr.CalculateSizes()

	root, ok := tr.Root()
	if !ok {
		t.Fatalf("expected a root node")
	}
	rootNode, _ := tr.GetNode(root)
	if rootNode.Size != 3072 || rootNode.FileCount != 2 {
		t.Fatalf("expected root size=3072 file_count=2, got size=%d file_count=%d", rootNode.Size, rootNode.FileCount)
	}

	subID, ok := tr.FindByPath("/r/sub")
	if !ok {
		t.Fatalf("expected to find /r/sub")
	}
	subNode, _ := tr.GetNode(subID)
	if subNode.Size != 2048 {
		t.Fatalf("expected sub.size=2048, got %d", subNode.Size)
	}
}

func TestIngestListingSkipsShortLines(t *testing.T) {
	input := "/r|d|0\nmalformed\n/r/f1|f|10\n"
	s := &RemoteScanner{}
	tr, files, err := s.ingestListing(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if files != 2 {
		t.Fatalf("expected 2 valid lines ingested, got %d", files)
	}
	if tr == nil {
		t.Fatalf("expected a non-nil tree")
	}
}

func TestIngestListingEmptyYieldsNilTree(t *testing.T) {
	s := &RemoteScanner{}
	tr, _, err := s.ingestListing(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr != nil {
		t.Fatalf("expected a nil tree for empty input")
	}
}

func TestBuildSSHArgsKeyAuthNonstandardPort(t *testing.T) {
	target := SshTarget{User: "admin", Host: "server.com", Port: 2222, Path: "/data"}

	opts := RemoteOptions{Target: target, Auth: AuthKey, KeyPath: "/home/u/.ssh/id_ed25519", TimeoutSecs: 15}
	args := buildSSHArgs(opts)

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-T",
		"StrictHostKeyChecking=accept-new",
		"ConnectTimeout=15",
		"ServerAliveInterval=5",
		"ServerAliveCountMax=3",
		"BatchMode=yes",
		"PasswordAuthentication=no",
		"-p 2222",
		"-i /home/u/.ssh/id_ed25519",
		"admin@server.com",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected ssh args to contain %q, got %q", want, joined)
		}
	}
}

func TestBuildSSHArgsPasswordAuthOmitsBatchMode(t *testing.T) {
	opts := RemoteOptions{
		Target: SshTarget{Host: "server.com", Path: "/data"},
		Auth:   AuthPassword,
	}
	args := buildSSHArgs(opts)
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "BatchMode=yes") {
		t.Fatalf("password auth should not set BatchMode=yes: %q", joined)
	}
}

func TestFindCommandHasDepthCapAndPath(t *testing.T) {
	cmd := findCommand("/remote/root")
	if !strings.Contains(cmd, "-maxdepth 4") {
		t.Fatalf("expected depth cap 4 in find command: %s", cmd)
	}
	if !strings.Contains(cmd, "'/remote/root'") {
		t.Fatalf("expected quoted path in find command: %s", cmd)
	}
}
