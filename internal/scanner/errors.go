package scanner

import "errors"

// Sentinel errors implementing the taxonomy of spec.md §7. Wrap with
// fmt.Errorf("%w: %s", ...) to attach path context; callers compare with
// errors.Is.
var (
	// ErrPathNotFound is returned when the scan root does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrNotADirectory is returned when the scan root exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrMalformedTarget is returned when a remote target string does not
	// parse into an SshTarget.
	ErrMalformedTarget = errors.New("malformed remote target")
	// ErrInterrupted is returned when a scan is cancelled via its cancel flag.
	ErrInterrupted = errors.New("scan cancelled")
	// ErrRemoteSpawn is returned when the ssh/sshpass subprocess fails to start.
	ErrRemoteSpawn = errors.New("failed to spawn remote shell")
	// ErrRemoteCommand is returned when the remote command exits non-zero.
	ErrRemoteCommand = errors.New("remote command failed")
	// ErrRemoteParse is returned when a JSON-mode remote response cannot be parsed.
	ErrRemoteParse = errors.New("failed to parse remote response")
	// ErrRemoteEmpty is returned when a listing-mode remote response is empty.
	ErrRemoteEmpty = errors.New("remote listing produced no output")
)
