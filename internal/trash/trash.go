// Package trash implements the platform trash/recycle-bin half of the
// batch delete request (spec.md §6 "delete_files"): moving a path to the
// user's trash instead of removing it outright. batch.go builds on top
// of this to satisfy the full per-path-independent contract; this file
// only owns "how does a single path get to the trash on this OS."
package trash

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// MoveToTrash moves path to the platform trash/recycle bin. A path that
// no longer exists is treated as already-trashed, not an error, matching
// DeleteFiles' independent-attempt semantics (spec.md §1 "no
// transactional deletion").
func MoveToTrash(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return trashDarwin(path)
	case "linux":
		return trashLinux(path)
	case "windows":
		return trashWindows(path)
	default:
		return fmt.Errorf("trash: unsupported platform %s", runtime.GOOS)
	}
}

// trashDarwin asks Finder to delete the file via AppleScript, which
// preserves "Put Back" the way dragging to the Trash in the UI does.
// Finder failures (e.g. no GUI session) fall back to a permanent remove.
func trashDarwin(path string) error {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(path)
	script := `tell application "Finder" to delete POSIX file "` + escaped + `"`

	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return os.RemoveAll(path)
	}
	return nil
}

// trashLinux tries the desktop-environment trash helpers first, then
// falls back to a hand-rolled FreeDesktop.org Trash spec implementation
// so headless hosts without gio or trash-cli still get real trash
// semantics instead of silently hard-deleting.
func trashLinux(path string) error {
	if err := exec.Command("gio", "trash", path).Run(); err == nil {
		return nil
	}
	if err := exec.Command("trash-put", path).Run(); err == nil {
		return nil
	}
	return trashLinuxManual(path)
}

// trashLinuxManual implements the subset of the FreeDesktop.org Trash
// spec (files/ + info/ under $HOME/.local/share/Trash) needed to record
// a deletion: write a .trashinfo sidecar, then rename the path into
// files/, resolving name collisions by appending a numeric suffix.
func trashLinuxManual(path string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("trash: resolve home dir: %w", err)
	}

	filesDir := filepath.Join(home, ".local", "share", "Trash", "files")
	infoDir := filepath.Join(home, ".local", "share", "Trash", "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return fmt.Errorf("trash: create files dir: %w", err)
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return fmt.Errorf("trash: create info dir: %w", err)
	}

	trashName := uniqueTrashName(filesDir, filepath.Base(path))

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("trash: resolve absolute path: %w", err)
	}
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		absPath, time.Now().Format("2006-01-02T15:04:05"))

	infoPath := filepath.Join(infoDir, trashName+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return fmt.Errorf("trash: write trashinfo: %w", err)
	}

	if err := os.Rename(path, filepath.Join(filesDir, trashName)); err != nil {
		os.Remove(infoPath)
		return fmt.Errorf("trash: move into trash: %w", err)
	}
	return nil
}

// uniqueTrashName returns baseName, or baseName with a ".N" suffix, such
// that the result does not already exist under filesDir.
func uniqueTrashName(filesDir, baseName string) string {
	name := baseName
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(filesDir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d", baseName, n)
	}
}

// trashWindows drives the Shell.Application COM object via PowerShell so
// the Recycle Bin's normal undo/restore behavior applies. A failure
// (e.g. PowerShell unavailable) falls back to the "recycle" CLI if
// present, then a permanent delete.
func trashWindows(path string) error {
	escaped := strings.ReplaceAll(path, `'`, `''`)
	script := fmt.Sprintf(`
$shell = New-Object -ComObject Shell.Application
$item = $shell.NameSpace(0).ParseName('%s')
if ($item) {
    $item.InvokeVerb('delete')
}
`, escaped)

	if err := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run(); err != nil {
		return trashWindowsFallback(path)
	}
	return nil
}

func trashWindowsFallback(path string) error {
	if err := exec.Command("recycle", path).Run(); err != nil {
		return os.RemoveAll(path)
	}
	return nil
}

// IsTrashSupported reports whether MoveToTrash has a platform
// implementation for the current GOOS.
func IsTrashSupported() bool {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		return true
	default:
		return false
	}
}

// TrashLocation returns the directory MoveToTrash files end up under on
// the current platform, for display/diagnostics only — deletion never
// reads this path back.
func TrashLocation() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".Trash"), nil
	case "linux":
		return filepath.Join(home, ".local", "share", "Trash"), nil
	case "windows":
		return "", fmt.Errorf("trash: recycle bin has no direct filesystem path on Windows")
	default:
		return "", fmt.Errorf("trash: unsupported platform %s", runtime.GOOS)
	}
}
