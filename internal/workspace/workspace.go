// Package workspace lists the projects present under the workspace root.
//
// Discovery reads the filesystem every time it is called. The directory tree
// is the source of truth for which projects exist, independent of the
// configured repository list.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// ErrWorkspaceMissing is returned when the workspace root does not exist.
var ErrWorkspaceMissing = errors.New("workspace root does not exist")

// Entry is one directory entry.
type Entry struct {
	Name  string
	IsDir bool
}

// FS is the filesystem collaborator.
type FS interface {
	// PathExists reports whether path exists.
	PathExists(path string) bool

	// ListDirectoryEntries returns the entries directly under path.
	ListDirectoryEntries(path string) ([]Entry, error)
}

// OSFS implements FS on the host filesystem.
type OSFS struct{}

// PathExists implements FS.
func (OSFS) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListDirectoryEntries implements FS.
func (OSFS) ListDirectoryEntries(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}

// Discover returns the names of the directories directly under root.
// Regular files are ignored. Names are sorted.
//
// Parameters:
//   - fsys: Filesystem collaborator
//   - root: Workspace root
//
// Returns:
//   - []string: Directory names
//   - error: ErrWorkspaceMissing (wrapped) if root does not exist, or a read error
func Discover(fsys FS, root string) ([]string, error) {
	entries, err := fsys.ListDirectoryEntries(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceMissing, root)
		}
		return nil, fmt.Errorf("failed to list workspace %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// EnsureRoot creates the workspace root if it does not exist yet.
func EnsureRoot(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace root: %w", err)
	}
	return nil
}
