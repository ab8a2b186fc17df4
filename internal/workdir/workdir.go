// Package workdir manages per-run staging directories.
//
// Each pipeline run works inside its own directory under the configured
// staging root, named after the run identifier and guarded by a file lock so
// two processes cannot share a workspace. Close releases the lock and, unless
// work files are kept, removes the directory.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrLocked reports that another process holds the workspace lock.
var ErrLocked = errors.New("workspace already locked")

// Options adjusts workspace creation.
type Options struct {
	// RunID names the workspace directory; empty generates a new id.
	RunID string
	// KeepFiles leaves the directory in place on Close.
	KeepFiles bool
}

// Workspace is a locked per-run staging directory.
type Workspace struct {
	runID string
	root  string
	keep  bool

	lock      *flock.Flock
	closeOnce sync.Once
	closeErr  error
}

// Open creates and locks a workspace under stagingDir.
func Open(stagingDir string, opts Options) (*Workspace, error) {
	if strings.TrimSpace(stagingDir) == "" {
		return nil, errors.New("staging directory not configured")
	}
	runID := strings.TrimSpace(opts.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}

	root := filepath.Join(stagingDir, runID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %q: %w", root, err)
	}

	lock := flock.New(filepath.Join(stagingDir, runID+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, root)
	}

	return &Workspace{
		runID: runID,
		root:  root,
		keep:  opts.KeepFiles,
		lock:  lock,
	}, nil
}

// RunID returns the identifier the workspace was opened with.
func (w *Workspace) RunID() string { return w.runID }

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// Path joins elements under the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

// UniquePath returns a fresh collision-free path inside the workspace.
// The suffix should carry the extension, e.g. ".wav".
func (w *Workspace) UniquePath(suffix string) string {
	return filepath.Join(w.root, uuid.NewString()+suffix)
}

// Mkdir creates a subdirectory under the workspace root and returns its path.
func (w *Workspace) Mkdir(name string) (string, error) {
	dir := w.Path(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace subdirectory %q: %w", dir, err)
	}
	return dir, nil
}

// Close releases the lock and removes the directory unless files are kept.
// Safe to call more than once.
func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		var errs []error
		if err := w.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release workspace lock: %w", err))
		}
		if err := os.Remove(w.lock.Path()); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove lock file: %w", err))
		}
		if !w.keep {
			if err := os.RemoveAll(w.root); err != nil {
				errs = append(errs, fmt.Errorf("remove workspace: %w", err))
			}
		}
		w.closeErr = errors.Join(errs...)
	})
	return w.closeErr
}
