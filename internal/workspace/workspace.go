// Package workspace manages the scratch directory tree the verifier
// works in. A run owns one root — a caller-designated directory, an
// in-memory tmpfs mount where the platform allows it, or a unique
// directory under the system temp location — and every worker gets its
// own uniquely named enclosure beneath it, so workers never contend on
// files.
package workspace

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// tmpfs size for ramdisk-backed roots; checker artifacts are small.
const tmpfsSize = "512m"

// Options selects how the root is provisioned.
type Options struct {
	// Path designates a caller-supplied root. It is created if absent;
	// on release the enclosures created beneath it are removed, while
	// the directory itself and any other files in it stay.
	Path string
	// Ramdisk requests an in-memory mount. Unsupported platforms or a
	// failed mount fall back to a plain directory with a warning.
	Ramdisk bool
}

// Workspace is an acquired scratch root.
type Workspace struct {
	root    string
	mounted bool
	owned   bool // we created the root and may remove it

	mu         sync.Mutex
	enclosures []string
	released   bool
}

// Create acquires a scratch root per the options. The returned path
// exists and is writable. Callers must Release on every exit path;
// a mount left behind by an abnormal termination has to be unmounted
// manually.
func Create(opts Options) (*Workspace, error) {
	if opts.Path != "" {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create workspace %s: %w", opts.Path, err)
		}
		return &Workspace{root: opts.Path}, nil
	}

	root, err := os.MkdirTemp("", "synth-light-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	w := &Workspace{root: root, owned: true}

	if opts.Ramdisk {
		if err := mountTmpfs(root); err != nil {
			log.Printf("[Workspace] ramdisk unavailable, using plain directory: %v", err)
		} else {
			w.mounted = true
		}
	}
	return w, nil
}

// mountTmpfs mounts an in-memory filesystem over dir. Only Linux is
// supported; elsewhere the plain directory is used.
func mountTmpfs(dir string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("tmpfs mount not supported on %s", runtime.GOOS)
	}
	cmd := exec.Command("mount", "-t", "tmpfs", "-o", "size="+tmpfsSize, "tmpfs", dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mount failed: %v (%s)", err, string(out))
	}
	return nil
}

// Root returns the workspace root path.
func (w *Workspace) Root() string { return w.root }

// Mounted reports whether the root is backed by an in-memory mount.
func (w *Workspace) Mounted() bool { return w.mounted }

// NewEnclosure creates a uniquely named working directory under the
// root for one worker.
func (w *Workspace) NewEnclosure() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return "", fmt.Errorf("workspace already released")
	}
	dir := filepath.Join(w.root, fmt.Sprintf("enclosure-%s", uuid.New()))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create enclosure: %w", err)
	}
	w.enclosures = append(w.enclosures, dir)
	return dir, nil
}

// Release deletes everything created beneath the root and tears the
// root down: unmounting the tmpfs when one was established, removing
// the directory when this process created it, and leaving a
// caller-designated directory in place (emptied of enclosures).
// Release is idempotent.
func (w *Workspace) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return nil
	}
	w.released = true

	var firstErr error
	for _, dir := range w.enclosures {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove enclosure %s: %w", dir, err)
		}
	}

	if w.mounted {
		cmd := exec.Command("umount", w.root)
		if out, err := cmd.CombinedOutput(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to unmount %s: %v (%s)", w.root, err, string(out))
		}
	}
	if w.owned {
		if err := os.RemoveAll(w.root); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove workspace %s: %w", w.root, err)
		}
	}
	return firstErr
}
