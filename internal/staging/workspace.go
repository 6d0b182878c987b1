package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vodpress/internal/logging"
)

// Workspace owns the local filesystem footprint of one job. All scratch
// paths derive deterministically from the job base name, so a rerun of the
// same source overwrites rather than accumulates.
type Workspace struct {
	Root          string
	Base          string
	DashDir       string
	TextDir       string
	ThumbnailPath string
	SourcePath    string
}

// NewWorkspace creates the scratch layout for one job beneath root:
// {base}_dash for DASH output, {base}.jpg for the thumbnail, and the staged
// source at the object's own key. The {base}_txt directory is only created
// later on the success path, matching the reference layout.
func NewWorkspace(root, base, sourceKey string) (*Workspace, error) {
	if root == "" || base == "" {
		return nil, errors.New("staging workspace requires root and base name")
	}
	ws := &Workspace{
		Root:          root,
		Base:          base,
		DashDir:       filepath.Join(root, base+"_dash"),
		TextDir:       filepath.Join(root, base+"_txt"),
		ThumbnailPath: filepath.Join(root, base+".jpg"),
		SourcePath:    filepath.Join(root, filepath.FromSlash(sourceKey)),
	}
	if err := os.MkdirAll(ws.DashDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dash scratch dir: %w", err)
	}
	if dir := filepath.Dir(ws.SourcePath); dir != root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create source scratch dir: %w", err)
		}
	}
	return ws, nil
}

// EnsureTextDir creates the text output scratch directory if absent. Nothing
// populates it; it exists for layout parity with downstream tooling.
func (w *Workspace) EnsureTextDir() error {
	if err := os.MkdirAll(w.TextDir, 0o755); err != nil {
		return fmt.Errorf("create text scratch dir: %w", err)
	}
	return nil
}

// Release removes every scratch path the job may have produced, including
// the staged source download. It runs on every exit path; failures are
// logged, never fatal.
func (w *Workspace) Release(logger *slog.Logger) {
	if w == nil {
		return
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := Teardown(w.Root, w.Base); err != nil {
		logger.Warn("scratch teardown incomplete",
			logging.String("base", w.Base),
			logging.Error(err),
		)
	}
	if err := os.Remove(w.SourcePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("staged source not removed",
			logging.String("path", w.SourcePath),
			logging.Error(err),
		)
	}
}

// Teardown reconstructs the known scratch paths for a base name and removes
// each if present: recursively for directories, directly for the thumbnail
// file. Already-absent paths are a no-op, not an error.
func Teardown(root, base string) error {
	var errs []error
	for _, dir := range []string{
		filepath.Join(root, base+"_dash"),
		filepath.Join(root, base+"_txt"),
	} {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", dir, err))
		}
	}
	thumb := filepath.Join(root, base+".jpg")
	if err := os.Remove(thumb); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("remove %s: %w", thumb, err))
	}
	return errors.Join(errs...)
}
