package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation is a file-system mutation that can be checked before it runs.
//
// Validate reports whether the operation would succeed without performing
// it. Validation may have idempotent side effects (creating parent
// directories). force=true disables conflict checks against existing files.
//
// Execute performs the mutation and should only run after Validate passes.
//
// Description returns a short human-readable summary for terminal output.
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes a rendered artifact to disk.
//
// Empty content is allowed; nil content is rejected during validation so a
// failed render can never silently produce an empty file.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("no content rendered for %s", op.Path)
	}

	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// DeleteFileOp removes a file. Deleting a missing file is not an error, so
// post-actions that clean up merged fragments stay idempotent.
type DeleteFileOp struct {
	Path string
}

func (op *DeleteFileOp) Validate(ctx context.Context, force bool) error {
	return nil
}

func (op *DeleteFileOp) Execute(ctx context.Context) error {
	if err := os.Remove(op.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", op.Path, err)
	}
	return nil
}

func (op *DeleteFileOp) Description() string {
	return fmt.Sprintf("Delete %s", op.Path)
}
