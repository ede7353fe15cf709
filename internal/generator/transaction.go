package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// Transaction stages file writes for one generation unit and commits them as
// a group. If any write fails, files already written by this transaction are
// removed so a unit never leaves half of its artifacts behind.
type Transaction struct {
	staged    []stagedFile
	written   []string
	committed bool
}

type stagedFile struct {
	path    string
	content []byte
	mode    os.FileMode
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Stage records a pending file write. Nothing touches the disk until Commit.
func (t *Transaction) Stage(path string, content []byte, mode os.FileMode) {
	t.staged = append(t.staged, stagedFile{path: path, content: content, mode: mode})
}

// Len returns the number of staged writes.
func (t *Transaction) Len() int {
	return len(t.staged)
}

// Commit writes every staged file. On the first failure it deletes the files
// this transaction already wrote and returns the error.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	for _, f := range t.staged {
		dir := filepath.Dir(f.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.undo()
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
		if err := os.WriteFile(f.path, f.content, f.mode); err != nil {
			t.undo()
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		t.written = append(t.written, f.path)
	}

	t.committed = true
	return nil
}

// Written returns the paths committed so far, in write order.
func (t *Transaction) Written() []string {
	return t.written
}

// Rollback removes any files written by an uncommitted transaction. Safe to
// call from defer; a committed transaction is left alone.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.undo()
	}
}

func (t *Transaction) undo() {
	for _, path := range t.written {
		os.Remove(path) // best effort
	}
	t.written = nil
}
