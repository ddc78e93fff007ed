package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/tcglabels/pkg/errors"
)

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestWriteBytesAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "labels.pdf")

	if err := WriteBytesAtomic(path, []byte("%PDF-1.3")); err != nil {
		t.Fatalf("WriteBytesAtomic() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.3" {
		t.Errorf("contents = %q", data)
	}
	if names := dirNames(t, dir); len(names) != 1 {
		t.Errorf("directory entries = %v, want only labels.pdf", names)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestWriteFileAtomicFailuresLeaveNoTempFiles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
		write func(w io.Writer) error
		want  errors.Code
	}{
		{
			name:  "writer fails",
			write: func(io.Writer) error { return fmt.Errorf("disk full") },
			want:  errors.ErrCodeIOFailure,
		},
		{
			name:  "coded writer error kept",
			write: func(io.Writer) error { return errors.New(errors.ErrCodeInternal, "encode") },
			want:  errors.ErrCodeInternal,
		},
		{
			name: "rename onto a directory",
			setup: func(t *testing.T, path string) {
				if err := os.MkdirAll(filepath.Join(path, "occupied"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			write: func(w io.Writer) error { _, err := w.Write([]byte("x")); return err },
			want:  errors.ErrCodeIOFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "labels.pdf")
			if tt.setup != nil {
				tt.setup(t, path)
			}

			err := WriteFileAtomic(path, tt.write)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %s", err, tt.want)
			}
			for _, name := range dirNames(t, dir) {
				if name != "labels.pdf" {
					t.Errorf("leftover file %s", name)
				}
			}
		})
	}
}

func TestWriteFileAtomicRejectsBadPath(t *testing.T) {
	if err := WriteBytesAtomic("", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}
