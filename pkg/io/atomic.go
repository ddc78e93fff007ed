package io

import (
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/tcglabels/pkg/errors"
)

// WriteFileAtomic creates path's parent directories, streams write into a
// hidden temporary sibling and renames it into place. Readers never observe a
// partial file, and the temporary file is removed on every failure path.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeIOFailure, err, "write %s", path)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "chmod %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailure, err, "rename to %s", path)
	}
	return nil
}

// WriteBytesAtomic is [WriteFileAtomic] for an in-memory payload.
func WriteBytesAtomic(path string, data []byte) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
