// Package fileio implements the sender's source read and the receiver's
// sink write (§6 "Persisted state"), in the plain os.Open/os.Create style
// the teacher uses throughout (media_source.go, media_sinks.go).
package fileio

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/lanikai/mcastxfer/internal/xfererr"
)

// OpenSource opens path for reading and reports its size, which the sender
// needs up front to compute the generation layout (§3).
func OpenSource(path string) (*os.File, uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(xfererr.ErrConfig, "open source %q: %v", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, errors.Wrapf(xfererr.ErrConfig, "stat source %q: %v", path, err)
	}
	if info.Size() > int64(^uint32(0)) {
		f.Close()
		return nil, 0, errors.Wrapf(xfererr.ErrConfig, "source %q too large", path)
	}
	return f, uint32(info.Size()), nil
}

// WriteSinkAtomic writes data to path, atomically: it writes to a temp file
// in the same directory and renames it into place, so a sink file readers
// can see is always either absent or complete (§6: "written atomically at
// the receiver's COMPLETED transition").
func WriteSinkAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mcastxfer-*")
	if err != nil {
		return errors.Wrapf(xfererr.ErrSinkIO, "create temp sink in %q: %v", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(xfererr.ErrSinkIO, "write temp sink %q: %v", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(xfererr.ErrSinkIO, "close temp sink %q: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(xfererr.ErrSinkIO, "rename %q to %q: %v", tmpName, path, err)
	}
	return nil
}
