// Package fileutil holds file permission constants and small file helpers.
package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// OwnerReadWrite is the file permission mode for private output files
// such as MCP-written reports (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for build artifacts that
// other tools in the pipeline (packagers, compilers) need to read.
const ReadableByAll os.FileMode = 0o644

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MakeWritable clears a read-only bit left on a generated file so it can be
// rewritten in place. A missing file is not an error.
func MakeWritable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 != 0 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|0o200)
}
