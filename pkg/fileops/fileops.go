// Package fileops provides file operation utilities for copying and comparing files.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/joe/mirror-sync/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for copy and compare loops (32KB)
	BufferSize = 32 * 1024
	// DefaultDirPermissions is the permission mode for created directories (rwxr-xr-x)
	DefaultDirPermissions = 0o755
)

// CopyResult describes a completed copy.
type CopyResult struct {
	BytesCopied int64
	Duration    time.Duration
	// TimesErr is set when the data was copied but the source timestamps
	// could not be applied to the target. The copy still counts as done.
	TimesErr error
}

// FileOps performs file operations against an injected filesystem.
type FileOps struct {
	FS filesystem.FileSystem
}

// NewFileOps creates a new FileOps instance with the given filesystem.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{FS: fs}
}

// CompareFilesBytes performs byte-by-byte comparison of two files.
// Returns true if files are identical, false if they differ.
func (fo *FileOps) CompareFilesBytes(path1, path2 string) (bool, error) {
	file1, err := fo.FS.Open(path1)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path1, err)
	}

	defer func() {
		_ = file1.Close()
	}()

	file2, err := fo.FS.Open(path2)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path2, err)
	}

	defer func() {
		_ = file2.Close()
	}()

	identical, err := compareFileContents(file1, file2)
	if err != nil {
		return false, fmt.Errorf("failed to compare %s and %s: %w", path1, path2, err)
	}

	return identical, nil
}

// CopyFile streams src into dst, truncating or creating dst and its parent
// directory. Any open, read or write failure, including a short write, is
// returned as an error and the partially written dst is left in place.
// Once the data is in place the source access and modification times are
// applied to dst; failure there is reported through CopyResult.TimesErr.
func (fo *FileOps) CopyFile(src, dst string) (CopyResult, error) {
	var result CopyResult

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
	}()

	// Read times before the copy touches the source's access time.
	atime, mtime, timesErr := fo.FS.Times(src)

	dstDir := filepath.Dir(dst)

	err := fo.FS.MkdirAll(dstDir, DefaultDirPermissions)
	if err != nil {
		return result, fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	sourceFile, err := fo.FS.Open(src)
	if err != nil {
		return result, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	destFile, err := fo.FS.Create(dst)
	if err != nil {
		return result, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	written, err := copyLoop(sourceFile, destFile)
	result.BytesCopied = written

	if err != nil {
		_ = destFile.Close()

		return result, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close before setting times so buffered writes cannot bump mtime.
	err = destFile.Close()
	if err != nil {
		return result, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	if timesErr != nil {
		result.TimesErr = fmt.Errorf("failed to read times of %s: %w", src, timesErr)

		return result, nil
	}

	err = fo.FS.SetTimes(dst, atime, mtime)
	if err != nil {
		result.TimesErr = fmt.Errorf("failed to preserve times for %s: %w", dst, err)
	}

	return result, nil
}

// compareFileContents performs byte-by-byte comparison of two open files.
func compareFileContents(file1, file2 filesystem.File) (bool, error) {
	buf1 := make([]byte, BufferSize)
	buf2 := make([]byte, BufferSize)

	for {
		n1, err1 := io.ReadFull(file1, buf1) //nolint:varnamelen // n1/n2 are idiomatic for bytes read
		n2, err2 := io.ReadFull(file2, buf2) //nolint:varnamelen // n1/n2 are idiomatic for bytes read

		err := checkReadErrors(err1, err2)
		if err != nil {
			return false, fmt.Errorf("failed to read file for comparison: %w", err)
		}

		if n1 != n2 {
			return false, nil
		}

		for i := range n1 {
			if buf1[i] != buf2[i] {
				return false, nil
			}
		}

		// A short fill on both sides means both files ended here.
		if err1 != nil && err2 != nil {
			return true, nil
		}
	}
}

// checkReadErrors returns the first read error that is not end-of-file.
func checkReadErrors(err1, err2 error) error {
	if err1 != nil && !isEOF(err1) {
		return err1
	}

	if err2 != nil && !isEOF(err2) {
		return err2
	}

	return nil
}

// copyLoop streams source into dest through a fixed buffer.
func copyLoop(sourceFile, destFile filesystem.File) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		if nr > 0 {
			nw, werr := destFile.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			if nw > 0 {
				written += int64(nw)
			}

			if werr != nil {
				return written, fmt.Errorf("failed to write to destination: %w", werr)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}
		}

		if errors.Is(err, io.EOF) {
			return written, nil
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
