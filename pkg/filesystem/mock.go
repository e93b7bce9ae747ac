package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Op names a MockFileSystem operation that can be made to fail.
type Op string

// Injectable operations.
const (
	OpOpen     Op = "open"
	OpCreate   Op = "create"
	OpMkdir    Op = "mkdir"
	OpReadDir  Op = "readdir"
	OpSetTimes Op = "settimes"
	OpStat     Op = "stat"
	OpWrite    Op = "write"
)

// ErrNotDirectory is returned by the mock when a directory operation hits a file.
var ErrNotDirectory = errors.New("not a directory")

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are cleaned before use, so "a/b/" and "a/b" name the same entry.
type MockFileSystem struct {
	mu       sync.RWMutex
	files    map[string]*mockFile
	failures map[Op]map[string]error
	short    map[string]bool
}

// mockFile represents a file or directory in the mock filesystem.
type mockFile struct {
	data    []byte
	atime   time.Time
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() any           { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}

	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	short  bool
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.reader == nil {
		return 0, io.EOF
	}

	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.writer == nil {
		return 0, fmt.Errorf("write %s: bad file descriptor", f.path)
	}

	if f.short && len(p) > 1 {
		// Report success on a partial write, as a full disk would.
		n, _ := f.writer.Write(p[:len(p)/2])

		return n, nil
	}

	if err := f.fs.failure(OpWrite, f.path); err != nil {
		return 0, err
	}

	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}

	f.closed = true

	if f.writer == nil {
		return nil
	}

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	now := time.Now()
	f.fs.files[f.path] = &mockFile{
		data:    f.writer.Bytes(),
		atime:   now,
		modTime: now,
		perm:    DefaultFilePermissions,
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:    make(map[string]*mockFile),
		failures: make(map[Op]map[string]error),
		short:    make(map[string]bool),
	}
}

// Create truncates or creates a file for writing. The parent must exist.
func (fs *MockFileSystem) Create(path string) (File, error) {
	path = filepath.Clean(path)

	if err := fs.failure(OpCreate, path); err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		parent, ok := fs.files[dir]
		if !ok {
			return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
		}

		if !parent.isDir {
			return nil, &os.PathError{Op: "open", Path: path, Err: ErrNotDirectory}
		}
	}

	if existing, ok := fs.files[path]; ok && existing.isDir {
		return nil, &os.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	now := time.Now()
	fs.files[path] = &mockFile{atime: now, modTime: now, perm: DefaultFilePermissions}

	return &mockFileHandle{
		fs:     fs,
		path:   path,
		writer: &bytes.Buffer{},
		short:  fs.short[path],
	}, nil
}

// Join joins path elements.
func (fs *MockFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat is Stat; the mock has no symlinks.
func (fs *MockFileSystem) Lstat(path string) (os.FileInfo, error) {
	return fs.Stat(path)
}

// MkdirAll creates a directory and all necessary parents.
func (fs *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	path = filepath.Clean(path)

	if err := fs.failure(OpMkdir, path); err != nil {
		return &os.PathError{Op: "mkdir", Path: path, Err: err}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.mkdirAllLocked(path, perm)
}

// Open opens a file for reading.
func (fs *MockFileSystem) Open(path string) (File, error) {
	path = filepath.Clean(path)

	if err := fs.failure(OpOpen, path); err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path]
	if !exists {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}

	if file.isDir {
		return nil, &os.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}

	return &mockFileHandle{
		fs:     fs,
		path:   path,
		reader: bytes.NewReader(append([]byte(nil), file.data...)),
	}, nil
}

// ReadDir lists the direct children of dirname, sorted by name.
func (fs *MockFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	dirname = filepath.Clean(dirname)

	if err := fs.failure(OpReadDir, dirname); err != nil {
		return nil, &os.PathError{Op: "open", Path: dirname, Err: err}
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, ok := fs.files[dirname]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: dirname, Err: os.ErrNotExist}
	}

	if !dir.isDir {
		return nil, &os.PathError{Op: "readdirent", Path: dirname, Err: ErrNotDirectory}
	}

	var infos []os.FileInfo

	for p, f := range fs.files {
		if p != dirname && filepath.Dir(p) == dirname {
			infos = append(infos, f.info(p))
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// SetTimes changes the access and modification times of a path.
func (fs *MockFileSystem) SetTimes(path string, atime, mtime time.Time) error {
	path = filepath.Clean(path)

	if err := fs.failure(OpSetTimes, path); err != nil {
		return &os.PathError{Op: "utimes", Path: path, Err: err}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[path]
	if !exists {
		return &os.PathError{Op: "utimes", Path: path, Err: os.ErrNotExist}
	}

	file.atime = atime
	file.modTime = mtime

	return nil
}

// Stat returns file information.
func (fs *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	path = filepath.Clean(path)

	if err := fs.failure(OpStat, path); err != nil {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path]
	if !exists {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}

	return file.info(path), nil
}

// Times returns the access and modification times of a path.
func (fs *MockFileSystem) Times(path string) (time.Time, time.Time, error) {
	path = filepath.Clean(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path]
	if !exists {
		return time.Time{}, time.Time{}, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}

	return file.atime, file.modTime, nil
}

// Helper methods for testing

// AddDir adds a directory (and its parents) to the mock filesystem.
func (fs *MockFileSystem) AddDir(path string, modTime time.Time) {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_ = fs.mkdirAllLocked(path, 0o755)
	fs.files[path].modTime = modTime
}

// AddFile adds a file to the mock filesystem with the given content and times.
// Parent directories are created as needed.
func (fs *MockFileSystem) AddFile(path string, content []byte, modTime time.Time) {
	fs.AddFileWithTimes(path, content, modTime, modTime)
}

// AddFileWithTimes is AddFile with a distinct access time.
func (fs *MockFileSystem) AddFileWithTimes(path string, content []byte, atime, modTime time.Time) {
	path = filepath.Clean(path)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_ = fs.mkdirAllLocked(filepath.Dir(path), 0o755)

	fs.files[path] = &mockFile{
		data:    append([]byte(nil), content...),
		atime:   atime,
		modTime: modTime,
		perm:    DefaultFilePermissions,
	}
}

// Exists checks if a path exists in the mock filesystem.
func (fs *MockFileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[filepath.Clean(path)]

	return exists
}

// FailOn makes op on path return err until cleared with FailOn(op, path, nil).
func (fs *MockFileSystem) FailOn(op Op, path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path = filepath.Clean(path)

	if err == nil {
		delete(fs.failures[op], path)

		return
	}

	if fs.failures[op] == nil {
		fs.failures[op] = make(map[string]error)
	}

	fs.failures[op][path] = err
}

// GetFile retrieves a file's content and modification time.
func (fs *MockFileSystem) GetFile(path string) ([]byte, time.Time, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[filepath.Clean(path)]
	if !exists {
		return nil, time.Time{}, os.ErrNotExist
	}

	if file.isDir {
		return nil, time.Time{}, fmt.Errorf("%s is a directory", path)
	}

	return append([]byte(nil), file.data...), file.modTime, nil
}

// ListFiles returns every path in the mock filesystem, sorted.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// ShortWrites makes writes to path report fewer bytes than requested without an error.
func (fs *MockFileSystem) ShortWrites(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.short[filepath.Clean(path)] = true
}

func (fs *MockFileSystem) failure(op Op, path string) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.failures[op][path]
}

// mkdirAllLocked is the internal implementation that assumes the lock is held.
func (fs *MockFileSystem) mkdirAllLocked(path string, perm os.FileMode) error {
	if path == "." || path == "/" || path == "" {
		return nil
	}

	if existing, ok := fs.files[path]; ok {
		if !existing.isDir {
			return &os.PathError{Op: "mkdir", Path: path, Err: ErrNotDirectory}
		}

		return nil
	}

	if err := fs.mkdirAllLocked(filepath.Dir(path), perm); err != nil {
		return err
	}

	now := time.Now()
	fs.files[path] = &mockFile{atime: now, modTime: now, isDir: true, perm: perm}

	return nil
}

func (f *mockFile) info(path string) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.data)),
		modTime: f.modTime,
		isDir:   f.isDir,
		perm:    f.perm,
	}
}
