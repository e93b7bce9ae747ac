package filesystem

import (
	"os"

	"github.com/kr/fs"
)

// Walk returns an iterative walker over the tree rooted at root. A symlinked
// root is followed; symlinks below the root are reported but not descended.
//
// A directory that cannot be listed is yielded a second time with Err set,
// and its subtree is skipped.
func Walk(fsys FileSystem, root string) *fs.Walker {
	return fs.WalkFS(root, &rootFollowingFS{fsys: fsys, root: root})
}

// rootFollowingFS adapts a FileSystem to fs.FileSystem, using Stat for the
// root and Lstat for everything beneath it.
type rootFollowingFS struct {
	fsys FileSystem
	root string
}

func (r *rootFollowingFS) Join(elem ...string) string {
	return r.fsys.Join(elem...)
}

func (r *rootFollowingFS) Lstat(name string) (os.FileInfo, error) {
	if name == r.root {
		return r.fsys.Stat(name)
	}

	return r.fsys.Lstat(name)
}

func (r *rootFollowingFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	return r.fsys.ReadDir(dirname)
}
