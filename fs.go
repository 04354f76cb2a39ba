package dircap

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/stealthrocket/dircap/fspath"
)

// Create creates and opens a file beneath the root, truncating it if it
// already exists. The mode is used to set permissions on creation.
func Create(r *Root, name string, mode fs.FileMode) (*os.File, error) {
	return r.Open(name, O_CREAT|O_TRUNC|O_WRONLY, mode)
}

// Open opens the file at name beneath the root for reading.
func Open(r *Root, name string) (*os.File, error) {
	return r.Open(name, O_RDONLY, 0)
}

// OpenDir opens the directory at name beneath the root.
func OpenDir(r *Root, name string) (*os.File, error) {
	return r.Open(name, O_RDONLY|O_DIRECTORY, 0)
}

// ReadFile reads the content of the file at name beneath the root. The flags
// are merged into the open (e.g. passing O_NOFOLLOW fails if a symbolic link
// exists at that location).
func ReadFile(r *Root, name string, flags OpenFlags) ([]byte, error) {
	f, err := r.Open(name, flags|O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile creates a file beneath the root and writes data to it. The file
// must not already exist.
func WriteFile(r *Root, name string, data []byte, mode fs.FileMode) error {
	f, err := r.Open(name, O_CREAT|O_WRONLY|O_TRUNC|O_EXCL, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// MkdirAll creates all missing directories leading to the path name. The mode
// sets the permissions of each new directory; permissions of existing
// directories are left untouched.
func MkdirAll(r *Root, name string, mode fs.FileMode) error {
	var prefix string
	for _, elem := range fspath.Split(name) {
		if prefix == "" {
			prefix = elem
		} else {
			prefix = prefix + "/" + elem
		}
		if err := r.Mkdir(prefix, mode); err != nil && !errors.Is(err, EEXIST) {
			return err
		}
	}
	// A component may have existed as something other than a directory, in
	// which case the mkdir errors above were swallowed as EEXIST; resolving
	// the full path as a directory makes that case fail here.
	fd, err := r.resolve(name, OpenFlags(openDirFlags), 0)
	if err != nil {
		return pathError("mkdir", name, err)
	}
	closeTraceError(fd)
	return nil
}

// FS exposes a Root as a read-only fs.FS, which is how the resolver is run
// against the standard testing/fstest suite and handed to code consuming
// standard file system interfaces.
func FS(r *Root) fs.FS { return &fsFileSystem{r} }

type fsFileSystem struct{ root *Root }

func (fsys *fsFileSystem) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return fsys.root.Open(name, O_RDONLY, 0)
}
