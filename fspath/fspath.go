// Package fspath provides path manipulation routines for resolvers that must
// observe symbolic links. Unlike the standard path package, nothing here ever
// erases "." or ".." components ahead of resolution: a parent directory
// reference after a symbolic link does not mean what path.Clean assumes it
// means, so the components are preserved and interpreted one at a time by the
// caller.
package fspath

// IsAbs returns true if the path is absolute.
func IsAbs(path string) bool {
	return len(path) > 0 && path[0] == '/'
}

// Split cuts a path into its components, dropping empty components created by
// repeated separators. A trailing separator expresses the requirement that
// the path names a directory, which is preserved by appending a "."
// component.
func Split(path string) []string {
	parts := make([]string, 0, 8)
	trailingSlash := HasTrailingSlash(path)
	for {
		path = TrimLeadingSlash(path)
		if path == "" {
			break
		}
		i := IndexSlash(path)
		if i < 0 {
			i = len(path)
		}
		parts = append(parts, path[:i])
		path = path[i:]
	}
	if trailingSlash && len(parts) > 0 {
		parts = append(parts, ".")
	}
	return parts
}

// SplitBase separates the last component of a path from everything before it.
// The directory part may be empty when the path holds a single component.
func SplitBase(path string) (dir, base string) {
	path = TrimTrailingSlash(path)
	i := len(path)
	for i > 0 && path[i-1] != '/' {
		i--
	}
	return TrimTrailingSlash(path[:i]), path[i:]
}

// HasDotDot returns true if any component of the path is a parent directory
// reference.
func HasDotDot(path string) bool {
	for {
		path = TrimLeadingSlash(path)
		if path == "" {
			return false
		}
		i := IndexSlash(path)
		if i < 0 {
			i = len(path)
		}
		if path[:i] == ".." {
			return true
		}
		path = path[i:]
	}
}

// IndexSlash is like strings.IndexByte(path, '/') but the function is simple
// enough to be inlined, which matters because the resolvers call it for every
// component of every path.
func IndexSlash(path string) int {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

func HasTrailingSlash(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '/'
}

func TrimLeadingSlash(s string) string {
	i := 0
	for i < len(s) && s[i] == '/' {
		i++
	}
	return s[i:]
}

func TrimTrailingSlash(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '/' {
		i--
	}
	return s[:i]
}
