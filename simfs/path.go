package simfs

import "strings"

// splitPath validates and tokenizes an absolute path: a single
// trailing slash is trimmed, the leading empty segment (from the
// leading "/") is dropped, and any empty segment in the middle is
// rejected.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, newError(KindInvalidPath, "empty path")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, newError(KindInvalidPath, "path must be absolute")
	}
	trimmed := path
	if trimmed != "/" {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	if trimmed == "/" {
		return nil, nil
	}
	segments := strings.Split(trimmed[1:], "/")
	for _, s := range segments {
		if s == "" {
			return nil, newError(KindInvalidPath, "empty path segment")
		}
	}
	return segments, nil
}

// resolve walks path from the root inode, directory by directory, and
// returns the final inode's address and decoded record.
func (c *core) resolve(path string) (uint32, Inode, error) {
	segments, err := splitPath(path)
	if err != nil {
		return 0, Inode{}, err
	}
	addr := uint32(rootInodeAddr)
	ino, err := c.loadInode(addr)
	if err != nil {
		return 0, Inode{}, err
	}
	for _, seg := range segments {
		if !ino.isDir() {
			return 0, Inode{}, newError(KindNotDirButFile, "path component is not a directory: "+path)
		}
		entries, err := c.readDir(addr)
		if err != nil {
			return 0, Inode{}, err
		}
		next, ok := findEntry(entries, seg)
		if !ok {
			return 0, Inode{}, newError(KindNotFound, "path not found: "+path)
		}
		addr = next
		ino, err = c.loadInode(addr)
		if err != nil {
			return 0, Inode{}, err
		}
	}
	return addr, ino, nil
}

// resolveParent resolves path's parent directory, returning it along
// with path's final segment (the entry name to create/look up/remove).
func (c *core) resolveParent(path string) (uint32, Inode, string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return 0, Inode{}, "", err
	}
	if len(segments) == 0 {
		return 0, Inode{}, "", newError(KindInvalidPath, "path has no parent: "+path)
	}
	parentPath := "/" + strings.Join(segments[:len(segments)-1], "/")
	addr, ino, err := c.resolve(parentPath)
	if err != nil {
		return 0, Inode{}, "", err
	}
	if !ino.isDir() {
		return 0, Inode{}, "", newError(KindNotDirButFile, "parent is not a directory: "+path)
	}
	return addr, ino, segments[len(segments)-1], nil
}
