package simfs

// createFile creates a new regular file: the parent must exist and be
// a directory, and the target name must be free.
func (c *core) createFile(path string, uid uint8) (uint32, Inode, error) {
	parentAddr, _, name, err := c.resolveParent(path)
	if err != nil {
		return 0, Inode{}, err
	}
	entries, err := c.readDir(parentAddr)
	if err != nil {
		return 0, Inode{}, err
	}
	if _, ok := findEntry(entries, name); ok {
		return 0, Inode{}, newError(KindExists, "already exists: "+path)
	}

	addr, ino, err := c.allocInode(uid, false)
	if err != nil {
		return 0, Inode{}, err
	}
	if err := c.writeInodePayload(addr, &ino, []byte{0}, 0); err != nil {
		return 0, Inode{}, err
	}
	if err := c.addDirEntry(parentAddr, addr, name); err != nil {
		return 0, Inode{}, err
	}
	return addr, ino, nil
}

// removeFileRaw unlinks path and frees its inode and data blocks.
// Callers must already have verified the target is not open.
func (c *core) removeFileRaw(path string) error {
	addr, ino, err := c.resolve(path)
	if err != nil {
		return err
	}
	if ino.isDir() {
		return newError(KindNotFileButDir, "not a file: "+path)
	}
	parentAddr, _, _, err := c.resolveParent(path)
	if err != nil {
		return err
	}
	if err := c.removeDirEntry(parentAddr, addr); err != nil {
		return err
	}
	payload, err := c.getBlocks(ino)
	if err != nil {
		return err
	}
	if err := c.freeAllBlocks(ino, payload); err != nil {
		return err
	}
	return c.freeInode(addr)
}

// createDir creates a new directory: allocates an inode, attaches it
// to the parent, allocates one data block holding the terminator, and
// links "." and ".." entries.
func (c *core) createDir(path string, uid uint8) (uint32, Inode, error) {
	parentAddr, _, name, err := c.resolveParent(path)
	if err != nil {
		return 0, Inode{}, err
	}
	entries, err := c.readDir(parentAddr)
	if err != nil {
		return 0, Inode{}, err
	}
	if _, ok := findEntry(entries, name); ok {
		return 0, Inode{}, newError(KindExists, "already exists: "+path)
	}

	addr, _, err := c.allocInode(uid, true)
	if err != nil {
		return 0, Inode{}, err
	}
	if err := c.addDirEntry(parentAddr, addr, name); err != nil {
		return 0, Inode{}, err
	}
	if err := c.addDirEntry(addr, addr, "."); err != nil {
		return 0, Inode{}, err
	}
	if err := c.addDirEntry(addr, parentAddr, ".."); err != nil {
		return 0, Inode{}, err
	}
	ino, err := c.loadInode(addr)
	if err != nil {
		return 0, Inode{}, err
	}
	return addr, ino, nil
}

// removeDirRaw removes an empty directory: the target must be empty
// of everything but "." and "..". It never recurses into
// subdirectories. Callers must already have verified the target is
// not open.
func (c *core) removeDirRaw(path string) error {
	addr, ino, err := c.resolve(path)
	if err != nil {
		return err
	}
	if !ino.isDir() {
		return newError(KindNotDirButFile, "not a directory: "+path)
	}
	entries, err := c.readDir(addr)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name != "." && e.Name != ".." {
			return newError(KindOccupied, "directory not empty: "+path)
		}
	}

	parentAddr, _, _, err := c.resolveParent(path)
	if err != nil {
		return err
	}
	if err := c.removeDirEntry(parentAddr, addr); err != nil {
		return err
	}
	payload, err := c.getBlocks(ino)
	if err != nil {
		return err
	}
	if err := c.freeAllBlocks(ino, payload); err != nil {
		return err
	}
	return c.freeInode(addr)
}
