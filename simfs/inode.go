package simfs

import (
	"encoding/binary"

	"github.com/virtfs/virtfs/bitmap"
)

// mode bits, MSB to LSB: dir | ownerR | ownerW | ownerX | otherR | otherW | otherX.
const (
	modeDir    = 1 << 6
	modeOwnerR = 1 << 5
	modeOwnerW = 1 << 4
	modeOwnerX = 1 << 3
	modeOtherR = 1 << 2
	modeOtherW = 1 << 1
	modeOtherX = 1 << 0

	modeDirDefault  = modeDir | modeOwnerR | modeOwnerW | modeOwnerX | modeOtherR | modeOtherX
	modeFileDefault = modeOwnerR | modeOwnerW | modeOtherR
)

// Inode is the 64-byte on-disk record. Address 0 in any of the block
// slots below means "absent"; the zero Inode value is therefore a
// valid, empty inode.
type Inode struct {
	UID           uint8
	Mode          uint8
	Size          uint32
	Timestamp     uint32
	Blocks        [maxDirectBlocks]uint32
	IndirectBlock uint32
	DoubleBlock   uint32
}

func (ino Inode) isDir() bool { return ino.Mode&modeDir != 0 }

func (ino Inode) encode() []byte {
	b := make([]byte, inodeSize)
	b[0] = ino.UID
	b[1] = ino.Mode
	binary.BigEndian.PutUint32(b[2:6], ino.Size)
	binary.BigEndian.PutUint32(b[6:10], ino.Timestamp)
	for i, addr := range ino.Blocks {
		off := 10 + i*4
		binary.BigEndian.PutUint32(b[off:off+4], addr)
	}
	binary.BigEndian.PutUint32(b[42:46], ino.IndirectBlock)
	binary.BigEndian.PutUint32(b[46:50], ino.DoubleBlock)
	// b[50:64] stays reserved zero.
	return b
}

func decodeInode(b []byte) Inode {
	var ino Inode
	ino.UID = b[0]
	ino.Mode = b[1]
	ino.Size = binary.BigEndian.Uint32(b[2:6])
	ino.Timestamp = binary.BigEndian.Uint32(b[6:10])
	for i := range ino.Blocks {
		off := 10 + i*4
		ino.Blocks[i] = binary.BigEndian.Uint32(b[off : off+4])
	}
	ino.IndirectBlock = binary.BigEndian.Uint32(b[42:46])
	ino.DoubleBlock = binary.BigEndian.Uint32(b[46:50])
	return ino
}

// inodeBlockAndOffset returns which disk block holds inode addr, and
// the byte offset of its record within that block.
func inodeBlockAndOffset(addr uint32) (block uint32, offset int) {
	const perBlock = uint32(inodesPerBlock)
	return inodeTableStart + addr/perBlock, int(addr%perBlock) * inodeSize
}

// loadInode reads and decodes the inode at addr.
func (c *core) loadInode(addr uint32) (Inode, error) {
	if addr >= inodeCount {
		return Inode{}, newError(KindCorrupted, "inode address out of range")
	}
	blk, off := inodeBlockAndOffset(addr)
	raw, err := c.dev.ReadBlock(blk)
	if err != nil {
		return Inode{}, wrapIO(err)
	}
	return decodeInode(raw[off : off+inodeSize]), nil
}

// saveInode is a read-modify-write of the inode's containing block.
func (c *core) saveInode(addr uint32, ino Inode) error {
	if addr >= inodeCount {
		return newError(KindCorrupted, "inode address out of range")
	}
	blk, off := inodeBlockAndOffset(addr)
	raw, err := c.dev.ReadBlock(blk)
	if err != nil {
		return wrapIO(err)
	}
	copy(raw[off:off+inodeSize], ino.encode())
	return wrapIO(c.dev.WriteBlock(blk, raw))
}

// loadInodeBitmap always re-reads the bitmap block from disk; there is
// no in-memory cache. Allocation is persist-through: every allocation
// decision round-trips the disk so two callers never see a stale view.
func (c *core) loadInodeBitmap() (*bitmap.Bitmap, error) {
	raw, err := c.dev.ReadBlock(inodeBitmapBlock)
	if err != nil {
		return nil, wrapIO(err)
	}
	return bitmap.FromBytes(raw, inodeBitmapBits), nil
}

func (c *core) saveInodeBitmap(bm *bitmap.Bitmap) error {
	return wrapIO(c.dev.WriteBlock(inodeBitmapBlock, bm.ToBytes()))
}

// allocInode finds the first free inode address, marks it used, builds
// a fresh record for it, and persists both.
func (c *core) allocInode(owner uint8, isDir bool) (uint32, Inode, error) {
	bm, err := c.loadInodeBitmap()
	if err != nil {
		return 0, Inode{}, err
	}
	pos := bm.NextFree()
	if pos < 0 || pos >= inodeCount {
		return 0, Inode{}, newError(KindNoEnoughSpace, "inode bitmap exhausted")
	}
	if err := bm.Set(pos); err != nil {
		return 0, Inode{}, wrapIO(err)
	}

	mode := modeFileDefault
	if isDir {
		mode = modeDirDefault
	}
	ino := Inode{
		UID:       owner,
		Mode:      uint8(mode),
		Timestamp: uint32(c.clk.Now().Unix()),
	}

	if err := c.saveInodeBitmap(bm); err != nil {
		return 0, Inode{}, err
	}
	addr := uint32(pos)
	if err := c.saveInode(addr, ino); err != nil {
		return 0, Inode{}, err
	}
	return addr, ino, nil
}

// freeInode clears the bitmap bit for addr. Callers must free the
// inode's data blocks first; it never does so itself. addr 0 (root)
// must never reach here.
func (c *core) freeInode(addr uint32) error {
	bm, err := c.loadInodeBitmap()
	if err != nil {
		return err
	}
	if err := bm.Clear(int(addr)); err != nil {
		return wrapIO(err)
	}
	return c.saveInodeBitmap(bm)
}

// getBlocks returns the ordered list of data-block addresses backing
// ino, terminating at the first zero sentinel encountered in direct
// slots, the indirect block, or a double-indirect block's indirect
// children.
func (c *core) getBlocks(ino Inode) ([]uint32, error) {
	var out []uint32
	for _, addr := range ino.Blocks {
		if addr == 0 {
			return out, nil
		}
		out = append(out, addr)
	}
	if ino.IndirectBlock == 0 {
		return out, nil
	}
	indirect, err := c.readIndexBlock(ino.IndirectBlock)
	if err != nil {
		return nil, err
	}
	for _, addr := range indirect {
		if addr == 0 {
			return out, nil
		}
		out = append(out, addr)
	}
	if ino.DoubleBlock == 0 {
		return out, nil
	}
	double, err := c.readIndexBlock(ino.DoubleBlock)
	if err != nil {
		return nil, err
	}
	for _, indirectAddr := range double {
		if indirectAddr == 0 {
			break
		}
		children, err := c.readIndexBlock(indirectAddr)
		if err != nil {
			return nil, err
		}
		for _, addr := range children {
			if addr == 0 {
				return out, nil
			}
			out = append(out, addr)
		}
	}
	return out, nil
}

func (c *core) readIndexBlock(addr uint32) ([]uint32, error) {
	raw, err := c.dev.ReadBlock(addr)
	if err != nil {
		return nil, wrapIO(err)
	}
	entries := make([]uint32, entriesPerIndexBlock)
	for i := range entries {
		entries[i] = binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return entries, nil
}

func encodeIndexBlock(entries []uint32) []byte {
	raw := make([]byte, blockSize)
	for i, addr := range entries {
		binary.BigEndian.PutUint32(raw[i*4:i*4+4], addr)
	}
	return raw
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// updateBlocks rewrites ino's block-address chain to exactly blocks,
// allocating or freeing index blocks (from the data allocator) as
// needed, and persists the inode. It is the inverse of getBlocks.
// Indirect blocks are allocated lazily (only once the 9th or 265th
// data block is needed), and shrinking below that threshold again
// frees them rather than hoarding an empty index block.
func (c *core) updateBlocks(addr uint32, ino *Inode, blocks []uint32) error {
	if len(blocks) > maxFileBlocks {
		return newError(KindNoEnoughSpace, "block list exceeds maximum file size")
	}

	needIndirect := len(blocks) > maxDirectBlocks
	needDouble := len(blocks) > maxDirectBlocks+maxIndirectBlocks

	oldIndirect := ino.IndirectBlock
	oldDouble := ino.DoubleBlock
	var oldChildren []uint32
	if oldDouble != 0 {
		entries, err := c.readIndexBlock(oldDouble)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e == 0 {
				break
			}
			oldChildren = append(oldChildren, e)
		}
	}

	nChildrenNeeded := 0
	if needDouble {
		nChildrenNeeded = ceilDiv(len(blocks)-maxDirectBlocks-maxIndirectBlocks, entriesPerIndexBlock)
	}

	var toFree []uint32
	toAllocCount := 0

	newIndirect := oldIndirect
	switch {
	case needIndirect && oldIndirect == 0:
		toAllocCount++
	case !needIndirect && oldIndirect != 0:
		toFree = append(toFree, oldIndirect)
		newIndirect = 0
	}

	newDouble := oldDouble
	switch {
	case needDouble && oldDouble == 0:
		toAllocCount++
	case !needDouble && oldDouble != 0:
		toFree = append(toFree, oldDouble)
		newDouble = 0
	}

	newChildren := make([]uint32, nChildrenNeeded)
	for i := range newChildren {
		if i < len(oldChildren) {
			newChildren[i] = oldChildren[i]
		} else {
			toAllocCount++
		}
	}
	for i := nChildrenNeeded; i < len(oldChildren); i++ {
		toFree = append(toFree, oldChildren[i])
	}
	if !needDouble && oldDouble != 0 {
		toFree = append(toFree, oldChildren...)
	}

	var fresh []uint32
	if toAllocCount > 0 {
		addrs, err := c.allocDataBlocks(toAllocCount)
		if err != nil {
			return err
		}
		fresh = addrs
	}
	take := func() uint32 {
		a := fresh[0]
		fresh = fresh[1:]
		return a
	}

	if needIndirect && newIndirect == 0 {
		newIndirect = take()
	}
	if needDouble && newDouble == 0 {
		newDouble = take()
	}
	for i := range newChildren {
		if newChildren[i] == 0 {
			newChildren[i] = take()
		}
	}

	if needIndirect {
		entries := make([]uint32, entriesPerIndexBlock)
		lo, hi := maxDirectBlocks, maxDirectBlocks+entriesPerIndexBlock
		if hi > len(blocks) {
			hi = len(blocks)
		}
		copy(entries, blocks[lo:hi])
		if err := wrapIO(c.dev.WriteBlock(newIndirect, encodeIndexBlock(entries))); err != nil {
			return err
		}
	}

	if needDouble {
		remaining := blocks[maxDirectBlocks+maxIndirectBlocks:]
		for i, childAddr := range newChildren {
			lo := i * entriesPerIndexBlock
			hi := lo + entriesPerIndexBlock
			if lo > len(remaining) {
				lo = len(remaining)
			}
			if hi > len(remaining) {
				hi = len(remaining)
			}
			chunk := make([]uint32, entriesPerIndexBlock)
			copy(chunk, remaining[lo:hi])
			if err := wrapIO(c.dev.WriteBlock(childAddr, encodeIndexBlock(chunk))); err != nil {
				return err
			}
		}
		doubleEntries := make([]uint32, entriesPerIndexBlock)
		copy(doubleEntries, newChildren)
		if err := wrapIO(c.dev.WriteBlock(newDouble, encodeIndexBlock(doubleEntries))); err != nil {
			return err
		}
	}

	if len(toFree) > 0 {
		if err := c.freeDataBlocks(toFree); err != nil {
			return err
		}
	}

	var direct [maxDirectBlocks]uint32
	copy(direct[:], blocks)
	ino.Blocks = direct
	ino.IndirectBlock = newIndirect
	ino.DoubleBlock = newDouble
	return c.saveInode(addr, *ino)
}
