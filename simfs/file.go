package simfs

import "github.com/virtfs/virtfs/block"

// readInodePayload concatenates every data block backing ino, with no
// interpretation of the bytes — directory code wants the raw
// concatenation; readFile trims the in-band EOF marker on top of this.
func (c *core) readInodePayload(ino Inode) ([]byte, error) {
	addrs, err := c.getBlocks(ino)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, nil
	}
	raw, err := c.dev.ReadBlocks(addrs)
	if err != nil {
		return nil, wrapIO(err)
	}
	return raw, nil
}

// writeInodePayload resizes ino's block chain to exactly fit buf
// (ceil(len(buf)/blockSize) blocks, minimum one), updates the chain's
// index-block structure via updateBlocks, and writes buf's bytes into
// the resulting blocks. A short final chunk is padded with a single
// trailing NUL by the block device. logicalSize is what gets recorded
// in ino.Size — callers that pad buf with an in-band marker byte (the
// file EOF marker) pass the size before that padding, so Size reports
// the content a reader actually gets back, not the on-disk padding.
func (c *core) writeInodePayload(addr uint32, ino *Inode, buf []byte, logicalSize uint32) error {
	needed := ceilDiv(len(buf), blockSize)
	if needed == 0 {
		needed = 1
	}

	old, err := c.getBlocks(*ino)
	if err != nil {
		return err
	}

	var blocks []uint32
	switch {
	case needed <= len(old):
		blocks = old[:needed]
		if extra := old[needed:]; len(extra) > 0 {
			if err := c.freeDataBlocks(extra); err != nil {
				return err
			}
		}
	default:
		fresh, err := c.allocDataBlocks(needed - len(old))
		if err != nil {
			return err
		}
		blocks = append(append([]uint32{}, old...), fresh...)
	}

	writes := make([]block.Write, len(blocks))
	for i, a := range blocks {
		lo, hi := i*blockSize, (i+1)*blockSize
		if hi > len(buf) {
			hi = len(buf)
		}
		var chunk []byte
		if lo < len(buf) {
			chunk = buf[lo:hi]
		}
		writes[i] = block.Write{Addr: a, Data: chunk}
	}
	if err := wrapIO(c.dev.WriteBlocks(writes)); err != nil {
		return err
	}

	ino.Size = logicalSize
	return c.updateBlocks(addr, ino, blocks)
}

func indexOfNUL(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

// readFile returns addr's payload with the in-band EOF marker
// stripped. Only the last backing block can legitimately hold the
// marker — every earlier block is guaranteed full by construction (see
// writeInodePayload) — so the NUL scan starts at the first byte of the
// last block, not at the start of the file: an embedded NUL in file
// content before the last block must not truncate the rest of it.
func (c *core) readFile(addr uint32) ([]byte, error) {
	ino, err := c.loadInode(addr)
	if err != nil {
		return nil, err
	}
	if ino.isDir() {
		return nil, newError(KindNotFileButDir, "not a file")
	}
	addrs, err := c.getBlocks(ino)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, nil
	}
	raw, err := c.dev.ReadBlocks(addrs)
	if err != nil {
		return nil, wrapIO(err)
	}
	lastBlockStart := (len(addrs) - 1) * blockSize
	if i := indexOfNUL(raw[lastBlockStart:]); i >= 0 {
		return raw[:lastBlockStart+i], nil
	}
	return raw, nil
}

// writeFile replaces addr's payload with buf plus a trailing EOF
// marker byte, growing or shrinking the block chain to fit. ino.Size
// is recorded as len(buf), the logical content length a reader gets
// back from readFile — not len(buf)+1, which would count the marker
// byte as part of the file's visible size.
func (c *core) writeFile(addr uint32, buf []byte) error {
	ino, err := c.loadInode(addr)
	if err != nil {
		return err
	}
	if ino.isDir() {
		return newError(KindNotFileButDir, "not a file")
	}
	payload := make([]byte, 0, len(buf)+1)
	payload = append(payload, buf...)
	payload = append(payload, 0)
	return c.writeInodePayload(addr, &ino, payload, uint32(len(buf)))
}

// freeAllBlocks releases every block owned by ino: its payload data
// blocks plus any index blocks (indirect, double, and the double's
// children) used to address them.
func (c *core) freeAllBlocks(ino Inode, payload []uint32) error {
	toFree := append([]uint32{}, payload...)
	if ino.IndirectBlock != 0 {
		toFree = append(toFree, ino.IndirectBlock)
	}
	if ino.DoubleBlock != 0 {
		if children, err := c.readIndexBlock(ino.DoubleBlock); err == nil {
			for _, e := range children {
				if e == 0 {
					break
				}
				toFree = append(toFree, e)
			}
		}
		toFree = append(toFree, ino.DoubleBlock)
	}
	if len(toFree) == 0 {
		return nil
	}
	return c.freeDataBlocks(toFree)
}
