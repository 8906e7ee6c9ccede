package simfs

import (
	"github.com/virtfs/virtfs/bitmap"
	"github.com/virtfs/virtfs/block"
)

// The data bitmap spans dataBitmapBlocks blocks starting at
// dataBitmapStart; its sub-bitmap positions are relative to dataStart.
// Logical data-block addresses therefore fall in [dataStart, totalBlocks).

func (c *core) loadDataBitmap() (*bitmap.Bitmap, error) {
	addrs := make([]uint32, dataBitmapBlocks)
	for i := range addrs {
		addrs[i] = dataBitmapStart + uint32(i)
	}
	raw, err := c.dev.ReadBlocks(addrs)
	if err != nil {
		return nil, wrapIO(err)
	}
	return bitmap.FromBytes(raw, totalDataBlocks), nil
}

func (c *core) saveDataBitmap(bm *bitmap.Bitmap) error {
	raw := bm.ToBytes()
	writes := make([]block.Write, dataBitmapBlocks)
	for i := range writes {
		lo, hi := i*blockSize, (i+1)*blockSize
		if hi > len(raw) {
			hi = len(raw)
		}
		chunk := make([]byte, blockSize)
		if lo < len(raw) {
			copy(chunk, raw[lo:hi])
		}
		writes[i] = block.Write{Addr: dataBitmapStart + uint32(i), Data: chunk}
	}
	return wrapIO(c.dev.WriteBlocks(writes))
}

// allocDataBlocks reserves n data-block addresses, all-or-nothing: if
// fewer than n bits are free, nothing is reserved.
func (c *core) allocDataBlocks(n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	bm, err := c.loadDataBitmap()
	if err != nil {
		return nil, err
	}
	if bm.RestUsable() < n {
		return nil, newError(KindNoEnoughSpace, "data bitmap has insufficient usable blocks")
	}

	var addrs []uint32
	start := 0
	for len(addrs) < n {
		pos := bm.NextFreeFrom(start)
		if pos < 0 {
			return nil, newError(KindNoEnoughSpace, "data bitmap has insufficient usable blocks")
		}
		if err := bm.Set(pos); err != nil {
			return nil, wrapIO(err)
		}
		addrs = append(addrs, dataStart+uint32(pos))
		start = pos + 1
	}
	if err := c.saveDataBitmap(bm); err != nil {
		return nil, err
	}
	return addrs, nil
}

// freeDataBlocks clears the bits for the given absolute data-block
// addresses.
func (c *core) freeDataBlocks(addrs []uint32) error {
	if len(addrs) == 0 {
		return nil
	}
	bm, err := c.loadDataBitmap()
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		if addr < dataStart {
			return newError(KindCorrupted, "attempted to free a block below the data region")
		}
		if err := bm.Clear(int(addr - dataStart)); err != nil {
			return wrapIO(err)
		}
	}
	return c.saveDataBitmap(bm)
}
