package simfs

import "encoding/binary"

// Fixed on-disk layout. Every constant here is part of the wire
// format: changing one changes what disk images this package can
// read.
const (
	blockSize = 1024

	superblockMagic    byte = 0xE3
	superblockTrailer  byte = 172
	superblockSize          = 30

	inodeBitmapBlock = 1
	inodeBitmapBits  = 8192 // one full block of bits; only inodeCount are meaningful

	inodeTableStart    = 2
	inodeTableBlocks   = 256
	inodesPerBlock     = blockSize / inodeSize
	inodeCount         = inodeTableBlocks * inodesPerBlock // 4096
	inodeSize          = 64

	dataBitmapStart  = 258
	dataBitmapBlocks = 16

	dataStart   = 274
	totalBlocks = 131072

	rootInodeAddr = 0

	entriesPerIndexBlock = blockSize / 4 // 256 uint32 addresses per index block
	maxDirectBlocks      = 8
	maxIndirectBlocks    = entriesPerIndexBlock
	maxDoubleBlocks      = entriesPerIndexBlock * entriesPerIndexBlock
	maxFileBlocks        = maxDirectBlocks + maxIndirectBlocks + maxDoubleBlocks
	maxFileSize          = maxFileBlocks * blockSize

	dirEntrySize = 64
	dirNameLen   = 60
)

// totalDataBlocks is the count of data-block addresses the data bitmap
// actually tracks: the whole disk minus everything before dataStart.
const totalDataBlocks = totalBlocks - dataStart

// Superblock is the fixed 30-byte record at block 0: magic bytes plus
// the layout constants above, written once and checked on every mount.
type Superblock struct {
	InodeCount         uint32
	InodeBitmapOffset  uint32
	DataBitmapOffset   uint32
	BlockSize          uint32
	InodeOffset        uint32
	DataOffset         uint32
	MaxFileSize        uint32
}

func defaultSuperblock() Superblock {
	return Superblock{
		InodeCount:        inodeCount,
		InodeBitmapOffset: inodeBitmapBlock,
		DataBitmapOffset:  dataBitmapStart,
		BlockSize:         blockSize,
		InodeOffset:       inodeTableStart,
		DataOffset:        dataStart,
		MaxFileSize:       maxFileSize,
	}
}

func (sb Superblock) encode() []byte {
	b := make([]byte, superblockSize)
	b[0] = superblockMagic
	binary.BigEndian.PutUint32(b[1:5], sb.InodeCount)
	binary.BigEndian.PutUint32(b[5:9], sb.InodeBitmapOffset)
	binary.BigEndian.PutUint32(b[9:13], sb.DataBitmapOffset)
	binary.BigEndian.PutUint32(b[13:17], sb.BlockSize)
	binary.BigEndian.PutUint32(b[17:21], sb.InodeOffset)
	binary.BigEndian.PutUint32(b[21:25], sb.DataOffset)
	binary.BigEndian.PutUint32(b[25:29], sb.MaxFileSize)
	b[29] = superblockTrailer
	return b
}

func decodeSuperblock(b []byte) (Superblock, error) {
	if len(b) < superblockSize {
		return Superblock{}, newError(KindCorrupted, "superblock block shorter than superblock record")
	}
	if b[0] != superblockMagic || b[superblockSize-1] != superblockTrailer {
		return Superblock{}, newError(KindCorrupted, "superblock magic mismatch: disk uninitialised or foreign")
	}
	return Superblock{
		InodeCount:        binary.BigEndian.Uint32(b[1:5]),
		InodeBitmapOffset: binary.BigEndian.Uint32(b[5:9]),
		DataBitmapOffset:  binary.BigEndian.Uint32(b[9:13]),
		BlockSize:         binary.BigEndian.Uint32(b[13:17]),
		InodeOffset:       binary.BigEndian.Uint32(b[17:21]),
		DataOffset:        binary.BigEndian.Uint32(b[21:25]),
		MaxFileSize:       binary.BigEndian.Uint32(b[25:29]),
	}, nil
}

// looksInitialised reports whether the first byte of block 0 is the
// superblock magic — the only signal used to decide whether a disk
// image needs laying out from scratch.
func looksInitialised(block0 []byte) bool {
	return len(block0) > 0 && block0[0] == superblockMagic
}
