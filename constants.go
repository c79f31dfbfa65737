// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// Block-format constants shared by the encoder and decoder.
const (
	minMatch        = 4          // MINMATCH: minimum expressible match length
	lastLiterals    = 5          // LASTLITERALS: trailing-literal bytes every block must end with
	wildCopyLength  = 8          // WILDCOPYLENGTH: unconditional copy granularity in fast paths
	mfLimit         = wildCopyLength + minMatch // minimum remaining bytes to attempt a match
	maxDistance     = 65535      // largest expressible match offset
	maxInputSize    = 0x7E000000 // ~2.11 GiB, the largest block input this codec accepts
	hashLog         = 16         // bits of the fast-encoder hash table index
	hashTableSize   = 1 << hashLog
	hcHashLog       = 17 // bits of the HC hash table index
	hcHashTableSize = 1 << hcHashLog
	optimalWindow   = 256 // dynamic-programming lookback window for the optimal parser
)

// blockHash hashes a little-endian uint32 of 4 input bytes into a value
// bounded by hashLog bits. Grounded on xiaojun207-lz4/block.go's blockHash.
func blockHash(x uint32) uint32 {
	const prime uint32 = 2654435761 // Knuth multiplicative hash
	return (x * prime) >> (32 - hashLog)
}

// hcHash hashes a little-endian uint32 of 4 input bytes for the HC chain
// tables, using a wider table than the fast encoder to reduce collisions
// at higher search depths.
func hcHash(x uint32) uint32 {
	const prime uint32 = 2654435761
	return (x * prime) >> (32 - hcHashLog)
}

// rollingDictLimit is the maximum size of the rolling prefix/ext-dict
// window that back-references may target (spec: "last up-to-64 KiB").
const rollingDictLimit = 64 * 1024

// Block size IDs (frame BD byte, bits 6-4) and their maximum uncompressed
// block sizes.
type BlockSizeID int

const (
	BlockSizeDefault BlockSizeID = 0 // encoder maps this to Max64KB
	BlockSizeMax64KB BlockSizeID = 4
	BlockSizeMax256KB BlockSizeID = 5
	BlockSizeMax1MB  BlockSizeID = 6
	BlockSizeMax4MB  BlockSizeID = 7
)

// maxBlockSize returns the maximum uncompressed block size in bytes for id,
// or 0 if id is not a recognized block size ID.
func (id BlockSizeID) maxBlockSize() int {
	switch id {
	case BlockSizeDefault, BlockSizeMax64KB:
		return 64 * 1024
	case BlockSizeMax256KB:
		return 256 * 1024
	case BlockSizeMax1MB:
		return 1024 * 1024
	case BlockSizeMax4MB:
		return 4 * 1024 * 1024
	default:
		return 0
	}
}

// normalized returns the effective BD-byte value (Default becomes 64KB's id).
func (id BlockSizeID) normalized() BlockSizeID {
	if id == BlockSizeDefault {
		return BlockSizeMax64KB
	}
	return id
}

// BlockMode selects whether successive blocks in a frame may reference
// each other's decoded bytes (Linked) or must each be self-contained
// (Independent).
type BlockMode int

const (
	BlockLinked BlockMode = iota // default: cross-block history allowed
	BlockIndependent
)

// OnOff is a tri-state-free boolean flag type used by Preferences, matching
// the teacher's convention of small named types over bare bool fields for
// wire-visible flags.
type OnOff bool

const (
	Disabled OnOff = false
	Enabled  OnOff = true
)

// FrameType distinguishes a standard LZ4 frame from a skippable frame.
type FrameType int

const (
	FrameStandard FrameType = iota
	FrameSkippable
)

// Wire-level magic numbers (spec section 6).
const (
	frameMagic            uint32 = 0x184D2204
	skippableMagicMask    uint32 = 0xFFFFFFF0
	skippableMagicBase    uint32 = 0x184D2A50
	blockUncompressedFlag uint32 = 1 << 31
	blockLengthMask       uint32 = blockUncompressedFlag - 1
)
