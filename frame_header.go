// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"encoding/binary"

	"github.com/woozymasta/lz4/internal/xxhash32"
)

// encodeFrameHeader writes the magic number plus FLG/BD/content-size/
// dict-id/header-checksum fields (spec section 4.F) and returns the full
// header bytes.
func encodeFrameHeader(fi FrameInfo) []byte {
	magic := frameMagic
	if fi.FrameType == FrameSkippable {
		magic = skippableMagicBase
	}

	flg := byte(0x01 << 6)
	if fi.BlockMode == BlockIndependent {
		flg |= 1 << 5
	}
	if fi.BlockChecksumFlag {
		flg |= 1 << 4
	}
	if fi.ContentSize != 0 {
		flg |= 1 << 3
	}
	if fi.ContentChecksumFlag {
		flg |= 1 << 2
	}
	if fi.DictID != 0 {
		flg |= 1 << 0
	}

	bd := byte(fi.BlockSizeID.normalized()&0x7) << 4

	body := []byte{flg, bd}
	if fi.ContentSize != 0 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], fi.ContentSize)
		body = append(body, b[:]...)
	}
	if fi.DictID != 0 {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], fi.DictID)
		body = append(body, b[:]...)
	}

	hc := byte((xxhash32.Checksum(0, body) >> 8) & 0xFF)

	out := make([]byte, 4, 4+len(body)+1)
	binary.LittleEndian.PutUint32(out[0:4], magic)
	out = append(out, body...)
	out = append(out, hc)
	return out
}

// parseFrameHeader parses a standard (non-skippable) frame header starting
// at src[0]. It returns the decoded FrameInfo, the number of bytes
// consumed (including the 4-byte magic), and a *FrameError on any
// malformed field (spec section 4.G, state GetFrameHeader/StoreFrameHeader).
func parseFrameHeader(src []byte) (FrameInfo, int, error) {
	if len(src) < 4 {
		return FrameInfo{}, 0, newFrameError(FrameHeaderIncomplete, "need magic")
	}
	magic := binary.LittleEndian.Uint32(src[0:4])
	if magic != frameMagic {
		return FrameInfo{}, 0, newFrameError(HeaderVersionWrong, "bad magic")
	}
	if len(src) < 6 {
		return FrameInfo{}, 0, newFrameError(FrameHeaderIncomplete, "need FLG/BD")
	}

	flg := src[4]
	bd := src[5]

	if flg>>6 != 1 {
		return FrameInfo{}, 0, newFrameError(HeaderVersionWrong, "unsupported FLG version")
	}
	if flg&0x02 != 0 {
		return FrameInfo{}, 0, newFrameError(ReservedFlagSet, "FLG reserved bit set")
	}
	if bd&0x8F != 0 {
		return FrameInfo{}, 0, newFrameError(ReservedFlagSet, "BD reserved bits set")
	}

	pos := 6
	var fi FrameInfo

	fi.BlockMode = BlockLinked
	if flg&(1<<5) != 0 {
		fi.BlockMode = BlockIndependent
	}
	fi.BlockChecksumFlag = OnOff(flg&(1<<4) != 0)
	contentSizePresent := flg&(1<<3) != 0
	fi.ContentChecksumFlag = OnOff(flg&(1<<2) != 0)
	dictIDPresent := flg&1 != 0

	blockSizeID := BlockSizeID((bd >> 4) & 0x7)
	if blockSizeID < 4 || blockSizeID > 7 {
		return FrameInfo{}, 0, newFrameError(MaxBlockSizeInvalid, "")
	}
	fi.BlockSizeID = blockSizeID

	if contentSizePresent {
		if len(src) < pos+8 {
			return FrameInfo{}, 0, newFrameError(FrameHeaderIncomplete, "need content size")
		}
		fi.ContentSize = binary.LittleEndian.Uint64(src[pos : pos+8])
		pos += 8
	}
	if dictIDPresent {
		if len(src) < pos+4 {
			return FrameInfo{}, 0, newFrameError(FrameHeaderIncomplete, "need dict id")
		}
		fi.DictID = binary.LittleEndian.Uint32(src[pos : pos+4])
		pos += 4
	}

	if len(src) < pos+1 {
		return FrameInfo{}, 0, newFrameError(FrameHeaderIncomplete, "need header checksum")
	}
	gotHC := src[pos]
	wantHC := byte((xxhash32.Checksum(0, src[4:pos]) >> 8) & 0xFF)
	if gotHC != wantHC {
		return FrameInfo{}, 0, newFrameError(HeaderChecksumInvalid, "")
	}
	pos++

	return fi, pos, nil
}

// isSkippableMagic reports whether magic identifies a skippable frame
// (0x184D2A50-0x184D2A5F), matching original_source's mask-based check
// rather than an exhaustive 16-way switch.
func isSkippableMagic(magic uint32) bool {
	return magic&skippableMagicMask == skippableMagicBase
}

// encodeBlockHeader packs a block's wire header: low 31 bits length, bit
// 31 the uncompressed flag.
func encodeBlockHeader(length int, uncompressed bool) uint32 {
	h := uint32(length) & blockLengthMask
	if uncompressed {
		h |= blockUncompressedFlag
	}
	return h
}

// decodeBlockHeader unpacks a block's wire header into (length, uncompressed).
func decodeBlockHeader(h uint32) (length int, uncompressed bool) {
	return int(h & blockLengthMask), h&blockUncompressedFlag != 0
}
