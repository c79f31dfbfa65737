// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"encoding/binary"
	"math/bits"
	"sync"
)

// CompressBound returns the maximum size of src's compressed form when it
// turns out to be incompressible (spec section 4.C). It returns 0 when n
// exceeds the format's input-size limit.
func CompressBound(n int) int {
	if n < 0 || n > maxInputSize {
		return 0
	}
	return n + n/255 + 16
}

// clampAcceleration bounds a to [1, 65537] (spec section 4.C).
func clampAcceleration(a int) int {
	if a < 1 {
		return 1
	}
	if a > 65537 {
		return 65537
	}
	return a
}

// hashTablePool recycles fast-encoder hash tables, grounded on the
// teacher's sliding_window_pool.go sync.Pool-of-match-finder-state idiom.
var hashTablePool = sync.Pool{
	New: func() any {
		t := make([]int32, hashTableSize)
		return &t
	},
}

func acquireHashTable() []int32 {
	t := hashTablePool.Get().(*[]int32)
	for i := range *t {
		(*t)[i] = -1
	}
	return *t
}

func releaseHashTable(t []int32) {
	hashTablePool.Put(&t)
}

// CompressBlock compresses src into dst using the fast single-pass hash
// matcher at the given acceleration (spec section 4.C, "Default" mode: it
// fails with ErrOutputTooSmall rather than writing a truncated block).
// A nil or short hashTable is replaced with one drawn from an internal
// pool; callers that hold a streaming session should reuse FastEncoder
// instead so match state survives across calls.
func CompressBlock(src, dst []byte, hashTable []int32, acceleration int) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}
	if len(src) == 0 {
		return 0, nil
	}

	owned := len(hashTable) < hashTableSize
	if owned {
		hashTable = acquireHashTable()
		defer releaseHashTable(hashTable)
	}

	n, err := compressFastGeneric(src, dst, hashTable, clampAcceleration(acceleration), nil, 0, false)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrOutputTooSmall
	}
	return n, nil
}

// CompressBlockDestSize compresses as much of src as fits within len(dst)
// (spec section 4.C, "Fill-output" mode), returning (srcConsumed,
// dstWritten).
func CompressBlockDestSize(src, dst []byte, hashTable []int32, acceleration int) (srcConsumed, dstWritten int, err error) {
	if len(src) > maxInputSize {
		return 0, 0, ErrInputTooLarge
	}

	owned := hashTable == nil
	if owned {
		hashTable = acquireHashTable()
		defer releaseHashTable(hashTable)
	}

	return compressFastFillOutput(src, dst, hashTable, clampAcceleration(acceleration))
}

// compressFastGeneric runs the greedy hash-matcher parse described in
// spec section 4.C over src, optionally against a prefix/ext-dict window,
// and emits into dst. It returns 0 (not an error) when dst is too small,
// the way the teacher's CompressBlock signals "incompressible" by
// returning 0 rather than erroring (compress.go/compress_1x_fast.go).
//
// Grounded directly on xiaojun207-lz4/block.go's CompressBlock: same hash,
// same 8-byte XOR match-extension trick via math/bits.TrailingZeros64,
// generalized here to add acceleration-scaled skipping and an optional
// dictionary window for streaming sessions.
func compressFastGeneric(src, dst []byte, hashTable []int32, acceleration int, dict []byte, dictLen int, noLimit bool) (int, error) {
	sn := len(src) - mfLimit
	if sn <= 0 {
		return emitLiteralOnlyBlock(src, dst, noLimit)
	}

	var si, di int
	anchor := 0
	step := 1
	searchMatchNb := acceleration << 6

	window := dict
	windowBase := dictLen // logical offset: src[0] is windowBase bytes after window start

	get4 := func(buf []byte, i int) uint32 { return binary.LittleEndian.Uint32(buf[i:]) }

	for si < sn {
		match := get4(src, si)
		h := blockHash(match)
		ref := int(hashTable[h])
		hashTable[h] = int32(si + windowBase)

		candidateInSrc := ref >= windowBase
		var refBytes []byte
		var refPos int
		if candidateInSrc {
			refPos = ref - windowBase
			refBytes = src
		} else if ref >= 0 && window != nil {
			refPos = ref
			refBytes = window
		} else {
			si += step
			step = 1 + (searchMatchNb >> 6)
			searchMatchNb += searchMatchNb >> 6
			continue
		}

		offset := si + windowBase - ref
		if offset <= 0 || offset > maxDistance || refPos+4 > len(refBytes) || get4(refBytes, refPos) != match {
			si += step
			step = 1 + (searchMatchNb >> 6)
			searchMatchNb += searchMatchNb >> 6
			continue
		}

		litLen := si - anchor
		mStart := si
		si += minMatch
		refPos += minMatch
		for si < len(src)-lastLiterals && refPos < len(refBytes) {
			if refBytes[refPos] != src[si] {
				break
			}
			si++
			refPos++
		}
		// Extend 8 bytes at a time when both sides are the same buffer
		// (self-referencing match), matching xiaojun207-lz4's XOR trick.
		if candidateInSrc {
			for si+8 <= sn+mfLimit && refPos+8 <= si {
				x := binary.LittleEndian.Uint64(src[si:]) ^ binary.LittleEndian.Uint64(src[si-offset:])
				if x != 0 {
					si += bits.TrailingZeros64(x) >> 3
					break
				}
				si += 8
			}
		}
		matchLen := si - mStart

		var ok bool
		di, ok = emitSequence(dst, di, src, anchor, litLen, offset, matchLen, noLimit)
		if !ok {
			return 0, nil
		}
		anchor = si
		step = 1
		searchMatchNb = acceleration << 6
	}

	litLen := len(src) - anchor
	n, ok := emitLastLiterals(dst, di, src, anchor, litLen, noLimit)
	if !ok {
		return 0, nil
	}
	return n, nil
}

// emitLiteralOnlyBlock handles inputs too short to contain any match: the
// whole block is one trailing literal run.
func emitLiteralOnlyBlock(src, dst []byte, noLimit bool) (int, error) {
	return emitLastLiteralsResult(dst, 0, src, 0, len(src), noLimit)
}

// emitSequence writes one (literal run, match) sequence's token/extension
// bytes, literal payload, 2-byte offset, and match-length extension into
// dst at di, bounds-checked against len(dst) unless noLimit is set.
func emitSequence(dst []byte, di int, src []byte, anchor, litLen, offset, matchLen int, noLimit bool) (int, bool) {
	need := 1 + varLenSize(litLen) + litLen + 2 + varLenSize(matchLen-minMatch)
	if !noLimit && di+need > len(dst) {
		return di, false
	}

	tokenPos := di
	di++

	var tokLit, tokMat byte
	if litLen >= 0xF {
		tokLit = 0xF
		di = writeVarLen(dst, di, litLen-0xF)
	} else {
		tokLit = byte(litLen)
	}

	if !noLimit && di+litLen > len(dst) {
		return tokenPos, false
	}
	copy(dst[di:di+litLen], src[anchor:anchor+litLen])
	di += litLen

	if !noLimit && di+2 > len(dst) {
		return tokenPos, false
	}
	binary.LittleEndian.PutUint16(dst[di:], uint16(offset))
	di += 2

	extMatch := matchLen - minMatch
	if extMatch >= 0xF {
		tokMat = 0xF
		di = writeVarLen(dst, di, extMatch-0xF)
	} else {
		tokMat = byte(extMatch)
	}

	dst[tokenPos] = tokLit<<4 | tokMat
	return di, true
}

// emitLastLiterals writes the block's mandatory trailing literal-only
// sequence (spec: every block ends in a literal run of at least
// LASTLITERALS bytes). The match searches stop lastLiterals bytes before
// the end of src, so after a full parse this run is at least that long;
// the fill-output paths may trim it shorter (see flushTrailingLiterals).
func emitLastLiterals(dst []byte, di int, src []byte, anchor, litLen int, noLimit bool) (int, bool) {
	need := 1 + varLenSize(litLen) + litLen
	if !noLimit && di+need > len(dst) {
		return di, false
	}

	tokenPos := di
	di++

	var tokLit byte
	if litLen >= 0xF {
		tokLit = 0xF
		di = writeVarLen(dst, di, litLen-0xF)
	} else {
		tokLit = byte(litLen)
	}
	dst[tokenPos] = tokLit << 4

	if !noLimit && di+litLen > len(dst) {
		return tokenPos, false
	}
	copy(dst[di:di+litLen], src[anchor:anchor+litLen])
	di += litLen

	return di, true
}

// varLenSize returns the number of 0xFF-run extension bytes needed to
// encode totalLen (a literal-run length or a match-length-minus-minMatch
// value) via the token-nibble-plus-extension scheme: 0 when the nibble
// alone (values < 0xF) suffices.
func varLenSize(totalLen int) int {
	if totalLen < 0xF {
		return 0
	}
	return (totalLen-0xF)/255 + 1
}

// writeVarLen writes n as a run of 0xFF bytes terminated by n%255, per the
// block wire format's literal/match length extension.
func writeVarLen(dst []byte, di, n int) int {
	for n >= 0xFF {
		dst[di] = 0xFF
		di++
		n -= 0xFF
	}
	dst[di] = byte(n)
	di++
	return di
}

// compressFastFillOutput implements CompressBlockDestSize: pack as much of
// src as fits in dst, returning how much source was consumed. It re-parses
// greedily like compressFastGeneric but stops emitting before a sequence
// would overflow dst, trimming the final literal run to fit exactly.
func compressFastFillOutput(src, dst []byte, hashTable []int32, acceleration int) (int, int, error) {
	if len(dst) == 0 {
		return 0, 0, nil
	}

	sn := len(src) - mfLimit
	var si, di int
	anchor := 0
	step := 1
	searchMatchNb := acceleration << 6

	if sn > 0 {
		for si < sn {
			match := binary.LittleEndian.Uint32(src[si:])
			h := blockHash(match)
			ref := int(hashTable[h])
			hashTable[h] = int32(si)

			if ref < 0 || si-ref > maxDistance || ref+4 > len(src) || binary.LittleEndian.Uint32(src[ref:]) != match {
				si += step
				step = 1 + (searchMatchNb >> 6)
				searchMatchNb += searchMatchNb >> 6
				continue
			}

			offset := si - ref
			litLen := si - anchor
			mStart := si
			si += minMatch
			refPos := ref + minMatch
			for si < len(src)-lastLiterals && src[si] == src[refPos] {
				si++
				refPos++
			}
			matchLen := si - mStart

			nd, ok := emitSequence(dst, di, src, anchor, litLen, offset, matchLen, false)
			if !ok {
				// This sequence doesn't fit; stop before it and flush
				// whatever trailing literal run does fit starting at anchor.
				return flushTrailingLiterals(dst, di, src, anchor)
			}
			di = nd
			anchor = si
			step = 1
			searchMatchNb = acceleration << 6
		}
	}

	n, ok := emitLastLiterals(dst, di, src, anchor, len(src)-anchor, false)
	if ok {
		return len(src), n, nil
	}
	return flushTrailingLiterals(dst, di, src, anchor)
}

// flushTrailingLiterals writes the largest literal-only run starting at
// anchor that fits in dst's remaining space, trimming down from the full
// remaining source length if necessary.
func flushTrailingLiterals(dst []byte, di int, src []byte, anchor int) (int, int, error) {
	maxLit := len(src) - anchor
	for maxLit >= 0 {
		n, ok := emitLastLiterals(dst, di, src, anchor, maxLit, false)
		if ok {
			return anchor + maxLit, n, nil
		}
		maxLit--
	}
	return anchor, di, nil
}

// compressLevel dispatches to the fast encoder or the HC encoder
// (including its optimal-parser sub-mode) per spec section 3: levels < 2
// select the fast encoder with acceleration max(1, -level+1); levels
// [2, 12] select HC. Grounded on the teacher's compress.go level dispatch.
func compressLevel(src []byte, level int) ([]byte, error) {
	dst := make([]byte, CompressBound(len(src)))
	var n int
	var err error
	if level < 2 {
		accel := max(1, -level+1)
		n, err = CompressBlock(src, dst, nil, accel)
	} else {
		n, err = CompressBlockHC(src, dst, level, false)
	}
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
