// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// FastEncoder is a streaming session for the fast block encoder (spec
// section 4.C, "Streaming (prefix vs. ext-dict)"). Each CompressContinue
// call matches against a private copy of the previous call's source (its
// last 64KiB at most), whether or not the new source is contiguous with it
// in memory; contiguity is not detected, and the older copy kept in
// extDict is not searched.
//
// Grounded on the teacher's lzoCompressor/slidingWindowDict split: a small
// struct owns the hash table and tracks a "current offset" into a
// conceptual sliding window, exactly as spec section 4.C describes.
type FastEncoder struct {
	hashTable []int32

	// prefix is a copy of the tail (<=64KiB) of the most recently
	// compressed source, used as the dictionary window for the next call.
	prefix []byte
	// extDict is the prefix before that; it is kept but not matched against.
	extDict []byte

	cdict *CDict
}

// NewFastEncoder returns a FastEncoder with a fresh hash table, every
// entry -1 (empty).
func NewFastEncoder() *FastEncoder {
	t := make([]int32, hashTableSize)
	for i := range t {
		t[i] = -1
	}
	return &FastEncoder{hashTable: t}
}

// Reset discards all dictionary/prefix state and clears the hash table
// (every entry -1, empty), starting a new independent session.
func (e *FastEncoder) Reset() {
	for i := range e.hashTable {
		e.hashTable[i] = -1
	}
	e.prefix = nil
	e.extDict = nil
	e.cdict = nil
}

// LoadDict pre-populates the encoder's matcher with dict's contents so the
// first CompressContinue call may reference it, without emitting any
// compressed output for dict itself.
func (e *FastEncoder) LoadDict(dict []byte) {
	e.Reset()
	if len(dict) > rollingDictLimit {
		dict = dict[len(dict)-rollingDictLimit:]
	}
	e.prefix = append([]byte(nil), dict...)
	indexDict(e.hashTable, e.prefix, blockHash)
}

// AttachDictionary borrows cdict's pre-digested fast hash table for the
// duration of the next CompressContinue call (spec section 4.H). The
// caller must keep cdict alive for as long as the encoder is attached.
func (e *FastEncoder) AttachDictionary(cdict *CDict) {
	e.cdict = cdict
}

// CompressContinue compresses src as the next block of a streaming
// session, using whatever prefix/ext-dict/attached-CDict state is active.
func (e *FastEncoder) CompressContinue(src, dst []byte, acceleration int) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}

	table := e.hashTable
	dict := e.prefix
	var useCdictTable bool
	if e.cdict != nil && e.prefix == nil {
		dict = e.cdict.bytes
		useCdictTable = true
	}

	// Re-index the table against the active dictionary window before each
	// call: each call's hash-table positions are relative to (dict, src)
	// laid end to end, and that window's contents change between calls as
	// the prefix rolls forward, so entries cannot be carried over as-is.
	// When an attached CDict supplies the dictionary, its pre-digested
	// table is copied in directly instead of rehashing dict's bytes.
	if useCdictTable {
		copy(table, e.cdict.fastTable)
	} else {
		for i := range table {
			table[i] = -1
		}
		indexDict(table, dict, blockHash)
	}

	n, err := compressFastGeneric(src, dst, table, clampAcceleration(acceleration), dict, len(dict), false)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrOutputTooSmall
	}

	e.advanceWindow(src)
	return n, nil
}

// advanceWindow rolls the prefix window forward by src, promoting the
// previous prefix to the ext-dict slot (spec section 4.C/4.E).
func (e *FastEncoder) advanceWindow(src []byte) {
	e.extDict = e.prefix
	if len(src) >= rollingDictLimit {
		e.prefix = append([]byte(nil), src[len(src)-rollingDictLimit:]...)
	} else {
		e.prefix = append([]byte(nil), src...)
	}
	e.cdict = nil
}

// SaveDict copies up to len(buf) bytes of the encoder's current prefix
// window into buf (most recent bytes last) and returns the number copied,
// for a caller that wants to persist dictionary state across sessions.
func (e *FastEncoder) SaveDict(buf []byte) int {
	n := len(e.prefix)
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, e.prefix[len(e.prefix)-n:])
	return n
}

// indexDict populates table with every 4-byte position in dict, the way a
// CDict pre-digests its hash table (spec section 4.H).
func indexDict(table []int32, dict []byte, hash func(uint32) uint32) {
	if len(dict) < 4 {
		return
	}
	for i := 0; i <= len(dict)-4; i++ {
		x := uint32(dict[i]) | uint32(dict[i+1])<<8 | uint32(dict[i+2])<<16 | uint32(dict[i+3])<<24
		table[hash(x)] = int32(i)
	}
}
