// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// CDict is a dictionary pre-digested into encoder-side hash tables for
// reuse across sessions (spec section 4.H). A CDict is immutable once
// constructed: NewCDict fully populates it and nothing afterwards mutates
// its fields, so any number of encoder contexts may borrow it
// concurrently (spec section 5).
type CDict struct {
	bytes     []byte
	fastTable []int32
	hc        *hcDict
}

// NewCDict pre-digests dict's hash tables for both the fast and HC
// encoders. dict is copied, so the caller may reuse it afterwards.
//
// Grounded on the teacher's acquireSlidingWindowDict/
// releaseSlidingWindowDict pool pair for "a reusable pre-built match
// table", adapted here from pooled-and-mutable to immutable-and-shared
// because CDict must be safely borrowed by concurrent sessions.
func NewCDict(dict []byte) *CDict {
	if len(dict) > rollingDictLimit {
		dict = dict[len(dict)-rollingDictLimit:]
	}
	cd := &CDict{bytes: append([]byte(nil), dict...)}

	cd.fastTable = make([]int32, hashTableSize)
	for i := range cd.fastTable {
		cd.fastTable[i] = -1
	}
	indexDict(cd.fastTable, cd.bytes, blockHash)

	cd.hc = newHCDict(cd.bytes)

	return cd
}

// Bytes returns the dictionary content the CDict was built from.
func (cd *CDict) Bytes() []byte {
	return cd.bytes
}
