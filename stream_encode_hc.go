// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// HCEncoder is a streaming session for the HC/optimal encoder, the HC
// counterpart to FastEncoder (spec section 6, "Streaming block codec").
type HCEncoder struct {
	level         int
	favorDecSpeed bool

	prefix  []byte
	extDict []byte
	cdict   *CDict
}

// NewHCEncoder returns an HCEncoder at the given compression level.
func NewHCEncoder(level int) *HCEncoder {
	return &HCEncoder{level: level}
}

// SetFavorDecSpeed toggles favor-decompression-speed mode (spec section
// 4.D): at optimal-parser levels (>=10) it caps match length at 18 bytes.
// No price penalty is applied to long matches, and other levels ignore it.
func (e *HCEncoder) SetFavorDecSpeed(v bool) {
	e.favorDecSpeed = v
}

// Reset discards all dictionary/prefix state.
func (e *HCEncoder) Reset() {
	e.prefix = nil
	e.extDict = nil
	e.cdict = nil
}

// LoadDict pre-populates the encoder's matcher with dict's contents.
func (e *HCEncoder) LoadDict(dict []byte) {
	e.Reset()
	if len(dict) > rollingDictLimit {
		dict = dict[len(dict)-rollingDictLimit:]
	}
	e.prefix = append([]byte(nil), dict...)
}

// AttachDictionary borrows cdict's digested bytes for the next
// CompressContinue call (spec section 4.H).
func (e *HCEncoder) AttachDictionary(cdict *CDict) {
	e.cdict = cdict
}

// CompressContinue compresses src as the next block of a streaming
// session.
func (e *HCEncoder) CompressContinue(src, dst []byte) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}

	dict := e.prefix
	var dictTables *hcDict
	if e.cdict != nil && e.prefix == nil {
		dict = e.cdict.bytes
		dictTables = e.cdict.hc
	}

	buf := make([]byte, 0, len(dict)+len(src))
	buf = append(buf, dict...)
	buf = append(buf, src...)

	params := levelParams(e.level)
	var n int
	var err error
	if params.optimal {
		n, err = hcCompressOptimal(buf, len(dict), dst, params, e.favorDecSpeed, false, dictTables)
	} else {
		n, err = hcCompress(buf, len(dict), dst, params, false, false, dictTables)
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrOutputTooSmall
	}

	e.advanceWindow(src)
	return n, nil
}

// advanceWindow rolls the prefix window forward by src.
func (e *HCEncoder) advanceWindow(src []byte) {
	e.extDict = e.prefix
	if len(src) >= rollingDictLimit {
		e.prefix = append([]byte(nil), src[len(src)-rollingDictLimit:]...)
	} else {
		e.prefix = append([]byte(nil), src...)
	}
	e.cdict = nil
}

// SaveDict copies up to len(buf) bytes of the encoder's current prefix
// window into buf and returns the number copied.
func (e *HCEncoder) SaveDict(buf []byte) int {
	n := len(e.prefix)
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, e.prefix[len(e.prefix)-n:])
	return n
}
