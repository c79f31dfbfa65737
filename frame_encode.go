// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"encoding/binary"

	"github.com/woozymasta/lz4/internal/xxhash32"
)

// EncoderContext drives a frame-compression session through the
// Begin/Update/Flush/End lifecycle (spec section 4.F), buffering input up
// to the negotiated block size and picking the fast or HC block encoder
// per Preferences.CompressionLevel.
//
// Grounded on the teacher's top-level Compress entry points generalized
// into a stateful session, the same way stream_encode.go generalizes
// CompressBlock into FastEncoder.
type EncoderContext struct {
	prefs   *Preferences
	started bool
	ended   bool

	fast *FastEncoder
	hc   *HCEncoder
	cdict *CDict

	blockMax int
	blockBuf []byte
	scratch  []byte

	contentHash *xxhash32.Digest
	totalSize   uint64
}

// NewEncoderContext returns an EncoderContext ready for Begin.
func NewEncoderContext() *EncoderContext {
	return &EncoderContext{}
}

// AttachDictionary borrows cdict for the next Begin call (spec section
// 4.H). Must be called before Begin.
func (e *EncoderContext) AttachDictionary(cdict *CDict) {
	e.cdict = cdict
}

// Begin writes a frame header into dst and starts a new session. It
// returns the number of header bytes written.
func (e *EncoderContext) Begin(dst []byte, prefs *Preferences) (int, error) {
	if e.started && !e.ended {
		return 0, newFrameError(FrameDecodingAlreadyStarted, "Begin called mid-frame")
	}

	e.prefs = prefs.clone()
	e.started = true
	e.ended = false
	e.totalSize = 0
	e.blockBuf = e.blockBuf[:0]
	e.blockMax = e.prefs.FrameInfo.BlockSizeID.normalized().maxBlockSize()

	if e.prefs.FrameInfo.ContentChecksumFlag {
		e.contentHash = xxhash32.New(0)
	} else {
		e.contentHash = nil
	}

	if e.prefs.CompressionLevel >= 2 {
		enc := NewHCEncoder(e.prefs.CompressionLevel)
		enc.SetFavorDecSpeed(e.prefs.FavorDecSpeed)
		e.hc = enc
		e.fast = nil
	} else {
		e.fast = NewFastEncoder()
		e.hc = nil
	}
	if e.cdict != nil {
		if e.fast != nil {
			e.fast.AttachDictionary(e.cdict)
		}
		if e.hc != nil {
			e.hc.AttachDictionary(e.cdict)
		}
	}

	hdr := encodeFrameHeader(e.prefs.FrameInfo)
	if len(dst) < len(hdr) {
		return 0, newFrameError(DstMaxSizeTooSmall, "frame header")
	}
	return copy(dst, hdr), nil
}

// Update feeds src into the session, emitting every block that fills to
// blockMax (or, with Preferences.AutoFlush, every call's leftover too), and
// returns the number of bytes written to dst.
func (e *EncoderContext) Update(dst, src []byte, opts *CompressOptions) (int, error) {
	if !e.started || e.ended {
		return 0, newFrameError(CompressionStateUninitialized, "")
	}
	_ = opts // StableSrc has no effect here: Update always owns a private copy.

	e.blockBuf = append(e.blockBuf, src...)

	var di int
	for len(e.blockBuf) >= e.blockMax {
		n, err := e.compressOneBlock(dst[di:], e.blockBuf[:e.blockMax])
		if err != nil {
			return di, err
		}
		di += n
		e.blockBuf = append(e.blockBuf[:0], e.blockBuf[e.blockMax:]...)
	}

	if e.prefs.AutoFlush && len(e.blockBuf) > 0 {
		n, err := e.compressOneBlock(dst[di:], e.blockBuf)
		if err != nil {
			return di, err
		}
		di += n
		e.blockBuf = e.blockBuf[:0]
	}

	return di, nil
}

// Flush forces out any buffered partial block, writing it as a
// shorter-than-blockMax block.
func (e *EncoderContext) Flush(dst []byte) (int, error) {
	if !e.started || e.ended {
		return 0, newFrameError(CompressionStateUninitialized, "")
	}
	if len(e.blockBuf) == 0 {
		return 0, nil
	}
	n, err := e.compressOneBlock(dst, e.blockBuf)
	if err != nil {
		return 0, err
	}
	e.blockBuf = e.blockBuf[:0]
	return n, nil
}

// End flushes any remaining buffered data, writes the end mark, and (if
// enabled) the trailing content checksum, then closes the session so a
// later Begin may reuse this EncoderContext.
func (e *EncoderContext) End(dst []byte) (int, error) {
	if !e.started || e.ended {
		return 0, newFrameError(CompressionStateUninitialized, "")
	}

	var di int
	if len(e.blockBuf) > 0 {
		n, err := e.compressOneBlock(dst, e.blockBuf)
		if err != nil {
			return 0, err
		}
		di += n
		e.blockBuf = e.blockBuf[:0]
	}

	if e.prefs.FrameInfo.ContentSize != 0 && e.totalSize != e.prefs.FrameInfo.ContentSize {
		return di, newFrameError(FrameSizeWrong, "declared content size does not match bytes written")
	}

	if len(dst)-di < 4 {
		return di, newFrameError(DstMaxSizeTooSmall, "end mark")
	}
	binary.LittleEndian.PutUint32(dst[di:], 0)
	di += 4

	if e.prefs.FrameInfo.ContentChecksumFlag {
		if len(dst)-di < 4 {
			return di, newFrameError(DstMaxSizeTooSmall, "content checksum")
		}
		binary.LittleEndian.PutUint32(dst[di:], e.contentHash.Sum32())
		di += 4
	}

	e.ended = true
	return di, nil
}

// resetMatcherForIndependentBlock discards the active encoder's
// prefix/ext-dict window (re-attaching any borrowed CDict) so the next
// block is matched against its own dictionary only, never against bytes
// emitted by a prior block. Only meaningful in BlockIndependent mode.
func (e *EncoderContext) resetMatcherForIndependentBlock() {
	if e.prefs.FrameInfo.BlockMode != BlockIndependent {
		return
	}
	if e.fast != nil {
		e.fast.Reset()
		if e.cdict != nil {
			e.fast.AttachDictionary(e.cdict)
		}
	} else {
		e.hc.Reset()
		if e.cdict != nil {
			e.hc.AttachDictionary(e.cdict)
		}
	}
}

// trackBlock folds block into the running content hash and declared-size
// accounting shared by every block, compressed or not.
func (e *EncoderContext) trackBlock(block []byte) error {
	if e.contentHash != nil {
		e.contentHash.Write(block)
	}
	e.totalSize += uint64(len(block))
	if e.prefs.FrameInfo.ContentSize != 0 && e.totalSize > e.prefs.FrameInfo.ContentSize {
		return newFrameError(FrameSizeWrong, "content exceeds declared size")
	}
	return nil
}

// writeBlockWire writes one block's header, payload, and optional
// checksum to dst.
func (e *EncoderContext) writeBlockWire(dst, payload []byte, uncompressed bool) (int, error) {
	need := 4 + len(payload)
	if e.prefs.FrameInfo.BlockChecksumFlag {
		need += 4
	}
	if len(dst) < need {
		return 0, newFrameError(DstMaxSizeTooSmall, "block")
	}

	binary.LittleEndian.PutUint32(dst[0:4], encodeBlockHeader(len(payload), uncompressed))
	di := 4
	copy(dst[di:di+len(payload)], payload)
	di += len(payload)

	if e.prefs.FrameInfo.BlockChecksumFlag {
		binary.LittleEndian.PutUint32(dst[di:], xxhash32.Checksum(0, payload))
		di += 4
	}
	return di, nil
}

// compressOneBlock compresses (or stores) exactly one block's worth of
// decoded bytes and writes its wire representation (header, payload,
// optional checksum) to dst.
func (e *EncoderContext) compressOneBlock(dst []byte, block []byte) (int, error) {
	e.resetMatcherForIndependentBlock()

	if err := e.trackBlock(block); err != nil {
		return 0, err
	}

	bound := CompressBound(len(block))
	if cap(e.scratch) < bound {
		e.scratch = make([]byte, bound)
	}
	scratch := e.scratch[:bound]

	var n int
	var cerr error
	if e.fast != nil {
		n, cerr = e.fast.CompressContinue(block, scratch, max(1, -e.prefs.CompressionLevel+1))
	} else {
		n, cerr = e.hc.CompressContinue(block, scratch)
	}

	payload := scratch[:0]
	uncompressed := false
	if cerr != nil || n == 0 || n >= len(block) {
		// Compression failed to shrink the block (or failed outright,
		// leaving the matcher's window un-advanced): fall back to storing
		// it raw and advance the window ourselves with the real bytes.
		uncompressed = true
		payload = block
		if cerr != nil {
			if e.fast != nil {
				e.fast.advanceWindow(block)
			} else {
				e.hc.advanceWindow(block)
			}
		}
	} else {
		payload = scratch[:n]
	}

	return e.writeBlockWire(dst, payload, uncompressed)
}

// UncompressedUpdate writes src to dst as one or more verbatim blocks (the
// uncompressed flag set, spec section 4.F, "Uncompressed-update path").
// In BlockLinked mode it must not interleave with compressed blocks
// without a flush boundary between them, since the matcher's window and
// the buffered partial block both assume every prior byte was folded in
// through the same path: any compressed bytes still buffered in
// compress_update are flushed first, and the matcher's window is advanced
// past src exactly as if it had been compressed, so a following
// compress_update call can still reference it.
func (e *EncoderContext) UncompressedUpdate(dst, src []byte) (int, error) {
	if !e.started || e.ended {
		return 0, newFrameError(CompressionStateUninitialized, "")
	}

	var di int
	if e.prefs.FrameInfo.BlockMode == BlockLinked && len(e.blockBuf) > 0 {
		n, err := e.compressOneBlock(dst, e.blockBuf)
		if err != nil {
			return 0, err
		}
		di += n
		e.blockBuf = e.blockBuf[:0]
	}

	for len(src) > 0 {
		chunk := src
		if len(chunk) > e.blockMax {
			chunk = src[:e.blockMax]
		}

		e.resetMatcherForIndependentBlock()
		if err := e.trackBlock(chunk); err != nil {
			return di, err
		}
		if e.fast != nil {
			e.fast.advanceWindow(chunk)
		} else {
			e.hc.advanceWindow(chunk)
		}

		n, err := e.writeBlockWire(dst[di:], chunk, true)
		if err != nil {
			return di, err
		}
		di += n
		src = src[len(chunk):]
	}

	return di, nil
}

// CompressFrameBound returns an upper bound on the encoded size of a
// srcSize-byte frame under prefs, accounting for per-block headers,
// optional checksums, and the worst-case expansion of an incompressible
// block (spec section 4.F).
func CompressFrameBound(srcSize int, prefs *Preferences) int {
	p := prefs.clone()
	blockMax := p.FrameInfo.BlockSizeID.normalized().maxBlockSize()

	numBlocks := (srcSize + blockMax - 1) / blockMax
	if numBlocks == 0 {
		numBlocks = 1
	}

	const headerMax = 4 + 2 + 8 + 4 + 1 // magic + FLG/BD + content size + dict id + header checksum
	perBlock := 4
	if p.FrameInfo.BlockChecksumFlag {
		perBlock += 4
	}

	trailer := 4
	if p.FrameInfo.ContentChecksumFlag {
		trailer += 4
	}

	return headerMax + numBlocks*(perBlock+CompressBound(blockMax)) + trailer
}

// CompressFrame compresses src into dst as a complete, self-contained
// frame using a throwaway EncoderContext, and returns the number of bytes
// written (spec section 4.F, one-shot convenience wrapper).
//
// Grounded on the teacher's one-shot Compress wrapper around its
// streaming compressor.
func CompressFrame(dst, src []byte, prefs *Preferences) (int, error) {
	var ctx EncoderContext
	n, err := ctx.Begin(dst, prefs)
	if err != nil {
		return 0, err
	}
	di := n

	n, err = ctx.Update(dst[di:], src, nil)
	if err != nil {
		return 0, err
	}
	di += n

	n, err = ctx.End(dst[di:])
	if err != nil {
		return 0, err
	}
	di += n

	return di, nil
}
