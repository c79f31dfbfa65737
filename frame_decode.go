// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"encoding/binary"

	"github.com/woozymasta/lz4/internal/xxhash32"
)

// frameDecState names a state in DecoderContext's state machine (spec
// section 4.G). Named after what the decoder is waiting for, the same
// spirit as original_source/src/frame/decompress.rs's state enum, adapted
// to a buffered-block design: a whole block's wire bytes are gathered
// before it is decoded, and the decoded bytes are then drained to the
// caller's dst across as many Decompress calls as it takes.
type frameDecState int

const (
	fdGetHeader frameDecState = iota
	fdSkip
	fdGetBlockHeader
	fdGetBlock
	fdFlushOut
	fdGetSuffix
	fdFinished
)

// DecoderContext decodes a stream of frame bytes delivered in arbitrary
// chunks, producing decoded output into a caller-supplied dst across as
// many Decompress calls as needed (spec section 4.G).
//
// Unlike StreamDecoder, DecoderContext keeps its rolling dictionary window
// in its own buffer decoupled from the caller's dst, per the spec's stated
// preference for that model when a decoder cannot rely on dst's addresses
// staying stable across calls (original_source/src/frame/decompress.rs).
type DecoderContext struct {
	state frameDecState
	info  FrameInfo

	pending       []byte
	skipRemaining int

	blockMax          int
	blockLen          int
	blockUncompressed bool
	scratch           []byte

	blockOut    []byte
	blockOutPos int

	dictBytes []byte
	cdict     *CDict
	rollPrefix []byte
	rollExt    []byte

	contentHash   *xxhash32.Digest
	skipChecksums bool
}

// NewDecoderContext returns a DecoderContext ready to decode a frame from
// its start.
func NewDecoderContext() *DecoderContext {
	return &DecoderContext{state: fdGetHeader}
}

// Reset discards all in-progress frame state, keeping any attached
// dictionary so the same DecoderContext can decode a following frame that
// uses it.
func (d *DecoderContext) Reset() {
	*d = DecoderContext{state: fdGetHeader, dictBytes: d.dictBytes, cdict: d.cdict}
}

// SetDictionary seeds decoding with an external dictionary.
func (d *DecoderContext) SetDictionary(dict []byte) {
	d.cdict = nil
	if len(dict) > rollingDictLimit {
		dict = dict[len(dict)-rollingDictLimit:]
	}
	d.dictBytes = append([]byte(nil), dict...)
}

// AttachDictionary borrows cdict's bytes as the decoder's dictionary.
func (d *DecoderContext) AttachDictionary(cdict *CDict) {
	d.cdict = cdict
	d.dictBytes = cdict.Bytes()
}

// GetFrameInfo parses (without consuming any decoder state) the frame
// header at the start of src, for a caller that wants to inspect block
// size or declared content size before calling Decompress.
func (d *DecoderContext) GetFrameInfo(src []byte) (FrameInfo, int, error) {
	if len(src) >= 4 {
		magic := binary.LittleEndian.Uint32(src)
		if isSkippableMagic(magic) {
			return FrameInfo{}, 0, newFrameError(FrameTypeUnknown, "skippable frame has no content header")
		}
	}
	return parseFrameHeader(src)
}

// Decompress consumes as much of src as it can use and writes as much
// decoded output to dst as fits, returning how many bytes of each it used
// and a hint of how many additional src bytes the next call will need to
// make progress (0 when no new input is required, e.g. dst filled up with
// output already decoded). Bytes it cannot use yet while waiting for more
// input are kept internally and counted as consumed. Call it repeatedly,
// feeding fresh src from where the previous call left off, until the
// frame is fully decoded.
func (d *DecoderContext) Decompress(dst, src []byte, opts *DecompressOptions) (srcConsumed, dstWritten, hint int, err error) {
	if opts == nil {
		opts = DefaultDecompressOptions()
	}
	if opts.SkipChecksums {
		d.skipChecksums = true
	}

	buf := src
	oldPending := len(d.pending)
	if oldPending > 0 {
		buf = make([]byte, 0, oldPending+len(src))
		buf = append(buf, d.pending...)
		buf = append(buf, src...)
	}

	consumed := 0
	di := 0

loop:
	for {
		switch d.state {
		case fdGetHeader:
			if len(buf)-consumed < 4 {
				hint = 4 - (len(buf) - consumed)
				break loop
			}
			magic := binary.LittleEndian.Uint32(buf[consumed:])
			if isSkippableMagic(magic) {
				if len(buf)-consumed < 8 {
					hint = 8 - (len(buf) - consumed)
					break loop
				}
				size := binary.LittleEndian.Uint32(buf[consumed+4:])
				consumed += 8
				d.skipRemaining = int(size)
				d.state = fdSkip
				continue
			}

			fi, n, perr := parseFrameHeader(buf[consumed:])
			if perr != nil {
				if IsFrameError(perr, FrameHeaderIncomplete) {
					hint = 1
					break loop
				}
				err = perr
				break loop
			}
			consumed += n
			d.info = fi
			d.blockMax = fi.BlockSizeID.normalized().maxBlockSize()
			if cap(d.scratch) < d.blockMax {
				d.scratch = make([]byte, d.blockMax)
			}
			d.rollPrefix = append([]byte(nil), d.dictBytes...)
			d.rollExt = nil
			if fi.ContentChecksumFlag {
				d.contentHash = xxhash32.New(0)
			} else {
				d.contentHash = nil
			}
			d.state = fdGetBlockHeader

		case fdSkip:
			avail := len(buf) - consumed
			if avail == 0 {
				hint = d.skipRemaining
				break loop
			}
			n := avail
			if n > d.skipRemaining {
				n = d.skipRemaining
			}
			consumed += n
			d.skipRemaining -= n
			if d.skipRemaining != 0 {
				hint = d.skipRemaining
				break loop
			}
			d.state = fdGetHeader

		case fdGetBlockHeader:
			if len(buf)-consumed < 4 {
				hint = 4 - (len(buf) - consumed)
				break loop
			}
			h := binary.LittleEndian.Uint32(buf[consumed:])
			if h == 0 {
				consumed += 4
				d.state = fdGetSuffix
				continue
			}
			length, unc := decodeBlockHeader(h)
			if length > d.blockMax {
				err = newFrameError(FrameSizeWrong, "block length exceeds negotiated block size")
				break loop
			}
			consumed += 4
			d.blockLen = length
			d.blockUncompressed = unc
			d.state = fdGetBlock

		case fdGetBlock:
			need := d.blockLen
			if d.info.BlockChecksumFlag {
				need += 4
			}
			if len(buf)-consumed < need {
				hint = need - (len(buf) - consumed)
				break loop
			}

			blockData := buf[consumed : consumed+d.blockLen]
			consumed += d.blockLen
			if d.info.BlockChecksumFlag {
				want := binary.LittleEndian.Uint32(buf[consumed:])
				consumed += 4
				if !d.skipChecksums && xxhash32.Checksum(0, blockData) != want {
					err = newFrameError(BlockChecksumInvalid, "")
					break loop
				}
			}

			var decoded []byte
			if d.blockUncompressed {
				decoded = blockData
			} else {
				prefix, ext := d.blockDictWindows()
				n, derr := decodeBlock(blockData, d.scratch[:d.blockMax], prefix, ext, false, d.blockMax)
				if derr != nil {
					err = errMalformedBlockInFrame(derr)
					break loop
				}
				decoded = d.scratch[:n]
			}

			d.blockOut = append(d.blockOut[:0], decoded...)
			d.blockOutPos = 0

			if d.contentHash != nil {
				d.contentHash.Write(d.blockOut)
			}
			if d.info.BlockMode == BlockLinked {
				d.advanceRoll(d.blockOut)
			}

			d.state = fdFlushOut

		case fdFlushOut:
			avail := len(d.blockOut) - d.blockOutPos
			room := len(dst) - di
			n := avail
			if n > room {
				n = room
			}
			if n > 0 {
				copy(dst[di:di+n], d.blockOut[d.blockOutPos:d.blockOutPos+n])
				di += n
				d.blockOutPos += n
			}
			if d.blockOutPos < len(d.blockOut) {
				hint = 0
				break loop
			}
			d.state = fdGetBlockHeader

		case fdGetSuffix:
			if !d.info.ContentChecksumFlag {
				d.state = fdFinished
				continue
			}
			if len(buf)-consumed < 4 {
				hint = 4 - (len(buf) - consumed)
				break loop
			}
			got := binary.LittleEndian.Uint32(buf[consumed:])
			consumed += 4
			if !d.skipChecksums && got != d.contentHash.Sum32() {
				err = newFrameError(ContentChecksumInvalid, "")
				break loop
			}
			d.state = fdFinished

		case fdFinished:
			hint = 0
			break loop
		}
	}

	stashEnd := oldPending // unread old-pending bytes are always kept
	if err == nil && hint > 0 {
		stashEnd = len(buf) // waiting for input: keep the rest, count all of src as consumed
	}
	if err != nil || consumed >= stashEnd {
		d.pending = nil
	} else {
		d.pending = append([]byte(nil), buf[consumed:stashEnd]...)
		consumed = stashEnd
	}

	consumedFromSrc := consumed - oldPending
	if consumedFromSrc < 0 {
		consumedFromSrc = 0
	}
	return consumedFromSrc, di, hint, err
}

// blockDictWindows returns the prefix/ext-dict pair the next block should
// decode against: independent blocks always see the fixed attached
// dictionary (never the rolling window of a previous block); linked
// blocks see the rolling window.
func (d *DecoderContext) blockDictWindows() (prefix, ext []byte) {
	if d.info.BlockMode == BlockIndependent {
		return d.dictBytes, nil
	}
	return d.rollPrefix, d.rollExt
}

// advanceRoll rolls the linked-block dictionary window forward by
// produced: it is appended to the prefix while the prefix stays within
// 64KiB; past that, the old prefix is promoted into the ext-dict slot and
// the prefix restarts with produced (its last 64KiB at most).
func (d *DecoderContext) advanceRoll(produced []byte) {
	if len(d.rollPrefix)+len(produced) <= rollingDictLimit {
		d.rollPrefix = append(d.rollPrefix, produced...)
		return
	}
	d.rollExt = d.rollPrefix
	if len(produced) >= rollingDictLimit {
		d.rollPrefix = append([]byte(nil), produced[len(produced)-rollingDictLimit:]...)
	} else {
		d.rollPrefix = append([]byte(nil), produced...)
	}
}

// decompressFrameWith drives ctx to the end of one complete frame held
// entirely in src, failing if src runs out before the frame finishes or
// dst runs out of room before all of it is produced.
func decompressFrameWith(ctx *DecoderContext, dst, src []byte, opts *DecompressOptions) (int, error) {
	di, si := 0, 0
	for ctx.state != fdFinished {
		consumed, written, _, err := ctx.Decompress(dst[di:], src[si:], opts)
		di += written
		si += consumed
		if err != nil {
			return di, err
		}
		if consumed == 0 && written == 0 {
			if si < len(src) {
				return di, newFrameError(DstMaxSizeTooSmall, "")
			}
			return di, newFrameError(FrameHeaderIncomplete, "truncated frame")
		}
	}
	return di, nil
}

// DecompressFrame decodes one complete frame from src into dst in a single
// call, returning the number of bytes written (spec section 4.G, one-shot
// convenience wrapper grounded on the teacher's Decompress/
// DecompressFromReader split).
func DecompressFrame(dst, src []byte, opts *DecompressOptions) (int, error) {
	return decompressFrameWith(NewDecoderContext(), dst, src, opts)
}

// DecompressFrameUsingDict decodes one complete frame from src into dst,
// allowing its blocks to reference dict as an external dictionary.
func DecompressFrameUsingDict(dst, src, dict []byte, opts *DecompressOptions) (int, error) {
	ctx := NewDecoderContext()
	ctx.SetDictionary(dict)
	return decompressFrameWith(ctx, dst, src, opts)
}
