// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// StreamDecoder tracks the rolling dictionary across block boundaries for
// callers decoding a sequence of dependent blocks outside of the frame
// format (spec section 4.E). It does not own the output buffer; the caller
// decides where decoded bytes land and tells the decoder via
// DecompressContinue's dst argument.
//
// Grounded on the teacher's Decompress/DecompressN split: a thin struct
// that records "the end of the last decoded output plus its length" and
// defers all actual decoding to decodeBlock.
type StreamDecoder struct {
	prefixEnd  []byte // logical pointer: last prefixSize bytes of the previous dst
	prefixSize int
	extDict    []byte

	// lastDst/lastLen record the previous call's dst and how much of it
	// was produced, so the next call can detect contiguity (see
	// contiguousWindow) without needing raw pointer arithmetic.
	lastDst []byte
	lastLen int
}

// NewStreamDecoder returns a StreamDecoder with no dictionary state.
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// SetDictionary seeds the decoder with an external dictionary, discarding
// any rolling prefix collected so far.
func (d *StreamDecoder) SetDictionary(dict []byte) {
	d.prefixEnd = nil
	d.prefixSize = 0
	d.extDict = dict
	// A fresh dictionary invalidates any in-flight ring-buffer contiguity:
	// the next dst must not be treated as a continuation of whatever was
	// decoded before this call.
	d.lastDst = nil
	d.lastLen = 0
}

// DecompressContinue decodes src into dst as the next block of a streaming
// session. It inspects whether dst is the same backing slice immediately
// following the last decoded output (by comparing the start of dst against
// the stored prefix's end address via slice identity) to decide between
// "rolling in place" and "buffer wrapped" (spec section 4.E).
func (d *StreamDecoder) DecompressContinue(src, dst []byte) (int, error) {
	prefix := d.currentPrefix(dst)

	n, err := decodeBlock(src, dst, prefix, d.extDict, false, len(dst))
	if err != nil {
		return 0, err
	}

	d.advance(dst[:n])
	d.lastDst = dst
	d.lastLen = n
	return n, nil
}

// currentPrefix returns the prefix window to use for this call: the real
// bytes of the previous output, unduplicated, when dst continues directly
// from it in the same backing array, or the decoder's own tracked copy
// otherwise (a fresh buffer, or a ring-buffer wrap back to the start).
func (d *StreamDecoder) currentPrefix(dst []byte) []byte {
	if window, ok := d.contiguousWindow(dst); ok {
		return window
	}
	return d.prefixEnd
}

// contiguousWindow reports whether dst begins exactly where the previous
// DecompressContinue call's dst left off within the same backing array; if
// so it returns the up-to-rollingDictLimit real bytes immediately
// preceding dst. Go slices don't expose raw addresses for pointer
// arithmetic the way the C API's ring-buffer mode does, but re-slicing the
// previous dst out to its capacity and comparing element addresses with
// &x[i] is ordinary, unsafe-free Go and gives the same answer: equal
// addresses mean the caller is writing into the tail of the same backing
// array the decoder last wrote into.
func (d *StreamDecoder) contiguousWindow(dst []byte) ([]byte, bool) {
	if d.lastDst == nil || d.lastLen == 0 || len(dst) == 0 {
		return nil, false
	}
	full := d.lastDst[:cap(d.lastDst)]
	if d.lastLen >= len(full) {
		return nil, false
	}
	if &full[d.lastLen] != &dst[0] {
		return nil, false
	}
	lo := d.lastLen - rollingDictLimit
	if lo < 0 {
		lo = 0
	}
	return full[lo:d.lastLen], true
}

// RollingWindow returns the unused tail of the backing array passed to the
// last DecompressContinue call, from the end of what was produced out to
// its capacity. A caller managing a single ring buffer across calls should
// take its next dst as a prefix of this slice (dst := dec.RollingWindow()
// [:n]) so the following DecompressContinue call is recognized as
// contiguous with this one and matches against the real preceding bytes
// instead of the decoder's copy. Returns nil before the first successful
// call; returns a zero-length slice once the buffer has no room left
// before its capacity, signaling the caller must wrap back to its start
// (and rely on SetDictionary or the tracked copy for continuity instead).
func (d *StreamDecoder) RollingWindow() []byte {
	if d.lastDst == nil {
		return nil
	}
	full := d.lastDst[:cap(d.lastDst)]
	return full[d.lastLen:]
}

// advance records produced (its last 64KiB at most) as the new rolling
// prefix and moves the previous prefix into the ext-dict slot. It does so
// on every call, so matches reach back into the two most recent blocks
// only; older output is dropped even when those two hold less than 64KiB.
func (d *StreamDecoder) advance(produced []byte) {
	d.extDict = d.prefixEnd
	if len(produced) >= rollingDictLimit {
		d.prefixEnd = append([]byte(nil), produced[len(produced)-rollingDictLimit:]...)
	} else {
		d.prefixEnd = append([]byte(nil), produced...)
	}
	d.prefixSize = len(d.prefixEnd)
}

// DecoderRingBufferSize returns the minimum ring-buffer size that
// guarantees a valid wrap for a caller managing its own output buffer
// across DecompressContinue calls, for the given maximum block size (spec
// section 4.E).
func DecoderRingBufferSize(maxBlockSize int) int {
	return rollingDictLimit + 14 + maxBlockSize
}
