// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import "encoding/binary"

// DecompressBlock decompresses src (one LZ4 block, no dictionary) into dst
// and returns the number of bytes written. dst must be large enough to
// hold the full decompressed output; use DecompressBlockPartial to cap
// output at a target length instead.
//
// DecompressBlock never panics, never reads past len(src), and never
// writes past len(dst); any violation of the block wire format returns
// ErrMalformedInput (spec section 4.B).
func DecompressBlock(src, dst []byte) (int, error) {
	return decodeBlock(src, dst, nil, nil, false, len(dst))
}

// DecompressBlockPartial decompresses src into dst, stopping as soon as
// targetLen output bytes have been produced (or the block ends, if that
// comes first). It never writes past targetLen or len(dst), whichever is
// smaller.
func DecompressBlockPartial(src, dst []byte, targetLen int) (int, error) {
	if targetLen > len(dst) {
		targetLen = len(dst)
	}
	return decodeBlock(src, dst, nil, nil, true, targetLen)
}

// DecompressBlockUsingDict decompresses src into dst, allowing matches to
// reference dict as if it immediately preceded dst[0].
func DecompressBlockUsingDict(src, dst, dict []byte) (int, error) {
	return decodeBlock(src, dst, nil, dict, false, len(dst))
}

// decodeBlock is the single bounds-checked entry point behind all of the
// exported block-decode functions and the frame/streaming decoders
// (spec section 4.B). prefix is the rolling window immediately preceding
// dst[0] (nil for NoDict); extDict is the older history preceding prefix
// (nil unless a streaming session has both). Grounded on the teacher's
// decompressCore cursor/helper-function style: every read is bounds
// checked by a small helper before use, and the loop returns
// ErrMalformedInput instead of ever indexing out of range.
func decodeBlock(src, dst, prefix, extDict []byte, partial bool, targetLen int) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if targetLen > len(dst) {
		targetLen = len(dst)
	}

	var ip, op int
	iend := len(src)

	for {
		tok, err := readByte(src, &ip)
		if err != nil {
			return 0, ErrMalformedInput
		}

		litLen := int(tok >> 4)
		if litLen == 0xF {
			ext, err := readVarLenExt(src, &ip)
			if err != nil {
				return 0, err
			}
			litLen += ext
		}

		if partial {
			if op+litLen > targetLen {
				n := targetLen - op
				if n < 0 {
					n = 0
				}
				if err := copyLiteral(src, &ip, dst, &op, n); err != nil {
					return 0, ErrMalformedInput
				}
				return op, nil
			}
		}

		if err := copyLiteral(src, &ip, dst, &op, litLen); err != nil {
			return 0, ErrMalformedInput
		}

		if ip == iend {
			// Final sequence of the block: literal-only, consuming exactly
			// the remaining input (spec section 4.B bounds-check table).
			return op, nil
		}
		if ip > iend {
			return 0, ErrMalformedInput
		}

		offU16, err := readLE16(src, &ip)
		if err != nil {
			return 0, ErrMalformedInput
		}
		offset := int(offU16)
		if offset == 0 {
			return 0, ErrMalformedInput
		}

		matchLen := int(tok & 0xF)
		if matchLen == 0xF {
			ext, err := readVarLenExt(src, &ip)
			if err != nil {
				return 0, err
			}
			matchLen += ext
		}
		matchLen += minMatch

		if partial {
			avail := targetLen - op
			if avail <= 0 {
				return op, nil
			}
			if matchLen > avail {
				matchLen = avail
			}
		}

		newOp, err := copyMatch(dst, op, offset, matchLen, prefix, extDict)
		if err != nil {
			return 0, err
		}
		op = newOp

		if partial && op >= targetLen {
			return op, nil
		}
	}
}

// readByte reads one byte from src at *ip and advances *ip.
func readByte(src []byte, ip *int) (byte, error) {
	if *ip >= len(src) {
		return 0, ErrMalformedInput
	}
	b := src[*ip]
	*ip++
	return b, nil
}

// readLE16 reads a little-endian uint16 from src at *ip and advances *ip by 2.
func readLE16(src []byte, ip *int) (uint16, error) {
	if *ip+2 > len(src) {
		return 0, ErrMalformedInput
	}
	v := binary.LittleEndian.Uint16(src[*ip:])
	*ip += 2
	return v, nil
}

// readVarLenExt consumes a run of 0xFF bytes terminated by a <0xFF byte and
// returns their sum (spec section 4.B, "literal-run base == 15" / the
// matching match-length extension). Guards against summation overflow by
// rejecting a sum that wraps negative.
func readVarLenExt(src []byte, ip *int) (int, error) {
	sum := 0
	for {
		if *ip >= len(src) {
			return 0, ErrMalformedInput
		}
		b := src[*ip]
		*ip++
		sum += int(b)
		if sum < 0 {
			// Host-word wraparound guard (spec: "sum does not wrap the host
			// word size").
			return 0, ErrMalformedInput
		}
		if b != 0xFF {
			return sum, nil
		}
	}
}

// copyLiteral copies n bytes from src[*ip:] to dst[*op:] and advances both
// cursors, bounds-checking against both buffers first.
func copyLiteral(src []byte, ip *int, dst []byte, op *int, n int) error {
	if n == 0 {
		return nil
	}
	if n < 0 || *ip+n > len(src) || *op+n > len(dst) {
		return ErrMalformedInput
	}
	copy(dst[*op:*op+n], src[*ip:*ip+n])
	*ip += n
	*op += n
	return nil
}

// copyMatch writes length bytes at dst[op:op+length] sourced from offset
// bytes before the current output position, splitting the copy across
// dst's already-written prefix, the rolling prefix window, and an older
// external dictionary as needed (spec section 4.B, "External-dictionary
// match"). It never writes past len(dst) and never reads before the start
// of the combined prefix+extDict+dst history.
//
// Correctness, not raw throughput, is the priority here: distances shorter
// than the match length are replicated by repeatedly copying the longest
// available non-overlapping run, the same doubling idea as the teacher's
// copyBackRef but generalized across three possible source regions.
func copyMatch(dst []byte, op, offset, length int, prefix, extDict []byte) (int, error) {
	if offset <= 0 {
		return op, ErrMalformedInput
	}
	if op+length > len(dst) {
		return op, ErrMalformedInput
	}
	historyLen := op + len(prefix) + len(extDict)
	if offset > historyLen {
		return op, ErrMalformedInput
	}

	remaining := length
	for remaining > 0 {
		if offset <= op {
			srcPos := op - offset
			n := offset
			if n > remaining {
				n = remaining
			}
			copy(dst[op:op+n], dst[srcPos:srcPos+n])
			op += n
			remaining -= n
			continue
		}

		rem := offset - op
		if rem <= len(prefix) {
			srcPos := len(prefix) - rem
			n := len(prefix) - srcPos
			if n > remaining {
				n = remaining
			}
			copy(dst[op:op+n], prefix[srcPos:srcPos+n])
			op += n
			remaining -= n
			continue
		}

		rem -= len(prefix)
		if rem <= len(extDict) {
			srcPos := len(extDict) - rem
			n := len(extDict) - srcPos
			if n > remaining {
				n = remaining
			}
			copy(dst[op:op+n], extDict[srcPos:srcPos+n])
			op += n
			remaining -= n
			continue
		}

		return op, ErrMalformedInput
	}

	return op, nil
}
