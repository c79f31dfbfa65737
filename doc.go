// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

/*
Package lz4 implements the LZ4 compression family: the block codec, the
high-compression (HC) encoder, and the self-describing frame container.

# Block

Block compression/decompression works on whole byte slices with no framing:

	n, err := lz4.CompressBlock(src, dst, nil, 1)
	n, err := lz4.DecompressBlock(src, dst)

CompressBlock never writes beyond len(dst); pass a buffer sized at least
lz4.CompressBound(len(src)).

# Frame

Frame encoding produces the full self-describing container (magic, header,
blocks, checksums):

	dst := make([]byte, lz4.CompressFrameBound(len(src), nil))
	n, err := lz4.CompressFrame(dst, src, nil)

	out := make([]byte, len(src))
	n, err = lz4.DecompressFrame(out, dst[:n], nil)

For large or streamed inputs, use EncoderContext and DecoderContext
directly; they implement the compress_begin/compress_update/compress_end and
decompress state-machine lifecycle described by the format.

# Compression levels

Levels below 2 select the fast single-pass encoder (acceleration
max(1, -level+1)); levels 2-9 select the HC hash-chain matcher; levels
10-12 select an optimal (dynamic-programming) parser.
*/
package lz4
