// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

// FrameInfo describes the wire-visible properties of a frame's header
// (spec section 6, "Preferences").
type FrameInfo struct {
	// BlockSizeID selects the maximum uncompressed block size.
	BlockSizeID BlockSizeID
	// BlockMode selects linked (default) or independent blocks.
	BlockMode BlockMode
	// ContentChecksumFlag enables a trailing XXH32 over all decoded bytes.
	ContentChecksumFlag OnOff
	// BlockChecksumFlag enables a per-block trailing XXH32.
	BlockChecksumFlag OnOff
	// ContentSize, when non-zero, is declared in the header and checked
	// against the total bytes produced by EncoderContext.End.
	ContentSize uint64
	// DictID, when non-zero, is declared in the header.
	DictID uint32
	// FrameType selects a standard frame or a skippable frame.
	FrameType FrameType
}

// Preferences configures a one-shot CompressFrame call or an
// EncoderContext session (spec section 6).
type Preferences struct {
	FrameInfo FrameInfo
	// CompressionLevel selects the inner block encoder (spec section 3/4.D).
	CompressionLevel int
	// AutoFlush, when true, flushes a partial block on every Update call
	// instead of accumulating to full blocks.
	AutoFlush bool
	// FavorDecSpeed applies only at optimal-parser levels (>=10).
	FavorDecSpeed bool
}

// DefaultPreferences returns the zero-value-equivalent defaults: 64 KiB
// linked blocks, no checksums, level 0 (fast, acceleration 1).
func DefaultPreferences() *Preferences {
	return &Preferences{
		FrameInfo: FrameInfo{
			BlockSizeID: BlockSizeMax64KB,
			BlockMode:   BlockLinked,
		},
	}
}

// clone returns a defensive copy of p, substituting DefaultPreferences when
// p is nil, the way the teacher's Default*Options constructors backstop a
// nil *Options argument.
func (p *Preferences) clone() *Preferences {
	if p == nil {
		return DefaultPreferences()
	}
	cp := *p
	if cp.FrameInfo.BlockSizeID == BlockSizeDefault {
		cp.FrameInfo.BlockSizeID = BlockSizeMax64KB
	}
	return &cp
}

// CompressOptions configures a single compress_update-style call.
type CompressOptions struct {
	// StableSrc declares that the caller keeps src valid and unmodified
	// through to the next call. EncoderContext.Update copies src into its
	// own staging buffer either way, so the flag does not change its
	// behaviour.
	StableSrc bool
}

// DefaultCompressOptions returns options with StableSrc disabled.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{}
}

// DecompressOptions configures a single decompress call.
type DecompressOptions struct {
	// StableDst is advisory: it signals the caller will not reuse or
	// overwrite dst before the decoder's next call.
	StableDst bool
	// SkipChecksums disables block/content checksum verification. Sticky
	// for the remainder of the frame once set on a DecoderContext.
	SkipChecksums bool
}

// DefaultDecompressOptions returns options with all checks enabled.
func DefaultDecompressOptions() *DecompressOptions {
	return &DecompressOptions{}
}
