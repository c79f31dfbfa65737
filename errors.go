// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"errors"
	"fmt"
)

// Block-level sentinel errors (spec section 7.1). Returned from the safe
// block APIs; never caused by a panic and never surfaced from an
// out-of-bounds read or write.
var (
	// ErrOutputTooSmall is returned when dst cannot hold the compressed or
	// decompressed result.
	ErrOutputTooSmall = errors.New("lz4: output buffer too small")
	// ErrInputTooLarge is returned when src exceeds maxInputSize.
	ErrInputTooLarge = errors.New("lz4: input larger than the maximum block size")
	// ErrMalformedInput is returned when the compressed stream violates any
	// of the bounds checks in the block decoder.
	ErrMalformedInput = errors.New("lz4: malformed compressed block")
)

// FrameErrorCode is a stable, named frame-level error code (spec section
// 7.2). Tests and CLI collaborators may assert on Error()'s string form.
type FrameErrorCode int

const (
	OkNoError FrameErrorCode = iota
	Generic
	MaxBlockSizeInvalid
	BlockModeInvalid
	ParameterInvalid
	CompressionLevelInvalid
	HeaderVersionWrong
	BlockChecksumInvalid
	ReservedFlagSet
	AllocationFailed
	SrcSizeTooLarge
	DstMaxSizeTooSmall
	FrameHeaderIncomplete
	FrameTypeUnknown
	FrameSizeWrong
	SrcPtrWrong
	DecompressionFailed
	HeaderChecksumInvalid
	ContentChecksumInvalid
	FrameDecodingAlreadyStarted
	CompressionStateUninitialized
	ParameterNull
	IoWrite
	IoRead
)

// frameErrorNames holds the stable, human-readable name for every FrameErrorCode, in
// declaration order.
var frameErrorNames = [...]string{
	"OkNoError",
	"Generic",
	"MaxBlockSizeInvalid",
	"BlockModeInvalid",
	"ParameterInvalid",
	"CompressionLevelInvalid",
	"HeaderVersionWrong",
	"BlockChecksumInvalid",
	"ReservedFlagSet",
	"AllocationFailed",
	"SrcSizeTooLarge",
	"DstMaxSizeTooSmall",
	"FrameHeaderIncomplete",
	"FrameTypeUnknown",
	"FrameSizeWrong",
	"SrcPtrWrong",
	"DecompressionFailed",
	"HeaderChecksumInvalid",
	"ContentChecksumInvalid",
	"FrameDecodingAlreadyStarted",
	"CompressionStateUninitialized",
	"ParameterNull",
	"IoWrite",
	"IoRead",
}

// String returns the stable name of the error code.
func (c FrameErrorCode) String() string {
	if int(c) < 0 || int(c) >= len(frameErrorNames) {
		return "Unknown"
	}
	return frameErrorNames[c]
}

// FrameError is the error type returned by all frame-level operations. It
// wraps a stable FrameErrorCode with optional human-readable context.
type FrameError struct {
	Code    FrameErrorCode
	Context string
}

// Error implements the error interface, producing a stable, code-named
// message. The code's name is always present so CLI collaborators and
// tests can match on it without string-parsing free-form text.
func (e *FrameError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("lz4: %s", e.Code)
	}
	return fmt.Sprintf("lz4: %s: %s", e.Code, e.Context)
}

// newFrameError constructs a *FrameError for code, with optional context.
func newFrameError(code FrameErrorCode, context string) *FrameError {
	return &FrameError{Code: code, Context: context}
}

// IsFrameError reports whether err is a *FrameError with the given code.
func IsFrameError(err error, code FrameErrorCode) bool {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// errMalformedBlockInFrame wraps ErrMalformedInput with frame context, used
// when the frame decoder's inner block decode call fails (spec section
// 7: "a MalformedInput surfaced from the block decoder").
func errMalformedBlockInFrame(inner error) error {
	return fmt.Errorf("lz4: frame block decode: %w", inner)
}
