// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestFrameRoundTrip_Default(t *testing.T) {
	src := []byte("hello, world!")

	dst := make([]byte, CompressFrameBound(len(src), nil))
	n, err := CompressFrame(dst, src, nil)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}

	if got := binary.LittleEndian.Uint32(dst[:4]); got != frameMagic {
		t.Fatalf("magic = 0x%08X, want 0x%08X", got, frameMagic)
	}

	out := make([]byte, len(src))
	dn, err := DecompressFrame(out, dst[:n], nil)
	if err != nil {
		t.Fatalf("DecompressFrame: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("round trip mismatch: got %q, want %q", out[:dn], src)
	}
}

func TestFrameRoundTrip_WithChecksumsAndContentSize(t *testing.T) {
	src := bytes.Repeat([]byte("cycling-byte payload "), 50000)

	prefs := DefaultPreferences()
	prefs.FrameInfo.ContentChecksumFlag = Enabled
	prefs.FrameInfo.BlockChecksumFlag = Enabled
	prefs.FrameInfo.ContentSize = uint64(len(src))
	prefs.FrameInfo.BlockSizeID = BlockSizeMax256KB
	prefs.CompressionLevel = 6

	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(dst, src, prefs)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}

	fi, _, err := NewDecoderContext().GetFrameInfo(dst[:n])
	if err != nil {
		t.Fatalf("GetFrameInfo: %v", err)
	}
	if fi.ContentSize != uint64(len(src)) {
		t.Fatalf("GetFrameInfo ContentSize = %d, want %d", fi.ContentSize, len(src))
	}

	out := make([]byte, len(src))
	dn, err := DecompressFrame(out, dst[:n], nil)
	if err != nil {
		t.Fatalf("DecompressFrame: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestFrame_ContentChecksumMismatchDetected(t *testing.T) {
	src := []byte("the content checksum must cover every decoded byte")

	prefs := DefaultPreferences()
	prefs.FrameInfo.ContentChecksumFlag = Enabled

	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(dst, src, prefs)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}

	// Corrupt the trailing content checksum's last byte.
	dst[n-1] ^= 0xFF

	out := make([]byte, len(src))
	_, err = DecompressFrame(out, dst[:n], nil)
	if !IsFrameError(err, ContentChecksumInvalid) {
		t.Fatalf("err = %v, want ContentChecksumInvalid", err)
	}
}

func TestFrame_DeclaredSizeMismatch(t *testing.T) {
	src := []byte("short payload")

	prefs := DefaultPreferences()
	prefs.FrameInfo.ContentSize = uint64(len(src)) + 1

	dst := make([]byte, CompressFrameBound(len(src), prefs))
	_, err := CompressFrame(dst, src, prefs)
	if !IsFrameError(err, FrameSizeWrong) {
		t.Fatalf("err = %v, want FrameSizeWrong", err)
	}
}

func TestFrame_StreamingViaReaderWriter(t *testing.T) {
	src := make([]byte, 1<<20)
	for i := range src {
		src[i] = byte(i)
	}

	var compressed bytes.Buffer
	w := NewWriterLevel(&compressed, 1)
	mid := len(src) / 3
	if _, err := w.Write(src[:mid]); err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	if _, err := w.Write(src[mid:]); err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(&compressed)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("streamed round trip mismatch: got %d bytes, want %d", len(got), len(src))
	}
}

func TestFrame_IndependentBlocks(t *testing.T) {
	src := bytes.Repeat([]byte("independent block content, repeated "), 20000)

	prefs := DefaultPreferences()
	prefs.FrameInfo.BlockMode = BlockIndependent
	prefs.FrameInfo.BlockSizeID = BlockSizeMax64KB

	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(dst, src, prefs)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressFrame(out, dst[:n], nil)
	if err != nil {
		t.Fatalf("DecompressFrame: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("independent-block round trip mismatch")
	}
}

func TestFrame_RejectsBadMagic(t *testing.T) {
	bad := []byte{0x00, 0x01, 0x02, 0x03, 0x40, 0x40}
	out := make([]byte, 16)
	_, err := DecompressFrame(out, bad, nil)
	if !IsFrameError(err, HeaderVersionWrong) {
		t.Fatalf("err = %v, want HeaderVersionWrong", err)
	}
}

func TestFrame_PartialDecompress(t *testing.T) {
	src := bytes.Repeat([]byte("partial decode exercise "), 10000)

	dst := make([]byte, CompressFrameBound(len(src), nil))
	n, err := CompressFrame(dst, src, nil)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}

	ctx := NewDecoderContext()
	var out bytes.Buffer
	small := make([]byte, 37)
	si := 0
	for {
		consumed, written, _, derr := ctx.Decompress(small, dst[si:n], nil)
		si += consumed
		out.Write(small[:written])
		if derr != nil {
			t.Fatalf("Decompress: %v", derr)
		}
		if ctx.state == fdFinished {
			break
		}
	}

	if !bytes.Equal(out.Bytes(), src) {
		t.Fatalf("chunked partial decode mismatch: got %d bytes, want %d", out.Len(), len(src))
	}
}

func TestFrame_SkippableFrameIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, skippableMagicBase|0x3)
	payload := []byte("vendor-specific metadata")
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	src := []byte("real frame content after the skippable chunk")
	frameDst := make([]byte, CompressFrameBound(len(src), nil))
	n, err := CompressFrame(frameDst, src, nil)
	if err != nil {
		t.Fatalf("CompressFrame: %v", err)
	}
	buf.Write(frameDst[:n])

	out := make([]byte, len(src))
	dn, err := DecompressFrame(out, buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("DecompressFrame: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("post-skippable round trip mismatch")
	}
}
