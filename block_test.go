// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTripBlock(t *testing.T, src []byte, acceleration int) {
	t.Helper()

	dst := make([]byte, CompressBound(len(src)))
	n, err := CompressBlock(src, dst, nil, acceleration)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlock(dst[:n], out)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if dn != len(src) {
		t.Fatalf("decoded length = %d, want %d", dn, len(src))
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCompressBound(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 16},
		{1, 17},
		{255, 272},
		{-1, 0},
	}
	for _, c := range cases {
		if got := CompressBound(c.n); got != c.want {
			t.Errorf("CompressBound(%d) = %d, want %d", c.n, got, c.want)
		}
	}
	if got := CompressBound(maxInputSize + 1); got != 0 {
		t.Errorf("CompressBound(maxInputSize+1) = %d, want 0", got)
	}
}

func TestBlockRoundTrip_EmptyAndSingleByte(t *testing.T) {
	roundTripBlock(t, nil, 1)
	roundTripBlock(t, []byte{0x00}, 1)
	roundTripBlock(t, []byte("a"), 1)
}

func TestBlockRoundTrip_SingleByteWireShape(t *testing.T) {
	dst := make([]byte, CompressBound(1))
	n, err := CompressBlock([]byte{0x00}, dst, nil, 1)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	want := []byte{0x10, 0x00}
	if !bytes.Equal(dst[:n], want) {
		t.Fatalf("encoded = %x, want %x", dst[:n], want)
	}
}

func TestBlockRoundTrip_RepeatedAndRandom(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("abcd"), 10000),
		bytes.Repeat([]byte{0x00}, 1 << 20),
		[]byte("hello, world!"),
	}

	r := rand.New(rand.NewSource(1))
	randomBuf := make([]byte, 65536)
	r.Read(randomBuf)
	inputs = append(inputs, randomBuf)

	for _, in := range inputs {
		for _, accel := range []int{1, 4, 65537} {
			roundTripBlock(t, in, accel)
		}
	}
}

func TestDecompressBlock_MalformedInput(t *testing.T) {
	cases := [][]byte{
		{0xFF},             // literal length claims more bytes than exist
		{0x10},             // truncated: missing the single literal byte
		{0x00, 0x00, 0x00}, // offset of 0 is invalid
		{0x00, 0x01, 0x00}, // offset of 1 with no preceding output
	}
	for i, c := range cases {
		dst := make([]byte, 64)
		if _, err := DecompressBlock(c, dst); err != ErrMalformedInput {
			t.Errorf("case %d: err = %v, want ErrMalformedInput", i, err)
		}
	}
}

func TestDecompressBlockPartial(t *testing.T) {
	src := bytes.Repeat([]byte("0123456789"), 2000)
	dst := make([]byte, CompressBound(len(src)))
	n, err := CompressBlock(src, dst, nil, 1)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlockPartial(dst[:n], out, 123)
	if err != nil {
		t.Fatalf("DecompressBlockPartial: %v", err)
	}
	if dn != 123 {
		t.Fatalf("partial decode produced %d bytes, want 123", dn)
	}
	if !bytes.Equal(out[:dn], src[:dn]) {
		t.Fatalf("partial decode content mismatch")
	}
}

func TestCompressBlockDestSize(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox "), 5000)
	dst := make([]byte, 256)

	consumed, written, err := CompressBlockDestSize(src, dst, nil, 1)
	if err != nil {
		t.Fatalf("CompressBlockDestSize: %v", err)
	}
	if consumed == 0 || consumed > len(src) {
		t.Fatalf("consumed = %d out of range", consumed)
	}
	if written > len(dst) {
		t.Fatalf("written = %d exceeds dst", written)
	}

	out := make([]byte, consumed)
	dn, err := DecompressBlock(dst[:written], out)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if dn != consumed || !bytes.Equal(out[:dn], src[:consumed]) {
		t.Fatalf("fill-output round trip mismatch")
	}
}

func TestBlockRoundTrip_UsingDict(t *testing.T) {
	dict := []byte("the quick brown fox jumps over the lazy dog, repeatedly and at length")
	src := []byte("the quick brown fox jumps over the lazy dog again")

	enc := NewFastEncoder()
	enc.LoadDict(dict)
	dst := make([]byte, CompressBound(len(src)))
	n, err := enc.CompressContinue(src, dst, 1)
	if err != nil {
		t.Fatalf("CompressContinue: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlockUsingDict(dst[:n], out, dict)
	if err != nil {
		t.Fatalf("DecompressBlockUsingDict: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("dictionary round trip mismatch")
	}
}

func TestClampAcceleration(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 1},
		{-5, 1},
		{1, 1},
		{100, 100},
		{65537, 65537},
		{1 << 20, 65537},
	}
	for _, c := range cases {
		if got := clampAcceleration(c.in); got != c.want {
			t.Errorf("clampAcceleration(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
