// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCompressBlockHC_RoundTripAllLevels(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 3000)

	for level := 2; level <= 12; level++ {
		dst := make([]byte, CompressBound(len(src)))
		n, err := CompressBlockHC(src, dst, level, false)
		if err != nil {
			t.Fatalf("level %d: CompressBlockHC: %v", level, err)
		}

		out := make([]byte, len(src))
		dn, err := DecompressBlock(dst[:n], out)
		if err != nil {
			t.Fatalf("level %d: DecompressBlock: %v", level, err)
		}
		if dn != len(src) || !bytes.Equal(out[:dn], src) {
			t.Fatalf("level %d: round trip mismatch", level)
		}
	}
}

func TestCompressBlockHC_FavorDecSpeed(t *testing.T) {
	src := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz"), 4000)

	dst := make([]byte, CompressBound(len(src)))
	n, err := CompressBlockHC(src, dst, 11, true)
	if err != nil {
		t.Fatalf("CompressBlockHC: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlock(dst[:n], out)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("round trip mismatch with favorDecSpeed")
	}
}

func TestCompressBlockHC_RatioNotWorseThanFast(t *testing.T) {
	src := bytes.Repeat([]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 2000)

	fastDst := make([]byte, CompressBound(len(src)))
	fn, err := CompressBlock(src, fastDst, nil, 1)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	hcDst := make([]byte, CompressBound(len(src)))
	hn, err := CompressBlockHC(src, hcDst, 9, false)
	if err != nil {
		t.Fatalf("CompressBlockHC: %v", err)
	}

	if hn > fn {
		t.Fatalf("HC level 9 produced %d bytes, fast produced %d: expected HC to not be worse", hn, fn)
	}
}

func TestCompressBlockHCDestSize(t *testing.T) {
	src := bytes.Repeat([]byte("0123456789abcdef"), 4000)
	dst := make([]byte, 512)

	consumed, written, err := CompressBlockHCDestSize(src, dst, 6, false)
	if err != nil {
		t.Fatalf("CompressBlockHCDestSize: %v", err)
	}
	if consumed == 0 {
		t.Fatalf("consumed = 0, want > 0")
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

func TestLevelParams_Clamping(t *testing.T) {
	low := levelParams(-5)
	want := levelParams(2)
	if low != want {
		t.Errorf("levelParams(-5) = %+v, want levelParams(2) = %+v", low, want)
	}

	high := levelParams(999)
	wantHigh := levelParams(12)
	if high != wantHigh {
		t.Errorf("levelParams(999) = %+v, want levelParams(12) = %+v", high, wantHigh)
	}
}

// TestCompressBlockHC_OptimalLevel_NoMatches feeds the optimal-parser
// levels data with no repeats at all, so every DP window's cheapest path
// is "leave it all as pending literal" (hcCompressOptimal's best==0
// branch). That branch must still make progress across windows and the
// carried-forward pending length must still round-trip correctly once the
// block's final literal run is flushed.
func TestCompressBlockHC_OptimalLevel_NoMatches(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	src := make([]byte, 3000)
	r.Read(src)

	for _, level := range []int{10, 11, 12} {
		dst := make([]byte, CompressBound(len(src)))
		n, err := CompressBlockHC(src, dst, level, false)
		if err != nil {
			t.Fatalf("level %d: CompressBlockHC: %v", level, err)
		}

		out := make([]byte, len(src))
		dn, err := DecompressBlock(dst[:n], out)
		if err != nil {
			t.Fatalf("level %d: DecompressBlock: %v", level, err)
		}
		if dn != len(src) || !bytes.Equal(out[:dn], src) {
			t.Fatalf("level %d: round trip mismatch on incompressible input", level)
		}
	}
}

// TestCompressBlockHC_OptimalLevel_SpansMultipleWindows exercises the DP
// parser across several optimalWindow-sized chunks of genuinely repetitive
// data, so the window boundary (and its "leave the cheapest suffix for the
// next window" bookkeeping) is hit many times over one block.
func TestCompressBlockHC_OptimalLevel_SpansMultipleWindows(t *testing.T) {
	src := bytes.Repeat([]byte("0123456789abcdefghijklmnopqrstuvwxyz"), 500) // 18000 bytes, many windows

	dst := make([]byte, CompressBound(len(src)))
	n, err := CompressBlockHC(src, dst, 12, false)
	if err != nil {
		t.Fatalf("CompressBlockHC: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlock(dst[:n], out)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("round trip mismatch across multiple DP windows")
	}
}

func TestHCEncoder_StreamingRoundTrip(t *testing.T) {
	chunks := [][]byte{
		bytes.Repeat([]byte("alpha beta gamma "), 200),
		bytes.Repeat([]byte("delta epsilon zeta "), 200),
		bytes.Repeat([]byte("alpha beta gamma "), 200),
	}

	enc := NewHCEncoder(6)
	dec := NewStreamDecoder()

	for _, chunk := range chunks {
		cdst := make([]byte, CompressBound(len(chunk)))
		n, err := enc.CompressContinue(chunk, cdst)
		if err != nil {
			t.Fatalf("CompressContinue: %v", err)
		}

		out := make([]byte, len(chunk))
		dn, err := dec.DecompressContinue(cdst[:n], out)
		if err != nil {
			t.Fatalf("DecompressContinue: %v", err)
		}
		if dn != len(chunk) || !bytes.Equal(out[:dn], chunk) {
			t.Fatalf("streaming HC round trip mismatch")
		}
	}
}

// TestHCEncoder_StreamingRoundTrip_OptimalLevel repeats the streaming
// round trip at an optimal-parser level, so hcCompressOptimal runs with the
// previous chunk as its prefix window on every call after the first. The
// attached-CDict case is covered by TestCDict_HCOptimalLevelAttach.
func TestHCEncoder_StreamingRoundTrip_OptimalLevel(t *testing.T) {
	chunks := [][]byte{
		bytes.Repeat([]byte("one two three four five "), 300),
		bytes.Repeat([]byte("six seven eight nine ten "), 300),
		bytes.Repeat([]byte("one two three four five "), 300),
	}

	enc := NewHCEncoder(11)
	dec := NewStreamDecoder()

	for _, chunk := range chunks {
		cdst := make([]byte, CompressBound(len(chunk)))
		n, err := enc.CompressContinue(chunk, cdst)
		if err != nil {
			t.Fatalf("CompressContinue: %v", err)
		}

		out := make([]byte, len(chunk))
		dn, err := dec.DecompressContinue(cdst[:n], out)
		if err != nil {
			t.Fatalf("DecompressContinue: %v", err)
		}
		if dn != len(chunk) || !bytes.Equal(out[:dn], chunk) {
			t.Fatalf("streaming HC optimal-level round trip mismatch")
		}
	}
}

// TestCDict_HCOptimalLevelAttach checks an attached CDict's pre-digested
// hash-chain tables feed hcCompressOptimal correctly (not just
// hcCompress's greedy levels), since both share the same dictTables
// parameter.
func TestCDict_HCOptimalLevelAttach(t *testing.T) {
	dict := bytes.Repeat([]byte("repeating dictionary content "), 200)
	src := bytes.Repeat([]byte("repeating dictionary content "), 50)

	cd := NewCDict(dict)

	enc := NewHCEncoder(11)
	enc.AttachDictionary(cd)
	dst := make([]byte, CompressBound(len(src)))
	n, err := enc.CompressContinue(src, dst)
	if err != nil {
		t.Fatalf("CompressContinue: %v", err)
	}

	out := make([]byte, len(src))
	dn, err := DecompressBlockUsingDict(dst[:n], out, dict)
	if err != nil {
		t.Fatalf("DecompressBlockUsingDict: %v", err)
	}
	if dn != len(src) || !bytes.Equal(out[:dn], src) {
		t.Fatalf("CDict optimal-level round trip mismatch")
	}
}
