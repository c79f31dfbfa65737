// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package xxhash32

import (
	"bytes"
	"testing"
)

func TestChecksum_EmptyInputKnownVector(t *testing.T) {
	// Published XXH32 reference vector: hash of the empty string, seed 0.
	got := Checksum(0, nil)
	want := uint32(0x02CC5D05)
	if got != want {
		t.Fatalf("Checksum(0, nil) = 0x%08X, want 0x%08X", got, want)
	}
}

func TestDigest_MatchesOneShotAcrossChunking(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 97)

	want := Checksum(12345, data)

	for _, chunkSize := range []int{1, 3, 7, 16, 17, 255, 4096} {
		d := New(12345)
		for off := 0; off < len(data); off += chunkSize {
			end := off + chunkSize
			if end > len(data) {
				end = len(data)
			}
			if _, err := d.Write(data[off:end]); err != nil {
				t.Fatalf("Write: %v", err)
			}
		}
		if got := d.Sum32(); got != want {
			t.Fatalf("chunkSize=%d: Sum32() = 0x%08X, want 0x%08X", chunkSize, got, want)
		}
	}
}

func TestDigest_ResetReusable(t *testing.T) {
	d := New(0)
	d.Write([]byte("first"))
	first := d.Sum32()

	d.Reset(0)
	d.Write([]byte("first"))
	second := d.Sum32()

	if first != second {
		t.Fatalf("Reset did not restore identical state: %08X != %08X", first, second)
	}
}

func TestDigest_SumNonDestructive(t *testing.T) {
	d := New(7)
	d.Write([]byte("partial-state"))
	a := d.Sum32()
	b := d.Sum32()
	if a != b {
		t.Fatalf("Sum32 should be idempotent: %08X != %08X", a, b)
	}
}
