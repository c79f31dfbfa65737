// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lz4

package lz4

import "encoding/binary"

// hcLevelParams mirrors the teacher's level_params.go per-level table:
// higher levels spend more chain-walk budget for a better match, the same
// tryLazy/niceLen/maxChain shape generalized from LZO1X-999's 2/3-byte
// hashes to LZ4's uniform 4-byte MINMATCH hash.
type hcLevelParams struct {
	niceLen  int
	maxChain int
	lazy     bool // try a one-position lookahead before committing a match
	optimal  bool // levels 10-12: optimal-parser mode (spec section 4.D)
}

// hcLevels is indexed by compression level 2..12; index 0 and 1 are unused
// placeholders (those levels select the fast encoder, spec section 3).
var hcLevels = [13]hcLevelParams{
	2:  {niceLen: 32, maxChain: 16},
	3:  {niceLen: 40, maxChain: 32, lazy: true},
	4:  {niceLen: 48, maxChain: 64, lazy: true},
	5:  {niceLen: 64, maxChain: 128, lazy: true},
	6:  {niceLen: 80, maxChain: 256, lazy: true},
	7:  {niceLen: 96, maxChain: 512, lazy: true},
	8:  {niceLen: 128, maxChain: 1024, lazy: true},
	9:  {niceLen: 128, maxChain: 2048, lazy: true},
	10: {niceLen: 128, maxChain: 4096, lazy: true, optimal: true},
	11: {niceLen: 128, maxChain: 8192, lazy: true, optimal: true},
	12: {niceLen: 128, maxChain: 16384, lazy: true, optimal: true},
}

// levelParams clamps level into HC's [2,12] range and returns its params.
func levelParams(level int) hcLevelParams {
	if level < 2 {
		level = 2
	}
	if level > 12 {
		level = 12
	}
	return hcLevels[level]
}

// CompressBlockHC compresses src with the hash-chain (levels 2-9) or
// optimal-parser (levels 10-12) matcher (spec section 4.D). favorDecSpeed
// applies only at optimal-parser levels, where it caps search-match length
// at 18 bytes to favor faster decompression over maximum ratio.
func CompressBlockHC(src, dst []byte, level int, favorDecSpeed bool) (int, error) {
	if len(src) > maxInputSize {
		return 0, ErrInputTooLarge
	}
	if len(src) == 0 {
		return 0, nil
	}

	params := levelParams(level)
	var n int
	var err error
	if params.optimal {
		n, err = hcCompressOptimal(src, 0, dst, params, favorDecSpeed, false, nil)
	} else {
		n, err = hcCompress(src, 0, dst, params, false, false, nil)
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrOutputTooSmall
	}
	return n, nil
}

// CompressBlockHCDestSize compresses as much of src as fits in dst (spec
// section 4.D, "FillOutput + HC"): when a sequence would overflow the
// target, the encoder shortens or drops it instead of aborting, so a
// partial well-formed block still decodes.
func CompressBlockHCDestSize(src, dst []byte, level int, favorDecSpeed bool) (srcConsumed, dstWritten int, err error) {
	params := levelParams(level)
	return hcCompressFillOutput(src, dst, params, favorDecSpeed && params.optimal)
}

// hcDict holds a dictionary's worth of pre-built hash/chain state for
// reuse by HCEncoder sessions (spec section 4.H). Immutable once built;
// hcCompress and hcCompressOptimal copy these tables on every call that
// uses them rather than sharing them live, since an attached CDict may be borrowed by several concurrent sessions.
type hcDict struct {
	bytes     []byte
	hashTable [hcHashTableSize]int32
	chain     []int32
}

func newHCDict(dict []byte) *hcDict {
	hd := &hcDict{bytes: dict, chain: make([]int32, len(dict))}
	for i := range hd.hashTable {
		hd.hashTable[i] = -1
	}
	for i := range hd.chain {
		hd.chain[i] = -1
	}
	for i := 0; i+4 <= len(dict); i++ {
		h := hcHash(binary.LittleEndian.Uint32(dict[i:]))
		hd.chain[i] = hd.hashTable[h]
		hd.hashTable[h] = int32(i)
	}
	return hd
}

// hcCompress runs the hash-chain parse over buf[base:], allowing
// matches to reach back into buf[0:base] (a prefix or dictionary window),
// and emits sequences into dst starting at dst[0].
//
// Grounded on the teacher's sliding_window.go chain walk ("follow the
// chain until out of window, keep the longest match, budget bounded by
// MaxChain") adapted from LZO's 2-/3-byte hashes to LZ4's 4-byte hash.
// Hash/chain tables for the buf[base:] region are rebuilt fresh per call
// (see stream_encode.go's FastEncoder for the same trade-off and its
// rationale); the buf[0:base] dictionary region reuses dictTables' already-
// digested tables when the caller has one (spec section 4.H), instead of
// rehashing the dictionary bytes on every streaming call.
func hcCompress(buf []byte, base int, dst []byte, params hcLevelParams, favorDecSpeed bool, noLimit bool, dictTables *hcDict) (int, error) {
	n := len(buf)
	sn := n - mfLimit
	if sn <= base {
		return emitLastLiteralsResult(dst, 0, buf, base, n-base, noLimit)
	}

	var hashTable, chain []int32
	if dictTables != nil && len(dictTables.chain) == base {
		hashTable = append([]int32(nil), dictTables.hashTable[:]...)
		chain = make([]int32, len(buf))
		copy(chain, dictTables.chain)
		for i := base; i < len(chain); i++ {
			chain[i] = -1
		}
	} else {
		hashTable, chain = buildHCTables(buf, base)
	}

	capLen := n
	if favorDecSpeed {
		capLen = 18
	}

	anchor := base
	si := base
	var di int

	insert := func(pos int) {
		if pos+4 > n {
			return
		}
		h := hcHash(binary.LittleEndian.Uint32(buf[pos:]))
		chain[pos] = hashTable[h]
		hashTable[h] = int32(pos)
	}

	findBest := func(pos int) (matchLen, matchPos int) {
		if pos+4 > n {
			return 0, 0
		}
		h := hcHash(binary.LittleEndian.Uint32(buf[pos:]))
		cand := hashTable[h]
		budget := params.maxChain
		best, bestPos := 0, -1
		for cand >= 0 && pos-int(cand) <= maxDistance && budget > 0 {
			c := int(cand)
			l := hcMatchLength(buf, c, pos, capLen)
			if l > best && l >= minMatch {
				best, bestPos = l, c
				if best >= params.niceLen {
					break
				}
			}
			cand = chain[c]
			budget--
		}
		return best, bestPos
	}

	for si < sn {
		mLen, mPos := findBest(si)
		insert(si)

		if mLen < minMatch {
			si++
			continue
		}

		// Lazy matching (spec's optimal-parser lookahead, approximated for
		// HC levels too): if the very next position yields a strictly
		// longer match, emit one literal and retry there instead of
		// committing to the shorter match now.
		if params.lazy && si+1 < sn {
			nLen, nPos := findBest(si + 1)
			if nLen > mLen {
				insert(si + 1)
				si++
				mLen, mPos = nLen, nPos
			}
		}

		offset := si - mPos
		litLen := si - anchor

		nd, ok := emitSequence(dst, di, buf, anchor, litLen, offset, mLen, noLimit)
		if !ok {
			return 0, nil
		}
		di = nd

		for p := si + 1; p < si+mLen && p < sn; p++ {
			insert(p)
		}
		si += mLen
		anchor = si
	}

	return emitLastLiteralsResult(dst, di, buf, anchor, n-anchor, noLimit)
}

// hcCompressOptimal is the dynamic-programming parser mandated for HC
// levels 10-12 (spec section 4.D, "optimal (dynamic-programming) parser").
// It processes buf[base:sn) in chunks of at most optimalWindow bytes:
// within a chunk it finds the single best hash-chain match at every
// position (same findBest/insert walk as hcCompress), prices every
// reachable chunk-local position against literalRunCost/matchCost (which
// split emitSequence's exact wire-cost formula into its literal-run and
// match halves), and traces back the cheapest path instead of committing
// to the first match a greedy walk finds.
//
// A chunk boundary is picked at whichever position ends the cheapest path
// through the chunk, which need not be the chunk's last byte: anything
// past that position is left unconsumed, so the bytes are re-priced from
// scratch as part of the next chunk rather than being force-committed at a
// chunk edge. When no match anywhere in a chunk beats leaving it all as
// literal, the whole chunk is carried forward as pending literal bytes
// (anchor stays put, si still advances) instead of looping on the same
// chunk; literalRunCost accounts for that carry by adding the pending
// byte count (pend) whenever a priced path starts at the chunk's first
// position.
//
// Grounded the same way as hcCompress for table reuse and the chain walk;
// the DP structure itself has no teacher analogue (spec section 4.D names
// it; no example repo in the pack implements LZ4's optimal parser), so
// literalRunCost/matchCost are derived directly from this package's own
// emitSequence cost formula rather than adapted from another file.
func hcCompressOptimal(buf []byte, base int, dst []byte, params hcLevelParams, favorDecSpeed bool, noLimit bool, dictTables *hcDict) (int, error) {
	n := len(buf)
	sn := n - mfLimit
	if sn <= base {
		return emitLastLiteralsResult(dst, 0, buf, base, n-base, noLimit)
	}

	var hashTable, chain []int32
	if dictTables != nil && len(dictTables.chain) == base {
		hashTable = append([]int32(nil), dictTables.hashTable[:]...)
		chain = make([]int32, len(buf))
		copy(chain, dictTables.chain)
		for i := base; i < len(chain); i++ {
			chain[i] = -1
		}
	} else {
		hashTable, chain = buildHCTables(buf, base)
	}

	capLen := n
	if favorDecSpeed {
		capLen = 18
	}

	insert := func(pos int) {
		if pos+4 > n {
			return
		}
		h := hcHash(binary.LittleEndian.Uint32(buf[pos:]))
		chain[pos] = hashTable[h]
		hashTable[h] = int32(pos)
	}

	findBest := func(pos int) (matchLen, matchPos int) {
		if pos+4 > n {
			return 0, 0
		}
		h := hcHash(binary.LittleEndian.Uint32(buf[pos:]))
		cand := hashTable[h]
		// A position re-priced in a later window was already inserted, as
		// were some after it: skip those so only earlier positions match.
		for cand >= 0 && int(cand) >= pos {
			cand = chain[cand]
		}
		budget := params.maxChain
		best, bestPos := 0, -1
		for cand >= 0 && pos-int(cand) <= maxDistance && budget > 0 {
			c := int(cand)
			l := hcMatchLength(buf, c, pos, capLen)
			if l > best && l >= minMatch {
				best, bestPos = l, c
				if best >= params.niceLen {
					break
				}
			}
			cand = chain[c]
			budget--
		}
		return best, bestPos
	}

	anchor := base
	si := base
	inserted := base // positions below this are already in the chain
	var di int

	matchLen := make([]int, optimalWindow)
	matchPos := make([]int, optimalWindow)
	cost := make([]int, optimalWindow+1)
	from := make([]int, optimalWindow+1)
	viaStart := make([]int, optimalWindow+1)
	viaLen := make([]int, optimalWindow+1)

	const infCost = 1 << 30

	for si < sn {
		ws := si
		we := ws + optimalWindow
		if we > sn {
			we = sn
		}
		w := we - ws
		pend := ws - anchor

		for b := 0; b < w; b++ {
			l, p := findBest(ws + b)
			if b+l > w {
				l = w - b
			}
			if l < minMatch {
				l, p = 0, -1
			}
			matchLen[b], matchPos[b] = l, p
			if ws+b >= inserted {
				insert(ws + b)
				inserted = ws + b + 1
			}
		}

		// effLen(i, t) is the literal-run length a path from chunk-local
		// position i to t would cost: i==0 carries pend on top of the
		// chunk-local span, every other i is itself a prior match end
		// with nothing pending before it.
		effLen := func(i, t int) int {
			if i == 0 {
				return pend + t
			}
			return t - i
		}

		for i := 0; i <= w; i++ {
			cost[i] = infCost
		}
		cost[0] = 0

		for i := 0; i < w; i++ {
			if cost[i] >= infCost {
				continue
			}
			for j := i; j < w; j++ {
				if matchLen[j] < minMatch {
					continue
				}
				to := j + matchLen[j]
				newCost := cost[i] + literalRunCost(effLen(i, j)) + matchCost(matchLen[j])
				if newCost < cost[to] {
					cost[to] = newCost
					from[to] = i
					viaStart[to] = j
					viaLen[to] = matchLen[j]
				}
			}
		}

		best, bestCost := 0, literalRunCost(effLen(0, w))
		for i := 1; i <= w; i++ {
			if cost[i] >= infCost {
				continue
			}
			c := cost[i] + literalRunCost(effLen(i, w))
			if c < bestCost {
				best, bestCost = i, c
			}
		}

		if best == 0 {
			si = we
			continue
		}

		var edgeStart, edgeLen []int
		for cur := best; cur != 0; cur = from[cur] {
			edgeStart = append(edgeStart, viaStart[cur])
			edgeLen = append(edgeLen, viaLen[cur])
		}

		for k := len(edgeStart) - 1; k >= 0; k-- {
			matchStart := ws + edgeStart[k]
			litLen := matchStart - anchor
			offset := matchStart - matchPos[edgeStart[k]]
			nd, ok := emitSequence(dst, di, buf, anchor, litLen, offset, edgeLen[k], noLimit)
			if !ok {
				return 0, nil
			}
			di = nd
			anchor = matchStart + edgeLen[k]
		}

		si = ws + best
	}

	return emitLastLiteralsResult(dst, di, buf, anchor, n-anchor, noLimit)
}

// literalRunCost is the coded size of a litLen-byte literal run excluding
// the token byte it shares with whatever match follows it (or the
// emitLastLiterals token when none does): emitSequence's own
// "varLenSize(litLen) + litLen" term.
func literalRunCost(litLen int) int {
	return varLenSize(litLen) + litLen
}

// matchCost is the coded size of a matchLen-byte match plus the token byte
// it shares with its preceding literal run: emitSequence's own
// "1 + 2 + varLenSize(matchLen-minMatch)" term.
func matchCost(matchLen int) int {
	return 1 + 2 + varLenSize(matchLen-minMatch)
}

// emitLastLiteralsResult wraps emitLastLiterals with the (n, error)
// convention CompressBlockHC's callers expect: ok=false becomes (0, nil)
// meaning "incompressible", matching the fast encoder's contract.
func emitLastLiteralsResult(dst []byte, di int, src []byte, anchor, litLen int, noLimit bool) (int, error) {
	n, ok := emitLastLiterals(dst, di, src, anchor, litLen, noLimit)
	if !ok {
		return 0, nil
	}
	return n, nil
}

// buildHCTables allocates and populates fresh hash/chain tables over buf,
// including the dictionary-only region [0,base) so matches starting at or
// after base may reach into it.
func buildHCTables(buf []byte, base int) ([]int32, []int32) {
	hashTable := make([]int32, hcHashTableSize)
	for i := range hashTable {
		hashTable[i] = -1
	}
	chain := make([]int32, len(buf))
	for i := range chain {
		chain[i] = -1
	}
	for i := 0; i+4 <= base; i++ {
		h := hcHash(binary.LittleEndian.Uint32(buf[i:]))
		chain[i] = hashTable[h]
		hashTable[h] = int32(i)
	}
	return hashTable, chain
}

// hcMatchLength returns how many bytes starting at a and b agree, capped
// at capLen and so that at least lastLiterals bytes of buf remain after
// the match.
func hcMatchLength(buf []byte, a, b, capLen int) int {
	maxLen := len(buf) - lastLiterals - b
	if maxLen > capLen {
		maxLen = capLen
	}
	i := 0
	for i < maxLen && buf[a+i] == buf[b+i] {
		i++
	}
	return i
}

// hcCompressFillOutput is CompressBlockHCDestSize's core: parse with the
// hash-chain matcher but stop and trim the final literal run, rather than
// fail, when a sequence would overflow dst.
func hcCompressFillOutput(src, dst []byte, params hcLevelParams, favorDecSpeed bool) (int, int, error) {
	if len(dst) == 0 {
		return 0, 0, nil
	}

	n := len(src)
	sn := n - mfLimit
	hashTable, chain := buildHCTables(src, 0)

	capLen := n
	if favorDecSpeed {
		capLen = 18
	}

	anchor := 0
	si := 0
	var di int

	insert := func(pos int) {
		if pos+4 > n {
			return
		}
		h := hcHash(binary.LittleEndian.Uint32(src[pos:]))
		chain[pos] = hashTable[h]
		hashTable[h] = int32(pos)
	}

	if sn > 0 {
		for si < sn {
			h := uint32(0)
			var mLen, mPos int
			if si+4 <= n {
				h = hcHash(binary.LittleEndian.Uint32(src[si:]))
				cand := hashTable[h]
				budget := params.maxChain
				for cand >= 0 && si-int(cand) <= maxDistance && budget > 0 {
					c := int(cand)
					l := hcMatchLength(src, c, si, capLen)
					if l > mLen && l >= minMatch {
						mLen, mPos = l, c
						if mLen >= params.niceLen {
							break
						}
					}
					cand = chain[c]
					budget--
				}
			}
			insert(si)

			if mLen < minMatch {
				si++
				continue
			}

			offset := si - mPos
			litLen := si - anchor
			nd, ok := emitSequence(dst, di, src, anchor, litLen, offset, mLen, false)
			if !ok {
				return flushTrailingLiterals(dst, di, src, anchor)
			}
			di = nd
			for p := si + 1; p < si+mLen && p < sn; p++ {
				insert(p)
			}
			si += mLen
			anchor = si
		}
	}

	nd, ok := emitLastLiterals(dst, di, src, anchor, n-anchor, false)
	if ok {
		return n, nd, nil
	}
	return flushTrailingLiterals(dst, di, src, anchor)
}
