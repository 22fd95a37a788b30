// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kmer provides a compact 2-bit k-mer encoding with canonicalization
// (forward vs. reverse-complement), used by the inversion confirmer to build
// forward/reverse k-mer match densities.
package kmer

// K is a compact encoding of a sequence of ACGT, up to 32 bases. Being a
// plain uint64, it is already suitable as a map key on its own; callers
// don't need a separate hash step the way a sharded index keyed on a
// derived digest would.
type K uint64

// invalidBits marks an ASCII byte that is not one of ACGTacgt.
const invalidBits = uint8(255)

var (
	asciiToBits      [256]uint8
	asciiToComplBits [256]uint8
)

func init() {
	for i := range asciiToBits {
		asciiToBits[i] = invalidBits
		asciiToComplBits[i] = invalidBits
	}
	set := func(ch byte, bits, complBits uint8) {
		asciiToBits[ch] = bits
		asciiToComplBits[ch] = complBits
	}
	set('A', 0, 3)
	set('a', 0, 3)
	set('C', 1, 2)
	set('c', 1, 2)
	set('G', 2, 1)
	set('g', 2, 1)
	set('T', 3, 0)
	set('t', 3, 0)
}

// Invalid is the sentinel value returned for k-mers containing an
// ambiguity code (N or anything outside ACGT).
const Invalid = K(0xffffffffffffffff)

// Canonical returns the lexicographically smaller of a k-mer and its
// reverse complement, so that a k-mer and its RC hash identically
// regardless of which strand it was read from.
func Canonical(forward, reverseComplement K) K {
	if forward < reverseComplement {
		return forward
	}
	return reverseComplement
}

// Scanner extracts successive (forward, reverse-complement) k-mer pairs
// from an ASCII DNA sequence. Each Scan call re-encodes its k-base window
// from scratch (O(k)); windows this core confirms are small enough that a
// rolling update isn't worth the complexity.
type Scanner struct {
	k int

	seq string
	si  int

	curForward, curRC K
	curPos            int
	valid             bool
}

// NewScanner creates a Scanner for k-mers of length k (typically 31).
func NewScanner(k int) *Scanner {
	return &Scanner{k: k}
}

// Reset begins scanning seq from the start.
func (s *Scanner) Reset(seq string) {
	s.seq = seq
	s.si = 0
	s.valid = false
}

// encodeAt computes the forward and reverse-complement k-mer starting at
// position i from scratch; returns ok=false if the window contains an
// ambiguity code.
func (s *Scanner) encodeAt(i int) (forward, rc K, ok bool) {
	for j := 0; j < s.k; j++ {
		fb := asciiToBits[s.seq[i+j]]
		if fb == invalidBits {
			return 0, 0, false
		}
		forward = (forward << 2) | K(fb)
	}
	// rc must read complemented bases in reverse order, not just complement
	// the forward accumulation above.
	for j := s.k - 1; j >= 0; j-- {
		rc = (rc << 2) | K(asciiToComplBits[s.seq[i+j]])
	}
	return forward, rc, true
}

// Scan advances to the next valid k-mer window and reports whether one was
// found. Call Pos/Forward/ReverseComp/CanonicalKmer to read it.
func (s *Scanner) Scan() bool {
	for s.si+s.k <= len(s.seq) {
		forward, rc, ok := s.encodeAt(s.si)
		pos := s.si
		s.si++
		if !ok {
			continue
		}
		s.curForward, s.curRC, s.curPos, s.valid = forward, rc, pos, true
		return true
	}
	s.valid = false
	return false
}

// Pos returns the 0-based offset of the current k-mer within the scanned
// sequence.
func (s *Scanner) Pos() int { return s.curPos }

// Forward returns the current forward-strand k-mer.
func (s *Scanner) Forward() K { return s.curForward }

// ReverseComp returns the current k-mer's reverse complement.
func (s *Scanner) ReverseComp() K { return s.curRC }

// CanonicalKmer returns Canonical(Forward(), ReverseComp()) for the current
// window.
func (s *Scanner) CanonicalKmer() K { return Canonical(s.curForward, s.curRC) }
