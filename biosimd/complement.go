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

// Package biosimd provides low-level byte-oriented DNA sequence helpers:
// reverse-complement of ASCII sequences via a 256-entry lookup table. Base
// counting and FASTQ quality transforms have no caller in this module; see
// DESIGN.md.
package biosimd

// complementTable maps an ASCII base to its complement: A<->T, C<->G,
// ambiguity code N maps to itself, and anything else maps to N. This is the
// fixed 256-entry byte lookup table: it's
// referentially transparent and needs no per-call branching.
var complementTable = buildComplementTable()

func buildComplementTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 'N'
	}
	pairs := map[byte]byte{
		'A': 'T', 'T': 'A',
		'C': 'G', 'G': 'C',
		'a': 't', 't': 'a',
		'c': 'g', 'g': 'c',
		'N': 'N', 'n': 'n',
	}
	for from, to := range pairs {
		t[from] = to
	}
	return t
}

// Complement returns the complement of a single ASCII base.
func Complement(b byte) byte { return complementTable[b] }

// cleanASCIISeqTable maps an ASCII base to its capitalized form for
// 'a'/'c'/'g'/'t', and to 'N' for anything else, including 'n'/'N'
// themselves.
var cleanASCIISeqTable = buildCleanASCIISeqTable()

func buildCleanASCIISeqTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 'N'
	}
	pairs := map[byte]byte{
		'A': 'A', 'C': 'C', 'G': 'G', 'T': 'T',
		'a': 'A', 'c': 'C', 'g': 'G', 't': 'T',
	}
	for from, to := range pairs {
		t[from] = to
	}
	return t
}

// CleanASCIISeqInplace capitalizes 'a'/'c'/'g'/'t' in place and replaces
// everything else, including ambiguity codes, with 'N'.
func CleanASCIISeqInplace(ascii8 []byte) {
	for i, b := range ascii8 {
		ascii8[i] = cleanASCIISeqTable[b]
	}
}

// ReverseComp8 returns the reverse complement of an ASCII DNA sequence.
func ReverseComp8(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complementTable[seq[n-1-i]]
	}
	return string(out)
}

// ReverseComp8Bytes writes the reverse complement of src into a new []byte.
func ReverseComp8Bytes(src []byte) []byte {
	n := len(src)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complementTable[src[n-1-i]]
	}
	return out
}
