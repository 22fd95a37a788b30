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

// Package inv implements the inversion flagger and inversion confirmer:
// clustering matched INS/DEL pairs and SNV/indel clusters into candidate
// regions, then confirming candidates with a kernel-density k-mer test over
// the lifted region.
package inv

import (
	"sort"

	"github.com/biogo/store/llrb"

	"github.com/pav3/intracore/variant"
)

// Flag is one signature tag a clustered region can carry.
type Flag string

// The clustering flags ClusterTable may emit.
const (
	FlagMatchIndel   Flag = "MATCH_INDEL"
	FlagClusterIndel Flag = "CLUSTER_INDEL"
	FlagClusterSNV   Flag = "CLUSTER_SNV"
	FlagClusterMixed Flag = "CLUSTER_MIXED"
)

// CandidateRegion is one clustered candidate: a reference-coordinate span,
// tagged with the flags that nominated it and the alignment it came from.
type CandidateRegion struct {
	Chrom      string
	Pos        uint64
	End        uint64
	AlignIndex uint64
	Flags      map[Flag]bool
}

// flagSetExactly reports whether the region's flag set is exactly {want}.
func (c CandidateRegion) flagSetExactly(want Flag) bool {
	if len(c.Flags) != 1 {
		return false
	}
	return c.Flags[want]
}

// Distance and size thresholds for clustering. These bound how close two
// events must be to cluster together and how large a run must be to count
// as a cluster rather than noise.
const (
	proximityBp   = 100
	lenRatioBand  = 0.5 // INS/DEL pair lengths must be within this fraction of each other
	minClusterLen = 3   // minimum run length to call a SNV/indel cluster
)

// candidateKey orders CandidateRegion values by (chrom, pos) so they can be
// driven through an llrb.Tree for ordered, merge-ready traversal.
type candidateKey struct {
	region CandidateRegion
}

func (k candidateKey) Compare(c2 llrb.Comparable) int {
	o := c2.(candidateKey).region
	r := k.region
	if r.Chrom != o.Chrom {
		if r.Chrom < o.Chrom {
			return -1
		}
		return 1
	}
	if r.Pos != o.Pos {
		if r.Pos < o.Pos {
			return -1
		}
		return 1
	}
	if r.End < o.End {
		return -1
	}
	if r.End > o.End {
		return 1
	}
	return 0
}

type indelEvent struct {
	v *variant.Variant
}

// ClusterTable scans the finalized SNV and INS/DEL tables and nominates
// candidate regions using two signatures that intra-alignment inversions
// are known to leave:
//
//  1. MATCH_INDEL: a pair of INS/DEL events of similar length within
//     proximityBp of each other, the entry/exit seam of an unsplit
//     inversion traversal.
//  2. CLUSTER_INDEL / CLUSTER_SNV / CLUSTER_MIXED: a run of at least
//     minClusterLen SNV and/or indel events within proximityBp of one
//     another, the mismatches accumulated while aligning through a
//     reversed segment without splitting the record.
//
// Regions are merged when they overlap after padding by proximityBp, so a
// single inversion signature that trips both rules yields one region
// carrying the flags of both rather than two overlapping candidates.
//
// refLengths/qryLengths are the reference/query .fai-equivalent length
// tables (sequence name -> length); refLengths bounds a merged region's End
// against its chromosome's actual length, since proximityBp padding in
// mergeOverlapping can otherwise push End past the contig. qryLengths is
// accepted for parity with the source's `variant_flag_inv`, which takes
// both length tables, but is not applied here: a CandidateRegion carries
// only a reference span (no query coordinates are assigned until
// Confirm's lift step), and Confirm already clamps the lifted query span
// against qryCache's own length lookup. A nil map in either position
// disables clamping for that axis.
func ClusterTable(snv, insdel []variant.Variant, refLengths, qryLengths map[string]uint64) []CandidateRegion {
	var candidates []CandidateRegion
	candidates = append(candidates, matchIndelPairs(insdel)...)
	candidates = append(candidates, snvIndelRuns(snv, insdel)...)
	return clampToRefLengths(mergeOverlapping(candidates), refLengths)
}

// clampToRefLengths clamps each region's End to its chromosome's known
// length and drops any region left degenerate (Pos >= End) by the clamp.
func clampToRefLengths(regions []CandidateRegion, refLengths map[string]uint64) []CandidateRegion {
	if len(refLengths) == 0 {
		return regions
	}
	var out []CandidateRegion
	for _, r := range regions {
		if length, ok := refLengths[r.Chrom]; ok && r.End > length {
			r.End = length
		}
		if r.Pos >= r.End {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchIndelPairs(insdel []variant.Variant) []CandidateRegion {
	byChrom := make(map[string][]indelEvent)
	for i := range insdel {
		v := &insdel[i]
		byChrom[v.Chrom] = append(byChrom[v.Chrom], indelEvent{v: v})
	}

	var out []CandidateRegion
	for chrom, events := range byChrom {
		sort.Slice(events, func(a, b int) bool { return events[a].v.Pos < events[b].v.Pos })
		for i := 0; i < len(events); i++ {
			for j := i + 1; j < len(events) && events[j].v.Pos-events[i].v.Pos <= proximityBp; j++ {
				if !similarLength(events[i].v.VarLen, events[j].v.VarLen) {
					continue
				}
				hi := events[j].v.End
				if events[i].v.End > hi {
					hi = events[i].v.End
				}
				out = append(out, CandidateRegion{
					Chrom:      chrom,
					Pos:        events[i].v.Pos,
					End:        hi,
					AlignIndex: firstAlignIndex(events[i].v),
					Flags:      map[Flag]bool{FlagMatchIndel: true},
				})
			}
		}
	}
	return out
}

type clusterMember struct {
	chrom string
	pos   uint64
	end   uint64
	isSNV bool
	align uint64
}

func snvIndelRuns(snv, insdel []variant.Variant) []CandidateRegion {
	var members []clusterMember
	for i := range snv {
		members = append(members, clusterMember{chrom: snv[i].Chrom, pos: snv[i].Pos, end: snv[i].End, isSNV: true, align: firstAlignIndex(&snv[i])})
	}
	for i := range insdel {
		members = append(members, clusterMember{chrom: insdel[i].Chrom, pos: insdel[i].Pos, end: insdel[i].End, isSNV: false, align: firstAlignIndex(&insdel[i])})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].chrom != members[j].chrom {
			return members[i].chrom < members[j].chrom
		}
		return members[i].pos < members[j].pos
	})

	var out []CandidateRegion
	for i := 0; i < len(members); {
		j := i + 1
		hasSNV, hasIndel := members[i].isSNV, !members[i].isSNV
		end := members[i].end
		for j < len(members) && members[j].chrom == members[i].chrom && members[j].pos <= end+proximityBp {
			if members[j].isSNV {
				hasSNV = true
			} else {
				hasIndel = true
			}
			if members[j].end > end {
				end = members[j].end
			}
			j++
		}
		if j-i >= minClusterLen {
			flags := map[Flag]bool{}
			switch {
			case hasSNV && hasIndel:
				flags[FlagClusterMixed] = true
			case hasIndel:
				flags[FlagClusterIndel] = true
			default:
				flags[FlagClusterSNV] = true
			}
			out = append(out, CandidateRegion{
				Chrom:      members[i].chrom,
				Pos:        members[i].pos,
				End:        end,
				AlignIndex: members[i].align,
				Flags:      flags,
			})
		}
		i = j
	}
	return out
}

func similarLength(a, b uint64) bool {
	if a == 0 || b == 0 {
		return false
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(hi-lo)/float64(hi) <= lenRatioBand
}

func firstAlignIndex(v *variant.Variant) uint64 {
	if len(v.AlignSource) == 0 {
		return 0
	}
	return v.AlignSource[0]
}

// mergeOverlapping inserts every candidate into an llrb.Tree keyed by
// (chrom, pos, end), walks it in order with Do, and merges adjacent entries
// whose span overlaps once padded by proximityBp — combining their flag
// sets along the way.
func mergeOverlapping(candidates []CandidateRegion) []CandidateRegion {
	if len(candidates) == 0 {
		return nil
	}

	tree := &llrb.Tree{}
	for _, c := range candidates {
		key := candidateKey{region: c}
		// Insert replaces an entry with an equal key, so fold a same-span
		// candidate's flags into the existing entry instead.
		if existing := tree.Get(key); existing != nil {
			for f := range c.Flags {
				existing.(candidateKey).region.Flags[f] = true
			}
			continue
		}
		tree.Insert(key)
	}

	var ordered []CandidateRegion
	tree.Do(func(c llrb.Comparable) (done bool) {
		ordered = append(ordered, c.(candidateKey).region)
		return false
	})

	var merged []CandidateRegion
	cur := ordered[0]
	for _, c := range ordered[1:] {
		if c.Chrom == cur.Chrom && c.Pos <= cur.End+proximityBp {
			if c.End > cur.End {
				cur.End = c.End
			}
			for f := range c.Flags {
				cur.Flags[f] = true
			}
			continue
		}
		merged = append(merged, cur)
		cur = c
	}
	merged = append(merged, cur)
	return merged
}

// FlagInv returns the candidate regions the flagger reports, rejecting
// clusters whose only signature is CLUSTER_SNV: SNV-only clusters rarely
// indicate inversions and dominate false positives.
func FlagInv(snv, insdel []variant.Variant, refLengths, qryLengths map[string]uint64) []CandidateRegion {
	all := ClusterTable(snv, insdel, refLengths, qryLengths)
	var out []CandidateRegion
	for _, c := range all {
		if c.flagSetExactly(FlagClusterSNV) {
			continue
		}
		out = append(out, c)
	}
	return out
}
