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

package inv

import "github.com/pav3/intracore/kmer"

// KDEParams bundles the confirmer's tunables: k-mer size, the truncated
// normal kernel's bandwidth/truncation, and the kernel-shape selector
// (inv_kde_func).
type KDEParams struct {
	KSize     int
	Bandwidth float64
	TruncZ    float64
	Func      string
}

// Verdict is the confirmer's decision for one candidate region.
type Verdict struct {
	Confirmed bool
	Score     float64 // fraction of the window's mass attributed to reverse-oriented k-mers
}

// Confirmer decides whether a candidate region is a genuine intra-alignment
// inversion. It is named as an external collaborator with a defined
// contract (the decision kernel itself is a black box, deterministic given
// identical inputs and parameters); Confirm below orchestrates it.
type Confirmer interface {
	// TryIntraRegion scores refSeq (the candidate's reference span) against
	// qrySeq (the lifted query span). A degenerate input (either sequence
	// too short to yield a single k-mer window) is reported via ok=false.
	TryIntraRegion(refSeq, qrySeq []byte, params KDEParams) (v Verdict, ok bool)
}

// kdeConfirmer is the default Confirmer: it indexes the reference window's
// forward and reverse-complement k-mers, then scans the query window
// checking whether each k-mer matches more reverse-complement positions
// than forward ones. A truncated-normal KDE smooths the resulting 0/1
// "looks reverse" signal into a density and compares it at the window's
// midpoint against the density of all scanned positions, giving a
// normalized reverse-fraction score in [0, 1].
type kdeConfirmer struct{}

// NewConfirmer returns the default Confirmer.
func NewConfirmer() Confirmer { return kdeConfirmer{} }

const confirmThreshold = 0.5

func (kdeConfirmer) TryIntraRegion(refSeq, qrySeq []byte, params KDEParams) (Verdict, bool) {
	fwdIdx, rcIdx := buildKmerIndex(refSeq, params.KSize)

	sc := kmer.NewScanner(params.KSize)
	sc.Reset(string(qrySeq))

	var allPositions, reversePositions []float64
	for sc.Scan() {
		pos := float64(sc.Pos())
		allPositions = append(allPositions, pos)
		fwdMatches := len(fwdIdx[sc.Forward()])
		revMatches := len(rcIdx[sc.Forward()])
		if revMatches > fwdMatches {
			reversePositions = append(reversePositions, pos)
		}
	}
	if len(allPositions) == 0 || len(fwdIdx) == 0 {
		return Verdict{}, false
	}

	kernel := NewKernel(params.Bandwidth, params.TruncZ, params.Func)
	mid := allPositions[len(allPositions)/2]
	// Density averages over its samples; scale each side by its sample count
	// so the score compares kernel mass and stays within [0, 1].
	denom := kernel.Density(allPositions, mid) * float64(len(allPositions))
	if denom == 0 {
		return Verdict{}, false
	}
	score := kernel.Density(reversePositions, mid) * float64(len(reversePositions)) / denom

	return Verdict{Confirmed: score >= confirmThreshold, Score: score}, true
}

func buildKmerIndex(seq []byte, k int) (fwd, rc map[kmer.K][]int) {
	fwd = make(map[kmer.K][]int)
	rc = make(map[kmer.K][]int)
	sc := kmer.NewScanner(k)
	sc.Reset(string(seq))
	for sc.Scan() {
		fwd[sc.Forward()] = append(fwd[sc.Forward()], sc.Pos())
		rc[sc.ReverseComp()] = append(rc[sc.ReverseComp()], sc.Pos())
	}
	return fwd, rc
}
