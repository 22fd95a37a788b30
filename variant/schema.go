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

// Package variant defines the common variant-row schema shared by the SNV,
// INS/DEL, and INV tables, plus ID derivation and the total sort
// orders used to make output deterministic.
package variant

import "fmt"

// VarType is the kind of variant a Variant row represents.
type VarType string

// The four variant kinds this core produces.
const (
	TypeSNV VarType = "SNV"
	TypeINS VarType = "INS"
	TypeDEL VarType = "DEL"
	TypeINV VarType = "INV"
)

// CallSource is the constant call_source value this core stamps on every
// row it emits.
const CallSource = "INTRA"

// Variant is one row of the SNV, INS/DEL, or INV output table. All three
// tables share this struct; fields that don't apply to a given VarType are
// left at their zero value.
type Variant struct {
	Chrom string
	Pos   uint64 // 0-based, inclusive
	End   uint64 // exclusive

	ID      string
	VarType VarType

	Ref string // SNV only
	Alt string // SNV only

	VarLen uint64 // non-SNV
	Seq    string // inserted/deleted bases; absent for SNV/INV

	Filter string

	QryID  string
	QryPos uint64
	QryEnd uint64
	QryRev bool

	CallSource string
	VarScore   float64

	AlignSource []uint64

	// alignScore is an internal-only sort key (the source's `_align_score`
	// column) carried alongside a row while it's being built, and dropped
	// before the row is handed to a caller. It never appears in Variant's
	// public JSON/TSV projection.
	alignScore float64
}

// SetAlignScore stashes the record's alignment score for sort purposes. Only
// the package's own sort comparators read it back via alignScore.
func (v *Variant) SetAlignScore(score float64) { v.alignScore = score }

// AlignScore returns the internal sort-only alignment score.
func (v *Variant) AlignScore() float64 { return v.alignScore }

// ID derivation uses a 1-based display coordinate: chrom-pos-vartype-{alt|varlen}.
func snvID(chrom string, pos uint64, alt string) string {
	return fmt.Sprintf("%s-%d-SNV-%s", chrom, pos+1, alt)
}

func nonSNVID(chrom string, pos uint64, varType VarType, varLen uint64) string {
	return fmt.Sprintf("%s-%d-%s-%d", chrom, pos+1, varType, varLen)
}

// NewINV builds a confirmed inversion row. pos/end are the reference span;
// qryPos/qryEnd are the lifted query span; alignSource names the single
// alignment record the region's first clustered event came from, used later
// to look up that record's filter value.
func NewINV(chrom string, pos, end uint64, qryID string, qryPos, qryEnd uint64, qryRev bool, score float64, alignSource []uint64, filter string) Variant {
	varLen := end - pos
	return Variant{
		Chrom:       chrom,
		Pos:         pos,
		End:         end,
		ID:          nonSNVID(chrom, pos, TypeINV, varLen),
		VarType:     TypeINV,
		VarLen:      varLen,
		Filter:      filter,
		QryID:       qryID,
		QryPos:      qryPos,
		QryEnd:      qryEnd,
		QryRev:      qryRev,
		CallSource:  CallSource,
		VarScore:    score,
		AlignSource: alignSource,
	}
}
