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

// Package align models the alignment-record schema that the intra-alignment
// variant discovery core consumes, and expands each record's CIGAR-like
// operation stream into per-op rows carrying running reference/query
// coordinates.
//
// Alignment ingestion and CIGAR parsing themselves are external
// collaborators; this package only consumes an already-parsed Ops slice.
package align

import (
	"github.com/pkg/errors"
)

// OpCode is a single CIGAR-like alignment operation code.
type OpCode byte

// The operation codes a Record's Ops stream may contain.
const (
	OpMatch    OpCode = '=' // exact match
	OpMismatch OpCode = 'X' // mismatch (contributes SNVs)
	OpIns      OpCode = 'I' // insertion to reference (contributes INS)
	OpDel      OpCode = 'D' // deletion from reference (contributes DEL)
	OpSoftClip OpCode = 'S'
	OpHardClip OpCode = 'H'
	OpSkip     OpCode = 'N'
)

// AdvancesRef reports whether op advances the reference coordinate.
func (o OpCode) AdvancesRef() bool {
	switch o {
	case OpMatch, OpMismatch, OpDel, OpSkip:
		return true
	default:
		return false
	}
}

// AdvancesQry reports whether op advances the query coordinate.
func (o OpCode) AdvancesQry() bool {
	switch o {
	case OpMatch, OpMismatch, OpIns, OpSoftClip:
		return true
	default:
		return false
	}
}

// Op is a single (code, length) pair from a record's operation stream.
type Op struct {
	Code OpCode
	Len  int
}

// Record is one row of the alignment table. Ops is the
// pre-parsed CIGAR-like operation stream; AlignIndex is assigned on ingest
// by this package (ResolveIndices), not trusted from the caller.
type Record struct {
	AlignIndex uint64
	Chrom      string
	Pos        uint64
	End        uint64
	QryID      string
	QryPos     uint64
	QryEnd     uint64
	IsRev      bool
	Score      float64
	Filter     string
	Ops        []Op
}

// ResolveIndices assigns AlignIndex = i for records[i], overwriting whatever
// value was previously present. This mirrors the source's
// `.drop('_index', strict=False).with_row_index('_index')`: the index is
// always re-derived from row position, never trusted from an upstream
// caller.
func ResolveIndices(records []Record) {
	for i := range records {
		records[i].AlignIndex = uint64(i)
	}
}

// Validate checks the record invariant: the sum of ref-advancing op
// lengths must equal End-Pos, and the sum of query-advancing op lengths must
// equal QryEnd-QryPos. A violation is a malformed-alignment error, fatal
// and naming the offending AlignIndex.
func (r *Record) Validate() error {
	var refSum, qrySum uint64
	for _, op := range r.Ops {
		if op.Code.AdvancesRef() {
			refSum += uint64(op.Len)
		}
		if op.Code.AdvancesQry() {
			qrySum += uint64(op.Len)
		}
	}
	if refSum != r.End-r.Pos {
		return errors.Errorf("align_index=%d: malformed alignment: ref-advancing ops sum to %d, want end-pos=%d",
			r.AlignIndex, refSum, r.End-r.Pos)
	}
	if qrySum != r.QryEnd-r.QryPos {
		return errors.Errorf("align_index=%d: malformed alignment: qry-advancing ops sum to %d, want qry_end-qry_pos=%d",
			r.AlignIndex, qrySum, r.QryEnd-r.QryPos)
	}
	return nil
}

// OpRow is one expanded operation, annotated with the running coordinates
// that existed immediately before (Pos/QryPos) and after (End/QryEnd) the
// op. Coordinates are in original-contig (not aligned-strand) space: when
// the record is reverse-complemented, query coordinates have already been
// remapped back to the original (un-aligned-strand) contig.
type OpRow struct {
	Op         Op
	Pos        uint64
	End        uint64
	QryPos     uint64
	QryEnd     uint64
	AlignIndex uint64
	Score      float64
	Filter     string
	QryID      string
	IsRev      bool
}

// Expand turns a record's operation stream into per-op rows with running
// ref/query coordinates. qryLen is the length of the query
// contig, required to remap aligned-strand coordinates back to
// original-contig space when r.IsRev.
func Expand(r *Record, qryLen uint64) []OpRow {
	rows := make([]OpRow, len(r.Ops))

	refCum := r.Pos
	qryCum := uint64(0)
	for i, op := range r.Ops {
		row := OpRow{
			Op:         op,
			Pos:        refCum,
			QryPos:     qryCum,
			AlignIndex: r.AlignIndex,
			Score:      r.Score,
			Filter:     r.Filter,
			QryID:      r.QryID,
			IsRev:      r.IsRev,
		}
		if op.Code.AdvancesRef() {
			refCum += uint64(op.Len)
		}
		if op.Code.AdvancesQry() {
			qryCum += uint64(op.Len)
		}
		row.End = refCum
		row.QryEnd = qryCum
		rows[i] = row
	}

	if r.IsRev {
		for i := range rows {
			qp, qe := rows[i].QryPos, rows[i].QryEnd
			rows[i].QryPos = qryLen - qe
			rows[i].QryEnd = qryLen - qp
		}
	}
	return rows
}
