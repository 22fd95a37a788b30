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

import "github.com/pav3/intracore/align"

// AlignLifter lifts a reference-coordinate point into query-sequence
// coordinates via an alignment record's expanded op stream. It is treated as
// a named collaborator with a defined contract: the confirmer orchestrates
// it but does not assume any particular liftover strategy beyond the
// contract below.
type AlignLifter interface {
	// Lift returns the query coordinate that aligns to refPos under rows
	// (the record's align.Expand output, already remapped to original-contig
	// space), and whether refPos fell inside an aligned, non-clipped span.
	Lift(rows []align.OpRow, refPos uint64) (qryPos uint64, ok bool)
}

// opLifter is the default AlignLifter: a linear scan of the record's
// expanded op rows.
type opLifter struct{}

// NewLifter returns the default AlignLifter, grounded on the same op-stream
// walk align.Expand itself performs.
func NewLifter() AlignLifter { return opLifter{} }

func (opLifter) Lift(rows []align.OpRow, refPos uint64) (uint64, bool) {
	for _, row := range rows {
		if !row.Op.Code.AdvancesRef() {
			continue
		}
		if refPos < row.Pos || refPos >= row.End {
			continue
		}
		if !row.Op.Code.AdvancesQry() {
			// A ref-only op (deletion/skip) contains refPos: anchor to the
			// query position where the op begins, there being no base that
			// corresponds exactly.
			return row.QryPos, true
		}
		offset := refPos - row.Pos
		refSpan := row.End - row.Pos
		qrySpan := row.QryEnd - row.QryPos
		if qrySpan != refSpan {
			offset = offset * qrySpan / refSpan
		}
		if row.IsRev {
			// Original-contig query coordinates run opposite to the
			// reference on a reverse-complemented record.
			return row.QryEnd - 1 - offset, true
		}
		return row.QryPos + offset, true
	}
	return 0, false
}
