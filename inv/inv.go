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

import (
	"sync/atomic"

	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/seqcache"
	"github.com/pav3/intracore/variant"
)

// Counters tracks recoverable drops accumulated while confirming candidate
// regions. Both conditions drop a single candidate rather than aborting the
// call, and are reportable but never propagated as errors.
type Counters struct {
	LiftFailures  int64
	DegenerateKDE int64
}

// IncLiftFailure records that a candidate region could not be lifted into
// query coordinates through its source alignment.
func (c *Counters) IncLiftFailure() { atomic.AddInt64(&c.LiftFailures, 1) }

// IncDegenerateKDE records that a candidate region's reference or query
// window was too short to yield a single k-mer window.
func (c *Counters) IncDegenerateKDE() { atomic.AddInt64(&c.DegenerateKDE, 1) }

// Add merges other into c.
func (c *Counters) Add(other Counters) {
	atomic.AddInt64(&c.LiftFailures, other.LiftFailures)
	atomic.AddInt64(&c.DegenerateKDE, other.DegenerateKDE)
}

// Confirm runs the inversion confirmer (the decision stage after
// ClusterTable/FlagInv) over candidates: for each, it lifts the reference
// span into query coordinates through the alignment record the candidate
// was nominated from, scores the window with confirmer, and, on a positive
// verdict, emits a confirmed INV row. filter is joined back from the first
// (and, per this core, only) alignment source a candidate names.
func Confirm(
	candidates []CandidateRegion,
	records []align.Record,
	refCache, qryCache *seqcache.Cache,
	lifter AlignLifter,
	confirmer Confirmer,
	params KDEParams,
) ([]variant.Variant, Counters, error) {
	if err := ValidateKDEFunc(params.Func); err != nil {
		return nil, Counters{}, err
	}

	byIndex := make(map[uint64]*align.Record, len(records))
	for i := range records {
		byIndex[records[i].AlignIndex] = &records[i]
	}

	var out []variant.Variant
	var counters Counters

	for _, cand := range candidates {
		rec, ok := byIndex[cand.AlignIndex]
		if !ok {
			counters.IncLiftFailure()
			continue
		}

		seqRef, err := refCache.Get(cand.Chrom)
		if err != nil {
			return nil, counters, err
		}
		seqQry, err := qryCache.Get(rec.QryID)
		if err != nil {
			return nil, counters, err
		}
		qryLen, err := qryCache.Len(rec.QryID)
		if err != nil {
			return nil, counters, err
		}

		rows := align.Expand(rec, qryLen)

		a, ok1 := lifter.Lift(rows, cand.Pos)
		b, ok2 := lifter.Lift(rows, cand.End-1)
		if !ok1 || !ok2 {
			counters.IncLiftFailure()
			continue
		}
		qryPos, qryEnd := a, b
		if qryPos > qryEnd {
			qryPos, qryEnd = qryEnd, qryPos
		}
		qryEnd++
		if qryEnd > uint64(len(seqQry)) {
			qryEnd = uint64(len(seqQry))
		}
		if qryPos >= qryEnd {
			counters.IncLiftFailure()
			continue
		}

		if cand.End > uint64(len(seqRef)) || cand.Pos >= cand.End {
			counters.IncLiftFailure()
			continue
		}

		verdict, ok := confirmer.TryIntraRegion(seqRef[cand.Pos:cand.End], seqQry[qryPos:qryEnd], params)
		if !ok {
			counters.IncDegenerateKDE()
			continue
		}
		if !verdict.Confirmed {
			continue
		}

		out = append(out, variant.NewINV(
			cand.Chrom, cand.Pos, cand.End,
			rec.QryID, qryPos, qryEnd, rec.IsRev,
			verdict.Score, []uint64{cand.AlignIndex}, rec.Filter,
		))
	}

	variant.SortINV(out)
	return out, counters, nil
}
