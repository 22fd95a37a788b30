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

package intracore

import (
	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/inv"
	"github.com/pav3/intracore/pipeline"
	"github.com/pav3/intracore/seqcache"
	"github.com/pav3/intracore/variant"
)

// Tables is the result of Call: the three output tables, plus the drop
// counters accumulated while confirming candidate inversions.
type Tables struct {
	SNV    []variant.Variant
	InsDel []variant.Variant
	INV    []variant.Variant
	Drops  DropCounts
}

// Call runs the full intra-alignment discovery pipeline: it expands every
// alignment record's op stream, emits SNV and INS/DEL rows partitioned and
// sorted per chromosome, clusters those rows into inversion candidates, and
// confirms each candidate with a k-mer density test before returning the
// three output tables. records need not have AlignIndex already assigned;
// Call calls align.ResolveIndices itself.
//
// refFetcher/qryFetcher back the two sequence caches (reference: capacity 1;
// query assembly: capacity 10, matching the source's access pattern of one
// reference contig per chromosome partition against many query contigs).
func Call(records []align.Record, refFetcher, qryFetcher seqcache.Fetcher, params Params) (Tables, error) {
	align.ResolveIndices(records)

	scoreModel, err := align.GetScoreModel(params.AlignScoreModel)
	if err != nil {
		return Tables{}, err
	}

	refCache := seqcache.New(refFetcher, 1)
	qryCache := seqcache.New(qryFetcher, 10)

	var sinks pipeline.Options
	sinks.Parallelism = params.Parallelism
	sinks.Debug = params.Debug
	sinks.ScoreModel = scoreModel
	if params.TempDir != "" {
		sinks.SNVSinks = pipeline.NewSpillSinkFactory(params.TempDir, "snv")
		sinks.InsDelSinks = pipeline.NewSpillSinkFactory(params.TempDir, "insdel")
	} else {
		sinks.SNVSinks = pipeline.NewMemorySinkFactory()
		sinks.InsDelSinks = pipeline.NewMemorySinkFactory()
	}

	snvOut, insdelOut, err := pipeline.Run(records, refCache, qryCache, sinks)
	if err != nil {
		return Tables{}, err
	}

	refLengths, qryLengths, err := contigLengths(records, refCache, qryCache)
	if err != nil {
		return Tables{}, err
	}

	candidates := inv.FlagInv(snvOut, insdelOut, refLengths, qryLengths)
	kdeParams := inv.KDEParams{
		KSize:     params.InvKSize,
		Bandwidth: params.InvKDEBandwidth,
		TruncZ:    params.InvKDETruncZ,
		Func:      params.InvKDEFunc,
	}
	invOut, counters, err := inv.Confirm(candidates, records, refCache, qryCache, inv.NewLifter(), inv.NewConfirmer(), kdeParams)
	if err != nil {
		return Tables{}, err
	}

	var drops DropCounts
	drops.LiftFailures = counters.LiftFailures
	drops.DegenerateKDE = counters.DegenerateKDE

	return Tables{SNV: snvOut, InsDel: insdelOut, INV: invOut, Drops: drops}, nil
}

// contigLengths builds the .fai-equivalent length tables the inversion
// flagger uses to bound candidate regions against contig ends: every
// distinct chromosome and query contig named by records, resolved through
// the same caches the rest of the pipeline uses.
func contigLengths(records []align.Record, refCache, qryCache *seqcache.Cache) (refLengths, qryLengths map[string]uint64, err error) {
	refLengths = make(map[string]uint64)
	qryLengths = make(map[string]uint64)
	for _, rec := range records {
		if _, ok := refLengths[rec.Chrom]; !ok {
			n, err := refCache.Len(rec.Chrom)
			if err != nil {
				return nil, nil, err
			}
			refLengths[rec.Chrom] = n
		}
		if _, ok := qryLengths[rec.QryID]; !ok {
			n, err := qryCache.Len(rec.QryID)
			if err != nil {
				return nil, nil, err
			}
			qryLengths[rec.QryID] = n
		}
	}
	return refLengths, qryLengths, nil
}
