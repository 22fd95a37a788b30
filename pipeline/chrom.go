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

// Package pipeline implements the chromosome-partitioned streaming pipeline
// and the final sort/merge: per-chromosome iteration over alignment
// records, optional on-disk spilling, and a deterministic concatenation of
// chromosome partitions.
package pipeline

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/pkg/errors"

	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/seqcache"
	"github.com/pav3/intracore/variant"
)

// SinkFactory builds the PartitionSink a chromosome's output should be
// written to. Pass NewMemorySinkFactory or NewSpillSinkFactory(tempDir,
// prefix).
type SinkFactory func(chrom string) (PartitionSink, error)

// NewMemorySinkFactory returns a SinkFactory that retains every chromosome
// in memory (used when no scratch directory is configured).
func NewMemorySinkFactory() SinkFactory {
	return func(chrom string) (PartitionSink, error) { return &memorySink{}, nil }
}

// NewSpillSinkFactory returns a SinkFactory that spills each chromosome to
// `<tempDir>/<prefix>_<chrom>.parquet`.
func NewSpillSinkFactory(tempDir, prefix string) SinkFactory {
	return func(chrom string) (PartitionSink, error) { return NewSpillSink(tempDir, prefix, chrom) }
}

// Options configures Run.
type Options struct {
	Parallelism int // 0 means one task per chromosome
	Debug       bool
	ScoreModel  align.ScoreModel
	SNVSinks    SinkFactory
	InsDelSinks SinkFactory
}

// chromResult is the per-chromosome outcome of one chromosome's pipeline run.
type chromResult struct {
	chrom      string
	snvSink    PartitionSink
	insdelSink PartitionSink
}

// Run executes the chromosome pipeline: for every distinct chrom in
// records (processed in ascending chromosome order for the final
// concatenation), expand each record's ops, emit SNV/INS/DEL
// rows, sort them, and hand the sorted rows to the
// configured sinks. Chromosomes are processed in parallel;
// results are concatenated in chromosome order regardless of
// completion order.
//
// refCache/qryCache are the two sequence caches; align.ResolveIndices
// must already have been called on records.
func Run(records []align.Record, refCache, qryCache *seqcache.Cache, opts Options) (snvOut, insdelOut []variant.Variant, err error) {
	byChrom := make(map[string][]align.Record)
	var chromList []string
	for _, r := range records {
		if _, ok := byChrom[r.Chrom]; !ok {
			chromList = append(chromList, r.Chrom)
		}
		byChrom[r.Chrom] = append(byChrom[r.Chrom], r)
	}
	sort.Strings(chromList)

	results := make([]chromResult, len(chromList))

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = len(chromList)
		if parallelism == 0 {
			parallelism = 1
		}
	}

	runErr := traverse.Limit(parallelism).Each(len(chromList), func(i int) error {
		chrom := chromList[i]
		if opts.Debug {
			log.Printf("Intra-alignment discovery: %s", chrom)
		}

		chromRecords := byChrom[chrom]
		sort.SliceStable(chromRecords, func(a, b int) bool { return chromRecords[a].QryID < chromRecords[b].QryID })

		seqRef, err := refCache.Get(chrom)
		if err != nil {
			return err
		}

		var snvRows, insdelRows []variant.Variant
		for _, rec := range chromRecords {
			if opts.Debug {
				log.Printf("* %s: index=%d, qry_id=%s, is_rev=%v, pos=%d", chrom, rec.AlignIndex, rec.QryID, rec.IsRev, rec.Pos)
			}
			if err := rec.Validate(); err != nil {
				return err
			}
			seqQry, err := qryCache.Get(rec.QryID)
			if err != nil {
				return err
			}
			qryLen, err := qryCache.Len(rec.QryID)
			if err != nil {
				return err
			}

			rows := align.Expand(&rec, qryLen)
			snvRows = append(snvRows, variant.EmitSNVs(chrom, rows, seqRef, seqQry, opts.ScoreModel)...)
			insdelRows = append(insdelRows, variant.EmitInsDel(chrom, rows, seqRef, seqQry, opts.ScoreModel)...)
		}

		variant.SortSNV(snvRows)
		variant.SortInsDel(insdelRows)

		snvSink, err := opts.SNVSinks(chrom)
		if err != nil {
			return err
		}
		if err := snvSink.Write(snvRows); err != nil {
			return err
		}

		insdelSink, err := opts.InsDelSinks(chrom)
		if err != nil {
			return err
		}
		if err := insdelSink.Write(insdelRows); err != nil {
			return err
		}

		results[i] = chromResult{chrom: chrom, snvSink: snvSink, insdelSink: insdelSink}
		return nil
	})
	if runErr != nil {
		return nil, nil, errors.Wrap(runErr, "pipeline: chromosome pipeline failed")
	}

	// Concatenate chromosome partitions in ascending-chromosome order.
	// Within each partition the sort imposed above is total, so no
	// re-sorting happens across the concatenation.
	for _, res := range results {
		rows, err := res.snvSink.Read()
		if err != nil {
			return nil, nil, err
		}
		snvOut = append(snvOut, rows...)
		if err := res.snvSink.Close(); err != nil {
			return nil, nil, err
		}

		rows, err = res.insdelSink.Read()
		if err != nil {
			return nil, nil, err
		}
		insdelOut = append(insdelOut, rows...)
		if err := res.insdelSink.Close(); err != nil {
			return nil, nil, err
		}
	}
	return snvOut, insdelOut, nil
}
