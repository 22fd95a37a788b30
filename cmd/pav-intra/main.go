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
package main

/*
pav-intra discovers SNV, INS/DEL, and intra-alignment INV variants from a
phased-assembly alignment table, given the reference and query assembly
FASTA files the alignment was computed against.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/pav3/intracore"
	"github.com/pav3/intracore/encoding/fasta"
	"github.com/pav3/intracore/seqcache"
)

var (
	alignScoreModel = flag.String("align-score-model", intracore.DefaultParams.AlignScoreModel, "Mismatch/gap scoring model: 'affine' or 'log'")
	invKSize        = flag.Int("inv-k-size", intracore.DefaultParams.InvKSize, "K-mer size used by the inversion confirmer")
	invKDEBandwidth = flag.Float64("inv-kde-bandwidth", intracore.DefaultParams.InvKDEBandwidth, "Truncated-normal KDE bandwidth, in bases")
	invKDETruncZ    = flag.Float64("inv-kde-truncz", intracore.DefaultParams.InvKDETruncZ, "Truncated-normal KDE truncation threshold, in standard deviations")
	invKDEFunc      = flag.String("inv-kde-func", intracore.DefaultParams.InvKDEFunc, "KDE kernel selector: 'auto' or 'gaussian'")
	parallelism     = flag.Int("parallelism", 0, "Maximum number of chromosomes processed concurrently; 0 = one task per chromosome")
	tempDir         = flag.String("temp-dir", "", "Directory to spill chromosome partitions to; empty keeps everything in memory")
	outPrefix       = flag.String("out", "pav-intra", "Output path prefix")
	debug           = flag.Bool("debug", false, "Log one line per alignment record and per chromosome")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] align-table.tsv ref.fasta qry.fasta\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	if len(allArgs) != 3 {
		log.Fatalf("Expected align-table.tsv, ref.fasta, and qry.fasta; got: '%s'", strings.Join(allArgs, " "))
	}
	alignPath, refPath, qryPath := allArgs[0], allArgs[1], allArgs[2]

	alignFile, err := os.Open(alignPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer alignFile.Close()
	records, err := readAlignTable(alignFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	refFasta, err := openFasta(refPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	qryFasta, err := openFasta(qryPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	params := intracore.DefaultParams
	params.AlignScoreModel = *alignScoreModel
	params.InvKSize = *invKSize
	params.InvKDEBandwidth = *invKDEBandwidth
	params.InvKDETruncZ = *invKDETruncZ
	params.InvKDEFunc = *invKDEFunc
	params.Parallelism = *parallelism
	params.TempDir = *tempDir
	params.Debug = *debug

	tables, err := intracore.Call(records, seqcache.FastaFetcher{FA: refFasta}, seqcache.FastaFetcher{FA: qryFasta}, params)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := writeTable(*outPrefix+".snv.tsv", tables.SNV); err != nil {
		log.Fatalf("%v", err)
	}
	if err := writeTable(*outPrefix+".insdel.tsv", tables.InsDel); err != nil {
		log.Fatalf("%v", err)
	}
	if err := writeTable(*outPrefix+".inv.tsv", tables.INV); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("wrote %d SNV, %d INS/DEL, %d INV rows (lift failures: %d, degenerate KDE: %d)",
		len(tables.SNV), len(tables.InsDel), len(tables.INV), tables.Drops.LiftFailures, tables.Drops.DegenerateKDE)
}

func openFasta(path string) (fasta.Fasta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fasta.New(f)
}
