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

// Package intracore implements the intra-alignment variant discovery core
// of a phased-assembly variant caller: given an alignment table and the
// underlying reference/query sequences, it produces SNV, INS/DEL, and
// intra-alignment INV variant tables.
package intracore

import "sync/atomic"

// Params carries the pipeline's tunable parameters.
type Params struct {
	// AlignScoreModel selects the mismatch/gap scoring model (align.GetScoreModel).
	AlignScoreModel string
	// InvKSize is the k-mer size used by the inversion confirmer (typically 31).
	InvKSize int
	// InvKDEBandwidth is the KDE smoothing bandwidth.
	InvKDEBandwidth float64
	// InvKDETruncZ is the truncation threshold, in standard deviations.
	InvKDETruncZ float64
	// InvKDEFunc selects the KDE kernel ("auto", "gaussian", ...).
	InvKDEFunc string
	// TempDir, if non-empty, enables spilling chromosome partitions to disk.
	TempDir string
	// Parallelism bounds the number of chromosomes processed concurrently; 0
	// lets every chromosome run at once.
	Parallelism int
	// Debug enables one log line per alignment record and per chromosome.
	Debug bool
}

// DefaultParams mirrors the source's PavParams() defaults.
var DefaultParams = Params{
	AlignScoreModel: "affine",
	InvKSize:        31,
	InvKDEBandwidth: 100,
	InvKDETruncZ:    3,
	InvKDEFunc:      "auto",
	Parallelism:     0,
}

// DropCounts tracks recoverable-error counters: conditions that drop a
// single candidate but don't abort the enclosing call. These are reportable
// but never propagated as errors.
type DropCounts struct {
	LiftFailures  int64
	DegenerateKDE int64
}

// IncLiftFailure records a lift failure on an INV candidate.
func (d *DropCounts) IncLiftFailure() { atomic.AddInt64(&d.LiftFailures, 1) }

// IncDegenerateKDE records a degenerate-KDE-input drop.
func (d *DropCounts) IncDegenerateKDE() { atomic.AddInt64(&d.DegenerateKDE, 1) }

// Add merges another DropCounts into d.
func (d *DropCounts) Add(other DropCounts) {
	atomic.AddInt64(&d.LiftFailures, other.LiftFailures)
	atomic.AddInt64(&d.DegenerateKDE, other.DegenerateKDE)
}
