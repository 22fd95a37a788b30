package intracore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/variant"
)

type fakeFetcher struct {
	seqs map[string][]byte
}

func (f fakeFetcher) Fetch(name string) ([]byte, error) {
	seq, ok := f.seqs[name]
	if !ok {
		return nil, errors.Errorf("no such sequence %q", name)
	}
	return seq, nil
}

func (f fakeFetcher) Len(name string) (uint64, error) {
	seq, ok := f.seqs[name]
	if !ok {
		return 0, errors.Errorf("no such sequence %q", name)
	}
	return uint64(len(seq)), nil
}

// TestCallProducesSortedSNVAndInsDelAcrossChromosomes exercises the full
// pipeline end to end: two chromosomes, a forward SNV-bearing record on
// one and a reverse-complemented insertion on the other, and checks that
// Call assembles both into deterministically sorted output.
func TestCallProducesSortedSNVAndInsDelAcrossChromosomes(t *testing.T) {
	refFetcher := fakeFetcher{seqs: map[string][]byte{
		"chr1": []byte("AAAAAAAAAAGAAAAAAAAA"), // mismatch target at pos 10
		"chr2": []byte("CCCCCCCCCCCCCCCCCCCC"),
	}}
	qryFetcher := fakeFetcher{seqs: map[string][]byte{
		"q1": []byte("AAAAAAAAAATAAAAAAAAA"),
		"q2": []byte("GGGGCCCCCCCCCCCCCCCCGGGG"), // 4bp insertion flanks, revcomp'd below
	}}

	records := []align.Record{
		{
			Chrom: "chr1", Pos: 0, End: 20, QryID: "q1", QryPos: 0, QryEnd: 20,
			Filter: "PASS",
			Ops: []align.Op{
				{Code: align.OpMatch, Len: 10},
				{Code: align.OpMismatch, Len: 1},
				{Code: align.OpMatch, Len: 9},
			},
		},
		{
			Chrom: "chr2", Pos: 0, End: 16, QryID: "q2", QryPos: 0, QryEnd: 24,
			Filter: "PASS", IsRev: true,
			Ops: []align.Op{
				{Code: align.OpMatch, Len: 8},
				{Code: align.OpIns, Len: 4},
				{Code: align.OpMatch, Len: 8},
				{Code: align.OpSoftClip, Len: 4},
			},
		},
	}

	params := DefaultParams
	tables, err := Call(records, refFetcher, qryFetcher, params)
	require.NoError(t, err)

	require.Len(t, tables.SNV, 1)
	snvRow := tables.SNV[0]
	assert.Equal(t, "chr1", snvRow.Chrom)
	assert.Equal(t, uint64(10), snvRow.Pos)
	assert.Equal(t, "G", snvRow.Ref)
	assert.Equal(t, "T", snvRow.Alt)
	assert.Equal(t, "chr1-11-SNV-T", snvRow.ID)
	assert.Equal(t, variant.CallSource, snvRow.CallSource)

	require.Len(t, tables.InsDel, 1)
	insRow := tables.InsDel[0]
	assert.Equal(t, "chr2", insRow.Chrom)
	assert.Equal(t, variant.TypeINS, insRow.VarType)
	assert.Equal(t, uint64(4), insRow.VarLen)
	assert.True(t, insRow.QryRev)

	assert.Zero(t, tables.Drops.LiftFailures)
}

func TestCallAssignsAlignIndexRegardlessOfInputOrdering(t *testing.T) {
	refFetcher := fakeFetcher{seqs: map[string][]byte{"chr1": []byte("AAAAAAAAAA")}}
	qryFetcher := fakeFetcher{seqs: map[string][]byte{"q1": []byte("AAAAAAAAAA"), "q2": []byte("AAAAAAAAAA")}}

	records := []align.Record{
		{Chrom: "chr1", Pos: 0, End: 10, QryID: "q2", QryPos: 0, QryEnd: 10, Ops: []align.Op{{Code: align.OpMatch, Len: 10}}},
		{Chrom: "chr1", Pos: 0, End: 10, QryID: "q1", QryPos: 0, QryEnd: 10, Ops: []align.Op{{Code: align.OpMatch, Len: 10}}},
	}

	tables, err := Call(records, refFetcher, qryFetcher, DefaultParams)
	require.NoError(t, err)
	assert.Empty(t, tables.SNV)
	assert.Empty(t, tables.InsDel)
	assert.Empty(t, tables.INV)
	// AlignIndex is assigned by position, not by caller-supplied value.
	assert.Equal(t, uint64(0), records[0].AlignIndex)
	assert.Equal(t, uint64(1), records[1].AlignIndex)
}

func TestCallPropagatesScoreModelError(t *testing.T) {
	refFetcher := fakeFetcher{seqs: map[string][]byte{}}
	qryFetcher := fakeFetcher{seqs: map[string][]byte{}}

	params := DefaultParams
	params.AlignScoreModel = "not-a-real-model"

	_, err := Call(nil, refFetcher, qryFetcher, params)
	require.Error(t, err)
}
