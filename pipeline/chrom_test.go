package pipeline

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/seqcache"
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

func scoreModel(t *testing.T) align.ScoreModel {
	m, err := align.GetScoreModel(align.ScoreModelAffine)
	require.NoError(t, err)
	return m
}

func TestRunPartitionsByChromosomeAndSortsOutput(t *testing.T) {
	refCache := seqcache.New(fakeFetcher{seqs: map[string][]byte{
		"chr1": []byte("ACGTACGTAC"),
		"chr2": []byte("TTTTGGGGCC"),
	}}, 1)
	qryCache := seqcache.New(fakeFetcher{seqs: map[string][]byte{
		"q1": []byte("ACGAACGTAC"),
		"q2": []byte("TTTTAGGGCC"),
	}}, 10)

	records := []align.Record{
		{
			Chrom: "chr2", Pos: 0, End: 10, QryID: "q2", QryPos: 0, QryEnd: 10,
			Ops: []align.Op{{Code: align.OpMatch, Len: 4}, {Code: align.OpMismatch, Len: 1}, {Code: align.OpMatch, Len: 5}},
		},
		{
			Chrom: "chr1", Pos: 0, End: 10, QryID: "q1", QryPos: 0, QryEnd: 10,
			Ops: []align.Op{{Code: align.OpMatch, Len: 3}, {Code: align.OpMismatch, Len: 1}, {Code: align.OpMatch, Len: 6}},
		},
	}
	align.ResolveIndices(records)

	opts := Options{
		ScoreModel:  scoreModel(t),
		SNVSinks:    NewMemorySinkFactory(),
		InsDelSinks: NewMemorySinkFactory(),
	}
	snvOut, insdelOut, err := Run(records, refCache, qryCache, opts)
	require.NoError(t, err)
	assert.Empty(t, insdelOut)
	require.Len(t, snvOut, 2)
	// chr1's SNV sorts before chr2's since chromosomes concatenate in
	// ascending lexical order.
	assert.Equal(t, "chr1", snvOut[0].Chrom)
	assert.Equal(t, "chr2", snvOut[1].Chrom)
}

func TestRunPropagatesValidationErrors(t *testing.T) {
	refCache := seqcache.New(fakeFetcher{seqs: map[string][]byte{"chr1": []byte("ACGTACGTAC")}}, 1)
	qryCache := seqcache.New(fakeFetcher{seqs: map[string][]byte{"q1": []byte("ACGTACGTAC")}}, 10)

	records := []align.Record{
		{Chrom: "chr1", Pos: 0, End: 10, QryID: "q1", Ops: []align.Op{{Code: align.OpMatch, Len: 5}}},
	}
	align.ResolveIndices(records)

	opts := Options{
		ScoreModel:  scoreModel(t),
		SNVSinks:    NewMemorySinkFactory(),
		InsDelSinks: NewMemorySinkFactory(),
	}
	_, _, err := Run(records, refCache, qryCache, opts)
	assert.Error(t, err)
}
