package inv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav3/intracore/biosimd"
)

// asymmetricSeq is 16 A's followed by 16 C's: its reverse complement (16
// G's followed by 16 T's) shares no bases with the forward sequence, unlike
// a repeating motif such as ACGT whose reverse complement can equal itself.
const asymmetricSeq = "AAAAAAAAAAAAAAAACCCCCCCCCCCCCCCC"

func TestKDEConfirmerConfirmsReverseComplementedWindow(t *testing.T) {
	ref := []byte(asymmetricSeq)
	qry := []byte(biosimd.ReverseComp8(string(ref)))
	require.NotEqual(t, string(ref), string(qry))

	confirmer := NewConfirmer()
	params := KDEParams{KSize: 11, Bandwidth: 10, TruncZ: 3}
	verdict, ok := confirmer.TryIntraRegion(ref, qry, params)
	require.True(t, ok)
	assert.True(t, verdict.Confirmed)
	assert.GreaterOrEqual(t, verdict.Score, confirmThreshold)
}

func TestKDEConfirmerDoesNotConfirmIdenticalWindow(t *testing.T) {
	ref := []byte(asymmetricSeq)
	qry := make([]byte, len(ref))
	copy(qry, ref)

	confirmer := NewConfirmer()
	params := KDEParams{KSize: 11, Bandwidth: 10, TruncZ: 3}
	verdict, ok := confirmer.TryIntraRegion(ref, qry, params)
	require.True(t, ok)
	assert.False(t, verdict.Confirmed)
}

func TestKDEConfirmerReportsDegenerateWindowAsNotOK(t *testing.T) {
	confirmer := NewConfirmer()
	params := KDEParams{KSize: 31, Bandwidth: 10, TruncZ: 3}
	_, ok := confirmer.TryIntraRegion([]byte("ACGT"), []byte("ACGT"), params)
	assert.False(t, ok, "a window shorter than k should yield no k-mer windows")
}

func TestBuildKmerIndexIndexesBothStrands(t *testing.T) {
	fwd, rc := buildKmerIndex([]byte("ACGTACGTACG"), 4)
	assert.NotEmpty(t, fwd)
	assert.NotEmpty(t, rc)
}
