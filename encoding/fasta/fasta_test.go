package fasta_test

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav3/intracore/encoding/fasta"
)

var fastaData string
var fastaIndex string

func init() {
	fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + "ACGT\n"
	fastaIndex = "seq1\t12\t6\t5\t6\n" + "seq2\t8\t44\t4\t5\n"
}

func TestGet(t *testing.T) {
	tests := []struct {
		seq   string
		start uint64
		end   uint64
		want  string
		err   error
	}{
		{"seq1", 1, 2, "C", nil},
		{"seq1", 1, 6, "CGTAC", nil},
		{"seq1", 0, 12, "ACGTACGTACGT", nil},
		{"seq1", 10, 12, "GT", nil},
		{"seq2", 0, 8, "ACGTACGT", nil},
		{"seq2", 2, 5, "GTA", nil},
		{"seq0", 0, 1, "", fmt.Errorf("sequence not found in index: seq0")},
		{"seq1", 10, 13, "", fmt.Errorf("end is past end of sequence seq1: 12")},
		{"seq1", 4, 3, "", fmt.Errorf("start must be less than end")},
	}
	unindexed, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := unindexed.Get(tt.seq, tt.start, tt.end)
		assert.Equal(t, tt.err == nil, err == nil, "unexpected error state for %v: %v", tt, err)
		assert.Equal(t, tt.want, got)

		got, err = indexed.Get(tt.seq, tt.start, tt.end)
		assert.Equal(t, tt.err == nil, err == nil, "unexpected error state for %v: %v", tt, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		seq  string
		want uint64
		err  error
	}{
		{"seq1", 12, nil},
		{"seq2", 8, nil},
		{"seq0", 0, fmt.Errorf("sequence not found in index: seq0")},
	}
	unindexed, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)
	for _, tt := range tests {
		got, err := unindexed.Len(tt.seq)
		assert.Equal(t, tt.err == nil, err == nil, "unexpected error state for %v: %v", tt, err)
		assert.Equal(t, tt.want, got)

		got, err = indexed.Len(tt.seq)
		assert.Equal(t, tt.err == nil, err == nil, "unexpected error state for %v: %v", tt, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSeqNames(t *testing.T) {
	unindexed, err := fasta.New(strings.NewReader(fastaData))
	require.NoError(t, err)
	indexed, err := fasta.NewIndexed(strings.NewReader(fastaData), strings.NewReader(fastaIndex))
	require.NoError(t, err)

	want := sort.StringSlice([]string{"seq1", "seq2"})
	want.Sort()

	got := sort.StringSlice(unindexed.SeqNames())
	got.Sort()
	assert.True(t, reflect.DeepEqual([]string(got), []string(want)))

	got = sort.StringSlice(indexed.SeqNames())
	got.Sort()
	assert.True(t, reflect.DeepEqual([]string(got), []string(want)))
}

func TestFastaFaiToReferenceLengths(t *testing.T) {
	var testFai bytes.Buffer
	testFai.WriteString("chr1\t250000000\t6\t60\t61\n")
	testFai.WriteString("chr2\t199000000\t6\t60\t61\n")

	result, err := fasta.FaiToReferenceLengths(bytes.NewReader(testFai.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint64(250000000), result["chr1"])
	assert.Equal(t, uint64(199000000), result["chr2"])
}

func TestGenerateIndex(t *testing.T) {
	generateIndex := func(fa string) string {
		idx := bytes.Buffer{}
		require.NoError(t, fasta.GenerateIndex(&idx, strings.NewReader(fa)))
		return idx.String()
	}

	fa := `>E0
GGTGAAATC
CCTGAAATC
AAAATTGCT
>E1
GTCCCTCCCCAGACATGGCCCTGGGAGGC
>E2
CCGCGCCCGCGCCCCCGCCGCC
>E3
GTCAAGGTTGCACAG
>E4
ATGAATCATGTGGTAAAA
`
	fai := generateIndex(fa)
	assert.Equal(t, `E0	27	4	9	10
E1	29	38	29	30
E2	22	72	22	23
E3	15	99	15	16
E4	18	119	18	19
`, fai)

	// Read using the generated index.
	indexed, err := fasta.NewIndexed(strings.NewReader(fa), strings.NewReader(fai))
	require.NoError(t, err)
	l, err := indexed.Len("E3")
	require.NoError(t, err)
	assert.Equal(t, uint64(15), l)
	seq, err := indexed.Get("E3", 0, l)
	require.NoError(t, err)
	assert.Equal(t, "GTCAAGGTTGCACAG", seq)

	// DOS newline encoding.
	assert.Equal(t, `E0	4	5	4	6
E1	5	16	5	7
`, generateIndex(">E0\r\nGGGG\r\n>E1\r\nAAAAA\r\n"))

	// No newline at the end.
	assert.Equal(t, `E0	4	4	4	5
E1	10	13	5	6
`, generateIndex(">E0\nGGGG\n>E1\nCCCCC\nAAAAA"))
	// Note: samtools faidx emits "5 13 5 6" for E1, but "5 13 5 5" is correct
	// per the fai spec.
	assert.Equal(t, `E0	4	4	4	5
E1	5	13	5	5
`, generateIndex(">E0\nGGGG\n>E1\nAAAAA"))

	idx := bytes.Buffer{}
	err = fasta.GenerateIndex(&idx, strings.NewReader(""))
	assert.Error(t, err)
}

// BenchmarkRead reads every sequence of the FASTA file at pathFlag with the
// unindexed reader; it is skipped while pathFlag is empty.
var pathFlag = ""

func BenchmarkRead(b *testing.B) {
	if pathFlag == "" {
		b.Skip("pathFlag not set")
	}
	for i := 0; i < b.N; i++ {
		f, err := os.Open(pathFlag)
		require.NoError(b, err)
		fin, err := fasta.New(f)
		require.NoError(b, err)
		for _, seq := range fin.SeqNames() {
			n, err := fin.Len(seq)
			require.NoError(b, err)
			_, err = fin.Get(seq, 0, n)
			require.NoError(b, err)
		}
		require.NoError(b, f.Close())
	}
}
