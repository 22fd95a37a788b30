package inv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pav3/intracore/align"
)

func TestOpLifterMatchOp(t *testing.T) {
	r := &align.Record{Pos: 100, Ops: []align.Op{{Code: align.OpMatch, Len: 10}}}
	rows := align.Expand(r, 10)
	lifter := NewLifter()

	qryPos, ok := lifter.Lift(rows, 105)
	require.True(t, ok)
	assert.Equal(t, uint64(5), qryPos)
}

func TestOpLifterDeletionAnchorsToOpStart(t *testing.T) {
	r := &align.Record{Pos: 100, Ops: []align.Op{{Code: align.OpMatch, Len: 5}, {Code: align.OpDel, Len: 5}, {Code: align.OpMatch, Len: 5}}}
	rows := align.Expand(r, 10)
	lifter := NewLifter()

	// refPos 107 falls inside the deletion [105,110); there's no
	// corresponding query base, so it anchors to the op's query start.
	qryPos, ok := lifter.Lift(rows, 107)
	require.True(t, ok)
	assert.Equal(t, uint64(5), qryPos)
}

func TestOpLifterOutOfRangeFails(t *testing.T) {
	r := &align.Record{Pos: 100, Ops: []align.Op{{Code: align.OpMatch, Len: 10}}}
	rows := align.Expand(r, 10)
	lifter := NewLifter()

	_, ok := lifter.Lift(rows, 200)
	assert.False(t, ok)
}
