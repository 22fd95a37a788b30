package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewINV(t *testing.T) {
	v := NewINV("chr1", 100, 150, "qry1", 90, 140, true, 0.8, []uint64{3}, "PASS")
	assert.Equal(t, TypeINV, v.VarType)
	assert.Equal(t, uint64(50), v.VarLen)
	assert.Equal(t, "chr1-101-INV-50", v.ID)
	assert.Equal(t, "PASS", v.Filter)
	assert.Equal(t, 0.8, v.VarScore)
	assert.Equal(t, []uint64{3}, v.AlignSource)
	assert.Equal(t, CallSource, v.CallSource)
	assert.True(t, v.QryRev)
}

func TestAlignScoreIsSortOnlyAndNotPublicState(t *testing.T) {
	var v Variant
	v.SetAlignScore(42)
	assert.Equal(t, 42.0, v.AlignScore())
}
