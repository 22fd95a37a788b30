package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScoreModelUnknown(t *testing.T) {
	_, err := GetScoreModel("bogus")
	assert.Error(t, err)
}

func TestAffineGapModel(t *testing.T) {
	m, err := GetScoreModel(ScoreModelAffine)
	require.NoError(t, err)

	assert.Equal(t, -1.0, m.Mismatch(1))
	assert.Equal(t, -3.0, m.Mismatch(3))
	assert.Equal(t, 0.0, m.Gap(0))
	assert.Equal(t, -4.5, m.Gap(1))
	assert.Equal(t, -5.0, m.Gap(2))
}

func TestLogGapModel(t *testing.T) {
	m, err := GetScoreModel(ScoreModelLog)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.Gap(0))
	// The log-length penalty still grows with gap length.
	assert.Less(t, m.Gap(1000), m.Gap(1))
}

func TestDefaultScoreModelIsAffine(t *testing.T) {
	def, err := GetScoreModel("")
	require.NoError(t, err)
	affine, err := GetScoreModel(ScoreModelAffine)
	require.NoError(t, err)
	assert.Equal(t, affine.Gap(3), def.Gap(3))
}
