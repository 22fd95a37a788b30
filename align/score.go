package align

import (
	"math"

	"github.com/pkg/errors"
)

// ScoreModel assigns a var_score to an SNV or a gap (INS/DEL) event, given
// the alignment's score parameters. Selecting a model is equivalent to the
// source's `align_score_model` parameter.
type ScoreModel interface {
	// Mismatch returns the var_score for a run of n adjacent mismatches.
	Mismatch(n int) float64
	// Gap returns the var_score for a gap (insertion or deletion) of length n.
	Gap(n int) float64
}

// affineGapModel scores mismatches linearly and gaps with an affine
// open+extend penalty, the conventional alignment-scoring shape (e.g.
// minimap2/edlib-style scoring).
type affineGapModel struct {
	mismatch  float64
	gapOpen   float64
	gapExtend float64
}

func (m affineGapModel) Mismatch(n int) float64 { return -m.mismatch * float64(n) }
func (m affineGapModel) Gap(n int) float64 {
	if n <= 0 {
		return 0
	}
	return -(m.gapOpen + m.gapExtend*float64(n))
}

// logGapModel scores gaps with a log-length penalty, used by callers that
// want large SVs to not be swamped by small indels when sorting by
// var_score (the total sort orders put var_score before query position).
type logGapModel struct {
	mismatch float64
	gapOpen  float64
}

func (m logGapModel) Mismatch(n int) float64 { return -m.mismatch * float64(n) }
func (m logGapModel) Gap(n int) float64 {
	if n <= 0 {
		return 0
	}
	return -(m.gapOpen + math.Log2(float64(n)))
}

// Built-in score model names for the align_score_model selector.
const (
	ScoreModelAffine = "affine"
	ScoreModelLog    = "log"
)

// GetScoreModel resolves the align_score_model selector to a ScoreModel.
// Unknown names are a configuration error.
func GetScoreModel(name string) (ScoreModel, error) {
	switch name {
	case "", ScoreModelAffine:
		return affineGapModel{mismatch: 1, gapOpen: 4, gapExtend: 0.5}, nil
	case ScoreModelLog:
		return logGapModel{mismatch: 1, gapOpen: 4}, nil
	default:
		return nil, errors.Errorf("align: unknown align_score_model %q", name)
	}
}
