package variant

import (
	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/biosimd"
)

// EmitSNVs extracts per-base mismatches from a record's expanded op rows.
// Multi-base X runs are expanded into one-base SNV rows; reverse-complemented
// records have their per-base query offset inverted within the run and
// their alt base complemented.
//
// seqRef and seqQry are the reference and query sequences in original
// (forward-strand) coordinates; scoreModel.Mismatch(1) supplies var_score.
func EmitSNVs(chrom string, rows []align.OpRow, seqRef, seqQry []byte, scoreModel align.ScoreModel) []Variant {
	var out []Variant

	varScore := scoreModel.Mismatch(1)

	for _, row := range rows {
		if row.Op.Code != align.OpMismatch {
			continue
		}
		l := row.Op.Len
		for o := 0; o < l; o++ {
			pos := row.Pos + uint64(o)
			var qryPos uint64
			if row.IsRev {
				// Invert position within the mismatch run so the per-base
				// reference and query align on the original strand:
				// ref offset o pairs with query offset L-1-o.
				qryPos = row.QryPos + uint64(l-1-o)
			} else {
				qryPos = row.QryPos + uint64(o)
			}

			ref := string(seqRef[pos])
			alt := string(seqQry[qryPos])
			if row.IsRev {
				alt = string(biosimd.Complement(alt[0]))
			}

			v := Variant{
				Chrom:       chrom,
				Pos:         pos,
				End:         pos + 1,
				VarType:     TypeSNV,
				Ref:         ref,
				Alt:         alt,
				Filter:      row.Filter,
				QryID:       row.QryID,
				QryPos:      qryPos,
				QryEnd:      qryPos + 1,
				QryRev:      row.IsRev,
				CallSource:  CallSource,
				VarScore:    varScore,
				AlignSource: []uint64{row.AlignIndex},
			}
			v.ID = snvID(chrom, pos, alt)
			v.SetAlignScore(row.Score)
			out = append(out, v)
		}
	}
	return out
}
