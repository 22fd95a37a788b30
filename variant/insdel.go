package variant

import (
	"github.com/pav3/intracore/align"
	"github.com/pav3/intracore/biosimd"
)

// EmitInsDel extracts insertion and deletion rows from a record's expanded
// op rows. INS rows take pos from the op row's reference coordinate at the
// insertion point (the first reference base after the inserted bases), with
// end = pos + 1; DEL rows are anchored with
// qry_end = qry_pos + 1 since they consume no query bases.
func EmitInsDel(chrom string, rows []align.OpRow, seqRef, seqQry []byte, scoreModel align.ScoreModel) []Variant {
	var out []Variant
	for _, row := range rows {
		switch row.Op.Code {
		case align.OpIns:
			out = append(out, emitIns(chrom, row, seqQry, scoreModel))
		case align.OpDel:
			out = append(out, emitDel(chrom, row, seqRef, scoreModel))
		}
	}
	return out
}

func emitIns(chrom string, row align.OpRow, seqQry []byte, scoreModel align.ScoreModel) Variant {
	varLen := uint64(row.Op.Len)
	raw := seqQry[row.QryPos:row.QryEnd]
	var seq string
	if row.IsRev {
		seq = biosimd.ReverseComp8(string(raw))
	} else {
		seq = string(raw)
	}

	v := Variant{
		Chrom:       chrom,
		Pos:         row.Pos,
		End:         row.Pos + 1,
		VarType:     TypeINS,
		VarLen:      varLen,
		Seq:         seq,
		Filter:      row.Filter,
		QryID:       row.QryID,
		QryPos:      row.QryPos,
		QryEnd:      row.QryEnd,
		QryRev:      row.IsRev,
		CallSource:  CallSource,
		VarScore:    scoreModel.Gap(row.Op.Len),
		AlignSource: []uint64{row.AlignIndex},
	}
	v.ID = nonSNVID(chrom, row.Pos, TypeINS, varLen)
	v.SetAlignScore(row.Score)
	return v
}

func emitDel(chrom string, row align.OpRow, seqRef []byte, scoreModel align.ScoreModel) Variant {
	varLen := uint64(row.Op.Len)
	seq := string(seqRef[row.Pos:row.End])

	v := Variant{
		Chrom:       chrom,
		Pos:         row.Pos,
		End:         row.End,
		VarType:     TypeDEL,
		VarLen:      varLen,
		Seq:         seq,
		Filter:      row.Filter,
		QryID:       row.QryID,
		QryPos:      row.QryPos,
		QryEnd:      row.QryPos + 1,
		QryRev:      row.IsRev,
		CallSource:  CallSource,
		VarScore:    scoreModel.Gap(row.Op.Len),
		AlignSource: []uint64{row.AlignIndex},
	}
	v.ID = nonSNVID(chrom, row.Pos, TypeDEL, varLen)
	v.SetAlignScore(row.Score)
	return v
}
