package variant

import "sort"

// SortSNV imposes the SNV total order: pos asc, alt asc, var_score
// desc, _align_score desc, qry_id asc, qry_pos asc.
func SortSNV(vs []Variant) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.Alt != b.Alt {
			return a.Alt < b.Alt
		}
		if a.VarScore != b.VarScore {
			return a.VarScore > b.VarScore
		}
		if a.alignScore != b.alignScore {
			return a.alignScore > b.alignScore
		}
		if a.QryID != b.QryID {
			return a.QryID < b.QryID
		}
		return a.QryPos < b.QryPos
	})
}

// SortInsDel imposes the INS/DEL total order: pos asc, var_score desc,
// _align_score desc, qry_id asc, qry_pos asc, with an end tiebreak.
func SortInsDel(vs []Variant) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.VarScore != b.VarScore {
			return a.VarScore > b.VarScore
		}
		if a.alignScore != b.alignScore {
			return a.alignScore > b.alignScore
		}
		if a.QryID != b.QryID {
			return a.QryID < b.QryID
		}
		if a.QryPos != b.QryPos {
			return a.QryPos < b.QryPos
		}
		return a.End < b.End
	})
}

// SortINV imposes the INV total order: pos asc, end asc, qry_id asc,
// qry_pos asc.
func SortINV(vs []Variant) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if a.QryID != b.QryID {
			return a.QryID < b.QryID
		}
		return a.QryPos < b.QryPos
	})
}
