// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pav3/intracore/variant"
)

var tableHeader = []string{
	"chrom", "pos", "end", "id", "var_type", "ref", "alt", "var_len", "seq",
	"filter", "qry_id", "qry_pos", "qry_end", "qry_rev", "call_source", "var_score",
	"align_source",
}

func writeTable(path string, rows []variant.Variant) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(tableHeader, "\t"))
	for _, v := range rows {
		sources := make([]string, len(v.AlignSource))
		for i, s := range v.AlignSource {
			sources[i] = strconv.FormatUint(s, 10)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%d\t%d\t%v\t%s\t%g\t%s\n",
			v.Chrom, v.Pos, v.End, v.ID, v.VarType, v.Ref, v.Alt, v.VarLen, v.Seq,
			v.Filter, v.QryID, v.QryPos, v.QryEnd, v.QryRev, v.CallSource, v.VarScore,
			strings.Join(sources, ","))
	}
	return w.Flush()
}
