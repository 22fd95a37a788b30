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
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pav3/intracore/align"
)

// readAlignTable reads this tool's own minimal alignment table format: one
// tab-separated row per alignment record, with columns
//
//	chrom  pos  end  qry_id  qry_pos  qry_end  is_rev  score  filter  ops
//
// ops is a CIGAR-like run-length string, e.g. "120=1X30=2D40=10I". This
// format exists only to give the CLI something concrete to read; real BAM/PAF
// ingestion and CIGAR parsing are left to an upstream tool that produces this
// table (the core package never parses alignment files itself).
func readAlignTable(r io.Reader) ([]align.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []align.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 10 {
			return nil, errors.Errorf("align table line %d: want 10 columns, got %d", lineNo, len(fields))
		}

		pos, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: pos", lineNo)
		}
		end, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: end", lineNo)
		}
		qryPos, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: qry_pos", lineNo)
		}
		qryEnd, err := strconv.ParseUint(fields[5], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: qry_end", lineNo)
		}
		isRev, err := strconv.ParseBool(fields[6])
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: is_rev", lineNo)
		}
		score, err := strconv.ParseFloat(fields[7], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: score", lineNo)
		}
		ops, err := parseOps(fields[9])
		if err != nil {
			return nil, errors.Wrapf(err, "align table line %d: ops", lineNo)
		}

		records = append(records, align.Record{
			Chrom:  fields[0],
			Pos:    pos,
			End:    end,
			QryID:  fields[3],
			QryPos: qryPos,
			QryEnd: qryEnd,
			IsRev:  isRev,
			Score:  score,
			Filter: fields[8],
			Ops:    ops,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "align table: read failed")
	}
	return records, nil
}

// parseOps parses a run-length CIGAR-like string such as "12=1X30=2D5I".
func parseOps(s string) ([]align.Op, error) {
	var ops []align.Op
	runLen := 0
	haveDigits := false
	for _, c := range s {
		if c >= '0' && c <= '9' {
			runLen = runLen*10 + int(c-'0')
			haveDigits = true
			continue
		}
		if !haveDigits {
			return nil, errors.Errorf("op code %q with no preceding length", c)
		}
		ops = append(ops, align.Op{Code: align.OpCode(c), Len: runLen})
		runLen = 0
		haveDigits = false
	}
	if haveDigits {
		return nil, errors.New("trailing run length with no op code")
	}
	return ops, nil
}
