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

package pipeline

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/pav3/intracore/variant"
)

// MarshalVariant serializes a Variant for the spill format: a simple
// length-prefixed record format rather than true columnar storage (this
// core doesn't need cross-language interop with a columnar reader; only
// each chromosome's file needs to be independently readable), in
// the style of pileup/snp/row.go's MarshalPileupRow/unmarshalPileupRow.
func MarshalVariant(scratch []byte, p interface{}) ([]byte, error) {
	v := p.(*variant.Variant)

	strs := []string{v.Chrom, v.ID, string(v.VarType), v.Ref, v.Alt, v.Seq, v.Filter, v.QryID}
	bytesReq := 8 /*Pos*/ + 8 /*End*/ + 8 /*VarLen*/ + 8 /*QryPos*/ + 8 /*QryEnd*/ +
		1 /*QryRev*/ + 8 /*VarScore*/ + 4 /*len(AlignSource)*/ + 8*len(v.AlignSource)
	for _, s := range strs {
		bytesReq += 4 + len(s)
	}

	buf := scratch
	if cap(buf) < bytesReq {
		buf = make([]byte, bytesReq)
	}
	buf = buf[:bytesReq]

	off := 0
	putUint64 := func(x uint64) {
		binary.LittleEndian.PutUint64(buf[off:off+8], x)
		off += 8
	}
	putString := func(s string) {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(s)))
		off += 4
		off += copy(buf[off:], s)
	}

	putUint64(v.Pos)
	putUint64(v.End)
	putUint64(v.VarLen)
	putUint64(v.QryPos)
	putUint64(v.QryEnd)
	if v.QryRev {
		buf[off] = 1
	} else {
		buf[off] = 0
	}
	off++
	binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v.VarScore))
	off += 8
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(v.AlignSource)))
	off += 4
	for _, a := range v.AlignSource {
		putUint64(a)
	}
	for _, s := range strs {
		putString(s)
	}
	return buf, nil
}

// UnmarshalVariant is the inverse of MarshalVariant.
func UnmarshalVariant(in []byte) (interface{}, error) {
	off := 0
	getUint64 := func() uint64 {
		x := binary.LittleEndian.Uint64(in[off : off+8])
		off += 8
		return x
	}
	getString := func() (string, error) {
		if off+4 > len(in) {
			return "", errors.New("pipeline: truncated variant record")
		}
		n := int(binary.LittleEndian.Uint32(in[off : off+4]))
		off += 4
		if off+n > len(in) {
			return "", errors.New("pipeline: truncated variant record body")
		}
		s := string(in[off : off+n])
		off += n
		return s, nil
	}

	if len(in) < 8*5+1+8+4 {
		return nil, errors.New("pipeline: truncated variant record header")
	}

	v := &variant.Variant{}
	v.Pos = getUint64()
	v.End = getUint64()
	v.VarLen = getUint64()
	v.QryPos = getUint64()
	v.QryEnd = getUint64()
	v.QryRev = in[off] != 0
	off++
	v.VarScore = math.Float64frombits(binary.LittleEndian.Uint64(in[off : off+8]))
	off += 8
	nSources := int(binary.LittleEndian.Uint32(in[off : off+4]))
	off += 4
	v.AlignSource = make([]uint64, nSources)
	for i := range v.AlignSource {
		v.AlignSource[i] = getUint64()
	}

	var err error
	if v.Chrom, err = getString(); err != nil {
		return nil, err
	}
	if v.ID, err = getString(); err != nil {
		return nil, err
	}
	var varType string
	if varType, err = getString(); err != nil {
		return nil, err
	}
	v.VarType = variant.VarType(varType)
	if v.Ref, err = getString(); err != nil {
		return nil, err
	}
	if v.Alt, err = getString(); err != nil {
		return nil, err
	}
	if v.Seq, err = getString(); err != nil {
		return nil, err
	}
	if v.Filter, err = getString(); err != nil {
		return nil, err
	}
	if v.QryID, err = getString(); err != nil {
		return nil, err
	}
	v.CallSource = variant.CallSource
	return v, nil
}
