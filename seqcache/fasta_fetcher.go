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

package seqcache

import "github.com/pav3/intracore/encoding/fasta"

// FastaFetcher adapts a fasta.Fasta (random-access indexed FASTA reader) to
// the Fetcher contract Cache expects, so an indexed reference or query
// assembly FASTA can front a Cache directly.
type FastaFetcher struct {
	FA fasta.Fasta
}

// Fetch returns the full sequence named name.
func (f FastaFetcher) Fetch(name string) ([]byte, error) {
	n, err := f.FA.Len(name)
	if err != nil {
		return nil, err
	}
	s, err := f.FA.Get(name, 0, n)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Len returns the length of the sequence named name.
func (f FastaFetcher) Len(name string) (uint64, error) {
	return f.FA.Len(name)
}
