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
	"os"
	"path/filepath"

	"github.com/grailbio/base/recordio"
	"github.com/pkg/errors"

	"github.com/pav3/intracore/variant"
)

// PartitionSink is a strategy for retaining one chromosome's sorted variant
// partition: either an in-memory buffer,
// or a spill-file writer that serializes and releases the buffer. Exactly
// one of the two implementations below is selected at pipeline construction
// based on whether a scratch directory is configured.
type PartitionSink interface {
	// Write stores a chromosome's already-sorted variant rows.
	Write(rows []variant.Variant) error
	// Read returns the chromosome's rows, reading them back from disk for a
	// spill sink.
	Read() ([]variant.Variant, error)
	// Close releases any resources (e.g. closes the spill file). Close does
	// not delete the underlying file.
	Close() error
}

// memorySink is a PartitionSink that simply retains rows in memory.
type memorySink struct {
	rows []variant.Variant
}

func (s *memorySink) Write(rows []variant.Variant) error { s.rows = rows; return nil }
func (s *memorySink) Read() ([]variant.Variant, error)    { return s.rows, nil }
func (s *memorySink) Close() error                        { return nil }

// spillSink is a PartitionSink that serializes rows to a row-oriented
// recordio file (zstd transformer, one MarshalVariant record per row) and
// drops the in-memory buffer, bounding peak memory on divergent genomes.
type spillSink struct {
	path string
	file *os.File
}

// NewSpillSink creates a spill file named `<prefix>_<chrom>.parquet` inside
// tempDir (the name and extension are a source convention even though the
// on-disk bytes are recordio, not real parquet). The temp directory not
// existing is a fatal error raised at pipeline start.
func NewSpillSink(tempDir, prefix, chrom string) (PartitionSink, error) {
	if info, err := os.Stat(tempDir); err != nil || !info.IsDir() {
		return nil, errors.Errorf("pipeline: temp directory does not exist or is not a directory: %s", tempDir)
	}
	path := filepath.Join(tempDir, prefix+"_"+chrom+".parquet")
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: could not create spill file %s", path)
	}
	return &spillSink{path: path, file: f}, nil
}

func (s *spillSink) Write(rows []variant.Variant) error {
	w := recordio.NewWriter(s.file, recordio.WriterOpts{
		Marshal:      MarshalVariant,
		Transformers: []string{"zstd 1"},
	})
	w.AddHeader(recordio.KeyTrailer, true)
	for i := range rows {
		w.Append(&rows[i])
	}
	if err := w.Flush(); err != nil {
		_ = os.Remove(s.path) // clean up partial spill file.
		return errors.Wrapf(err, "pipeline: spill write failed for %s", s.path)
	}
	return nil
}

func (s *spillSink) Read() ([]variant.Variant, error) {
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, errors.Wrapf(err, "pipeline: seek failed for spill file %s", s.path)
	}
	scanner := recordio.NewScanner(s.file, recordio.ScannerOpts{
		Unmarshal: UnmarshalVariant,
	})
	var rows []variant.Variant
	for scanner.Scan() {
		rows = append(rows, *scanner.Get().(*variant.Variant))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "pipeline: spill read failed for %s", s.path)
	}
	return rows, nil
}

func (s *spillSink) Close() error {
	return s.file.Close()
}
