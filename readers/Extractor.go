// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package readers

import (
	"context"
	"iter"
	"time"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Extractor interface {
	Reader() CaptureReader
	Records() iter.Seq2[entities.RecordBounds, error]
	RecordTable() ([]entities.RecordBounds, error)
	PacketCount() (int, error)
	// Extract decodes records one by one while walking the chain
	Extract() iter.Seq2[entities.ExtractedRecord, error]
	ExtractAll() (entities.Extraction, error)
	// ExtractParallel decodes a materialised offset table on a bounded worker group
	ExtractParallel(ctx context.Context, workers int) (entities.Extraction, error)
}

type extractorImpl struct {
	reader CaptureReader
}

func NewExtractor(reader CaptureReader) Extractor {
	return &extractorImpl{reader: reader}
}

func (e *extractorImpl) Reader() CaptureReader {
	return e.reader
}

func (e *extractorImpl) Records() iter.Seq2[entities.RecordBounds, error] {
	return Records(e.reader)
}

func (e *extractorImpl) RecordTable() ([]entities.RecordBounds, error) {
	return RecordTable(e.reader)
}

func (e *extractorImpl) PacketCount() (int, error) {
	return PacketCount(e.reader)
}

// decodeRecord
// frame decoding and payload slicing of a single record
func (e *extractorImpl) decodeRecord(rec entities.RecordBounds) (entities.ExtractedRecord, error) {
	ret := entities.ExtractedRecord{Record: rec}
	info, err := DecodeFrame(e.reader, rec)
	if err != nil {
		return ret, err
	}
	ret.Frame = info
	ret.Payload, ret.Truncated, err = ExtractPayload(e.reader, rec, info)
	if ret.Truncated {
		log.Debugf("record %d payload clamped to %d captured bytes", rec.Index, len(ret.Payload))
	}
	return ret, err
}

func (e *extractorImpl) Extract() iter.Seq2[entities.ExtractedRecord, error] {
	return func(yield func(entities.ExtractedRecord, error) bool) {
		for rec, err := range e.Records() {
			if err != nil {
				yield(entities.ExtractedRecord{}, err)
				return
			}
			extracted, err := e.decodeRecord(rec)
			if err != nil {
				yield(entities.ExtractedRecord{}, err)
				return
			}
			if !yield(extracted, nil) {
				return
			}
		}
	}
}

func (e *extractorImpl) ExtractAll() (entities.Extraction, error) {
	started := time.Now()
	ret := make(entities.Extraction, 0)
	for extracted, err := range e.Extract() {
		if err != nil {
			log.Errorf("unable to extract payloads. Error: %v", err)
			return nil, err
		}
		ret = append(ret, extracted)
	}
	log.Debugf("%d records decoded in %v", len(ret), time.Since(started))
	return ret, nil
}

func (e *extractorImpl) ExtractParallel(ctx context.Context, workers int) (entities.Extraction, error) {
	if workers <= 1 {
		return e.ExtractAll()
	}
	if workers > view.MaxDecodeWorkers {
		workers = view.MaxDecodeWorkers
	}
	started := time.Now()
	table, tableErr := e.RecordTable()
	ret := make(entities.Extraction, len(table))
	errs := make([]error, len(table))
	// decode failures do not stop the group so the lowest failing record can be reported
	var group errgroup.Group
	group.SetLimit(workers)
	for i, rec := range table {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ret[i], errs[i] = e.decodeRecord(rec)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Errorf("payload extraction cancelled. Error: %v", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		log.Errorf("payload extraction cancelled. Error: %v", err)
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			log.Errorf("unable to extract payloads. Error: %v", err)
			return nil, err
		}
	}
	if tableErr != nil {
		log.Errorf("unable to extract payloads. Error: %v", tableErr)
		return nil, tableErr
	}
	log.Debugf("%d records decoded by %d workers in %v", len(ret), workers, time.Since(started))
	return ret, nil
}
