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

package sinks

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
)

// Sink
// receives extracted records in file order
type Sink interface {
	Write(rec entities.ExtractedRecord) error
	Close() error
}

// WriteAll
// feeds every record to the sink, stops on the first failure
func WriteAll(records entities.Extraction, sink Sink) (entities.ExtractionStats, error) {
	stats := entities.ExtractionStats{}
	for _, rec := range records {
		if err := sink.Write(rec); err != nil {
			return stats, err
		}
		stats.Add(rec)
	}
	return stats, nil
}

// RenderPayload
// textual form of a record for line oriented outputs
func RenderPayload(format entities.OutputFormat, rec entities.ExtractedRecord) string {
	if !rec.IsApplicable() {
		return view.NotApplicableMarker
	}
	if len(rec.Payload) == 0 {
		return view.NoDataMarker
	}
	switch format {
	case entities.FormatHex:
		return hex.EncodeToString(rec.Payload)
	case entities.FormatRaw:
		return string(rec.Payload)
	default:
		return strconv.Quote(string(rec.Payload))
	}
}

type multiSink struct {
	sinks []Sink
}

// NewMultiSink
// writes every record to all sinks in order
func NewMultiSink(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

func (m *multiSink) Write(rec entities.ExtractedRecord) error {
	for _, s := range m.sinks {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close
// closes all sinks even when some of them fail
func (m *multiSink) Close() error {
	errs := make([]error, 0)
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
