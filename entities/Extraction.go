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

package entities

import (
	"crypto/md5"
	"fmt"
)

// ExtractedRecord
// decoding result of one record
type ExtractedRecord struct {
	Record    RecordBounds
	Frame     FrameInfo
	Payload   []byte // nil unless Applicable, empty for a segment without data
	Truncated bool   // payload was clamped to the captured bytes
}

func (r ExtractedRecord) IsApplicable() bool {
	return r.Frame.Classification == Applicable
}

func (r ExtractedRecord) HasPayload() bool {
	return r.IsApplicable() && len(r.Payload) > 0
}

func (r ExtractedRecord) IsEmptyPayload() bool {
	return r.IsApplicable() && len(r.Payload) == 0
}

// ComputePayloadId content address of a payload body
func ComputePayloadId(body []byte) string {
	return fmt.Sprintf("%x", md5.Sum(body))
}

// Extraction ordered results of a whole capture
type Extraction []ExtractedRecord

func (e Extraction) PacketCount() int {
	return len(e)
}

func (e Extraction) Lengths() []int {
	ret := make([]int, len(e))
	for i, r := range e {
		ret[i] = r.Record.CapturedLength
	}
	return ret
}

func (e Extraction) EtherTypes() []uint16 {
	ret := make([]uint16, len(e))
	for i, r := range e {
		ret[i] = r.Frame.EtherType
	}
	return ret
}

func (e Extraction) Protocols() []uint8 {
	ret := make([]uint8, len(e))
	for i, r := range e {
		ret[i] = r.Frame.IPProtocol
	}
	return ret
}

func (e Extraction) TotalLengths() []int {
	ret := make([]int, len(e))
	for i, r := range e {
		ret[i] = r.Frame.IPTotalLength
	}
	return ret
}

func (e Extraction) IHLs() []int {
	ret := make([]int, len(e))
	for i, r := range e {
		ret[i] = r.Frame.IHLBytes
	}
	return ret
}

func (e Extraction) TCPHeaderLens() []int {
	ret := make([]int, len(e))
	for i, r := range e {
		ret[i] = r.Frame.TCPHeaderLen
	}
	return ret
}

func (e Extraction) Contents() [][]byte {
	ret := make([][]byte, len(e))
	for i, r := range e {
		ret[i] = r.Payload
	}
	return ret
}

func (e Extraction) Stats() ExtractionStats {
	stats := ExtractionStats{}
	for _, r := range e {
		stats.Add(r)
	}
	return stats
}

type ExtractionStats struct {
	Packets      int
	Applicable   int
	WithPayload  int
	EmptyPayload int
	NotIPv4      int
	NotTCP       int
	Truncated    int
	PayloadBytes int64
}

func (s *ExtractionStats) Add(r ExtractedRecord) {
	s.Packets++
	switch r.Frame.Classification {
	case Applicable:
		s.Applicable++
		if len(r.Payload) > 0 {
			s.WithPayload++
			s.PayloadBytes += int64(len(r.Payload))
		} else {
			s.EmptyPayload++
		}
	case NotIPv4:
		s.NotIPv4++
	case NotTCP:
		s.NotTCP++
	}
	if r.Truncated {
		s.Truncated++
	}
}

func (s ExtractionStats) String() string {
	return fmt.Sprintf("packets: %d, tcp: %d (data: %d, empty: %d, truncated: %d), not ipv4: %d, not tcp: %d, payload bytes: %d",
		s.Packets, s.Applicable, s.WithPayload, s.EmptyPayload, s.Truncated, s.NotIPv4, s.NotTCP, s.PayloadBytes)
}
