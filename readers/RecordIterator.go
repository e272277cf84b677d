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
	"fmt"
	"iter"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
)

// Records
// walks the record chain starting right after the global header.
// Every call starts over. The walk stops after the first error.
func Records(cr CaptureReader) iter.Seq2[entities.RecordBounds, error] {
	return func(yield func(entities.RecordBounds, error) bool) {
		lengthOffset := cr.Config().LengthField.Offset()
		order := cr.ByteOrder()
		offset := entities.GlobalHeaderLen
		for index := 0; offset < cr.Len(); index++ {
			header, ok := cr.Span(offset, entities.RecordHeaderLen)
			if !ok {
				yield(entities.RecordBounds{}, exception.NewTruncatedRecord(index, offset,
					fmt.Sprintf("record header needs %d bytes, %d left", entities.RecordHeaderLen, cr.Len()-offset)))
				return
			}
			capturedLength := order.Uint32(header[lengthOffset : lengthOffset+4])
			rec := entities.RecordBounds{Index: index, Offset: offset, CapturedLength: int(capturedLength)}
			if uint64(capturedLength) > uint64(cr.Len()-rec.DataOffset()) {
				yield(entities.RecordBounds{}, exception.NewTruncatedRecord(index, offset,
					fmt.Sprintf("record body needs %d bytes, %d left", capturedLength, cr.Len()-rec.DataOffset())))
				return
			}
			if !yield(rec, nil) {
				return
			}
			offset = rec.End()
		}
	}
}

// RecordTable
// materialises the offset table, on failure the records before the broken one are returned with the error
func RecordTable(cr CaptureReader) ([]entities.RecordBounds, error) {
	table := make([]entities.RecordBounds, 0)
	for rec, err := range Records(cr) {
		if err != nil {
			return table, err
		}
		table = append(table, rec)
	}
	return table, nil
}

// PacketCount
// number of records in the chain
func PacketCount(cr CaptureReader) (int, error) {
	count := 0
	for _, err := range Records(cr) {
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
