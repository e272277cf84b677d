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

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
)

// ExtractPayload
// copies the TCP application data of an applicable record.
// Returns nil for other classifications and an empty slice for a segment without data.
// The flag reports a payload clamped to the captured bytes.
func ExtractPayload(cr CaptureReader, rec entities.RecordBounds, info entities.FrameInfo) ([]byte, bool, error) {
	if info.Classification != entities.Applicable {
		return nil, false, nil
	}
	frame, ok := cr.Span(rec.DataOffset(), rec.CapturedLength)
	if !ok {
		return nil, false, exception.NewTruncatedRecord(rec.Index, rec.Offset,
			fmt.Sprintf("record body needs %d bytes", rec.CapturedLength))
	}
	return slicePayload(frame, rec, info, cr.Config().ClampTruncated)
}

func slicePayload(frame []byte, rec entities.RecordBounds, info entities.FrameInfo, clamp bool) ([]byte, bool, error) {
	start, end := info.PayloadStart(), info.PayloadEnd()
	if end < start {
		return nil, false, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("payload range [%d, %d) is negative", start, end))
	}
	truncated := false
	if end > len(frame) {
		if !clamp {
			return nil, false, exception.NewInvalidLength(rec.Index, rec.Offset,
				fmt.Sprintf("payload ends at %d, only %d bytes captured", end, len(frame)))
		}
		truncated = true
		end = len(frame)
		if start > end {
			start = end
		}
	}
	payload := make([]byte, end-start)
	copy(payload, frame[start:end])
	return payload, truncated, nil
}
