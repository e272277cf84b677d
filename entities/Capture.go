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
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// GlobalHeaderLen fixed capture file prefix
	GlobalHeaderLen = 24
	// RecordHeaderLen header in front of every captured frame
	RecordHeaderLen = 16
	// LinkTypeEthernet the only link layer this decoder understands
	LinkTypeEthernet = 1
)

// magic numbers as they appear on disk, read big-endian
const (
	MagicMicroseconds        uint32 = 0xa1b2c3d4
	MagicNanoseconds         uint32 = 0xa1b23c4d
	MagicMicrosecondsSwapped uint32 = 0xd4c3b2a1
	MagicNanosecondsSwapped  uint32 = 0x4d3cb2a1
)

// CaptureFileHeader
// the 24 byte prefix of a capture file
type CaptureFileHeader struct {
	MagicNumber  uint32 // first four bytes, big-endian
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32  // GMT offset in seconds
	SigFigs      uint32 // timestamp accuracy
	SnapLen      uint32 // max captured length per record
	LinkType     uint32
}

func (h CaptureFileHeader) IsKnownMagic() bool {
	switch h.MagicNumber {
	case MagicMicroseconds, MagicNanoseconds, MagicMicrosecondsSwapped, MagicNanosecondsSwapped:
		return true
	}
	return false
}

// ByteOrder of the multi-byte fields in the global and record headers.
// Unknown magic numbers get little-endian.
func (h CaptureFileHeader) ByteOrder() binary.ByteOrder {
	switch h.MagicNumber {
	case MagicMicroseconds, MagicNanoseconds:
		return binary.BigEndian
	default:
		return binary.LittleEndian
	}
}

func (h CaptureFileHeader) IsNanosecond() bool {
	return h.MagicNumber == MagicNanoseconds || h.MagicNumber == MagicNanosecondsSwapped
}

func (h CaptureFileHeader) String() string {
	return fmt.Sprintf("magic=%#08x version=%d.%d thiszone=%d sigfigs=%d snaplen=%d linktype=%d",
		h.MagicNumber, h.VersionMajor, h.VersionMinor, h.ThisZone, h.SigFigs, h.SnapLen, h.LinkType)
}

// RecordLengthField selects the record header field used to walk the record chain
type RecordLengthField int

const (
	// RecordLengthOriginal reads the length at record header offset 12
	RecordLengthOriginal RecordLengthField = iota
	// RecordLengthIncluded reads the length at record header offset 8
	RecordLengthIncluded
)

func (f RecordLengthField) Offset() int {
	if f == RecordLengthIncluded {
		return 8
	}
	return 12
}

func (f RecordLengthField) String() string {
	if f == RecordLengthIncluded {
		return "included"
	}
	return "original"
}

func ParseRecordLengthField(value string) (RecordLengthField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "original":
		return RecordLengthOriginal, nil
	case "included":
		return RecordLengthIncluded, nil
	}
	return RecordLengthOriginal, fmt.Errorf("unknown record length field '%s'", value)
}

// RecordBounds
// position of one record inside the capture buffer
type RecordBounds struct {
	Index          int // zero based record number
	Offset         int // absolute offset of the record header
	CapturedLength int // frame bytes following the record header
}

// DataOffset absolute offset of the first frame byte
func (r RecordBounds) DataOffset() int {
	return r.Offset + RecordHeaderLen
}

// End absolute offset of the next record header
func (r RecordBounds) End() int {
	return r.DataOffset() + r.CapturedLength
}
