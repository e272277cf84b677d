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
	"encoding/binary"
	"fmt"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
)

// DecodeFrame
// decodes Ethernet, IPv4 and TCP header fields of one record
func DecodeFrame(cr CaptureReader, rec entities.RecordBounds) (entities.FrameInfo, error) {
	frame, ok := cr.Span(rec.DataOffset(), rec.CapturedLength)
	if !ok {
		return entities.FrameInfo{}, exception.NewTruncatedRecord(rec.Index, rec.Offset,
			fmt.Sprintf("record body needs %d bytes", rec.CapturedLength))
	}
	return decodeFrameBytes(frame, rec)
}

func decodeFrameBytes(frame []byte, rec entities.RecordBounds) (entities.FrameInfo, error) {
	info := entities.FrameInfo{Classification: entities.NotIPv4}
	if len(frame) < entities.EthernetHeaderLen {
		return info, nil
	}
	info.EtherType = binary.BigEndian.Uint16(frame[entities.EthernetTypeOffset:entities.EthernetHeaderLen])
	if info.EtherType != entities.EtherTypeIPv4 {
		return info, nil
	}

	ip := frame[entities.EthernetHeaderLen:]
	if len(ip) <= entities.IPv4ProtocolOffset {
		return info, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("IPv4 protocol field at frame offset %d is outside %d captured bytes",
				entities.EthernetHeaderLen+entities.IPv4ProtocolOffset, len(frame)))
	}
	info.IPProtocol = ip[entities.IPv4ProtocolOffset]
	if info.IPProtocol != entities.IPProtocolTCP {
		info.Classification = entities.NotTCP
		return info, nil
	}

	info.IHLBytes = int(ip[entities.IPv4VersionIHLOffset]&0x0f) * 4
	info.IPTotalLength = int(binary.BigEndian.Uint16(ip[entities.IPv4TotalLengthOffset : entities.IPv4TotalLengthOffset+2]))
	if info.IHLBytes < entities.MinIPv4HeaderLen {
		return info, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("IPv4 header length %d is below %d", info.IHLBytes, entities.MinIPv4HeaderLen))
	}
	tcpFieldOffset := info.IHLBytes + entities.TCPDataOffsetOffset
	if len(ip) <= tcpFieldOffset {
		return info, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("TCP data offset field at frame offset %d is outside %d captured bytes",
				entities.EthernetHeaderLen+tcpFieldOffset, len(frame)))
	}
	info.TCPHeaderLen = int(ip[tcpFieldOffset]>>4) * 4
	if info.TCPHeaderLen < entities.MinTCPHeaderLen {
		return info, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("TCP header length %d is below %d", info.TCPHeaderLen, entities.MinTCPHeaderLen))
	}
	if info.IPTotalLength < info.IHLBytes+info.TCPHeaderLen {
		return info, exception.NewInvalidLength(rec.Index, rec.Offset,
			fmt.Sprintf("IPv4 total length %d is below headers length %d", info.IPTotalLength, info.IHLBytes+info.TCPHeaderLen))
	}
	info.Classification = entities.Applicable
	return info, nil
}
