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

const (
	EtherTypeIPv4 uint16 = 0x0800
	EtherTypeARP  uint16 = 0x0806
	IPProtocolTCP uint8  = 0x06
	IPProtocolUDP uint8  = 0x11
)

// EthernetFrame
// destination MAC (6), source MAC (6), ether type (2)
const (
	EthernetHeaderLen  = 14
	EthernetTypeOffset = 12
)

// IPv4Header
// follows EthernetFrame, length is IHL*4
const (
	IPv4VersionIHLOffset  = 0 // low nibble is IHL
	IPv4TotalLengthOffset = 2 // big-endian, covers IPv4 header + TCP header + payload
	IPv4ProtocolOffset    = 9 // 6 = TCP
	MinIPv4HeaderLen      = 20
)

// TCPHeader
// follows IPv4Header, length is data offset*4
const (
	TCPDataOffsetOffset = 12 // high nibble is data offset
	MinTCPHeaderLen     = 20
)

type Classification int

const (
	Applicable Classification = iota
	NotIPv4
	NotTCP
)

func (c Classification) String() string {
	switch c {
	case Applicable:
		return "applicable"
	case NotIPv4:
		return "not_ipv4"
	case NotTCP:
		return "not_tcp"
	}
	return "unknown"
}

// FrameInfo
// header fields decoded from a single record, zero where decoding stopped early
type FrameInfo struct {
	EtherType      uint16
	IPProtocol     uint8
	IHLBytes       int
	IPTotalLength  int
	TCPHeaderLen   int
	Classification Classification
}

// PayloadStart payload offset relative to the first frame byte
func (f FrameInfo) PayloadStart() int {
	return EthernetHeaderLen + f.IHLBytes + f.TCPHeaderLen
}

// PayloadEnd end of the IPv4 packet relative to the first frame byte
func (f FrameInfo) PayloadEnd() int {
	return EthernetHeaderLen + f.IPTotalLength
}
