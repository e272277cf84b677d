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
	"bytes"
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	srcMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	dstMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
	srcIP  = net.IP{10, 0, 0, 1}
	dstIP  = net.IP{10, 0, 0, 2}
)

// tcpFrame
// Ethernet/IPv4/TCP frame serialised with gopacket
func tcpFrame(t *testing.T, payload []byte, ipOptions []layers.IPv4Option, tcpOptions []layers.TCPOption) []byte {
	t.Helper()
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    srcIP,
		DstIP:    dstIP,
		Options:  ipOptions,
	}
	tcp := &layers.TCP{
		SrcPort: 40000,
		DstPort: 8080,
		Seq:     1000,
		Ack:     2000,
		ACK:     true,
		PSH:     len(payload) > 0,
		Window:  65535,
		Options: tcpOptions,
	}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	return serialize(t, eth, ip, tcp, gopacket.Payload(payload))
}

func udpFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: dstMAC, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolUDP, SrcIP: srcIP, DstIP: dstIP}
	udp := &layers.UDP{SrcPort: 5353, DstPort: 5353}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(t, eth, ip, udp, gopacket.Payload(payload))
}

func arpFrame(t *testing.T) []byte {
	t.Helper()
	eth := &layers.Ethernet{SrcMAC: srcMAC, DstMAC: layers.EthernetBroadcast, EthernetType: layers.EthernetTypeARP}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   srcMAC,
		SourceProtAddress: srcIP.To4(),
		DstHwAddress:      net.HardwareAddr{0, 0, 0, 0, 0, 0},
		DstProtAddress:    dstIP.To4(),
	}
	return serialize(t, eth, arp)
}

func serialize(t *testing.T, l ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, l...))
	return append([]byte(nil), buf.Bytes()...)
}

// writePcap
// capture written by pcapgo, little-endian microsecond format
func writePcap(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	out := bytes.Buffer{}
	w := pcapgo.NewWriter(&out)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, frame := range frames {
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		require.NoError(t, w.WritePacket(ci, frame))
	}
	return out.Bytes()
}

// buildCapture
// hand made capture, lengths[i] overrides the captured length written for frames[i] when set
func buildCapture(order binary.ByteOrder, magic uint32, frames [][]byte, lengths map[int]uint32) []byte {
	out := make([]byte, entities.GlobalHeaderLen)
	binary.BigEndian.PutUint32(out[0:4], magic)
	order.PutUint16(out[4:6], 2)
	order.PutUint16(out[6:8], 4)
	order.PutUint32(out[16:20], 65535)
	order.PutUint32(out[20:24], entities.LinkTypeEthernet)
	for i, frame := range frames {
		header := make([]byte, entities.RecordHeaderLen)
		order.PutUint32(header[0:4], uint32(1735787045+i))
		length := uint32(len(frame))
		if l, ok := lengths[i]; ok {
			length = l
		}
		order.PutUint32(header[8:12], length)
		order.PutUint32(header[12:16], length)
		out = append(out, header...)
		out = append(out, frame...)
	}
	return out
}

func leCapture(frames ...[]byte) []byte {
	return buildCapture(binary.LittleEndian, entities.MagicMicrosecondsSwapped, frames, nil)
}

func newReader(t *testing.T, data []byte, config entities.DecoderConfig) CaptureReader {
	t.Helper()
	cr, err := NewCaptureReader(data, config)
	require.NoError(t, err)
	return cr
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fileName, data, 0o644))
	return fileName
}

// pcapgoCount
// independent record count using the pcapgo reader
func pcapgoCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := pcapgo.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	count := 0
	for {
		_, _, err := r.ReadPacketData()
		if err != nil {
			break
		}
		count++
	}
	return count
}

func TestFixturesAreValidFrames(t *testing.T) {
	frame := tcpFrame(t, []byte("hello"), nil, nil)
	packet := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	require.NotNil(t, tcpLayer)
	assert.Equal(t, []byte("hello"), tcpLayer.(*layers.TCP).Payload)
}
