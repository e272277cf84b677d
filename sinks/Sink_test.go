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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/db"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/services/disk_cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() entities.Extraction {
	tcp := entities.FrameInfo{EtherType: entities.EtherTypeIPv4, IPProtocol: entities.IPProtocolTCP, IHLBytes: 20, TCPHeaderLen: 20, Classification: entities.Applicable}
	return entities.Extraction{
		{Record: entities.RecordBounds{Index: 0, Offset: 24, CapturedLength: 60}, Frame: tcp, Payload: []byte("hello\n")},
		{Record: entities.RecordBounds{Index: 1, Offset: 100, CapturedLength: 60}, Frame: entities.FrameInfo{EtherType: entities.EtherTypeARP, Classification: entities.NotIPv4}},
		{Record: entities.RecordBounds{Index: 2, Offset: 176, CapturedLength: 60}, Frame: tcp, Payload: []byte{}},
		{Record: entities.RecordBounds{Index: 3, Offset: 252, CapturedLength: 60}, Frame: entities.FrameInfo{EtherType: entities.EtherTypeIPv4, IPProtocol: entities.IPProtocolUDP, Classification: entities.NotTCP}},
		{Record: entities.RecordBounds{Index: 4, Offset: 328, CapturedLength: 60}, Frame: tcp, Payload: []byte("hello\n")},
	}
}

func TestRenderPayload(t *testing.T) {
	records := sampleRecords()
	assert.Equal(t, `"hello\n"`, RenderPayload(entities.FormatQuoted, records[0]))
	assert.Equal(t, "68656c6c6f0a", RenderPayload(entities.FormatHex, records[0]))
	assert.Equal(t, "hello\n", RenderPayload(entities.FormatRaw, records[0]))
	assert.Equal(t, "not TCP over IPv4", RenderPayload(entities.FormatQuoted, records[1]))
	assert.Equal(t, "none", RenderPayload(entities.FormatHex, records[2]))
	assert.Equal(t, "not TCP over IPv4", RenderPayload(entities.FormatRaw, records[3]))
}

func TestTextSink(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "out.txt")
	sink, err := NewTextSink(fileName, entities.FormatQuoted)
	require.NoError(t, err)
	stats, err := WriteAll(sampleRecords(), sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	assert.Equal(t, []string{
		`TCP application data: "hello\n"`,
		"TCP application data: not TCP over IPv4",
		"TCP application data: none",
		"TCP application data: not TCP over IPv4",
		`TCP application data: "hello\n"`,
	}, lines)
	assert.Equal(t, 5, stats.Packets)
	assert.Equal(t, 2, stats.WithPayload)
	assert.Equal(t, 1, stats.EmptyPayload)
	assert.Equal(t, 1, stats.NotIPv4)
	assert.Equal(t, 1, stats.NotTCP)
	assert.Equal(t, int64(12), stats.PayloadBytes)
}

func TestTextSinkBadPath(t *testing.T) {
	_, err := NewTextSink(filepath.Join(t.TempDir(), "missing", "out.txt"), entities.FormatQuoted)
	assert.Error(t, err)
}

func TestSqlSink(t *testing.T) {
	conn, err := db.MakeConnection(db.ConnAttrs{Driver: db.DriverSqlite, DbName: filepath.Join(t.TempDir(), "run.db")})
	require.NoError(t, err)
	sink, err := NewSqlSink(conn, "run-1", "in.pcap", entities.CaptureFileHeader{LinkType: entities.LinkTypeEthernet})
	require.NoError(t, err)
	_, err = WriteAll(sampleRecords(), sink)
	require.NoError(t, err)

	count, err := conn.GetRecordCount("run-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	bodies, err := conn.GetScalarValue("SELECT count(Payload_Id) FROM Payload_bodies", nil)
	require.NoError(t, err)
	n, err := db.VarToInt(bodies)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "identical payloads share one body")
	assert.NoError(t, sink.Close())
}

func TestKvSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewKvSink(dir, "run-1")
	require.NoError(t, err)
	_, err = WriteAll(sampleRecords(), sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	cache, err := disk_cache.NewDiskCache("run-1", dir, true)
	require.NoError(t, err)
	defer cache.Close()
	assert.Equal(t, 5, cache.Count())
	value, err := cache.GetItemAsString(RecordKey(0))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", value)
	value, err = cache.GetItemAsString(RecordKey(1))
	require.NoError(t, err)
	assert.Equal(t, "not TCP over IPv4", value)
	value, err = cache.GetItemAsString(RecordKey(2))
	require.NoError(t, err)
	assert.Equal(t, "none", value)
	assert.Equal(t, "0000000042", RecordKey(42))
}

type failingSink struct {
	writes int
	closed bool
}

func (f *failingSink) Write(rec entities.ExtractedRecord) error {
	f.writes++
	if rec.Record.Index == 1 {
		return errors.New("disk full")
	}
	return nil
}

func (f *failingSink) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func TestMultiSink(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "out.txt")
	text, err := NewTextSink(fileName, entities.FormatHex)
	require.NoError(t, err)
	failing := &failingSink{}
	multi := NewMultiSink(text, failing)
	stats, err := WriteAll(sampleRecords(), multi)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, stats.Packets)
	assert.Equal(t, 2, failing.writes)

	err = multi.Close()
	assert.EqualError(t, err, "close failed")
	assert.True(t, failing.closed)
	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, "TCP application data: 68656c6c6f0a\nTCP application data: not TCP over IPv4\n", string(content))
}
