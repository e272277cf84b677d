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
	"errors"
	"testing"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordChainTilesFile(t *testing.T) {
	data := writePcap(t,
		tcpFrame(t, []byte("GET / HTTP/1.1\r\n\r\n"), nil, nil),
		arpFrame(t),
		udpFrame(t, []byte("dns")),
		tcpFrame(t, nil, nil, nil),
	)
	cr := newReader(t, data, entities.DecoderConfig{})
	table, err := RecordTable(cr)
	require.NoError(t, err)
	total := entities.GlobalHeaderLen
	for i, rec := range table {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, total, rec.Offset)
		total += entities.RecordHeaderLen + rec.CapturedLength
	}
	assert.Equal(t, len(data), total)
}

func TestFusedCountMatchesIndependentCounts(t *testing.T) {
	data := writePcap(t,
		tcpFrame(t, []byte("one"), nil, nil),
		tcpFrame(t, []byte("two"), nil, nil),
		arpFrame(t),
	)
	cr := newReader(t, data, entities.DecoderConfig{})
	extraction, err := NewExtractor(cr).ExtractAll()
	require.NoError(t, err)
	count, err := PacketCount(cr)
	require.NoError(t, err)
	table, err := RecordTable(cr)
	require.NoError(t, err)
	assert.Equal(t, 3, extraction.PacketCount())
	assert.Equal(t, count, extraction.PacketCount())
	assert.Equal(t, len(table), extraction.PacketCount())
	assert.Equal(t, pcapgoCount(t, data), extraction.PacketCount())
}

func TestRecordsIsRestartable(t *testing.T) {
	cr := newReader(t, writePcap(t, arpFrame(t), arpFrame(t)), entities.DecoderConfig{})
	seq := Records(cr)
	first := make([]entities.RecordBounds, 0)
	for rec, err := range seq {
		require.NoError(t, err)
		first = append(first, rec)
	}
	second := make([]entities.RecordBounds, 0)
	for rec, err := range seq {
		require.NoError(t, err)
		second = append(second, rec)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestRecordsEarlyBreak(t *testing.T) {
	cr := newReader(t, writePcap(t, arpFrame(t), arpFrame(t), arpFrame(t)), entities.DecoderConfig{})
	seen := 0
	for range Records(cr) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestZeroLengthRecord(t *testing.T) {
	cr := newReader(t, leCapture([]byte{}), entities.DecoderConfig{})
	extraction, err := NewExtractor(cr).ExtractAll()
	require.NoError(t, err)
	require.Equal(t, 1, extraction.PacketCount())
	assert.Equal(t, 0, extraction[0].Record.CapturedLength)
	assert.Equal(t, entities.NotIPv4, extraction[0].Frame.Classification)
	assert.Equal(t, 0, extraction.Stats().WithPayload)
}

func TestTruncatedLastRecordBody(t *testing.T) {
	frames := [][]byte{tcpFrame(t, []byte("ok"), nil, nil), arpFrame(t)}
	data := buildCapture(binary.LittleEndian, entities.MagicMicrosecondsSwapped, frames, map[int]uint32{1: 4096})
	cr := newReader(t, data, entities.DecoderConfig{})

	table, err := RecordTable(cr)
	assert.ErrorIs(t, err, exception.ErrTruncatedRecord)
	assert.Len(t, table, 1)
	var de *exception.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.RecordIndex)
	assert.Equal(t, table[0].End(), de.Offset)

	_, err = NewExtractor(cr).ExtractAll()
	assert.ErrorIs(t, err, exception.ErrTruncatedRecord)
}

func TestTruncatedRecordHeader(t *testing.T) {
	data := leCapture(arpFrame(t))
	data = append(data, 1, 2, 3, 4, 5, 6, 7)
	cr := newReader(t, data, entities.DecoderConfig{})
	count, err := PacketCount(cr)
	assert.ErrorIs(t, err, exception.ErrTruncatedRecord)
	assert.Equal(t, 1, count)
}

func TestIncludedLengthField(t *testing.T) {
	frame := tcpFrame(t, []byte("snapped payload"), nil, nil)
	data := leCapture(frame[:40])
	// on-wire length in the original length field
	binary.LittleEndian.PutUint32(data[entities.GlobalHeaderLen+12:], uint32(len(frame)))
	cr := newReader(t, data, entities.DecoderConfig{})
	_, err := PacketCount(cr)
	assert.ErrorIs(t, err, exception.ErrTruncatedRecord)

	cr = newReader(t, data, entities.DecoderConfig{LengthField: entities.RecordLengthIncluded})
	table, err := RecordTable(cr)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, 40, table[0].CapturedLength)
}
