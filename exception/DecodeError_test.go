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

package exception

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeErrorKinds(t *testing.T) {
	err := error(NewTruncatedRecord(3, 120, "record body needs 60 bytes, 10 left"))
	assert.ErrorIs(t, err, ErrTruncatedRecord)
	assert.NotErrorIs(t, err, ErrInvalidLength)
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, 3, de.RecordIndex)
	assert.Equal(t, 120, de.Offset)
	assert.Contains(t, err.Error(), "record 3 at offset 120")

	err = NewInvalidLength(0, 24, "ihl 16 below 20")
	assert.ErrorIs(t, err, ErrInvalidLength)

	err = NewMalformedHeader("file is 10 bytes")
	assert.ErrorIs(t, err, ErrMalformedHeader)
	assert.NotContains(t, err.Error(), "record")
}

func TestIOErrorKeepsCause(t *testing.T) {
	err := error(NewIOError("missing.pcap", fs.ErrNotExist))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.pcap")
}

func TestCustomErrorParams(t *testing.T) {
	err := NewInvalidParameter("workers", -3, "")
	assert.Equal(t, "Parameter workers has invalid value -3 (code 30010)", err.Error())
	assert.ErrorIs(t, err, ErrInvalidParam)

	err = NewRequiredParamsMissing([]string{"pcap", "save"})
	assert.Contains(t, err.Error(), "pcap, save")
	assert.ErrorIs(t, err, ErrInvalidParam)
}
