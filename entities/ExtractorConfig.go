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
	"fmt"
	"strings"
)

type OutputFormat string

const (
	FormatQuoted OutputFormat = "quoted"
	FormatHex    OutputFormat = "hex"
	FormatRaw    OutputFormat = "raw"
)

func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatQuoted:
		return FormatQuoted, nil
	case FormatHex:
		return FormatHex, nil
	case FormatRaw:
		return FormatRaw, nil
	}
	return FormatQuoted, fmt.Errorf("unknown output format '%s'", value)
}

type DecoderConfig struct {
	StrictMagic    bool              // reject unknown magic numbers instead of assuming little-endian
	LengthField    RecordLengthField // record header field used to walk the chain
	ClampTruncated bool              // clamp payloads cut by the snap length instead of failing
}

type DbSinkConfig struct {
	Driver   string // sqlite3, postgres or empty when the sink is off
	Host     string
	Port     int
	User     string
	Password string
	DbName   string
	Schema   string
}

func (c DbSinkConfig) IsActive() bool {
	return c.Driver != ""
}

type MinioStorageCreds struct {
	IsActive             bool
	Endpoint             string
	AccessKeyId          string
	SecretAccessKey      string
	Crt                  string // base64 encoded PEM
	BucketName           string
	CompressBeforeUpload bool
}

type ExtractorConfig struct {
	CaptureFile  string // capture file to decode
	OutputFile   string // text output, one line per record
	OutputFormat OutputFormat
	Workers      int // 0 or 1 means a sequential pass
	Decoder      DecoderConfig
	Db           DbSinkConfig
	KvDirectory  string // pogreb store location, empty disables the kv sink
	Storage      MinioStorageCreds
	InstanceId   string // run ID used by persistent sinks
}
