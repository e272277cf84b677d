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

package view

const (
	EmptyString = ""
	GzipSuffix  = ".gz"
	// OutputLinePrefix starts every line of the text output
	OutputLinePrefix = "TCP application data: "
	// NoDataMarker stands for a TCP segment without application data
	NoDataMarker = "none"
	// NotApplicableMarker stands for a record which is not TCP over IPv4
	NotApplicableMarker = "not TCP over IPv4"
	// MaxDecodeWorkers upper limit for parallel record decoding
	MaxDecodeWorkers = 256
	// DefaultDbPort the same default as postgres
	DefaultDbPort = 5432
	// KvKeyFormat record index as a sortable key
	KvKeyFormat = "%010d"
	// StorageFolderName object name prefix inside the bucket
	StorageFolderName = "TcpPayloads"
	// ArrayJoinSeparator a separator to use with strings.Join
	ArrayJoinSeparator = ","
)
