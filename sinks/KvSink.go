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
	"fmt"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/services/disk_cache"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
)

type kvSink struct {
	cache disk_cache.DiskCache
}

// NewKvSink
// pogreb store under dir/runId, records are keyed by zero padded index
func NewKvSink(dir string, runId string) (Sink, error) {
	cache, err := disk_cache.NewDiskCache(runId, dir, true)
	if err != nil {
		return nil, err
	}
	return &kvSink{cache: cache}, nil
}

func RecordKey(index int) string {
	return fmt.Sprintf(view.KvKeyFormat, index)
}

func (s *kvSink) Write(rec entities.ExtractedRecord) error {
	value := rec.Payload
	if !rec.HasPayload() {
		value = []byte(RenderPayload(entities.FormatRaw, rec))
	}
	return s.cache.StoreItem(RecordKey(rec.Record.Index), value)
}

func (s *kvSink) Close() error {
	s.cache.Sync()
	return s.cache.Close()
}
