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
	"github.com/Netcracker/qubership-apihub-tcp-extractor/Cache"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/db"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	log "github.com/sirupsen/logrus"
)

type sqlSink struct {
	conn     db.Connection
	payloads Cache.PayloadCache
	runId    string
}

// NewSqlSink
// registers the run and stores one row per record, payload bodies are deduplicated
func NewSqlSink(conn db.Connection, runId string, fileName string, header entities.CaptureFileHeader) (Sink, error) {
	if err := conn.InitSchema(); err != nil {
		log.Errorf("unable to prepare database. Error: %v", err)
		return nil, err
	}
	if err := conn.StoreCapture(runId, fileName, header); err != nil {
		log.Errorf("unable to register capture run %s. Error: %v", runId, err)
		return nil, err
	}
	return &sqlSink{conn: conn, payloads: Cache.NewPayloadCache(conn), runId: runId}, nil
}

func (s *sqlSink) Write(rec entities.ExtractedRecord) error {
	payloadId := ""
	var err error
	if rec.HasPayload() {
		payloadId, err = s.payloads.GetPayloadId(rec.Payload)
		if err != nil {
			return s.failure(rec, err)
		}
	}
	if err = s.conn.StoreRecord(s.runId, rec, payloadId); err != nil {
		return s.failure(rec, err)
	}
	return nil
}

func (s *sqlSink) failure(rec entities.ExtractedRecord, err error) error {
	return &exception.CustomError{
		Code:    exception.SinkFailure,
		Message: exception.SinkFailureMsg,
		Params:  map[string]interface{}{"index": rec.Record.Index, "sink": "database"},
		Debug:   err.Error(),
	}
}

func (s *sqlSink) Close() error {
	log.Debugf("run %s: %d payload bodies stored", s.runId, s.payloads.StoredCount())
	return s.conn.Close()
}
