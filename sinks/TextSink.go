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
	"bufio"
	"fmt"
	"os"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	log "github.com/sirupsen/logrus"
)

type textSink struct {
	fileName string
	file     *os.File
	writer   *bufio.Writer
	format   entities.OutputFormat
	lines    int
}

// NewTextSink
// creates (truncates) the output file, one line per record
func NewTextSink(fileName string, format entities.OutputFormat) (Sink, error) {
	fh, err := os.Create(fileName)
	if err != nil {
		log.Errorf("unable to create output file '%s'. Error: %v", fileName, err)
		return nil, err
	}
	return &textSink{
		fileName: fileName,
		file:     fh,
		writer:   bufio.NewWriter(fh),
		format:   format,
	}, nil
}

func (s *textSink) Write(rec entities.ExtractedRecord) error {
	_, err := fmt.Fprintf(s.writer, "%s%s\n", view.OutputLinePrefix, RenderPayload(s.format, rec))
	if err != nil {
		return &exception.CustomError{
			Code:    exception.SinkFailure,
			Message: exception.SinkFailureMsg,
			Params:  map[string]interface{}{"index": rec.Record.Index, "sink": s.fileName},
			Debug:   err.Error(),
		}
	}
	s.lines++
	return nil
}

func (s *textSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.writer.Flush()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.file = nil
	if err != nil {
		log.Errorf("unable to finish output file '%s'. Error: %v", s.fileName, err)
		return err
	}
	log.Debugf("%d lines written to '%s'", s.lines, s.fileName)
	return nil
}
