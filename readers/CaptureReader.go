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
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	log "github.com/sirupsen/logrus"
)

// CaptureReader
// read only view over a capture file loaded in memory
type CaptureReader interface {
	Header() entities.CaptureFileHeader
	Config() entities.DecoderConfig
	ByteOrder() binary.ByteOrder
	Len() int
	// Span returns length bytes starting at offset, false when the range leaves the buffer
	Span(offset, length int) ([]byte, bool)
}

type captureReaderImpl struct {
	data   []byte
	header entities.CaptureFileHeader
	order  binary.ByteOrder
	config entities.DecoderConfig
}

// LoadCapture
// reads the whole file, a .gz file is uncompressed on the fly.
// The handle is released before returning.
func LoadCapture(fileName string) ([]byte, error) {
	fh, err := os.Open(fileName)
	if err != nil {
		log.Errorf("unable to open capture file '%s'. Error: %v", fileName, err)
		return nil, exception.NewIOError(fileName, err)
	}
	defer func() {
		if err := fh.Close(); err != nil {
			log.Warnf("unable to close capture file '%s'. Error: %v", fileName, err)
		}
	}()
	var src io.Reader = fh
	if path.Ext(fileName) == view.GzipSuffix {
		zr, err := gzip.NewReader(fh)
		if err != nil {
			log.Errorf("unable to uncompress file '%s'. Error: %v", fileName, err)
			return nil, exception.NewIOError(fileName, err)
		}
		defer func() {
			if err := zr.Close(); err != nil {
				log.Warnf("unable to close compressed file '%s'. Error: %v", fileName, err)
			}
		}()
		src = zr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		log.Errorf("unable to read capture file '%s'. Error: %v", fileName, err)
		return nil, exception.NewIOError(fileName, err)
	}
	log.Debugf("capture file '%s' loaded, %d bytes", fileName, len(data))
	return data, nil
}

// OpenCapture
// loads and validates a capture file
func OpenCapture(fileName string, config entities.DecoderConfig) (CaptureReader, error) {
	data, err := LoadCapture(fileName)
	if err != nil {
		return nil, err
	}
	return NewCaptureReader(data, config)
}

// NewCaptureReader
// wraps capture bytes, the global header is validated here
func NewCaptureReader(data []byte, config entities.DecoderConfig) (CaptureReader, error) {
	header, err := parseFileHeader(data, config)
	if err != nil {
		return nil, err
	}
	return &captureReaderImpl{
		data:   data,
		header: header,
		order:  header.ByteOrder(),
		config: config,
	}, nil
}

func parseFileHeader(data []byte, config entities.DecoderConfig) (entities.CaptureFileHeader, error) {
	header := entities.CaptureFileHeader{}
	if len(data) < entities.GlobalHeaderLen {
		return header, exception.NewMalformedHeader(
			fmt.Sprintf("file is %d bytes, global header needs %d", len(data), entities.GlobalHeaderLen))
	}
	header.MagicNumber = binary.BigEndian.Uint32(data[0:4])
	if !header.IsKnownMagic() {
		if config.StrictMagic {
			return header, exception.NewMalformedHeader(fmt.Sprintf("unknown magic number %#08x", header.MagicNumber))
		}
		log.Warnf("unknown magic number %#08x, assuming little-endian headers", header.MagicNumber)
	}
	order := header.ByteOrder()
	header.VersionMajor = order.Uint16(data[4:6])
	header.VersionMinor = order.Uint16(data[6:8])
	header.ThisZone = int32(order.Uint32(data[8:12]))
	header.SigFigs = order.Uint32(data[12:16])
	header.SnapLen = order.Uint32(data[16:20])
	header.LinkType = order.Uint32(data[20:24])
	if header.LinkType != entities.LinkTypeEthernet {
		log.Warnf("link type %d is not Ethernet, frames are decoded as Ethernet anyway", header.LinkType)
	}
	return header, nil
}

func (cr *captureReaderImpl) Header() entities.CaptureFileHeader {
	return cr.header
}

func (cr *captureReaderImpl) Config() entities.DecoderConfig {
	return cr.config
}

func (cr *captureReaderImpl) ByteOrder() binary.ByteOrder {
	return cr.order
}

func (cr *captureReaderImpl) Len() int {
	return len(cr.data)
}

func (cr *captureReaderImpl) Span(offset, length int) ([]byte, bool) {
	if offset < 0 || length < 0 || offset > len(cr.data) || length > len(cr.data)-offset {
		return nil, false
	}
	return cr.data[offset : offset+length : offset+length], true
}
