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

package service

import (
	"os"
	"strconv"
	"strings"

	"github.com/Netcracker/qubership-apihub-tcp-extractor/entities"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/exception"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/utils"
	"github.com/Netcracker/qubership-apihub-tcp-extractor/view"
	log "github.com/sirupsen/logrus"
)

const (
	OutputFormat         = "OUTPUT_FORMAT"
	DecodeWorkers        = "DECODE_WORKERS"
	StrictMagic          = "STRICT_MAGIC"
	RecordLengthField    = "RECORD_LENGTH_FIELD"
	ClampTruncated       = "CLAMP_TRUNCATED"
	DbDriver             = "DB_DRIVER"
	DbHost               = "DB_HOST"
	DbPort               = "DB_PORT"
	DbUser               = "DB_USER"
	DbPassword           = "DB_PASSWORD"
	DbName               = "DB_NAME"
	DbSchema             = "DB_SCHEMA"
	KvDirectory          = "KV_DIRECTORY"
	MinioAccessKeyId     = "STORAGE_SERVER_USERNAME"
	MinioSecretAccessKey = "STORAGE_SERVER_PASSWORD"
	MinioCrt             = "STORAGE_SERVER_CRT"
	MinioEndpoint        = "STORAGE_SERVER_URL"
	MinioBucketName      = "STORAGE_SERVER_BUCKET_NAME"
	MinioStorageActive   = "MINIO_STORAGE_ACTIVE"
	StorageCompression   = "STORAGE_COMPRESS"
)

// PropertyLookup
// secondary configuration source, keys are in dotted lower case (db.driver)
type PropertyLookup func(key string) (string, bool)

type SystemInfoService interface {
	Init() error
	GetString(name string) string
	GetInt64(name string, defVal int64) int64
	GetBool(name string) bool
	GetInstanceId() string
	GetOutputFormat() entities.OutputFormat
	GetDecoderConfig() entities.DecoderConfig
	GetDbConfig() entities.DbSinkConfig
	GetMinioCredentials() *entities.MinioStorageCreds
	GetExtractorConfig(captureFile string, outputFile string) entities.ExtractorConfig
}

// NewSystemInfoService
// creates an interface instance, environment variables take precedence over props
func NewSystemInfoService(props PropertyLookup) (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{}),
		instanceId:    utils.MakeUniqueId(),
		props:         props,
	}
	log.Debugf("instance ID:%s", s.instanceId)
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

// systemInfoServiceImpl an interface implementation
type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{} // parameters
	instanceId    string
	props         PropertyLookup
}

// PropertyKey
// DB_DRIVER -> db.driver
func PropertyKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "."))
}

func (g systemInfoServiceImpl) lookup(name string) string {
	if v := os.Getenv(name); v != view.EmptyString {
		return v
	}
	if g.props != nil {
		if v, ok := g.props(PropertyKey(name)); ok {
			return v
		}
	}
	return view.EmptyString
}

// extractBoolDef
// extracts bool value from string with default value
func extractBoolDef(v string, defVal bool) bool {
	if v == view.EmptyString {
		return defVal
	}
	val, err := strconv.ParseBool(v)
	if err != nil {
		return defVal
	}
	return val
}

// extractBool
// extracts bool value from string. error, empty or absent value means 'false'
func extractBool(v string) bool {
	return extractBoolDef(v, false)
}

func (g systemInfoServiceImpl) extractInt(name string, defVal, minVal, maxVal int64) error {
	v := g.lookup(name)
	if v == view.EmptyString {
		g.systemInfoMap[name] = defVal
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return exception.NewInvalidParameter(name, v, err.Error())
	}
	if n < minVal || n > maxVal {
		return exception.NewInvalidParameter(name, v, "value is out of range")
	}
	g.systemInfoMap[name] = n
	return nil
}

// Init
// loads configuration from the environment and the property source
func (g systemInfoServiceImpl) Init() error {
	format, err := entities.ParseOutputFormat(g.lookup(OutputFormat))
	if err != nil {
		return exception.NewInvalidParameter(OutputFormat, g.lookup(OutputFormat), err.Error())
	}
	g.systemInfoMap[OutputFormat] = string(format)
	if err = g.extractInt(DecodeWorkers, 0, 0, view.MaxDecodeWorkers); err != nil {
		return err
	}
	// decoder
	g.systemInfoMap[StrictMagic] = extractBool(g.lookup(StrictMagic))
	g.systemInfoMap[ClampTruncated] = extractBool(g.lookup(ClampTruncated))
	lengthField, err := entities.ParseRecordLengthField(g.lookup(RecordLengthField))
	if err != nil {
		return exception.NewInvalidParameter(RecordLengthField, g.lookup(RecordLengthField), err.Error())
	}
	g.systemInfoMap[RecordLengthField] = lengthField.String()
	// database sink
	for _, name := range []string{DbDriver, DbHost, DbUser, DbPassword, DbName, DbSchema, KvDirectory} {
		g.systemInfoMap[name] = g.lookup(name)
	}
	if err = g.extractInt(DbPort, view.DefaultDbPort, 1, 65535); err != nil {
		return err
	}
	if err = g.validateDb(); err != nil {
		return err
	}
	// S3/Minio
	for _, name := range []string{MinioAccessKeyId, MinioSecretAccessKey, MinioCrt, MinioEndpoint, MinioBucketName} {
		g.systemInfoMap[name] = g.lookup(name)
	}
	g.systemInfoMap[MinioStorageActive] = extractBool(g.lookup(MinioStorageActive))
	g.systemInfoMap[StorageCompression] = extractBoolDef(g.lookup(StorageCompression), true)
	if g.GetBool(MinioStorageActive) {
		missing := g.missing(MinioEndpoint, MinioBucketName, MinioAccessKeyId, MinioSecretAccessKey)
		if len(missing) > 0 {
			return exception.NewRequiredParamsMissing(missing)
		}
	}
	return nil
}

func (g systemInfoServiceImpl) missing(names ...string) []string {
	ret := make([]string, 0)
	for _, name := range names {
		if g.GetString(name) == view.EmptyString {
			ret = append(ret, name)
		}
	}
	return ret
}

func (g systemInfoServiceImpl) validateDb() error {
	switch g.GetString(DbDriver) {
	case view.EmptyString:
		return nil
	case "sqlite3":
		if missing := g.missing(DbName); len(missing) > 0 {
			return exception.NewRequiredParamsMissing(missing)
		}
	case "postgres":
		if missing := g.missing(DbHost, DbName); len(missing) > 0 {
			return exception.NewRequiredParamsMissing(missing)
		}
	default:
		return exception.NewInvalidParameter(DbDriver, g.GetString(DbDriver), "supported drivers are sqlite3 and postgres")
	}
	return nil
}

// GetString
// returns string by name or empty string when not found
func (g systemInfoServiceImpl) GetString(name string) string {
	if v, ok := g.systemInfoMap[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt64
// returns int64 by name or defVal when not found
func (g systemInfoServiceImpl) GetInt64(name string, defVal int64) int64 {
	if v, ok := g.systemInfoMap[name]; ok {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return defVal
}

// GetBool
// get bool value from configuration
func (g systemInfoServiceImpl) GetBool(name string) bool {
	if v, ok := g.systemInfoMap[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetInstanceId
// returns unique instance Id, generated at start
func (g systemInfoServiceImpl) GetInstanceId() string {
	return g.instanceId
}

func (g systemInfoServiceImpl) GetOutputFormat() entities.OutputFormat {
	return entities.OutputFormat(g.GetString(OutputFormat))
}

func (g systemInfoServiceImpl) GetDecoderConfig() entities.DecoderConfig {
	lengthField, _ := entities.ParseRecordLengthField(g.GetString(RecordLengthField))
	return entities.DecoderConfig{
		StrictMagic:    g.GetBool(StrictMagic),
		LengthField:    lengthField,
		ClampTruncated: g.GetBool(ClampTruncated),
	}
}

func (g systemInfoServiceImpl) GetDbConfig() entities.DbSinkConfig {
	return entities.DbSinkConfig{
		Driver:   g.GetString(DbDriver),
		Host:     g.GetString(DbHost),
		Port:     int(g.GetInt64(DbPort, view.DefaultDbPort)),
		User:     g.GetString(DbUser),
		Password: g.GetString(DbPassword),
		DbName:   g.GetString(DbName),
		Schema:   g.GetString(DbSchema),
	}
}

// GetMinioCredentials
// constructs MINIO credentials from configuration
func (g systemInfoServiceImpl) GetMinioCredentials() *entities.MinioStorageCreds {
	return &entities.MinioStorageCreds{
		BucketName:           g.GetString(MinioBucketName),
		IsActive:             g.GetBool(MinioStorageActive),
		Endpoint:             g.GetString(MinioEndpoint),
		Crt:                  g.GetString(MinioCrt),
		AccessKeyId:          g.GetString(MinioAccessKeyId),
		SecretAccessKey:      g.GetString(MinioSecretAccessKey),
		CompressBeforeUpload: g.GetBool(StorageCompression),
	}
}

func (g systemInfoServiceImpl) GetExtractorConfig(captureFile string, outputFile string) entities.ExtractorConfig {
	return entities.ExtractorConfig{
		CaptureFile:  captureFile,
		OutputFile:   outputFile,
		OutputFormat: g.GetOutputFormat(),
		Workers:      int(g.GetInt64(DecodeWorkers, 0)),
		Decoder:      g.GetDecoderConfig(),
		Db:           g.GetDbConfig(),
		KvDirectory:  g.GetString(KvDirectory),
		Storage:      *g.GetMinioCredentials(),
		InstanceId:   g.instanceId,
	}
}
