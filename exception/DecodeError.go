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
	"fmt"
	"strings"
)

// sentinels for errors.Is checks
var (
	ErrIO              = errors.New("capture file I/O error")
	ErrMalformedHeader = errors.New("malformed capture header")
	ErrTruncatedRecord = errors.New("truncated record")
	ErrInvalidLength   = errors.New("invalid length")
	ErrInvalidParam    = errors.New("invalid parameter")
)

// CustomError
// coded error with message template, parameters are substituted as $name
type CustomError struct {
	Code    string
	Message string
	Params  map[string]interface{}
	Debug   string
}

func (e *CustomError) Error() string {
	msg := e.Message
	for k, v := range e.Params {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprint(v))
	}
	if e.Debug != "" {
		return fmt.Sprintf("%s (code %s): %s", msg, e.Code, e.Debug)
	}
	return fmt.Sprintf("%s (code %s)", msg, e.Code)
}

func (e *CustomError) Is(target error) bool {
	return target == ErrInvalidParam && (e.Code == InvalidParameter || e.Code == RequiredParamsMissing || e.Code == EmptyParameter)
}

// DecodeError
// failure of the capture decoder, RecordIndex is -1 when the error is not tied to a record
type DecodeError struct {
	Code        string
	RecordIndex int
	Offset      int
	Detail      string
	Cause       error
}

func (e *DecodeError) sentinel() error {
	switch e.Code {
	case IOFailure:
		return ErrIO
	case MalformedHeader:
		return ErrMalformedHeader
	case TruncatedRecord:
		return ErrTruncatedRecord
	case InvalidLength:
		return ErrInvalidLength
	}
	return nil
}

func (e *DecodeError) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.sentinel().Error())
	if e.RecordIndex >= 0 {
		sb.WriteString(fmt.Sprintf(" in record %d at offset %d", e.RecordIndex, e.Offset))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(". Error: ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() []error {
	ret := []error{e.sentinel()}
	if e.Cause != nil {
		ret = append(ret, e.Cause)
	}
	return ret
}

func NewIOError(fileName string, cause error) *DecodeError {
	return &DecodeError{
		Code:        IOFailure,
		RecordIndex: -1,
		Detail:      strings.ReplaceAll(IOFailureMsg, "$file", fileName),
		Cause:       cause,
	}
}

func NewMalformedHeader(detail string) *DecodeError {
	return &DecodeError{Code: MalformedHeader, RecordIndex: -1, Detail: detail}
}

func NewTruncatedRecord(index, offset int, detail string) *DecodeError {
	return &DecodeError{Code: TruncatedRecord, RecordIndex: index, Offset: offset, Detail: detail}
}

func NewInvalidLength(index, offset int, detail string) *DecodeError {
	return &DecodeError{Code: InvalidLength, RecordIndex: index, Offset: offset, Detail: detail}
}

func NewInvalidParameter(param string, value interface{}, debug string) *CustomError {
	return &CustomError{
		Code:    InvalidParameter,
		Message: InvalidParameterMsg,
		Params:  map[string]interface{}{"param": param, "value": value},
		Debug:   debug,
	}
}

func NewRequiredParamsMissing(params []string) *CustomError {
	return &CustomError{
		Code:    RequiredParamsMissing,
		Message: RequiredParamsMissingMsg,
		Params:  map[string]interface{}{"params": strings.Join(params, ", ")},
	}
}
