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

const EmptyParameter = "8"
const EmptyParameterMsg = "Parameter $param should not be empty"

const RequiredParamsMissing = "15"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InvalidParameter = "30010"
const InvalidParameterMsg = "Parameter $param has invalid value $value"

// IOFailure decoding codes and messages
const IOFailure = "30000"
const IOFailureMsg = "unable to read capture file $file"
const MalformedHeader = "30001"
const MalformedHeaderMsg = "malformed capture file header"
const TruncatedRecord = "30002"
const TruncatedRecordMsg = "record $index at offset $offset is truncated"
const InvalidLength = "30003"
const InvalidLengthMsg = "record $index at offset $offset has inconsistent length fields"

// SinkFailure output codes and messages
const SinkFailure = "30100"
const SinkFailureMsg = "unable to write record $index to $sink"
const UploadFailure = "30101"
const UploadFailureMsg = "unable to upload $file"
