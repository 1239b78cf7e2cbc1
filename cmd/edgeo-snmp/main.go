// Copyright 2025 Edgeo SCADA
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

// edgeo-snmp is a command-line SNMP client for testing, debugging, and monitoring.
package main

import (
	"errors"
	"os"

	"github.com/edgeo-scada/snmp/snmp"
)

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	os.Exit(exitCode(err))
}

// exitCode distinguishes a codec/protocol-level failure (malformed BER on
// the wire, a capacity or structure violation) from an ordinary CLI usage
// or connection error, so scripts driving this binary can tell apart "the
// agent sent something this engine can't parse" from "try again".
func exitCode(err error) int {
	var malformedTag *snmp.MalformedTagError
	var malformedLen *snmp.MalformedLengthError
	var shortPayload *snmp.ShortPayloadError
	var trailing *snmp.TrailingBytesError
	var unknownTag *snmp.UnknownTagError
	var structErr *snmp.StructureError
	var encodeErr *snmp.EncodeError
	var capErr *snmp.CapacityExceededError

	switch {
	case errors.As(err, &malformedTag), errors.As(err, &malformedLen), errors.As(err, &shortPayload),
		errors.As(err, &trailing), errors.As(err, &unknownTag), errors.As(err, &structErr),
		errors.As(err, &encodeErr), errors.As(err, &capErr):
		return 3
	default:
		return 1
	}
}
