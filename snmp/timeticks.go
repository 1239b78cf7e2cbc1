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

package snmp

import (
	"fmt"
	"math"
)

// MaxInt32 is the maximum value a PDU request ID may hold.
const MaxInt32 = math.MaxInt32

// SecondsToTimeTicks converts a duration in seconds to SNMP TimeTicks
// (hundredths of a second).
func SecondsToTimeTicks(seconds float64) uint32 {
	return uint32(seconds * 100)
}

// TimeTicksToSeconds converts SNMP TimeTicks to a duration in seconds.
func TimeTicksToSeconds(ticks uint32) float64 {
	return float64(ticks) / 100
}

// TimeTicksToString renders TimeTicks the way most SNMP tooling displays
// sysUpTime: "[D days,] HH:MM:SS.cc".
func TimeTicksToString(ticks uint32) string {
	totalSeconds := ticks / 100
	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	centiseconds := ticks % 100

	if days > 0 {
		return fmt.Sprintf("%d days, %02d:%02d:%02d.%02d", days, hours, minutes, seconds, centiseconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, centiseconds)
}
