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

// BER length encoding/decoding (spec §4.2): short form for values < 128,
// long form 0x80|N followed by N big-endian bytes otherwise. The indefinite
// form (leading byte 0x80 with N=0) is not supported.

// lengthSize returns the number of bytes EncodeLength will emit for n.
func lengthSize(n int) int {
	if n < 128 {
		return 1
	}
	size := 1
	v := n
	for v > 0 {
		size++
		v >>= 8
	}
	return size
}

// EncodeLength appends the BER length encoding of n to dst.
func EncodeLength(dst []byte, n int) []byte {
	if n < 128 {
		return append(dst, byte(n))
	}

	var tmp [8]byte
	i := len(tmp)
	v := n
	for v > 0 {
		i--
		tmp[i] = byte(v)
		v >>= 8
	}
	dst = append(dst, 0x80|byte(len(tmp)-i))
	return append(dst, tmp[i:]...)
}

// DecodeLength reads a BER length from src.
func DecodeLength(src Source) (int, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, &MalformedLengthError{Reason: "missing length byte"}
	}

	if b < 0x80 {
		return int(b), nil
	}

	n := int(b & 0x7F)
	if n == 0 {
		return 0, &MalformedLengthError{Reason: "indefinite length form is not supported"}
	}
	if n > 4 {
		return 0, &MalformedLengthError{Reason: "length field too wide"}
	}

	length := 0
	for i := 0; i < n; i++ {
		lb, err := src.ReadByte()
		if err != nil {
			return 0, &MalformedLengthError{Reason: "length bytes truncated"}
		}
		length = (length << 8) | int(lb)
	}
	if length < 0 {
		return 0, &MalformedLengthError{Reason: "length overflowed a signed int"}
	}
	return length, nil
}
