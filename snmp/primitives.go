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
	"math"
	"strconv"
	"strings"
)

// Boolean is the BER BOOLEAN type (tag 0x01): fixed one-byte payload, 0xFF
// for true and 0x00 for false on encode; any nonzero byte decodes to true.
type Boolean struct {
	Value bool
}

func (b *Boolean) Tag() Tag       { return Tag{Class: ClassUniversal, Number: 0x01} }
func (b *Boolean) Size() int      { return 3 }
func (b *Boolean) Recompute() int { return b.Size() }

func (b *Boolean) Encode(dst Sink) error {
	v := byte(0x00)
	if b.Value {
		v = 0xFF
	}
	return encodeTLV(dst, b.Tag(), []byte{v})
}

func (b *Boolean) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		b.Value = false
		return nil
	}
	b.Value = payload[0] != 0x00
	return nil
}

// Integer is the BER INTEGER type (tag 0x02): minimal two's-complement
// signed bytes, MSB-first (spec §3, §8 "minimal integer encoding").
type Integer struct {
	Value int64
}

func (n *Integer) Tag() Tag       { return Tag{Class: ClassUniversal, Number: 0x02} }
func (n *Integer) Size() int      { return headerSize(len(encodeSignedInt(n.Value))) }
func (n *Integer) Recompute() int { return n.Size() }

func (n *Integer) Encode(dst Sink) error {
	return encodeTLV(dst, n.Tag(), encodeSignedInt(n.Value))
}

func (n *Integer) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	n.Value = decodeSignedInt(payload)
	return nil
}

// encodeSignedInt produces the minimal two's-complement big-endian encoding
// of value: no redundant leading 0x00 (when the next byte's MSB is 0) or
// 0xFF (when the next byte's MSB is 1).
func encodeSignedInt(value int64) []byte {
	if value == 0 {
		return []byte{0}
	}

	var buf []byte
	if value > 0 {
		v := value
		for v > 0 {
			buf = append([]byte{byte(v)}, buf...)
			v >>= 8
		}
		if buf[0]&0x80 != 0 {
			buf = append([]byte{0x00}, buf...)
		}
		return buf
	}

	v := value
	for {
		buf = append([]byte{byte(v)}, buf...)
		if v >= -128 {
			break
		}
		v >>= 8
	}
	if buf[0]&0x80 == 0 {
		buf = append([]byte{0xFF}, buf...)
	}
	return buf
}

// decodeSignedInt sign-extends from the MSB of the first payload byte.
func decodeSignedInt(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var value int64
	if data[0]&0x80 != 0 {
		value = -1
	}
	for _, b := range data {
		value = (value << 8) | int64(b)
	}
	return value
}

// UnsignedInteger backs Counter32, Gauge32, TimeTicks, Counter64, and
// UInteger32 (spec §3, §4.3): minimal unsigned big-endian, with a mandatory
// leading 0x00 when the high bit of the first byte would otherwise be set.
// The concrete SNMP type is carried in tag; value width is whatever the
// decoded length implies, so Counter64 may occupy 1..9 bytes.
type UnsignedInteger struct {
	tag   Tag
	Value uint64
}

func NewCounter32(v uint32) *UnsignedInteger { return &UnsignedInteger{tag: appTag(0x01), Value: uint64(v)} }
func NewGauge32(v uint32) *UnsignedInteger   { return &UnsignedInteger{tag: appTag(0x02), Value: uint64(v)} }
func NewTimeTicks(v uint32) *UnsignedInteger { return &UnsignedInteger{tag: appTag(0x03), Value: uint64(v)} }
func NewCounter64(v uint64) *UnsignedInteger { return &UnsignedInteger{tag: appTag(0x06), Value: v} }
func NewUInteger32(v uint32) *UnsignedInteger {
	return &UnsignedInteger{tag: appTag(0x07), Value: uint64(v)}
}

func (u *UnsignedInteger) Tag() Tag       { return u.tag }
func (u *UnsignedInteger) Size() int      { return headerSize(len(encodeUnsignedInt(u.Value))) }
func (u *UnsignedInteger) Recompute() int { return u.Size() }

func (u *UnsignedInteger) Encode(dst Sink) error {
	return encodeTLV(dst, u.tag, encodeUnsignedInt(u.Value))
}

func (u *UnsignedInteger) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	u.Value = decodeUnsignedInt(payload)
	return nil
}

// encodeUnsignedInt produces the minimal unsigned big-endian encoding,
// always at least one byte, with a leading 0x00 prepended whenever the MSB
// would otherwise be set.
func encodeUnsignedInt(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var buf []byte
	v := value
	for v > 0 {
		buf = append([]byte{byte(v)}, buf...)
		v >>= 8
	}
	if buf[0]&0x80 != 0 {
		buf = append([]byte{0x00}, buf...)
	}
	return buf
}

func decodeUnsignedInt(data []byte) uint64 {
	var value uint64
	for _, b := range data {
		value = (value << 8) | uint64(b)
	}
	return value
}

// OctetString is the BER OCTET STRING type (tag 0x04): an owned, possibly
// empty byte buffer.
type OctetString struct {
	Value []byte
}

func (s *OctetString) Tag() Tag       { return Tag{Class: ClassUniversal, Number: 0x04} }
func (s *OctetString) Size() int      { return headerSize(len(s.Value)) }
func (s *OctetString) Recompute() int { return s.Size() }

func (s *OctetString) Encode(dst Sink) error {
	return encodeTLV(dst, s.Tag(), s.Value)
}

func (s *OctetString) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	s.Value = payload
	return nil
}

// Bit reports bit i of the string (byte i/8, mask 0x80>>(i%8)), used by
// callers decoding MIB BITS-style encodings stored as OCTET STRING.
func (s *OctetString) Bit(i int) bool {
	byteIdx, bitIdx := i/8, i%8
	if byteIdx < 0 || byteIdx >= len(s.Value) {
		return false
	}
	return s.Value[byteIdx]&(0x80>>uint(bitIdx)) != 0
}

// Null is the BER NULL type (tag 0x05): zero payload.
type Null struct{}

func (n *Null) Tag() Tag                          { return Tag{Class: ClassUniversal, Number: 0x05} }
func (n *Null) Size() int                         { return 2 }
func (n *Null) Recompute() int                    { return 2 }
func (n *Null) Encode(dst Sink) error              { return encodeTLV(dst, n.Tag(), nil) }
func (n *Null) decodeBody(src Source, length int) error {
	_, err := readExact(src, length)
	return err
}

// nullLike implements the three context-tagged exception values
// (NoSuchObject, NoSuchInstance, EndOfMibView): zero payload, distinguished
// only by tag.
type nullLike struct {
	tag  Tag
	name string
}

func newNoSuchObject() *nullLike   { return &nullLike{tag: Tag{Class: ClassContext, Number: 0}, name: "noSuchObject"} }
func newNoSuchInstance() *nullLike { return &nullLike{tag: Tag{Class: ClassContext, Number: 1}, name: "noSuchInstance"} }
func newEndOfMibView() *nullLike   { return &nullLike{tag: Tag{Class: ClassContext, Number: 2}, name: "endOfMibView"} }

func (n *nullLike) Tag() Tag       { return n.tag }
func (n *nullLike) Size() int      { return 2 }
func (n *nullLike) Recompute() int { return 2 }
func (n *nullLike) Encode(dst Sink) error {
	return encodeTLV(dst, n.tag, nil)
}
func (n *nullLike) decodeBody(src Source, length int) error {
	_, err := readExact(src, length)
	return err
}
func (n *nullLike) String() string { return n.name }

// ObjectIdentifier is the BER OBJECT IDENTIFIER type (tag 0x06). Internal
// representation is the human-readable dotted-decimal string (spec §4.3,
// §9): encode parses it left-to-right, decode rebuilds it with a single
// strings.Builder pass (no leading or trailing dot).
type ObjectIdentifier struct {
	Value string
}

func NewObjectIdentifier(dotted string) *ObjectIdentifier {
	return &ObjectIdentifier{Value: dotted}
}

func (o *ObjectIdentifier) Tag() Tag { return Tag{Class: ClassUniversal, Number: 0x06} }

func (o *ObjectIdentifier) Size() int {
	body, _ := encodeOIDString(o.Value)
	return headerSize(len(body))
}
func (o *ObjectIdentifier) Recompute() int { return o.Size() }

func (o *ObjectIdentifier) Encode(dst Sink) error {
	body, err := encodeOIDString(o.Value)
	if err != nil {
		return err
	}
	return encodeTLV(dst, o.Tag(), body)
}

func (o *ObjectIdentifier) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	s, err := decodeOIDString(payload)
	if err != nil {
		return err
	}
	o.Value = s
	return nil
}

// encodeOIDString encodes a dotted-decimal OID string to its BER
// sub-identifier byte stream. The first two components collapse into one
// sub-identifier (40*a + b), base-128 encoded like the rest, so it is a
// single byte up to 127; EncodeError is returned if a is not in {0,1,2} or a OID
// is not canonical (spec §4.6 StructureError/EncodeError boundary).
func encodeOIDString(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, &EncodeError{Reason: "empty OID"}
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, &EncodeError{Reason: "OID needs at least two components"}
	}

	ints := make([]uint32, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, &EncodeError{Reason: "non-numeric OID component: " + p}
		}
		ints[i] = uint32(n)
	}

	if ints[0] > 2 || (ints[0] < 2 && ints[1] > 39) {
		return nil, &EncodeError{Reason: "first two OID components out of canonical range"}
	}

	var buf []byte
	buf = append(buf, encodeOIDComponent(ints[0]*40+ints[1])...)
	for i := 2; i < len(ints); i++ {
		buf = append(buf, encodeOIDComponent(ints[i])...)
	}
	return buf, nil
}

func encodeOIDComponent(value uint32) []byte {
	if value < 128 {
		return []byte{byte(value)}
	}
	var groups []byte
	groups = append(groups, byte(value&0x7F))
	value >>= 7
	for value > 0 {
		groups = append(groups, byte(value&0x7F)|0x80)
		value >>= 7
	}
	buf := make([]byte, len(groups))
	for i, g := range groups {
		buf[len(groups)-1-i] = g
	}
	return buf
}

func decodeOIDString(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ShortPayloadError{Reason: "empty OID payload"}
	}

	var b strings.Builder
	var current uint64
	first := true
	for i := 0; i < len(data); i++ {
		current = (current << 7) | uint64(data[i]&0x7F)
		if data[i]&0x80 == 0 {
			if first {
				// The first sub-identifier is 40*a + b, with a capped at 2.
				a := current / 40
				if a > 2 {
					a = 2
				}
				b.WriteString(strconv.FormatUint(a, 10))
				current -= 40 * a
				first = false
			}
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(strconv.FormatUint(current, 10))
			current = 0
		}
	}
	return b.String(), nil
}

// IPAddress is the BER IpAddress type (tag 0x40, Application class):
// exactly four bytes, network order.
type IPAddress struct {
	Value [4]byte
}

func NewIPAddress(a, b, c, d byte) *IPAddress {
	return &IPAddress{Value: [4]byte{a, b, c, d}}
}

func (ip *IPAddress) Tag() Tag       { return appTag(0x00) }
func (ip *IPAddress) Size() int      { return 6 }
func (ip *IPAddress) Recompute() int { return 6 }

func (ip *IPAddress) Encode(dst Sink) error {
	return encodeTLV(dst, ip.Tag(), ip.Value[:])
}

func (ip *IPAddress) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	if len(payload) != 4 {
		return &StructureError{Reason: "IPAddress payload must be 4 bytes"}
	}
	copy(ip.Value[:], payload)
	return nil
}

func (ip *IPAddress) String() string {
	return strconv.Itoa(int(ip.Value[0])) + "." + strconv.Itoa(int(ip.Value[1])) + "." +
		strconv.Itoa(int(ip.Value[2])) + "." + strconv.Itoa(int(ip.Value[3]))
}

// Float is the BER Float application type (tag 0x48): exactly four bytes,
// IEEE-754 single precision, big-endian.
type Float struct {
	Value float32
}

func (f *Float) Tag() Tag       { return appTag(0x08) }
func (f *Float) Size() int      { return 6 }
func (f *Float) Recompute() int { return 6 }

func (f *Float) Encode(dst Sink) error {
	return encodeTLV(dst, f.Tag(), encodeFloatBits(f.Value))
}

func (f *Float) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	if len(payload) != 4 {
		return &StructureError{Reason: "Float payload must be 4 bytes"}
	}
	f.Value = decodeFloatBits(payload)
	return nil
}

func encodeFloatBits(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
}

func decodeFloatBits(data []byte) float32 {
	bits := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	return math.Float32frombits(bits)
}

// OpaqueFloat is a Float wrapped so it is recognizably floating point
// inside an Opaque envelope: same four-byte IEEE-754 payload as Float, but
// tagged with the two-byte SNMP-specific tag 0x9F 0x78 (Context class,
// number 120 under the generic long-form tag rule). It is always produced
// and consumed inside an Opaque container (spec §3, §4.3, §8 scenario 5).
type OpaqueFloat struct {
	Value float32
}

func (f *OpaqueFloat) Tag() Tag       { return Tag{Class: ClassContext, Constructed: false, Number: 0x78} }
func (f *OpaqueFloat) Size() int      { return f.Tag().Size() + 1 + 4 }
func (f *OpaqueFloat) Recompute() int { return f.Size() }

func (f *OpaqueFloat) Encode(dst Sink) error {
	return encodeTLV(dst, f.Tag(), encodeFloatBits(f.Value))
}

func (f *OpaqueFloat) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	if len(payload) != 4 {
		return &StructureError{Reason: "OpaqueFloat payload must be 4 bytes"}
	}
	f.Value = decodeFloatBits(payload)
	return nil
}

// headerSize returns 1 (tag byte, for the single-byte-tag primitives this
// file defines) plus the length-field size plus the payload itself.
func headerSize(payloadLen int) int {
	return 1 + lengthSize(payloadLen) + payloadLen
}
