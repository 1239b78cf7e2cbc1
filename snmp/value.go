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

// Value is the common interface every BER-encodable object implements:
// primitives (Boolean, Integer, OctetString, ...) and constructed containers
// (Sequence, VarBind, VarBindList, Opaque) alike. This models the source's
// abstract-base/virtual-dispatch hierarchy as a single Go interface over a
// closed set of concrete types (spec §9) rather than a class tree.
type Value interface {
	// Tag returns the BER identifier this value encodes under.
	Tag() Tag

	// Size returns the total encoded size (tag + length + payload) using
	// whatever child sizes are currently cached. Constructed values must be
	// asked to Recompute before an authoritative Size is needed (spec §4.7).
	Size() int

	// Recompute forces a fresh size calculation, walking children
	// recursively for constructed values, and returns the result.
	Recompute() int

	// Encode writes the full TLV encoding (tag, length, payload) to dst.
	Encode(dst Sink) error

	// decodeBody reads exactly `length` bytes of payload from src. The tag
	// has already been consumed by the caller (container loop or factory).
	decodeBody(src Source, length int) error
}

// newEmpty is the polymorphic decoder factory (spec §4.5): given a decoded
// tag, it returns a freshly constructed empty Value of the matching
// variant, ready for decodeBody to populate it.
func newEmpty(tag Tag) (Value, error) {
	if tag.Class == ClassContext && !tag.Constructed {
		switch tag.Number {
		case 0:
			return &nullLike{tag: tag, name: "noSuchObject"}, nil
		case 1:
			return &nullLike{tag: tag, name: "noSuchInstance"}, nil
		case 2:
			return &nullLike{tag: tag, name: "endOfMibView"}, nil
		}
	}

	if tag.Class == ClassContext && tag.Constructed {
		// All PDU tags (GetRequest..Report, 0xA0..0xA8) map to a Sequence
		// carrying the tag verbatim so callers can re-dispatch on it.
		return &Sequence{tag: tag}, nil
	}

	if tag.Class == ClassUniversal && !tag.Constructed {
		switch tag.Number {
		case 0x01:
			return new(Boolean), nil
		case 0x02:
			return new(Integer), nil
		case 0x04:
			return new(OctetString), nil
		case 0x05:
			return new(Null), nil
		case 0x06:
			return new(ObjectIdentifier), nil
		}
	}

	if tag.Class == ClassUniversal && tag.Constructed && tag.Number == 0x10 {
		return &Sequence{tag: tag}, nil
	}

	if tag.Class == ClassApplication && !tag.Constructed {
		switch tag.Number {
		case 0x00:
			return new(IPAddress), nil
		case 0x01, 0x02, 0x03, 0x06, 0x07:
			// Counter32, Gauge32, TimeTicks, Counter64, UInteger32: same
			// minimal-unsigned encoding, distinguished only by tag.
			return &UnsignedInteger{tag: appTag(tag.Number)}, nil
		case 0x04:
			return new(Opaque), nil
		case 0x08:
			return new(Float), nil
		}
	}

	if tag.Class == ClassContext && !tag.Constructed && tag.Number == 0x78 {
		// OpaqueFloat's tag (0x9F 0x78) decodes to Context class, number
		// 120 (0x78) under the generic long-form tag rule: 0x9F is class
		// bits 10 (Context), primitive, low five bits 0x1F (long form), and
		// the single following group 0x78 is the number.
		return new(OpaqueFloat), nil
	}

	return nil, &UnknownTagError{Tag: tag}
}

// appTag builds an APPLICATION-class primitive Tag with the given number,
// used for the Counter32/Gauge32/TimeTicks family in §3's wire table.
func appTag(n uint32) Tag {
	return Tag{Class: ClassApplication, Constructed: false, Number: n}
}

// decodeValue reads one full TLV (tag, length, body) from src and returns
// the materialized Value via the factory.
func decodeValue(src Source) (Value, error) {
	tag, err := DecodeTag(src)
	if err != nil {
		return nil, err
	}
	length, err := DecodeLength(src)
	if err != nil {
		return nil, err
	}
	v, err := newEmpty(tag)
	if err != nil {
		return nil, err
	}
	if err := v.decodeBody(src, length); err != nil {
		return nil, err
	}
	return v, nil
}

// encodeTLV is the shared tag+length+payload writer every concrete Value's
// Encode method delegates to.
func encodeTLV(dst Sink, tag Tag, payload []byte) error {
	var head []byte
	head = tag.Encode(head)
	head = EncodeLength(head, len(payload))
	if _, err := dst.Write(head); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := dst.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// readExact reads exactly n bytes of payload from src, translating a short
// read into the spec's ShortPayloadError.
func readExact(src Source, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := src.Read(buf[read:])
		read += m
		if err != nil {
			if read < n {
				return nil, &ShortPayloadError{Reason: "declared length exceeds available input"}
			}
			break
		}
	}
	return buf, nil
}
