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

// Sequence is the generic BER constructed container (tag 0x30, Universal;
// or a context-tagged PDU shell such as 0xA0..0xA8): an ordered list of
// child Values with a cached encoded length (spec §4.4, §4.7 size oracle).
//
// Every SNMP PDU shape (GetRequest, Trap, ...) is built and parsed as a
// Sequence whose tag carries the PDU type; message.go interprets the
// children, it does not subclass Sequence.
type Sequence struct {
	tag        Tag
	children   []Value
	capacity   int // 0 means unbounded; see ClientOptions container-capacity knob
	size       int
	recomputed bool
}

// NewSequence returns an empty Sequence under tag, with no capacity limit.
func NewSequence(tag Tag) *Sequence {
	return &Sequence{tag: tag}
}

// NewSequenceWithCapacity returns an empty Sequence that rejects Add past
// capacity children (spec §6 "container-capacity knob").
func NewSequenceWithCapacity(tag Tag, capacity int) *Sequence {
	return &Sequence{tag: tag, capacity: capacity}
}

func (s *Sequence) Tag() Tag { return s.tag }

// Len returns the current number of children.
func (s *Sequence) Len() int { return len(s.children) }

// At returns the child at index i.
func (s *Sequence) At(i int) Value { return s.children[i] }

// Children returns the live child slice; callers must not mutate it.
func (s *Sequence) Children() []Value { return s.children }

// Add appends a child, returning CapacityExceededError if a capacity limit
// is set and already reached.
func (s *Sequence) Add(v Value) error {
	if s.capacity > 0 && len(s.children) >= s.capacity {
		return &CapacityExceededError{Capacity: s.capacity}
	}
	s.children = append(s.children, v)
	return nil
}

// RemoveLast drops the most recently added child, if any.
func (s *Sequence) RemoveLast() {
	if len(s.children) == 0 {
		return
	}
	s.children = s.children[:len(s.children)-1]
}

// Size returns the cached total TLV size, recomputing once on first call so
// a Sequence that was never explicitly Recompute()'d (including an empty
// one) still reports its true tag+length size instead of a stale zero.
func (s *Sequence) Size() int {
	if !s.recomputed {
		return s.Recompute()
	}
	return s.size
}

// Recompute walks every child's Recompute and caches the resulting total.
func (s *Sequence) Recompute() int {
	payload := 0
	for _, c := range s.children {
		payload += c.Recompute()
	}
	s.size = headerSize(payload)
	s.recomputed = true
	return s.size
}

func (s *Sequence) Encode(dst Sink) error {
	payload := newBufferSink(s.size)
	for _, c := range s.children {
		if err := c.Encode(payload); err != nil {
			return err
		}
	}
	return encodeTLV(dst, s.tag, payload.Bytes())
}

func (s *Sequence) decodeBody(src Source, length int) error {
	body, err := readExact(src, length)
	if err != nil {
		return err
	}
	region := newCountingSource(newBufferSource(body))

	var children []Value
	for region.consumed < len(body) {
		v, err := decodeValue(region)
		if err != nil {
			switch err.(type) {
			case *MalformedTagError, *MalformedLengthError:
				// The child's tag or length header ran off the end of this
				// region: the child overshoots the declared length.
				if region.consumed >= len(body) {
					return &TrailingBytesError{Reason: "a child's encoding runs past the sequence's declared length"}
				}
			}
			return err
		}
		children = append(children, v)
	}
	if region.consumed != len(body) {
		return &TrailingBytesError{Reason: "sequence children did not exactly consume declared length"}
	}
	s.children = children
	s.recomputed = false
	return nil
}

// VarBind is a Sequence specialization holding exactly one ObjectIdentifier
// and one value (spec §4.4). The zero VarBind has nil Name and Value;
// NewVarBind sets Value to Null.
type VarBind struct {
	Name  *ObjectIdentifier
	Value Value
}

// NewVarBind returns a VarBind for oid, defaulting its value to Null until
// a response supplies one.
func NewVarBind(oid string) *VarBind {
	return &VarBind{Name: NewObjectIdentifier(oid), Value: new(Null)}
}

func (v *VarBind) toSequence() *Sequence {
	seq := NewSequence(Tag{Class: ClassUniversal, Constructed: true, Number: 0x10})
	seq.children = []Value{v.Name, v.Value}
	return seq
}

func (v *VarBind) Tag() Tag       { return v.toSequence().tag }
func (v *VarBind) Size() int      { return v.toSequence().Recompute() }
func (v *VarBind) Recompute() int { return v.Size() }
func (v *VarBind) Encode(dst Sink) error {
	seq := v.toSequence()
	seq.Recompute()
	return seq.Encode(dst)
}

func (v *VarBind) decodeBody(src Source, length int) error {
	seq := &Sequence{tag: Tag{Class: ClassUniversal, Constructed: true, Number: 0x10}}
	if err := seq.decodeBody(src, length); err != nil {
		return err
	}
	if seq.Len() != 2 {
		return &StructureError{Reason: "VarBind must have exactly two children (name, value)"}
	}
	name, ok := seq.At(0).(*ObjectIdentifier)
	if !ok {
		return &StructureError{Reason: "VarBind name must be an OBJECT IDENTIFIER"}
	}
	v.Name = name
	v.Value = seq.At(1)
	return nil
}

// VarBindList is an ordered list of VarBind, the payload of every PDU
// (spec §4.6).
type VarBindList struct {
	Items []*VarBind
}

// NewVarBindList returns an empty VarBindList.
func NewVarBindList() *VarBindList { return &VarBindList{} }

// Add appends vb.
func (l *VarBindList) Add(vb *VarBind) { l.Items = append(l.Items, vb) }

// Len returns the number of bindings.
func (l *VarBindList) Len() int { return len(l.Items) }

// At returns the binding at index i.
func (l *VarBindList) At(i int) *VarBind { return l.Items[i] }

func (l *VarBindList) toSequence() *Sequence {
	seq := NewSequence(Tag{Class: ClassUniversal, Constructed: true, Number: 0x10})
	for _, vb := range l.Items {
		seq.children = append(seq.children, vb)
	}
	return seq
}

func (l *VarBindList) Tag() Tag       { return Tag{Class: ClassUniversal, Constructed: true, Number: 0x10} }
func (l *VarBindList) Size() int      { return l.toSequence().Recompute() }
func (l *VarBindList) Recompute() int { return l.Size() }

func (l *VarBindList) Encode(dst Sink) error {
	seq := l.toSequence()
	seq.Recompute()
	return seq.Encode(dst)
}

func (l *VarBindList) decodeBody(src Source, length int) error {
	seq := &Sequence{tag: l.Tag()}
	if err := seq.decodeBody(src, length); err != nil {
		return err
	}
	items := make([]*VarBind, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		inner, ok := seq.At(i).(*Sequence)
		if !ok {
			return &StructureError{Reason: "VarBindList child must be a SEQUENCE"}
		}
		if inner.Len() != 2 {
			return &StructureError{Reason: "VarBind must have exactly two children (name, value)"}
		}
		name, ok := inner.At(0).(*ObjectIdentifier)
		if !ok {
			return &StructureError{Reason: "VarBind name must be an OBJECT IDENTIFIER"}
		}
		items = append(items, &VarBind{Name: name, Value: inner.At(1)})
	}
	l.Items = items
	return nil
}

// Opaque is the BER-application Opaque type (tag 0x44): a primitive (not
// BER-constructed) envelope whose raw payload bytes are themselves the full
// TLV encoding of exactly one inner Value (spec §4.3, worked example in
// §8 scenario 5). This is distinct from true ASN.1 nesting: the outer tag's
// constructed bit is unset even though it logically wraps a child.
type Opaque struct {
	Inner Value
}

// NewOpaque wraps inner in an Opaque envelope.
func NewOpaque(inner Value) *Opaque { return &Opaque{Inner: inner} }

func (o *Opaque) Tag() Tag { return appTag(0x04) }

func (o *Opaque) Size() int {
	inner := o.Inner.Recompute()
	return headerSize(inner)
}
func (o *Opaque) Recompute() int { return o.Size() }

func (o *Opaque) Encode(dst Sink) error {
	o.Inner.Recompute()
	payload := newBufferSink(o.Inner.Size())
	if err := o.Inner.Encode(payload); err != nil {
		return err
	}
	return encodeTLV(dst, o.Tag(), payload.Bytes())
}

func (o *Opaque) decodeBody(src Source, length int) error {
	payload, err := readExact(src, length)
	if err != nil {
		return err
	}
	inner, err := decodeValue(newBufferSource(payload))
	if err != nil {
		return err
	}
	o.Inner = inner
	return nil
}
