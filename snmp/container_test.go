package snmp

import "testing"

func TestOpaqueFloatWireForm(t *testing.T) {
	// spec.md §8 scenario 5: 44 07 9F 78 04 <4 bytes>.
	o := NewOpaque(&OpaqueFloat{Value: 1.0})
	got := encodeValue(t, o)

	want := []byte{0x44, 0x07, 0x9F, 0x78, 0x04}
	want = append(want, encodeFloatBits(1.0)...)
	if !bytesEqual(got, want) {
		t.Fatalf("Opaque(OpaqueFloat) = % X, want % X", got, want)
	}
	if o.Size() != 9 {
		t.Fatalf("Opaque.Size() = %d, want 9", o.Size())
	}
	if o.Inner.Size() != 7 {
		t.Fatalf("OpaqueFloat.Size() = %d, want 7", o.Inner.Size())
	}

	back := decodeValue_(t, got).(*Opaque)
	inner, ok := back.Inner.(*OpaqueFloat)
	if !ok {
		t.Fatalf("decoded inner is %T, want *OpaqueFloat", back.Inner)
	}
	if inner.Value != 1.0 {
		t.Fatalf("got %v, want 1.0", inner.Value)
	}
}

func TestVarBindRoundTrip(t *testing.T) {
	vb := NewVarBind("1.3.6.1.2.1.1.1.0")
	vb.Value = &OctetString{Value: []byte("a device")}

	vb.Recompute()
	buf := newBufferSink(vb.Size())
	if err := vb.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	back := &VarBind{}
	src := newBufferSource(buf.Bytes())
	tag, err := DecodeTag(src)
	if err != nil {
		t.Fatalf("DecodeTag: %v", err)
	}
	length, err := DecodeLength(src)
	if err != nil {
		t.Fatalf("DecodeLength: %v", err)
	}
	if err := back.decodeBody(src, length); err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	_ = tag

	if back.Name.Value != "1.3.6.1.2.1.1.1.0" {
		t.Fatalf("got OID %q", back.Name.Value)
	}
	os, ok := back.Value.(*OctetString)
	if !ok || string(os.Value) != "a device" {
		t.Fatalf("got value %+v", back.Value)
	}
}

func TestSequenceCapacityExceeded(t *testing.T) {
	seq := NewSequenceWithCapacity(Tag{Class: ClassUniversal, Constructed: true, Number: 0x10}, 1)
	if err := seq.Add(new(Null)); err != nil {
		t.Fatalf("first Add should succeed: %v", err)
	}
	err := seq.Add(new(Null))
	if err == nil {
		t.Fatal("expected CapacityExceededError on second Add")
	}
	if _, ok := err.(*CapacityExceededError); !ok {
		t.Fatalf("expected *CapacityExceededError, got %T", err)
	}
}

func TestVarBindListRoundTrip(t *testing.T) {
	list := NewVarBindList()
	list.Add(NewVarBind("1.3.6.1.2.1.1.1.0"))
	vb2 := NewVarBind("1.3.6.1.2.1.1.3.0")
	vb2.Value = NewTimeTicks(12345)
	list.Add(vb2)

	list.Recompute()
	buf := newBufferSink(list.Size())
	if err := list.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	back := NewVarBindList()
	src := newBufferSource(buf.Bytes())
	if _, err := DecodeTag(src); err != nil {
		t.Fatalf("DecodeTag: %v", err)
	}
	length, err := DecodeLength(src)
	if err != nil {
		t.Fatalf("DecodeLength: %v", err)
	}
	if err := back.decodeBody(src, length); err != nil {
		t.Fatalf("decodeBody: %v", err)
	}

	if back.Len() != 2 {
		t.Fatalf("got %d varbinds, want 2", back.Len())
	}
	if back.At(0).Name.Value != "1.3.6.1.2.1.1.1.0" {
		t.Fatalf("unexpected first OID %q", back.At(0).Name.Value)
	}
	tt, ok := back.At(1).Value.(*UnsignedInteger)
	if !ok || tt.Value != 12345 {
		t.Fatalf("unexpected second value %+v", back.At(1).Value)
	}
}

func TestSequenceTrailingBytesRejected(t *testing.T) {
	// A single Integer(0) is 3 bytes; declare a length of 4 so one stray
	// byte is left over after decoding the child.
	body := []byte{0x02, 0x01, 0x00, 0xFF}
	seq := &Sequence{tag: Tag{Class: ClassUniversal, Constructed: true, Number: 0x10}}
	err := seq.decodeBody(newBufferSource(body), len(body))
	if err == nil {
		t.Fatal("expected TrailingBytesError")
	}
	if _, ok := err.(*TrailingBytesError); !ok {
		t.Fatalf("expected *TrailingBytesError, got %T", err)
	}
}
