package snmp

import "testing"

func TestTagEncodeDecodeShortForm(t *testing.T) {
	cases := []Tag{
		{Class: ClassApplication, Constructed: false, Number: 1}, // Counter32
		{Class: ClassContext, Constructed: true, Number: 0},      // GetRequest-PDU
		{Class: ClassUniversal, Constructed: false, Number: 2},   // Integer
		{Class: ClassPrivate, Constructed: false, Number: 30},
	}

	for _, tag := range cases {
		buf := tag.Encode(nil)
		if len(buf) != tag.Size() {
			t.Fatalf("Size()=%d but Encode produced %d bytes for %+v", tag.Size(), len(buf), tag)
		}

		src := newBufferSource(buf)
		got, err := DecodeTag(src)
		if err != nil {
			t.Fatalf("DecodeTag: %v", err)
		}
		if !got.Equal(tag) {
			t.Fatalf("round-trip mismatch: got %+v, want %+v", got, tag)
		}
	}
}

func TestTagEncodeDecodeLongForm(t *testing.T) {
	// A tag number above the 5-bit short-form ceiling (31) forces the
	// multi-byte long form; OpaqueFloat's real context-class tag (0x9F 0x78)
	// is covered end to end in container_test.go's TestOpaqueFloatWireForm.
	tag := Tag{Class: ClassContext, Constructed: false, Number: 0x78}

	buf := tag.Encode(nil)
	if len(buf) != 2 {
		t.Fatalf("expected 2-byte long-form tag, got %d bytes: % X", len(buf), buf)
	}
	if buf[0]&0x1F != 0x1F {
		t.Fatalf("expected long-form marker in lead byte, got %X", buf[0])
	}

	src := newBufferSource(buf)
	got, err := DecodeTag(src)
	if err != nil {
		t.Fatalf("DecodeTag: %v", err)
	}
	if !got.Equal(tag) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, tag)
	}
}

func TestDecodeTagMissingByte(t *testing.T) {
	src := newBufferSource(nil)
	if _, err := DecodeTag(src); err == nil {
		t.Fatal("expected error decoding tag from empty source")
	}
}

func TestDecodeTagLongFormTruncated(t *testing.T) {
	// Long-form marker with no continuation byte at all.
	src := newBufferSource([]byte{0x1F})
	if _, err := DecodeTag(src); err == nil {
		t.Fatal("expected error for truncated long-form tag")
	}
}

func TestByteTagGetRequest(t *testing.T) {
	// GetRequest-PDU: context class, constructed, number 0 -> 0xA0.
	tag := byteTag(0xA0)
	if tag.Class != ClassContext || !tag.Constructed || tag.Number != 0 {
		t.Fatalf("unexpected decode of 0xA0: %+v", tag)
	}
}
