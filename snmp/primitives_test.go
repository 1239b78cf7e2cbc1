package snmp

import "testing"

func encodeValue(t *testing.T, v Value) []byte {
	t.Helper()
	v.Recompute()
	buf := newBufferSink(v.Size())
	if err := v.Encode(buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func decodeValue_(t *testing.T, data []byte) Value {
	t.Helper()
	v, err := decodeValue(newBufferSource(data))
	if err != nil {
		t.Fatalf("decodeValue: %v", err)
	}
	return v
}

func TestIntegerMinimalEncoding(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x02, 0x01, 0x00}},
		{127, []byte{0x02, 0x01, 0x7F}},
		{128, []byte{0x02, 0x02, 0x00, 0x80}},
		{-1, []byte{0x02, 0x01, 0xFF}},
		{-128, []byte{0x02, 0x01, 0x80}},
		{-129, []byte{0x02, 0x02, 0xFF, 0x7F}},
	}
	for _, c := range cases {
		got := encodeValue(t, &Integer{Value: c.v})
		if !bytesEqual(got, c.want) {
			t.Fatalf("Integer(%d) encoded as % X, want % X", c.v, got, c.want)
		}
		back := decodeValue_(t, got).(*Integer)
		if back.Value != c.v {
			t.Fatalf("round-trip mismatch: got %d, want %d", back.Value, c.v)
		}
	}
}

func TestUnsignedIntegerFamily(t *testing.T) {
	ctr := NewCounter64(1<<63 | 5)
	got := encodeValue(t, ctr)
	back := decodeValue_(t, got).(*UnsignedInteger)
	if back.Value != ctr.Value {
		t.Fatalf("Counter64 round-trip: got %d, want %d", back.Value, ctr.Value)
	}
	if !back.Tag().Equal(appTag(0x06)) {
		t.Fatalf("Counter64 decoded with wrong tag: %+v", back.Tag())
	}

	tt := NewTimeTicks(0)
	got = encodeValue(t, tt)
	if !bytesEqual(got, []byte{0x43, 0x01, 0x00}) {
		t.Fatalf("TimeTicks(0) = % X, want 43 01 00", got)
	}
}

func TestOctetStringRoundTrip(t *testing.T) {
	s := &OctetString{Value: []byte("public")}
	got := encodeValue(t, s)
	back := decodeValue_(t, got).(*OctetString)
	if string(back.Value) != "public" {
		t.Fatalf("got %q, want %q", back.Value, "public")
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	cases := []string{"1.3.6.1.2.1.1.1.0", "0.0", "2.999.3"}
	for _, oid := range cases {
		got := encodeValue(t, NewObjectIdentifier(oid))
		back := decodeValue_(t, got).(*ObjectIdentifier)
		if back.Value != oid {
			t.Fatalf("OID round-trip: got %q, want %q", back.Value, oid)
		}
	}
}

func TestObjectIdentifierCanonicalRangeRejected(t *testing.T) {
	oid := NewObjectIdentifier("3.1.2")
	if err := oid.Encode(newBufferSink(0)); err == nil {
		t.Fatal("expected EncodeError for first component > 2")
	}
}

func TestNullLikeExceptionValues(t *testing.T) {
	v := newNoSuchInstance()
	got := encodeValue(t, v)
	if !bytesEqual(got, []byte{0x81, 0x00}) {
		t.Fatalf("noSuchInstance = % X, want 81 00", got)
	}
	back := decodeValue_(t, got).(*nullLike)
	if back.name != "noSuchInstance" {
		t.Fatalf("got %q, want noSuchInstance", back.name)
	}
}

func TestIPAddressRoundTrip(t *testing.T) {
	ip := NewIPAddress(192, 168, 1, 1)
	got := encodeValue(t, ip)
	back := decodeValue_(t, got).(*IPAddress)
	if back.String() != "192.168.1.1" {
		t.Fatalf("got %q, want 192.168.1.1", back.String())
	}
}

func TestFloatRoundTrip(t *testing.T) {
	f := &Float{Value: 3.5}
	got := encodeValue(t, f)
	back := decodeValue_(t, got).(*Float)
	if back.Value != 3.5 {
		t.Fatalf("got %v, want 3.5", back.Value)
	}
}
