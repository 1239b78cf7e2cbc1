package snmp

import "testing"

func TestEncodeLengthShortForm(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{7, []byte{0x07}},
		{127, []byte{0x7F}},
	}
	for _, c := range cases {
		got := EncodeLength(nil, c.n)
		if !bytesEqual(got, c.want) {
			t.Fatalf("EncodeLength(%d) = % X, want % X", c.n, got, c.want)
		}
	}
}

func TestEncodeLengthLongForm(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{128, []byte{0x81, 0x80}},
		{255, []byte{0x81, 0xFF}},
		{256, []byte{0x82, 0x01, 0x00}},
	}
	for _, c := range cases {
		got := EncodeLength(nil, c.n)
		if !bytesEqual(got, c.want) {
			t.Fatalf("EncodeLength(%d) = % X, want % X", c.n, got, c.want)
		}
	}
}

func TestLengthRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 200, 65535, 1 << 20} {
		buf := EncodeLength(nil, n)
		got, err := DecodeLength(newBufferSource(buf))
		if err != nil {
			t.Fatalf("DecodeLength(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("round-trip mismatch: got %d, want %d", got, n)
		}
	}
}

func TestDecodeLengthIndefiniteFormRejected(t *testing.T) {
	_, err := DecodeLength(newBufferSource([]byte{0x80}))
	if err == nil {
		t.Fatal("expected indefinite-length form to be rejected")
	}
}

func TestDecodeLengthTooWideRejected(t *testing.T) {
	_, err := DecodeLength(newBufferSource([]byte{0x85, 1, 2, 3, 4, 5}))
	if err == nil {
		t.Fatal("expected overly wide length field to be rejected")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
