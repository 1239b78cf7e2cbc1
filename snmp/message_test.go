package snmp

import (
	"bytes"
	"testing"
)

func TestGetRequestBuildParseRoundTrip(t *testing.T) {
	pdu := NewGetRequest(1, MustParseOID("1.3.6.1.2.1.1.1.0"))
	msg := NewMessage(Version2c, "public", pdu)

	data, err := msg.Build(0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	back, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if back.Version != Version2c || back.Community != "public" {
		t.Fatalf("unexpected message header: %+v", back)
	}
	if back.PDU.Type != PDUGetRequest || back.PDU.RequestID != 1 {
		t.Fatalf("unexpected PDU: %+v", back.PDU)
	}
	if back.PDU.VarBinds.Len() != 1 || back.PDU.VarBinds.At(0).Name.Value != "1.3.6.1.2.1.1.1.0" {
		t.Fatalf("unexpected varbinds: %+v", back.PDU.VarBinds)
	}
}

func TestBuildIntoStreamMatchesBuild(t *testing.T) {
	pdu := NewGetRequest(7, MustParseOID("1.3.6.1.2.1.1.5.0"))
	msg := NewMessage(Version2c, "public", pdu)

	buffered, err := msg.Build(0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var streamed bytes.Buffer
	if err := msg.BuildIntoStream(&streamed, 0); err != nil {
		t.Fatalf("BuildIntoStream: %v", err)
	}
	if !bytesEqual(buffered, streamed.Bytes()) {
		t.Fatalf("stream encoding diverged from buffer encoding:\n% X\n% X", streamed.Bytes(), buffered)
	}

	back, err := ParseFromStream(&streamed)
	if err != nil {
		t.Fatalf("ParseFromStream: %v", err)
	}
	if back.PDU.RequestID != 7 {
		t.Fatalf("got request id %d, want 7", back.PDU.RequestID)
	}
}

func TestGetBulkRequestV1Rejected(t *testing.T) {
	pdu := NewGetBulkRequest(1, 0, 10, MustParseOID("1.3.6.1.2.1.2.2.1"))
	msg := NewMessage(Version1, "public", pdu)

	if _, err := msg.Build(0); err == nil {
		t.Fatal("expected EncodeError for v1 message carrying GetBulkRequest")
	}
}

func TestTrapV1RoundTrip(t *testing.T) {
	trap := NewTrapV1(
		MustParseOID("1.3.6.1.4.1.9999"),
		[4]byte{10, 0, 0, 1},
		6, 1, 12345,
		Variable{OID: MustParseOID("1.3.6.1.2.1.1.1.0"), Type: TypeOctetString, Value: []byte("hello")},
	)
	msg := NewTrapV1Message("public", trap)

	data, err := msg.Build(0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	back, err := ParseMessage(data)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if back.TrapV1 == nil {
		t.Fatal("expected a v1 trap on parse")
	}
	if back.TrapV1.GenericTrap != 6 || back.TrapV1.SpecificTrap != 1 {
		t.Fatalf("unexpected trap codes: %+v", back.TrapV1)
	}
	if back.TrapV1.Timestamp != 12345 {
		t.Fatalf("got timestamp %d, want 12345", back.TrapV1.Timestamp)
	}
	if back.TrapV1.AgentAddress != [4]byte{10, 0, 0, 1} {
		t.Fatalf("got agent address %v", back.TrapV1.AgentAddress)
	}
}

func TestOpaqueFloatVariableRoundTrip(t *testing.T) {
	v := Variable{OID: MustParseOID("1.3.6.1.4.1.1.1"), Type: TypeOpaque, Value: float32(98.6)}
	val, err := valueFromVariable(v)
	if err != nil {
		t.Fatalf("valueFromVariable: %v", err)
	}
	opq, ok := val.(*Opaque)
	if !ok {
		t.Fatalf("expected *Opaque, got %T", val)
	}

	out := variableFromValue(v.OID, opq)
	f, ok := out.Value.(float32)
	if !ok || f != 98.6 {
		t.Fatalf("got %v, want float32(98.6)", out.Value)
	}
}

func TestMapV2ErrorToV1(t *testing.T) {
	cases := []struct {
		in   ErrorStatus
		want ErrorStatus
	}{
		{WrongValue, BadValue},
		{NoAccess, NoSuchName},
		{CommitFailed, GenErr},
		{NoError, NoError},
	}
	for _, c := range cases {
		if got := MapV2ErrorToV1(c.in); got != c.want {
			t.Fatalf("MapV2ErrorToV1(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

