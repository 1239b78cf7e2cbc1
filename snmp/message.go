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
	"io"
	"net"
)

// PDU tags (spec.md §4.6). Trap-PDU (0xA4) is v1-only; SNMPv2-Trap (0xA7)
// and InformRequest (0xA6) are v2c-only; GetBulkRequest (0xA5) is v2c-only.
const (
	tagGetRequest     = 0xA0
	tagGetNextRequest = 0xA1
	tagGetResponse    = 0xA2
	tagSetRequest     = 0xA3
	tagTrapV1         = 0xA4
	tagGetBulkRequest = 0xA5
	tagInformRequest  = 0xA6
	tagTrapV2         = 0xA7
)

func pduTag(n uint32) Tag { return byteTag(byte(n)) }

// PDU is a built or parsed SNMP Protocol Data Unit: request ID plus either
// the generic error-status/error-index pair or (for GetBulkRequest) the
// non-repeaters/max-repetitions pair, followed by a VarBindList (spec §4.6).
type PDU struct {
	Type        PDUType
	RequestID   int32
	ErrorStatus ErrorStatus
	ErrorIndex  int

	NonRepeaters   int
	MaxRepetitions int

	VarBinds *VarBindList
}

// NewGetRequest builds a GetRequest PDU over oids, each bound to Null.
func NewGetRequest(requestID int32, oids ...OID) *PDU {
	return &PDU{Type: PDUGetRequest, RequestID: requestID, VarBinds: varBindListFromOIDs(oids)}
}

// NewGetNextRequest builds a GetNextRequest PDU over oids, each bound to Null.
func NewGetNextRequest(requestID int32, oids ...OID) *PDU {
	return &PDU{Type: PDUGetNextRequest, RequestID: requestID, VarBinds: varBindListFromOIDs(oids)}
}

// NewGetBulkRequest builds a GetBulkRequest PDU (v2c only; spec §4.6).
func NewGetBulkRequest(requestID int32, nonRepeaters, maxRepetitions int, oids ...OID) *PDU {
	return &PDU{
		Type:           PDUGetBulkRequest,
		RequestID:      requestID,
		NonRepeaters:   nonRepeaters,
		MaxRepetitions: maxRepetitions,
		VarBinds:       varBindListFromOIDs(oids),
	}
}

// NewSetRequest builds a SetRequest PDU from fully populated variables.
func NewSetRequest(requestID int32, variables ...Variable) *PDU {
	return &PDU{Type: PDUSetRequest, RequestID: requestID, VarBinds: varBindListFromVariables(variables)}
}

// NewGetResponse builds a GetResponse PDU, typically mirroring a request's
// request ID with an error status/index and the resulting bindings.
func NewGetResponse(requestID int32, status ErrorStatus, index int, variables ...Variable) *PDU {
	return &PDU{
		Type:        PDUGetResponse,
		RequestID:   requestID,
		ErrorStatus: status,
		ErrorIndex:  index,
		VarBinds:    varBindListFromVariables(variables),
	}
}

// NewTrapV2 builds an SNMPv2-Trap PDU. sysUpTime is a placeholder value;
// Message.Build overwrites it with the current tick count immediately
// before encoding (Open Question resolution 3 in SPEC_FULL.md).
func NewTrapV2(requestID int32, sysUpTime uint32, trapOID OID, variables ...Variable) *PDU {
	return newV2TrapLike(PDUTrapV2, requestID, sysUpTime, trapOID, variables)
}

// NewInformRequest builds an InformRequest PDU; shape is identical to
// SNMPv2-Trap (spec §4.6).
func NewInformRequest(requestID int32, sysUpTime uint32, trapOID OID, variables ...Variable) *PDU {
	return newV2TrapLike(PDUInformRequest, requestID, sysUpTime, trapOID, variables)
}

func newV2TrapLike(t PDUType, requestID int32, sysUpTime uint32, trapOID OID, variables []Variable) *PDU {
	all := make([]Variable, 0, len(variables)+2)
	all = append(all, Variable{OID: OIDSysUpTime, Type: TypeTimeTicks, Value: sysUpTime})
	all = append(all, Variable{OID: OIDSnmpTrapOID, Type: TypeObjectIdentifier, Value: trapOID})
	all = append(all, variables...)
	return &PDU{Type: t, RequestID: int32(requestID), VarBinds: varBindListFromVariables(all)}
}

func varBindListFromOIDs(oids []OID) *VarBindList {
	l := NewVarBindList()
	for _, oid := range oids {
		l.Add(NewVarBind(oid.String()))
	}
	return l
}

func varBindListFromVariables(variables []Variable) *VarBindList {
	l := NewVarBindList()
	for _, v := range variables {
		val, err := valueFromVariable(v)
		if err != nil {
			// Deferred: Message.Build surfaces this as an EncodeError. A
			// malformed Variable still produces a VarBind so the index
			// lines up with the caller's slice.
			val = &invalidValue{err: err}
		}
		l.Add(&VarBind{Name: NewObjectIdentifier(v.OID.String()), Value: val})
	}
	return l
}

// invalidValue stands in for a Variable that valueFromVariable rejected; it
// sizes like Null but its Encode fails with the conversion error.
type invalidValue struct {
	Null
	err error
}

func (v *invalidValue) Encode(Sink) error {
	return &EncodeError{Reason: v.err.Error()}
}

// toSequence renders the PDU body (request-id, status/index or
// nonrep/maxrep, varbinds) as an ordered Sequence under the PDU's tag.
func (p *PDU) toSequence() (*Sequence, error) {
	seq := NewSequence(pduTag(uint32(p.Type)))
	if err := seq.Add(&Integer{Value: int64(p.RequestID)}); err != nil {
		return nil, err
	}
	if p.Type == PDUGetBulkRequest {
		if err := seq.Add(&Integer{Value: int64(p.NonRepeaters)}); err != nil {
			return nil, err
		}
		if err := seq.Add(&Integer{Value: int64(p.MaxRepetitions)}); err != nil {
			return nil, err
		}
	} else {
		if err := seq.Add(&Integer{Value: int64(p.ErrorStatus)}); err != nil {
			return nil, err
		}
		if err := seq.Add(&Integer{Value: int64(p.ErrorIndex)}); err != nil {
			return nil, err
		}
	}
	if p.VarBinds == nil {
		p.VarBinds = NewVarBindList()
	}
	seq.Add(p.VarBinds)
	return seq, nil
}

// Variables converts the PDU's VarBindList back into the client-facing
// Variable slice, inferring each BERType from its decoded Value.
func (p *PDU) Variables() []Variable {
	if p.VarBinds == nil {
		return nil
	}
	vars := make([]Variable, p.VarBinds.Len())
	for i := 0; i < p.VarBinds.Len(); i++ {
		vb := p.VarBinds.At(i)
		oid, _ := ParseOID(vb.Name.Value)
		vars[i] = variableFromValue(oid, vb.Value)
	}
	return vars
}

// Message is a complete SNMP message: version, community string, and one
// PDU (spec §4.6). The v1 Trap PDU's distinct shape is modeled separately
// as TrapV1PDU since it does not share the generic request-id/status/index
// layout the other seven PDU types do.
type Message struct {
	Version   SNMPVersion
	Community string
	PDU       *PDU
	TrapV1    *TrapV1PDU
}

// NewMessage wraps pdu for version/community.
func NewMessage(version SNMPVersion, community string, pdu *PDU) *Message {
	return &Message{Version: version, Community: community, PDU: pdu}
}

// NewTrapV1Message wraps a v1 trap for community. The version is always
// Version1; v1 is the only version that carries this PDU shape.
func NewTrapV1Message(community string, trap *TrapV1PDU) *Message {
	return &Message{Version: Version1, Community: community, TrapV1: trap}
}

// TrapV1PDU is the SNMPv1 Trap-PDU (tag 0xA4): enterprise OID, agent
// address, generic/specific trap codes, timestamp, then a VarBindList.
// It does not carry a request ID or error-status/index (spec §4.6).
type TrapV1PDU struct {
	Enterprise   OID
	AgentAddress [4]byte
	GenericTrap  int
	SpecificTrap int
	Timestamp    uint32
	VarBinds     *VarBindList
}

// NewTrapV1 builds a v1 Trap PDU from variables.
func NewTrapV1(enterprise OID, agentAddress [4]byte, genericTrap, specificTrap int, timestamp uint32, variables ...Variable) *TrapV1PDU {
	return &TrapV1PDU{
		Enterprise:   enterprise,
		AgentAddress: agentAddress,
		GenericTrap:  genericTrap,
		SpecificTrap: specificTrap,
		Timestamp:    timestamp,
		VarBinds:     varBindListFromVariables(variables),
	}
}

func (t *TrapV1PDU) toSequence() *Sequence {
	seq := NewSequence(pduTag(tagTrapV1))
	seq.Add(NewObjectIdentifier(t.Enterprise.String()))
	seq.Add(NewIPAddress(t.AgentAddress[0], t.AgentAddress[1], t.AgentAddress[2], t.AgentAddress[3]))
	seq.Add(&Integer{Value: int64(t.GenericTrap)})
	seq.Add(&Integer{Value: int64(t.SpecificTrap)})
	seq.Add(&UnsignedInteger{tag: appTag(0x03), Value: uint64(t.Timestamp)})
	if t.VarBinds == nil {
		t.VarBinds = NewVarBindList()
	}
	seq.Add(t.VarBinds)
	return seq
}

// Variables converts the trap's VarBindList back into the client-facing
// Variable slice.
func (t *TrapV1PDU) Variables() []Variable {
	if t.VarBinds == nil {
		return nil
	}
	vars := make([]Variable, t.VarBinds.Len())
	for i := 0; i < t.VarBinds.Len(); i++ {
		vb := t.VarBinds.At(i)
		oid, _ := ParseOID(vb.Name.Value)
		vars[i] = variableFromValue(oid, vb.Value)
	}
	return vars
}

// Build renders the message to its BER encoding in a pre-sized buffer
// (spec §4.7: size oracle runs once, then the buffer is sized exactly).
// For v2c trap-shaped PDUs (SNMPv2-Trap, InformRequest), sysUpTime.0's
// value is refreshed to currentTicks immediately before sizing, per the
// resolved Open Question on patch timing.
func (m *Message) Build(currentTicks uint32) ([]byte, error) {
	outer, err := m.bodySequence(currentTicks)
	if err != nil {
		return nil, err
	}
	outer.Recompute()
	buf := newBufferSink(outer.Size())
	if err := outer.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildIntoStream renders the message directly against w via the stream
// Sink implementation, instead of sizing an intermediate buffer first
// (ClientOptions "stream" streaming-mode). The size oracle still runs
// (Recompute), since BER length fields must be known before the value's
// own bytes are written; only the destination differs from Build.
func (m *Message) BuildIntoStream(w io.Writer, currentTicks uint32) error {
	outer, err := m.bodySequence(currentTicks)
	if err != nil {
		return err
	}
	outer.Recompute()
	sink := newStreamSink(w)
	if err := outer.Encode(sink); err != nil {
		return err
	}
	return sink.Flush()
}

// ParseFromStream decodes a complete SNMP message directly from r via the
// stream Source implementation (ClientOptions "stream" streaming-mode),
// instead of requiring the full datagram to already be buffered.
func ParseFromStream(r io.Reader) (*Message, error) {
	return parseMessageFrom(newStreamSource(r))
}

func (m *Message) bodySequence(currentTicks uint32) (*Sequence, error) {
	if m.Version == Version1 && m.TrapV1 == nil && m.PDU != nil && m.PDU.Type == PDUGetBulkRequest {
		return nil, &EncodeError{Reason: "SNMPv1 cannot carry a GetBulkRequest PDU"}
	}

	outer := NewSequence(Tag{Class: ClassUniversal, Constructed: true, Number: 0x10})
	outer.Add(&Integer{Value: int64(m.Version)})
	outer.Add(&OctetString{Value: []byte(m.Community)})

	if m.TrapV1 != nil {
		outer.Add(m.TrapV1.toSequence())
		return outer, nil
	}

	if m.PDU.Type == PDUTrapV2 || m.PDU.Type == PDUInformRequest {
		patchSysUpTime(m.PDU, currentTicks)
	}

	pduSeq, err := m.PDU.toSequence()
	if err != nil {
		return nil, err
	}
	outer.Add(pduSeq)
	return outer, nil
}

// patchSysUpTime overwrites the first varbind's value (always sysUpTime.0
// by construction, see newV2TrapLike) with currentTicks.
func patchSysUpTime(p *PDU, currentTicks uint32) {
	if p.VarBinds == nil || p.VarBinds.Len() == 0 {
		return
	}
	p.VarBinds.At(0).Value = &UnsignedInteger{tag: appTag(0x03), Value: uint64(currentTicks)}
}

// ParseMessage decodes a complete SNMP message from a buffer (spec §4.6).
// It dispatches on the inner PDU tag to populate either PDU or TrapV1, and
// rejects a v1 message carrying GetBulkRequest's tag as a StructureError
// (Open Question resolution 4).
func ParseMessage(data []byte) (*Message, error) {
	return parseMessageFrom(newBufferSource(data))
}

func parseMessageFrom(src Source) (*Message, error) {
	v, err := decodeValue(src)
	if err != nil {
		return nil, err
	}
	outer, ok := v.(*Sequence)
	if !ok || outer.Tag().Number != 0x10 || outer.Tag().Class != ClassUniversal {
		return nil, &StructureError{Reason: "message must be a top-level SEQUENCE"}
	}
	if outer.Len() != 3 {
		return nil, &StructureError{Reason: "message must have exactly three children (version, community, PDU)"}
	}

	versionVal, ok := outer.At(0).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "message version must be an INTEGER"}
	}
	communityVal, ok := outer.At(1).(*OctetString)
	if !ok {
		return nil, &StructureError{Reason: "message community must be an OCTET STRING"}
	}

	msg := &Message{
		Version:   SNMPVersion(versionVal.Value),
		Community: string(communityVal.Value),
	}

	pduSeq, ok := outer.At(2).(*Sequence)
	if !ok {
		return nil, &StructureError{Reason: "PDU must be a constructed value"}
	}

	if pduSeq.Tag().Equal(pduTag(tagTrapV1)) {
		trap, err := parseTrapV1(pduSeq)
		if err != nil {
			return nil, err
		}
		msg.TrapV1 = trap
		return msg, nil
	}

	if msg.Version == Version1 && pduSeq.Tag().Equal(pduTag(tagGetBulkRequest)) {
		return nil, &StructureError{Reason: "SNMPv1 message cannot carry a GetBulkRequest PDU"}
	}

	pdu, err := parseGenericPDU(pduSeq)
	if err != nil {
		return nil, err
	}
	msg.PDU = pdu
	return msg, nil
}

func parseGenericPDU(seq *Sequence) (*PDU, error) {
	if seq.Len() != 4 {
		return nil, &StructureError{Reason: "PDU must have exactly four children"}
	}
	reqID, ok := seq.At(0).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "PDU request-id must be an INTEGER"}
	}

	tag := seq.Tag()
	pduType := PDUType(byte(tag.Class)<<6 | 0x20 | byte(tag.Number))
	pdu := &PDU{Type: pduType, RequestID: int32(reqID.Value)}

	second, ok := seq.At(1).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "PDU second field must be an INTEGER"}
	}
	third, ok := seq.At(2).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "PDU third field must be an INTEGER"}
	}
	if pdu.Type == PDUGetBulkRequest {
		pdu.NonRepeaters = int(second.Value)
		pdu.MaxRepetitions = int(third.Value)
	} else {
		pdu.ErrorStatus = ErrorStatus(second.Value)
		pdu.ErrorIndex = int(third.Value)
	}

	vbl, ok := varBindListFrom(seq.At(3))
	if !ok {
		return nil, &StructureError{Reason: "PDU varbind list must be a SEQUENCE of SEQUENCE"}
	}
	pdu.VarBinds = vbl
	return pdu, nil
}

func parseTrapV1(seq *Sequence) (*TrapV1PDU, error) {
	if seq.Len() != 6 {
		return nil, &StructureError{Reason: "Trap-PDU must have exactly six children"}
	}
	enterprise, ok := seq.At(0).(*ObjectIdentifier)
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU enterprise must be an OBJECT IDENTIFIER"}
	}
	agent, ok := seq.At(1).(*IPAddress)
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU agent-addr must be an IpAddress"}
	}
	generic, ok := seq.At(2).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU generic-trap must be an INTEGER"}
	}
	specific, ok := seq.At(3).(*Integer)
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU specific-trap must be an INTEGER"}
	}
	ts, ok := seq.At(4).(*UnsignedInteger)
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU time-stamp must be a TimeTicks"}
	}
	vbl, ok := varBindListFrom(seq.At(5))
	if !ok {
		return nil, &StructureError{Reason: "Trap-PDU varbind list must be a SEQUENCE of SEQUENCE"}
	}
	oid, err := ParseOID(enterprise.Value)
	if err != nil {
		return nil, &StructureError{Reason: "Trap-PDU enterprise OID malformed: " + err.Error()}
	}
	return &TrapV1PDU{
		Enterprise:   oid,
		AgentAddress: agent.Value,
		GenericTrap:  int(generic.Value),
		SpecificTrap: int(specific.Value),
		Timestamp:    uint32(ts.Value),
		VarBinds:     vbl,
	}, nil
}

// varBindListFrom converts a decoded SEQUENCE of (OBJECT IDENTIFIER, value)
// SEQUENCEs into a VarBindList; ok is false for any other shape.
func varBindListFrom(v Value) (*VarBindList, bool) {
	seq, ok := v.(*Sequence)
	if !ok {
		return nil, false
	}
	list := NewVarBindList()
	for _, c := range seq.Children() {
		inner, isSeq := c.(*Sequence)
		if !isSeq || inner.Len() != 2 {
			return nil, false
		}
		name, isOID := inner.At(0).(*ObjectIdentifier)
		if !isOID {
			return nil, false
		}
		list.Add(&VarBind{Name: name, Value: inner.At(1)})
	}
	return list, true
}

// valueFromVariable converts a client-facing Variable to the codec's Value
// representation, the inverse of variableFromValue.
func valueFromVariable(v Variable) (Value, error) {
	switch v.Type {
	case TypeNull, 0:
		return new(Null), nil
	case TypeInteger:
		n, ok := v.AsInt()
		if !ok {
			return nil, fmt.Errorf("invalid integer value: %v", v.Value)
		}
		return &Integer{Value: n}, nil
	case TypeOctetString:
		return &OctetString{Value: v.AsBytes()}, nil
	case TypeObjectIdentifier:
		switch val := v.Value.(type) {
		case OID:
			return NewObjectIdentifier(val.String()), nil
		case string:
			return NewObjectIdentifier(val), nil
		default:
			return nil, fmt.Errorf("invalid OID value: %v", v.Value)
		}
	case TypeIPAddress:
		if ip, ok := v.Value.(net.IP); ok && ip.To4() != nil {
			ip4 := ip.To4()
			return NewIPAddress(ip4[0], ip4[1], ip4[2], ip4[3]), nil
		}
		s, ok := v.Value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid IP address value: %v", v.Value)
		}
		var a, b, c, d byte
		if _, err := fmt.Sscanf(s, "%d.%d.%d.%d", &a, &b, &c, &d); err != nil {
			return nil, fmt.Errorf("invalid IP address: %v", v.Value)
		}
		return NewIPAddress(a, b, c, d), nil
	case TypeCounter32:
		n, ok := v.AsUint()
		if !ok {
			return nil, fmt.Errorf("invalid Counter32 value: %v", v.Value)
		}
		return NewCounter32(uint32(n)), nil
	case TypeGauge32:
		n, ok := v.AsUint()
		if !ok {
			return nil, fmt.Errorf("invalid Gauge32 value: %v", v.Value)
		}
		return NewGauge32(uint32(n)), nil
	case TypeTimeTicks:
		n, ok := v.AsUint()
		if !ok {
			return nil, fmt.Errorf("invalid TimeTicks value: %v", v.Value)
		}
		return NewTimeTicks(uint32(n)), nil
	case TypeCounter64:
		n, ok := v.AsUint()
		if !ok {
			return nil, fmt.Errorf("invalid Counter64 value: %v", v.Value)
		}
		return NewCounter64(n), nil
	case TypeUInteger32:
		n, ok := v.AsUint()
		if !ok {
			return nil, fmt.Errorf("invalid UInteger32 value: %v", v.Value)
		}
		return NewUInteger32(uint32(n)), nil
	case TypeOpaque:
		if f, ok := v.Value.(float32); ok {
			return NewOpaque(&OpaqueFloat{Value: f}), nil
		}
		return nil, fmt.Errorf("unsupported Opaque value: %v", v.Value)
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Type)
	}
}

// variableFromValue converts a decoded Value back into a client-facing
// Variable, inferring BERType from the concrete Go type.
func variableFromValue(oid OID, val Value) Variable {
	switch t := val.(type) {
	case *Null:
		return Variable{OID: oid, Type: TypeNull, Value: nil}
	case *Integer:
		return Variable{OID: oid, Type: TypeInteger, Value: t.Value}
	case *OctetString:
		return Variable{OID: oid, Type: TypeOctetString, Value: t.Value}
	case *ObjectIdentifier:
		parsed, _ := ParseOID(t.Value)
		return Variable{OID: oid, Type: TypeObjectIdentifier, Value: parsed}
	case *IPAddress:
		return Variable{OID: oid, Type: TypeIPAddress, Value: t.String()}
	case *UnsignedInteger:
		switch t.Tag().Number {
		case 0x01:
			return Variable{OID: oid, Type: TypeCounter32, Value: uint32(t.Value)}
		case 0x02:
			return Variable{OID: oid, Type: TypeGauge32, Value: uint32(t.Value)}
		case 0x03:
			return Variable{OID: oid, Type: TypeTimeTicks, Value: uint32(t.Value)}
		case 0x07:
			return Variable{OID: oid, Type: TypeUInteger32, Value: uint32(t.Value)}
		default:
			return Variable{OID: oid, Type: TypeCounter64, Value: t.Value}
		}
	case *Opaque:
		if of, ok := t.Inner.(*OpaqueFloat); ok {
			return Variable{OID: oid, Type: TypeOpaque, Value: of.Value}
		}
		return Variable{OID: oid, Type: TypeOpaque, Value: t.Inner}
	case *Float:
		return Variable{OID: oid, Type: TypeOpaque, Value: t.Value}
	case *nullLike:
		switch t.name {
		case "noSuchObject":
			return Variable{OID: oid, Type: TypeNoSuchObject, Value: nil}
		case "noSuchInstance":
			return Variable{OID: oid, Type: TypeNoSuchInstance, Value: nil}
		default:
			return Variable{OID: oid, Type: TypeEndOfMibView, Value: nil}
		}
	default:
		return Variable{OID: oid, Type: TypeOctetString, Value: nil}
	}
}

// MapV2ErrorToV1 maps a v2c error-status code down to the nearest v1
// equivalent per RFC 2089 §2.1, for building a GetResponse toward a v1
// peer from v2c-originated status (spec §4.6).
func MapV2ErrorToV1(status ErrorStatus) ErrorStatus {
	switch status {
	case WrongValue, WrongEncoding, WrongType, WrongLength, InconsistentValue:
		return BadValue
	case NoAccess, NotWritable, NoCreation, InconsistentName, AuthorizationError:
		return NoSuchName
	case ResourceUnavailable, CommitFailed, UndoFailed:
		return GenErr
	default:
		return status
	}
}
