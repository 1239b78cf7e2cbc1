package main

import (
	"testing"

	"github.com/edgeo-scada/snmp/snmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValueInteger(t *testing.T) {
	oid := snmp.MustParseOID("1.3.6.1.2.1.1.7.0")
	v, err := parseValue(oid, "i", "42")
	require.NoError(t, err)
	assert.Equal(t, snmp.TypeInteger, v.Type)
	assert.Equal(t, 42, v.Value)
}

func TestParseValueOctetString(t *testing.T) {
	oid := snmp.MustParseOID("1.3.6.1.2.1.1.5.0")
	v, err := parseValue(oid, "s", "switch01")
	require.NoError(t, err)
	assert.Equal(t, snmp.TypeOctetString, v.Type)
	assert.Equal(t, []byte("switch01"), v.Value)
}

func TestParseValueIPAddress(t *testing.T) {
	oid := snmp.MustParseOID("1.3.6.1.2.1.4.20.1.1")
	v, err := parseValue(oid, "a", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, snmp.TypeIPAddress, v.Type)
}

func TestParseValueRejectsUnknownType(t *testing.T) {
	oid := snmp.MustParseOID("1.3.6.1.2.1.1.1.0")
	_, err := parseValue(oid, "z", "x")
	assert.Error(t, err)
}

func TestParseHexString(t *testing.T) {
	b, err := parseHexString("DE:AD-BE EF")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, b)
}

func TestParseHexStringOddLength(t *testing.T) {
	_, err := parseHexString("ABC")
	assert.Error(t, err)
}

func TestParseDottedDecimal(t *testing.T) {
	b, err := parseDottedDecimal("10.0.1.1")
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 0, 1, 1}, b)
}
