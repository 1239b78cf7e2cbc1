package main

import (
	"net"
	"testing"

	"github.com/edgeo-scada/snmp/snmp"
	"github.com/stretchr/testify/assert"
)

func TestIsPrintable(t *testing.T) {
	assert.True(t, isPrintable([]byte("hello world")))
	assert.False(t, isPrintable([]byte{0x00, 0x01, 0xFF}))
}

func TestFormatHex(t *testing.T) {
	assert.Equal(t, "DE AD BE EF", formatHex([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
}

func TestColorizeRespectsNoColor(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	assert.Equal(t, "plain", colorize("plain", ColorRed))

	noColor = false
	assert.Contains(t, colorize("plain", ColorRed), "plain")
}

func TestFormatValueOctetStringPrintable(t *testing.T) {
	v := snmp.Variable{Type: snmp.TypeOctetString, Value: []byte("admin")}
	assert.Equal(t, `"admin"`, formatValue(v))
}

func TestFormatValueOctetStringBinary(t *testing.T) {
	v := snmp.Variable{Type: snmp.TypeOctetString, Value: []byte{0x00, 0xFF}}
	assert.Equal(t, "00 FF", formatValue(v))
}

func TestFormatValueIPAddress(t *testing.T) {
	v := snmp.Variable{Type: snmp.TypeIPAddress, Value: net.IPv4(192, 168, 1, 1)}
	assert.Equal(t, "192.168.1.1", formatValue(v))
}

func TestFormatValueTimeTicks(t *testing.T) {
	v := snmp.Variable{Type: snmp.TypeTimeTicks, Value: uint32(12345)}
	assert.Contains(t, formatValue(v), "12345")
}

func TestFormatValueExceptionSentinels(t *testing.T) {
	assert.Equal(t, "No Such Object", formatValue(snmp.Variable{Type: snmp.TypeNoSuchObject}))
	assert.Equal(t, "No Such Instance", formatValue(snmp.Variable{Type: snmp.TypeNoSuchInstance}))
	assert.Equal(t, "End of MIB View", formatValue(snmp.Variable{Type: snmp.TypeEndOfMibView}))
}
