package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500µs", formatDuration(500*time.Microsecond))
	assert.Equal(t, "1.50ms", formatDuration(1500*time.Microsecond))
	assert.Equal(t, "2.00s", formatDuration(2*time.Second))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.00 KB", formatBytes(1024))
	assert.Equal(t, "1.50 KB", formatBytes(1536))
}

func TestCheckTargetRequiresValue(t *testing.T) {
	old := target
	defer func() { target = old }()

	target = ""
	assert.Error(t, checkTarget())

	target = "192.168.1.1"
	assert.NoError(t, checkTarget())
}

func TestParseOIDs(t *testing.T) {
	oids, err := parseOIDs([]string{"1.3.6.1.2.1.1.1.0", "1.3.6.1.2.1.1.2.0"})
	require.NoError(t, err)
	assert.Len(t, oids, 2)
	assert.Equal(t, "1.3.6.1.2.1.1.1.0", oids[0].String())
}

func TestParseOIDsRejectsInvalidEntry(t *testing.T) {
	_, err := parseOIDs([]string{"1.3.6.1.2.1.1.1.0", "not-an-oid"})
	assert.Error(t, err)
}
