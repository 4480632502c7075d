package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Event{
		Timestamp: 1706732400,
		SrcIP:     "192.168.1.100",
		SrcPort:   54321,
		DstIP:     "8.8.8.8",
		DstPort:   53,
		Protocol:  "dns",
		DNSQuery:  "google.com",
	}
	assert.Nil(t, valid.Validate(0))

	noSrc := valid
	noSrc.SrcIP = ""
	err := noSrc.Validate(3)
	require.NotNil(t, err)
	invalid, ok := err.(InvalidEventError)
	require.True(t, ok)
	assert.Equal(t, 3, invalid.Index)
	assert.Equal(t, "si", invalid.Field)

	noDst := valid
	noDst.DstIP = ""
	err = noDst.Validate(0)
	require.NotNil(t, err)
	assert.Equal(t, "di", err.(InvalidEventError).Field)
}

func TestValidateBatch(t *testing.T) {
	batch := []Event{
		{Timestamp: 1, SrcIP: "10.0.0.1", DstIP: "10.0.0.2", Protocol: "tcp"},
		{Timestamp: 2, SrcIP: "10.0.0.1", DstIP: "", Protocol: "tcp"},
	}
	err := ValidateBatch(batch)
	require.NotNil(t, err)
	assert.Equal(t, 1, err.(InvalidEventError).Index)

	assert.Nil(t, ValidateBatch(nil))
	assert.Nil(t, ValidateBatch(batch[:1]))
}

func TestKeys(t *testing.T) {
	a := Event{SrcIP: "10.0.0.1", DstIP: "10.0.0.2", DstPort: 443}
	b := Event{SrcIP: "10.0.0.1", DstIP: "10.0.0.2", DstPort: 80}

	assert.Equal(t, a.PairKey(), b.PairKey())
	assert.NotEqual(t, a.TripleKey(), b.TripleKey())

	c := Event{SrcIP: "10.0.0.1", DstIP: "10.0.0.2", DstPort: 443}
	assert.Equal(t, a.TripleKey(), c.TripleKey())
}

func TestFlowString(t *testing.T) {
	e := Event{SrcIP: "10.0.0.1", SrcPort: 50000, DstIP: "10.0.0.5", DstPort: 443, Protocol: "tcp"}
	assert.Equal(t, "10.0.0.1:50000 -> 10.0.0.5:443/tcp", e.FlowString())
}
