package parser

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, contents string) string {
	dir, err := ioutil.TempDir("", "socintel-parser-test")
	require.Nil(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "events.jsonl")
	require.Nil(t, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func discardLogger() *log.Logger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

func TestReadEventFile(t *testing.T) {
	path := writeTempFile(t, `{"t": 1706732400.0, "si": "192.168.1.100", "sp": 54321, "di": "8.8.8.8", "dp": 53, "pr": "dns", "dns_query": "google.com"}
{"t": 1706732401.0, "si": "192.168.1.100", "di": "10.0.0.5", "dp": 443, "pr": "tcp"}

{"t": 1706732402.5, "si": "192.168.1.101", "di": "10.0.0.5", "pr": "icmp"}
`)

	events, err := ReadEventFile(path, 50000, discardLogger())
	require.Nil(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, 1706732400.0, events[0].Timestamp)
	assert.Equal(t, "192.168.1.100", events[0].SrcIP)
	assert.Equal(t, 54321, events[0].SrcPort)
	assert.Equal(t, "8.8.8.8", events[0].DstIP)
	assert.Equal(t, 53, events[0].DstPort)
	assert.Equal(t, "dns", events[0].Protocol)
	assert.Equal(t, "google.com", events[0].DNSQuery)

	assert.Equal(t, 0, events[2].DstPort)
	assert.Equal(t, "icmp", events[2].Protocol)
}

func TestReadEventFileRejectsMissingIdentity(t *testing.T) {
	path := writeTempFile(t, `{"t": 1706732400.0, "si": "192.168.1.100", "di": "8.8.8.8", "pr": "dns"}
{"t": 1706732401.0, "di": "10.0.0.5", "pr": "tcp"}
`)

	_, err := ReadEventFile(path, 50000, discardLogger())
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEventFileRejectsMalformedJSON(t *testing.T) {
	path := writeTempFile(t, `{"t": 1706732400.0, "si": "192.168.1.100", "di": "8.8.8.8", "pr": "dns"
`)
	_, err := ReadEventFile(path, 50000, discardLogger())
	assert.NotNil(t, err)
}

func TestReadEventFileEnforcesBatchLimit(t *testing.T) {
	contents := ""
	for i := 0; i < 6; i++ {
		contents += `{"t": 1706732400.0, "si": "192.168.1.100", "di": "8.8.8.8", "pr": "tcp"}` + "\n"
	}
	path := writeTempFile(t, contents)

	_, err := ReadEventFile(path, 5, discardLogger())
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "batch limit")
}

func TestReadEventFileEmpty(t *testing.T) {
	path := writeTempFile(t, "")
	events, err := ReadEventFile(path, 50000, discardLogger())
	require.Nil(t, err)
	assert.Empty(t, events)
}
