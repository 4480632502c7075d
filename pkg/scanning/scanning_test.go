package scanning

import (
	"fmt"
	"testing"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConf = config.ScanningStaticCfg{
	PortThreshold: 15,
	HostThreshold: 3,
}

func TestDetectSingleHostSweep(t *testing.T) {
	events := make([]data.Event, 50)
	for i := range events {
		events[i] = data.Event{
			Timestamp: 1706732400.0 + float64(i),
			SrcIP:     "192.168.1.100",
			DstIP:     "10.0.0.5",
			DstPort:   80 + i,
			Protocol:  "tcp",
		}
	}

	results := Detect(events, testConf)
	require.Len(t, results, 1)
	assert.Equal(t, "192.168.1.100", results[0].SrcIP)
	assert.Equal(t, "10.0.0.5", results[0].DstIP)
	assert.Equal(t, 50, results[0].UniquePorts)
	assert.Equal(t, 1, results[0].UniqueHosts)
	assert.False(t, results[0].IsNetworkScan(testConf))
}

func TestDetectNetworkScan(t *testing.T) {
	var events []data.Event
	for host := 0; host < 4; host++ {
		for port := 0; port < 10; port++ {
			events = append(events, data.Event{
				Timestamp: 1706732400.0,
				SrcIP:     "192.168.1.100",
				DstIP:     fmt.Sprintf("10.0.0.%d", host+1),
				DstPort:   1000 + host*10 + port,
				Protocol:  "tcp",
			})
		}
	}

	results := Detect(events, testConf)
	require.Len(t, results, 1)
	assert.Equal(t, "", results[0].DstIP)
	assert.Equal(t, 40, results[0].UniquePorts)
	assert.Equal(t, 4, results[0].UniqueHosts)
	assert.True(t, results[0].IsNetworkScan(testConf))
}

func TestDetectRepeatedPortsNotCounted(t *testing.T) {
	events := make([]data.Event, 100)
	for i := range events {
		events[i] = data.Event{
			Timestamp: 1706732400.0 + float64(i),
			SrcIP:     "192.168.1.100",
			DstIP:     "10.0.0.5",
			DstPort:   443,
			Protocol:  "tcp",
		}
	}
	assert.Empty(t, Detect(events, testConf))
}

func TestDetectPortlessEventsSkipped(t *testing.T) {
	events := []data.Event{
		{Timestamp: 1, SrcIP: "10.0.0.1", DstIP: "10.0.0.2", Protocol: "icmp"},
		{Timestamp: 2, SrcIP: "10.0.0.1", DstIP: "10.0.0.3", Protocol: "icmp"},
	}
	assert.Empty(t, Detect(events, testConf))
}

func TestDetectEmptyBatch(t *testing.T) {
	assert.Empty(t, Detect(nil, testConf))
}
