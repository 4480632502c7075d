package technique

import (
	"testing"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/anomaly"
	"github.com/socintel/socintel/pkg/beacon"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/pkg/dnstunnel"
	"github.com/socintel/socintel/pkg/scanning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConf(t *testing.T) *config.Config {
	conf, err := config.LoadTestingConfig("mongodb://localhost:27017")
	require.Nil(t, err)
	return conf
}

func findMatch(matches []Match, id string) *Match {
	for i := range matches {
		if matches[i].TechniqueID == id {
			return &matches[i]
		}
	}
	return nil
}

func TestInferEmptyBatch(t *testing.T) {
	matches := Infer(nil, anomaly.Report{}, testConf(t))
	assert.Empty(t, matches)
}

func TestInferBeaconC2(t *testing.T) {
	conf := testConf(t)
	events := make([]data.Event, 10)
	for i := range events {
		events[i] = data.Event{
			Timestamp: 1706732400.0 + float64(i*60),
			SrcIP:     "192.168.1.100",
			SrcPort:   50000 + i,
			DstIP:     "10.0.0.5",
			DstPort:   443,
			Protocol:  "tcp",
		}
	}
	report := anomaly.Detect(events, conf)
	matches := Infer(events, report, conf)

	match := findMatch(matches, TechniqueAppLayerC2)
	require.NotNil(t, match)
	assert.Equal(t, "Application Layer Protocol", match.TechniqueName)
	assert.Equal(t, TacticCommandAndControl, match.Tactic)
	assert.True(t, match.Confidence > 0)
	assert.True(t, match.Confidence <= 1.0)
	require.Len(t, match.Evidence, 1)
	assert.Contains(t, match.Evidence[0], "10.0.0.5:443")
}

func TestInferConfidenceScalesWithCount(t *testing.T) {
	conf := testConf(t)
	small := anomaly.Report{Beacons: []beacon.Result{
		{SrcIP: "a", DstIP: "b", DstPort: 443, IntervalAvg: 60, Count: 5},
	}}
	large := anomaly.Report{Beacons: []beacon.Result{
		{SrcIP: "a", DstIP: "b", DstPort: 443, IntervalAvg: 60, Count: 50},
	}}

	smallMatch := findMatch(Infer(nil, small, conf), TechniqueAppLayerC2)
	largeMatch := findMatch(Infer(nil, large, conf), TechniqueAppLayerC2)
	require.NotNil(t, smallMatch)
	require.NotNil(t, largeMatch)
	assert.True(t, largeMatch.Confidence > smallMatch.Confidence)
	assert.Equal(t, 1.0, largeMatch.Confidence)
}

func TestInferPortScan(t *testing.T) {
	conf := testConf(t)
	report := anomaly.Report{PortScans: []scanning.Result{
		{SrcIP: "192.168.1.101", DstIP: "10.0.0.6", UniquePorts: 50, UniqueHosts: 1},
	}}
	matches := Infer(nil, report, conf)

	match := findMatch(matches, TechniqueNetServiceScan)
	require.NotNil(t, match)
	assert.Equal(t, TacticDiscovery, match.Tactic)
	assert.Nil(t, findMatch(matches, TechniqueRemoteSystem))
}

func TestInferNetworkScan(t *testing.T) {
	conf := testConf(t)
	report := anomaly.Report{PortScans: []scanning.Result{
		{SrcIP: "192.168.1.101", UniquePorts: 40, UniqueHosts: 8},
	}}
	matches := Infer(nil, report, conf)

	assert.NotNil(t, findMatch(matches, TechniqueNetServiceScan))
	remote := findMatch(matches, TechniqueRemoteSystem)
	require.NotNil(t, remote)
	assert.Equal(t, "Remote System Discovery", remote.TechniqueName)
}

func TestInferDNSTunnel(t *testing.T) {
	conf := testConf(t)
	report := anomaly.Report{DNSTunnels: []dnstunnel.Result{
		{SrcIP: "192.168.1.102", Query: "aaaa.exfil.example.com", Reason: dnstunnel.ReasonLongQuery, QueryCount: 4},
	}}
	matches := Infer(nil, report, conf)

	match := findMatch(matches, TechniqueDNSC2)
	require.NotNil(t, match)
	assert.Equal(t, "DNS", match.TechniqueName)
	assert.Equal(t, TacticCommandAndControl, match.Tactic)
}

func TestInferNonStandardPort(t *testing.T) {
	conf := testConf(t)
	events := []data.Event{
		{Timestamp: 1, SrcIP: "10.0.0.1", DstIP: "10.0.0.9", DstPort: 4444, Protocol: "tcp", HTTPHost: "updates.example.com"},
		{Timestamp: 2, SrcIP: "10.0.0.1", DstIP: "10.0.0.9", DstPort: 443, Protocol: "tcp", TLSServerName: "updates.example.com"},
	}
	matches := Infer(events, anomaly.Report{}, conf)

	match := findMatch(matches, TechniqueNonStandardPort)
	require.NotNil(t, match)
	require.Len(t, match.Evidence, 1)
	assert.Contains(t, match.Evidence[0], ":4444")
}

func TestInferMergesDuplicateTechniques(t *testing.T) {
	conf := testConf(t)
	report := anomaly.Report{Beacons: []beacon.Result{
		{SrcIP: "192.168.1.100", DstIP: "10.0.0.5", DstPort: 443, IntervalAvg: 60, Count: 20},
		{SrcIP: "192.168.1.105", DstIP: "10.0.0.7", DstPort: 8080, IntervalAvg: 30, Count: 6},
	}}
	matches := Infer(nil, report, conf)

	var hits int
	for _, match := range matches {
		if match.TechniqueID == TechniqueAppLayerC2 {
			hits++
		}
	}
	require.Equal(t, 1, hits)

	match := findMatch(matches, TechniqueAppLayerC2)
	assert.Len(t, match.Evidence, 2)
	// max confidence wins: 20 connections caps at 1.0
	assert.Equal(t, 1.0, match.Confidence)
}
