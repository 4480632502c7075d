package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestingConfigDefaults(t *testing.T) {
	conf, err := LoadTestingConfig("mongodb://localhost:27017")
	require.Nil(t, err)

	assert.Equal(t, 5, conf.S.Beacon.MinConnections)
	assert.Equal(t, 0.5, conf.S.Beacon.MaxJitter)
	assert.Equal(t, 15, conf.S.Scanning.PortThreshold)
	assert.Equal(t, 60, conf.S.DNSTunnel.MaxQueryLength)
	assert.Equal(t, 4.0, conf.S.DNSTunnel.EntropyThreshold)
	assert.Equal(t, 3, conf.S.DNSTunnel.MinQueries)
	assert.Equal(t, 0.75, conf.S.Scoring.CurrentWeight)
	assert.Equal(t, 0.25, conf.S.Scoring.HistoricalWeight)
	assert.Equal(t, 0.7, conf.S.Scoring.HighThreshold)
	assert.Equal(t, 0.3, conf.S.Scoring.LowThreshold)
	assert.Equal(t, 50000, conf.S.Import.BatchLimit)

	assert.Equal(t, "events", conf.T.Structure.EventTable)
	assert.Equal(t, "techniques", conf.T.Technique.TechniqueTable)
	assert.Equal(t, "beacons", conf.T.Anomaly.BeaconTable)
	assert.Equal(t, "iocStats", conf.T.Historical.IOCStatsTable)
}

func TestVerifyRejectsBadThresholds(t *testing.T) {
	base := func() *StaticCfg {
		conf, err := LoadTestingConfig("mongodb://localhost:27017")
		require.Nil(t, err)
		return &conf.S
	}

	negJitter := base()
	negJitter.Beacon.MaxJitter = -0.1
	assert.NotNil(t, negJitter.Verify())

	lowConns := base()
	lowConns.Beacon.MinConnections = 1
	assert.NotNil(t, lowConns.Verify())

	badWeights := base()
	badWeights.Scoring.CurrentWeight = 0.9
	err := badWeights.Verify()
	require.NotNil(t, err)
	unsupported, ok := err.(UnsupportedConfigurationError)
	require.True(t, ok)
	assert.Equal(t, "Scoring", unsupported.Section)

	inverted := base()
	inverted.Scoring.LowThreshold = 0.8
	assert.NotNil(t, inverted.Verify())

	noPorts := base()
	noPorts.Scanning.PortThreshold = 0
	assert.NotNil(t, noPorts.Verify())

	ok2 := base()
	assert.Nil(t, ok2.Verify())
}
