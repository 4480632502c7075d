package score

import (
	"testing"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thresholds used throughout: high 0.7, low 0.3, divergence 0.3, 75/25 blend
var testConf = config.ScoringStaticCfg{
	CurrentWeight:    0.75,
	HistoricalWeight: 0.25,
	HighThreshold:    0.7,
	LowThreshold:     0.3,
	MaxDivergence:    0.3,
	CacheSize:        16,
}

func TestComputeWeightedBlend(t *testing.T) {
	sub := Subscores{Volume: 0.8, Diversity: 0.7, Pattern: 0.9, Window: 0.8}
	hist := &HistoricalStats{TPCount: 5, FPCount: 2}

	result := Compute(sub, hist, testConf)

	expected := 0.75*0.8 + 0.25*(5.0/7.0)
	assert.InDelta(t, expected, result.WeightedScore, 0.01)
	assert.InDelta(t, 0.8, result.CurrentScore, 1e-9)
	require.NotNil(t, result.HistoricalThreatRatio)
	assert.InDelta(t, 5.0/7.0, *result.HistoricalThreatRatio, 1e-9)
	require.NotNil(t, result.HistoricalScore)
	assert.InDelta(t, 5.0/7.0, *result.HistoricalScore, 1e-9)
	assert.Equal(t, AssessmentThreatConsistent, result.Assessment)
}

func TestComputeNoHistoricalData(t *testing.T) {
	sub := Subscores{Volume: 0.4, Diversity: 0.4, Pattern: 0.4, Window: 0.4}

	result := Compute(sub, nil, testConf)

	// historical weight redistributes to current: no silent division
	assert.Equal(t, result.CurrentScore, result.WeightedScore)
	assert.Nil(t, result.HistoricalThreatRatio)
	assert.Nil(t, result.HistoricalScore)
	assert.Equal(t, AssessmentInsufficientData, result.Assessment)
}

func TestComputeZeroCountsMatchAbsent(t *testing.T) {
	sub := Subscores{Volume: 0.4, Diversity: 0.4, Pattern: 0.4, Window: 0.4}

	// a record with zero adjudications carries no historical signal
	result := Compute(sub, &HistoricalStats{}, testConf)
	assert.Equal(t, result.CurrentScore, result.WeightedScore)
	assert.Nil(t, result.HistoricalThreatRatio)
	assert.Equal(t, AssessmentInsufficientData, result.Assessment)
}

func TestComputeNoHistoryHighCurrent(t *testing.T) {
	sub := Subscores{Volume: 0.9, Diversity: 0.9, Pattern: 0.9, Window: 0.9}
	result := Compute(sub, nil, testConf)
	assert.Equal(t, AssessmentThreatConsistent, result.Assessment)
}

func TestComputeSuppliedHistoricalScoreWins(t *testing.T) {
	sub := Subscores{Volume: 0.8, Diversity: 0.8, Pattern: 0.8, Window: 0.8}
	supplied := 0.9
	hist := &HistoricalStats{TPCount: 1, FPCount: 9, Score: &supplied}

	result := Compute(sub, hist, testConf)

	require.NotNil(t, result.HistoricalScore)
	assert.Equal(t, 0.9, *result.HistoricalScore)
	require.NotNil(t, result.HistoricalThreatRatio)
	assert.InDelta(t, 0.1, *result.HistoricalThreatRatio, 1e-9)
	assert.InDelta(t, 0.75*0.8+0.25*0.9, result.WeightedScore, 1e-9)
}

func TestComputeDivergenceInconsistent(t *testing.T) {
	sub := Subscores{Volume: 0.9, Diversity: 0.9, Pattern: 0.9, Window: 0.9}
	hist := &HistoricalStats{TPCount: 1, FPCount: 9}

	result := Compute(sub, hist, testConf)

	// current 0.9 vs historical 0.1 diverges far beyond 0.3
	assert.Equal(t, AssessmentThreatInconsistent, result.Assessment)
}

func TestComputeBenignLeaning(t *testing.T) {
	sub := Subscores{Volume: 0.1, Diversity: 0.1, Pattern: 0.1, Window: 0.1}
	hist := &HistoricalStats{TPCount: 1, FPCount: 4}

	result := Compute(sub, hist, testConf)

	// current 0.1, historical 0.2: agree, blended 0.125 below low bar
	assert.InDelta(t, 0.125, result.WeightedScore, 1e-9)
	assert.Equal(t, AssessmentBenignLeaning, result.Assessment)
}

func TestComputeIsPure(t *testing.T) {
	sub := Subscores{Volume: 0.8, Diversity: 0.7, Pattern: 0.9, Window: 0.8}
	hist := &HistoricalStats{TPCount: 5, FPCount: 2}

	first := Compute(sub, hist, testConf)
	second := Compute(sub, hist, testConf)
	assert.Equal(t, first.WeightedScore, second.WeightedScore)
	assert.Equal(t, first.Assessment, second.Assessment)

	// the input stats are not mutated
	assert.Equal(t, int64(5), hist.TPCount)
	assert.Nil(t, hist.Score)
}

func TestThreatRatio(t *testing.T) {
	_, defined := HistoricalStats{}.ThreatRatio()
	assert.False(t, defined)

	ratio, defined := HistoricalStats{TPCount: 5, FPCount: 2}.ThreatRatio()
	assert.True(t, defined)
	assert.InDelta(t, 5.0/7.0, ratio, 1e-9)

	ratio, defined = HistoricalStats{FPCount: 3}.ThreatRatio()
	assert.True(t, defined)
	assert.Equal(t, 0.0, ratio)
}

func TestDeriveSubscores(t *testing.T) {
	assert.Equal(t, Subscores{}, DeriveSubscores(nil))

	events := make([]data.Event, 100)
	for i := range events {
		events[i] = data.Event{
			Timestamp: 1706732400.0 + float64(i*36),
			SrcIP:     "192.168.1.100",
			DstIP:     "10.0.0.5",
			DstPort:   443,
			Protocol:  "tcp",
		}
	}
	sub := DeriveSubscores(events)

	assert.InDelta(t, 0.1, sub.Volume, 1e-9)
	assert.InDelta(t, 1.0/64.0, sub.Diversity, 1e-9)
	// one triple holds the entire batch
	assert.Equal(t, 1.0, sub.Pattern)
	// 99 * 36 = 3564 seconds of 3600
	assert.InDelta(t, 3564.0/3600.0, sub.Window, 1e-9)

	for _, v := range []float64{sub.Volume, sub.Diversity, sub.Pattern, sub.Window} {
		assert.True(t, v >= 0 && v <= 1)
	}
}
