package score

import (
	"math"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/util"
)

//Assessment verdicts
const (
	AssessmentThreatConsistent   = "THREAT-CONSISTENT"
	AssessmentThreatInconsistent = "THREAT-INCONSISTENT"
	AssessmentBenignLeaning      = "BENIGN-LEANING"
	AssessmentInsufficientData   = "INSUFFICIENT-DATA"
)

type (
	//Subscores are the four current-session behavioral sub-scores,
	//each in [0, 1]
	Subscores struct {
		Volume    float64 `bson:"volume" json:"volume"`
		Diversity float64 `bson:"diversity" json:"diversity"`
		Pattern   float64 `bson:"pattern" json:"pattern"`
		Window    float64 `bson:"window" json:"window"`
	}

	//HistoricalStats holds ground truth outcome counts for one IOC.
	//Callers pass nil when the historical store has no record for the
	//IOC; a non-nil value with zero counts means the IOC was seen but
	//never adjudicated.
	HistoricalStats struct {
		TPCount int64    `bson:"tp_count" json:"tp_count"`
		FPCount int64    `bson:"fp_count" json:"fp_count"`
		Score   *float64 `bson:"score,omitempty" json:"score,omitempty"`
	}

	//WeightedThreatScore blends the current session's behavioral
	//sub-scores with historical outcome data for the IOC under review.
	//Constructed once per (IOC, window) pair; every derived field is
	//computed at construction and never updated.
	WeightedThreatScore struct {
		Subscores             Subscores `bson:"subscores" json:"subscores"`
		TPCount               int64     `bson:"tp_count" json:"tp_count"`
		FPCount               int64     `bson:"fp_count" json:"fp_count"`
		HistoricalThreatRatio *float64  `bson:"historical_threat_ratio,omitempty" json:"historical_threat_ratio,omitempty"`
		HistoricalScore       *float64  `bson:"historical_score,omitempty" json:"historical_score,omitempty"`
		CurrentScore          float64   `bson:"current_score" json:"current_score"`
		WeightedScore         float64   `bson:"weighted_score" json:"weighted_score"`
		Assessment            string    `bson:"assessment" json:"assessment"`
	}
)

//Mean returns the arithmetic mean of the four sub-scores
func (s Subscores) Mean() float64 {
	return (s.Volume + s.Diversity + s.Pattern + s.Window) / 4.0
}

//ThreatRatio returns tp / (tp + fp) and whether the ratio is defined.
//Zero adjudications leave the ratio undefined rather than zero; "no
//history" must not read as "confirmed benign".
func (h HistoricalStats) ThreatRatio() (float64, bool) {
	total := h.TPCount + h.FPCount
	if total == 0 {
		return 0, false
	}
	return float64(h.TPCount) / float64(total), true
}

//Compute blends the current sub-scores with historical outcome data for
//the IOC. With no historical signal the historical weight is
//redistributed to the current score rather than diluting it.
func Compute(sub Subscores, hist *HistoricalStats, conf config.ScoringStaticCfg) WeightedThreatScore {
	result := WeightedThreatScore{
		Subscores:    sub,
		CurrentScore: sub.Mean(),
	}

	var historicalScore *float64
	if hist != nil {
		result.TPCount = hist.TPCount
		result.FPCount = hist.FPCount

		if ratio, defined := hist.ThreatRatio(); defined {
			ratioCopy := ratio
			result.HistoricalThreatRatio = &ratioCopy
		}

		// an independently supplied historical score takes precedence
		// over the derived ratio
		if hist.Score != nil {
			scoreCopy := *hist.Score
			historicalScore = &scoreCopy
		} else if result.HistoricalThreatRatio != nil {
			scoreCopy := *result.HistoricalThreatRatio
			historicalScore = &scoreCopy
		}
	}
	result.HistoricalScore = historicalScore

	if historicalScore == nil {
		result.WeightedScore = result.CurrentScore
		result.Assessment = assessWithoutHistory(result.WeightedScore, conf)
		return result
	}

	result.WeightedScore = conf.CurrentWeight*result.CurrentScore +
		conf.HistoricalWeight**historicalScore
	result.Assessment = assessWithHistory(
		result.WeightedScore, result.CurrentScore, *historicalScore, conf,
	)
	return result
}

//assessWithoutHistory classifies a run for which the historical store
//had no signal. Only a current score clearing the high bar is called a
//threat; everything else is an evidence problem, not a verdict.
func assessWithoutHistory(weighted float64, conf config.ScoringStaticCfg) string {
	if weighted >= conf.HighThreshold {
		return AssessmentThreatConsistent
	}
	return AssessmentInsufficientData
}

//assessWithHistory classifies a run against both evidence sources.
//Sharp divergence between them is reported as inconsistency regardless
//of the blended magnitude.
func assessWithHistory(weighted, current, historical float64, conf config.ScoringStaticCfg) string {
	if math.Abs(current-historical) > conf.MaxDivergence {
		return AssessmentThreatInconsistent
	}
	if weighted >= conf.HighThreshold {
		return AssessmentThreatConsistent
	}
	if weighted <= conf.LowThreshold {
		return AssessmentBenignLeaning
	}
	return AssessmentInsufficientData
}

//DeriveSubscores is the reference derivation of the four behavioral
//sub-scores from batch statistics, for callers without an upstream
//scoring signal. Each sub-score is clamped to [0, 1].
func DeriveSubscores(events []data.Event) Subscores {
	if len(events) == 0 {
		return Subscores{}
	}

	ports := make(map[int]struct{})
	triples := make(map[string]int)
	minTs := events[0].Timestamp
	maxTs := events[0].Timestamp
	largestGroup := 0

	for _, event := range events {
		if event.DstPort != 0 {
			ports[event.DstPort] = struct{}{}
		}
		triples[event.TripleKey()]++
		if triples[event.TripleKey()] > largestGroup {
			largestGroup = triples[event.TripleKey()]
		}
		if event.Timestamp < minTs {
			minTs = event.Timestamp
		}
		if event.Timestamp > maxTs {
			maxTs = event.Timestamp
		}
	}

	return Subscores{
		Volume:    util.ClampFloat64(float64(len(events))/1000.0, 0, 1),
		Diversity: util.ClampFloat64(float64(len(ports))/64.0, 0, 1),
		Pattern:   util.ClampFloat64(float64(largestGroup)/float64(len(events)), 0, 1),
		Window:    util.ClampFloat64((maxTs-minTs)/3600.0, 0, 1),
	}
}
