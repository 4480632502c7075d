package engine

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/anomaly"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/pkg/score"
	"github.com/socintel/socintel/pkg/technique"
)

type (
	//Engine is the stateless detection and scoring entry point. A single
	//Engine is safe to invoke concurrently for independent batches; no
	//state survives a call.
	Engine struct {
		conf *config.Config
		log  *log.Logger
	}

	//Result is the combined output of one analysis run. All fields are
	//populated together; a failed run produces no partial Result.
	Result struct {
		RunID       string                    `bson:"run_id" json:"run_id"`
		WindowStart float64                   `bson:"window_start" json:"window_start"`
		WindowEnd   float64                   `bson:"window_end" json:"window_end"`
		Techniques  []technique.Match         `bson:"techniques" json:"techniques"`
		Anomalies   anomaly.Report            `bson:"anomalies" json:"anomalies"`
		Score       score.WeightedThreatScore `bson:"score" json:"score"`
	}
)

//New validates the configured thresholds and constructs an Engine.
//Unsupported configuration fails here, never mid-analysis.
func New(conf *config.Config, logger *log.Logger) (*Engine, error) {
	if err := conf.S.Verify(); err != nil {
		return nil, err
	}
	return &Engine{conf: conf, log: logger}, nil
}

//Analyze runs the technique mapper, the anomaly detectors, and the score
//blender over one event batch. A single invalid event aborts the whole
//run; partial results would misrepresent confidence. hist may be nil
//when the historical store has no record for the IOC under review.
func (e *Engine) Analyze(events []data.Event, sub score.Subscores, hist *score.HistoricalStats) (*Result, error) {
	if len(events) > e.conf.S.Import.BatchLimit {
		return nil, fmt.Errorf("batch of %d events exceeds the %d event limit",
			len(events), e.conf.S.Import.BatchLimit)
	}
	if err := data.ValidateBatch(events); err != nil {
		return nil, err
	}

	result := &Result{
		RunID: uuid.New().String(),
	}
	if len(events) > 0 {
		result.WindowStart = events[0].Timestamp
		result.WindowEnd = events[0].Timestamp
		for _, event := range events {
			if event.Timestamp < result.WindowStart {
				result.WindowStart = event.Timestamp
			}
			if event.Timestamp > result.WindowEnd {
				result.WindowEnd = event.Timestamp
			}
		}
	}

	result.Anomalies = anomaly.Detect(events, e.conf)
	result.Techniques = technique.Infer(events, result.Anomalies, e.conf)
	result.Score = score.Compute(sub, hist, e.conf.S.Scoring)

	e.log.WithFields(log.Fields{
		"run_id":     result.RunID,
		"events":     len(events),
		"techniques": len(result.Techniques),
		"anomalies":  result.Anomalies.TotalAnomalies(),
		"assessment": result.Score.Assessment,
	}).Debug("analysis run complete")

	return result, nil
}
