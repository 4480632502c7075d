package runs

import (
	"github.com/socintel/socintel/pkg/beacon"
	"github.com/socintel/socintel/pkg/dnstunnel"
	"github.com/socintel/socintel/pkg/engine"
	"github.com/socintel/socintel/pkg/scanning"
	"github.com/socintel/socintel/pkg/score"
	"github.com/socintel/socintel/pkg/technique"
)

type (
	// Repository persists the output of analysis runs into a dataset's
	// result collections and reads them back for presentation
	Repository interface {
		CreateIndexes() error
		Store(ioc string, result *engine.Result) error
		Techniques() ([]TechniqueView, error)
		Beacons() ([]beacon.Result, error)
		PortScans() ([]scanning.Result, error)
		DNSTunnels() ([]dnstunnel.Result, error)
		Scores() ([]ScoreView, error)
	}

	//TechniqueView is a stored technique match stamped with its run
	TechniqueView struct {
		RunID           string `bson:"run_id"`
		technique.Match `bson:",inline"`
	}

	//ScoreView is a stored weighted threat score stamped with its run
	//and the IOC it was computed for
	ScoreView struct {
		RunID                     string  `bson:"run_id"`
		IOC                       string  `bson:"ioc"`
		WindowStart               float64 `bson:"window_start"`
		WindowEnd                 float64 `bson:"window_end"`
		score.WeightedThreatScore `bson:",inline"`
	}
)
