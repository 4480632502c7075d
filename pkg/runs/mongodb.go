package runs

import (
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"

	"github.com/socintel/socintel/pkg/beacon"
	"github.com/socintel/socintel/pkg/dnstunnel"
	"github.com/socintel/socintel/pkg/engine"
	"github.com/socintel/socintel/pkg/scanning"
	"github.com/socintel/socintel/resources"
)

type repo struct {
	res *resources.Resources
}

//NewMongoRepository create new repository
func NewMongoRepository(res *resources.Resources) Repository {
	return &repo{
		res: res,
	}
}

func (r *repo) CreateIndexes() error {
	tables := r.res.Config.T

	byRun := []mgo.Index{{Key: []string{"run_id"}}}
	for _, collection := range []string{
		tables.Technique.TechniqueTable,
		tables.Anomaly.BeaconTable,
		tables.Anomaly.PortScanTable,
		tables.Anomaly.DNSTunnelTable,
		tables.Score.ScoreTable,
	} {
		if err := r.res.DB.CreateCollection(collection, byRun); err != nil {
			return err
		}
	}
	return nil
}

//Store writes every finding of one analysis run into the selected
//dataset's result collections
func (r *repo) Store(ioc string, result *engine.Result) error {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	db := session.DB(r.res.DB.GetSelectedDB())
	tables := r.res.Config.T

	for _, match := range result.Techniques {
		err := db.C(tables.Technique.TechniqueTable).Insert(TechniqueView{
			RunID: result.RunID,
			Match: match,
		})
		if err != nil {
			return err
		}
	}

	for _, b := range result.Anomalies.Beacons {
		if err := db.C(tables.Anomaly.BeaconTable).Insert(stamped(result.RunID, b)); err != nil {
			return err
		}
	}
	for _, scan := range result.Anomalies.PortScans {
		if err := db.C(tables.Anomaly.PortScanTable).Insert(stamped(result.RunID, scan)); err != nil {
			return err
		}
	}
	for _, tunnel := range result.Anomalies.DNSTunnels {
		if err := db.C(tables.Anomaly.DNSTunnelTable).Insert(stamped(result.RunID, tunnel)); err != nil {
			return err
		}
	}

	return db.C(tables.Score.ScoreTable).Insert(ScoreView{
		RunID:               result.RunID,
		IOC:                 ioc,
		WindowStart:         result.WindowStart,
		WindowEnd:           result.WindowEnd,
		WeightedThreatScore: result.Score,
	})
}

//stamped wraps a finding document with its run identifier
func stamped(runID string, doc interface{}) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return bson.M{"run_id": runID}
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return bson.M{"run_id": runID}
	}
	fields["run_id"] = runID
	return fields
}

func (r *repo) Techniques() ([]TechniqueView, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []TechniqueView
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Technique.TechniqueTable).
		Find(nil).Sort("-confidence").All(&results)
	return results, err
}

func (r *repo) Beacons() ([]beacon.Result, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []beacon.Result
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Anomaly.BeaconTable).
		Find(nil).Sort("-connection_count").All(&results)
	return results, err
}

func (r *repo) PortScans() ([]scanning.Result, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []scanning.Result
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Anomaly.PortScanTable).
		Find(nil).Sort("-unique_ports").All(&results)
	return results, err
}

func (r *repo) DNSTunnels() ([]dnstunnel.Result, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []dnstunnel.Result
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Anomaly.DNSTunnelTable).
		Find(nil).Sort("-query_count").All(&results)
	return results, err
}

func (r *repo) Scores() ([]ScoreView, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []ScoreView
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Score.ScoreTable).
		Find(nil).Sort("-weighted_score").All(&results)
	return results, err
}
