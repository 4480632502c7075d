package historical

import (
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"

	"github.com/socintel/socintel/pkg/score"
	"github.com/socintel/socintel/resources"
)

type (
	repo struct {
		res *resources.Resources
	}

	//iocStatsDoc is the stored form of one IOC's outcome record
	iocStatsDoc struct {
		IOC     string   `bson:"ioc"`
		TPCount int64    `bson:"tp_count"`
		FPCount int64    `bson:"fp_count"`
		Score   *float64 `bson:"score,omitempty"`
	}
)

//NewMongoRepository create new repository
func NewMongoRepository(res *resources.Resources) Repository {
	return &repo{
		res: res,
	}
}

//CreateIndexes sets up the iocStats collection in the meta database
func CreateIndexes(res *resources.Resources) error {
	session := res.DB.Session.Copy()
	defer session.Close()

	collection := session.DB(res.Config.S.MongoDB.MetaDB).
		C(res.Config.T.Historical.IOCStatsTable)
	return collection.EnsureIndex(mgo.Index{
		Key:    []string{"ioc"},
		Unique: true,
	})
}

//Get fetches the outcome statistics for one IOC. A missing record is
//returned as nil stats, not as zero counts.
func (r *repo) Get(ioc string) (*score.HistoricalStats, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var doc iocStatsDoc
	err := session.DB(r.res.Config.S.MongoDB.MetaDB).
		C(r.res.Config.T.Historical.IOCStatsTable).
		Find(bson.M{"ioc": ioc}).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &score.HistoricalStats{
		TPCount: doc.TPCount,
		FPCount: doc.FPCount,
		Score:   doc.Score,
	}, nil
}

//Record registers one adjudicated outcome for an IOC
func (r *repo) Record(ioc string, truePositive bool) error {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	field := "fp_count"
	if truePositive {
		field = "tp_count"
	}

	_, err := session.DB(r.res.Config.S.MongoDB.MetaDB).
		C(r.res.Config.T.Historical.IOCStatsTable).
		Upsert(
			bson.M{"ioc": ioc},
			bson.M{"$inc": bson.M{field: 1}},
		)
	return err
}
