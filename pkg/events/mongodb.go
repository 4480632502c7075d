package events

import (
	"github.com/globalsign/mgo"

	"github.com/socintel/socintel/pkg/data"
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
	session := r.res.DB.Session.Copy()
	defer session.Close()

	collectionName := r.res.Config.T.Structure.EventTable

	// Desired indexes
	indexes := []mgo.Index{
		{Key: []string{"ts"}},
		{Key: []string{"$hashed:src"}},
		{Key: []string{"$hashed:dst"}},
	}
	return r.res.DB.CreateCollection(collectionName, indexes)
}

//Insert writes a chunk of events into the selected dataset
func (r *repo) Insert(events []data.Event) error {
	if len(events) == 0 {
		return nil
	}

	session := r.res.DB.Session.Copy()
	defer session.Close()

	bulk := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Structure.EventTable).Bulk()
	bulk.Unordered()
	for _, event := range events {
		bulk.Insert(event)
	}
	_, err := bulk.Run()
	return err
}

//LoadAll returns every event in the selected dataset, bounded by the
//configured batch limit
func (r *repo) LoadAll() ([]data.Event, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	var results []data.Event
	err := session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Structure.EventTable).
		Find(nil).Limit(r.res.Config.S.Import.BatchLimit).All(&results)
	return results, err
}

//Count returns the number of events in the selected dataset
func (r *repo) Count() (int, error) {
	session := r.res.DB.Session.Copy()
	defer session.Close()

	return session.DB(r.res.DB.GetSelectedDB()).
		C(r.res.Config.T.Structure.EventTable).Count()
}
