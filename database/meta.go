package database

import (
	"sync"
	"time"

	"github.com/blang/semver"
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	log "github.com/sirupsen/logrus"

	"github.com/socintel/socintel/config"
)

type (

	// MetaDB exports control for the meta database
	MetaDB struct {
		lock     *sync.Mutex    // Read and write lock
		config   *config.Config // configuration info
		dbHandle *mgo.Session   // Database handle
		log      *log.Logger    // Logging object
	}

	// LogInfo defines information about the UpdateChecker log
	LogInfo struct {
		ID      bson.ObjectId `bson:"_id,omitempty"`
		Time    time.Time     `bson:"LastUpdateCheck"`
		Message string        `bson:"Message"`
		Version string        `bson:"NewestVersion"`
	}

	// DatasetMetaInfo defines some information about an imported dataset
	DatasetMetaInfo struct {
		ID             bson.ObjectId `bson:"_id,omitempty"` // Ident
		Name           string        `bson:"name"`          // Top level name of the dataset database
		EventCount     int           `bson:"event_count"`   // Number of events imported
		ImportFinished bool          `bson:"import_finished"`
		Analyzed       bool          `bson:"analyzed"`
		ImportedAt     time.Time     `bson:"imported_at"`
		ImportVersion  string        `bson:"import_version"`  // socintel version at import
		AnalyzeVersion string        `bson:"analyze_version"` // socintel version at analyze
	}
)

// NewMetaDB instantiates a new handle for the socintel MetaDatabase
func NewMetaDB(config *config.Config, dbHandle *mgo.Session,
	log *log.Logger) *MetaDB {
	return &MetaDB{
		lock:     new(sync.Mutex),
		config:   config,
		dbHandle: dbHandle,
		log:      log,
	}
}

//LastCheck returns most recent version check
func (m *MetaDB) LastCheck() (time.Time, semver.Version) {
	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	iter := ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Log.LogTable).
		Find(bson.M{"Message": "Checking versions..."}).Sort("-Time").Iter()

	var entry LogInfo
	iter.Next(&entry)

	retVersion, err := semver.ParseTolerant(entry.Version)
	if err == nil {
		return entry.Time, retVersion
	}

	return time.Time{}, semver.Version{}
}

// AddNewDataset adds a new dataset to the DatasetMetaInfo table
func (m *MetaDB) AddNewDataset(name string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	err := ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).Insert(
		DatasetMetaInfo{
			Name:          name,
			ImportedAt:    time.Now(),
			ImportVersion: m.config.S.Version,
		},
	)
	if err != nil {
		m.log.WithFields(log.Fields{
			"error": err.Error(),
			"name":  name,
		}).Error("failed to create new dataset document")
		return err
	}

	return nil
}

// GetDatasetMetaInfo returns the meta record for a dataset
func (m *MetaDB) GetDatasetMetaInfo(name string) (DatasetMetaInfo, error) {
	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	var result DatasetMetaInfo
	err := ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).
		Find(bson.M{"name": name}).One(&result)
	return result, err
}

// GetDatasets returns the name of every tracked dataset
func (m *MetaDB) GetDatasets() []DatasetMetaInfo {
	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	var results []DatasetMetaInfo
	err := ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).
		Find(nil).Sort("name").All(&results)
	if err != nil {
		m.log.WithFields(log.Fields{
			"error": err.Error(),
		}).Error("failed to list datasets")
		return nil
	}
	return results
}

// GetUnAnalyzedDatasets returns the names of the fully imported,
// unanalyzed datasets
func (m *MetaDB) GetUnAnalyzedDatasets() []string {
	var names []string
	for _, info := range m.GetDatasets() {
		if info.ImportFinished && !info.Analyzed {
			names = append(names, info.Name)
		}
	}
	return names
}

// MarkDatasetImported marks a dataset as completely imported and records
// its event count
func (m *MetaDB) MarkDatasetImported(name string, eventCount int) error {
	dbr, err := m.GetDatasetMetaInfo(name)
	if err != nil {
		m.log.WithFields(log.Fields{
			"dataset_requested": name,
			"error":             err.Error(),
		}).Error("dataset not found in metadata directory")
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	return ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).
		Update(bson.M{"_id": dbr.ID}, bson.M{
			"$set": bson.D{
				{Name: "import_finished", Value: true},
				{Name: "event_count", Value: eventCount},
			},
		})
}

// MarkDatasetAnalyzed marks a dataset as having been analyzed
func (m *MetaDB) MarkDatasetAnalyzed(name string, complete bool) error {
	dbr, err := m.GetDatasetMetaInfo(name)
	if err != nil {
		m.log.WithFields(log.Fields{
			"dataset_requested": name,
			"error":             err.Error(),
		}).Error("dataset not found in metadata directory")
		return err
	}

	var versionTag string
	if complete {
		versionTag = m.config.S.Version
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	return ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).
		Update(bson.M{"_id": dbr.ID}, bson.M{
			"$set": bson.D{
				{Name: "analyzed", Value: complete},
				{Name: "analyze_version", Value: versionTag},
			},
		})
}

// DeleteDataset removes a dataset managed by socintel
func (m *MetaDB) DeleteDataset(name string) error {
	_, err := m.GetDatasetMetaInfo(name)
	if err != nil {
		m.log.WithFields(log.Fields{
			"dataset_requested": name,
			"error":             err.Error(),
		}).Error("dataset not found in metadata directory")
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	ssn := m.dbHandle.Copy()
	defer ssn.Close()

	//delete the record
	err = ssn.DB(m.config.S.MongoDB.MetaDB).C(m.config.T.Meta.DatasetsTable).
		Remove(bson.M{"name": name})
	if err != nil {
		return err
	}

	//drop the data
	return ssn.DB(name).DropDatabase()
}
