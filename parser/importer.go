package parser

import (
	"fmt"
	"os"
	"time"

	"github.com/pbnjay/memory"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"

	"github.com/socintel/socintel/pkg/events"
	"github.com/socintel/socintel/resources"
	"github.com/socintel/socintel/util"
)

//Importer loads normalized event files into dataset databases
type Importer struct {
	res *resources.Resources
}

//NewImporter binds an Importer to the system resources
func NewImporter(res *resources.Resources) *Importer {
	return &Importer{res: res}
}

//Import reads the event file at path into a new dataset. The dataset
//name must not already be tracked.
func (i *Importer) Import(path string, dataset string) (int, error) {
	if _, err := i.res.MetaDB.GetDatasetMetaInfo(dataset); err == nil {
		return 0, fmt.Errorf("dataset %s already exists", dataset)
	}

	i.checkMemory(path)

	eventList, err := ReadEventFile(path, i.res.Config.S.Import.BatchLimit, i.res.Log)
	if err != nil {
		return 0, err
	}

	if err := i.res.MetaDB.AddNewDataset(dataset); err != nil {
		return 0, err
	}

	i.res.DB.SelectDB(dataset)
	repo := events.NewMongoRepository(i.res)
	if err := repo.CreateIndexes(); err != nil {
		return 0, err
	}

	chunkSize := i.res.Config.S.Import.ImportBuffer

	// progress bar for troubleshooting
	p := mpb.New(mpb.WithWidth(20))
	bar := p.AddBar(int64(len(eventList)),
		mpb.PrependDecorators(
			decor.Name("\t[-] Importing events:", decor.WC{W: 30, C: decor.DidentRight}),
			decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	for start := 0; start < len(eventList); start += chunkSize {
		chunkStart := time.Now()
		end := util.Min(start+chunkSize, len(eventList))
		if err := repo.Insert(eventList[start:end]); err != nil {
			return 0, err
		}
		bar.IncrBy(end-start, time.Since(chunkStart))
	}
	p.Wait()

	if err := i.res.MetaDB.MarkDatasetImported(dataset, len(eventList)); err != nil {
		return 0, err
	}

	i.res.Log.WithFields(log.Fields{
		"dataset": dataset,
		"events":  len(eventList),
		"file":    path,
	}).Info("import finished")

	return len(eventList), nil
}

//checkMemory warns when the event file looks too large to buffer
//comfortably alongside the decoded batch
func (i *Importer) checkMemory(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	// decoded events plus collection buffers run several times the
	// on-disk size
	if uint64(info.Size())*4 > memory.TotalMemory() {
		i.res.Log.WithFields(log.Fields{
			"file":         path,
			"file_bytes":   info.Size(),
			"total_memory": memory.TotalMemory(),
		}).Warn("event file may not fit in memory")
		fmt.Println("\t[!] Event file is large relative to system memory; import may be slow")
	}
}
