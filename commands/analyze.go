package commands

import (
	"fmt"
	"time"

	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/pkg/engine"
	"github.com/socintel/socintel/pkg/events"
	"github.com/socintel/socintel/pkg/historical"
	"github.com/socintel/socintel/pkg/runs"
	"github.com/socintel/socintel/pkg/score"
	"github.com/socintel/socintel/resources"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	analyzeCommand := cli.Command{
		Name:  "analyze",
		Usage: "Analyze imported datasets, if no [dataset,d] flag is specified will attempt all",
		Flags: []cli.Flag{
			datasetFlag,
			configFlag,
		},
		Action: func(c *cli.Context) error {
			return analyze(c.String("dataset"), c.String("config"))
		},
	}

	bootstrapCommands(analyzeCommand)
}

func analyze(inDataset string, configFile string) error {
	res := resources.InitResources(configFile)
	var toRun []string

	// Check to see if we want to run a full database or just one off the command line
	if inDataset == "" {
		names := res.MetaDB.GetUnAnalyzedDatasets()
		if len(names) == 0 {
			return cli.NewExitError("No unanalyzed datasets found", -1)
		}
		fmt.Println("Preparing to analyze these datasets:")
		for _, name := range names {
			fmt.Println(name)
			toRun = append(toRun, name)
		}
	} else {
		info, err := res.MetaDB.GetDatasetMetaInfo(inDataset)
		if err != nil {
			return cli.NewExitError("Error: "+inDataset+" not found", -1)
		}
		if info.Analyzed {
			return cli.NewExitError("Error: "+inDataset+" is already analyzed", -1)
		}
		toRun = append(toRun, inDataset)
	}

	histRepo, err := historical.NewCachedRepository(
		historical.NewMongoRepository(res), res.Config.S.Scoring.CacheSize)
	if err != nil {
		return cli.NewExitError("Error: could not open the outcome store: "+err.Error(), -1)
	}

	eng, err := engine.New(res.Config, res.Log)
	if err != nil {
		return cli.NewExitError("Error: "+err.Error(), -1)
	}

	for _, dataset := range toRun {
		startAll := time.Now()
		fmt.Println("[+] Analyzing:", dataset)

		if err := analyzeDataset(res, eng, histRepo, dataset); err != nil {
			res.Log.WithFields(log.Fields{
				"dataset": dataset,
				"error":   err.Error(),
			}).Error("analysis failed")
			return cli.NewExitError("Error: could not analyze "+dataset+": "+err.Error(), -1)
		}

		fmt.Printf("[+] Finished %s in %.2f seconds\n",
			dataset, time.Since(startAll).Seconds())
	}
	return nil
}

func analyzeDataset(res *resources.Resources, eng *engine.Engine,
	histRepo historical.Repository, dataset string) error {
	res.DB.SelectDB(dataset)

	batch, err := events.NewMongoRepository(res).LoadAll()
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return fmt.Errorf("dataset %s holds no events", dataset)
	}

	ioc := dominantDestination(batch)
	hist, err := histRepo.Get(ioc)
	if err != nil {
		return err
	}

	result, err := eng.Analyze(batch, score.DeriveSubscores(batch), hist)
	if err != nil {
		return err
	}

	runRepo := runs.NewMongoRepository(res)
	if err := runRepo.CreateIndexes(); err != nil {
		return err
	}
	if err := runRepo.Store(ioc, result); err != nil {
		return err
	}

	return res.MetaDB.MarkDatasetAnalyzed(dataset, true)
}

// dominantDestination picks the destination IP that appears in the most
// events. The scored IOC for a run is the batch's busiest destination.
// Ties break towards the lexicographically smallest address so repeated
// runs stay deterministic.
func dominantDestination(batch []data.Event) string {
	counts := make(map[string]int)
	for _, event := range batch {
		counts[event.DstIP]++
	}

	var ioc string
	var best int
	for dst, count := range counts {
		if count > best || (count == best && (ioc == "" || dst < ioc)) {
			ioc = dst
			best = count
		}
	}
	return ioc
}
