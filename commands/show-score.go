package commands

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/socintel/socintel/pkg/runs"
	"github.com/socintel/socintel/resources"
	"github.com/socintel/socintel/util"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "show-score",
		Usage: "Print the weighted threat scores for a dataset to standard out",
		Flags: []cli.Flag{
			humanFlag,
			datasetFlag,
			configFlag,
		},
		Action: showScores,
	}

	bootstrapCommands(command)
}

func showScores(c *cli.Context) error {
	if c.String("dataset") == "" {
		return cli.NewExitError("Specify a dataset with -d", -1)
	}
	res := resources.InitResources(c.String("config"))
	res.DB.SelectDB(c.String("dataset"))

	data, err := runs.NewMongoRepository(res).Scores()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(data) == 0 {
		return cli.NewExitError("No results were found for "+c.String("dataset"), -1)
	}

	if c.Bool("human-readable") {
		showScoreReport(data)
		return nil
	}

	err = showScoreCsv(data)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

// historicalColumn renders the optional historical component, "-" when
// the IOC had no outcome history
func historicalColumn(v *float64) string {
	if v == nil {
		return "-"
	}
	return f(*v)
}

func showScoreReport(data []runs.ScoreView) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"IOC", "Current", "Historical", "Weighted",
		"Assessment", "Window Start", "Window End"})

	for _, d := range data {
		table.Append([]string{
			d.IOC, f(d.CurrentScore), historicalColumn(d.HistoricalScore),
			f(d.WeightedScore), d.Assessment,
			time.Unix(int64(d.WindowStart), 0).UTC().Format(util.TimeFormat),
			time.Unix(int64(d.WindowEnd), 0).UTC().Format(util.TimeFormat),
		})
	}
	table.Render()
}

func showScoreCsv(data []runs.ScoreView) error {
	csvWriter := csv.NewWriter(os.Stdout)
	csvWriter.Write([]string{
		"IOC", "Volume", "Diversity", "Pattern", "Window",
		"Current", "Historical", "Weighted", "Assessment",
	})

	for _, d := range data {
		csvWriter.Write([]string{
			d.IOC, f(d.Subscores.Volume), f(d.Subscores.Diversity),
			f(d.Subscores.Pattern), f(d.Subscores.Window),
			f(d.CurrentScore), historicalColumn(d.HistoricalScore),
			f(d.WeightedScore), d.Assessment,
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
