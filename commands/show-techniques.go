package commands

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/socintel/socintel/pkg/runs"
	"github.com/socintel/socintel/resources"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "show-techniques",
		Usage: "Print inferred ATT&CK techniques to standard out",
		Flags: []cli.Flag{
			humanFlag,
			datasetFlag,
			configFlag,
		},
		Action: showTechniques,
	}

	bootstrapCommands(command)
}

func showTechniques(c *cli.Context) error {
	if c.String("dataset") == "" {
		return cli.NewExitError("Specify a dataset with -d", -1)
	}
	res := resources.InitResources(c.String("config"))
	res.DB.SelectDB(c.String("dataset"))

	data, err := runs.NewMongoRepository(res).Techniques()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if len(data) == 0 {
		return cli.NewExitError("No results were found for "+c.String("dataset"), -1)
	}

	if c.Bool("human-readable") {
		showTechniqueReport(data)
		return nil
	}

	err = showTechniqueCsv(data)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

func showTechniqueReport(data []runs.TechniqueView) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Technique", "Name", "Tactic", "Confidence", "Evidence"})

	for _, d := range data {
		table.Append([]string{
			d.TechniqueID, d.TechniqueName, d.Tactic, f(d.Confidence),
			strings.Join(d.Evidence, "; "),
		})
	}
	table.Render()
}

func showTechniqueCsv(data []runs.TechniqueView) error {
	csvWriter := csv.NewWriter(os.Stdout)
	csvWriter.Write([]string{
		"Technique", "Name", "Tactic", "Confidence", "Evidence",
	})

	for _, d := range data {
		csvWriter.Write([]string{
			d.TechniqueID, d.TechniqueName, d.Tactic, f(d.Confidence),
			strings.Join(d.Evidence, "; "),
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
