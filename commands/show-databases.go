package commands

import (
	"encoding/csv"
	"os"

	"github.com/socintel/socintel/resources"
	"github.com/socintel/socintel/util"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "show-databases",
		Usage: "Print the datasets currently stored",
		Flags: []cli.Flag{
			humanFlag,
			configFlag,
		},
		Action: showDatabases,
	}

	bootstrapCommands(command)
}

func showDatabases(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))

	datasets := res.MetaDB.GetDatasets()
	if len(datasets) == 0 {
		return cli.NewExitError("No datasets have been imported", -1)
	}

	boolString := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	if c.Bool("human-readable") {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Events", "Import Finished",
			"Analyzed", "Imported At"})
		for _, d := range datasets {
			table.Append([]string{
				d.Name, i(d.EventCount), boolString(d.ImportFinished),
				boolString(d.Analyzed),
				d.ImportedAt.UTC().Format(util.TimeFormat),
			})
		}
		table.Render()
		return nil
	}

	csvWriter := csv.NewWriter(os.Stdout)
	csvWriter.Write([]string{"Name", "Events", "Import Finished", "Analyzed", "Imported At"})
	for _, d := range datasets {
		csvWriter.Write([]string{
			d.Name, i(d.EventCount), boolString(d.ImportFinished),
			boolString(d.Analyzed),
			d.ImportedAt.UTC().Format(util.TimeFormat),
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
