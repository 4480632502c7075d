package commands

import (
	"fmt"

	"github.com/socintel/socintel/parser"
	"github.com/socintel/socintel/resources"

	"github.com/urfave/cli"
)

func init() {
	importCommand := cli.Command{
		Name:      "import",
		Usage:     "Import a file of newline-delimited JSON events as a dataset",
		ArgsUsage: "<event file> <dataset name>",
		Flags: []cli.Flag{
			configFlag,
		},
		Action: doImport,
	}

	bootstrapCommands(importCommand)
}

// doImport runs the importer against a single event file
func doImport(c *cli.Context) error {
	importFile := c.Args().Get(0)
	dataset := c.Args().Get(1)

	if importFile == "" || dataset == "" {
		return cli.NewExitError("Specify an event file and a dataset name", -1)
	}

	res := resources.InitResources(c.String("config"))

	importer := parser.NewImporter(res)
	count, err := importer.Import(importFile, dataset)
	if err != nil {
		return cli.NewExitError("Import failed: "+err.Error(), -1)
	}

	fmt.Printf("Imported %d events into %s\n", count, dataset)
	return nil
}
