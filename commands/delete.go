package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/socintel/socintel/resources"

	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "delete",
		Aliases:   []string{"delete-database"},
		Usage:     "Delete an imported dataset and its analysis results",
		ArgsUsage: "<dataset>",
		Flags: []cli.Flag{
			configFlag,
			forceFlag,
		},
		Action: func(c *cli.Context) error {
			dataset := c.Args().Get(0)
			if dataset == "" {
				return cli.NewExitError("Specify a dataset", -1)
			}

			if !c.Bool("force") {
				fmt.Print("Are you sure you want to delete dataset ", dataset, " [y/N] ")

				read := bufio.NewReader(os.Stdin)
				response, err := read.ReadString('\n')
				if err != nil {
					return cli.NewExitError(err.Error(), -1)
				}
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					return cli.NewExitError("Dataset "+dataset+" was not deleted.", 0)
				}
			}

			res := resources.InitResources(c.String("config"))
			fmt.Println("Deleting dataset:", dataset)
			if err := res.MetaDB.DeleteDataset(dataset); err != nil {
				return cli.NewExitError("Error: could not delete dataset: "+err.Error(), -1)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}
