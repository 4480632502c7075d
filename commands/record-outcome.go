package commands

import (
	"fmt"

	"github.com/socintel/socintel/pkg/historical"
	"github.com/socintel/socintel/resources"

	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "record-outcome",
		Usage:     "Record a confirmed outcome for an indicator of compromise",
		ArgsUsage: "<ioc> <tp|fp>",
		Flags: []cli.Flag{
			configFlag,
		},
		Action: recordOutcome,
	}

	bootstrapCommands(command)
}

// recordOutcome feeds an analyst verdict back into the outcome store so
// future runs weight the IOC's history accordingly
func recordOutcome(c *cli.Context) error {
	ioc := c.Args().Get(0)
	verdict := c.Args().Get(1)

	if ioc == "" {
		return cli.NewExitError("Specify an indicator of compromise", -1)
	}

	var truePositive bool
	switch verdict {
	case "tp", "true-positive":
		truePositive = true
	case "fp", "false-positive":
		truePositive = false
	default:
		return cli.NewExitError("Specify a verdict: tp or fp", -1)
	}

	res := resources.InitResources(c.String("config"))

	if err := historical.CreateIndexes(res); err != nil {
		return cli.NewExitError("Error: could not open the outcome store: "+err.Error(), -1)
	}
	if err := historical.NewMongoRepository(res).Record(ioc, truePositive); err != nil {
		return cli.NewExitError("Error: could not record outcome: "+err.Error(), -1)
	}

	fmt.Printf("Recorded %s outcome for %s\n", verdict, ioc)
	return nil
}
