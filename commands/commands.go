package commands

import (
	"runtime"

	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	// below are some prebuilt flags that get used often in various commands

	// configFlag allows users to specify an alternate config file to use
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	// datasetFlag allows users to specify which dataset they would like to
	// run a command against
	datasetFlag = cli.StringFlag{
		Name:  "dataset, d",
		Usage: "Run this command against `DATASET`",
		Value: "",
	}

	// forceFlag allows users to bypass prompts
	forceFlag = cli.BoolFlag{
		Name:  "force, f",
		Usage: "Bypass verification prompts",
	}

	// humanFlag gets passed to the show commands to print the results
	// in a human readable table rather than as csv
	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of csv",
	}
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	for _, command := range commands {
		command.Before = func(c *cli.Context) error {
			// Get access to the real number of cores on this system
			runtime.GOMAXPROCS(runtime.NumCPU())
			return nil
		}
		allCommands = append(allCommands, command)
	}
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}
