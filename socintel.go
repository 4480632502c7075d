package main

import (
	"os"
	"runtime"

	"github.com/socintel/socintel/commands"
	"github.com/socintel/socintel/config"

	"github.com/urfave/cli"
)

// Entry point of socintel
func main() {
	app := cli.NewApp()
	app.Name = "socintel"
	app.Usage = "Score suspicious network behavior in big haystacks."

	app.Version = config.Version
	cli.VersionPrinter = commands.GetVersionPrinter()

	// Define commands used with this application
	app.Commands = commands.Commands()

	runtime.GOMAXPROCS(runtime.NumCPU())
	app.Run(os.Args)
}
