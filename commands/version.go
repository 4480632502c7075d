package commands

import (
	"fmt"

	"github.com/urfave/cli"
)

//GetVersionPrinter prints the version info of socintel
func GetVersionPrinter() func(*cli.Context) {
	return func(c *cli.Context) {
		fmt.Printf("%s version %s\n", c.App.Name, c.App.Version)
		fmt.Print(updateCheck(c.String("config")))
	}
}
