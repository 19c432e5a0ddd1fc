// @title           SkyJobs API
// @version         1.0
// @description     Drone jobs marketplace: clients post jobs, pilots upload imagery.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"os"

	"skyjobs/cmd/web/commands"
)

// Заполняется при сборке через -ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.SetVersionInfo(version, commit)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
