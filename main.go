// Package main is the entry point for the simplay application.
package main

import (
	"github.com/samber/lo"
	"github.com/simplay-cli/simplay/cmd"
	"github.com/simplay-cli/simplay/config"
	"github.com/simplay-cli/simplay/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
