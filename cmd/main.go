package main

import (
	"fmt"
	"os"

	vaultservice "github.com/patagonfinance/vault-service"
	"github.com/urfave/cli/v2"
)

const (
	flagCfg     = "cfg"
	flagNetwork = "network"
	flagDown    = "down"
)

const (
	// App name
	appName = "vault-service"
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Version = vaultservice.Version
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     flagCfg,
			Aliases:  []string{"c"},
			Usage:    "Configuration `FILE`",
			Required: false,
		},
		&cli.StringFlag{
			Name:     flagNetwork,
			Aliases:  []string{"n"},
			Usage:    "Network: testnet, local. Required unless the config file has a [NetworkConfig] section",
			Required: false,
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{},
			Usage:   "Application version and build",
			Action:  versionCmd,
		},
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the vault service",
			Action:  start,
			Flags:   flags,
		},
		{
			Name:    "migrate",
			Aliases: []string{},
			Usage:   "Apply the pending database migrations, or roll some back",
			Action:  migrate,
			Flags: append(flags, &cli.IntFlag{
				Name:  flagDown,
				Usage: "Roll back the last `N` migrations instead, 0 applies every pending one",
			}),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
}
