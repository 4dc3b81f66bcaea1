package main

import (
	"os"

	vaultservice "github.com/patagonfinance/vault-service"
	"github.com/urfave/cli/v2"
)

func versionCmd(*cli.Context) error {
	vaultservice.PrintVersion(os.Stdout)
	return nil
}
