// Copyright 2021 Compass Systems
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"
	"strconv"

	log "github.com/ChainSafe/log15"
	"github.com/mapprotocol/stateproof/config"
	"github.com/urfave/cli/v2"
)

var app = cli.NewApp()

var cliFlags = []cli.Flag{
	config.ConfigFileFlag,
	config.VerbosityFlag,
}

var serveFlags = []cli.Flag{
	config.PortFlag,
	config.GrpcPortFlag,
	config.TimeoutFlag,
	config.MetricsFlag,
	config.MetricsPort,
}

var queryFlags = []cli.Flag{
	config.VerbosityFlag,
	config.ServiceFlag,
	config.GrpcTargetFlag,
	config.AddressFlag,
	config.EndpointFlag,
	config.HeightFlag,
	config.KeyFlag,
	config.EncodingFlag,
}

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "serve state proofs",
	Description: "The serve command answers POST / with a state proof envelope for an account,\n" +
		"\tor for an account and one storage slot when a key is given.",
	Action: serve,
	Flags:  append(append([]cli.Flag{}, cliFlags...), serveFlags...),
}

var queryCommand = cli.Command{
	Name:  "query",
	Usage: "request a state proof from a running service",
	Description: "The query command posts one request and prints the envelope it gets back.\n" +
		"\tstateproof query --address 0x.. --ethereumUrl https://node --height 22545713 --key 0x00..",
	Action: query,
	Flags:  queryFlags,
}

var (
	Version = "0.1.0"
)

// init initializes CLI
func init() {
	app.Action = serve
	app.Name = "stateproof"
	app.Usage = "Ethereum state proof service"
	app.Version = Version
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		&serveCommand,
		&queryCommand,
	}

	app.Flags = append(app.Flags, cliFlags...)
	app.Flags = append(app.Flags, serveFlags...)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func startLogger(ctx *cli.Context) error {
	logger := log.Root()
	handler := logger.GetHandler()
	var lvl log.Lvl

	if lvlToInt, err := strconv.Atoi(ctx.String(config.VerbosityFlag.Name)); err == nil {
		lvl = log.Lvl(lvlToInt)
	} else if lvl, err = log.LvlFromString(ctx.String(config.VerbosityFlag.Name)); err != nil {
		return err
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, handler))

	return nil
}
