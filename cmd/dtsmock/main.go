// SPDX-License-Identifier: Apache-2.0

// Package main runs a standalone mock DTS server for local development.
// Point the dts CLI (or any client of the library) at it with a matching
// token to exercise the full transfer workflow without a KBase account.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/kbase/go-dts/internal/dtsmock"
	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/internal/server"
)

func main() {
	app := cli.NewApp()
	app.Name = "dtsmock"
	app.Usage = "serve an in-memory imitation of the Data Transfer System API"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "addr, a",
			Value: ":8080",
			Usage: "address to listen on",
		},
		cli.StringFlag{
			Name:   "token, t",
			Value:  "dts-mock-token",
			Usage:  "unencoded token clients must present",
			EnvVar: "DTS_KBASE_DEV_TOKEN",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
	app.Action = func(c *cli.Context) error {
		logger.SetVerbose(c.Bool("verbose"))
		log := logger.NewLogger("dtsmock")

		mock := dtsmock.NewServer(c.String("token"), log)
		srv, err := server.NewServer(mock.Handler(), c.String("addr"), log)
		if err != nil {
			return err
		}

		srv.RunServer()
		return nil
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dtsmock: %v\n", err)
		os.Exit(1)
	}
}
