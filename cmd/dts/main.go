// SPDX-License-Identifier: Apache-2.0

// Package main implements the dts command-line interface: search for files
// in DOE Systems Biology databases and move them between repositories via
// the KBase Data Transfer System.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/kbase/go-dts/dts"
	"github.com/kbase/go-dts/internal/config"
	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/internal/service"
	"github.com/kbase/go-dts/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// dtsApp holds state shared by all subcommands. It is populated by the
// app-level Before hook once the global flags have been parsed.
type dtsApp struct {
	cfg *config.StructuredConfig
	log *logger.Logger
}

var app dtsApp

// client connects to the DTS server named in the configuration.
func (a *dtsApp) client() (*dts.Client, error) {
	if a.cfg.Server.Token == "" {
		return nil, config.ErrMissingToken
	}
	return dts.New(dts.Config{
		Server:  a.cfg.Server.Address,
		Port:    a.cfg.Server.Port,
		Token:   a.cfg.Server.Token,
		Timeout: a.cfg.Server.RequestTimeout,
		Logger:  a.log.Logger,
	})
}

// journal opens the local transfer journal.
func (a *dtsApp) journal() (store.Journal, error) {
	return store.NewJournal(a.cfg.Journal.Path, a.log)
}

// transferService wires the connected client and the journal together.
// Close the returned journal when done.
func (a *dtsApp) transferService() (*service.TransferService, store.Journal, error) {
	client, err := a.client()
	if err != nil {
		return nil, nil, err
	}
	journal, err := a.journal()
	if err != nil {
		return nil, nil, err
	}
	return service.NewTransferService(client, journal, a.log), journal, nil
}

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "dts"
	cliApp.Usage = "search and move files between DOE Systems Biology databases"
	cliApp.Version = buildInfo()
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "server, s",
			Usage: "base URL of the DTS server",
		},
		cli.IntFlag{
			Name:  "port, p",
			Usage: "override the server port",
		},
		cli.StringFlag{
			Name:  "orcid",
			Usage: "ORCID identifier sent with requests",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout (e.g. 30s)",
		},
		cli.StringFlag{
			Name:  "journal",
			Usage: "path of the local transfer journal",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path of a JSON configuration file",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
	}
	cliApp.Commands = []cli.Command{
		databasesCmd,
		searchCmd,
		fetchCmd,
		transferCmd,
		statusCmd,
		cancelCmd,
		transfersCmd,
		watchCmd,
	}
	cliApp.Before = func(c *cli.Context) error {
		logger.SetVerbose(c.Bool("verbose"))
		app.log = logger.NewLogger("dts")
		app.log.Debug().
			Str("version", buildVersion).
			Str("date", buildDate).
			Str("commit", buildCommit).
			Msg("build info")

		cfg, err := config.GetConfig(&config.StructuredConfig{
			Server: config.Server{
				Address:        c.String("server"),
				Port:           c.Int("port"),
				Orcid:          c.String("orcid"),
				RequestTimeout: c.Duration("timeout"),
			},
			Journal: config.Journal{
				Path: c.String("journal"),
			},
			JSONFilePath: c.String("config"),
		})
		if err != nil {
			return err
		}
		app.cfg = cfg
		return nil
	}
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dts: %v\n", err)
		os.Exit(1)
	}
}

func buildInfo() string {
	version := buildVersion
	if version == "" {
		version = "N/A"
	}
	date := buildDate
	if date == "" {
		date = "N/A"
	}
	commit := buildCommit
	if commit == "" {
		commit = "N/A"
	}
	return fmt.Sprintf("%s (built %s, commit %s)", version, date, commit)
}
