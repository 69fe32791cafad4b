// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/kbase/go-dts/dts"
	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/internal/store"
	"github.com/kbase/go-dts/internal/tui"
	"github.com/kbase/go-dts/internal/workers"
	"github.com/kbase/go-dts/models"
)

var databasesCmd = cli.Command{
	Name:      "databases",
	Usage:     "list the databases available through the DTS",
	ArgsUsage: "[database-id]",
	Action: func(c *cli.Context) error {
		client, err := app.client()
		if err != nil {
			return err
		}
		ctx := context.Background()

		if id := c.Args().First(); id != "" {
			db, err := client.Database(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(db)
		}

		dbs, err := client.Databases(ctx)
		if err != nil {
			return err
		}
		return printJSON(dbs)
	},
}

var searchCmd = cli.Command{
	Name:      "search",
	Usage:     "search a database for files matching a query",
	ArgsUsage: "query...",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "database, d",
			Usage: "ID of the database to search",
		},
		cli.StringFlag{
			Name:  "status",
			Usage: "filter files by staging state (staged or unstaged)",
		},
		cli.IntFlag{
			Name:  "offset",
			Usage: "0-based index of the first result",
		},
		cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := app.client()
		if err != nil {
			return err
		}

		resources, err := client.Search(context.Background(), dts.SearchParams{
			Database: c.String("database"),
			Orcid:    app.cfg.Server.Orcid,
			Query:    strings.Join(c.Args(), " "),
			Status:   c.String("status"),
			Offset:   c.Int("offset"),
			Limit:    c.Int("limit"),
		})
		if err != nil {
			return err
		}
		return printJSON(resources)
	},
}

var fetchCmd = cli.Command{
	Name:      "fetch",
	Usage:     "fetch metadata for files with known IDs",
	ArgsUsage: "file-id...",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "database, d",
			Usage: "ID of the database holding the files",
		},
		cli.IntFlag{
			Name:  "offset",
			Usage: "0-based index of the first result",
		},
		cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := app.client()
		if err != nil {
			return err
		}

		resources, err := client.FetchMetadata(context.Background(), dts.MetadataParams{
			Database: c.String("database"),
			Orcid:    app.cfg.Server.Orcid,
			IDs:      c.Args(),
			Offset:   c.Int("offset"),
			Limit:    c.Int("limit"),
		})
		if err != nil {
			return err
		}
		return printJSON(resources)
	},
}

var transferCmd = cli.Command{
	Name:      "transfer",
	Usage:     "submit a transfer of files from a source to a destination database",
	ArgsUsage: "file-id...",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "source",
			Usage: "ID of the database the files come from",
		},
		cli.StringFlag{
			Name:  "destination",
			Usage: "ID of the database the files go to",
		},
		cli.StringFlag{
			Name:  "description",
			Usage: "Markdown description included in the transfer manifest",
		},
		cli.StringFlag{
			Name:  "instructions",
			Usage: "path of a JSON file with processing instructions for the destination",
		},
	},
	Action: func(c *cli.Context) error {
		svc, journal, err := app.transferService()
		if err != nil {
			return err
		}
		defer journal.Close()

		instructions, err := readInstructions(c.String("instructions"))
		if err != nil {
			return err
		}

		id, err := svc.Submit(context.Background(), models.TransferRequest{
			Orcid:        app.cfg.Server.Orcid,
			Source:       c.String("source"),
			Destination:  c.String("destination"),
			FileIDs:      c.Args(),
			Description:  c.String("description"),
			Instructions: instructions,
		})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var statusCmd = cli.Command{
	Name:      "status",
	Usage:     "report the status of a transfer",
	ArgsUsage: "transfer-id",
	Action: func(c *cli.Context) error {
		id, err := parseTransferID(c.Args().First())
		if err != nil {
			return err
		}
		svc, journal, err := app.transferService()
		if err != nil {
			return err
		}
		defer journal.Close()

		status, err := svc.Status(context.Background(), id)
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var cancelCmd = cli.Command{
	Name:      "cancel",
	Usage:     "cancel a transfer",
	ArgsUsage: "transfer-id",
	Action: func(c *cli.Context) error {
		id, err := parseTransferID(c.Args().First())
		if err != nil {
			return err
		}
		svc, journal, err := app.transferService()
		if err != nil {
			return err
		}
		defer journal.Close()

		if err := svc.Cancel(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("cancellation of %s requested\n", id)
		return nil
	},
}

var transfersCmd = cli.Command{
	Name:  "transfers",
	Usage: "list transfers recorded in the local journal",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "active",
			Usage: "show only transfers that have not finished",
		},
		cli.IntFlag{
			Name:  "limit",
			Value: 20,
			Usage: "maximum number of transfers to list",
		},
	},
	Action: func(c *cli.Context) error {
		journal, err := app.journal()
		if err != nil {
			return err
		}
		defer journal.Close()
		ctx := context.Background()

		var records []models.TransferRecord
		if c.Bool("active") {
			records, err = journal.ActiveTransfers(ctx)
		} else {
			records, err = journal.ListTransfers(ctx, c.Int("limit"))
		}
		if err != nil {
			return err
		}

		for _, rec := range records {
			fmt.Printf("%s  %s\n", rec.ID, store.Summary(rec))
		}
		return nil
	},
}

var watchCmd = cli.Command{
	Name:      "watch",
	Usage:     "follow a transfer interactively until it finishes",
	ArgsUsage: "transfer-id",
	Action: func(c *cli.Context) error {
		id, err := parseTransferID(c.Args().First())
		if err != nil {
			return err
		}

		// the monitor owns the terminal, so logs go to a file instead of
		// stderr for the duration of the watch
		log := logger.NewFileLogger("dts")
		app.log = log

		svc, journal, err := app.transferService()
		if err != nil {
			return err
		}
		defer journal.Close()

		poller := workers.NewStatusPoller(svc, app.cfg.Workers.PollInterval, log)
		monitor := tui.NewMonitor(poller, log)

		status, err := monitor.Run(context.Background(), id)
		if errors.Is(err, tui.ErrUserQuit) {
			fmt.Printf("transfer %s is still %s on the server\n", id, status.Status)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("transfer %s finished: %s (%d of %d files)\n",
			id, status.Status, status.NumFilesTransferred, status.NumFiles)
		return nil
	},
}

// printJSON writes v to stdout as indented JSON. Command results go to
// stdout; logs go to stderr.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseTransferID(arg string) (uuid.UUID, error) {
	if arg == "" {
		return uuid.Nil, fmt.Errorf("a transfer ID is required")
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed transfer ID %q: %w", arg, err)
	}
	return id, nil
}

// readInstructions loads and validates the optional JSON instructions file.
func readInstructions(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instructions: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("instructions file %s does not contain valid JSON", path)
	}
	return json.RawMessage(raw), nil
}
