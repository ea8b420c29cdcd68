package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"worklistmon/internal/run"
)

func main() {
	app := &cli.App{
		Name:  "worklistmon",
		Usage: "monitor a radiology worklist and alert on CT/MR backlog",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "perform one monitoring pass",
				Action: run.RunAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yml",
						Usage: "path to YAML config",
					},
					&cli.StringFlag{
						Name:  "contacts",
						Value: "contacts.yml",
						Usage: "path to YAML contact list",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Value: "docs",
						Usage: "directory for snapshots, status.json and the run database",
					},
					&cli.BoolFlag{
						Name:  "force-alert",
						Usage: "alert regardless of threshold and window",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "extract and decide but send nothing",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "list recent recorded runs",
				Action: run.HistoryAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output-dir",
						Value: "docs",
						Usage: "directory holding the run database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of runs to show",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
