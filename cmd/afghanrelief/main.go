package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "afghanrelief",
		Usage: "Donation collection and impact reporting service",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			nanoidCommand,
			donationIDCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
