package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vivekkatkar/PrepSync/internal/recordings"
)

func main() {
	app := &cli.App{
		Name:        "prepsync-worker",
		Usage:       "Recordings post-processing worker",
		Description: "",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "natsAddr",
				Value: "nats://127.0.0.1:4222",
				Usage: "Address to connect to NATS server",
			},
		},
		Action: start,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("%v\n", err)
	}
}

func start(c *cli.Context) error {
	daemon, err := recordings.New(c.String("natsAddr"))
	if err != nil {
		return err
	}

	if err := daemon.Run(); err != nil {
		return err
	}

	return nil
}
