package main

import (
	"context"
	"encoding/json"
	"strconv"

	"go-microplastic-inspector/internal/render"

	"github.com/urfave/cli/v2"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous analyses",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the history as JSON",
			},
		},
		Action: runHistory,
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the details of one history entry",
				ArgsUsage: "<id>",
				Action:    runHistoryShow,
			},
		},
	}
}

func runHistory(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, app.Config().RequestTimeout)
	defer cancel()

	v := app.Service().History(ctx)
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return render.NewTextRenderer(c.App.Writer).History(v)
}

// runHistoryShow loads the list and derives the entry's detail from it
func runHistoryShow(c *cli.Context) error {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return cli.Exit("history show takes a numeric id", 2)
	}

	app, err := setup(c)
	if err != nil {
		return err
	}
	svc := app.Service()

	ctx, cancel := context.WithTimeout(c.Context, app.Config().RequestTimeout)
	defer cancel()

	svc.History(ctx)
	detail, err := svc.HistoryDetail(id)
	if err != nil {
		return fail(c, svc, err)
	}
	return render.NewTextRenderer(c.App.Writer).Detail(detail)
}
