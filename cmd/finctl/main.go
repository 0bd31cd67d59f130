package main

import (
	"context"
	"os"

	"github.com/shopspring/decimal"

	"finboard/internal/cli"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		format, _ := cmd.PersistentFlags().GetString("output")
		cli.PrintError(cmd.ErrOrStderr(), format, err)
		stop()
		os.Exit(1)
	}
}
