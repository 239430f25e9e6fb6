package main

import (
	"context"
	"os"

	"github.com/walloffame/wof/cmd/cli"
	"github.com/walloffame/wof/internal/common"
)

func main() {
	ctx, cleanup := common.WithInterrupt(context.Background())

	err := cli.GetCommandOptions().ExecuteContext(ctx)
	cleanup()

	if err != nil {
		cli.ReportError(err)
		os.Exit(1)
	}
}
