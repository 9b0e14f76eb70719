package main

import (
	"context"

	"github.com/linecard/launch/cmd/cli"
	"github.com/linecard/launch/cmd/handler"
	"github.com/linecard/launch/internal/tracing"
	"github.com/linecard/launch/internal/util"
)

func main() {
	util.SetLogLevel()

	ctx := context.Background()

	tp, shutdown := tracing.InitOtel(ctx)
	defer shutdown()

	if util.InLambda() {
		handler.Listen(tp)
		return
	}

	cli.Invoke(ctx)
}
