package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/firebird-suite/weaver/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
