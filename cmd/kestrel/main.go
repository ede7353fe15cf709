package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kestrelhq/kestrel/internal/commands"
	"github.com/kestrelhq/kestrel/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.RootCmd().ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
