// Command waypoint inspects and exercises route documents.
//
//	waypoint resolve --routes routes.toml /users/1 /old
//	waypoint simulate --routes routes.toml script.yaml
//	waypoint watch --routes routes.toml
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
