// Command strongtyping inspects and stores the struct types declared in
// examples/mystruct: it prints their documentation and JSON Schema, renders
// YAML or JSON documents as validated instances, and persists instances to
// redis or an in-process store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ggoodman/strongtyping-go/examples/mystruct"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "strongtyping: %v\n", err)
		os.Exit(2)
	}

	root := newRootCmd(cfg, mystruct.Types)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
