// Command smithy builds and installs software from formula files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opmodel/smithy/internal/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cmd.ExitSuccess
	}

	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) || !exitErr.Printed {
		fmt.Fprintln(os.Stderr, err)
	}
	return cmd.ExitCodeFromError(err)
}
