// Command deployctl runs deployment pipeline steps from the workstation
// and invokes deployed endpoints registered in the parameter store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smdeploy/internal/deployctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deployctl.BuildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
