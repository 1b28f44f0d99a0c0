// Command shopctl drives the storefront engine from a terminal: browse and
// edit the catalog, manage the cart, sign in and check out. State is kept in
// a local mirror so everything but checkout keeps working offline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
