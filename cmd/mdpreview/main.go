package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mithrel/mdpreview/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "mdpreview:", err)
		os.Exit(1)
	}
}
