package main

import (
	"context"
	"os"

	"github.com/filescope/filescope/internal/cli/filescope"
)

func main() {
	os.Exit(filescope.Run(context.Background(), os.Args[1:], filescope.Options{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Lookup: os.LookupEnv,
	}))
}
