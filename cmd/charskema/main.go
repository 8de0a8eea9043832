package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/reoring/charskema/internal/cli"
	"github.com/reoring/charskema/internal/logger"
)

func main() {
	err := cli.NewRootCmd().Execute()
	logger.Sync()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "hint: %s\n", h)
	}
	os.Exit(1)
}
