// Package main provides song library utilities.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	librarycmd "github.com/2nist/dawsheet/internal/cmd/library"
	"github.com/2nist/dawsheet/internal/platform/config"
)

func main() {
	cfg, err := librarycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := librarycmd.Run(ctx, cfg); err != nil {
		config.Exitf("library operation failed: %v", err)
	}
}
