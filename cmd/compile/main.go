// Package main starts the compile command process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	compilecmd "github.com/2nist/dawsheet/internal/cmd/compile"
)

func main() {
	cfg, err := compilecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[COMPILE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := compilecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to compile: %v", err)
	}
}
