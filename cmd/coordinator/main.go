/*
Starts the coordinator that tracks registered workers, broadcasts their
current directive once per tick, and serves the portal's HTTP API.

For usage details, run coordinator with the command line flag -h or --help.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oledcluster/microbroadcast/internal/clog"
	"github.com/oledcluster/microbroadcast/internal/coordinator"
	"github.com/oledcluster/microbroadcast/internal/persistent"
)

func main() {
	var configPath string
	var help bool
	var log bool

	flag.Usage = usage
	flag.StringVar(&configPath, "c", "", "path to an optional YAML config overlay")
	flag.BoolVar(&help, "h", false, "Show usage information")
	flag.BoolVar(&log, "l", false, "Show logging output (for debugging)")
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if log {
		clog.Enable()
	}

	cfg, err := coordinator.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed loading config %q: %v\n", configPath, err)
		os.Exit(1)
	}

	table := persistent.Default()
	if len(cfg.PersistentMACs) > 0 {
		table = persistent.New(cfg.PersistentMACs)
	}
	c := coordinator.New(cfg, table)

	signaled := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer close(signaled)
		fmt.Printf("Terminating coordinator on signal %v...\n", <-sigCh)
	}()

	fmt.Printf("Starting coordinator: api=%s broadcastPort=%d\n", cfg.APIAddr, cfg.BroadcastPort)

	ctx, cancel := context.WithCancel(context.Background())
	completed := make(chan error, 1)
	go func() {
		completed <- c.Start(ctx)
	}()

	for {
		select {
		case <-signaled:
			signaled = nil
			cancel()
		case err := <-completed:
			if err != nil {
				fmt.Printf("Coordinator exited with error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}
}

func usage() {
	fmt.Printf(`usage: coordinator [-h|--help] [-l] [-c configPath]

Starts the coordinator process.

Flags:
`)
	flag.PrintDefaults()
}
