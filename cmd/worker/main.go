/*
Starts a worker that registers with a coordinator, then accepts and
renders directives on its simulated display until terminated.

For usage details, run worker with the command line flag -h or --help.
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
	"github.com/oledcluster/microbroadcast/internal/directive"
	"github.com/oledcluster/microbroadcast/internal/worker"
)

func main() {
	var mac string
	var coordinatorAddr string
	var broadcastPort int
	var help bool
	var log bool

	flag.Usage = usage
	flag.StringVar(&mac, "m", "", "this worker's MAC address, e.g. AA:BB:CC:DD:EE:02 (required)")
	flag.StringVar(&coordinatorAddr, "a", "127.0.0.1", "coordinator host or IP")
	flag.IntVar(&broadcastPort, "p", 8092, "broadcast port shared by coordinator and worker")
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

	canonical, ok := directive.CanonicalMAC(mac)
	if !ok {
		fmt.Printf("Invalid or missing MAC address %q\n", mac)
		usage()
		os.Exit(1)
	}

	cfg := worker.DefaultConfig(canonical, coordinatorAddr, broadcastPort)
	w, err := worker.New(cfg)
	if err != nil {
		fmt.Printf("Failed initializing worker: %v\n", err)
		os.Exit(1)
	}

	signaled := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer close(signaled)
		fmt.Printf("Terminating worker on signal %v...\n", <-sigCh)
	}()

	fmt.Printf("Starting worker %s, coordinator at %s:%d\n", canonical, coordinatorAddr, broadcastPort)

	ctx, cancel := context.WithCancel(context.Background())
	completed := make(chan error, 1)
	go func() {
		completed <- w.Start(ctx)
	}()

	for {
		select {
		case <-signaled:
			signaled = nil
			cancel()
		case err := <-completed:
			if err != nil {
				fmt.Printf("Worker exited with error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}
}

func usage() {
	fmt.Printf(`usage: worker [-h|--help] [-l] -m mac [-a coordinatorAddr] [-p broadcastPort]

Starts a single worker process.

Flags:
`)
	flag.PrintDefaults()
}
