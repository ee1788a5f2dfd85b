package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
)

// echotest is a child workload for trying out hsu-tray by hand: it writes
// numbered lines to stdout and stderr, then exits with the requested code.
//
//	hsutray -- echotest --run-duration 10 --exit-code 3

type flagOptions struct {
	RunDuration int `long:"run-duration" description:"Duration in seconds to run, 0 runs until interrupted"`
	ExitCode    int `long:"exit-code" description:"Exit code to return when the run duration elapses"`
	IntervalMs  int `long:"interval-ms" default:"500" description:"Delay in milliseconds between output lines"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running Echotest, opts: %+v...\n", opts)

	ctx := context.Background()
	if opts.RunDuration > 0 {
		fmt.Printf("Using RUN DURATION of %d seconds\n", opts.RunDuration)
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.RunDuration)*time.Second)
		defer cancel()
	}

	sig := make(chan os.Signal, 1)
	if runtime.GOOS == "windows" {
		signal.Notify(sig, os.Interrupt)
	} else {
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	}

	interval := time.Duration(opts.IntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for line := 1; ; line++ {
		select {
		case receivedSignal := <-sig:
			fmt.Fprintf(os.Stderr, "Echotest received signal: %v\n", receivedSignal)
			os.Exit(130)
		case <-ctx.Done():
			fmt.Printf("Echotest finished, exit code: %d\n", opts.ExitCode)
			os.Exit(opts.ExitCode)
		case <-ticker.C:
			if line%2 == 0 {
				fmt.Fprintf(os.Stderr, "stderr line %d\n", line)
			} else {
				fmt.Printf("stdout line %d\n", line)
			}
		}
	}
}
