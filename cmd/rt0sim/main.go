// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/ezrec/rt0/sim"
)

// options are the command line settings.
type options struct {
	profile string
	fsBase  uint
	verbose bool
	script  string
}

func parseArgs(args []string, stderr io.Writer) (opts options, err error) {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&opts.profile, "p", "", "machine profile (.toml)")
	flags.UintVar(&opts.fsBase, "fs", 0, "filesystem base LBA handed to the application")
	flags.BoolVar(&opts.verbose, "v", false, "Verbose mode")

	err = flags.Parse(args[1:])
	if err != nil {
		return
	}

	if flags.NArg() != 1 {
		err = fmt.Errorf("%v: expected one script, got %v", args[0], flags.Args())
		return
	}

	if opts.fsBase > math.MaxUint32 {
		err = fmt.Errorf("%v: -fs %#x does not fit in 32 bits", args[0], opts.fsBase)
		return
	}

	opts.script = flags.Arg(0)

	return
}

// run boots the script on a simulated console, copying the IS-Viewer 64
// output to stdout.
func run(ctx context.Context, opts options, stdout io.Writer) (err error) {
	profile := sim.DefaultProfile()
	if len(opts.profile) != 0 {
		profile, err = sim.LoadProfileFile(opts.profile)
		if err != nil {
			return
		}
	}

	if opts.fsBase != 0 {
		profile.FSBase = uint32(opts.fsBase)
	}
	if opts.verbose {
		profile.Verbose = true
	}

	script, err := sim.LoadScript(opts.script)
	if err != nil {
		return
	}
	script.Verbose = profile.Verbose

	m, err := sim.NewMachine(profile)
	if err != nil {
		return
	}
	m.Output = stdout

	return m.Run(ctx, script.App(ctx))
}

func main() {
	opts, err := parseArgs(os.Args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, opts, os.Stdout)
	if err != nil {
		var perr *sim.ErrPanic
		if errors.As(err, &perr) {
			// The console has already reported it.
			stop()
			os.Exit(101)
		}
		log.Fatalf("%v: %v", opts.script, err)
	}
}
