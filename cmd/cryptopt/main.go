// Package main provides the entry point for the CryptOpt search engine.
package main

import (
	"fmt"
	"os"

	"github.com/cryptopt-go/cryptopt/internal/buildinfo"
	"github.com/cryptopt-go/cryptopt/internal/config"
	"github.com/cryptopt-go/cryptopt/internal/kerr"
	"github.com/cryptopt-go/cryptopt/internal/logging"
	"github.com/cryptopt-go/cryptopt/internal/orchestrate"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if len(argv) == 1 && (argv[0] == "--version" || argv[0] == "-version") {
		printVersion()
		return 0
	}

	opts, err := config.Parse(argv, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cryptopt: %v\n", err)
		return exitCodeOf(err)
	}

	log, err := logging.Open(opts.LogFile, opts.LogComment, logging.DefaultFlushInterval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cryptopt: %v\n", err)
		return exitCodeOf(err)
	}
	defer log.Close()

	orch := &orchestrate.Run{Options: opts, Log: log}

	outcome, err := orch.Execute()
	if err != nil {
		log.Printf("run failed: %v", err)
		fmt.Fprintf(os.Stderr, "cryptopt: %v\n", err)
		return exitCodeOf(err)
	}

	log.Printf("run succeeded: wrote %s", outcome.ResultAssemblyPath)
	fmt.Printf("wrote %s\n", outcome.ResultAssemblyPath)
	fmt.Printf("wrote %s\n", outcome.MutationLogPath)
	return 0
}

func exitCodeOf(err error) int {
	if kind, ok := kerr.KindOf(err); ok {
		return kind.ExitCode()
	}
	return 125
}

func printVersion() {
	info := buildinfo.Get()
	fmt.Printf("cryptopt %s (%s, %s/%s, commit %s)\n", info.Version, info.GoVersion, info.Platform, info.Arch, info.CommitSHA)
}
