// Command xsecrun runs every subrun of a settings file, writes the accepted
// events to an archive and prints the contribution of each subrun to the
// inclusive cross section.
//
//	xsecrun [-strict] [-stats] [-trace file] settings.yaml events.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/xsec"
	"github.com/rickchristie/xsec/archive"
	"github.com/rickchristie/xsec/executor"
	"github.com/rickchristie/xsec/lhef"
	"github.com/rickchristie/xsec/report"
	"github.com/rickchristie/xsec/settings"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitAborted = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xsecrun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "exit with status 2 when the run is aborted")
	stats := fs.Bool("stats", false, "print per-subrun statistics")
	trace := fs.String("trace", "", "write a YAML trace of the run to this file")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(stderr, " Unexpected number of command-line arguments (%d). \n", fs.NArg()+1)
		fmt.Fprintln(stderr, " You are expected to provide the arguments")
		fmt.Fprintln(stderr, " 1. Input file for settings")
		fmt.Fprintln(stderr, " 2. Output file for events")
		fmt.Fprintln(stderr, " Program stopped. ")
		return exitFailure
	}

	result, err := execute(fs.Arg(0), fs.Arg(1), *trace, *stats, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if *strict && errors.Is(result.Err(), xsec.ErrRunAborted) {
		return exitAborted
	}
	return exitOK
}

func execute(settingsPath, outputPath, tracePath string, stats bool, stdout io.Writer) (*xsec.RunResult, error) {
	s, err := settings.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	sink, err := archive.Create(outputPath)
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	source := lhef.NewSource()
	defer source.Close()

	console := report.NewConsoleHook(stdout)
	if stats {
		console.WithStatistics()
	}

	exec := executor.New(source, sink, executor.DefaultConfig()).RegisterHook(console)

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return nil, fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		exec.RegisterHook(report.NewYAMLHookWithWriter(f))
	}

	runCtx := xsec.NewRunContext(settingsPath)
	runCtx.SetLimits(s.Limits())

	result, err := exec.Execute(context.Background(), runCtx, s.Subruns())
	if err != nil {
		return result, err
	}
	if err := sink.Close(); err != nil {
		return result, fmt.Errorf("closing archive: %w", err)
	}
	return result, nil
}
