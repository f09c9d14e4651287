// Package main provides an interactive shell for running the subruns of a
// settings file one at a time or all together.
//
//	xsecshell settings.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rickchristie/xsec"
	"github.com/rickchristie/xsec/archive"
	"github.com/rickchristie/xsec/executor"
	"github.com/rickchristie/xsec/lhef"
	"github.com/rickchristie/xsec/report"
	"github.com/rickchristie/xsec/settings"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: xsecshell settings.yaml")
	}

	s, err := settings.Load(args[0])
	if err != nil {
		return err
	}

	rl, err := readline.New(
		colorCyan +
			"Enter selection ('a' for all, 'q' to quit): " +
			colorReset)
	if err != nil {
		return fmt.Errorf(
			"failed to create readline: %w", err)
	}
	defer rl.Close()

	subruns := s.Subruns()
	printMenu(subruns, s.AbortCeiling())

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Printf(
					"\n%sGoodbye!%s\n",
					colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf(
				"failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		var selected []xsec.SubrunConfig
		switch input {
		case "q", "Q":
			fmt.Printf(
				"%sGoodbye!%s\n",
				colorGreen, colorReset)
			return nil
		case "a", "A":
			selected = subruns
		default:
			num, err := strconv.Atoi(input)
			if err != nil || num < 1 || num > len(subruns) {
				fmt.Printf(
					"%sInvalid selection. "+
						"Please enter 1-%d, 'a' or 'q'.%s\n\n",
					colorRed, len(subruns), colorReset)
				continue
			}
			selected = subruns[num-1 : num]
		}

		ceiling, err := promptInt(rl,
			"Generation failures allowed",
			s.AbortCeiling(), 0, 1_000_000)
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return err
		}

		if err := runSubruns(os.Stdout, selected, ceiling); err != nil {
			fmt.Fprintf(os.Stderr,
				"%sError: %v%s\n",
				colorRed, err, colorReset)
		}

		fmt.Printf("\n%s%s%s\n\n",
			colorDim,
			strings.Repeat("-", 60),
			colorReset)
	}
}

func printMenu(subruns []xsec.SubrunConfig, ceiling int) {
	fmt.Printf("%s%sSubruns:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow,
		strings.Repeat("=", 8),
		colorReset)
	for i, cfg := range subruns {
		fmt.Printf("  %s%d.%s %s%s%s - %d events\n",
			colorCyan, i+1, colorReset,
			colorWhite, cfg.Input, colorReset,
			cfg.TargetEvents)
	}
	fmt.Printf("\n%sFailures allowed per run: %d%s\n\n",
		colorDim, ceiling, colorReset)
}

// runSubruns runs the selected subruns with a fresh failure budget. Events
// are encoded and discarded.
func runSubruns(w io.Writer, subruns []xsec.SubrunConfig, ceiling int) error {
	source := lhef.NewSource()
	defer source.Close()

	sink := archive.NewWriter(io.Discard)
	defer sink.Close()

	runCtx := xsec.NewRunContext("shell")
	runCtx.SetLimits([]xsec.Limit{xsec.CeilingLimit(ceiling)})

	result, err := executor.New(source, sink, executor.DefaultConfig()).
		RegisterHook(report.NewConsoleHook(w).WithStatistics()).
		Execute(context.Background(), runCtx, subruns)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%sTotal: %.8e  +-  %.8e (%d events, %d failures)%s\n",
		colorGreen,
		result.Total.CrossSection, result.Total.Error,
		sink.Count(), runCtx.Stats().GetGenerationFailures(),
		colorReset)
	return nil
}

func promptInt(
	rl *readline.Instance,
	label string,
	defaultVal, minVal, maxVal int,
) (int, error) {
	for {
		oldPrompt := rl.Config.Prompt
		prompt := fmt.Sprintf(
			"%s  %s [%d]: %s",
			colorCyan, label, defaultVal, colorReset)
		rl.SetPrompt(prompt)
		input, err := rl.Readline()
		rl.SetPrompt(oldPrompt)
		if err != nil {
			return 0, err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			return defaultVal, nil
		}

		val, err := strconv.Atoi(input)
		if err != nil || val < minVal || val > maxVal {
			fmt.Printf(
				"%sEnter a number between %d "+
					"and %d.%s\n",
				colorRed, minVal, maxVal, colorReset)
			continue
		}
		return val, nil
	}
}
