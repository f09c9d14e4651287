// Package xsec aggregates weighted events into a running total cross section
// and forwards the surviving events to an archive.
//
// A run is split into subruns. For each subrun an [EventSource] is initialized
// and pulled until the subrun's nominal event target is met, the source runs
// out of input, or the run-wide failure budget is exhausted. Every accepted
// event is normalized, added to the [Accumulator] and written to an
// [EventSink] together with the current running total.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/rickchristie/xsec"
//	    "github.com/rickchristie/xsec/archive"
//	    "github.com/rickchristie/xsec/executor"
//	    "github.com/rickchristie/xsec/lhef"
//	    "github.com/rickchristie/xsec/report"
//	    "github.com/rickchristie/xsec/settings"
//	)
//
//	func main() {
//	    cfg, _ := settings.Load("run.yaml")
//
//	    sink, _ := archive.Create("events.yaml")
//	    defer sink.Close()
//
//	    source := lhef.NewSource()
//	    defer source.Close()
//
//	    runCtx := xsec.NewRunContext("main")
//	    runCtx.SetLimits(cfg.Limits())
//
//	    exec := executor.New(source, sink, executor.DefaultConfig()).
//	        RegisterHook(report.NewConsoleHook(os.Stdout))
//
//	    result, err := exec.Execute(context.Background(), runCtx, cfg.Subruns())
//	    // result.Completed is false when the failure budget was exhausted.
//	}
//
// # Normalization
//
// Raw event weights are scaled by a per-subrun factor (see [NormalizationFactor]).
// Sources declaring a weighted strategy ([Strategy.Weighted]) contribute
// w/(K·n); unweighted sources contribute w·X/(K·n), where X is the inclusive
// cross section of the subrun, n its nominal event target and K is [UnitScale].
//
// # Stats and Limits
//
// [Stats] tracks counters (accepted events, zero-weight events, generation
// failures) for the whole run. The [AbortPolicy] checks [Limit] values against
// those counters whenever a pull fails. The default limit allows
// [DefaultTimesAllowErrors] failures across the entire run; the counter is
// never reset by a successful pull.
//
//	runCtx.SetLimits([]xsec.Limit{
//	    // Allow 3 failures for the whole run
//	    {Type: xsec.LimitExactKey, Key: xsec.KeyGenerationFailures, MaxValue: 3},
//	    // And at most 2 inside any single subrun
//	    {Type: xsec.LimitKeyPrefix, Key: xsec.KeyGenerationFailuresFor, MaxValue: 2},
//	})
//
// # Hooks
//
// Hooks observe the run. Implement any of [BeforeRunHook], [AfterRunHook],
// [BeforeSubrunHook], [AfterSubrunHook], [EventExportedHook] or
// [GenerationFailureHook] and register with the executor. The report package
// contains the console and YAML hooks used by the command line tools.
package xsec
