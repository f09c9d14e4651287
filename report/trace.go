package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/xsec"
	"gopkg.in/yaml.v3"
)

// YAMLHook logs everything that happens during a run. Event payloads are
// written as YAML.
//
// Exported events are only logged when WithEvents is set; a full run writes
// one entry per accepted event.
type YAMLHook struct {
	out    io.Writer
	clock  xsec.TimeProvider
	events bool
}

// NewYAMLHook creates a YAMLHook that writes to stdout.
func NewYAMLHook() *YAMLHook {
	return NewYAMLHookWithWriter(os.Stdout)
}

// NewYAMLHookWithWriter creates a YAMLHook that writes to the given writer.
func NewYAMLHookWithWriter(w io.Writer) *YAMLHook {
	return &YAMLHook{
		out:   w,
		clock: xsec.NewDefaultTimeProvider(),
	}
}

// WithTimeProvider sets the clock used for entry timestamps.
func (h *YAMLHook) WithTimeProvider(tp xsec.TimeProvider) *YAMLHook {
	h.clock = tp
	return h
}

// WithEvents enables logging of every exported event.
func (h *YAMLHook) WithEvents() *YAMLHook {
	h.events = true
	return h
}

// logEvent logs an event header with timestamp.
func (h *YAMLHook) logEvent(name string) {
	timestamp := h.clock.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, timestamp)
}

// log writes a line without any prefix.
func (h *YAMLHook) log(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func (h *YAMLHook) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		h.log("(failed to marshal: %v)", err)
		return
	}
	fmt.Fprint(h.out, string(data))
}

// OnBeforeRun logs the run start.
func (h *YAMLHook) OnBeforeRun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.BeforeRunEvent,
) {
	h.logEvent("BeforeRun")
	h.log("================================================================================")
	h.log("RUN STARTED")
	h.log("================================================================================")
	h.logYAML(map[string]any{
		"name":    runCtx.Name(),
		"subruns": event.Subruns,
		"limits":  runCtx.Limits(),
	})
}

// OnAfterRun logs the run result and final stats.
func (h *YAMLHook) OnAfterRun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.AfterRunEvent,
) {
	h.logEvent("AfterRun")
	h.log("================================================================================")
	h.log("RUN FINISHED")
	h.log("================================================================================")

	eventData := map[string]any{
		"termination_reason": string(event.TerminationReason),
		"duration":           runCtx.Duration().String(),
	}
	if event.Error != nil {
		eventData["error"] = event.Error.Error()
	}
	if event.Result != nil {
		eventData["result"] = event.Result
	}
	h.logYAML(eventData)

	h.log("")
	h.log("Stats:")
	stats := runCtx.Stats()
	h.logYAML(map[string]any{
		"generation_failures": stats.GetGenerationFailures(),
		"accepted_events":     stats.GetAcceptedEvents(),
		"zero_weight_events":  stats.GetZeroWeightEvents(),
		"counters":            stats.Counters(),
		"gauges":              stats.Gauges(),
	})
}

// OnBeforeSubrun logs the subrun descriptor.
func (h *YAMLHook) OnBeforeSubrun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.BeforeSubrunEvent,
) {
	idx := event.Subrun.Config.Index
	h.logEvent(fmt.Sprintf("BeforeSubrun %d", idx))
	h.log("--------------------------------------------------------------------------------")
	h.log("SUBRUN %d START", idx)
	h.log("--------------------------------------------------------------------------------")
	h.logYAML(map[string]any{
		"config":                 event.Subrun.Config,
		"strategy":               int(event.Subrun.Strategy),
		"process_cross_sections": event.Subrun.ProcessCrossSections,
		"inclusive":              event.Subrun.Inclusive,
		"factor":                 event.Factor,
	})
}

// OnAfterSubrun logs the subrun result.
func (h *YAMLHook) OnAfterSubrun(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.AfterSubrunEvent,
) {
	h.logEvent(fmt.Sprintf("AfterSubrun %d", event.Result.Index))
	h.log("--------------------------------------------------------------------------------")
	h.log("SUBRUN %d END", event.Result.Index)
	h.log("--------------------------------------------------------------------------------")
	h.logYAML(map[string]any{
		"result":  event.Result,
		"aborted": event.Aborted,
		"total":   event.Total,
	})
}

// OnEventExported logs an exported event when WithEvents is set.
func (h *YAMLHook) OnEventExported(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.EventExportedEvent,
) {
	if !h.events {
		return
	}
	h.logEvent(fmt.Sprintf("EventExported %d/%d", event.SubrunIndex, event.Accepted))
	h.logYAML(map[string]any{
		"weight":       event.Weight,
		"contribution": event.Contribution,
		"total":        event.Total,
	})
}

// OnGenerationFailure logs a failed pull.
func (h *YAMLHook) OnGenerationFailure(
	ctx context.Context,
	runCtx *xsec.RunContext,
	event xsec.GenerationFailureEvent,
) {
	h.logEvent(fmt.Sprintf("GenerationFailure %d", event.SubrunIndex))
	data := map[string]any{
		"error":    event.Err.Error(),
		"failures": event.Failures,
		"state":    event.State.String(),
		"duration": event.Duration.String(),
	}
	if event.ExceededLimit != nil {
		data["exceeded_limit"] = event.ExceededLimit
	}
	h.logYAML(data)
}
