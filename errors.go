package xsec

import "errors"

var (
	// ErrEndOfInput is returned by EventSource.Next when the source has no
	// more events. It ends the current subrun normally and is never counted
	// as a failure.
	ErrEndOfInput = errors.New("xsec: end of input")

	// ErrGenerationFailure marks a transient failure to produce an event.
	// Sources should wrap it; the executor counts every non end-of-input
	// pull error as a generation failure either way.
	ErrGenerationFailure = errors.New("xsec: event generation failed")

	// ErrConfiguration is returned for invalid subrun configuration, such as
	// a nominal event target of zero. It is fatal and never retried.
	ErrConfiguration = errors.New("xsec: invalid configuration")

	// ErrRunAborted is returned by RunResult.Err when the failure budget
	// was exhausted before all subruns finished.
	ErrRunAborted = errors.New("xsec: run aborted")
)
