package settings

import "errors"

// Sentinel errors for settings validation. Load and Parse wrap them together
// with xsec.ErrConfiguration, so callers can match either.
var (
	// ErrSettingsEmpty is returned when the settings data is empty (zero bytes).
	ErrSettingsEmpty = errors.New("settings are empty")

	// ErrInvalidSettings is returned when the settings fail schema validation.
	ErrInvalidSettings = errors.New("settings do not match the schema")

	// ErrTooFewSubruns is returned when main.numberOfSubruns asks for more
	// subruns than the subruns list defines.
	ErrTooFewSubruns = errors.New("main.numberOfSubruns exceeds the number of defined subruns")
)
