// Package settings loads run settings from a YAML file.
//
//	main:
//	  numberOfEvents: 1000
//	  numberOfSubruns: 2
//	  timesAllowErrors: 10
//	subruns:
//	  - lhef: w0.lhe
//	  - lhef: w1.lhe.gz
//	    numberOfEvents: 500
//
// The document is validated against a JSON Schema before it is decoded.
// Relative LHEF paths resolve against the directory of the settings file.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rickchristie/xsec"
	"github.com/rickchristie/xsec/schema"
	"gopkg.in/yaml.v3"
)

var settingsSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"main": schema.NestedObject("Run-wide settings", schema.Object(map[string]*schema.Property{
		"numberOfEvents":   schema.Integer("Nominal accepted events per subrun").Min(1),
		"numberOfSubruns":  schema.Integer("Number of subruns to run, from the start of the list").Min(1),
		"timesAllowErrors": schema.Integer("Generation failures tolerated before the run aborts").Min(0).Default(xsec.DefaultTimesAllowErrors),
	}, "numberOfEvents")),
	"subruns": schema.Array("Subruns in execution order", schema.Object(map[string]*schema.Property{
		"lhef":           schema.String("Path to the Les Houches event file").MinLength(1),
		"numberOfEvents": schema.Integer("Per-subrun override of main.numberOfEvents").Min(1),
	}, "lhef")).MinItems(1),
}, "main", "subruns"))

// Main holds the run-wide settings.
type Main struct {
	NumberOfEvents   int  `yaml:"numberOfEvents"`
	NumberOfSubruns  int  `yaml:"numberOfSubruns,omitempty"`
	TimesAllowErrors *int `yaml:"timesAllowErrors,omitempty"`
}

// Subrun holds the settings of one subrun.
type Subrun struct {
	LHEF           string `yaml:"lhef"`
	NumberOfEvents int    `yaml:"numberOfEvents,omitempty"`
}

// Settings is a parsed and validated settings file.
type Settings struct {
	Main    Main     `yaml:"main"`
	Entries []Subrun `yaml:"subruns"`

	// dir is the directory relative LHEF paths resolve against.
	dir string
}

// Load reads and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("loading settings %s: %w", path, err)
	}
	return s, nil
}

// Parse validates and decodes settings from raw YAML. Relative LHEF paths
// resolve against dir.
func Parse(data []byte, dir string) (*Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %w", xsec.ErrConfiguration, ErrSettingsEmpty)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %w", xsec.ErrConfiguration, err)
	}

	// The validator works on JSON values; YAML maps and numbers are
	// re-encoded first.
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", xsec.ErrConfiguration, ErrInvalidSettings, err)
	}
	if err := settingsSchema.ValidateJSON(asJSON); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", xsec.ErrConfiguration, ErrInvalidSettings, err)
	}

	s := &Settings{dir: dir}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: decoding settings: %w", xsec.ErrConfiguration, err)
	}

	if s.Main.NumberOfSubruns > len(s.Entries) {
		return nil, fmt.Errorf("%w: %w: %d requested, %d defined",
			xsec.ErrConfiguration, ErrTooFewSubruns, s.Main.NumberOfSubruns, len(s.Entries))
	}

	return s, nil
}

// NumberOfSubruns returns how many subruns the run executes.
func (s *Settings) NumberOfSubruns() int {
	if s.Main.NumberOfSubruns > 0 {
		return s.Main.NumberOfSubruns
	}
	return len(s.Entries)
}

// Subruns returns the configuration of every subrun the run executes, in
// order.
func (s *Settings) Subruns() []xsec.SubrunConfig {
	n := s.NumberOfSubruns()
	configs := make([]xsec.SubrunConfig, 0, n)
	for i := 0; i < n; i++ {
		entry := s.Entries[i]

		target := s.Main.NumberOfEvents
		if entry.NumberOfEvents > 0 {
			target = entry.NumberOfEvents
		}

		input := entry.LHEF
		if !filepath.IsAbs(input) && s.dir != "" {
			input = filepath.Join(s.dir, input)
		}

		configs = append(configs, xsec.SubrunConfig{
			Index:        i,
			TargetEvents: target,
			Input:        input,
		})
	}
	return configs
}

// AbortCeiling returns the number of generation failures the run tolerates.
func (s *Settings) AbortCeiling() int {
	if s.Main.TimesAllowErrors != nil {
		return *s.Main.TimesAllowErrors
	}
	return xsec.DefaultTimesAllowErrors
}

// Limits returns the abort limits for the run.
func (s *Settings) Limits() []xsec.Limit {
	return []xsec.Limit{xsec.CeilingLimit(s.AbortCeiling())}
}
