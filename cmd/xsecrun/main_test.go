package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickchristie/xsec/archive"
	"github.com/rickchristie/xsec/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "<LesHouchesEvents version=\"1.0\">\n<init>\n 2212 2212 6.5E+03 6.5E+03 0 0 0 0 -4 1\n 1.0 0.1 1.0 1\n</init>\n"

func event(w string) string {
	return "<event>\n 1 1 " + w + " 91.0 0.0078 0.118\n 23 1 0 0 0 0 0 0 0 91 91 0 9\n</event>\n"
}

const badEvent = "<event>\n 1 1 oops 91.0 0.0078 0.118\n</event>\n"

type fixture struct {
	dir      string
	settings string
	output   string
}

func newFixture(t *testing.T, settingsYAML string, files map[string]string) fixture {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	settingsPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(settingsYAML), 0o644))
	return fixture{dir: dir, settings: settingsPath, output: filepath.Join(dir, "events.yaml")}
}

func TestRun_Completed(t *testing.T) {
	f := newFixture(t, `
main:
  numberOfEvents: 2
subruns:
  - lhef: a.lhe
  - lhef: b.lhe
    numberOfEvents: 1
`, map[string]string{
		"a.lhe": header + event("1.0") + event("0.0") + event("1.0") + event("1.0") + "</LesHouchesEvents>\n",
		"b.lhe": header + event("2.0") + "</LesHouchesEvents>\n",
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{f.settings, f.output}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	want := "\n\n\nStart generating events\n" +
		"\n Contribution of sample 0 to the inclusive cross section : 1.00000000e-09  +-  7.07106781e-10\n" +
		"\n Contribution of sample 1 to the inclusive cross section : 2.00000000e-09  +-  2.00000000e-09\n" +
		"\n\n\n\n\n\n"
	tt.AssertGolden(t, want, stdout.String())

	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	h, records, err := archive.Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, archive.Format, h.Format)

	require.Len(t, records, 3)
	assert.Equal(t, []float64{1, 1, 2}, []float64{records[0].Weight, records[1].Weight, records[2].Weight})
	assert.InEpsilon(t, 5e-10, records[0].CrossSection, 1e-12)
	assert.InEpsilon(t, 1e-9, records[1].CrossSection, 1e-12)
	assert.InEpsilon(t, 3e-9, records[2].CrossSection, 1e-12)
	assert.NotNil(t, records[2].Event)
}

func TestRun_Aborted(t *testing.T) {
	settingsYAML := `
main:
  numberOfEvents: 5
  timesAllowErrors: 1
subruns:
  - lhef: a.lhe
`
	files := map[string]string{
		"a.lhe": header + event("1.0") + badEvent + badEvent + event("1.0") + "</LesHouchesEvents>\n",
	}

	tests := []struct {
		name     string
		flags    []string
		expected int
	}{
		{name: "default exit status", expected: exitOK},
		{name: "strict exit status", flags: []string{"-strict"}, expected: exitAborted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, settingsYAML, files)

			var stdout, stderr bytes.Buffer
			args := append(append([]string{}, tc.flags...), f.settings, f.output)
			code := run(args, &stdout, &stderr)

			assert.Equal(t, tc.expected, code)
			assert.Contains(t, stdout.String(), " Run was not completed owing to too many aborted events\n")
			assert.NotContains(t, stdout.String(), "Contribution of sample 0")
		})
	}
}

func TestRun_StatsAndTrace(t *testing.T) {
	f := newFixture(t, `
main:
  numberOfEvents: 1
subruns:
  - lhef: a.lhe
`, map[string]string{
		"a.lhe": header + event("1.0") + "</LesHouchesEvents>\n",
	})
	tracePath := filepath.Join(f.dir, "trace.log")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-stats", "-trace", tracePath, f.settings, f.output}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.Contains(t, stdout.String(), "Subrun 0 statistics")

	trace, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(trace), "RUN FINISHED")
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{
			name:   "no arguments",
			args:   nil,
			stderr: " Unexpected number of command-line arguments (1). \n",
		},
		{
			name:   "too many arguments",
			args:   []string{"a", "b", "c"},
			stderr: " Unexpected number of command-line arguments (4). \n",
		},
		{
			name:   "missing settings file",
			args:   []string{filepath.Join(dir, "absent.yaml"), filepath.Join(dir, "out.yaml")},
			stderr: "Error: reading settings",
		},
		{
			name:   "unknown flag",
			args:   []string{"-bogus", "a", "b"},
			stderr: "flag provided but not defined",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)

			assert.Equal(t, exitFailure, code)
			assert.True(t, strings.Contains(stderr.String(), tc.stderr), stderr.String())
		})
	}
}

func TestRun_MissingEventFile(t *testing.T) {
	f := newFixture(t, `
main:
  numberOfEvents: 1
subruns:
  - lhef: missing.lhe
`, nil)

	var stdout, stderr bytes.Buffer
	code := run([]string{f.settings, f.output}, &stdout, &stderr)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "initializing subrun 0")
	assert.Contains(t, stdout.String(), " Run stopped by an error:")
}
