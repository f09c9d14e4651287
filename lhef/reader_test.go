package lhef

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/rickchristie/xsec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `<LesHouchesEvents version="1.0">
<header>
  <!-- generator comments -->
</header>
<init>
 2212 2212 6.5E+03 6.5E+03 0 0 10042 10042 3 2
 1.5E+00 1.0E-02 3.0E+00 1
 0.5D+00 2.0E-02 1.0E+00 2
</init>
<event>
 2 1 +1.0E+00 9.1E+01 7.8E-03 1.1E-01
 21 -1 0 0 501 502 0.0 0.0 +4.5E+01 4.5E+01 0.0 0.0 9.0
 21 -1 0 0 502 501 0.0 0.0 -4.5E+01 4.5E+01 0.0 0.0 9.0
# trailing info line
</event>
<event>
 1 2 -2.5E-01 9.1E+01 7.8E-03 1.1E-01
 23 2 1 2 0 0 0.0 0.0 0.0 9.1E+01 9.1E+01 0.0 9.0
</event>
</LesHouchesEvents>
`

func TestNewReader_Header(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleFile))
	require.NoError(t, err)

	h := r.Header()
	assert.Equal(t, [2]int{2212, 2212}, h.BeamIDs)
	assert.Equal(t, [2]float64{6500, 6500}, h.BeamEnergies)
	assert.Equal(t, [2]int{10042, 10042}, h.PDFSets)
	assert.Equal(t, 3, h.Strategy)
	assert.Equal(t, []Process{
		{CrossSection: 1.5, Error: 0.01, MaxWeight: 3, ID: 1},
		{CrossSection: 0.5, Error: 0.02, MaxWeight: 1, ID: 2},
	}, h.Processes)
	assert.Equal(t, []float64{1.5, 0.5}, h.CrossSections())
}

func TestReader_ReadEvent(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleFile))
	require.NoError(t, err)

	ev, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, 1, ev.ProcessID)
	assert.Equal(t, 1.0, ev.Weight())
	assert.Equal(t, 91.0, ev.Scale)
	require.Len(t, ev.Particles, 2)
	assert.Equal(t, Particle{
		ID:       21,
		Status:   -1,
		Colors:   [2]int{501, 502},
		Momentum: [5]float64{0, 0, 45, 45, 0},
		Spin:     9,
	}, ev.Particles[0])

	ev, err = r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, -1.0, ev.Weight())
	assert.Equal(t, -0.25, ev.XWGTUP())
	assert.Equal(t, [2]int{1, 2}, ev.Particles[0].Mothers)

	for i := 0; i < 2; i++ {
		_, err = r.ReadEvent()
		assert.ErrorIs(t, err, xsec.ErrEndOfInput)
	}
}

func TestReader_MalformedEventResyncs(t *testing.T) {
	type expected struct {
		weights  []float64
		failures int
	}

	tests := []struct {
		name     string
		events   string
		expected expected
	}{
		{
			name: "bad weight",
			events: `<event>
 0 1 notanumber 1 1 1
</event>
<event>
 0 1 2.0 1 1 1
</event>`,
			expected: expected{weights: []float64{2}, failures: 1},
		},
		{
			name: "missing particle lines",
			events: `<event>
 3 1 1.0 1 1 1
 21 -1 0 0 0 0 0 0 0 0 0 0 9
</event>
<event>
 0 1 4.0 1 1 1
</event>`,
			expected: expected{weights: []float64{4}, failures: 1},
		},
		{
			name: "short particle line",
			events: `<event>
 1 1 1.0 1 1 1
 21 -1 0 0
</event>`,
			expected: expected{failures: 1},
		},
		{
			name:     "empty block",
			events:   "<event>\n\n</event>",
			expected: expected{failures: 1},
		},
		{
			name:     "unterminated block at end of file",
			events:   "<event>\n 0 1 1.0 1 1 1\n",
			expected: expected{failures: 1},
		},
	}

	header := "<init>\n 1 1 1 1 0 0 0 0 -4 1\n 1.0 0.1 1.0 1\n</init>\n"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(header + tt.events))
			require.NoError(t, err)

			var weights []float64
			failures := 0
			for {
				ev, err := r.ReadEvent()
				if errors.Is(err, xsec.ErrEndOfInput) {
					break
				}
				if err != nil {
					var parseErr *ParseError
					assert.True(t, errors.As(err, &parseErr))
					assert.ErrorIs(t, err, xsec.ErrGenerationFailure)
					failures++
					continue
				}
				weights = append(weights, ev.Weight())
			}

			assert.Equal(t, tt.expected.weights, weights)
			assert.Equal(t, tt.expected.failures, failures)
		})
	}
}

func TestNewReader_BadInit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		noInit bool
	}{
		{name: "no init block", input: "<LesHouchesEvents>\n</LesHouchesEvents>\n", noInit: true},
		{name: "unterminated init", input: "<init>\n 1 1 1 1 0 0 0 0 3 0\n", noInit: true},
		{name: "empty init", input: "<init>\n</init>\n", noInit: true},
		{name: "short beam line", input: "<init>\n 1 1 1\n</init>\n"},
		{name: "missing process lines", input: "<init>\n 1 1 1 1 0 0 0 0 3 2\n 1 1 1 1\n</init>\n"},
		{name: "bad strategy", input: "<init>\n 1 1 1 1 0 0 0 0 x 0\n</init>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Equal(t, tt.noInit, errors.Is(err, ErrNoInit))
		})
	}
}

func TestEvent_Record(t *testing.T) {
	ev := &Event{ProcessID: 7, Scale: 2, xwgtup: 0.5, weight: 1}
	assert.Equal(t, EventRecord{ProcessID: 7, Weight: 0.5, Scale: 2}, ev.Record())
}

func TestReader_NestedTagNames(t *testing.T) {
	input := `<LesHouchesEvents version="3.0">
<header>
<initrwgt>
 <weightgroup name="scale">
 <weight id="1"> muR=1 </weight>
 </weightgroup>
</initrwgt>
<init>
 this line is header metadata, not a beam line
</init>
</header>
<init>
 2212 2212 6.5E+03 6.5E+03 0 0 10042 10042 -4 1
 2.0E+00 1.0E-02 3.0E+00 1
</init>
<eventgroup nreal="1">
<event>
 0 1 0.75 1 1 1
</event>
</eventgroup>
<event>
 0 1 0.25 1 1 1
</event>
</LesHouchesEvents>
`
	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, -4, r.Header().Strategy)
	assert.Equal(t, []float64{2}, r.Header().CrossSections())

	var weights []float64
	for {
		ev, err := r.ReadEvent()
		if errors.Is(err, xsec.ErrEndOfInput) {
			break
		}
		require.NoError(t, err)
		weights = append(weights, ev.Weight())
	}
	assert.Equal(t, []float64{0.75, 0.25}, weights)
}

func TestIsOpenTag(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{line: "<init>", expected: true},
		{line: `<init attr="1">`, expected: true},
		{line: "<init/>", expected: true},
		{line: "<initrwgt>", expected: false},
		{line: "<init", expected: false},
		{line: "</init>", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, isOpenTag(tt.line, "init"))
		})
	}
	assert.False(t, isOpenTag("<eventgroup>", "event"))
	assert.True(t, isCloseTag("</event >", "event"))
	assert.False(t, isCloseTag("</eventgroup>", "event"))
}

func TestReader_UnweightedEventsCountOnce(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		xwgtup   string
		expected float64
	}{
		{name: "strategy 3 positive", strategy: "3", xwgtup: "50.0", expected: 1},
		{name: "strategy -3 negative", strategy: "-3", xwgtup: "-50.0", expected: -1},
		{name: "strategy 3 zero", strategy: "3", xwgtup: "0.0", expected: 0},
		{name: "strategy 4 keeps xwgtup", strategy: "4", xwgtup: "50.0", expected: 50},
		{name: "strategy -4 keeps xwgtup", strategy: "-4", xwgtup: "-50.0", expected: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "<init>\n 1 1 1 1 0 0 0 0 " + tt.strategy + " 1\n 50.0 0.1 50.0 1\n</init>\n" +
				"<event>\n 0 1 " + tt.xwgtup + " 1 1 1\n</event>\n"
			r, err := NewReader(strings.NewReader(input))
			require.NoError(t, err)

			ev, err := r.ReadEvent()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ev.Weight())

			// The record keeps the weight as written.
			rec := ev.Record().(EventRecord)
			assert.Equal(t, ev.XWGTUP(), rec.Weight)
		})
	}
}

func TestReader_LongLineInsideEvent(t *testing.T) {
	long := "# " + strings.Repeat("x", 2<<20)
	input := "<init>\n 1 1 1 1 0 0 0 0 -4 1\n 1.0 0.1 1.0 1\n</init>\n" +
		"<event>\n 0 1 1.0 1 1 1\n</event>\n" +
		"<event>\n 0 1 2.0 1 1 1\n" + long + "\n</event>\n" +
		"<event>\n 0 1 3.0 1 1 1\n</event>"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)

	var weights []float64
	for {
		ev, err := r.ReadEvent()
		if errors.Is(err, xsec.ErrEndOfInput) {
			break
		}
		require.NoError(t, err)
		weights = append(weights, ev.Weight())
	}
	// The last line has no trailing newline.
	assert.Equal(t, []float64{1, 2, 3}, weights)
}

func TestReader_ReadErrorIsSticky(t *testing.T) {
	errDisk := errors.New("disk failure")
	input := io.MultiReader(
		strings.NewReader("<init>\n 1 1 1 1 0 0 0 0 -4 1\n 1.0 0.1 1.0 1\n</init>\n"+
			"<event>\n 0 1 1.0 1 1 1\n</event>\n<event>\n 0 1"),
		iotest.ErrReader(errDisk),
	)

	r, err := NewReader(input)
	require.NoError(t, err)

	ev, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Weight())

	for i := 0; i < 3; i++ {
		_, err = r.ReadEvent()
		var readErr *ReadError
		require.True(t, errors.As(err, &readErr))
		assert.ErrorIs(t, err, errDisk)
		assert.ErrorIs(t, err, xsec.ErrGenerationFailure)
		assert.NotErrorIs(t, err, xsec.ErrEndOfInput)
		assert.Equal(t, 9, readErr.Line)
	}
}
