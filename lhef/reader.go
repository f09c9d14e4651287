// Package lhef reads Les Houches Event Files and serves them as an
// xsec.EventSource.
package lhef

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rickchristie/xsec"
)

// ErrNoInit is returned by NewReader when the input has no complete <init>
// block.
var ErrNoInit = errors.New("lhef: missing <init> block")

// ParseError reports a malformed <event> block. It wraps
// xsec.ErrGenerationFailure.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lhef: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return xsec.ErrGenerationFailure
}

// ReadError reports a failure of the underlying reader. It is sticky: once
// returned, every later ReadEvent returns it again. It wraps both
// xsec.ErrGenerationFailure and the I/O error.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("lhef: reading line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{xsec.ErrGenerationFailure, e.Err}
}

// Reader parses an event file line by line.
type Reader struct {
	br     *bufio.Reader
	line   int
	header *Header

	eof  bool
	err  *ReadError
	done bool
}

// NewReader reads the file header up to and including the <init> block.
// A <header> block before it is skipped whole.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{br: bufio.NewReader(r)}
	if err := rd.readInit(); err != nil {
		return nil, err
	}
	return rd, nil
}

// Header returns the parsed <init> block.
func (r *Reader) Header() *Header {
	return r.header
}

// next returns the next trimmed line. It returns false at the end of the
// input or after a read error (kept in r.err).
func (r *Reader) next() (string, bool) {
	if r.eof || r.err != nil {
		return "", false
	}
	s, err := r.br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = &ReadError{Line: r.line + 1, Err: err}
			return "", false
		}
		r.eof = true
		if s == "" {
			return "", false
		}
	}
	r.line++
	return strings.TrimSpace(s), true
}

// stopErr returns the read error if there is one, and fallback otherwise.
func (r *Reader) stopErr(fallback error) error {
	if r.err != nil {
		return r.err
	}
	return fallback
}

// isOpenTag reports whether line opens the named element, as in <init> or
// <event attr="1">. Longer names such as <initrwgt> do not match.
func isOpenTag(line, name string) bool {
	rest, ok := strings.CutPrefix(line, "<"+name)
	if !ok || rest == "" {
		return false
	}
	switch rest[0] {
	case '>', ' ', '\t', '/':
		return true
	}
	return false
}

// isCloseTag reports whether line closes the named element.
func isCloseTag(line, name string) bool {
	rest, ok := strings.CutPrefix(line, "</"+name)
	return ok && strings.HasPrefix(strings.TrimSpace(rest), ">")
}

func (r *Reader) readInit() error {
	for {
		line, ok := r.next()
		if !ok {
			return r.stopErr(ErrNoInit)
		}
		if isOpenTag(line, "header") {
			if err := r.skipTo("header"); err != nil {
				return err
			}
			continue
		}
		if isOpenTag(line, "init") {
			break
		}
	}

	var lines []string
	for {
		line, ok := r.next()
		if !ok {
			return r.stopErr(ErrNoInit)
		}
		if isCloseTag(line, "init") {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: empty", ErrNoInit)
	}

	beam := strings.Fields(lines[0])
	if len(beam) < 10 {
		return fmt.Errorf("lhef: <init> beam line has %d fields, want 10", len(beam))
	}
	f := fieldParser{fields: beam}
	h := &Header{
		BeamIDs:      [2]int{f.int(0), f.int(1)},
		BeamEnergies: [2]float64{f.float(2), f.float(3)},
		PDFGroups:    [2]int{f.int(4), f.int(5)},
		PDFSets:      [2]int{f.int(6), f.int(7)},
		Strategy:     f.int(8),
	}
	nprup := f.int(9)
	if f.err != nil {
		return fmt.Errorf("lhef: <init> beam line: %w", f.err)
	}
	if nprup < 0 || len(lines)-1 < nprup {
		return fmt.Errorf("lhef: <init> declares %d processes, found %d", nprup, len(lines)-1)
	}

	for i := 1; i <= nprup; i++ {
		f := fieldParser{fields: strings.Fields(lines[i])}
		if len(f.fields) < 4 {
			return fmt.Errorf("lhef: <init> process line %d has %d fields, want 4", i, len(f.fields))
		}
		p := Process{
			CrossSection: f.float(0),
			Error:        f.float(1),
			MaxWeight:    f.float(2),
			ID:           f.int(3),
		}
		if f.err != nil {
			return fmt.Errorf("lhef: <init> process line %d: %w", i, f.err)
		}
		h.Processes = append(h.Processes, p)
	}

	r.header = h
	return nil
}

// skipTo consumes lines up to and including the closing tag of name.
func (r *Reader) skipTo(name string) error {
	for {
		line, ok := r.next()
		if !ok {
			return r.stopErr(fmt.Errorf("%w: unterminated <%s> block", ErrNoInit, name))
		}
		if isCloseTag(line, name) {
			return nil
		}
	}
}

// ReadEvent returns the next event. At the end of the file, or at the
// closing </LesHouchesEvents> tag, it returns xsec.ErrEndOfInput. A
// malformed block returns a *ParseError; the following call resumes at the
// next <event> tag. A failing underlying reader returns a *ReadError, on
// this call and every later one.
func (r *Reader) ReadEvent() (*Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, xsec.ErrEndOfInput
	}

	for {
		line, ok := r.next()
		if !ok {
			if r.err != nil {
				return nil, r.err
			}
			r.done = true
			return nil, xsec.ErrEndOfInput
		}
		if isCloseTag(line, "LesHouchesEvents") {
			r.done = true
			return nil, xsec.ErrEndOfInput
		}
		if isOpenTag(line, "event") {
			break
		}
	}

	start := r.line
	var body []string
	for {
		line, ok := r.next()
		if !ok {
			if r.err == nil {
				r.done = true
			}
			return nil, r.stopErr(&ParseError{Line: start, Msg: "unterminated <event> block"})
		}
		if isCloseTag(line, "event") {
			break
		}
		body = append(body, line)
	}

	return parseEvent(start, body, xsec.Strategy(r.header.Strategy).Weighted())
}

// parseEvent parses the lines of one <event> block. For unweighted files
// the event weight is the sign of XWGTUP.
func parseEvent(start int, body []string, weighted bool) (*Event, error) {
	// Skip leading blank lines
	i := 0
	for i < len(body) && body[i] == "" {
		i++
	}
	if i == len(body) {
		return nil, &ParseError{Line: start, Msg: "empty <event> block"}
	}

	f := fieldParser{fields: strings.Fields(body[i])}
	if len(f.fields) < 6 {
		return nil, &ParseError{Line: start + i + 1,
			Msg: fmt.Sprintf("event line has %d fields, want 6", len(f.fields))}
	}
	nup := f.int(0)
	ev := &Event{
		ProcessID: f.int(1),
		xwgtup:    f.float(2),
		Scale:     f.float(3),
		AlphaQED:  f.float(4),
		AlphaQCD:  f.float(5),
	}
	if f.err != nil {
		return nil, &ParseError{Line: start + i + 1, Msg: f.err.Error()}
	}
	ev.weight = ev.xwgtup
	if !weighted {
		ev.weight = sign(ev.xwgtup)
	}
	if nup < 0 || len(body)-i-1 < nup {
		return nil, &ParseError{Line: start + i + 1,
			Msg: fmt.Sprintf("event declares %d particles, found %d lines", nup, len(body)-i-1)}
	}

	ev.Particles = make([]Particle, 0, nup)
	for j := i + 1; j <= i+nup; j++ {
		f := fieldParser{fields: strings.Fields(body[j])}
		if len(f.fields) < 13 {
			return nil, &ParseError{Line: start + j + 1,
				Msg: fmt.Sprintf("particle line has %d fields, want 13", len(f.fields))}
		}
		p := Particle{
			ID:       f.int(0),
			Status:   f.int(1),
			Mothers:  [2]int{f.int(2), f.int(3)},
			Colors:   [2]int{f.int(4), f.int(5)},
			Momentum: [5]float64{f.float(6), f.float(7), f.float(8), f.float(9), f.float(10)},
			Lifetime: f.float(11),
			Spin:     f.float(12),
		}
		if f.err != nil {
			return nil, &ParseError{Line: start + j + 1, Msg: f.err.Error()}
		}
		ev.Particles = append(ev.Particles, p)
	}

	return ev, nil
}

// fieldParser converts whitespace-separated fields, keeping the first error.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) int(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i+1, err)
	}
	return v
}

func (p *fieldParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	// Fortran writers may emit D exponents
	v, err := strconv.ParseFloat(strings.Replace(strings.Replace(p.fields[i], "D", "E", 1), "d", "e", 1), 64)
	if err != nil {
		p.err = fmt.Errorf("field %d: %w", i+1, err)
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
