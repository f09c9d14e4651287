package lhef

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/xsec"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Source serves the events of one file per subrun. Init opens
// SubrunConfig.Input, which may be plain or gzip-compressed; the previous
// subrun's file is closed first.
type Source struct {
	closers []io.Closer
	reader  *Reader
}

var _ xsec.EventSource = (*Source)(nil)

// NewSource creates a Source with no file open.
func NewSource() *Source {
	return &Source{}
}

// Init opens the subrun's event file and reads its header.
func (s *Source) Init(ctx context.Context, cfg xsec.SubrunConfig) error {
	if err := s.Close(); err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("%w: subrun %d: no event file", xsec.ErrConfiguration, cfg.Index)
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("opening event file: %w", err)
	}
	s.closers = append(s.closers, f)

	r, err := Open(f)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	rd, err := NewReader(r)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	s.reader = rd
	return nil
}

// Next returns the next event of the current file.
func (s *Source) Next(ctx context.Context) (xsec.Event, error) {
	if s.reader == nil {
		return nil, xsec.ErrEndOfInput
	}
	ev, err := s.reader.ReadEvent()
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Strategy returns the IDWTUP code of the current file.
func (s *Source) Strategy() xsec.Strategy {
	if s.reader == nil {
		return 0
	}
	return xsec.Strategy(s.reader.Header().Strategy)
}

// ProcessCrossSections returns the XSECUP values of the current file.
func (s *Source) ProcessCrossSections() []float64 {
	if s.reader == nil {
		return nil
	}
	return s.reader.Header().CrossSections()
}

// Header returns the header of the current file, or nil.
func (s *Source) Header() *Header {
	if s.reader == nil {
		return nil
	}
	return s.reader.Header()
}

// Close closes the current file.
func (s *Source) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	s.reader = nil
	return firstErr
}

// Open returns a reader over r that transparently decompresses gzip input.
func Open(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return zr, nil
	}
	return br, nil
}
