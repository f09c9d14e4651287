// Package archive writes exported events as a YAML document stream.
//
// The first document is a [Header]. Every following document is a [Record]:
// one event together with the running cross section in effect when it was
// written.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rickchristie/xsec"
	"gopkg.in/yaml.v3"
)

// Format identifies archive files.
const Format = "xsec-events"

// Version is the archive layout version.
const Version = 1

// ErrNoCrossSection is returned when an event is written before any cross
// section was set.
var ErrNoCrossSection = errors.New("archive: event written before a cross section was set")

// Header is the first document of an archive.
type Header struct {
	Format  string `yaml:"format"`
	Version int    `yaml:"version"`

	// Scale converts the stored cross sections to the unit of the source's
	// declared process cross sections.
	Scale float64 `yaml:"scale"`
}

// Record is one exported event.
type Record struct {
	Number            int64   `yaml:"number"`
	Weight            float64 `yaml:"weight"`
	CrossSection      float64 `yaml:"cross_section"`
	CrossSectionError float64 `yaml:"cross_section_error"`
	Event             any     `yaml:"event,omitempty"`
}

// Recorder is implemented by events that carry a serializable body.
type Recorder interface {
	Record() any
}

// Writer is an xsec.EventSink. It is not safe for concurrent use.
type Writer struct {
	enc    *yaml.Encoder
	closer io.Closer

	current     xsec.Estimate
	haveXS      bool
	wroteHeader bool
	closed      bool
	count       int64
}

var _ xsec.EventSink = (*Writer)(nil)

// Create creates the archive file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// NewWriter returns a Writer that encodes to out. Close does not close out.
func NewWriter(out io.Writer) *Writer {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	return &Writer{enc: enc}
}

// SetCrossSection sets the cross section stored with the following events.
func (w *Writer) SetCrossSection(est xsec.Estimate) error {
	w.current = est
	w.haveXS = true
	return nil
}

// WriteEvent appends one event.
func (w *Writer) WriteEvent(ev xsec.Event) error {
	if !w.haveXS {
		return ErrNoCrossSection
	}
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.count++
	rec := Record{
		Number:            w.count,
		Weight:            ev.Weight(),
		CrossSection:      w.current.CrossSection,
		CrossSectionError: w.current.Error,
	}
	if r, ok := ev.(Recorder); ok {
		rec.Event = r.Record()
	}

	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("archive: writing event %d: %w", w.count, err)
	}
	return nil
}

// Count returns the number of events written.
func (w *Writer) Count() int64 {
	return w.count
}

// Close flushes the stream. An archive with no events still gets its header.
// Calling Close again is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.writeHeader()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	err := w.enc.Encode(Header{Format: Format, Version: Version, Scale: xsec.UnitScale})
	if err != nil {
		return fmt.Errorf("archive: writing header: %w", err)
	}
	return nil
}

// Read decodes a whole archive.
func Read(r io.Reader) (*Header, []Record, error) {
	dec := yaml.NewDecoder(r)

	var h Header
	if err := dec.Decode(&h); err != nil {
		return nil, nil, fmt.Errorf("archive: reading header: %w", err)
	}
	if h.Format != Format {
		return nil, nil, fmt.Errorf("archive: unknown format %q", h.Format)
	}

	var records []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("archive: reading record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return &h, records, nil
}
