package lhef

// Process is one line of the <init> block after the beam line.
type Process struct {
	CrossSection float64 `yaml:"cross_section"` // XSECUP
	Error        float64 `yaml:"error"`         // XERRUP
	MaxWeight    float64 `yaml:"max_weight"`    // XMAXUP
	ID           int     `yaml:"id"`            // LPRUP
}

// Header is the parsed <init> block of an event file.
type Header struct {
	BeamIDs      [2]int     `yaml:"beam_ids,flow"`
	BeamEnergies [2]float64 `yaml:"beam_energies,flow"`
	PDFGroups    [2]int     `yaml:"pdf_groups,flow"`
	PDFSets      [2]int     `yaml:"pdf_sets,flow"`

	// Strategy is the IDWTUP weighting code.
	Strategy int `yaml:"strategy"`

	Processes []Process `yaml:"processes"`
}

// CrossSections returns the declared cross section of every process.
func (h *Header) CrossSections() []float64 {
	xs := make([]float64, len(h.Processes))
	for i, p := range h.Processes {
		xs[i] = p.CrossSection
	}
	return xs
}

// Particle is one particle line of an <event> block.
type Particle struct {
	ID       int        `yaml:"id"`
	Status   int        `yaml:"status"`
	Mothers  [2]int     `yaml:"mothers,flow"`
	Colors   [2]int     `yaml:"colors,flow"`
	Momentum [5]float64 `yaml:"momentum,flow"` // px py pz E m
	Lifetime float64    `yaml:"lifetime"`
	Spin     float64    `yaml:"spin"`
}

// Event is one <event> block. It satisfies xsec.Event.
type Event struct {
	ProcessID int
	Scale     float64
	AlphaQED  float64
	AlphaQCD  float64
	Particles []Particle

	xwgtup float64
	weight float64
}

// Weight returns the weight the event contributes to a cross section:
// XWGTUP for weighted files (IDWTUP ±4) and its sign, ±1, otherwise.
func (e *Event) Weight() float64 {
	return e.weight
}

// XWGTUP returns the weight as written in the file.
func (e *Event) XWGTUP() float64 {
	return e.xwgtup
}

// EventRecord is the serializable form of an Event.
type EventRecord struct {
	ProcessID int        `yaml:"process_id"`
	Weight    float64    `yaml:"weight"` // XWGTUP
	Scale     float64    `yaml:"scale"`
	AlphaQED  float64    `yaml:"alpha_qed"`
	AlphaQCD  float64    `yaml:"alpha_qcd"`
	Particles []Particle `yaml:"particles"`
}

// Record returns the event in serializable form.
func (e *Event) Record() any {
	return EventRecord{
		ProcessID: e.ProcessID,
		Weight:    e.xwgtup,
		Scale:     e.Scale,
		AlphaQED:  e.AlphaQED,
		AlphaQCD:  e.AlphaQCD,
		Particles: e.Particles,
	}
}
