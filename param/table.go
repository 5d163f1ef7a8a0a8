package param

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Parameter describes one automatable value: its key in score files, its
	// display title, how patch values map to audio values and its default.
	Parameter struct {
		Name    string
		Title   string
		Kind    Kind
		Default float32
		Steps   []Step // only for KindSteps
	}

	// Step is one position of a stepped parameter.
	Step struct {
		Value float64
		Label string
	}

	// OperatorIndices are the parameter indices of one operator. Parameters the
	// operator does not have are None.
	OperatorIndices struct {
		Volume, Active, MixOut, Panning, WaveType, ModTargets, ModIndex,
		Feedback, FrequencyRatio, FrequencyFree, FrequencyFine,
		Attack, Decay, Sustain, Release uint8
	}

	LFOIndices struct {
		Target, BpmSync, FrequencyRatio, FrequencyFree, Mode, Shape, Amount, Active uint8
	}

	// TargetSet is a bitset of operators (bit 0 = operator 1) receiving an
	// operator's modulation output.
	TargetSet uint8

	// LFOTarget is one choice of an LFO's target parameter. Param is None for
	// the "Off" choice.
	LFOTarget struct {
		Param uint8
		Label string
	}
)

const (
	// Count is the number of parameters.
	Count        = 99
	NumOperators = 4
	NumLFOs      = 4
	// None marks a parameter an operator does not have.
	None uint8 = 0xff
)

// Master parameters
const (
	MasterVolume uint8 = iota
	MasterFrequency
	VoiceMode
	GlideActive
	GlideTime
	GlideBpmSync
	GlideRetrigger
	PitchBendRangeUp
	PitchBendRangeDown
)

// Choices of the stepped parameters, in step order.
const (
	Polyphonic = iota
	Monophonic
)

const (
	GlideOff = iota
	GlideLegato
	GlideOn
)

const (
	WaveSine = iota
	WaveNoise
)

const (
	LFOOnce = iota
	LFOForever
)

const (
	ShapeSaw = iota
	ShapeReverseSaw
	ShapeTriangle
	ShapeReverseTriangle
	ShapeSquare
	ShapeReverseSquare
	ShapeSine
	ShapeReverseSine
	NumShapes
)

var (
	// Table is the immutable parameter table; a parameter's index is its
	// position in the table.
	Table     [Count]Parameter
	Operators [NumOperators]OperatorIndices
	LFOs      [NumLFOs]LFOIndices

	// ModTargetChoices lists, per operator, the legal target sets in step
	// order. Operator 1 is the carrier and targets nothing.
	ModTargetChoices = [NumOperators][]TargetSet{
		{},
		{0, 0b1},
		{0, 0b01, 0b10, 0b11},
		{0, 0b001, 0b010, 0b011, 0b100, 0b101, 0b110, 0b111},
	}
	// ModTargetDefaults chain every operator to the one below it.
	ModTargetDefaults = [NumOperators]TargetSet{0, 0b1, 0b10, 0b100}

	// LFOTargets lists, per LFO, the parameters it can modulate in step order.
	LFOTargets [NumLFOs][]LFOTarget

	byName = map[string]uint8{}
)

var (
	masterFrequencies = []float64{400, 410, 420, 430, 432, 435, 438, 440, 442, 444, 446, 448, 450, 460, 470, 480}
	operatorRatios    = [][2]int{
		{1, 8}, {1, 6}, {1, 5}, {1, 4}, {1, 3}, {1, 2}, {2, 3}, {3, 4}, {1, 1}, {5, 4}, {4, 3}, {3, 2}, {5, 3},
		{2, 1}, {5, 2}, {3, 1}, {4, 1}, {5, 1}, {6, 1}, {7, 1}, {8, 1}, {9, 1}, {10, 1}, {11, 1}, {12, 1},
		{13, 1}, {14, 1}, {15, 1}, {16, 1},
	}
	lfoRatios = [][2]int{
		{1, 16}, {1, 8}, {1, 4}, {1, 3}, {1, 2}, {2, 3}, {3, 4}, {1, 1}, {3, 2}, {2, 1}, {3, 1}, {4, 1}, {8, 1}, {16, 1},
	}
	shapeLabels = []string{"saw", "reverse saw", "triangle", "reverse triangle", "square", "reverse square", "sine", "reverse sine"}
)

var title = cases.Title(language.English)

func init() {
	b := builder{}
	b.add("master.volume", Parameter{Kind: KindVolume, Default: 0.5})
	b.add("master.frequency", steps(hzSteps(masterFrequencies), 7))
	b.add("voice_mode", steps(labelSteps("polyphonic", "monophonic"), Polyphonic))
	b.add("glide.active", steps(labelSteps("off", "legato", "on"), GlideOff))
	b.add("glide.time", Parameter{Kind: KindGlideTime, Default: 0.1})
	b.add("glide.bpm_sync", steps(labelSteps("off", "on"), 0))
	b.add("glide.retrigger", steps(labelSteps("off", "on"), 0))
	b.add("pitch_bend.range_up", steps(semitoneSteps(24), 2))
	b.add("pitch_bend.range_down", steps(semitoneSteps(24), 2))
	for n := range Operators {
		o := &Operators[n]
		op := func(s string) string { return fmt.Sprintf("op%d.%s", n+1, s) }
		o.MixOut, o.ModTargets = None, None
		active := float32(0)
		if n == 0 {
			active = 1
		}
		o.Volume = b.add(op("volume"), Parameter{Kind: KindVolume, Default: 0.5})
		o.Active = b.add(op("active"), Parameter{Kind: KindActive, Default: active})
		if n > 0 {
			o.MixOut = b.add(op("mix_out"), Parameter{Kind: KindLinear, Default: 0})
		}
		o.Panning = b.add(op("panning"), Parameter{Kind: KindPanning, Default: 0.5})
		o.WaveType = b.add(op("wave_type"), steps(labelSteps("sine", "noise"), WaveSine))
		if n > 0 {
			o.ModTargets = b.add(op("mod_targets"), modTargetParameter(n))
		}
		o.ModIndex = b.add(op("mod_index"), Parameter{Kind: KindModIndex, Default: 0.25})
		o.Feedback = b.add(op("feedback"), Parameter{Kind: KindLinear, Default: 0})
		o.FrequencyRatio = b.add(op("frequency_ratio"), steps(ratioSteps(operatorRatios), 8))
		o.FrequencyFree = b.add(op("frequency_free"), Parameter{Kind: KindFrequencyFree, Default: 0.5})
		o.FrequencyFine = b.add(op("frequency_fine"), Parameter{Kind: KindFrequencyFine, Default: 0.5})
		o.Attack = b.add(op("attack"), Parameter{Kind: KindDuration, Default: 0.1})
		o.Decay = b.add(op("decay"), Parameter{Kind: KindDuration, Default: 0.2})
		o.Sustain = b.add(op("sustain"), Parameter{Kind: KindLinear, Default: 0.7})
		o.Release = b.add(op("release"), Parameter{Kind: KindDuration, Default: 0.25})
	}
	for n := range LFOs {
		l := &LFOs[n]
		lfo := func(s string) string { return fmt.Sprintf("lfo%d.%s", n+1, s) }
		// the target labels refer to indices of lower LFOs, which are known by now
		LFOTargets[n] = lfoTargets(n)
		labels := make([]Step, len(LFOTargets[n]))
		for i, t := range LFOTargets[n] {
			labels[i] = Step{Value: float64(i), Label: t.Label}
		}
		l.Target = b.add(lfo("target"), steps(labels, 0))
		l.BpmSync = b.add(lfo("bpm_sync"), steps(labelSteps("off", "on"), 1))
		l.FrequencyRatio = b.add(lfo("frequency_ratio"), steps(ratioSteps(lfoRatios), 7))
		l.FrequencyFree = b.add(lfo("frequency_free"), Parameter{Kind: KindLFOFrequency, Default: 0.5})
		l.Mode = b.add(lfo("mode"), steps(labelSteps("once", "forever"), LFOForever))
		l.Shape = b.add(lfo("shape"), steps(labelSteps(shapeLabels...), ShapeSine))
		l.Amount = b.add(lfo("amount"), Parameter{Kind: KindAmount, Default: 0.5})
		l.Active = b.add(lfo("active"), Parameter{Kind: KindActive, Default: 0})
	}
	if b.n != Count {
		panic(fmt.Sprintf("param: table has %d parameters, Count is %d", b.n, Count))
	}
}

type builder struct{ n int }

func (b *builder) add(name string, p Parameter) uint8 {
	p.Name = name
	p.Title = titleFor(name)
	Table[b.n] = p
	byName[name] = uint8(b.n)
	b.n++
	return uint8(b.n - 1)
}

// Lookup returns the index of the parameter with the given name.
func Lookup(name string) (uint8, bool) {
	i, ok := byName[name]
	return i, ok
}

// Title returns the display title of parameter i, or "" for an unknown index.
func Title(i uint8) string {
	if int(i) >= Count {
		return ""
	}
	return Table[i].Title
}

// Targets returns the operators receiving operator n's modulation output
// when its ModTargets parameter has patch value v.
func Targets(n int, v float32) TargetSet {
	c := ModTargetChoices[n]
	if len(c) == 0 {
		return 0
	}
	return c[StepIndex(v, len(c))]
}

func (t TargetSet) Has(op int) bool { return t&(1<<op) != 0 }

func (t TargetSet) String() string {
	if t == 0 {
		return "off"
	}
	var parts []string
	for op := 0; op < NumOperators; op++ {
		if t.Has(op) {
			parts = append(parts, fmt.Sprint(op+1))
		}
	}
	return "op. " + strings.Join(parts, " + ")
}

// StepIndex returns the step a patch value selects among count steps.
func StepIndex(v float32, count int) int {
	i := int(Clamp(v) * float32(count))
	if i >= count {
		i = count - 1
	}
	return i
}

// StepPatch returns the patch value at the center of step k.
func StepPatch(k, count int) float32 {
	return (float32(k) + 0.5) / float32(count)
}

func steps(s []Step, def int) Parameter {
	return Parameter{Kind: KindSteps, Steps: s, Default: StepPatch(def, len(s))}
}

func labelSteps(labels ...string) []Step {
	s := make([]Step, len(labels))
	for i, l := range labels {
		s[i] = Step{Value: float64(i), Label: title.String(l)}
	}
	return s
}

func hzSteps(hz []float64) []Step {
	s := make([]Step, len(hz))
	for i, f := range hz {
		s[i] = Step{Value: f, Label: fmt.Sprintf("%g Hz", f)}
	}
	return s
}

func ratioSteps(r [][2]int) []Step {
	s := make([]Step, len(r))
	for i, q := range r {
		label := fmt.Sprint(q[0])
		if q[1] != 1 {
			label = fmt.Sprintf("%d/%d", q[0], q[1])
		}
		s[i] = Step{Value: float64(q[0]) / float64(q[1]), Label: label}
	}
	return s
}

func semitoneSteps(n int) []Step {
	s := make([]Step, n+1)
	for i := range s {
		s[i] = Step{Value: float64(i), Label: fmt.Sprintf("%d st", i)}
	}
	return s
}

func modTargetParameter(n int) Parameter {
	choices := ModTargetChoices[n]
	s := make([]Step, len(choices))
	def := 0
	for i, t := range choices {
		s[i] = Step{Value: float64(t), Label: title.String(t.String())}
		if t == ModTargetDefaults[n] {
			def = i
		}
	}
	return steps(s, def)
}

func lfoTargets(n int) []LFOTarget {
	t := []LFOTarget{
		{None, "Off"},
		{MasterVolume, Table[MasterVolume].Title},
		{MasterFrequency, Table[MasterFrequency].Title},
	}
	for _, o := range Operators {
		for _, i := range []uint8{o.Volume, o.MixOut, o.Panning, o.ModIndex, o.Feedback,
			o.FrequencyRatio, o.FrequencyFree, o.FrequencyFine} {
			if i != None {
				t = append(t, LFOTarget{i, Table[i].Title})
			}
		}
	}
	for _, l := range LFOs[:n] {
		for _, i := range []uint8{l.FrequencyRatio, l.FrequencyFree, l.Amount} {
			t = append(t, LFOTarget{i, Table[i].Title})
		}
	}
	return t
}

// titleFor turns "op2.mod_index" into "Operator 2 Mod Index".
func titleFor(name string) string {
	group, rest, found := strings.Cut(name, ".")
	if !found {
		return title.String(strings.ReplaceAll(name, "_", " "))
	}
	var prefix string
	switch {
	case strings.HasPrefix(group, "op"):
		prefix = "Operator " + group[2:]
	case strings.HasPrefix(group, "lfo"):
		prefix = "LFO " + group[3:]
	default:
		prefix = title.String(strings.ReplaceAll(group, "_", " "))
	}
	return prefix + " " + title.String(strings.ReplaceAll(rest, "_", " "))
}
