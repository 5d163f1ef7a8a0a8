package fmsynth

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/vsariola/fmsynth/param"
	"gopkg.in/yaml.v3"
)

type (
	// Score is an offline rendering job: a patch, a tempo and a list of
	// frame-stamped events.
	Score struct {
		SampleRate float64 `yaml:",omitempty"`
		BPM        float64 `yaml:",omitempty"`
		BlockSize  int     `yaml:",omitempty"`
		// Length is the rendered length in frames.
		Length int `yaml:"length"`
		// Gain multiplies the rendered output; zero means 1.
		Gain float32 `yaml:",omitempty"`
		// Patch maps parameter names to display values, e.g. "op2.mod_index:
		// 1.50π" or "master.frequency: 432 Hz".
		Patch  map[string]string `yaml:",omitempty"`
		Events []NoteEvent       `yaml:",omitempty"`
	}

	// PatchValue is a parameter index and patch value resolved from a score.
	PatchValue struct {
		Index uint8
		Value float32
	}
)

// ReadScore decodes a YAML score.
func ReadScore(r io.Reader) (Score, error) {
	var s Score
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Score{}, fmt.Errorf("could not decode score: %w", err)
	}
	return s, nil
}

// Validate checks the score for values Play cannot render.
func (s *Score) Validate() error {
	if s.Length < 0 {
		return fmt.Errorf("negative length %d", s.Length)
	}
	if !finite(s.SampleRate) || !finite(s.BPM) || s.SampleRate < 0 || s.BPM < 0 || s.BlockSize < 0 {
		return errors.New("sample rate, bpm and block size must be finite and not negative")
	}
	for i, e := range s.Events {
		if e.Frame < 0 {
			return fmt.Errorf("event %d: negative frame %d", i, e.Frame)
		}
		if e.Kind > PitchBend {
			return fmt.Errorf("event %d: unknown kind %d", i, e.Kind)
		}
		if e.Key > 127 || e.Velocity > 127 {
			return fmt.Errorf("event %d: key and velocity must be in 0..127", i)
		}
		if !(e.Bend >= -1 && e.Bend <= 1) {
			return fmt.Errorf("event %d: bend %v out of range", i, e.Bend)
		}
	}
	return nil
}

// PatchValues resolves the patch of the score, ordered by parameter index.
func (s *Score) PatchValues() ([]PatchValue, error) {
	ret := make([]PatchValue, 0, len(s.Patch))
	for name, text := range s.Patch {
		i, ok := param.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		v, ok := param.ParseValue(i, text)
		if !ok {
			return nil, fmt.Errorf("could not parse %q as a value of %s", text, name)
		}
		ret = append(ret, PatchValue{Index: i, Value: v})
	}
	sort.Slice(ret, func(a, b int) bool { return ret[a].Index < ret[b].Index })
	return ret, nil
}

func (s *Score) sampleRate() float64 {
	if s.SampleRate == 0 {
		return DefaultSampleRate
	}
	return s.SampleRate
}

func (s *Score) bpm() float64 {
	if s.BPM == 0 {
		return DefaultBPM
	}
	return s.BPM
}

func (s *Score) blockSize() int {
	if s.BlockSize == 0 {
		return DefaultBlockSize
	}
	return s.BlockSize
}

func (s *Score) gain() float32 {
	if s.Gain == 0 {
		return 1
	}
	return s.Gain
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
