package fmsynth_test

import (
	"math"
	"strings"
	"testing"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/synth"
)

const scoreYAML = `
samplerate: 48000
bpm: 140
length: 1000
patch:
  master.volume: 0.00 dB
  op2.mod_index: 2.00π
events:
  - frame: 10
    kind: on
    key: 60
    velocity: 100
  - frame: 20
    kind: bend
    bend: -0.5
  - frame: 30
    kind: on
    key: 64
    velocity: 90
    glide: {target: 67, seconds: 0.1}
  - frame: 500
    kind: off
    key: 60
`

func TestReadScore(t *testing.T) {
	score, err := fmsynth.ReadScore(strings.NewReader(scoreYAML))
	if err != nil {
		t.Fatal(err)
	}
	if score.SampleRate != 48000 || score.BPM != 140 || score.Length != 1000 {
		t.Fatalf("score header %v %v %v", score.SampleRate, score.BPM, score.Length)
	}
	if len(score.Events) != 4 {
		t.Fatalf("%d events", len(score.Events))
	}
	if e := score.Events[1]; e.Kind != fmsynth.PitchBend || e.Bend != -0.5 {
		t.Errorf("bend event decoded as %+v", e)
	}
	if g := score.Events[2].Glide; g == nil || g.TargetKey != 67 || g.Seconds != 0.1 {
		t.Errorf("glide decoded as %+v", g)
	}
	if err := score.Validate(); err != nil {
		t.Fatal(err)
	}
	values, err := score.PatchValues()
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 || values[0].Index != param.MasterVolume || values[1].Index != param.Operators[1].ModIndex {
		t.Fatalf("patch values %v", values)
	}
	for _, v := range values {
		if math.Abs(float64(v.Value)-0.5) > 1e-3 {
			t.Errorf("%v = %v, expected 0.5", param.Table[v.Index].Name, v.Value)
		}
	}
}

func TestReadScoreRejectsUnknownFields(t *testing.T) {
	if _, err := fmsynth.ReadScore(strings.NewReader("length: 10\ntempo: 120\n")); err == nil {
		t.Fatal("unknown field was accepted")
	}
	if _, err := fmsynth.ReadScore(strings.NewReader("events:\n  - kind: strum\n")); err == nil {
		t.Fatal("unknown event kind was accepted")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]fmsynth.Score{
		"negative length": {Length: -1},
		"negative rate":   {SampleRate: -44100},
		"negative frame":  {Events: []fmsynth.NoteEvent{{Frame: -1}}},
		"key":             {Events: []fmsynth.NoteEvent{{Key: 128}}},
		"velocity":        {Events: []fmsynth.NoteEvent{{Velocity: 200}}},
		"bend":            {Events: []fmsynth.NoteEvent{{Kind: fmsynth.PitchBend, Bend: 1.5}}},
		"NaN bend":        {Events: []fmsynth.NoteEvent{{Kind: fmsynth.PitchBend, Bend: float32(math.NaN())}}},
		"NaN rate":        {SampleRate: math.NaN()},
		"infinite bpm":    {BPM: math.Inf(1)},
		"kind":            {Events: []fmsynth.NoteEvent{{Kind: fmsynth.EventKind(7)}}},
	}
	for name, score := range cases {
		if err := score.Validate(); err == nil {
			t.Errorf("%s: invalid score passed validation", name)
		}
	}
}

func TestPatchValuesErrors(t *testing.T) {
	score := fmsynth.Score{Patch: map[string]string{"op9.volume": "0 dB"}}
	if _, err := score.PatchValues(); err == nil {
		t.Error("unknown parameter was accepted")
	}
	score = fmsynth.Score{Patch: map[string]string{"voice_mode": "chorus"}}
	if _, err := score.PatchValues(); err == nil {
		t.Error("unknown step label was accepted")
	}
}

func newSynth(t *testing.T) fmsynth.Synth {
	t.Helper()
	s, err := synth.GoSynther{Detect: true}.Synth(fmsynth.DefaultSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func noteScore() fmsynth.Score {
	return fmsynth.Score{
		BlockSize: 64,
		Length:    4000,
		Patch:     map[string]string{"op1.attack": "4.0 ms", "op1.release": "4.0 ms"},
		Events: []fmsynth.NoteEvent{
			{Frame: 2000, Kind: fmsynth.NoteOff, Key: 60},
			{Frame: 100, Kind: fmsynth.NoteOn, Key: 60, Velocity: 100},
		},
	}
}

func TestPlayMatchesDirectRender(t *testing.T) {
	score := noteScore()
	played, err := fmsynth.Play(newSynth(t), score)
	if err != nil {
		t.Fatal(err)
	}
	if len(played) != score.Length {
		t.Fatalf("played %d frames, expected %d", len(played), score.Length)
	}
	s := newSynth(t)
	values, err := score.PatchValues()
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range values {
		s.SetPatchValue(v.Index, v.Value)
	}
	direct := make(fmsynth.AudioBuffer, score.Length)
	events := append([]fmsynth.NoteEvent(nil), score.Events...)
	s.Render(direct, events)
	nonzero := false
	for i := range played {
		if played[i] != direct[i] {
			t.Fatalf("frame %d: played %v, rendered %v", i, played[i], direct[i])
		}
		nonzero = nonzero || played[i] != [2]float32{}
	}
	if !nonzero {
		t.Fatal("the note produced no output")
	}
}

func TestPlayDropsEventsPastLength(t *testing.T) {
	score := noteScore()
	score.Events = []fmsynth.NoteEvent{{Frame: score.Length, Kind: fmsynth.NoteOn, Key: 60, Velocity: 100}}
	buffer, err := fmsynth.Play(newSynth(t), score)
	if err != nil {
		t.Fatal(err)
	}
	if peak, _ := buffer.Levels(); peak != 0 {
		t.Fatalf("event past the end produced output with peak %v", peak)
	}
}

func TestPlayAppliesGain(t *testing.T) {
	score := noteScore()
	full, err := fmsynth.Play(newSynth(t), score)
	if err != nil {
		t.Fatal(err)
	}
	score.Gain = 0.5
	half, err := fmsynth.Play(newSynth(t), score)
	if err != nil {
		t.Fatal(err)
	}
	for i := range full {
		if half[i][0] != full[i][0]*0.5 || half[i][1] != full[i][1]*0.5 {
			t.Fatalf("frame %d: %v is not half of %v", i, half[i], full[i])
		}
	}
}

func TestPlayRejectsInvalidScores(t *testing.T) {
	if _, err := fmsynth.Play(newSynth(t), fmsynth.Score{Length: -5}); err == nil {
		t.Error("negative length was played")
	}
	if _, err := fmsynth.Play(newSynth(t), fmsynth.Score{Length: 5, Patch: map[string]string{"nope": "1"}}); err == nil {
		t.Error("unknown parameter was played")
	}
}
