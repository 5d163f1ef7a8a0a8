package fmsynth

import "fmt"

type (
	// Synth turns note events into stereo audio.
	//
	// Process, Render, SetSampleRate and SetBPM belong to the audio thread.
	// SetPatchValue and PatchValue may be called from any goroutine at any
	// time; changes are picked up at the start of the next block.
	Synth interface {
		// Process overwrites left and right with the next block. Events are
		// sorted in place and applied at their frame offsets.
		Process(left, right []float32, events []NoteEvent)
		// Render is Process for an interleaved buffer.
		Render(buffer AudioBuffer, events []NoteEvent)
		SetPatchValue(index uint8, v float32)
		PatchValue(index uint8) float32
		SetSampleRate(rate float64)
		SetBPM(bpm float64)
	}

	// Synther creates synths, e.g. for a particular SIMD backend.
	Synther interface {
		Name() string
		Synth(sampleRate float64) (Synth, error)
	}
)

const (
	DefaultSampleRate = 44100
	DefaultBPM        = 120
	DefaultBlockSize  = 512
)

// Play renders a score offline. The synth is configured from the score
// (sample rate, tempo and patch) and the events are delivered block by block,
// the way a plugin host would. Events at or past Length are dropped.
func Play(synth Synth, score Score) (AudioBuffer, error) {
	if err := score.Validate(); err != nil {
		return nil, fmt.Errorf("invalid score: %w", err)
	}
	values, err := score.PatchValues()
	if err != nil {
		return nil, fmt.Errorf("invalid score: %w", err)
	}
	synth.SetSampleRate(score.sampleRate())
	synth.SetBPM(score.bpm())
	for _, v := range values {
		synth.SetPatchValue(v.Index, v.Value)
	}
	events := make([]NoteEvent, len(score.Events))
	copy(events, score.Events)
	SortEvents(events)
	buffer := make(AudioBuffer, score.Length)
	block := score.blockSize()
	blockEvents := make([]NoteEvent, 0, len(events))
	for start := 0; start < len(buffer); start += block {
		end := min(start+block, len(buffer))
		blockEvents = blockEvents[:0]
		for len(events) > 0 && events[0].Frame < end {
			e := events[0]
			e.Frame -= start
			blockEvents = append(blockEvents, e)
			events = events[1:]
		}
		synth.Render(buffer[start:end], blockEvents)
	}
	buffer.Gain(score.gain())
	return buffer, nil
}
