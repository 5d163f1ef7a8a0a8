package oto

import "github.com/vsariola/fmsynth"

type (
	// EventSource delivers the note events of the next block. Events returns
	// dst extended with the events that fall within the next frames frames,
	// stamped relative to the block start.
	EventSource interface {
		Events(frames int, dst []fmsynth.NoteEvent) []fmsynth.NoteEvent
	}

	// SynthReader is an io.Reader producing float32 stereo audio from a
	// synth, rendering in blocks of at most BlockSize frames.
	SynthReader struct {
		synth  fmsynth.Synth
		source EventSource
		buffer fmsynth.AudioBuffer
		events []fmsynth.NoteEvent
		bytes  []byte
		unread []byte
	}
)

// BlockSize is the largest block a SynthReader renders at once.
const BlockSize = 256

func NewSynthReader(synth fmsynth.Synth, source EventSource) *SynthReader {
	return &SynthReader{
		synth:  synth,
		source: source,
		buffer: make(fmsynth.AudioBuffer, BlockSize),
		events: make([]fmsynth.NoteEvent, 0, 64),
		bytes:  make([]byte, 0, BlockSize*8),
	}
}

// Read fills p with whole frames, rendering new blocks as needed. It never
// returns an error.
func (r *SynthReader) Read(p []byte) (int, error) {
	n := 0
	for n+8 <= len(p) {
		if len(r.unread) == 0 {
			frames := min(BlockSize, (len(p)-n)/8)
			r.events = r.events[:0]
			if r.source != nil {
				r.events = r.source.Events(frames, r.events)
			}
			r.synth.Render(r.buffer[:frames], r.events)
			r.bytes = FloatBufferTo32BitLE(r.buffer[:frames], r.bytes[:0])
			r.unread = r.bytes
		}
		c := copy(p[n:n+(len(p)-n)/8*8], r.unread)
		r.unread = r.unread[c:]
		n += c
	}
	return n, nil
}
