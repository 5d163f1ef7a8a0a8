// Package oto plays fmsynth audio through github.com/ebitengine/oto/v3.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/fmsynth"
)

type (
	// OtoContext is an open audio device.
	OtoContext struct {
		context    *oto.Context
		sampleRate int
	}

	// OtoOutput is an AudioSink: WriteAudio blocks until the device has
	// taken the audio.
	OtoOutput struct {
		player    *oto.Player
		writer    *io.PipeWriter
		tmpBuffer []byte
	}
)

const otoBufferSize = 8192 // bytes

// NewContext opens the default audio device for stereo float32 output.
func NewContext(sampleRate int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate}, nil
}

func (c *OtoContext) SampleRate() int { return c.sampleRate }

func (c *OtoContext) Output() fmsynth.AudioSink {
	r, w := io.Pipe()
	p := c.context.NewPlayer(r)
	p.SetBufferSize(otoBufferSize)
	p.Play()
	return &OtoOutput{player: p, writer: w}
}

// Stream starts playing the output of synth, fed with events from source.
// Rendering happens on the device's goroutine, which becomes the synth's
// audio thread; the synth must not be processed elsewhere while the player
// is open.
func (c *OtoContext) Stream(synth fmsynth.Synth, source EventSource) *oto.Player {
	p := c.context.NewPlayer(NewSynthReader(synth, source))
	p.SetBufferSize(otoBufferSize)
	p.Play()
	return p
}

// Close suspends the device. oto contexts cannot be reopened, so the
// OtoContext must not be used afterwards.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *OtoOutput) WriteAudio(buffer fmsynth.AudioBuffer) error {
	// reuse the capacity of the previous conversion
	o.tmpBuffer = FloatBufferTo32BitLE(buffer, o.tmpBuffer[:0])
	if _, err := o.writer.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close waits for the written audio to finish and releases the player.
func (o *OtoOutput) Close() error {
	o.writer.Close()
	for o.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
