//go:build plugin

package main

import (
	"log"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gopkg.in/yaml.v3"
	"pipelined.dev/audio/vst2"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/gomidi"
	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/synth"
)

const (
	pluginName    = "fmsynth"
	pluginVersion = int32(100)
)

var pluginID = [4]byte{'f', 'm', 's', 'y'}

// processContext collects the MIDI events of the next block and follows
// the host tempo.
type processContext struct {
	events []fmsynth.NoteEvent
	host   vst2.Host
	rate   float64
}

// followHost passes the host sample rate and tempo to the synth.
func (c *processContext) followHost(s fmsynth.Synth) {
	timeInfo := c.host.GetTimeInfo(vst2.TempoValid)
	if timeInfo == nil {
		return
	}
	if timeInfo.SampleRate > 0 && timeInfo.SampleRate != c.rate {
		c.rate = timeInfo.SampleRate
		s.SetSampleRate(c.rate)
	}
	if timeInfo.Flags&vst2.TempoValid != 0 && timeInfo.Tempo > 0 {
		s.SetBPM(timeInfo.Tempo)
	}
}

// marshalPatch saves every parameter by name with its display text, so
// chunks stay readable and survive reordering of the parameter table.
func marshalPatch(s fmsynth.Synth) []byte {
	m := make(map[string]string, param.Count)
	for i := range param.Table {
		m[param.Table[i].Name] = param.FormatValue(uint8(i), s.PatchValue(uint8(i)))
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		log.Printf("could not marshal patch: %v", err)
		return nil
	}
	return b
}

func unmarshalPatch(s fmsynth.Synth, data []byte) {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		log.Printf("could not unmarshal patch: %v", err)
		return
	}
	for name, text := range m {
		i, ok := param.Lookup(name)
		if !ok {
			continue
		}
		if v, ok := param.ParseValue(i, text); ok {
			s.SetPatchValue(i, v)
		}
	}
}

func init() {
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		s := synth.New(fmsynth.DefaultSampleRate)
		context := processContext{host: h, events: make([]fmsynth.NoteEvent, 0, 256)}
		var mu sync.Mutex // guards context.events between the event and process callbacks
		return vst2.Plugin{
				UniqueID:       pluginID,
				Version:        pluginVersion,
				InputChannels:  0,
				OutputChannels: 2,
				Name:           pluginName,
				Vendor:         "vsariola/fmsynth",
				Category:       vst2.PluginCategorySynth,
				Flags:          vst2.PluginIsSynth,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					context.followHost(s)
					mu.Lock()
					s.Process(out.Channel(0)[:out.Frames], out.Channel(1)[:out.Frames], context.events)
					context.events = context.events[:0] // reset buffer, but keep the allocated memory
					mu.Unlock()
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent, vst2.PluginCanReceiveTimeInfo:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					mu.Lock()
					defer mu.Unlock()
					for i := 0; i < ev.NumEvents(); i++ {
						switch v := ev.Event(i).(type) {
						case *vst2.MIDIEvent:
							if e, ok := gomidi.Decode(midi.Message(v.Data[:]), int(v.DeltaFrames)); ok {
								context.events = append(context.events, e)
							}
						}
					}
				},
				GetChunkFunc: func(isPreset bool) []byte {
					return marshalPatch(s)
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					unmarshalPatch(s, data)
				},
			}
	}
}

func main() {}
