package gomidi

import (
	"github.com/vsariola/fmsynth"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Queue hands MIDI messages received on a driver goroutine to the audio
	// thread. Messages are stamped with the driver's millisecond clock and
	// spread over blocks so they sound with the same spacing they were
	// played with.
	Queue struct {
		sampleRate    float64
		events        chan timestampedMsg
		eventsBuf     []timestampedMsg
		startFrame    int
		startFrameSet bool
	}

	timestampedMsg struct {
		frame int
		msg   midi.Message
	}
)

const queueSize = 1024

func NewQueue(sampleRate float64) *Queue {
	return &Queue{
		sampleRate: sampleRate,
		events:     make(chan timestampedMsg, queueSize),
		eventsBuf:  make([]timestampedMsg, 0, queueSize),
	}
}

// HandleMessage is the listener callback. If the queue is full the message
// is dropped.
func (q *Queue) HandleMessage(msg midi.Message, timestampms int32) {
	select {
	case q.events <- timestampedMsg{frame: int(float64(timestampms) * q.sampleRate / 1000), msg: msg}:
	default:
	}
}

// Events implements oto.EventSource. Messages that do not fit the pending
// buffer stay in the channel until a later block.
func (q *Queue) Events(frames int, dst []fmsynth.NoteEvent) []fmsynth.NoteEvent {
F:
	for len(q.eventsBuf) < cap(q.eventsBuf) {
		select {
		case msg := <-q.events:
			q.eventsBuf = append(q.eventsBuf, msg)
			if !q.startFrameSet {
				q.startFrame = msg.frame
				q.startFrameSet = true
			}
		default:
			break F
		}
	}
	consumed := 0
	for _, m := range q.eventsBuf {
		f := m.frame - q.startFrame
		if f >= frames {
			break
		}
		consumed++
		if f < 0 {
			// late: pull the clock toward the event
			q.startFrame += f / 5
			f = 0
		}
		if e, ok := Decode(m.msg, f); ok {
			dst = append(dst, e)
		}
	}
	q.startFrame += frames
	q.eventsBuf = q.eventsBuf[:copy(q.eventsBuf, q.eventsBuf[consumed:])]
	if len(q.eventsBuf) > 0 {
		// events wait for a later block; nudge the clock toward them
		delta := q.startFrame - q.eventsBuf[0].frame
		q.startFrame -= delta / 5
	}
	return dst
}
