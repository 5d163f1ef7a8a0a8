package fmsynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// Wav writes the buffer as a stereo .wav file. With pcm16 the samples are
// encoded as 16-bit integers, otherwise as 32-bit IEEE floats.
func (buffer AudioBuffer) Wav(w io.WriteSeeker, sampleRate int, pcm16 bool) error {
	if pcm16 {
		enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
		data := make([]float32, 0, 2*len(buffer))
		for _, f := range buffer {
			data = append(data, clamp(f[0]), clamp(f[1]))
		}
		buf := &audio.Float32Buffer{
			Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 2},
			Data:           data,
			SourceBitDepth: 16,
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav encoding failed: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("wav encoding failed: %w", err)
		}
		return nil
	}
	var b bytes.Buffer
	wavFloatHeader(len(buffer)*2, sampleRate, &b)
	if err := buffer.rawToBuffer(false, &b); err != nil {
		return fmt.Errorf("Wav failed: %w", err)
	}
	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("Wav failed: %w", err)
	}
	return nil
}

// Raw returns the interleaved samples as little-endian int16 or float32.
func (buffer AudioBuffer) Raw(pcm16 bool) ([]byte, error) {
	var b bytes.Buffer
	if err := buffer.rawToBuffer(pcm16, &b); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return b.Bytes(), nil
}

func (buffer AudioBuffer) rawToBuffer(pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([][2]int16, len(buffer))
		for i, v := range buffer {
			int16data[i][0] = int16(math.Round(float64(clamp(v[0])) * math.MaxInt16))
			int16data[i][1] = int16(math.Round(float64(clamp(v[1])) * math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, buffer)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %w", err)
	}
	return nil
}

// wavFloatHeader writes the header of a stereo float32 .wav file holding
// numSamples samples (L + R counted separately).
// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func wavFloatHeader(numSamples, sampleRate int, buf *bytes.Buffer) {
	const (
		numChannels    = 2
		bytesPerSample = 4
		fmtChunkSize   = 18
		waveFormat     = 3 // IEEE float
	)
	chunkSize := 50 + bytesPerSample*numSamples
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	binary.Write(buf, binary.LittleEndian, uint16(0))                                     // size of extension
	buf.Write([]byte("fact"))
	binary.Write(buf, binary.LittleEndian, uint32(4))                      // fact chunk size
	binary.Write(buf, binary.LittleEndian, uint32(numSamples/numChannels)) // sample frames
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*numSamples))
}

func clamp(v float32) float32 {
	if v != v {
		return 0
	}
	return max(-1, min(1, v))
}
