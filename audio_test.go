package fmsynth_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/wav"

	"github.com/vsariola/fmsynth"
)

func TestSplitJoin(t *testing.T) {
	buffer := fmsynth.AudioBuffer{{1, 2}, {3, 4}, {5, 6}}
	left, right := make([]float32, 2), make([]float32, 3)
	if n := buffer.Split(left, right); n != 2 {
		t.Fatalf("split %d frames, expected 2", n)
	}
	if left[1] != 3 || right[1] != 4 {
		t.Fatalf("split gave %v and %v", left, right)
	}
	out := make(fmsynth.AudioBuffer, 3)
	if n := out.Join([]float32{7, 8, 9}, []float32{10, 11, 12}); n != 3 {
		t.Fatalf("joined %d frames, expected 3", n)
	}
	if out[2] != [2]float32{9, 12} {
		t.Fatalf("joined buffer %v", out)
	}
}

func TestLevels(t *testing.T) {
	if peak, rms := fmsynth.AudioBuffer(nil).Levels(); peak != 0 || rms != 0 {
		t.Fatalf("empty buffer has levels %v, %v", peak, rms)
	}
	buffer := fmsynth.AudioBuffer{{0.5, -0.5}, {-0.5, 0.5}, {-0.75, 0.25}, {0.25, -0.75}}
	peak, rms := buffer.Levels()
	if peak != 0.75 {
		t.Errorf("peak %v, expected 0.75", peak)
	}
	// mean square over both channels is (4*0.25 + 2*0.5625 + 2*0.0625) / 8
	want := math.Sqrt((4*0.25 + 2*0.5625 + 2*0.0625) / 8)
	if math.Abs(float64(rms)-want) > 1e-6 {
		t.Errorf("rms %v, expected %v", rms, want)
	}
}

func TestGain(t *testing.T) {
	buffer := fmsynth.AudioBuffer{{1, -1}, {0.5, 0.25}}
	buffer.Gain(0.5)
	if buffer[0] != [2]float32{0.5, -0.5} || buffer[1] != [2]float32{0.25, 0.125} {
		t.Fatalf("gain 0.5 gave %v", buffer)
	}
}

func TestRawPCM16(t *testing.T) {
	buffer := fmsynth.AudioBuffer{{1, -1}, {0.5, 2}, {float32(math.NaN()), -3}}
	raw, err := buffer.Raw(true)
	if err != nil {
		t.Fatal(err)
	}
	want := []int16{32767, -32767, 16384, 32767, 0, -32767}
	if len(raw) != 2*len(want) {
		t.Fatalf("%d bytes, expected %d", len(raw), 2*len(want))
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(raw[2*i:])); got != w {
			t.Errorf("sample %d: %d, expected %d", i, got, w)
		}
	}
}

func TestRawFloat(t *testing.T) {
	buffer := fmsynth.AudioBuffer{{0.25, -2}}
	raw, err := buffer.Raw(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 8 {
		t.Fatalf("%d bytes, expected 8", len(raw))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(raw[4:])); got != -2 {
		t.Fatalf("float output should not be clamped, got %v", got)
	}
}

func TestWavFloatHeader(t *testing.T) {
	buffer := make(fmsynth.AudioBuffer, 100)
	f, err := os.Create(filepath.Join(t.TempDir(), "float.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := buffer.Wav(f, 48000, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 58+8*len(buffer) {
		t.Fatalf("file is %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("not a RIFF WAVE file: %q", data[:12])
	}
	if format := binary.LittleEndian.Uint16(data[20:]); format != 3 {
		t.Errorf("format tag %d, expected IEEE float", format)
	}
	if rate := binary.LittleEndian.Uint32(data[24:]); rate != 48000 {
		t.Errorf("sample rate %d", rate)
	}
}

func TestWavPCM16Decodes(t *testing.T) {
	buffer := make(fmsynth.AudioBuffer, 256)
	for i := range buffer {
		v := float32(math.Sin(float64(i) / 10))
		buffer[i] = [2]float32{v, -v}
	}
	name := filepath.Join(t.TempDir(), "pcm.wav")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := buffer.Wav(f, 44100, true); err != nil {
		t.Fatal(err)
	}
	f.Close()
	f, err = os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("encoded file is not a valid wav file")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if pcm.Format.NumChannels != 2 || len(pcm.Data) != 2*len(buffer) {
		t.Fatalf("decoded %d channels and %d samples", pcm.Format.NumChannels, len(pcm.Data))
	}
}
