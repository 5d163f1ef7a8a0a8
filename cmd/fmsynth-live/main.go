package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/cmd"
	"github.com/vsariola/fmsynth/oto"
	"github.com/vsariola/fmsynth/version"
)

func main() {
	input := flag.String("input", "", "Open the first MIDI input whose name starts with this prefix.")
	first := flag.Bool("first", false, "Open the first MIDI input when none matches -input.")
	backend := flag.String("backend", "auto", "SIMD backend: auto, fallback, sse2 or avx.")
	rate := flag.Int("rate", fmsynth.DefaultSampleRate, "Sample rate in Hz.")
	patch := flag.String("patch", "", "Load the patch and tempo of this score file.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Plays fmsynth live from a MIDI input.\nUsage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash())
		os.Exit(0)
	}
	synther, err := cmd.SyntherByBackend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	synth, err := synther.Synth(float64(*rate))
	if err != nil {
		log.Fatalf("could not create synth: %v", err)
	}
	if *patch != "" {
		if err := loadPatch(synth, *patch); err != nil {
			log.Fatal(err)
		}
	}
	midiContext := cmd.NewMIDIContext(float64(*rate))
	defer midiContext.Close()
	if err := midiContext.TryToOpenBy(*input, *first); err != nil {
		log.Fatalf("could not open MIDI input: %v", err)
	}
	audioContext, err := oto.NewContext(*rate)
	if err != nil {
		log.Fatalf("could not acquire oto AudioContext: %v", err)
	}
	defer audioContext.Close()
	player := audioContext.Stream(synth, midiContext)
	defer player.Close()
	log.Printf("playing with %s at %d Hz, press Ctrl+C to stop", synther.Name(), *rate)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}

func loadPatch(synth fmsynth.Synth, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open patch: %w", err)
	}
	defer f.Close()
	score, err := fmsynth.ReadScore(f)
	if err != nil {
		return fmt.Errorf("could not read %v: %w", filename, err)
	}
	values, err := score.PatchValues()
	if err != nil {
		return fmt.Errorf("invalid patch in %v: %w", filename, err)
	}
	for _, v := range values {
		synth.SetPatchValue(v.Index, v.Value)
	}
	if score.BPM > 0 {
		synth.SetBPM(score.BPM)
	}
	return nil
}
