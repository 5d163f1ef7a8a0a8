package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/cmd"
	"github.com/vsariola/fmsynth/oto"
	"github.com/vsariola/fmsynth/version"
)

func main() {
	help := flag.Bool("h", false, "Show help.")
	directory := flag.String("o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, files are written to the working directory.")
	play := flag.Bool("p", false, "Play the input scores (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered score as .raw file. By default, saves stereo float32 buffer to disk.")
	wavOut := flag.Bool("w", false, "Output the rendered score as .wav file. By default, saves stereo float32 buffer to disk.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	backend := flag.String("backend", "auto", "SIMD backend: auto, fallback, sse2 or avx.")
	quiet := flag.Bool("q", false, "Do not print levels.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash())
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*wavOut {
		*play = true // if the user gives nothing to output, then the default behaviour is just to play the file
	}
	synther, err := cmd.SyntherByBackend(*backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	verbose := !*quiet && term.IsTerminal(int(os.Stdout.Fd()))
	var audioContext *oto.OtoContext
	process := func(filename string) error {
		score, err := readScore(filename)
		if err != nil {
			return err
		}
		if *play && audioContext == nil {
			audioContext, err = oto.NewContext(int(score.SampleRate))
			if err != nil {
				return fmt.Errorf("could not acquire oto AudioContext: %w", err)
			}
		}
		synth, err := synther.Synth(score.SampleRate)
		if err != nil {
			return fmt.Errorf("could not create synth: %w", err)
		}
		buffer, err := fmsynth.Play(synth, score)
		if err != nil {
			return fmt.Errorf("fmsynth.Play failed: %w", err)
		}
		if verbose {
			peak, rms := buffer.Levels()
			fmt.Printf("%v: %d frames with %s, peak %.2f dBFS, rms %.2f dBFS\n", filename, len(buffer), synther.Name(), dB(peak), dB(rms))
		}
		out := outputPath(filename, *directory)
		if *rawOut {
			raw, err := buffer.Raw(*pcm)
			if err != nil {
				return fmt.Errorf("could not generate .raw file: %w", err)
			}
			if err := writeFile(out(".raw"), raw); err != nil {
				return err
			}
		}
		if *wavOut {
			if err := writeWav(out(".wav"), buffer, int(score.SampleRate), *pcm); err != nil {
				return err
			}
		}
		if *play {
			if err := checkDeviceRate(audioContext.SampleRate(), score.SampleRate); err != nil {
				return err
			}
			sink := audioContext.Output()
			if err := sink.WriteAudio(buffer); err != nil {
				sink.Close()
				return fmt.Errorf("could not play: %w", err)
			}
			if err := sink.Close(); err != nil {
				return fmt.Errorf("could not play: %w", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		files := []string{param}
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err = filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
		}
		for _, file := range files {
			if err := process(file); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	if audioContext != nil {
		audioContext.Close()
	}
	os.Exit(retval)
}

// checkDeviceRate rejects scores whose rate differs from the open device.
// oto allows one context per process, so the device keeps the rate of the
// first score played.
func checkDeviceRate(deviceRate int, scoreRate float64) error {
	if rate := int(scoreRate); rate != deviceRate {
		return fmt.Errorf("cannot play at %d Hz, the audio device is open at %d Hz", rate, deviceRate)
	}
	return nil
}

func readScore(filename string) (fmsynth.Score, error) {
	f, err := os.Open(filename)
	if err != nil {
		return fmsynth.Score{}, fmt.Errorf("could not read file %v: %w", filename, err)
	}
	defer f.Close()
	score, err := fmsynth.ReadScore(f)
	if err != nil {
		return fmsynth.Score{}, err
	}
	if score.SampleRate == 0 {
		score.SampleRate = fmsynth.DefaultSampleRate
	}
	return score, nil
}

func outputPath(filename, dir string) func(extension string) string {
	_, name := filepath.Split(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return func(extension string) string {
		return filepath.Join(dir, name+extension)
	}
}

func writeFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

func writeWav(path string, buffer fmsynth.AudioBuffer, sampleRate int, pcm16 bool) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	if err := buffer.Wav(f, sampleRate, pcm16); err != nil {
		f.Close()
		return fmt.Errorf("could not write %v: %w", path, err)
	}
	return f.Close()
}

func dB(v float32) float64 {
	return 20 * math.Log10(float64(v))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "fmsynth command line utility for rendering .yml score files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
