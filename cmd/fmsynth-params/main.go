package main

import (
	"flag"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/fmsynth"
	"github.com/vsariola/fmsynth/param"
	"github.com/vsariola/fmsynth/version"
)

type paramInfo struct {
	Index        int
	Name         string
	Title        string
	Default      string
	Interpolated bool
	Choices      []string
}

const textTemplate = `{{- range . -}}
{{ printf "%3d" .Index }}  {{ printf "%-24s" .Name }} {{ printf "%-28s" .Title }} {{ .Default }}{{ if .Interpolated }} (smoothed){{ end }}
{{ if .Choices }}     {{ .Choices | join ", " | wrapWith 90 "\n     " }}
{{ end }}{{ end -}}`

const markdownTemplate = `| # | name | title | default | choices |
|---|---|---|---|---|
{{ range . -}}
| {{ .Index }} | ` + "`{{ .Name }}`" + ` | {{ .Title }} | {{ .Default }} | {{ .Choices | join ", " | default "-" }} |
{{ end -}}`

func main() {
	format := flag.String("f", "text", "Output format: text, markdown or score (a YAML score with the default patch).")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Lists the parameters of fmsynth.\nUsage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash())
		os.Exit(0)
	}
	var err error
	switch *format {
	case "text":
		err = list(textTemplate)
	case "markdown", "md":
		err = list(markdownTemplate)
	case "score":
		err = defaultScore()
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func infos() []paramInfo {
	ret := make([]paramInfo, param.Count)
	for i := range param.Table {
		p := &param.Table[i]
		ret[i] = paramInfo{
			Index:        i,
			Name:         p.Name,
			Title:        p.Title,
			Default:      param.FormatValue(uint8(i), p.Default),
			Interpolated: p.Kind.Interpolated(),
		}
		for _, s := range p.Steps {
			ret[i].Choices = append(ret[i].Choices, s.Label)
		}
	}
	return ret
}

func list(text string) error {
	t, err := template.New("params").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}
	if err := t.Execute(os.Stdout, infos()); err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}
	return nil
}

func defaultScore() error {
	score := fmsynth.Score{
		SampleRate: fmsynth.DefaultSampleRate,
		BPM:        fmsynth.DefaultBPM,
		Length:     fmsynth.DefaultSampleRate,
		Patch:      map[string]string{},
		Events: []fmsynth.NoteEvent{
			{Frame: 0, Kind: fmsynth.NoteOn, Key: 69, Velocity: 100},
			{Frame: fmsynth.DefaultSampleRate / 2, Kind: fmsynth.NoteOff, Key: 69},
		},
	}
	for _, p := range infos() {
		score.Patch[p.Name] = p.Default
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(score); err != nil {
		return fmt.Errorf("could not encode score: %w", err)
	}
	return enc.Close()
}
