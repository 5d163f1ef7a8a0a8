package param

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// FormatValue renders patch value v of parameter i for display, e.g.
// "-3.01 dB" or "1.25π". Unknown indices format as "".
func FormatValue(i uint8, v float32) string {
	if int(i) >= Count {
		return ""
	}
	p := &Table[i]
	a := float32(p.Map(v))
	switch p.Kind {
	case KindVolume:
		if a <= 0 {
			return "-inf dB"
		}
		return fmt.Sprintf("%.2f dB", 20*math32.Log10(a))
	case KindActive:
		if a > 0 {
			return "On"
		}
		return "Off"
	case KindLinear:
		return fmt.Sprintf("%.1f%%", a*100)
	case KindPanning:
		pan := int(math32.Round((a - 0.5) * 200))
		switch {
		case pan < 0:
			return fmt.Sprintf("L%d", -pan)
		case pan > 0:
			return fmt.Sprintf("R%d", pan)
		}
		return "C"
	case KindModIndex:
		return fmt.Sprintf("%.2fπ", a/math32.Pi)
	case KindFrequencyFree:
		return fmt.Sprintf("%.3f", a)
	case KindFrequencyFine:
		return fmt.Sprintf("%+.1f cents", 1200*math32.Log2(a))
	case KindDuration, KindGlideTime:
		// anything that would round to 1000.0 ms is shown in seconds
		if a < 0.9995 {
			return fmt.Sprintf("%.1f ms", a*1000)
		}
		return fmt.Sprintf("%.2f s", a)
	case KindLFOFrequency:
		return fmt.Sprintf("%.3f Hz", a)
	case KindAmount:
		return fmt.Sprintf("%.2f", a)
	case KindSteps:
		return p.Steps[StepIndex(v, len(p.Steps))].Label
	}
	return fmt.Sprintf("%.3f", a)
}

// ParseValue parses text in the format produced by FormatValue (units are
// optional and case-insensitive) and returns the patch value. ok is false if
// the text could not be parsed.
func ParseValue(i uint8, text string) (v float32, ok bool) {
	if int(i) >= Count {
		return 0, false
	}
	p := &Table[i]
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}
	var a float32
	switch p.Kind {
	case KindVolume:
		s = trimUnit(s, "db")
		if s == "-inf" {
			return 0, true
		}
		db, ok := parseFloat(s)
		if !ok {
			return 0, false
		}
		a = math32.Pow(10, db/20)
	case KindActive:
		switch s {
		case "on", "1", "true", "yes":
			return 1, true
		case "off", "0", "false", "no":
			return 0, true
		}
		return 0, false
	case KindLinear:
		pct, ok := parseFloat(trimUnit(s, "%"))
		if !ok {
			return 0, false
		}
		a = pct / 100
	case KindPanning:
		switch {
		case s == "c" || s == "center":
			a = 0.5
		case s[0] == 'l' || s[0] == 'r':
			amount, ok := parseFloat(s[1:])
			if !ok {
				return 0, false
			}
			if s[0] == 'l' {
				amount = -amount
			}
			a = 0.5 + amount/200
		default:
			return 0, false
		}
	case KindModIndex:
		s = trimUnit(trimUnit(s, "π"), "pi")
		m, ok := parseFloat(s)
		if !ok {
			return 0, false
		}
		a = m * math32.Pi
	case KindFrequencyFree:
		f, ok := parseFloat(strings.TrimLeft(s, "x×"))
		if !ok || f <= 0 {
			return 0, false
		}
		a = f
	case KindFrequencyFine:
		c, ok := parseFloat(trimUnit(trimUnit(s, "cents"), "c"))
		if !ok {
			return 0, false
		}
		a = math32.Exp2(c / 1200)
	case KindDuration, KindGlideTime:
		scale := float32(1)
		if strings.HasSuffix(s, "ms") {
			s, scale = trimUnit(s, "ms"), 0.001
		} else {
			s = trimUnit(s, "s")
		}
		d, ok := parseFloat(s)
		if !ok {
			return 0, false
		}
		a = d * scale
	case KindLFOFrequency:
		f, ok := parseFloat(trimUnit(s, "hz"))
		if !ok || f <= 0 {
			return 0, false
		}
		a = f
	case KindAmount:
		f, ok := parseFloat(s)
		if !ok {
			return 0, false
		}
		a = f
	case KindSteps:
		return parseStep(p, s)
	}
	return p.Unmap(float64(a)), true
}

func parseStep(p *Parameter, s string) (float32, bool) {
	for k, step := range p.Steps {
		if strings.EqualFold(step.Label, s) {
			return StepPatch(k, len(p.Steps)), true
		}
	}
	f, ok := parseFloat(s)
	if !ok {
		num, den, found := strings.Cut(s, "/")
		if !found {
			return 0, false
		}
		n, ok1 := parseFloat(num)
		d, ok2 := parseFloat(den)
		if !ok1 || !ok2 || d == 0 {
			return 0, false
		}
		f = n / d
	}
	for k, step := range p.Steps {
		if math32.Abs(float32(step.Value)-f) < 1e-4 {
			return StepPatch(k, len(p.Steps)), true
		}
	}
	return 0, false
}

func trimUnit(s, unit string) string {
	return strings.TrimSpace(strings.TrimSuffix(s, unit))
}

func parseFloat(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil || math32.IsNaN(float32(f)) {
		return 0, false
	}
	return float32(f), true
}
