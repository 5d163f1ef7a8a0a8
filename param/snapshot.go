package param

// Snapshot is the state of a Processing at one sample. The renderer takes one
// per sample of a pass so that per-voice work does not depend on how many
// samples are processed together.
type Snapshot struct {
	Value [Count]float64
	Patch [Count]float32 // interpolated patch values
}

// ValueWithAddition returns the value of parameter i modulated by an LFO
// addition. Volumes are multiplied by 2^addition; everything else adds the
// addition to the patch value before mapping.
func (s *Snapshot) ValueWithAddition(i uint8, addition float64) float64 {
	return modulate(i, s.Value[i], s.Patch[i], addition)
}

func modulate(i uint8, value float64, patch float32, addition float64) float64 {
	if addition == 0 {
		return value
	}
	if Table[i].Kind == KindVolume {
		return value * Pow2(addition)
	}
	return Table[i].Map(patch + float32(addition))
}
