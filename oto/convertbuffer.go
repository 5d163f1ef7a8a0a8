package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/fmsynth"
)

// FloatBufferTo32BitLE appends the interleaved samples of buffer to dst as
// little-endian float32 and returns the extended slice. Reusing dst avoids
// allocating once its capacity is large enough.
func FloatBufferTo32BitLE(buffer fmsynth.AudioBuffer, dst []byte) []byte {
	for _, f := range buffer {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f[0]))
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f[1]))
	}
	return dst
}
