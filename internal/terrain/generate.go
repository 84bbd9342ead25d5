package terrain

import (
	"math"
	"math/rand/v2"
)

// GenParams shapes a generated hill line.
type GenParams struct {
	Base     float64 // mean surface row
	Variance float64 // max deviation from Base, in rows
	Octaves  int     // number of summed sine layers
}

// Generate fills a field with rolling hills. All randomness comes from rng,
// so one seed always yields the same ground.
func Generate(width, height int, rng *rand.Rand, p GenParams) (*Field, error) {
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}

	type layer struct{ freq, phase, amp float64 }
	layers := make([]layer, octaves)
	total := 0.0
	for i := range layers {
		amp := 1 / float64(int(1)<<i)
		layers[i] = layer{
			freq:  (1 + rng.Float64()) * float64(int(1)<<i) * 2 * math.Pi / float64(width),
			phase: rng.Float64() * 2 * math.Pi,
			amp:   amp,
		}
		total += amp
	}

	for c := 0; c < width; c++ {
		v := 0.0
		for _, l := range layers {
			v += l.amp * math.Sin(float64(c)*l.freq+l.phase)
		}
		surface := int(math.Round(p.Base + p.Variance*v/total))
		if surface > height {
			surface = height
		}
		base := c * height
		for r := 0; r < surface; r++ {
			f.samples[base+r] = sampleSolid
		}
	}
	f.rebuild()
	return f, nil
}
