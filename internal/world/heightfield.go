// Scalar field synthesis for elevation, temperature and humidity.
// Two algorithms: midpoint displacement (diamond-square) and layered simplex noise.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a size x size scalar grid normalized to [0, 1].
type Field struct {
	Size   int
	Values []float64 // Row-major: index = y*Size + x
}

// At returns the value at (x, y).
func (f Field) At(x, y int) float64 {
	return f.Values[y*f.Size+x]
}

// Algorithm selects how a field is synthesised.
type Algorithm string

const (
	AlgorithmDiamondSquare Algorithm = "diamond-square"
	AlgorithmSimplex       Algorithm = "simplex"
)

// DiamondSquare builds a self-similar field by recursive midpoint
// displacement. roughness scales the displacement at each halving (0.5 is
// classic fractal terrain). The work grid is the smallest 2^n+1 square
// covering size and is cropped afterwards.
func DiamondSquare(size int, roughness float64, rng *rand.Rand) Field {
	n := 1
	for n+1 < size {
		n *= 2
	}
	dim := n + 1
	g := make([][]float64, dim)
	for i := range g {
		g[i] = make([]float64, dim)
	}

	g[0][0] = rng.Float64()
	g[0][n] = rng.Float64()
	g[n][0] = rng.Float64()
	g[n][n] = rng.Float64()

	scale := 1.0
	for step := n; step > 1; step /= 2 {
		half := step / 2

		// Diamond step: centre of each square.
		for y := half; y < dim; y += step {
			for x := half; x < dim; x += step {
				avg := (g[y-half][x-half] + g[y-half][x+half] +
					g[y+half][x-half] + g[y+half][x+half]) / 4
				g[y][x] = avg + (rng.Float64()*2-1)*scale
			}
		}

		// Square step: edge midpoints, averaging whichever of the four
		// diamond corners fall on the grid.
		for y := 0; y < dim; y += half {
			x0 := 0
			if (y/half)%2 == 0 {
				x0 = half
			}
			for x := x0; x < dim; x += step {
				sum, cnt := 0.0, 0
				if y-half >= 0 {
					sum += g[y-half][x]
					cnt++
				}
				if y+half < dim {
					sum += g[y+half][x]
					cnt++
				}
				if x-half >= 0 {
					sum += g[y][x-half]
					cnt++
				}
				if x+half < dim {
					sum += g[y][x+half]
					cnt++
				}
				g[y][x] = sum/float64(cnt) + (rng.Float64()*2-1)*scale
			}
		}

		scale *= roughness
	}

	f := Field{Size: size, Values: make([]float64, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Values[y*size+x] = g[y][x]
		}
	}
	normalize(f.Values)
	return f
}

// SimplexField samples multi-octave OpenSimplex noise over the grid.
func SimplexField(size int, seed int64) Field {
	noise := opensimplex.NewNormalized(seed)
	f := Field{Size: size, Values: make([]float64, size*size)}
	// Frequency tuned so a 64-tile map shows a few continents.
	frequency := 4.0 / float64(maxInt(size, 1))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Values[y*size+x] = octaveNoise(noise, float64(x), float64(y), 4, frequency, 0.5)
		}
	}
	normalize(f.Values)
	return f
}

// ApplyEdgeFalloff lowers values toward the grid border so land gathers in
// the middle and the map is ringed by sea, then renormalizes.
func ApplyEdgeFalloff(f Field) {
	if f.Size < 2 {
		return
	}
	c := float64(f.Size-1) / 2
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			dx := (float64(x) - c) / c
			dy := (float64(y) - c) / c
			d := math.Sqrt(dx*dx + dy*dy)
			falloff := 1.0 - math.Pow(d, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			f.Values[y*f.Size+x] *= falloff
		}
	}
	normalize(f.Values)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// normalize rescales values in place to [0, 1]. A flat field becomes 0.
func normalize(values []float64) {
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			values[i] = 0
			continue
		}
		values[i] = (v - lo) / span
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
