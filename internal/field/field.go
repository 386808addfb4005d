// Package field implements the ambient particle-field animation drawn behind
// the summarizer UI: slow drifting particles on a wrapping surface, with
// nearby pairs linked by fading line segments (the constellation effect).
package field

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// LinkDistance is the proximity threshold in pixels below which two
	// particles are drawn connected.
	LinkDistance = 140.0

	linkMaxAlpha    = 0.25
	linkStrokeWidth = 0.5

	maxAxisSpeed = 0.3
	minRadius    = 1.5
	maxRadius    = 3.5
	minOpacity   = 0.2
	maxOpacity   = 0.8
)

// palette holds the two particle colors. palette[0] also strokes every link,
// regardless of the colors of the particles it connects.
var palette = [2]color.NRGBA{
	{R: 0x25, G: 0xD3, B: 0x66, A: 0xFF},
	{R: 0x12, G: 0x8C, B: 0x7E, A: 0xFF},
}

// Particle is a single dot in the field. Velocity, radius, opacity and color
// are fixed at creation; only the position changes.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Opacity float64
	Color   uint8 // palette index
}

// Field owns a fixed-count set of particles and the surface dimensions they
// wrap around in. Nothing else reads or mutates the particles.
type Field struct {
	Width, Height float64
	Particles     []Particle
}

// New samples count particles uniformly over the surface. The random source
// is injected so tests can seed it.
func New(width, height float64, count int, rng *rand.Rand) *Field {
	f := &Field{
		Width:     width,
		Height:    height,
		Particles: make([]Particle, count),
	}
	for i := range f.Particles {
		p := &f.Particles[i]
		p.X = rng.Float64() * width
		p.Y = rng.Float64() * height
		p.VX = (rng.Float64()*2 - 1) * maxAxisSpeed
		p.VY = (rng.Float64()*2 - 1) * maxAxisSpeed
		p.Radius = minRadius + rng.Float64()*(maxRadius-minRadius)
		p.Opacity = minOpacity + rng.Float64()*(maxOpacity-minOpacity)
		p.Color = uint8(rng.Intn(2))
	}
	return f
}

// Advance moves every particle one step and wraps each axis independently,
// keeping positions in [0, Width) x [0, Height). Euler step, one tick.
func (f *Field) Advance() {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.X = wrap(p.X+p.VX, f.Width)
		p.Y = wrap(p.Y+p.VY, f.Height)
	}
}

// wrap maps v into [0, max) in a single step, so particles stranded far
// outside by a shrink re-enter on the next tick.
func wrap(v, max float64) float64 {
	v = math.Mod(v, max)
	if v < 0 {
		v += max
	}
	return v
}

// Resize records new surface dimensions. Existing particles are left where
// they are; the next Advance wraps them against the new bounds.
func (f *Field) Resize(width, height float64) {
	f.Width = width
	f.Height = height
}

// links visits every unordered particle pair closer than LinkDistance exactly
// once, with the link's alpha fading linearly from linkMaxAlpha at distance
// zero to nothing at the threshold.
func (f *Field) links(visit func(a, b *Particle, alpha float64)) {
	for i := 0; i < len(f.Particles); i++ {
		for j := i + 1; j < len(f.Particles); j++ {
			a, b := &f.Particles[i], &f.Particles[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < LinkDistance {
				visit(a, b, (1-dist/LinkDistance)*linkMaxAlpha)
			}
		}
	}
}

// Draw renders the proximity links and then the particles. The caller clears
// the frame; nothing here accumulates across ticks.
func (f *Field) Draw(dst *ebiten.Image) {
	f.links(func(a, b *Particle, alpha float64) {
		vector.StrokeLine(dst,
			float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
			linkStrokeWidth, withAlpha(palette[0], alpha), false)
	})
	for i := range f.Particles {
		p := &f.Particles[i]
		vector.DrawFilledCircle(dst,
			float32(p.X), float32(p.Y), float32(p.Radius),
			withAlpha(palette[p.Color], p.Opacity), false)
	}
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(alpha * 255)
	return c
}
