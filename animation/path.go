package animation

import (
	"iter"
	"time"

	"dns-ledger-sim/models"
)

// Sample is one interpolated point of a token animation.
type Sample struct {
	Position models.Point
	Opacity  float64
	Progress float64
	Done     bool
}

// Path is a straight-line token flight with a fade-out tail.
type Path struct {
	Origin      models.Point
	Destination models.Point
	Duration    time.Duration
	// FadeStart is the progress fraction at which opacity starts to decay.
	FadeStart float64
}

// At returns the sample for the given elapsed time.
func (p Path) At(elapsed time.Duration) Sample {
	progress := 1.0
	if p.Duration > 0 {
		progress = clamp(float64(elapsed) / float64(p.Duration))
	}
	return Sample{
		Position: models.Point{
			X: p.Origin.X + progress*(p.Destination.X-p.Origin.X),
			Y: p.Origin.Y + progress*(p.Destination.Y-p.Origin.Y),
		},
		Opacity:  p.opacity(progress),
		Progress: progress,
		Done:     progress >= 1,
	}
}

func (p Path) opacity(progress float64) float64 {
	fadeStart := clamp(p.FadeStart)
	if fadeStart >= 1 {
		if progress >= 1 {
			return 0
		}
		return 1
	}
	fade := (progress - fadeStart) / (1 - fadeStart)
	if fade < 0 {
		fade = 0
	}
	return 1 - clamp(fade)
}

// Sequence lazily maps elapsed-time ticks to samples and stops after the
// first terminal sample. A non-positive Duration yields exactly one terminal
// sample without consuming ticks.
func (p Path) Sequence(ticks iter.Seq[time.Duration]) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		if p.Duration <= 0 {
			yield(p.At(0))
			return
		}
		for elapsed := range ticks {
			s := p.At(elapsed)
			if !yield(s) || s.Done {
				return
			}
		}
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
