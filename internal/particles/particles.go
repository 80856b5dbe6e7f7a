// Package particles lays out the decorative dots on the page: hero twinkles,
// project-card bubbles, skill-bar fill delays and the floating icon row.
//
// Every value is derived from a seeded generator keyed by the element's
// indices, so a card renders the same layout on every request and in every
// process.
package particles

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	// HeroTwinkleCount is the number of twinkles behind the hero banner.
	HeroTwinkleCount = 50
	// ProjectBubbleCount is the number of bubbles on each project card.
	ProjectBubbleCount = 20

	maxFillDelay = time.Second
)

// group keeps the streams of different decorations apart.
type group uint64

const (
	groupBubble group = iota + 1
	groupTwinkle
	groupFill
)

// Rand is a deterministic generator for one decorative element.
type Rand struct {
	r *rand.Rand
}

// newRand seeds a generator from an element's indices.
func newRand(g group, a, b int) *Rand {
	hi := uint64(g)<<48 ^ uint64(uint32(a))
	lo := uint64(uint32(b))<<1 | 1
	return &Rand{r: rand.New(rand.NewPCG(hi, lo))}
}

// Float returns a value in [0,1).
func (r *Rand) Float() float64 {
	return r.r.Float64()
}

// Range returns a value in [lo,hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Float()*(hi-lo)
}

// Bubble is one dot on a project card. Left and Top are percentages of the
// card header; Drift applies only while the card is hovered.
type Bubble struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	DriftX float64 `json:"drift_x"`
	DriftY float64 `json:"drift_y"`
}

// Twinkle is one dot behind the hero banner.
type Twinkle struct {
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Size     float64 `json:"size"`
	Hue      float64 `json:"hue"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// BubbleAt returns bubble index of card.
func BubbleAt(card, index int) Bubble {
	r := newRand(groupBubble, card, index)
	return Bubble{
		Left:   r.Range(0, 100),
		Top:    r.Range(0, 100),
		Width:  r.Range(2, 8),
		Height: r.Range(2, 8),
		DriftX: r.Range(-10, 10),
		DriftY: r.Range(-10, 10),
	}
}

// Bubbles returns the first n bubbles of card.
func Bubbles(card, n int) []Bubble {
	if n <= 0 {
		return nil
	}
	out := make([]Bubble, n)
	for i := range out {
		out[i] = BubbleAt(card, i)
	}
	return out
}

// TwinkleAt returns hero twinkle index.
func TwinkleAt(index int) Twinkle {
	r := newRand(groupTwinkle, 0, index)
	return Twinkle{
		Left:     r.Range(0, 100),
		Top:      r.Range(0, 100),
		Size:     r.Range(2, 8),
		Hue:      r.Range(195, 258),
		Delay:    r.Range(0, 3),
		Duration: r.Range(3, 5),
	}
}

// Twinkles returns the first n hero twinkles.
func Twinkles(n int) []Twinkle {
	if n <= 0 {
		return nil
	}
	out := make([]Twinkle, n)
	for i := range out {
		out[i] = TwinkleAt(i)
	}
	return out
}

// FillDelay is how long after the skills section is revealed the bar for
// skill in category starts filling. Always in [0,1s).
func FillDelay(category, skill int) time.Duration {
	r := newRand(groupFill, category, skill)
	return time.Duration(r.Float() * float64(maxFillDelay)).Truncate(time.Millisecond)
}

// FloatOffset is the vertical offset in px of floating icon index.
func FloatOffset(index int) float64 {
	return math.Sin(float64(index)*0.5) * 8
}
