// Package typewriter computes the rotating role text under the hero banner.
//
// Each role is typed one rune at a time, held, deleted one rune at a time,
// and then the next role starts. Frame is a pure function of elapsed time;
// Stream samples it on a ticker for server-sent events.
package typewriter

import (
	"context"
	"time"
)

// Phase is what the cursor is doing.
type Phase string

const (
	Typing   Phase = "typing"
	Holding  Phase = "holding"
	Deleting Phase = "deleting"
)

// Config controls the rotation speed. Loop is the number of full passes
// over the roles; zero loops forever.
type Config struct {
	TypeSpeed   time.Duration
	DeleteSpeed time.Duration
	Delay       time.Duration
	Loop        int
}

// DefaultConfig is the hero banner's pacing.
func DefaultConfig() Config {
	return Config{
		TypeSpeed:   30 * time.Millisecond,
		DeleteSpeed: 20 * time.Millisecond,
		Delay:       900 * time.Millisecond,
	}
}

// Frame is the visible state at one instant.
type Frame struct {
	Text  string `json:"text"`
	Role  int    `json:"role"`
	Phase Phase  `json:"phase"`
	Done  bool   `json:"done"`
}

func (c Config) roleDuration(n int) time.Duration {
	return time.Duration(n)*c.TypeSpeed + c.Delay + time.Duration(n)*c.DeleteSpeed
}

// At returns the frame for roles after elapsed time.
func (c Config) At(roles []string, elapsed time.Duration) Frame {
	if len(roles) == 0 {
		return Frame{Done: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}

	runes := make([][]rune, len(roles))
	var cycle time.Duration
	for i, r := range roles {
		runes[i] = []rune(r)
		cycle += c.roleDuration(len(runes[i]))
	}

	if c.Loop > 0 {
		last := runes[len(runes)-1]
		end := time.Duration(c.Loop)*cycle - c.Delay - time.Duration(len(last))*c.DeleteSpeed
		if elapsed >= end {
			return Frame{Text: string(last), Role: len(roles) - 1, Phase: Holding, Done: true}
		}
	}
	if cycle <= 0 {
		return Frame{Role: 0, Phase: Holding}
	}

	t := elapsed % cycle
	for i, r := range runes {
		n := len(r)
		typing := time.Duration(n) * c.TypeSpeed
		if t < typing {
			return Frame{Text: string(r[:int(t/c.TypeSpeed)+1]), Role: i, Phase: Typing}
		}
		t -= typing
		if t < c.Delay {
			return Frame{Text: string(r), Role: i, Phase: Holding}
		}
		t -= c.Delay
		deleting := time.Duration(n) * c.DeleteSpeed
		if t < deleting {
			return Frame{Text: string(r[:n-int(t/c.DeleteSpeed)-1]), Role: i, Phase: Deleting}
		}
		t -= deleting
	}
	// Unreachable while t < cycle.
	return Frame{Role: 0, Phase: Typing}
}

// Stream emits a frame every time the visible state changes, sampling every
// tick. The channel is closed when ctx ends or the rotation is done.
func Stream(ctx context.Context, roles []string, cfg Config, tick time.Duration) <-chan Frame {
	out := make(chan Frame)
	go func() {
		defer close(out)

		start := time.Now()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		var last Frame
		first := true
		for {
			f := cfg.At(roles, time.Since(start))
			if first || f != last {
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
				first = false
				last = f
			}
			if f.Done {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
