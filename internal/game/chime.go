package game

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const chimeSampleRate = beep.SampleRate(44100)

// tone is a beep.Streamer producing a short sine burst with an exponential
// decay envelope, so the app needs no audio assets for its feedback sounds.
type tone struct {
	freq  float64
	pos   int
	total int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{freq: freq, total: chimeSampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		env := math.Exp(-6 * float64(t.pos) / float64(t.total))
		v := 0.2 * env * math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(chimeSampleRate))
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error { return nil }

func initSpeaker() error {
	return speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10))
}

// playChime plays a high blip for success, a low one for failure. No-op
// when the speaker failed to initialize.
func (g *Game) playChime(ok bool) {
	if g.muted {
		return
	}
	freq := 880.0
	if !ok {
		freq = 220.0
	}
	speaker.Play(newTone(freq, 300*time.Millisecond))
}
