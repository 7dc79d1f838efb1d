package bot

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/pixil98/dino-arena/internal/physics"
)

const (
	IdlePower   = 50.0
	MinPower    = 60.0
	MaxPower    = 100.0
	AngleJitter = 0.35 // max aim error either side, radians
)

// Policy picks a push for a bot from the current positions of every dino.
// It keeps no state between calls besides its random source.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy returns a Policy drawing from rng. A nil rng is seeded from the clock.
func NewPolicy(rng *rand.Rand) *Policy {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Policy{rng: rng}
}

// Decide aims the bot at its nearest living opponent with a little jitter. A dead
// bot, or one with nobody left to push, picks a random direction at idle power.
func (p *Policy) Decide(botID string, dinos []physics.DinoState) physics.Input {
	self, ok := find(botID, dinos)
	if !ok || !self.Alive {
		return p.wander()
	}

	target, ok := nearest(self, dinos)
	if !ok {
		return p.wander()
	}

	d := target.Position.Sub(self.Position)
	jitter := (p.rng.Float64()*2 - 1) * AngleJitter
	return physics.Input{
		Angle: math.Atan2(d.Y, d.X) + jitter,
		Power: MinPower + p.rng.Float64()*(MaxPower-MinPower),
	}
}

func (p *Policy) wander() physics.Input {
	return physics.Input{
		Angle: p.rng.Float64() * 2 * math.Pi,
		Power: IdlePower,
	}
}

func find(id string, dinos []physics.DinoState) (physics.DinoState, bool) {
	for _, d := range dinos {
		if d.ID == id {
			return d, true
		}
	}
	return physics.DinoState{}, false
}

// nearest returns the closest living dino other than self. The first one seen wins ties.
func nearest(self physics.DinoState, dinos []physics.DinoState) (physics.DinoState, bool) {
	var best physics.DinoState
	bestDist := math.Inf(1)
	found := false

	for _, other := range dinos {
		if other.ID == self.ID || !other.Alive {
			continue
		}
		dist := self.Position.Dist(other.Position)
		if dist < bestDist {
			bestDist = dist
			best = other
			found = true
		}
	}
	return best, found
}
