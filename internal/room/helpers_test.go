package room

import (
	"math"

	"github.com/pixil98/dino-arena/internal/driver/drivertest"
	"github.com/pixil98/dino-arena/internal/physics"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Publish(_ *Room, ev Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) count(kind EventKind) int {
	n := 0
	for _, ev := range s.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func (s *recordingSink) last(kind EventKind) Event {
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Kind() == kind {
			return s.events[i]
		}
	}
	return nil
}

func (s *recordingSink) reset() {
	s.events = nil
}

// fixedPolicy gives each bot a preset push, and a zero push to any bot not listed.
type fixedPolicy map[string]physics.Input

func (p fixedPolicy) Decide(botID string, _ []physics.DinoState) physics.Input {
	return p[botID]
}

// outward is the angle pointing from the platform center through seat i of n.
func outward(i, n int) float64 {
	return 2*math.Pi*float64(i)/float64(n) - math.Pi/2
}

type harness struct {
	room  *Room
	sched *drivertest.Scheduler
	sink  *recordingSink
}

func newHarness(policy BotPolicy) *harness {
	h := &harness{
		sched: drivertest.NewScheduler(),
		sink:  &recordingSink{},
	}
	var opts []RoomOpt
	if policy != nil {
		opts = append(opts, WithBotPolicy(policy))
	}
	h.room = New("ABCD", h.sink, h.sched, opts...)
	return h
}

// seat adds humans with the given ids, the first of which becomes host.
func (h *harness) seat(ids ...string) {
	for _, id := range ids {
		if err := h.room.AddParticipant(id, "name-"+id); err != nil {
			panic(err)
		}
	}
}
