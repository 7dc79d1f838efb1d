package room

import "github.com/pixil98/dino-arena/internal/physics"

// State is the phase a room is in.
type State string

const (
	StateLobby            State = "lobby"
	StateCollectingInputs State = "input"
	StateSimulating       State = "simulation"
	StateGameOver         State = "gameover"
)

type participant struct {
	id    string
	name  string
	color int
	host  bool
	bot   bool
	ready bool
	alive bool
	input *physics.Input
}

func (p *participant) info() ParticipantInfo {
	return ParticipantInfo{
		ID:        p.id,
		Name:      p.name,
		Color:     p.color,
		Host:      p.host,
		Bot:       p.bot,
		Ready:     p.ready,
		Alive:     p.alive,
		Submitted: p.input != nil,
	}
}
