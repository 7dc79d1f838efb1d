package protocol

import (
	"fmt"

	"github.com/pixil98/dino-arena/internal/room"
)

// FromEvent translates a room event into the envelope sent to clients.
func FromEvent(ev room.Event) (Envelope, error) {
	switch e := ev.(type) {
	case room.RoomUpdated:
		return NewEnvelope(MsgRoomUpdate, FromSnapshot(e.Snapshot))
	case room.RoundStarted:
		return NewEnvelope(MsgRoundStart, RoundStart{Round: e.Round, Dinos: fromDinos(e.Dinos)})
	case room.SimulationFrame:
		return NewEnvelope(MsgSimulationFrame, SimulationFrame{Dinos: fromDinos(e.Dinos), Timestamp: e.ElapsedMs})
	case room.RoundEnded:
		return NewEnvelope(MsgRoundEnd, RoundEnd{Round: e.Round, Eliminated: e.Eliminated, Remaining: e.Remaining})
	case room.GameEnded:
		return NewEnvelope(MsgGameOver, GameOver{WinnerID: e.WinnerID, WinnerName: e.WinnerName})
	case room.InputReceived:
		return NewEnvelope(MsgInputReceived, InputReceived{PlayerID: e.ParticipantID})
	default:
		return Envelope{}, fmt.Errorf("unknown event %T", ev)
	}
}

func FromSnapshot(s room.Snapshot) RoomUpdate {
	u := RoomUpdate{
		Code:    s.Code,
		HostID:  s.HostID,
		State:   string(s.State),
		Round:   s.Round,
		Players: make([]PlayerInfo, 0, len(s.Participants)),
	}
	for _, p := range s.Participants {
		u.Players = append(u.Players, PlayerInfo{
			ID:         p.ID,
			Name:       p.Name,
			ColorIndex: p.Color,
			Ready:      p.Ready,
			Host:       p.Host,
			Bot:        p.Bot,
			Alive:      p.Alive,
			Submitted:  p.Submitted,
		})
	}
	return u
}

func fromDinos(dinos []room.Dino) []Dino {
	out := make([]Dino, 0, len(dinos))
	for _, d := range dinos {
		out = append(out, Dino{
			ID:         d.ID,
			PlayerID:   d.ID,
			PlayerName: d.Name,
			ColorIndex: d.Color,
			Position:   Vec2{X: d.Position.X, Y: d.Position.Y},
			Velocity:   Vec2{X: d.Velocity.X, Y: d.Velocity.Y},
			Alive:      d.Alive,
		})
	}
	return out
}
