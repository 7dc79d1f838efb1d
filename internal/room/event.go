package room

import "github.com/pixil98/dino-arena/internal/physics"

type EventKind string

const (
	EventRoomUpdated     EventKind = "room-update"
	EventRoundStarted    EventKind = "round-start"
	EventSimulationFrame EventKind = "simulation-frame"
	EventRoundEnded      EventKind = "round-end"
	EventGameEnded       EventKind = "game-over"
	EventInputReceived   EventKind = "input-received"
)

// Event is something a room reports to its participants.
type Event interface {
	Kind() EventKind
}

// EventSink receives every event a room emits, on the loop goroutine. It must not
// block and must not call back into the room.
type EventSink interface {
	Publish(src *Room, ev Event)
}

// EventSinkFunc adapts a function to an EventSink.
type EventSinkFunc func(*Room, Event)

func (f EventSinkFunc) Publish(src *Room, ev Event) { f(src, ev) }

// Dino is a body snapshot labeled with its owner.
type Dino struct {
	ID       string
	Name     string
	Color    int
	Position physics.Vec2
	Velocity physics.Vec2
	Alive    bool
}

// ParticipantInfo is the public view of one seat.
type ParticipantInfo struct {
	ID        string
	Name      string
	Color     int
	Host      bool
	Bot       bool
	Ready     bool
	Alive     bool
	Submitted bool
}

// Snapshot is the public view of a room.
type Snapshot struct {
	Code         string
	State        State
	Round        int
	HostID       string
	Participants []ParticipantInfo
}

type RoomUpdated struct {
	Snapshot Snapshot
}

type RoundStarted struct {
	Round int
	Dinos []Dino
}

type SimulationFrame struct {
	Round     int
	Dinos     []Dino
	ElapsedMs int64
}

type RoundEnded struct {
	Round      int
	Eliminated []string
	Remaining  []string
}

// GameEnded names the last dino standing. WinnerID is empty when nobody survived.
type GameEnded struct {
	WinnerID   string
	WinnerName string
}

type InputReceived struct {
	ParticipantID string
}

func (RoomUpdated) Kind() EventKind     { return EventRoomUpdated }
func (RoundStarted) Kind() EventKind    { return EventRoundStarted }
func (SimulationFrame) Kind() EventKind { return EventSimulationFrame }
func (RoundEnded) Kind() EventKind      { return EventRoundEnded }
func (GameEnded) Kind() EventKind       { return EventGameEnded }
func (InputReceived) Kind() EventKind   { return EventInputReceived }
