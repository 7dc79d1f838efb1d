package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType names the payload carried by an Envelope.
type MessageType string

const (
	// Client to server.
	MsgCreateRoom  MessageType = "create-room"
	MsgJoinRoom    MessageType = "join-room"
	MsgPlayerReady MessageType = "player-ready"
	MsgStartGame   MessageType = "start-game"
	MsgAddBot      MessageType = "add-bot"
	MsgRemoveBot   MessageType = "remove-bot"
	MsgPlayerInput MessageType = "player-input"
	MsgPlayAgain   MessageType = "play-again"

	// Server to client.
	MsgRoomCreated     MessageType = "room-created"
	MsgJoinResult      MessageType = "join-result"
	MsgRoomUpdate      MessageType = "room-update"
	MsgRoundStart      MessageType = "round-start"
	MsgSimulationFrame MessageType = "simulation-frame"
	MsgRoundEnd        MessageType = "round-end"
	MsgGameOver        MessageType = "game-over"
	MsgInputReceived   MessageType = "input-received"
	MsgError           MessageType = "error"
)

// Envelope is the unit sent over every transport, in both directions.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope wraps payload in an Envelope. A nil payload is left empty.
func NewEnvelope(t MessageType, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: t}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling %s payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: b}, nil
}

// Decode reads an encoded Envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, nil
}

// Parse unmarshals the payload into the struct matching its type.
func (e *Envelope) Parse() (any, error) {
	var target any
	switch e.Type {
	case MsgCreateRoom:
		target = &CreateRoom{}
	case MsgJoinRoom:
		target = &JoinRoom{}
	case MsgPlayerReady:
		target = &PlayerReady{}
	case MsgStartGame:
		target = &StartGame{}
	case MsgAddBot:
		target = &AddBot{}
	case MsgRemoveBot:
		target = &RemoveBot{}
	case MsgPlayerInput:
		target = &PlayerInput{}
	case MsgPlayAgain:
		target = &PlayAgain{}
	case MsgRoomCreated:
		target = &RoomCreated{}
	case MsgJoinResult:
		target = &JoinResult{}
	case MsgRoomUpdate:
		target = &RoomUpdate{}
	case MsgRoundStart:
		target = &RoundStart{}
	case MsgSimulationFrame:
		target = &SimulationFrame{}
	case MsgRoundEnd:
		target = &RoundEnd{}
	case MsgGameOver:
		target = &GameOver{}
	case MsgInputReceived:
		target = &InputReceived{}
	case MsgError:
		target = &Error{}
	default:
		return nil, fmt.Errorf("unknown message type: %q", e.Type)
	}

	if len(e.Payload) == 0 {
		return target, nil
	}

	if err := json.Unmarshal(e.Payload, target); err != nil {
		return nil, fmt.Errorf("parsing %s payload: %w", e.Type, err)
	}
	return target, nil
}

type CreateRoom struct {
	Name string `json:"name"`
}

type JoinRoom struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type PlayerReady struct{}

type StartGame struct{}

type AddBot struct{}

type RemoveBot struct{}

// PlayerInput is a push: angle in radians (0 right, π/2 down) and power 0-100.
type PlayerInput struct {
	Angle float64 `json:"angle"`
	Power float64 `json:"power"`
}

type PlayAgain struct{}

type RoomCreated struct {
	Code string `json:"roomCode"`
}

type JoinResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Dino struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	ColorIndex int    `json:"colorIndex"`
	Position   Vec2   `json:"position"`
	Velocity   Vec2   `json:"velocity"`
	Alive      bool   `json:"alive"`
}

type PlayerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"colorIndex"`
	Ready      bool   `json:"ready"`
	Host       bool   `json:"host"`
	Bot        bool   `json:"bot"`
	Alive      bool   `json:"alive"`
	Submitted  bool   `json:"submitted"`
}

type RoomUpdate struct {
	Code    string       `json:"roomCode"`
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
	State   string       `json:"state"`
	Round   int          `json:"round"`
}

type RoundStart struct {
	Round int    `json:"round"`
	Dinos []Dino `json:"dinos"`
}

type SimulationFrame struct {
	Dinos     []Dino `json:"dinos"`
	Timestamp int64  `json:"timestamp"`
}

type RoundEnd struct {
	Round      int      `json:"round"`
	Eliminated []string `json:"eliminated"`
	Remaining  []string `json:"remaining"`
}

type GameOver struct {
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
}

type InputReceived struct {
	PlayerID string `json:"playerId"`
}

type Error struct {
	Message string `json:"message"`
}
