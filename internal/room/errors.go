package room

import "errors"

// Kind classifies why an operation was rejected.
type Kind int

const (
	KindNone Kind = iota
	KindCapacity
	KindState
	KindAuthorization
	KindNotFound
	KindResolved
)

func (k Kind) String() string {
	switch k {
	case KindCapacity:
		return "capacity"
	case KindState:
		return "state-mismatch"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not-found"
	case KindResolved:
		return "already-resolved"
	default:
		return "none"
	}
}

// Rejection is returned when an operation is not allowed. It is an expected
// outcome, not a failure, and its message is fit to show a player.
type Rejection struct {
	Kind    Kind
	Message string
}

func (e *Rejection) Error() string {
	return e.Message
}

func reject(kind Kind, msg string) *Rejection {
	return &Rejection{Kind: kind, Message: msg}
}

var (
	ErrRoomFull          = reject(KindCapacity, "room is full")
	ErrWrongState        = reject(KindState, "that can't be done right now")
	ErrTooFewPlayers     = reject(KindState, "need at least 2 players to start")
	ErrAlreadySeated     = reject(KindState, "already in a room")
	ErrParticipantExists = reject(KindState, "already in this room")
	ErrNotAlive          = reject(KindState, "you have been eliminated")
	ErrNotHost           = reject(KindAuthorization, "only the host can do that")
	ErrNotInRoom         = reject(KindNotFound, "not in a room")
	ErrRoomNotFound      = reject(KindNotFound, "room not found")
	ErrNoBots            = reject(KindNotFound, "no bots to remove")
	ErrAlreadyResolved   = reject(KindResolved, "already underway")
)

// KindOf returns the rejection kind of err, or KindNone if err is not a Rejection.
func KindOf(err error) Kind {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Kind
	}
	return KindNone
}
