package lobby

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/pixil98/dino-arena/internal/driver"
	"github.com/pixil98/dino-arena/internal/room"
)

// Directory tracks every live room by code and which room each session is seated in.
// Like the rooms it holds, it must only be used from the loop goroutine.
type Directory struct {
	rooms map[string]*room.Room
	seats map[string]string // session id -> room code

	sink     room.EventSink
	sched    driver.Scheduler
	newCode  func() string
	roomOpts []room.RoomOpt
}

func NewDirectory(sink room.EventSink, sched driver.Scheduler, opts ...DirectoryOpt) *Directory {
	d := &Directory{
		rooms:   map[string]*room.Room{},
		seats:   map[string]string{},
		sink:    sink,
		sched:   sched,
		newCode: NewCode,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// CreateRoom opens a room under a fresh code with the session as its host.
func (d *Directory) CreateRoom(session, name string) (*room.Room, error) {
	if _, ok := d.seats[session]; ok {
		return nil, room.ErrAlreadySeated
	}

	code := d.newCode()
	for d.rooms[code] != nil {
		code = d.newCode()
	}

	r := room.New(code, d.sink, d.sched, d.roomOpts...)
	d.rooms[code] = r

	if err := r.AddParticipant(session, NormalizeName(name)); err != nil {
		delete(d.rooms, code)
		return nil, err
	}
	d.seats[session] = code

	slog.Info("room created", "room", code, "host", session)
	return r, nil
}

// JoinRoom seats the session in the room with the given code. Codes are matched
// case-insensitively.
func (d *Directory) JoinRoom(code, session, name string) (*room.Room, error) {
	if _, ok := d.seats[session]; ok {
		return nil, room.ErrAlreadySeated
	}

	r, ok := d.rooms[NormalizeCode(code)]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	if err := r.AddParticipant(session, NormalizeName(name)); err != nil {
		return nil, err
	}
	d.seats[session] = r.Code()
	return r, nil
}

func (d *Directory) Room(code string) (*room.Room, bool) {
	r, ok := d.rooms[NormalizeCode(code)]
	return r, ok
}

// RoomByParticipant returns the room the session is seated in.
func (d *Directory) RoomByParticipant(session string) (*room.Room, bool) {
	code, ok := d.seats[session]
	if !ok {
		return nil, false
	}
	r, ok := d.rooms[code]
	return r, ok
}

// RemoveParticipant unseats the session. A room left with nobody who can act on it
// is closed and forgotten.
func (d *Directory) RemoveParticipant(session string) error {
	code, ok := d.seats[session]
	if !ok {
		return room.ErrNotInRoom
	}
	delete(d.seats, session)

	r, ok := d.rooms[code]
	if !ok {
		return room.ErrRoomNotFound
	}
	if err := r.RemoveParticipant(session); err != nil {
		return err
	}

	d.sweep(r)
	return nil
}

// Codes returns the codes of every live room, sorted.
func (d *Directory) Codes() []string {
	return slices.Sorted(maps.Keys(d.rooms))
}

func (d *Directory) Len() int {
	return len(d.rooms)
}

// Tick closes rooms that no human can reach any more. A room of only bots plays its
// game out and is collected here once it is over.
func (d *Directory) Tick(ctx context.Context) error {
	for _, code := range d.Codes() {
		d.sweep(d.rooms[code])
	}
	return nil
}

func (d *Directory) sweep(r *room.Room) {
	if r.Humans() > 0 {
		return
	}
	if s := r.State(); r.Len() > 0 && s != room.StateLobby && s != room.StateGameOver {
		return
	}

	r.Close()
	delete(d.rooms, r.Code())
	slog.Info("room closed", "room", r.Code())
}
