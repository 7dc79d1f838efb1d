package lobby

import "github.com/pixil98/dino-arena/internal/room"

type DirectoryOpt func(*Directory)

// WithRoomOpts applies opts to every room the directory creates.
func WithRoomOpts(opts ...room.RoomOpt) DirectoryOpt {
	return func(d *Directory) {
		d.roomOpts = append(d.roomOpts, opts...)
	}
}

// WithCodeGenerator replaces the random room code source.
func WithCodeGenerator(fn func() string) DirectoryOpt {
	return func(d *Directory) {
		d.newCode = fn
	}
}
