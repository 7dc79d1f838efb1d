package room

type RoomOpt func(*Room)

// WithBotPolicy sets how bots choose their pushes.
func WithBotPolicy(p BotPolicy) RoomOpt {
	return func(r *Room) {
		r.policy = p
	}
}
