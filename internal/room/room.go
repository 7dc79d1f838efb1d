package room

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pixil98/dino-arena/internal/bot"
	"github.com/pixil98/dino-arena/internal/driver"
	"github.com/pixil98/dino-arena/internal/physics"
)

const (
	MaxParticipants = 5
	MinParticipants = 2

	InputPhase       = 5 * time.Second
	SimulationLength = 3 * time.Second
	RoundPause       = 1500 * time.Millisecond

	NoWinnerName = "No one"

	simulationTicks = int(SimulationLength * physics.TickRate / time.Second)
)

// BotPolicy picks an input for a bot from the dinos at the start of a round.
type BotPolicy interface {
	Decide(botID string, dinos []physics.DinoState) physics.Input
}

// Room is one arena and its roster. A Room is not safe for concurrent use; every
// method and every scheduled callback must run on the same loop.
type Room struct {
	code  string
	state State
	round int

	participants []*participant
	botsAdded    int

	sim   *physics.Simulation
	ticks int
	timer driver.Timer

	sink   EventSink
	sched  driver.Scheduler
	policy BotPolicy
}

func New(code string, sink EventSink, sched driver.Scheduler, opts ...RoomOpt) *Room {
	r := &Room{
		code:  code,
		state: StateLobby,
		sink:  sink,
		sched: sched,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.policy == nil {
		r.policy = bot.NewPolicy(nil)
	}

	return r
}

func (r *Room) Code() string { return r.code }

func (r *Room) State() State { return r.state }

func (r *Room) Round() int { return r.round }

func (r *Room) Len() int { return len(r.participants) }

// Humans returns the number of participants that are not bots.
func (r *Room) Humans() int {
	n := 0
	for _, p := range r.participants {
		if !p.bot {
			n++
		}
	}
	return n
}

// HumanIDs returns the ids of every participant that is not a bot, in seat order.
func (r *Room) HumanIDs() []string {
	var ids []string
	for _, p := range r.participants {
		if !p.bot {
			ids = append(ids, p.id)
		}
	}
	return ids
}

func (r *Room) HostID() string {
	for _, p := range r.participants {
		if p.host {
			return p.id
		}
	}
	return ""
}

func (r *Room) Participant(id string) (ParticipantInfo, bool) {
	p := r.find(id)
	if p == nil {
		return ParticipantInfo{}, false
	}
	return p.info(), true
}

func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		Code:         r.code,
		State:        r.state,
		Round:        r.round,
		HostID:       r.HostID(),
		Participants: make([]ParticipantInfo, 0, len(r.participants)),
	}
	for _, p := range r.participants {
		s.Participants = append(s.Participants, p.info())
	}
	return s
}

// Dinos returns the current bodies labeled with their owners, or nil outside of a round.
func (r *Room) Dinos() []Dino {
	if r.sim == nil {
		return nil
	}
	return r.dinos(r.sim.States())
}

// AddParticipant seats a human. The first human in the room becomes host.
func (r *Room) AddParticipant(id, name string) error {
	if r.state != StateLobby {
		return ErrWrongState
	}
	if r.find(id) != nil {
		return ErrParticipantExists
	}
	if len(r.participants) >= MaxParticipants {
		return ErrRoomFull
	}

	p := &participant{id: id, name: name, alive: true}
	r.participants = append(r.participants, p)

	// A bot only holds the host seat until a human is available.
	if cur := r.host(); cur == nil || cur.bot {
		r.setHost(p)
	}
	r.recolor()

	slog.Info("participant joined", "room", r.code, "participant", id, "name", name)
	r.emit(RoomUpdated{Snapshot: r.Snapshot()})
	return nil
}

// RemoveParticipant drops a participant, human or bot, at any point in the game.
// A round in progress keeps going without them.
func (r *Room) RemoveParticipant(id string) error {
	i := r.index(id)
	if i < 0 {
		return ErrNotInRoom
	}

	p := r.participants[i]
	r.participants = slices.Delete(r.participants, i, i+1)
	if r.sim != nil {
		r.sim.Remove(id)
	}

	slog.Info("participant left", "room", r.code, "participant", id)

	if len(r.participants) == 0 {
		r.Close()
		return nil
	}

	if p.host {
		r.setHost(r.successor())
	}
	r.recolor()

	r.emit(RoomUpdated{Snapshot: r.Snapshot()})

	if r.state == StateCollectingInputs && r.allSubmitted() {
		_ = r.beginSimulation()
	}
	return nil
}

// SetReady toggles a participant's ready flag. Readiness is informational only.
func (r *Room) SetReady(id string) error {
	p := r.find(id)
	if p == nil {
		return ErrNotInRoom
	}
	if r.state != StateLobby {
		return ErrWrongState
	}

	p.ready = !p.ready
	r.emit(RoomUpdated{Snapshot: r.Snapshot()})
	return nil
}

func (r *Room) StartGame(id string) error {
	if err := r.checkHost(id); err != nil {
		return err
	}
	if r.state != StateLobby {
		return ErrWrongState
	}
	if len(r.participants) < MinParticipants {
		return ErrTooFewPlayers
	}

	r.round = 0
	for _, p := range r.participants {
		p.alive = true
	}

	slog.Info("game started", "room", r.code, "participants", len(r.participants))
	r.startRound()
	return nil
}

func (r *Room) AddBot(id string) error {
	if err := r.checkHost(id); err != nil {
		return err
	}
	if r.state != StateLobby {
		return ErrWrongState
	}
	if len(r.participants) >= MaxParticipants {
		return ErrRoomFull
	}

	botID, name := bot.Identity(r.botsAdded)
	r.botsAdded++

	r.participants = append(r.participants, &participant{
		id:    botID,
		name:  name,
		bot:   true,
		ready: true,
		alive: true,
	})
	r.recolor()

	r.emit(RoomUpdated{Snapshot: r.Snapshot()})
	return nil
}

// RemoveBot removes the most recently seated bot.
func (r *Room) RemoveBot(id string) error {
	if err := r.checkHost(id); err != nil {
		return err
	}
	if r.state != StateLobby {
		return ErrWrongState
	}

	for _, p := range slices.Backward(r.participants) {
		if p.bot {
			return r.RemoveParticipant(p.id)
		}
	}
	return ErrNoBots
}

// SubmitInput records an alive participant's push for the current round. A second
// submission replaces the first.
func (r *Room) SubmitInput(id string, in physics.Input) error {
	p := r.find(id)
	if p == nil {
		return ErrNotInRoom
	}
	if r.state != StateCollectingInputs {
		return ErrWrongState
	}
	if !p.alive {
		return ErrNotAlive
	}

	first := p.input == nil
	in = in.Sanitize()
	p.input = &in

	if first {
		r.emit(InputReceived{ParticipantID: id})
	}
	if r.allSubmitted() {
		_ = r.beginSimulation()
	}
	return nil
}

// PlayAgain returns a finished game to the lobby with the same roster.
func (r *Room) PlayAgain(id string) error {
	if r.find(id) == nil {
		return ErrNotInRoom
	}
	if r.state != StateGameOver {
		return ErrWrongState
	}

	r.cancelTimer()
	r.sim = nil
	r.state = StateLobby
	r.round = 0
	for _, p := range r.participants {
		p.ready = p.bot
		p.alive = true
		p.input = nil
	}

	r.emit(RoomUpdated{Snapshot: r.Snapshot()})
	return nil
}

// Close cancels any pending timer. The room emits nothing afterwards.
func (r *Room) Close() {
	r.cancelTimer()
	r.sim = nil
	r.sink = nil
}

func (r *Room) startRound() {
	var alive []string
	for _, p := range r.participants {
		p.input = nil
		if p.alive {
			alive = append(alive, p.id)
		}
	}

	// Disconnects during the pause can leave too few players for another round.
	if len(alive) <= 1 {
		r.finishGame(alive)
		return
	}

	r.round++
	r.state = StateCollectingInputs
	r.ticks = 0
	r.sim = physics.NewSimulation(physics.PlatformRadius, physics.BodyRadius)
	r.sim.Place(alive)

	states := r.sim.States()
	slog.Debug("round started", "room", r.code, "round", r.round, "alive", len(alive))
	r.emit(RoundStarted{Round: r.round, Dinos: r.dinos(states)})
	r.emit(RoomUpdated{Snapshot: r.Snapshot()})

	r.arm(InputPhase, r.inputDeadline)

	for _, p := range r.participants {
		if !p.bot || !p.alive {
			continue
		}
		in := r.policy.Decide(p.id, states).Sanitize()
		p.input = &in
		r.emit(InputReceived{ParticipantID: p.id})
	}

	// With no humans left alive the bots' inputs complete the round immediately.
	if r.allSubmitted() {
		_ = r.beginSimulation()
	}
}

func (r *Room) inputDeadline() {
	r.timer = nil
	_ = r.beginSimulation()
}

// beginSimulation applies every recorded input and starts stepping the world.
func (r *Room) beginSimulation() error {
	if r.state != StateCollectingInputs {
		return ErrAlreadyResolved
	}

	r.cancelTimer()
	r.state = StateSimulating
	r.emit(RoomUpdated{Snapshot: r.Snapshot()})

	for _, p := range r.participants {
		if p.alive && p.input != nil {
			r.sim.ApplyForce(p.id, p.input.Angle, p.input.Power)
		}
	}

	r.ticks = 0
	r.arm(physics.TickInterval, r.step)
	return nil
}

func (r *Room) step() {
	r.timer = nil
	if r.state != StateSimulating || r.sim == nil {
		return
	}

	r.sim.Step(physics.TickDT)
	r.ticks++

	r.emit(SimulationFrame{
		Round:     r.round,
		Dinos:     r.dinos(r.sim.States()),
		ElapsedMs: int64(r.ticks) * 1000 / physics.TickRate,
	})

	if r.ticks >= simulationTicks {
		r.endRound()
		return
	}
	r.arm(physics.TickInterval, r.step)
}

func (r *Room) endRound() {
	eliminated := []string{}
	remaining := []string{}
	for _, d := range r.sim.States() {
		p := r.find(d.ID)
		if p == nil {
			continue
		}
		if d.Alive {
			remaining = append(remaining, d.ID)
			continue
		}
		p.alive = false
		eliminated = append(eliminated, d.ID)
	}

	slog.Debug("round ended", "room", r.code, "round", r.round, "eliminated", len(eliminated), "remaining", len(remaining))
	r.emit(RoundEnded{Round: r.round, Eliminated: eliminated, Remaining: remaining})

	if len(remaining) <= 1 {
		r.finishGame(remaining)
		return
	}

	r.arm(RoundPause, func() {
		r.timer = nil
		r.startRound()
	})
}

func (r *Room) finishGame(remaining []string) {
	r.cancelTimer()
	r.state = StateGameOver
	r.sim = nil

	ev := GameEnded{WinnerName: NoWinnerName}
	if len(remaining) == 1 {
		if p := r.find(remaining[0]); p != nil {
			ev = GameEnded{WinnerID: p.id, WinnerName: p.name}
		}
	}

	slog.Info("game over", "room", r.code, "rounds", r.round, "winner", ev.WinnerName)
	r.emit(ev)
	r.emit(RoomUpdated{Snapshot: r.Snapshot()})
}

// arm replaces the pending timer. A room never has more than one.
func (r *Room) arm(d time.Duration, fn func()) {
	r.cancelTimer()
	r.timer = r.sched.AfterFunc(d, fn)
}

func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) allSubmitted() bool {
	for _, p := range r.participants {
		if p.alive && p.input == nil {
			return false
		}
	}
	return true
}

func (r *Room) checkHost(id string) error {
	p := r.find(id)
	if p == nil {
		return ErrNotInRoom
	}
	if !p.host {
		return ErrNotHost
	}
	return nil
}

func (r *Room) find(id string) *participant {
	if i := r.index(id); i >= 0 {
		return r.participants[i]
	}
	return nil
}

func (r *Room) index(id string) int {
	return slices.IndexFunc(r.participants, func(p *participant) bool { return p.id == id })
}

func (r *Room) host() *participant {
	for _, p := range r.participants {
		if p.host {
			return p
		}
	}
	return nil
}

func (r *Room) setHost(p *participant) {
	for _, q := range r.participants {
		q.host = q == p
	}
}

// successor picks the next host: the earliest human, otherwise the earliest bot.
func (r *Room) successor() *participant {
	for _, p := range r.participants {
		if !p.bot {
			return p
		}
	}
	if len(r.participants) > 0 {
		return r.participants[0]
	}
	return nil
}

// recolor assigns colors by seat so they always form 0..n-1.
func (r *Room) recolor() {
	for i, p := range r.participants {
		p.color = i
	}
}

func (r *Room) dinos(states []physics.DinoState) []Dino {
	out := make([]Dino, 0, len(states))
	for _, s := range states {
		d := Dino{
			ID:       s.ID,
			Position: s.Position,
			Velocity: s.Velocity,
			Alive:    s.Alive,
		}
		if p := r.find(s.ID); p != nil {
			d.Name = p.name
			d.Color = p.color
		}
		out = append(out, d)
	}
	return out
}

func (r *Room) emit(ev Event) {
	if r.sink != nil {
		r.sink.Publish(r, ev)
	}
}
