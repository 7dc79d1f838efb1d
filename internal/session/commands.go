package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pixil98/dino-arena/internal/display"
	"github.com/pixil98/dino-arena/internal/protocol"
)

var errQuit = errors.New("quit")

// UserError is a problem with what the user typed. It is shown to them and the
// session carries on.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func userErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// lineCommand turns the arguments of a typed command into a message for the game.
type lineCommand struct {
	name  string
	usage string
	help  string
	build func(s *lineSession, args []string) (protocol.Envelope, error)
}

var lineCommands = []lineCommand{
	{
		name:  "create",
		usage: "create",
		help:  "open a new room and become its host",
		build: func(s *lineSession, _ []string) (protocol.Envelope, error) {
			return protocol.NewEnvelope(protocol.MsgCreateRoom, protocol.CreateRoom{Name: s.name})
		},
	},
	{
		name:  "join",
		usage: "join <code>",
		help:  "join a friend's room",
		build: func(s *lineSession, args []string) (protocol.Envelope, error) {
			if len(args) != 1 {
				return protocol.Envelope{}, userErrorf("usage: join <code>")
			}
			return protocol.NewEnvelope(protocol.MsgJoinRoom, protocol.JoinRoom{Code: args[0], Name: s.name})
		},
	},
	{
		name:  "ready",
		usage: "ready",
		help:  "toggle whether you are ready",
		build: noArgs(protocol.MsgPlayerReady),
	},
	{
		name:  "start",
		usage: "start",
		help:  "start the game (host only)",
		build: noArgs(protocol.MsgStartGame),
	},
	{
		name:  "bot",
		usage: "bot add|remove",
		help:  "add or remove a computer player (host only)",
		build: func(_ *lineSession, args []string) (protocol.Envelope, error) {
			if len(args) == 1 {
				switch display.Fold(args[0]) {
				case "add":
					return protocol.NewEnvelope(protocol.MsgAddBot, nil)
				case "remove":
					return protocol.NewEnvelope(protocol.MsgRemoveBot, nil)
				}
			}
			return protocol.Envelope{}, userErrorf("usage: bot add|remove")
		},
	},
	{
		name:  "push",
		usage: "push <degrees> <power>",
		help:  "push your dino: 0 is right, 90 is down, power 0-100",
		build: func(_ *lineSession, args []string) (protocol.Envelope, error) {
			in, err := parsePush(args)
			if err != nil {
				return protocol.Envelope{}, err
			}
			return protocol.NewEnvelope(protocol.MsgPlayerInput, in)
		},
	},
	{
		name:  "again",
		usage: "again",
		help:  "return to the lobby after a game",
		build: noArgs(protocol.MsgPlayAgain),
	},
}

func noArgs(t protocol.MessageType) func(*lineSession, []string) (protocol.Envelope, error) {
	return func(*lineSession, []string) (protocol.Envelope, error) {
		return protocol.NewEnvelope(t, nil)
	}
}

func findCommand(name string) (lineCommand, bool) {
	name = display.Fold(name)
	for _, c := range lineCommands {
		if c.name == name {
			return c, true
		}
	}
	return lineCommand{}, false
}

func parsePush(args []string) (protocol.PlayerInput, error) {
	if len(args) != 2 {
		return protocol.PlayerInput{}, userErrorf("usage: push <degrees> <power>")
	}

	deg, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(deg) || math.IsInf(deg, 0) {
		return protocol.PlayerInput{}, userErrorf("%q is not a direction in degrees", args[0])
	}
	power, err := strconv.ParseFloat(args[1], 64)
	if err != nil || power < 0 || power > 100 {
		return protocol.PlayerInput{}, userErrorf("power must be a number from 0 to 100")
	}

	return protocol.PlayerInput{
		Angle: deg * math.Pi / 180,
		Power: power,
	}, nil
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range lineCommands {
		fmt.Fprintf(&b, "  %-24s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(&b, "  %-24s %s\n", "who", "show who is in your room")
	fmt.Fprintf(&b, "  %-24s %s\n", "help", "show this list")
	fmt.Fprintf(&b, "  %-24s %s", "quit", "leave the arena")
	return b.String()
}
