package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/dino-arena/internal/display"
	"github.com/pixil98/dino-arena/internal/lobby"
	"github.com/pixil98/dino-arena/internal/protocol"
)

const banner = `Welcome to Dino Arena!
Push the other dinos off the platform and be the last one standing.
`

type lineSession struct {
	id   string
	name string
	conn io.ReadWriter
	br   *bufio.Reader
	view *display.View
	gw   Dispatcher
}

// RunLine runs a text session, as used over telnet and ssh, until the user quits
// or the connection drops.
func (m *Manager) RunLine(ctx context.Context, id string, conn io.ReadWriter) error {
	s := &lineSession{
		id:   id,
		conn: conn,
		br:   bufio.NewReader(conn),
		view: display.NewView(id),
		gw:   m.gw,
	}

	if err := s.writeLine(banner); err != nil {
		return err
	}

	name, err := prompt(conn, s.br, "What should we call you? ", withMaxTries(3), withValidator(
		func(str string) (bool, string) {
			if str == "" {
				return false, "Everyone needs a name.\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return fmt.Errorf("reading name: %w", err)
	}
	s.name = lobby.NormalizeName(name)

	outbox, unsub, err := m.subscribe(ctx, id)
	if err != nil {
		return fmt.Errorf("subscribing session: %w", err)
	}
	defer unsub()
	defer m.disconnect(ctx, id)

	slog.InfoContext(ctx, "line session started", "session", id, "name", s.name)

	if err := s.writeLine(fmt.Sprintf("Hello, %s! Type 'create' to open a room or 'join <code>' to join one. 'help' lists every command.", s.name)); err != nil {
		return err
	}

	err = s.play(ctx, outbox)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (s *lineSession) play(ctx context.Context, outbox <-chan []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		for {
			line, err := s.br.ReadString('\n')
			if line != "" {
				select {
				case inputChan <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					inputErrChan <- err
				}
				return
			}
		}
	}()

	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case data := <-outbox:
			if err := s.show(data); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			err := s.exec(ctx, strings.Fields(line))
			if err != nil {
				var userErr *UserError
				if !errors.As(err, &userErr) {
					return err
				}
				if err := s.writeLine(display.Capitalize(userErr.Message)); err != nil {
					return err
				}
			}

			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

func (s *lineSession) exec(ctx context.Context, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	switch display.Fold(fields[0]) {
	case "quit", "exit":
		_ = s.writeLine("Goodbye!")
		return errQuit
	case "help", "?":
		return s.writeLine(helpText())
	case "who":
		text, err := s.view.Who()
		if err != nil {
			return err
		}
		return s.writeLine(text)
	}

	cmd, ok := findCommand(fields[0])
	if !ok {
		return userErrorf("unknown command %q, type 'help' for a list", fields[0])
	}

	env, err := cmd.build(s, fields[1:])
	if err != nil {
		return err
	}

	if err := s.gw.Dispatch(ctx, s.id, env); err != nil {
		return fmt.Errorf("dispatching %s: %w", env.Type, err)
	}
	return nil
}

// show renders one message from the game, if it has anything worth saying.
func (s *lineSession) show(data []byte) error {
	env, err := protocol.Decode(data)
	if err != nil {
		slog.Warn("undecodable message for session", "session", s.id, "error", err)
		return nil
	}

	text, err := s.view.Render(env)
	if err != nil {
		slog.Warn("rendering message for session", "session", s.id, "type", env.Type, "error", err)
		return nil
	}
	if text == "" {
		return nil
	}

	if err := s.writeLine("\n" + text); err != nil {
		return err
	}
	return s.prompt()
}

func (s *lineSession) prompt() error {
	p := "> "
	if room, ok := s.view.Room(); ok {
		p = fmt.Sprintf("[%s] > ", room.Code)
	}
	_, err := io.WriteString(s.conn, p)
	return err
}

func (s *lineSession) writeLine(msg string) error {
	_, err := io.WriteString(s.conn, msg+"\n")
	return err
}
