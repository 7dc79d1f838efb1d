package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/dino-arena/internal/protocol"
)

var ColorNames = []string{"Green", "Red", "Blue", "Orange", "Purple"}

// ColorName names a dino color slot.
func ColorName(i int) string {
	if i >= 0 && i < len(ColorNames) {
		return ColorNames[i]
	}
	return fmt.Sprintf("Color %d", i)
}

var templateFuncs = func() template.FuncMap {
	f := sprig.TxtFuncMap()
	f["colorName"] = ColorName
	f["capitalize"] = Capitalize
	return f
}()

var templates = template.Must(template.New("").Funcs(templateFuncs).Parse(`
{{- define "room-created" -}}
Room {{ .Code }} created. Share the code so others can join.
{{- end }}

{{- define "join-result" -}}
{{ if .Success }}You joined the room.{{ else }}Could not join: {{ .Error }}.{{ end }}
{{- end }}

{{- define "room-update" -}}
Room {{ .Code }}: {{ .State }}{{ if .Round }}, round {{ .Round }}{{ end }}
{{ range .Players }}  {{ colorName .ColorIndex | printf "%-7s" }}{{ .Name }}{{ if .Tags }} ({{ join ", " .Tags }}){{ end }}
{{ end }}
{{- end }}

{{- define "round-start" -}}
Round {{ .Round }}! {{ .Count }} dinos on the platform.
{{- if .Alive }} Push within {{ .Seconds }} seconds: push <degrees> <power>{{ else }} You are watching.{{ end }}
{{- end }}

{{- define "simulation-frame" -}}
{{ .Seconds }}s: {{ .Standing }} of {{ .Total }} still standing
{{- end }}

{{- define "round-end" -}}
Round {{ .Round }} over. Knocked off: {{ if .Eliminated }}{{ join ", " .Eliminated }}{{ else }}nobody{{ end }}.
{{- if .Remaining }} Still standing: {{ join ", " .Remaining }}.{{ end }}
{{- end }}

{{- define "game-over" -}}
{{ if .Winner }}{{ .Winner | upper }} WINS!{{ else }}No one survived.{{ end }} Type 'again' to return to the lobby.
{{- end }}

{{- define "input-received" -}}
{{ if .Self }}Your push is locked in.{{ else }}{{ .Name }} locked in a push.{{ end }}
{{- end }}

{{- define "error" -}}
{{ .Message | capitalize }}.
{{- end }}
`))

type playerLine struct {
	Name       string
	ColorIndex int
	Tags       []string
}

type roomData struct {
	Code    string
	State   string
	Round   int
	Players []playerLine
}

// View turns the envelopes one session receives into text, remembering enough
// about the room to name participants.
type View struct {
	self    string
	room    *protocol.RoomUpdate
	names   map[string]string
	players int
}

func NewView(self string) *View {
	return &View{
		self:  self,
		names: map[string]string{},
	}
}

// Room returns the latest room update, if the session is in a room.
func (v *View) Room() (protocol.RoomUpdate, bool) {
	if v.room == nil {
		return protocol.RoomUpdate{}, false
	}
	return *v.room, true
}

// Name returns the display name for a participant id.
func (v *View) Name(id string) string {
	if n, ok := v.names[id]; ok {
		return n
	}
	return id
}

// Render returns the text for env, or "" if it is not worth showing.
func (v *View) Render(env protocol.Envelope) (string, error) {
	msg, err := env.Parse()
	if err != nil {
		return "", err
	}

	var data any
	switch m := msg.(type) {
	case *protocol.RoomCreated, *protocol.JoinResult, *protocol.Error:
		data = m

	case *protocol.RoomUpdate:
		changed := len(m.Players) != v.players
		v.track(m)
		if m.State != "lobby" && !changed {
			return "", nil
		}
		data = v.roomData(m)

	case *protocol.RoundStart:
		alive := false
		for _, d := range m.Dinos {
			v.names[d.PlayerID] = d.PlayerName
			alive = alive || d.PlayerID == v.self
		}
		data = struct {
			Round, Count, Seconds int
			Alive                 bool
		}{m.Round, len(m.Dinos), 5, alive}

	case *protocol.SimulationFrame:
		if m.Timestamp == 0 || m.Timestamp%1000 != 0 {
			return "", nil
		}
		standing := 0
		for _, d := range m.Dinos {
			if d.Alive {
				standing++
			}
		}
		data = struct {
			Seconds         int64
			Standing, Total int
		}{m.Timestamp / 1000, standing, len(m.Dinos)}

	case *protocol.RoundEnd:
		data = struct {
			Round                 int
			Eliminated, Remaining []string
		}{m.Round, v.nameAll(m.Eliminated), v.nameAll(m.Remaining)}

	case *protocol.GameOver:
		winner := ""
		if m.WinnerID != "" {
			winner = m.WinnerName
		}
		data = struct{ Winner string }{winner}

	case *protocol.InputReceived:
		data = struct {
			Self bool
			Name string
		}{m.PlayerID == v.self, v.Name(m.PlayerID)}

	default:
		return "", nil
	}

	return execute(string(env.Type), data)
}

// Who renders the current roster regardless of state.
func (v *View) Who() (string, error) {
	if v.room == nil {
		return "You are not in a room.", nil
	}
	return execute("room-update", v.roomData(v.room))
}

func (v *View) track(m *protocol.RoomUpdate) {
	v.room = m
	v.players = len(m.Players)
	for _, p := range m.Players {
		v.names[p.ID] = p.Name
	}
}

func (v *View) roomData(m *protocol.RoomUpdate) roomData {
	d := roomData{
		Code:  m.Code,
		State: Title(stateLabel(m.State)),
		Round: m.Round,
	}
	for _, p := range m.Players {
		var tags []string
		if p.ID == v.self {
			tags = append(tags, "you")
		}
		if p.Host {
			tags = append(tags, "host")
		}
		if p.Bot {
			tags = append(tags, "bot")
		}
		if p.Ready && m.State == "lobby" {
			tags = append(tags, "ready")
		}
		if !p.Alive && m.State != "lobby" {
			tags = append(tags, "out")
		}
		d.Players = append(d.Players, playerLine{Name: p.Name, ColorIndex: p.ColorIndex, Tags: tags})
	}
	return d
}

func (v *View) nameAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, v.Name(id))
	}
	return out
}

func stateLabel(state string) string {
	switch state {
	case "input":
		return "choosing pushes"
	case "simulation":
		return "pushing"
	case "gameover":
		return "game over"
	default:
		return state
	}
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return Wrap(strings.TrimRight(buf.String(), "\n")), nil
}
