package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.Status:
		o.printStatus(v)
	case response.MatchHistory:
		o.printHistory(v)
	case response.PlayerRecord:
		fmt.Fprintf(o.w, "%s: %d wins, %d losses\n", v.Name, v.Wins, v.Losses)
	case response.GameState:
		o.printGameState(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printStatus(s response.Status) {
	fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)
	fmt.Fprintf(o.w, "Logged in (%d):\n", len(s.Participants))
	for _, p := range s.Participants {
		fmt.Fprintf(o.w, "  - %s\n", p.Name)
	}
	if len(s.Players) == 2 {
		fmt.Fprintf(o.w, "Match: %s vs %s (%d shots)\n", s.Players[0].Name, s.Players[1].Name, s.ShotCount)
		if name := nameOf(s.Players, s.CurrentTurn); name != "" {
			fmt.Fprintf(o.w, "Turn: %s\n", name)
		}
		if name := nameOf(s.Players, s.Winner); name != "" {
			fmt.Fprintf(o.w, "Winner: %s\n", name)
		}
	}
}

func nameOf(players []response.Participant, id *string) string {
	if id == nil {
		return ""
	}
	for _, p := range players {
		if p.ID == *id {
			return p.Name
		}
	}
	return ""
}

func (o *Output) printHistory(h response.MatchHistory) {
	if len(h.Matches) == 0 {
		fmt.Fprintln(o.w, "No matches played yet")
		return
	}
	for _, m := range h.Matches {
		result := "no winner"
		if m.Winner != nil {
			result = *m.Winner + " won"
		}
		fmt.Fprintf(o.w, "%s  %s vs %s  %s (%s, %d shots)\n",
			m.FinishedAt.Format("2006-01-02 15:04:05"),
			m.Players[0], m.Players[1], result, m.Reason, m.ShotCount)
	}
}

func (o *Output) printGameState(g response.GameState) {
	switch g.Phase {
	case "waiting":
		fmt.Fprintln(o.w, "Waiting for a match...")
		return
	case "finished":
		if g.WinnerID != nil && *g.WinnerID == g.You.ID {
			fmt.Fprintln(o.w, "You won!")
		} else {
			fmt.Fprintln(o.w, "You lost.")
		}
	default:
		opponent := "?"
		if g.Opponent != nil {
			opponent = g.Opponent.Name
		}
		turn := opponent + "'s turn"
		if g.IsMyTurn() {
			turn = "your turn"
		}
		fmt.Fprintf(o.w, "%s vs %s, %s\n", g.You.Name, opponent, turn)
	}
	fmt.Fprint(o.w, RenderBoards(g))
}

// RenderBoards draws the viewer's own waters and the enemy waters side by side.
// '#' is an intact ship cell, 'X' a hit, 'o' a miss and '.' unknown water.
func RenderBoards(g response.GameState) string {
	own := grid(g.GridSize)
	for _, c := range g.MyShips {
		own[c.Y][c.X] = '#'
	}
	for _, c := range g.EnemyShotsOnMe {
		own[c.Y][c.X] = shotMark(c.Hit)
	}
	enemy := grid(g.GridSize)
	for _, c := range g.MyShots {
		enemy[c.Y][c.X] = shotMark(c.Hit)
	}

	var b strings.Builder
	header := columnHeader(g.GridSize)
	pad := strings.Repeat(" ", len(header)-len("You"))
	fmt.Fprintf(&b, "You%s    Enemy\n", pad)
	fmt.Fprintf(&b, "%s    %s\n", header, header)
	for y := 0; y < g.GridSize; y++ {
		fmt.Fprintf(&b, "%2d %s    %2d %s\n", y, row(own[y]), y, row(enemy[y]))
	}
	return b.String()
}

func grid(size int) [][]byte {
	cells := make([][]byte, size)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", size))
	}
	return cells
}

func shotMark(hit bool) byte {
	if hit {
		return 'X'
	}
	return 'o'
}

func row(cells []byte) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

func columnHeader(size int) string {
	parts := make([]string, size)
	for x := range parts {
		parts[x] = fmt.Sprintf("%d", x%10)
	}
	return "   " + strings.Join(parts, " ")
}
