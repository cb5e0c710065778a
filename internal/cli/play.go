package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/apierr"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/request"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/dependencies/random"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/protocol"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/services/bot"
)

func newPlayCmd() *cobra.Command {
	var (
		auto     bool
		strategy string
		matches  int
	)

	cmd := &cobra.Command{
		Use:   "play <name>",
		Short: "Log in and play over the game socket",
		Long: `Log in under the given name and play. The first two players logged in
are paired; everyone else waits for the next match.

Interactive commands, one per line:
  x y         fire at column x, row y (0-indexed)
  /chat text  send a chat message
  /quit       log out and disconnect

With --auto the shots are chosen by a bot strategy instead.
Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if matches < 0 {
				return fmt.Errorf("matches must not be negative")
			}
			socketURL, err := cfg.SocketURL()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			opts := PlayOptions{
				Name:    args[0],
				Auto:    auto,
				Matches: matches,
				In:      os.Stdin,
				Out:     NewOutput(cfg.Output, cmd.OutOrStdout()),
				Verbose: cfg.Verbose,
			}
			if auto {
				opts.Strategy = bot.ForName(strategy, random.New())
			}

			result, err := Play(ctx, socketURL, opts)
			if err != nil {
				return err
			}
			opts.Out.PrintMessage(fmt.Sprintf("Disconnected after %d wins and %d losses", result.Wins, result.Losses))
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Let a bot fire whenever it is your turn")
	cmd.Flags().StringVar(&strategy, "strategy", "random", "Bot strategy for --auto: random, hunt")
	cmd.Flags().IntVar(&matches, "matches", 0, "Disconnect after this many finished matches (0 plays until interrupted)")

	return cmd
}

// PlayOptions configures a play session
type PlayOptions struct {
	Name     string
	Auto     bool
	Strategy bot.Strategy // required when Auto is set
	Matches  int          // stop after this many finished matches; 0 never stops
	In       io.Reader    // interactive commands; unused in auto mode
	Out      *Output
	Verbose  bool
}

// PlayResult tallies the matches finished during a session
type PlayResult struct {
	Wins   int
	Losses int
}

// Play connects to the game socket, logs in and plays until ctx is done, the
// server closes the socket, the player quits, or the requested number of
// matches has finished.
func Play(ctx context.Context, socketURL string, opts PlayOptions) (PlayResult, error) {
	if opts.Auto && opts.Strategy == nil {
		return PlayResult{}, errors.New("auto play needs a strategy")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return PlayResult{}, fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	s := &playSession{conn: conn, opts: opts}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.quitting.Store(true)
			_ = conn.Close()
		case <-stop:
		}
	}()

	if err := s.send(protocol.EventLogin, request.LoginRequest{Name: opts.Name}); err != nil {
		return PlayResult{}, err
	}
	if !opts.Auto && opts.In != nil {
		go s.readCommands()
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if s.quitting.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return s.result, nil
			}
			return s.result, fmt.Errorf("connection lost: %w", err)
		}

		env, err := protocol.Decode(frame)
		if err != nil {
			return s.result, err
		}
		done, err := s.handle(env)
		if err != nil {
			return s.result, err
		}
		if done {
			s.quit()
			return s.result, nil
		}
	}
}

type playSession struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	opts     PlayOptions
	quitting atomic.Bool

	lastPhase string
	result    PlayResult
}

// handle reacts to one server frame and reports whether the session is over
func (s *playSession) handle(env protocol.Envelope) (bool, error) {
	out := s.opts.Out

	switch model.EventType(env.Event) {
	case model.EventLoginOK:
		var ok response.LoginOK
		if err := env.DecodeData(&ok); err != nil {
			return false, err
		}
		out.PrintMessage(fmt.Sprintf("Logged in as %s (%d online)", ok.You.Name, len(ok.Users)))

	case model.EventLoginError:
		var apiErr apierr.APIError
		if err := env.DecodeData(&apiErr); err != nil {
			return false, err
		}
		return false, fmt.Errorf("login failed: %s (%s)", apiErr.Message, apiErr.Code)

	case model.EventUsersUpdate:
		if !s.opts.Verbose {
			return false, nil
		}
		var update response.UsersUpdate
		if err := env.DecodeData(&update); err != nil {
			return false, err
		}
		names := make([]string, len(update.Users))
		for i, u := range update.Users {
			names[i] = u.Name
		}
		out.PrintMessage("Online: " + strings.Join(names, ", "))

	case model.EventGameState:
		var state response.GameState
		if err := env.DecodeData(&state); err != nil {
			return false, err
		}
		return s.handleState(state)

	case model.EventError:
		var apiErr apierr.APIError
		if err := env.DecodeData(&apiErr); err != nil {
			return false, err
		}
		out.PrintMessage(fmt.Sprintf("Rejected: %s (%s)", apiErr.Message, apiErr.Code))

	case model.EventChatReceived:
		var chat response.ChatReceived
		if err := env.DecodeData(&chat); err != nil {
			return false, err
		}
		out.PrintMessage(fmt.Sprintf("[%s] %s", chat.From, chat.Text))
	}
	return false, nil
}

func (s *playSession) handleState(state response.GameState) (bool, error) {
	s.opts.Out.Print(state)

	previous := s.lastPhase
	s.lastPhase = state.Phase
	if state.Phase == string(model.PhaseFinished) && previous != string(model.PhaseFinished) {
		if state.WinnerID != nil && *state.WinnerID == state.You.ID {
			s.result.Wins++
		} else {
			s.result.Losses++
		}
		if s.opts.Matches > 0 && s.result.Wins+s.result.Losses >= s.opts.Matches {
			return true, nil
		}
	}

	if !s.opts.Auto || !state.IsMyTurn() {
		return false, nil
	}
	target, ok := s.opts.Strategy.ChooseTarget(state.GridSize, shotViews(state.MyShots))
	if !ok {
		return false, nil
	}
	return false, s.send(protocol.EventShoot, request.ShootRequest{X: target.X, Y: target.Y})
}

// readCommands turns stdin lines into frames until input ends or the player quits
func (s *playSession) readCommands() {
	scanner := bufio.NewScanner(s.opts.In)
	for scanner.Scan() {
		event, data, err := parseCommand(scanner.Text())
		if err != nil {
			s.opts.Out.PrintMessage(err.Error())
			continue
		}
		if event == "" {
			continue
		}
		if event == protocol.EventLogout {
			s.quit()
			return
		}
		if err := s.send(event, data); err != nil {
			return
		}
	}
}

// quit logs out and closes the socket; the read loop then ends cleanly
func (s *playSession) quit() {
	s.quitting.Store(true)
	_ = s.send(protocol.EventLogout, nil)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = s.conn.Close()
}

func (s *playSession) send(event string, data any) error {
	frame, err := protocol.EncodeFrame(event, data)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

// parseCommand maps an interactive input line to an outbound event.
// Blank lines yield an empty event.
func parseCommand(line string) (string, any, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", nil, nil
	case line == "/quit":
		return protocol.EventLogout, nil, nil
	case line == "/chat" || strings.HasPrefix(line, "/chat "):
		text := strings.TrimSpace(strings.TrimPrefix(line, "/chat"))
		return protocol.EventChatSend, request.ChatRequest{Text: text}, nil
	case strings.HasPrefix(line, "/"):
		return "", nil, fmt.Errorf("unknown command %q", line)
	}

	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 2 {
		return "", nil, fmt.Errorf("expected \"x y\", got %q", line)
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return "", nil, fmt.Errorf("coordinates must be integers, got %q", line)
	}
	return protocol.EventShoot, request.ShootRequest{X: x, Y: y}, nil
}

func shotViews(cells []response.Cell) []model.ShotView {
	out := make([]model.ShotView, len(cells))
	for i, c := range cells {
		out[i] = model.ShotView{X: c.X, Y: c.Y, Hit: c.Hit}
	}
	return out
}
