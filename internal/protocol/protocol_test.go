package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/request"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

func decodeMap(t *testing.T, frame []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(frame, &m))
	return m
}

func TestDecodeLogin(t *testing.T) {
	env, err := Decode([]byte(`{"event":"login","data":{"name":"Alice"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventLogin, env.Event)

	var req request.LoginRequest
	require.NoError(t, env.DecodeData(&req))
	assert.Equal(t, "Alice", req.Name)
}

func TestDecodeWithoutData(t *testing.T) {
	env, err := Decode([]byte(`{"event":"logout"}`))
	require.NoError(t, err)

	var req request.ChatRequest
	assert.NoError(t, env.DecodeData(&req))
	assert.Empty(t, req.Text)
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	for _, frame := range []string{`not json`, `{"data":{}}`, `[]`, `{"event":""}`} {
		_, err := Decode([]byte(frame))
		assert.ErrorIs(t, err, ErrMalformedFrame, frame)
	}
}

func TestDecodeDataTypeMismatch(t *testing.T) {
	env, err := Decode([]byte(`{"event":"login","data":{"name":42}}`))
	require.NoError(t, err)

	var req request.LoginRequest
	assert.ErrorIs(t, env.DecodeData(&req), ErrMalformedFrame)
}

func TestEncodeGameState(t *testing.T) {
	frame, err := Encode(model.NewGameStateEvent(&model.Projection{
		Phase:          model.PhasePlaying,
		GridSize:       8,
		You:            model.PublicParticipant{ID: "a", Name: "Alice"},
		Opponent:       &model.PublicParticipant{ID: "b", Name: "Bob"},
		CurrentTurn:    "a",
		MyShips:        []model.ShipCell{{X: 1, Y: 2, Hit: true}},
		MyShots:        []model.ShotView{{X: 3, Y: 3}},
		EnemyShotsOnMe: []model.ShotView{},
	}))
	require.NoError(t, err)

	m := decodeMap(t, frame)
	assert.Equal(t, "game.state", m["event"])
	data := m["data"].(map[string]any)
	assert.Equal(t, "playing", data["phase"])
	assert.Equal(t, float64(8), data["gridSize"])
	assert.Equal(t, "a", data["currentTurnPlayerId"])
	assert.Nil(t, data["winnerId"])
	assert.Equal(t, map[string]any{"id": "b", "name": "Bob"}, data["opponent"])
	assert.Equal(t, []any{map[string]any{"x": float64(1), "y": float64(2), "hit": true}}, data["myShips"])
	assert.Equal(t, []any{}, data["enemyShotsOnMe"])
}

func TestEncodeWaitingStateHasNulls(t *testing.T) {
	frame, err := Encode(model.NewGameStateEvent(&model.Projection{
		Phase:    model.PhaseWaiting,
		GridSize: 8,
		You:      model.PublicParticipant{ID: "c", Name: "Carol"},
	}))
	require.NoError(t, err)

	data := decodeMap(t, frame)["data"].(map[string]any)
	assert.Equal(t, "waiting", data["phase"])
	assert.Nil(t, data["opponent"])
	assert.Nil(t, data["currentTurnPlayerId"])
	assert.Equal(t, []any{}, data["myShips"])
	assert.Equal(t, []any{}, data["myShots"])
}

func TestEncodeError(t *testing.T) {
	frame, err := Encode(model.NewErrorEvent(model.EventError, model.ErrNotYourTurn))
	require.NoError(t, err)

	m := decodeMap(t, frame)
	assert.Equal(t, "error", m["event"])
	assert.Equal(t, "NOT_YOUR_TURN", m["data"].(map[string]any)["code"])
}

func TestEncodeLoginError(t *testing.T) {
	frame, err := Encode(model.NewErrorEvent(model.EventLoginError, model.ErrNameTaken))
	require.NoError(t, err)

	m := decodeMap(t, frame)
	assert.Equal(t, "login.error", m["event"])
	assert.Equal(t, "NAME_TAKEN", m["data"].(map[string]any)["code"])
}

func TestEncodeLoginOKAndUsers(t *testing.T) {
	users := []model.PublicParticipant{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}

	frame, err := Encode(model.Event{
		Type:    model.EventLoginOK,
		Payload: model.LoginOKPayload{You: users[1], Users: users},
	})
	require.NoError(t, err)
	data := decodeMap(t, frame)["data"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "b", "name": "Bob"}, data["you"])
	assert.Len(t, data["users"], 2)

	frame, err = Encode(model.Event{Type: model.EventUsersUpdate, Payload: model.UsersUpdatePayload{}})
	require.NoError(t, err)
	assert.Equal(t, []any{}, decodeMap(t, frame)["data"].(map[string]any)["users"])
}

func TestEncodeChat(t *testing.T) {
	frame, err := Encode(model.Event{
		Type:    model.EventChatReceived,
		Payload: model.ChatPayload{From: "Alice", Text: "ahoi"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"chat.received","data":{"from":"Alice","text":"ahoi"}}`, string(frame))

	frame, err = Encode(model.Event{Type: model.EventChatOK})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"chat.ok","data":{"received":true}}`, string(frame))
}

func TestEncodeUnknownPayload(t *testing.T) {
	_, err := Encode(model.Event{Type: "weird", Payload: 42})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedFrame))
}

func TestEncodeFrameRoundTrip(t *testing.T) {
	frame, err := EncodeFrame(EventShoot, map[string]int{"x": 2, "y": 7})
	require.NoError(t, err)

	env, err := Decode(frame)
	require.NoError(t, err)
	var req request.ShootRequest
	require.NoError(t, env.DecodeData(&req))
	x, y := req.Coordinates()
	assert.Equal(t, 2, x)
	assert.Equal(t, 7, y)
}
